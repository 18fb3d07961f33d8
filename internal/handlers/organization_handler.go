package handlers

import (
	"kusystem/internal/middleware"
	"kusystem/internal/services"
	"kusystem/pkg/response"

	"github.com/gin-gonic/gin"
)

// OrganizationHandler 组织处理器
type OrganizationHandler struct {
	orgService  *services.OrganizationService
	userService *services.UserService
}

// NewOrganizationHandler 创建组织处理器
func NewOrganizationHandler(orgService *services.OrganizationService, userService *services.UserService) *OrganizationHandler {
	return &OrganizationHandler{orgService: orgService, userService: userService}
}

// Create 创建组织，创建者自动成为owner
// POST /api/v1/organizations
func (h *OrganizationHandler) Create(c *gin.Context) {
	user, ok := resolveUser(c, h.userService)
	if !ok {
		return
	}

	var req services.CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	tenant, err := h.orgService.Create(user, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Created(c, tenant)
}

// ListMine 获取当前用户所属的组织列表
// GET /api/v1/organizations/me
func (h *OrganizationHandler) ListMine(c *gin.Context) {
	user, ok := resolveUser(c, h.userService)
	if !ok {
		return
	}

	orgs, err := h.orgService.ListMine(user.ID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, orgs)
}

// Get 获取当前组织详情
// GET /api/v1/organization
func (h *OrganizationHandler) Get(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	tenant, err := h.orgService.GetByID(tenantID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, tenant)
}

// Update 更新当前组织基础信息
// PATCH /api/v1/organization
func (h *OrganizationHandler) Update(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	var req services.UpdateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	tenant, err := h.orgService.Update(tenantID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, tenant)
}
