package handlers

import (
	"kusystem/internal/middleware"
	"kusystem/internal/services"
	"kusystem/pkg/pagination"
	"kusystem/pkg/response"

	"github.com/gin-gonic/gin"
)

// ClientHandler 客户处理器
type ClientHandler struct {
	clientService *services.ClientService
}

// NewClientHandler 创建客户处理器
func NewClientHandler(clientService *services.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// List 获取客户列表
// GET /api/v1/clients?page=1&pageSize=20&search=
func (h *ClientHandler) List(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)
	params := pagination.ParsePageParams(c)

	clients, pageInfo, err := h.clientService.List(tenantID, params.Page, params.PageSize, c.Query("search"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithPage(c, clients, pageInfo)
}

// Get 获取客户详情
// GET /api/v1/clients/:id
func (h *ClientHandler) Get(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	client, err := h.clientService.GetByID(tenantID, c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, client)
}

// Create 创建客户
// POST /api/v1/clients
func (h *ClientHandler) Create(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	var req services.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	client, err := h.clientService.Create(tenantID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Created(c, client)
}

// Update 更新客户
// PUT /api/v1/clients/:id
func (h *ClientHandler) Update(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	var req services.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	client, err := h.clientService.Update(tenantID, c.Param("id"), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, client)
}

// Delete 删除客户
// DELETE /api/v1/clients/:id
func (h *ClientHandler) Delete(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	if err := h.clientService.Delete(tenantID, c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, nil)
}

// ListBranches 获取客户分支机构列表
// GET /api/v1/clients/:id/branches
func (h *ClientHandler) ListBranches(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	branches, err := h.clientService.ListBranches(tenantID, c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, branches)
}

// CreateBranch 创建客户分支机构
// POST /api/v1/clients/:id/branches
func (h *ClientHandler) CreateBranch(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	var req services.BranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	branch, err := h.clientService.CreateBranch(tenantID, c.Param("id"), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Created(c, branch)
}

// UpdateBranch 更新客户分支机构
// PUT /api/v1/clients/:id/branches/:branchId
func (h *ClientHandler) UpdateBranch(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	var req services.BranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	branch, err := h.clientService.UpdateBranch(tenantID, c.Param("id"), c.Param("branchId"), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, branch)
}

// DeleteBranch 删除客户分支机构
// DELETE /api/v1/clients/:id/branches/:branchId
func (h *ClientHandler) DeleteBranch(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	if err := h.clientService.DeleteBranch(tenantID, c.Param("id"), c.Param("branchId")); err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, nil)
}
