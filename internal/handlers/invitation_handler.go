package handlers

import (
	"strconv"

	"kusystem/internal/middleware"
	"kusystem/internal/services"
	"kusystem/pkg/response"

	"github.com/gin-gonic/gin"
)

// InvitationHandler 组织邀请处理器
type InvitationHandler struct {
	invitationService *services.InvitationService
	userService       *services.UserService
}

// NewInvitationHandler 创建邀请处理器
func NewInvitationHandler(invitationService *services.InvitationService, userService *services.UserService) *InvitationHandler {
	return &InvitationHandler{invitationService: invitationService, userService: userService}
}

// Create 创建邀请并发送邮件
// POST /api/v1/invitations
func (h *InvitationHandler) Create(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	user, ok := resolveUser(c, h.userService)
	if !ok {
		return
	}

	var req services.CreateInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	invitation, err := h.invitationService.Create(tenantID, user, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Created(c, invitation)
}

// List 获取组织的邀请列表
// GET /api/v1/invitations
func (h *InvitationHandler) List(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	invitations, err := h.invitationService.List(tenantID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, invitations)
}

// Revoke 撤销尚未接受的邀请
// DELETE /api/v1/invitations/:id
func (h *InvitationHandler) Revoke(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	invitationID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "邀请ID无效")
		return
	}

	if err := h.invitationService.Revoke(tenantID, uint(invitationID)); err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, nil)
}

// GetByToken 凭令牌查看邀请，无需租户头
// GET /invitations/:token
func (h *InvitationHandler) GetByToken(c *gin.Context) {
	view, err := h.invitationService.GetByToken(c.Param("token"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, view)
}

// Accept 接受邀请，无需租户头
// POST /invitations/:token/accept
func (h *InvitationHandler) Accept(c *gin.Context) {
	user, ok := resolveUser(c, h.userService)
	if !ok {
		return
	}

	membership, err := h.invitationService.Accept(c.Param("token"), user)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, membership)
}
