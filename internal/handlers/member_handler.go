package handlers

import (
	"strconv"

	"kusystem/internal/middleware"
	"kusystem/internal/services"
	"kusystem/pkg/response"

	"github.com/gin-gonic/gin"
)

// MemberHandler 组织成员处理器
type MemberHandler struct {
	memberService *services.MemberService
}

// NewMemberHandler 创建成员处理器
func NewMemberHandler(memberService *services.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// List 获取成员列表
// GET /api/v1/members
func (h *MemberHandler) List(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	members, err := h.memberService.List(tenantID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, members)
}

// MyPermissions 获取当前成员的有效权限键
// GET /api/v1/members/me/permissions
func (h *MemberHandler) MyPermissions(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	membership, ok := membershipFromContext(c)
	if !ok {
		return
	}

	keys, err := h.memberService.MyPermissions(tenantID, membership)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, gin.H{
		"role":        membership.Role,
		"permissions": keys,
	})
}

// ChangeRoleRequest 角色变更请求
type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=owner admin member"`
}

// ChangeRole 变更成员角色
// PATCH /api/v1/members/:id/role
func (h *MemberHandler) ChangeRole(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	membershipID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "成员ID无效")
		return
	}

	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	membership, err := h.memberService.ChangeRole(tenantID, uint(membershipID), req.Role)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, membership)
}

// Remove 移除成员
// DELETE /api/v1/members/:id
func (h *MemberHandler) Remove(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	membershipID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "成员ID无效")
		return
	}

	if err := h.memberService.Remove(tenantID, uint(membershipID)); err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, nil)
}
