package handlers

import (
	"kusystem/internal/middleware"
	"kusystem/internal/services"
	"kusystem/pkg/response"

	"github.com/gin-gonic/gin"
)

// RolePermissionHandler 角色权限配置处理器
type RolePermissionHandler struct {
	rolePermissionService *services.RolePermissionService
}

// NewRolePermissionHandler 创建角色权限处理器
func NewRolePermissionHandler(rolePermissionService *services.RolePermissionService) *RolePermissionHandler {
	return &RolePermissionHandler{rolePermissionService: rolePermissionService}
}

// Catalog 获取全局权限目录
// GET /api/v1/permissions
func (h *RolePermissionHandler) Catalog(c *gin.Context) {
	permissions, err := h.rolePermissionService.ListCatalog()
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, permissions)
}

// ListRoles 按角色汇总组织内的授权
// GET /api/v1/roles
func (h *RolePermissionHandler) ListRoles(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	roles, err := h.rolePermissionService.ListRoles(tenantID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, roles)
}

// SetRolePermissionsRequest 角色权限设置请求
type SetRolePermissionsRequest struct {
	Permissions []string `json:"permissions" binding:"required"`
}

// SetRolePermissions 设置某角色的权限集
// PUT /api/v1/roles/:role/permissions
func (h *RolePermissionHandler) SetRolePermissions(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	var req SetRolePermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	err := h.rolePermissionService.SetRolePermissions(tenantID, c.Param("role"), req.Permissions)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, nil)
}
