package middleware

import (
	"errors"

	"kusystem/internal/models"
	"kusystem/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// PermissionMiddleware 权限守卫。按 (租户, 角色, 资源, 操作) 查询授权表，
// owner角色默认旁路（可按守卫关闭）。
type PermissionMiddleware struct {
	db *gorm.DB
}

// NewPermissionMiddleware 创建权限守卫
func NewPermissionMiddleware(db *gorm.DB) *PermissionMiddleware {
	return &PermissionMiddleware{db: db}
}

// RequirePermission 要求指定权限，owner旁路开启
func (m *PermissionMiddleware) RequirePermission(resource, action string) gin.HandlerFunc {
	return m.requirePermission(resource, action, true)
}

// RequirePermissionNoOwnerBypass 要求指定权限，owner也必须持有授权
func (m *PermissionMiddleware) RequirePermissionNoOwnerBypass(resource, action string) gin.HandlerFunc {
	return m.requirePermission(resource, action, false)
}

// RequireManagerRole 仅放行owner或admin角色，授权表不可越过该限制。
// 需挂载在RequirePermission之后，依赖其写入的成员关系。
func (m *PermissionMiddleware) RequireManagerRole() gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get("membership")
		membership, ok := value.(*models.Membership)
		if !exists || !ok || !membership.CanManage() {
			response.Forbidden(c, "仅owner或admin可执行该操作")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (m *PermissionMiddleware) requirePermission(resource, action string, allowOwnerBypass bool) gin.HandlerFunc {
	permissionKey := resource + ":" + action

	return func(c *gin.Context) {
		tenantID := GetTenantID(c)

		cu := GetCurrentUser(c)
		if cu == nil || cu.AuthProviderID == "" {
			response.Unauthorized(c, "Unauthorized")
			c.Abort()
			return
		}

		var user models.User
		if err := m.db.Where("auth_provider_id = ?", cu.AuthProviderID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				response.Forbidden(c, "用户未注册")
			} else {
				response.ServerError(c, "权限检查失败")
			}
			c.Abort()
			return
		}

		var membership models.Membership
		err := m.db.Where("user_id = ? AND tenant_id = ?", user.ID, tenantID).First(&membership).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				response.Forbidden(c, "不是该组织成员")
			} else {
				response.ServerError(c, "权限检查失败")
			}
			c.Abort()
			return
		}

		// owner旁路：单一显式判断，不做角色继承
		if allowOwnerBypass && membership.Role == models.RoleOwner {
			c.Set("membership", &membership)
			c.Next()
			return
		}

		var count int64
		err = m.db.Model(&models.RolePermission{}).
			Joins("JOIN permissions ON permissions.id = role_permissions.permission_id").
			Where("role_permissions.tenant_id = ? AND role_permissions.role = ?", tenantID, membership.Role).
			Where("permissions.resource = ? AND permissions.action = ?", resource, action).
			Count(&count).Error
		if err != nil {
			response.ServerError(c, "权限检查失败")
			c.Abort()
			return
		}

		if count == 0 {
			response.ForbiddenWithRequired(c, "权限不足", permissionKey)
			c.Abort()
			return
		}

		c.Set("membership", &membership)
		c.Next()
	}
}
