package models

// 成员角色常量
const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Membership 用户-租户成员关系。不变式：每个租户至少保留一个owner。
type Membership struct {
	BaseModel
	UserID   uint   `json:"user_id" gorm:"not null;uniqueIndex:idx_user_tenant"`
	TenantID uint   `json:"tenant_id" gorm:"not null;uniqueIndex:idx_user_tenant"`
	Role     string `json:"role" gorm:"not null;size:20;default:'member'"`

	// 关联
	User   User   `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Tenant Tenant `json:"tenant,omitempty" gorm:"foreignKey:TenantID;constraint:OnDelete:CASCADE"`
}

// TableName 指定表名
func (Membership) TableName() string {
	return "memberships"
}

// IsValidRole 检查角色是否有效
func IsValidRole(role string) bool {
	switch role {
	case RoleOwner, RoleAdmin, RoleMember:
		return true
	default:
		return false
	}
}

// CanManage owner和admin可以管理成员与权限
func (m *Membership) CanManage() bool {
	return m.Role == RoleOwner || m.Role == RoleAdmin
}
