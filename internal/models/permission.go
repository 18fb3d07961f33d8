package models

// Permission 权限模型 - 全局目录，(resource, action) 唯一
type Permission struct {
	BaseModel
	Resource    string `json:"resource" gorm:"not null;size:50;uniqueIndex:idx_resource_action"`
	Action      string `json:"action" gorm:"not null;size:50;uniqueIndex:idx_resource_action"`
	Description string `json:"description" gorm:"size:200"`
}

// TableName 表名
func (p *Permission) TableName() string {
	return "permissions"
}

// Key 权限标识，如 "quotes:view"
func (p *Permission) Key() string {
	return p.Resource + ":" + p.Action
}

// RolePermission 租户内角色到权限的授权。owner角色不落库，走内置旁路。
type RolePermission struct {
	BaseModel
	TenantID     uint   `json:"tenant_id" gorm:"not null;uniqueIndex:idx_tenant_role_perm"`
	Role         string `json:"role" gorm:"not null;size:20;uniqueIndex:idx_tenant_role_perm"`
	PermissionID uint   `json:"permission_id" gorm:"not null;uniqueIndex:idx_tenant_role_perm"`

	// 关联
	Permission Permission `json:"permission,omitempty" gorm:"foreignKey:PermissionID;constraint:OnDelete:CASCADE"`
}

// TableName 表名
func (rp *RolePermission) TableName() string {
	return "role_permissions"
}
