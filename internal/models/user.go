package models

// User 用户模型 - 绑定外部认证方的subject标识，可通过成员关系属于多个租户
type User struct {
	BaseModel
	AuthProviderID string  `json:"auth_provider_id" gorm:"unique;not null;size:191;index"`
	Email          string  `json:"email" gorm:"not null;size:200;index"`
	Name           *string `json:"name" gorm:"size:100"`
}

// TableName 表名
func (u *User) TableName() string {
	return "users"
}
