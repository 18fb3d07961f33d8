package models

// Tenant 租户模型 - 一个独立的客户组织，所有业务数据按租户隔离
type Tenant struct {
	BaseModel
	Name            string  `json:"name" gorm:"not null;size:100"`
	Slug            string  `json:"slug" gorm:"unique;not null;size:100;index"`
	LogoURL         *string `json:"logo_url" gorm:"size:255"`
	CreatedByUserID *uint   `json:"created_by_user_id"`
}

// TableName 表名
func (t *Tenant) TableName() string {
	return "tenants"
}
