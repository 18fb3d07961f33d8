package models

// Client 客户模型，租户隔离
type Client struct {
	UUIDModel
	TenantID uint    `json:"tenant_id" gorm:"not null;index"`
	Name     string  `json:"name" gorm:"not null;size:200"`
	TaxID    *string `json:"tax_id" gorm:"size:100"`
	Phone    *string `json:"phone" gorm:"size:100"`
	Email    *string `json:"email" gorm:"size:200"`
}

// TableName 表名
func (c *Client) TableName() string {
	return "clients"
}

// ClientBranch 客户分支机构（子地址）
type ClientBranch struct {
	UUIDModel
	ClientID string  `json:"client_id" gorm:"not null;size:36;index"`
	TenantID uint    `json:"tenant_id" gorm:"not null;index"`
	Name     string  `json:"name" gorm:"not null;size:200"`
	Address  *string `json:"address" gorm:"size:300"`

	// 关联
	Client Client `json:"client,omitempty" gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE"`
}

// TableName 表名
func (b *ClientBranch) TableName() string {
	return "client_branches"
}
