package models

import "time"

// Invitation 组织邀请。终态为已接受或已过期。
type Invitation struct {
	BaseModel
	TenantID        uint       `json:"tenant_id" gorm:"not null;index"`
	Email           string     `json:"email" gorm:"not null;size:200;index"`
	Role            string     `json:"role" gorm:"not null;size:20;default:'member'"`
	Token           string     `json:"token" gorm:"unique;not null;size:100;index"`
	ExpiresAt       time.Time  `json:"expires_at" gorm:"not null"`
	AcceptedAt      *time.Time `json:"accepted_at"`
	CreatedByUserID uint       `json:"created_by_user_id"`

	// 关联
	Tenant Tenant `json:"tenant,omitempty" gorm:"foreignKey:TenantID;constraint:OnDelete:CASCADE"`
}

// TableName 表名
func (i *Invitation) TableName() string {
	return "invitations"
}

// IsAccepted 是否已接受
func (i *Invitation) IsAccepted() bool {
	return i.AcceptedAt != nil
}

// IsExpired 是否已过期
func (i *Invitation) IsExpired() bool {
	return time.Now().After(i.ExpiresAt)
}

// Accept 标记为已接受
func (i *Invitation) Accept() {
	now := time.Now()
	i.AcceptedAt = &now
}
