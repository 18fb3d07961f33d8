package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"kusystem/internal/models"
	"kusystem/pkg/config"
	"kusystem/pkg/logger"
	"kusystem/pkg/mailer"

	"gorm.io/gorm"
)

// 邀请有效期
const invitationTTL = 7 * 24 * time.Hour

// InvitationService 组织邀请服务
type InvitationService struct {
	db     *gorm.DB
	mailer *mailer.Mailer
}

// NewInvitationService 创建邀请服务
func NewInvitationService(db *gorm.DB, m *mailer.Mailer) *InvitationService {
	return &InvitationService{db: db, mailer: m}
}

// CreateInvitationRequest 创建邀请请求
type CreateInvitationRequest struct {
	Email string `json:"email" binding:"required,email,max=200"`
	Role  string `json:"role" binding:"omitempty,oneof=admin member"`
}

// InvitationView 邀请公开视图，凭令牌查询时返回
type InvitationView struct {
	TenantName string    `json:"tenant_name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// Create 创建邀请并发送邮件。令牌随机生成，有效期7天。
func (s *InvitationService) Create(tenantID uint, createdBy *models.User, req *CreateInvitationRequest) (*models.Invitation, error) {
	role := req.Role
	if role == "" {
		role = models.RoleMember
	}

	token, err := generateInvitationToken()
	if err != nil {
		return nil, err
	}

	invitation := models.Invitation{
		TenantID:        tenantID,
		Email:           strings.ToLower(strings.TrimSpace(req.Email)),
		Role:            role,
		Token:           token,
		ExpiresAt:       time.Now().Add(invitationTTL),
		CreatedByUserID: createdBy.ID,
	}
	if err := s.db.Create(&invitation).Error; err != nil {
		return nil, err
	}

	var tenant models.Tenant
	if err := s.db.First(&tenant, tenantID).Error; err != nil {
		return nil, err
	}

	inviteURL := fmt.Sprintf("%s/invitations/%s", strings.TrimRight(config.GetConfig().Server.PublicAppURL, "/"), token)
	if err := s.mailer.SendInvitation(invitation.Email, tenant.Name, inviteURL); err != nil {
		// 邮件失败不回滚邀请，令牌仍可通过其它渠道送达
		logger.GetLogger().WithError(err).Warn("邀请邮件发送失败")
	}

	return &invitation, nil
}

// List 查询组织的邀请列表，按创建时间倒序
func (s *InvitationService) List(tenantID uint) ([]models.Invitation, error) {
	var invitations []models.Invitation
	err := s.db.Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Find(&invitations).Error
	if err != nil {
		return nil, err
	}
	return invitations, nil
}

// GetByToken 凭令牌查询邀请。已接受和已过期的邀请分别返回对应错误。
func (s *InvitationService) GetByToken(token string) (*InvitationView, error) {
	var invitation models.Invitation
	err := s.db.Where("token = ?", token).Preload("Tenant").First(&invitation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if invitation.IsAccepted() {
		return nil, ErrInvitationAccepted
	}
	if invitation.IsExpired() {
		return nil, ErrInvitationExpired
	}

	return &InvitationView{
		TenantName: invitation.Tenant.Name,
		Email:      invitation.Email,
		Role:       invitation.Role,
		ExpiresAt:  invitation.ExpiresAt,
	}, nil
}

// Accept 接受邀请。成员关系按 (用户, 租户) 幂等建立：已是成员时更新角色，
// 否则插入新成员。接受标记与成员写入在同一事务内完成。
func (s *InvitationService) Accept(token string, user *models.User) (*models.Membership, error) {
	var invitation models.Invitation
	err := s.db.Where("token = ?", token).First(&invitation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if invitation.IsAccepted() {
		return nil, ErrInvitationAccepted
	}
	if invitation.IsExpired() {
		return nil, ErrInvitationExpired
	}

	var membership models.Membership
	err = s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND tenant_id = ?", user.ID, invitation.TenantID).
			First(&membership).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			membership = models.Membership{
				UserID:   user.ID,
				TenantID: invitation.TenantID,
				Role:     invitation.Role,
			}
			if err := tx.Create(&membership).Error; err != nil {
				return err
			}
		} else if membership.Role != invitation.Role {
			if err := tx.Model(&membership).Update("role", invitation.Role).Error; err != nil {
				return err
			}
		}

		invitation.Accept()
		return tx.Model(&invitation).Update("accepted_at", invitation.AcceptedAt).Error
	})
	if err != nil {
		return nil, err
	}

	logger.GetLogger().WithField("tenant_id", invitation.TenantID).
		WithField("user_id", user.ID).Info("邀请已接受")
	return &membership, nil
}

// Revoke 撤销尚未接受的邀请
func (s *InvitationService) Revoke(tenantID, invitationID uint) error {
	result := s.db.Where("tenant_id = ? AND id = ? AND accepted_at IS NULL", tenantID, invitationID).
		Delete(&models.Invitation{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func generateInvitationToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
