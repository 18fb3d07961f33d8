package services

import (
	"errors"

	"kusystem/internal/models"
	"kusystem/pkg/logger"

	"gorm.io/gorm"
)

// MemberService 组织成员服务
type MemberService struct {
	db *gorm.DB
}

// NewMemberService 创建成员服务
func NewMemberService(db *gorm.DB) *MemberService {
	return &MemberService{db: db}
}

// MemberView 成员视图，带用户基础信息
type MemberView struct {
	MembershipID uint    `json:"membership_id"`
	UserID       uint    `json:"user_id"`
	Email        string  `json:"email"`
	Name         *string `json:"name"`
	Role         string  `json:"role"`
}

// List 查询组织成员列表
func (s *MemberService) List(tenantID uint) ([]MemberView, error) {
	var memberships []models.Membership
	err := s.db.Where("tenant_id = ?", tenantID).
		Preload("User").
		Order("id ASC").
		Find(&memberships).Error
	if err != nil {
		return nil, err
	}

	members := make([]MemberView, 0, len(memberships))
	for _, m := range memberships {
		members = append(members, MemberView{
			MembershipID: m.ID,
			UserID:       m.UserID,
			Email:        m.User.Email,
			Name:         m.User.Name,
			Role:         m.Role,
		})
	}
	return members, nil
}

// MyPermissions 查询成员在组织内的有效权限键集合。
// owner持有完整权限目录，其余角色按授权表返回。
func (s *MemberService) MyPermissions(tenantID uint, membership *models.Membership) ([]string, error) {
	if membership.Role == models.RoleOwner {
		var permissions []models.Permission
		if err := s.db.Order("resource ASC, action ASC").Find(&permissions).Error; err != nil {
			return nil, err
		}
		keys := make([]string, 0, len(permissions))
		for _, p := range permissions {
			keys = append(keys, p.Key())
		}
		return keys, nil
	}

	var permissions []models.Permission
	err := s.db.Model(&models.Permission{}).
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Where("role_permissions.tenant_id = ? AND role_permissions.role = ?", tenantID, membership.Role).
		Order("permissions.resource ASC, permissions.action ASC").
		Find(&permissions).Error
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(permissions))
	for _, p := range permissions {
		keys = append(keys, p.Key())
	}
	return keys, nil
}

// ChangeRole 变更成员角色。降级最后一个owner会破坏组织管理权，被拒绝。
func (s *MemberService) ChangeRole(tenantID, membershipID uint, newRole string) (*models.Membership, error) {
	if !models.IsValidRole(newRole) {
		return nil, ErrInvalidRole
	}

	var membership models.Membership
	err := s.db.Where("tenant_id = ? AND id = ?", tenantID, membershipID).First(&membership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if membership.Role == models.RoleOwner && newRole != models.RoleOwner {
		isLast, err := s.isLastOwner(tenantID, membership.ID)
		if err != nil {
			return nil, err
		}
		if isLast {
			return nil, ErrLastOwner
		}
	}

	if err := s.db.Model(&membership).Update("role", newRole).Error; err != nil {
		return nil, err
	}

	logger.GetLogger().WithField("membership_id", membershipID).
		WithField("role", newRole).Info("成员角色已变更")
	return &membership, nil
}

// Remove 移除组织成员。最后一个owner不可移除。
func (s *MemberService) Remove(tenantID, membershipID uint) error {
	var membership models.Membership
	err := s.db.Where("tenant_id = ? AND id = ?", tenantID, membershipID).First(&membership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if membership.Role == models.RoleOwner {
		isLast, err := s.isLastOwner(tenantID, membership.ID)
		if err != nil {
			return err
		}
		if isLast {
			return ErrLastOwner
		}
	}

	return s.db.Delete(&membership).Error
}

func (s *MemberService) isLastOwner(tenantID, excludeMembershipID uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.Membership{}).
		Where("tenant_id = ? AND role = ? AND id <> ?", tenantID, models.RoleOwner, excludeMembershipID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count == 0, nil
}
