package services

import (
	"errors"

	"kusystem/internal/models"

	"gorm.io/gorm"
)

// UserService 用户服务。用户记录由认证身份首次出现时自动建立。
type UserService struct {
	db *gorm.DB
}

// NewUserService 创建用户服务
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// ResolveOrCreate 按认证提供方ID查找用户，不存在则创建。
// 邮箱或姓名发生变化时同步更新本地记录。
func (s *UserService) ResolveOrCreate(authProviderID, email string, name *string) (*models.User, error) {
	var user models.User
	err := s.db.Where("auth_provider_id = ?", authProviderID).First(&user).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user = models.User{
			AuthProviderID: authProviderID,
			Email:          email,
			Name:           name,
		}
		if err := s.db.Create(&user).Error; err != nil {
			return nil, err
		}
		return &user, nil
	}

	updates := map[string]interface{}{}
	if email != "" && user.Email != email {
		updates["email"] = email
	}
	if name != nil && (user.Name == nil || *user.Name != *name) {
		updates["name"] = name
	}
	if len(updates) > 0 {
		if err := s.db.Model(&user).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return &user, nil
}

// GetByAuthProviderID 按认证提供方ID查找用户
func (s *UserService) GetByAuthProviderID(authProviderID string) (*models.User, error) {
	var user models.User
	err := s.db.Where("auth_provider_id = ?", authProviderID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}
