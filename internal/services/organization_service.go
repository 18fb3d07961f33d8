package services

import (
	"errors"
	"regexp"
	"strings"

	"kusystem/internal/models"
	"kusystem/pkg/logger"

	"gorm.io/gorm"
)

// OrganizationService 组织（租户）服务
type OrganizationService struct {
	db *gorm.DB
}

// NewOrganizationService 创建组织服务
func NewOrganizationService(db *gorm.DB) *OrganizationService {
	return &OrganizationService{db: db}
}

// CreateOrganizationRequest 创建组织请求
type CreateOrganizationRequest struct {
	Name string  `json:"name" binding:"required,max=200"`
	Slug string  `json:"slug" binding:"omitempty,slug,max=100"`
	Logo *string `json:"logo_url"`
}

// UpdateOrganizationRequest 更新组织请求
type UpdateOrganizationRequest struct {
	Name    *string `json:"name" binding:"omitempty,max=200"`
	LogoURL *string `json:"logo_url"`
}

// MyOrganization 当前用户所属组织及其角色
type MyOrganization struct {
	models.Tenant
	Role string `json:"role"`
}

var slugCleanPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify 由名称派生slug：小写，非字母数字折叠为连字符
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugCleanPattern.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// Create 创建组织并将创建者登记为owner，两步在同一事务内完成
func (s *OrganizationService) Create(user *models.User, req *CreateOrganizationRequest) (*models.Tenant, error) {
	slug := req.Slug
	if slug == "" {
		slug = Slugify(req.Name)
	}

	tenant := models.Tenant{
		Name:            req.Name,
		Slug:            slug,
		LogoURL:         req.Logo,
		CreatedByUserID: &user.ID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&tenant).Error; err != nil {
			return err
		}
		membership := models.Membership{
			UserID:   user.ID,
			TenantID: tenant.ID,
			Role:     models.RoleOwner,
		}
		return tx.Create(&membership).Error
	})
	if err != nil {
		return nil, err
	}

	logger.GetLogger().WithField("tenant_id", tenant.ID).
		WithField("user_id", user.ID).Info("组织创建成功")
	return &tenant, nil
}

// ListMine 查询当前用户所属的所有组织及角色
func (s *OrganizationService) ListMine(userID uint) ([]MyOrganization, error) {
	var memberships []models.Membership
	err := s.db.Where("user_id = ?", userID).Find(&memberships).Error
	if err != nil {
		return nil, err
	}
	if len(memberships) == 0 {
		return []MyOrganization{}, nil
	}

	tenantIDs := make([]uint, 0, len(memberships))
	roleByTenant := make(map[uint]string, len(memberships))
	for _, m := range memberships {
		tenantIDs = append(tenantIDs, m.TenantID)
		roleByTenant[m.TenantID] = m.Role
	}

	var tenants []models.Tenant
	err = s.db.Where("id IN ?", tenantIDs).Order("name ASC").Find(&tenants).Error
	if err != nil {
		return nil, err
	}

	result := make([]MyOrganization, 0, len(tenants))
	for _, t := range tenants {
		result = append(result, MyOrganization{Tenant: t, Role: roleByTenant[t.ID]})
	}
	return result, nil
}

// GetByID 获取组织详情
func (s *OrganizationService) GetByID(tenantID uint) (*models.Tenant, error) {
	var tenant models.Tenant
	err := s.db.First(&tenant, tenantID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &tenant, nil
}

// Update 更新组织基础信息
func (s *OrganizationService) Update(tenantID uint, req *UpdateOrganizationRequest) (*models.Tenant, error) {
	tenant, err := s.GetByID(tenantID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.LogoURL != nil {
		updates["logo_url"] = req.LogoURL
	}
	if len(updates) > 0 {
		if err := s.db.Model(tenant).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return tenant, nil
}
