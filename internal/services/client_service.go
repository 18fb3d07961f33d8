package services

import (
	"errors"

	"kusystem/internal/models"
	"kusystem/pkg/pagination"

	"gorm.io/gorm"
)

// ClientService 客户服务
type ClientService struct {
	db *gorm.DB
}

// NewClientService 创建客户服务
func NewClientService(db *gorm.DB) *ClientService {
	return &ClientService{db: db}
}

// CreateClientRequest 创建客户请求
type CreateClientRequest struct {
	Name  string  `json:"name" binding:"required,max=200"`
	TaxID *string `json:"tax_id" binding:"omitempty,max=100"`
	Phone *string `json:"phone" binding:"omitempty,max=100"`
	Email *string `json:"email" binding:"omitempty,email,max=200"`
}

// UpdateClientRequest 更新客户请求
type UpdateClientRequest struct {
	Name  *string `json:"name" binding:"omitempty,max=200"`
	TaxID *string `json:"tax_id" binding:"omitempty,max=100"`
	Phone *string `json:"phone" binding:"omitempty,max=100"`
	Email *string `json:"email" binding:"omitempty,email,max=200"`
}

// BranchRequest 客户分支机构请求
type BranchRequest struct {
	Name    string  `json:"name" binding:"required,max=200"`
	Address *string `json:"address" binding:"omitempty,max=300"`
}

// List 分页查询客户列表。搜索覆盖名称、税号、电话和邮箱。
func (s *ClientService) List(tenantID uint, page, pageSize int, search string) ([]models.Client, *pagination.PageInfo, error) {
	query := s.db.Model(&models.Client{}).Where("tenant_id = ?", tenantID)
	if search != "" {
		query = applySearch(query, search, "name", "tax_id", "phone", "email")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	var clients []models.Client
	err := query.Order("name ASC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&clients).Error
	if err != nil {
		return nil, nil, err
	}

	return clients, pagination.NewPageInfo(page, pageSize, total), nil
}

// GetByID 获取客户详情
func (s *ClientService) GetByID(tenantID uint, id string) (*models.Client, error) {
	var client models.Client
	err := s.db.Where("tenant_id = ? AND id = ?", tenantID, id).First(&client).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &client, nil
}

// Create 创建客户
func (s *ClientService) Create(tenantID uint, req *CreateClientRequest) (*models.Client, error) {
	client := models.Client{
		TenantID: tenantID,
		Name:     req.Name,
		TaxID:    req.TaxID,
		Phone:    req.Phone,
		Email:    req.Email,
	}
	if err := s.db.Create(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

// Update 更新客户
func (s *ClientService) Update(tenantID uint, id string, req *UpdateClientRequest) (*models.Client, error) {
	client, err := s.GetByID(tenantID, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.TaxID != nil {
		updates["tax_id"] = req.TaxID
	}
	if req.Phone != nil {
		updates["phone"] = req.Phone
	}
	if req.Email != nil {
		updates["email"] = req.Email
	}
	if len(updates) > 0 {
		if err := s.db.Model(client).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return client, nil
}

// Delete 删除客户，分支机构级联删除
func (s *ClientService) Delete(tenantID uint, id string) error {
	result := s.db.Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&models.Client{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListBranches 查询客户的分支机构列表
func (s *ClientService) ListBranches(tenantID uint, clientID string) ([]models.ClientBranch, error) {
	if _, err := s.GetByID(tenantID, clientID); err != nil {
		return nil, err
	}

	var branches []models.ClientBranch
	err := s.db.Where("tenant_id = ? AND client_id = ?", tenantID, clientID).
		Order("name ASC").
		Find(&branches).Error
	if err != nil {
		return nil, err
	}
	return branches, nil
}

// CreateBranch 为客户创建分支机构
func (s *ClientService) CreateBranch(tenantID uint, clientID string, req *BranchRequest) (*models.ClientBranch, error) {
	if _, err := s.GetByID(tenantID, clientID); err != nil {
		return nil, err
	}

	branch := models.ClientBranch{
		ClientID: clientID,
		TenantID: tenantID,
		Name:     req.Name,
		Address:  req.Address,
	}
	if err := s.db.Create(&branch).Error; err != nil {
		return nil, err
	}
	return &branch, nil
}

// UpdateBranch 更新分支机构
func (s *ClientService) UpdateBranch(tenantID uint, clientID, branchID string, req *BranchRequest) (*models.ClientBranch, error) {
	var branch models.ClientBranch
	err := s.db.Where("tenant_id = ? AND client_id = ? AND id = ?", tenantID, clientID, branchID).
		First(&branch).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{"name": req.Name, "address": req.Address}
	if err := s.db.Model(&branch).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &branch, nil
}

// DeleteBranch 删除分支机构
func (s *ClientService) DeleteBranch(tenantID uint, clientID, branchID string) error {
	result := s.db.Where("tenant_id = ? AND client_id = ? AND id = ?", tenantID, clientID, branchID).
		Delete(&models.ClientBranch{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
