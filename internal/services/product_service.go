package services

import (
	"errors"

	"kusystem/internal/models"
	"kusystem/pkg/pagination"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProductService 商品服务
type ProductService struct {
	db *gorm.DB
}

// NewProductService 创建商品服务
func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

// CreateProductRequest 创建商品请求
type CreateProductRequest struct {
	SKU              *string          `json:"sku" binding:"omitempty,max=100"`
	Name             string           `json:"name" binding:"required,max=200"`
	Description      *string          `json:"description" binding:"omitempty,max=500"`
	Unit             *string          `json:"unit" binding:"omitempty,max=50"`
	Price            decimal.Decimal  `json:"price"`
	Cost             *decimal.Decimal `json:"cost"`
	TaxRate          *decimal.Decimal `json:"tax_rate"`
	PriceIncludesTax bool             `json:"price_includes_tax"`
	Stock            *decimal.Decimal `json:"stock"`
	MinStock         *decimal.Decimal `json:"min_stock"`
	TemplateID       *string          `json:"template_id"`
}

// UpdateProductRequest 更新商品请求
type UpdateProductRequest struct {
	SKU              *string          `json:"sku" binding:"omitempty,max=100"`
	Name             *string          `json:"name" binding:"omitempty,max=200"`
	Description      *string          `json:"description" binding:"omitempty,max=500"`
	Unit             *string          `json:"unit" binding:"omitempty,max=50"`
	Price            *decimal.Decimal `json:"price"`
	Cost             *decimal.Decimal `json:"cost"`
	TaxRate          *decimal.Decimal `json:"tax_rate"`
	PriceIncludesTax *bool            `json:"price_includes_tax"`
	Stock            *decimal.Decimal `json:"stock"`
	MinStock         *decimal.Decimal `json:"min_stock"`
	TemplateID       *string          `json:"template_id"`
}

// TemplateRequest 商品模板请求
type TemplateRequest struct {
	Name       string         `json:"name" binding:"required,max=200"`
	Attributes datatypes.JSON `json:"attributes"`
}

// List 分页查询商品列表。搜索覆盖名称、SKU和单位。
func (s *ProductService) List(tenantID uint, page, pageSize int, search string) ([]models.Product, *pagination.PageInfo, error) {
	query := s.db.Model(&models.Product{}).Where("tenant_id = ?", tenantID)
	if search != "" {
		query = applySearch(query, search, "name", "sku", "unit")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	var products []models.Product
	err := query.Order("name ASC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&products).Error
	if err != nil {
		return nil, nil, err
	}

	return products, pagination.NewPageInfo(page, pageSize, total), nil
}

// GetByID 获取商品详情
func (s *ProductService) GetByID(tenantID uint, id string) (*models.Product, error) {
	var product models.Product
	err := s.db.Where("tenant_id = ? AND id = ?", tenantID, id).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// Create 创建商品
func (s *ProductService) Create(tenantID uint, req *CreateProductRequest) (*models.Product, error) {
	product := models.Product{
		TenantID:         tenantID,
		SKU:              req.SKU,
		Name:             req.Name,
		Description:      req.Description,
		Unit:             req.Unit,
		Price:            req.Price,
		Cost:             req.Cost,
		TaxRate:          req.TaxRate,
		PriceIncludesTax: req.PriceIncludesTax,
		Stock:            req.Stock,
		MinStock:         req.MinStock,
		TemplateID:       req.TemplateID,
	}
	if err := s.db.Create(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// Update 更新商品
func (s *ProductService) Update(tenantID uint, id string, req *UpdateProductRequest) (*models.Product, error) {
	product, err := s.GetByID(tenantID, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.SKU != nil {
		updates["sku"] = req.SKU
	}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = req.Description
	}
	if req.Unit != nil {
		updates["unit"] = req.Unit
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Cost != nil {
		updates["cost"] = req.Cost
	}
	if req.TaxRate != nil {
		updates["tax_rate"] = req.TaxRate
	}
	if req.PriceIncludesTax != nil {
		updates["price_includes_tax"] = *req.PriceIncludesTax
	}
	if req.Stock != nil {
		updates["stock"] = req.Stock
	}
	if req.MinStock != nil {
		updates["min_stock"] = req.MinStock
	}
	if req.TemplateID != nil {
		updates["template_id"] = req.TemplateID
	}
	if len(updates) > 0 {
		if err := s.db.Model(product).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return product, nil
}

// Delete 删除商品
func (s *ProductService) Delete(tenantID uint, id string) error {
	result := s.db.Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&models.Product{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetOrCreateGeneric 获取租户的通用商品，不存在则自动创建。
// 报价单中的自定义项目统一挂在该商品下。
func (s *ProductService) GetOrCreateGeneric(tenantID uint) (*models.Product, error) {
	sku := models.GenericProductSKU

	var product models.Product
	err := s.db.Where("tenant_id = ? AND sku = ?", tenantID, sku).First(&product).Error
	if err == nil {
		return &product, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	product = models.Product{
		TenantID: tenantID,
		SKU:      &sku,
		Name:     "Producto genérico",
		Price:    decimal.Zero,
	}
	if err := s.db.Create(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// ListTemplates 查询商品模板列表
func (s *ProductService) ListTemplates(tenantID uint) ([]models.ProductTemplate, error) {
	var templates []models.ProductTemplate
	err := s.db.Where("tenant_id = ?", tenantID).Order("name ASC").Find(&templates).Error
	if err != nil {
		return nil, err
	}
	return templates, nil
}

// CreateTemplate 创建商品模板
func (s *ProductService) CreateTemplate(tenantID uint, req *TemplateRequest) (*models.ProductTemplate, error) {
	template := models.ProductTemplate{
		TenantID:   tenantID,
		Name:       req.Name,
		Attributes: req.Attributes,
	}
	if err := s.db.Create(&template).Error; err != nil {
		return nil, err
	}
	return &template, nil
}

// UpdateTemplate 更新商品模板
func (s *ProductService) UpdateTemplate(tenantID uint, id string, req *TemplateRequest) (*models.ProductTemplate, error) {
	var template models.ProductTemplate
	err := s.db.Where("tenant_id = ? AND id = ?", tenantID, id).First(&template).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{"name": req.Name}
	if req.Attributes != nil {
		updates["attributes"] = req.Attributes
	}
	if err := s.db.Model(&template).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &template, nil
}

// DeleteTemplate 删除商品模板，仍被商品引用时拒绝
func (s *ProductService) DeleteTemplate(tenantID uint, id string) error {
	var inUse int64
	err := s.db.Model(&models.Product{}).
		Where("tenant_id = ? AND template_id = ?", tenantID, id).
		Count(&inUse).Error
	if err != nil {
		return err
	}
	if inUse > 0 {
		return ErrTemplateInUse
	}

	result := s.db.Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&models.ProductTemplate{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
