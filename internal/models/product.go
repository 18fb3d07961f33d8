package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// GenericProductSKU 通用商品占位SKU，用于报价单中的自定义项目，每租户首次使用时自动创建
const GenericProductSKU = "CUSTOM-ITEM-001"

// Product 商品模型，租户隔离。价格字段使用decimal避免浮点漂移。
type Product struct {
	UUIDModel
	TenantID         uint             `json:"tenant_id" gorm:"not null;index"`
	SKU              *string          `json:"sku" gorm:"size:100;index"`
	Name             string           `json:"name" gorm:"not null;size:200"`
	Description      *string          `json:"description" gorm:"size:500"`
	Unit             *string          `json:"unit" gorm:"size:50"`
	Price            decimal.Decimal  `json:"price" gorm:"type:decimal(18,4);not null;default:0"`
	Cost             *decimal.Decimal `json:"cost" gorm:"type:decimal(18,4)"`
	TaxRate          *decimal.Decimal `json:"tax_rate" gorm:"type:decimal(9,6)"`
	PriceIncludesTax bool             `json:"price_includes_tax" gorm:"not null;default:false"`
	Stock            *decimal.Decimal `json:"stock" gorm:"type:decimal(18,4)"`
	MinStock         *decimal.Decimal `json:"min_stock" gorm:"type:decimal(18,4)"`
	TemplateID       *string          `json:"template_id" gorm:"size:36;index"`
}

// TableName 表名
func (p *Product) TableName() string {
	return "products"
}

// ProductTemplate 商品模板，attributes为字段定义(JSON)
type ProductTemplate struct {
	UUIDModel
	TenantID   uint           `json:"tenant_id" gorm:"not null;index"`
	Name       string         `json:"name" gorm:"not null;size:200"`
	Attributes datatypes.JSON `json:"attributes"`
}

// TableName 表名
func (t *ProductTemplate) TableName() string {
	return "product_templates"
}
