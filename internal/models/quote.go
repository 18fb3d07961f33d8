package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// 报价单状态常量（统一使用大写词汇表，旧的小写词汇在入口处归一化）
const (
	QuoteStatusDraft    = "DRAFT"
	QuoteStatusOpen     = "OPEN"
	QuoteStatusApproved = "APPROVED"
	QuoteStatusRejected = "REJECTED"
	QuoteStatusExpired  = "EXPIRED"
	QuoteStatusInvoiced = "INVOICED"
)

// NormalizeQuoteStatus 归一化状态词汇。历史数据中存在小写词汇
// (draft/sent/accepted/rejected/expired)，按语义映射到统一枚举。
// 返回空字符串表示无法识别。
func NormalizeQuoteStatus(status string) string {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case QuoteStatusDraft:
		return QuoteStatusDraft
	case "SENT", QuoteStatusOpen:
		return QuoteStatusOpen
	case "ACCEPTED", QuoteStatusApproved:
		return QuoteStatusApproved
	case QuoteStatusRejected:
		return QuoteStatusRejected
	case QuoteStatusExpired:
		return QuoteStatusExpired
	case QuoteStatusInvoiced:
		return QuoteStatusInvoiced
	default:
		return ""
	}
}

// Quote 报价单聚合根。子实体（条目、附加费用、状态历史）随报价单级联删除。
type Quote struct {
	UUIDModel
	TenantID      uint             `json:"tenant_id" gorm:"not null;index"`
	Number        *string          `json:"number" gorm:"size:50"`
	Status        string           `json:"status" gorm:"not null;size:20;default:'DRAFT';index"`
	CustomerID    *string          `json:"customer_id" gorm:"size:36;index"`
	CustomerName  string           `json:"customer_name" gorm:"not null;size:200"`
	BranchID      *string          `json:"branch_id" gorm:"size:36"`
	BranchName    *string          `json:"branch_name" gorm:"size:200"`
	IssueDate     *time.Time       `json:"issue_date"`
	DueDate       *time.Time       `json:"due_date"`
	Currency      *string          `json:"currency" gorm:"size:10"`
	Notes         *string          `json:"notes" gorm:"size:2000"`
	PrintNotes    *bool            `json:"print_notes"`
	PublicID      string           `json:"public_id" gorm:"unique;not null;size:36;index"`
	PublicEnabled bool             `json:"public_enabled" gorm:"not null;default:true"`
	Subtotal      *decimal.Decimal `json:"subtotal" gorm:"type:decimal(18,4)"`
	TaxTotal      *decimal.Decimal `json:"tax_total" gorm:"type:decimal(18,4)"`
	DiscountTotal *decimal.Decimal `json:"discount_total" gorm:"type:decimal(18,4)"`
	Total         *decimal.Decimal `json:"total" gorm:"type:decimal(18,4)"`

	// 关联
	Items             []QuoteItem             `json:"items,omitempty" gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE"`
	AdditionalCharges []QuoteAdditionalCharge `json:"additional_charges,omitempty" gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE"`
	StatusHistory     []QuoteStatusHistory    `json:"status_history,omitempty" gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE"`
}

// TableName 表名
func (q *Quote) TableName() string {
	return "quotes"
}

// QuoteItem 报价单条目，归属且仅归属一个报价单
type QuoteItem struct {
	UUIDModel
	QuoteID     string           `json:"quote_id" gorm:"not null;size:36;index"`
	TenantID    uint             `json:"tenant_id" gorm:"not null;index"`
	ProductID   *string          `json:"product_id" gorm:"size:36"`
	Description string           `json:"description" gorm:"not null;size:500"`
	Quantity    decimal.Decimal  `json:"quantity" gorm:"type:decimal(18,4);not null"`
	UnitPrice   decimal.Decimal  `json:"unit_price" gorm:"type:decimal(18,4);not null"`
	Discount    *decimal.Decimal `json:"discount" gorm:"type:decimal(18,4)"`
	TaxRate     *decimal.Decimal `json:"tax_rate" gorm:"type:decimal(9,6)"`
}

// TableName 表名
func (i *QuoteItem) TableName() string {
	return "quote_items"
}

// QuoteAdditionalCharge 附加费用，在条目小计之后累加
type QuoteAdditionalCharge struct {
	UUIDModel
	QuoteID  string          `json:"quote_id" gorm:"not null;size:36;index"`
	TenantID uint            `json:"tenant_id" gorm:"not null;index"`
	Type     string          `json:"type" gorm:"not null;size:100"`
	Amount   decimal.Decimal `json:"amount" gorm:"type:decimal(18,4);not null"`
}

// TableName 表名
func (ch *QuoteAdditionalCharge) TableName() string {
	return "quote_additional_charges"
}

// QuoteStatusHistory 状态变更历史，只追加，不修改不删除
type QuoteStatusHistory struct {
	ID         string    `json:"id" gorm:"primarykey;size:36"`
	QuoteID    string    `json:"quote_id" gorm:"not null;size:36;index"`
	TenantID   uint      `json:"tenant_id" gorm:"not null;index"`
	FromStatus string    `json:"from_status" gorm:"not null;size:20"`
	ToStatus   string    `json:"to_status" gorm:"not null;size:20"`
	Reason     *string   `json:"reason" gorm:"size:500"`
	ChangedBy  string    `json:"changed_by" gorm:"not null;size:200"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName 表名
func (h *QuoteStatusHistory) TableName() string {
	return "quote_status_histories"
}

// BeforeCreate 创建前自动生成UUID
func (h *QuoteStatusHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	return nil
}
