package services

import (
	"errors"
	"time"

	"kusystem/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PublicQuoteService 报价单公开只读访问服务。
// 无需认证和租户头，仅凭公开链接ID访问已启用公开的报价单。
type PublicQuoteService struct {
	db *gorm.DB
}

// NewPublicQuoteService 创建公开访问服务
func NewPublicQuoteService(db *gorm.DB) *PublicQuoteService {
	return &PublicQuoteService{db: db}
}

// PublicQuoteItem 公开视图条目
type PublicQuoteItem struct {
	Description string   `json:"description"`
	Quantity    *float64 `json:"quantity"`
	UnitPrice   *float64 `json:"unit_price"`
	Discount    *float64 `json:"discount"`
	TaxRate     *float64 `json:"tax_rate"`
}

// PublicQuoteCharge 公开视图附加费用
type PublicQuoteCharge struct {
	Type   string   `json:"type"`
	Amount *float64 `json:"amount"`
}

// PublicQuoteView 报价单公开视图。只暴露展示所需字段，
// 不包含内部ID、租户ID和状态历史。
type PublicQuoteView struct {
	PublicID      string              `json:"public_id"`
	Number        *string             `json:"number"`
	Status        string              `json:"status"`
	CustomerName  string              `json:"customer_name"`
	BranchName    *string             `json:"branch_name"`
	IssueDate     *time.Time          `json:"issue_date"`
	DueDate       *time.Time          `json:"due_date"`
	Currency      *string             `json:"currency"`
	Notes         *string             `json:"notes"`
	PrintNotes    *bool               `json:"print_notes"`
	Subtotal      *float64            `json:"subtotal"`
	TaxTotal      *float64            `json:"tax_total"`
	DiscountTotal *float64            `json:"discount_total"`
	Total         *float64            `json:"total"`
	Items         []PublicQuoteItem   `json:"items"`
	Charges       []PublicQuoteCharge `json:"additional_charges"`
}

// GetByPublicID 按公开链接ID查询。链接停用与不存在对外不可区分。
func (s *PublicQuoteService) GetByPublicID(publicID string) (*PublicQuoteView, error) {
	var quote models.Quote
	err := s.db.Where("public_id = ? AND public_enabled = ?", publicID, true).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("quote_items.created_at ASC")
		}).
		Preload("AdditionalCharges").
		First(&quote).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	view := SanitizeQuote(&quote)
	return view, nil
}

// SanitizeQuote 将报价单转换为公开视图，金额字段转为数值类型
func SanitizeQuote(quote *models.Quote) *PublicQuoteView {
	view := &PublicQuoteView{
		PublicID:      quote.PublicID,
		Number:        quote.Number,
		Status:        quote.Status,
		CustomerName:  quote.CustomerName,
		BranchName:    quote.BranchName,
		IssueDate:     quote.IssueDate,
		DueDate:       quote.DueDate,
		Currency:      quote.Currency,
		Notes:         quote.Notes,
		PrintNotes:    quote.PrintNotes,
		Subtotal:      ToNumber(quote.Subtotal),
		TaxTotal:      ToNumber(quote.TaxTotal),
		DiscountTotal: ToNumber(quote.DiscountTotal),
		Total:         ToNumber(quote.Total),
		Items:         make([]PublicQuoteItem, 0, len(quote.Items)),
		Charges:       make([]PublicQuoteCharge, 0, len(quote.AdditionalCharges)),
	}

	for _, item := range quote.Items {
		qty := item.Quantity
		price := item.UnitPrice
		view.Items = append(view.Items, PublicQuoteItem{
			Description: item.Description,
			Quantity:    ToNumber(&qty),
			UnitPrice:   ToNumber(&price),
			Discount:    ToNumber(item.Discount),
			TaxRate:     ToNumber(item.TaxRate),
		})
	}
	for _, charge := range quote.AdditionalCharges {
		amount := charge.Amount
		view.Charges = append(view.Charges, PublicQuoteCharge{
			Type:   charge.Type,
			Amount: ToNumber(&amount),
		})
	}
	return view
}

// ToNumber 金额转数值。nil保持nil，不做零值填充。
func ToNumber(d *decimal.Decimal) *float64 {
	if d == nil {
		return nil
	}
	f, _ := d.Float64()
	return &f
}
