package services

import (
	"errors"
	"time"

	"kusystem/internal/models"
	"kusystem/pkg/logger"
	"kusystem/pkg/pagination"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// QuoteService 报价单服务
type QuoteService struct {
	db *gorm.DB
}

// NewQuoteService 创建报价单服务
func NewQuoteService(db *gorm.DB) *QuoteService {
	return &QuoteService{db: db}
}

// QuoteItemInput 报价单条目入参
type QuoteItemInput struct {
	ProductID   *string          `json:"product_id"`
	Description string           `json:"description" binding:"required,max=500"`
	Quantity    decimal.Decimal  `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal  `json:"unit_price"`
	Discount    *decimal.Decimal `json:"discount"`
	TaxRate     *decimal.Decimal `json:"tax_rate"`
}

// QuoteChargeInput 附加费用入参
type QuoteChargeInput struct {
	Type   string          `json:"type" binding:"required,max=100"`
	Amount decimal.Decimal `json:"amount"`
}

// CreateQuoteRequest 创建报价单请求
type CreateQuoteRequest struct {
	Number       *string            `json:"number"`
	Status       *string            `json:"status"`
	CustomerID   *string            `json:"customer_id"`
	CustomerName string             `json:"customer_name" binding:"required,max=200"`
	BranchID     *string            `json:"branch_id"`
	BranchName   *string            `json:"branch_name"`
	IssueDate    *time.Time         `json:"issue_date"`
	DueDate      *time.Time         `json:"due_date"`
	Currency     *string            `json:"currency"`
	Notes        *string            `json:"notes"`
	PrintNotes   *bool              `json:"print_notes"`
	Items        []QuoteItemInput   `json:"items"`
	Charges      []QuoteChargeInput `json:"additional_charges"`
}

// UpdateQuoteRequest 更新报价单请求。Items/Charges 为 nil 表示不触碰子实体，
// 提供时整体替换并重算金额。
type UpdateQuoteRequest struct {
	Number       *string             `json:"number"`
	CustomerID   *string             `json:"customer_id"`
	CustomerName *string             `json:"customer_name"`
	BranchID     *string             `json:"branch_id"`
	BranchName   *string             `json:"branch_name"`
	IssueDate    *time.Time          `json:"issue_date"`
	DueDate      *time.Time          `json:"due_date"`
	Currency     *string             `json:"currency"`
	Notes        *string             `json:"notes"`
	PrintNotes   *bool               `json:"print_notes"`
	Items        *[]QuoteItemInput   `json:"items"`
	Charges      *[]QuoteChargeInput `json:"additional_charges"`
}

// ListQuotesParams 报价单列表过滤参数
type ListQuotesParams struct {
	Page       int
	PageSize   int
	Search     string
	Status     string
	CustomerID string
}

// List 分页查询报价单列表。搜索在客户名称和单号上做词元匹配。
func (s *QuoteService) List(tenantID uint, params ListQuotesParams) ([]models.Quote, *pagination.PageInfo, error) {
	query := s.db.Model(&models.Quote{}).Where("tenant_id = ?", tenantID)

	if params.Status != "" {
		normalized := models.NormalizeQuoteStatus(params.Status)
		if normalized == "" {
			return nil, nil, ErrInvalidStatus
		}
		query = query.Where("status = ?", normalized)
	}
	if params.CustomerID != "" {
		query = query.Where("customer_id = ?", params.CustomerID)
	}
	if params.Search != "" {
		query = applySearch(query, params.Search, "customer_name", "number")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	var quotes []models.Quote
	offset := (params.Page - 1) * params.PageSize
	err := query.Order("created_at DESC").
		Offset(offset).Limit(params.PageSize).
		Find(&quotes).Error
	if err != nil {
		return nil, nil, err
	}

	pageInfo := pagination.NewPageInfo(params.Page, params.PageSize, total)
	return quotes, pageInfo, nil
}

// GetByID 获取报价单详情，预加载条目、附加费用和状态历史
func (s *QuoteService) GetByID(tenantID uint, id string) (*models.Quote, error) {
	var quote models.Quote
	err := s.db.Where("tenant_id = ? AND id = ?", tenantID, id).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("quote_items.created_at ASC")
		}).
		Preload("AdditionalCharges").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("quote_status_histories.created_at DESC")
		}).
		First(&quote).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &quote, nil
}

// Create 创建报价单。公开链接ID自动生成且默认启用，
// 金额由服务端根据条目和附加费用计算，忽略客户端提交的任何金额。
func (s *QuoteService) Create(tenantID uint, req *CreateQuoteRequest) (*models.Quote, error) {
	status := models.QuoteStatusDraft
	if req.Status != nil && *req.Status != "" {
		normalized := models.NormalizeQuoteStatus(*req.Status)
		if normalized == "" {
			return nil, ErrInvalidStatus
		}
		status = normalized
	}

	quote := models.Quote{
		TenantID:      tenantID,
		Number:        req.Number,
		Status:        status,
		CustomerID:    req.CustomerID,
		CustomerName:  req.CustomerName,
		BranchID:      req.BranchID,
		BranchName:    req.BranchName,
		IssueDate:     req.IssueDate,
		DueDate:       req.DueDate,
		Currency:      req.Currency,
		Notes:         req.Notes,
		PrintNotes:    req.PrintNotes,
		PublicID:      uuid.NewString(),
		PublicEnabled: true,
	}
	quote.Items = buildQuoteItems(tenantID, req.Items)
	quote.AdditionalCharges = buildQuoteCharges(tenantID, req.Charges)
	applyTotals(&quote, quote.Items, quote.AdditionalCharges)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&quote).Error
	})
	if err != nil {
		return nil, err
	}

	logger.GetLogger().WithField("quote_id", quote.ID).Info("报价单创建成功")
	return s.GetByID(tenantID, quote.ID)
}

// Update 更新报价单。条目或附加费用提交时在同一事务内整体替换旧集合并重算金额；
// 未提交时保持原子实体和金额不变。
func (s *QuoteService) Update(tenantID uint, id string, req *UpdateQuoteRequest) (*models.Quote, error) {
	var quote models.Quote
	err := s.db.Where("tenant_id = ? AND id = ?", tenantID, id).First(&quote).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{}
		if req.Number != nil {
			updates["number"] = req.Number
		}
		if req.CustomerID != nil {
			updates["customer_id"] = req.CustomerID
		}
		if req.CustomerName != nil {
			updates["customer_name"] = *req.CustomerName
		}
		if req.BranchID != nil {
			updates["branch_id"] = req.BranchID
		}
		if req.BranchName != nil {
			updates["branch_name"] = req.BranchName
		}
		if req.IssueDate != nil {
			updates["issue_date"] = req.IssueDate
		}
		if req.DueDate != nil {
			updates["due_date"] = req.DueDate
		}
		if req.Currency != nil {
			updates["currency"] = req.Currency
		}
		if req.Notes != nil {
			updates["notes"] = req.Notes
		}
		if req.PrintNotes != nil {
			updates["print_notes"] = req.PrintNotes
		}

		touchChildren := req.Items != nil || req.Charges != nil
		if touchChildren {
			var items []models.QuoteItem
			var charges []models.QuoteAdditionalCharge

			if req.Items != nil {
				if err := tx.Where("quote_id = ?", quote.ID).Delete(&models.QuoteItem{}).Error; err != nil {
					return err
				}
				items = buildQuoteItems(tenantID, *req.Items)
				for i := range items {
					items[i].QuoteID = quote.ID
				}
				if len(items) > 0 {
					if err := tx.Create(&items).Error; err != nil {
						return err
					}
				}
			} else {
				if err := tx.Where("quote_id = ?", quote.ID).Find(&items).Error; err != nil {
					return err
				}
			}

			if req.Charges != nil {
				if err := tx.Where("quote_id = ?", quote.ID).Delete(&models.QuoteAdditionalCharge{}).Error; err != nil {
					return err
				}
				charges = buildQuoteCharges(tenantID, *req.Charges)
				for i := range charges {
					charges[i].QuoteID = quote.ID
				}
				if len(charges) > 0 {
					if err := tx.Create(&charges).Error; err != nil {
						return err
					}
				}
			} else {
				if err := tx.Where("quote_id = ?", quote.ID).Find(&charges).Error; err != nil {
					return err
				}
			}

			totals := ComputeQuoteTotals(items, charges)
			updates["subtotal"] = totals.Subtotal
			updates["tax_total"] = totals.Tax
			updates["discount_total"] = totals.Discount
			updates["total"] = totals.Total
		}

		if len(updates) > 0 {
			if err := tx.Model(&quote).Updates(updates).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(tenantID, id)
}

// Delete 删除报价单，子实体级联删除
func (s *QuoteService) Delete(tenantID uint, id string) error {
	result := s.db.Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&models.Quote{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ChangeStatus 变更报价单状态，状态写入与历史记录在同一事务内完成
func (s *QuoteService) ChangeStatus(tenantID uint, id, newStatus string, reason *string, changedBy string) (*models.Quote, error) {
	normalized := models.NormalizeQuoteStatus(newStatus)
	if normalized == "" {
		return nil, ErrInvalidStatus
	}

	var quote models.Quote
	err := s.db.Where("tenant_id = ? AND id = ?", tenantID, id).First(&quote).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&quote).Update("status", normalized).Error; err != nil {
			return err
		}
		history := models.QuoteStatusHistory{
			QuoteID:    quote.ID,
			TenantID:   tenantID,
			FromStatus: models.NormalizeQuoteStatus(quote.Status),
			ToStatus:   normalized,
			Reason:     reason,
			ChangedBy:  changedBy,
		}
		return tx.Create(&history).Error
	})
	if err != nil {
		return nil, err
	}

	logger.GetLogger().WithField("quote_id", id).
		WithField("status", normalized).Info("报价单状态已变更")
	return s.GetByID(tenantID, id)
}

// ListStatusHistory 查询状态变更历史，按时间倒序
func (s *QuoteService) ListStatusHistory(tenantID uint, quoteID string) ([]models.QuoteStatusHistory, error) {
	var count int64
	if err := s.db.Model(&models.Quote{}).
		Where("tenant_id = ? AND id = ?", tenantID, quoteID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrNotFound
	}

	var history []models.QuoteStatusHistory
	err := s.db.Where("tenant_id = ? AND quote_id = ?", tenantID, quoteID).
		Order("created_at DESC").
		Find(&history).Error
	if err != nil {
		return nil, err
	}
	return history, nil
}

// SetPublicEnabled 启用或停用公开访问链接
func (s *QuoteService) SetPublicEnabled(tenantID uint, id string, enabled bool) (*models.Quote, error) {
	result := s.db.Model(&models.Quote{}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Update("public_enabled", enabled)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := s.db.Model(&models.Quote{}).
			Where("tenant_id = ? AND id = ?", tenantID, id).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, ErrNotFound
		}
	}
	return s.GetByID(tenantID, id)
}

// RegeneratePublicLink 重新生成公开链接ID并强制启用公开访问，旧链接立即失效
func (s *QuoteService) RegeneratePublicLink(tenantID uint, id string) (*models.Quote, error) {
	result := s.db.Model(&models.Quote{}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Updates(map[string]interface{}{
			"public_id":      uuid.NewString(),
			"public_enabled": true,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetByID(tenantID, id)
}

func buildQuoteItems(tenantID uint, inputs []QuoteItemInput) []models.QuoteItem {
	items := make([]models.QuoteItem, 0, len(inputs))
	for _, in := range inputs {
		items = append(items, models.QuoteItem{
			TenantID:    tenantID,
			ProductID:   in.ProductID,
			Description: in.Description,
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
			Discount:    in.Discount,
			TaxRate:     in.TaxRate,
		})
	}
	return items
}

func buildQuoteCharges(tenantID uint, inputs []QuoteChargeInput) []models.QuoteAdditionalCharge {
	charges := make([]models.QuoteAdditionalCharge, 0, len(inputs))
	for _, in := range inputs {
		charges = append(charges, models.QuoteAdditionalCharge{
			TenantID: tenantID,
			Type:     in.Type,
			Amount:   in.Amount,
		})
	}
	return charges
}

func applyTotals(quote *models.Quote, items []models.QuoteItem, charges []models.QuoteAdditionalCharge) {
	totals := ComputeQuoteTotals(items, charges)
	quote.Subtotal = &totals.Subtotal
	quote.TaxTotal = &totals.Tax
	quote.DiscountTotal = &totals.Discount
	quote.Total = &totals.Total
}
