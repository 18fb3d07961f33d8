package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"kusystem/internal/models"
	"kusystem/pkg/cache"
	"kusystem/pkg/logger"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// 报表缓存时长
const analyticsCacheTTL = 60 * time.Second

// AnalyticsService 报价分析服务。结果短期缓存在Redis，
// 缓存不可用时直接查库，不影响可用性。
type AnalyticsService struct {
	db    *gorm.DB
	cache *cache.RedisCache
}

// NewAnalyticsService 创建分析服务
func NewAnalyticsService(db *gorm.DB, c *cache.RedisCache) *AnalyticsService {
	return &AnalyticsService{db: db, cache: c}
}

// 时间序列粒度
const (
	BucketDay   = "day"
	BucketWeek  = "week"
	BucketMonth = "month"
)

// AnalyticsParams 分析查询参数。From闭、To开。Bucket缺省按月。
type AnalyticsParams struct {
	From       time.Time
	To         time.Time
	Bucket     string
	Status     string
	CustomerID string
	Top        int
}

// StatusCount 按状态统计
type StatusCount struct {
	Status string          `json:"status"`
	Count  int64           `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

// PeriodCount 按时间段统计
type PeriodCount struct {
	Period string          `json:"period"`
	Count  int64           `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

// TopClient 客户排行
type TopClient struct {
	CustomerName string          `json:"customer_name"`
	Count        int64           `json:"count"`
	Amount       decimal.Decimal `json:"amount"`
}

// AnalyticsKPIs 核心指标
type AnalyticsKPIs struct {
	Count       int64           `json:"count"`
	AmountSum   decimal.Decimal `json:"amount_sum"`
	AvgTicket   decimal.Decimal `json:"avg_ticket"`
	HitRate     float64         `json:"hit_rate"` // 已成交 / (已成交 + 已拒绝)
	Expiring7d  int64           `json:"expiring_7d"`
	Expired     int64           `json:"expired"`
	ApprovedSum decimal.Decimal `json:"approved_sum"`
}

// QuoteAnalytics 报价分析汇总
type QuoteAnalytics struct {
	KPIs        AnalyticsKPIs `json:"kpis"`
	ByStatus    []StatusCount `json:"by_status"`
	ByTime      []PeriodCount `json:"by_time"`
	TopClients  []TopClient   `json:"top_clients"`
	Funnel      []StatusCount `json:"funnel"`
	GeneratedAt time.Time     `json:"generated_at"`
}

// AnalyticsResult 序列化后的分析结果及其ETag
type AnalyticsResult struct {
	Payload []byte
	ETag    string
}

// GetQuoteAnalytics 生成指定过滤条件下的报价分析。
// 同一 (租户, 过滤条件) 的结果缓存60秒，ETag由内容哈希派生。
func (s *AnalyticsService) GetQuoteAnalytics(ctx context.Context, tenantID uint, params AnalyticsParams) (*AnalyticsResult, error) {
	if params.Status != "" {
		normalized := models.NormalizeQuoteStatus(params.Status)
		if normalized == "" {
			return nil, ErrInvalidStatus
		}
		params.Status = normalized
	}
	if params.Top <= 0 || params.Top > 50 {
		params.Top = 5
	}
	switch params.Bucket {
	case "":
		params.Bucket = BucketMonth
	case BucketDay, BucketWeek, BucketMonth:
	default:
		return nil, ErrInvalidBucket
	}

	cacheKey := fmt.Sprintf("analytics:quotes:%d:%s:%s:%s:%s:%s:%d",
		tenantID,
		params.From.Format("2006-01-02"), params.To.Format("2006-01-02"),
		params.Bucket, params.Status, params.CustomerID, params.Top)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cacheKey)
		if err == nil {
			return resultFromPayload([]byte(cached)), nil
		}
		if !cache.IsMiss(err) {
			logger.GetLogger().WithError(err).Warn("报表缓存读取失败，回退直查")
		}
	}

	analytics, err := s.computeQuoteAnalytics(tenantID, params)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(analytics)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, string(payload), analyticsCacheTTL); err != nil {
			logger.GetLogger().WithError(err).Warn("报表缓存写入失败")
		}
	}
	return resultFromPayload(payload), nil
}

func resultFromPayload(payload []byte) *AnalyticsResult {
	sum := sha256.Sum256(payload)
	return &AnalyticsResult{
		Payload: payload,
		ETag:    `"` + hex.EncodeToString(sum[:16]) + `"`,
	}
}

// 状态枚举的固定输出顺序，保证同一数据集的序列化结果稳定
var statusOrder = []string{
	models.QuoteStatusDraft, models.QuoteStatusOpen, models.QuoteStatusApproved,
	models.QuoteStatusRejected, models.QuoteStatusExpired, models.QuoteStatusInvoiced,
}

// bucketPeriod 时间段标签。周粒度以周一日期为标签。
func bucketPeriod(t time.Time, bucket string) string {
	switch bucket {
	case BucketDay:
		return t.Format("2006-01-02")
	case BucketWeek:
		return WeekStart(t).Format("2006-01-02")
	default:
		return t.Format("2006-01")
	}
}

func bucketAlign(t time.Time, bucket string) time.Time {
	switch bucket {
	case BucketDay:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	case BucketWeek:
		return WeekStart(t)
	default:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
}

func bucketNext(t time.Time, bucket string) time.Time {
	switch bucket {
	case BucketDay:
		return t.AddDate(0, 0, 1)
	case BucketWeek:
		return t.AddDate(0, 0, 7)
	default:
		return t.AddDate(0, 1, 0)
	}
}

func (s *AnalyticsService) computeQuoteAnalytics(tenantID uint, params AnalyticsParams) (*QuoteAnalytics, error) {
	query := s.db.Where("tenant_id = ? AND created_at >= ? AND created_at < ?",
		tenantID, params.From, params.To)
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.CustomerID != "" {
		query = query.Where("customer_id = ?", params.CustomerID)
	}

	var quotes []models.Quote
	if err := query.Find(&quotes).Error; err != nil {
		return nil, err
	}

	analytics := &QuoteAnalytics{
		KPIs: AnalyticsKPIs{
			AmountSum:   decimal.Zero,
			AvgTicket:   decimal.Zero,
			ApprovedSum: decimal.Zero,
		},
		ByStatus:    []StatusCount{},
		ByTime:      []PeriodCount{},
		TopClients:  []TopClient{},
		Funnel:      []StatusCount{},
		GeneratedAt: time.Now().UTC().Truncate(time.Second),
	}

	statusAgg := map[string]*StatusCount{}
	periodAgg := map[string]*PeriodCount{}
	clientAgg := map[string]*TopClient{}
	var approvedCount, rejectedCount int64
	now := time.Now().UTC()
	soon := now.AddDate(0, 0, 7)

	for _, q := range quotes {
		analytics.KPIs.Count++
		amount := decimal.Zero
		if q.Total != nil {
			amount = *q.Total
		}
		analytics.KPIs.AmountSum = analytics.KPIs.AmountSum.Add(amount)

		status := models.NormalizeQuoteStatus(q.Status)
		if status == "" {
			status = q.Status
		}
		switch status {
		case models.QuoteStatusApproved, models.QuoteStatusInvoiced:
			analytics.KPIs.ApprovedSum = analytics.KPIs.ApprovedSum.Add(amount)
			approvedCount++
		case models.QuoteStatusRejected:
			rejectedCount++
		case models.QuoteStatusExpired:
			analytics.KPIs.Expired++
		}

		// 即将到期：未终结且7天内到期
		if status == models.QuoteStatusOpen || status == models.QuoteStatusDraft {
			if q.DueDate != nil && q.DueDate.After(now) && q.DueDate.Before(soon) {
				analytics.KPIs.Expiring7d++
			}
		}

		sc, ok := statusAgg[status]
		if !ok {
			sc = &StatusCount{Status: status, Amount: decimal.Zero}
			statusAgg[status] = sc
		}
		sc.Count++
		sc.Amount = sc.Amount.Add(amount)

		period := bucketPeriod(q.CreatedAt.UTC(), params.Bucket)
		mc, ok := periodAgg[period]
		if !ok {
			mc = &PeriodCount{Period: period, Amount: decimal.Zero}
			periodAgg[period] = mc
		}
		mc.Count++
		mc.Amount = mc.Amount.Add(amount)

		cc, ok := clientAgg[q.CustomerName]
		if !ok {
			cc = &TopClient{CustomerName: q.CustomerName, Amount: decimal.Zero}
			clientAgg[q.CustomerName] = cc
		}
		cc.Count++
		cc.Amount = cc.Amount.Add(amount)
	}

	if analytics.KPIs.Count > 0 {
		analytics.KPIs.AvgTicket = analytics.KPIs.AmountSum.
			Div(decimal.NewFromInt(analytics.KPIs.Count)).Round(4)
	}
	if approvedCount+rejectedCount > 0 {
		analytics.KPIs.HitRate = float64(approvedCount) / float64(approvedCount+rejectedCount)
	}

	for _, status := range statusOrder {
		if sc, ok := statusAgg[status]; ok {
			analytics.ByStatus = append(analytics.ByStatus, *sc)
			analytics.Funnel = append(analytics.Funnel, *sc)
		}
	}

	for cursor := bucketAlign(params.From, params.Bucket); cursor.Before(params.To); cursor = bucketNext(cursor, params.Bucket) {
		if mc, ok := periodAgg[bucketPeriod(cursor, params.Bucket)]; ok {
			analytics.ByTime = append(analytics.ByTime, *mc)
		}
	}

	for len(clientAgg) > 0 && len(analytics.TopClients) < params.Top {
		var best *TopClient
		for _, cc := range clientAgg {
			if best == nil || cc.Amount.GreaterThan(best.Amount) ||
				(cc.Amount.Equal(best.Amount) && cc.CustomerName < best.CustomerName) {
				best = cc
			}
		}
		analytics.TopClients = append(analytics.TopClients, *best)
		delete(clientAgg, best.CustomerName)
	}

	return analytics, nil
}
