package handlers

import (
	"net/http"
	"strconv"
	"time"

	"kusystem/internal/middleware"
	"kusystem/internal/services"
	"kusystem/pkg/response"

	"github.com/gin-gonic/gin"
)

// AnalyticsHandler 报价分析处理器
type AnalyticsHandler struct {
	analyticsService *services.AnalyticsService
}

// NewAnalyticsHandler 创建分析处理器
func NewAnalyticsHandler(analyticsService *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// QuoteAnalytics 获取报价分析。响应带ETag，命中If-None-Match时返回304。
// GET /api/v1/analytics/quotes?from=2026-01-01&to=2026-08-31&bucket=month&status=APPROVED&client_id=xxx&top=10
func (h *AnalyticsHandler) QuoteAnalytics(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	now := time.Now().UTC()
	from := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	to := now.AddDate(0, 0, 1).Truncate(24 * time.Hour)

	if fromStr := c.Query("from"); fromStr != "" {
		parsed, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			response.BadRequest(c, "from日期格式无效，应为YYYY-MM-DD")
			return
		}
		from = parsed
	}
	if toStr := c.Query("to"); toStr != "" {
		parsed, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			response.BadRequest(c, "to日期格式无效，应为YYYY-MM-DD")
			return
		}
		// to为闭区间日期，查询时取次日零点为开区间上界
		to = parsed.AddDate(0, 0, 1)
	}
	if !from.Before(to) {
		response.BadRequest(c, "时间范围无效")
		return
	}

	top := 0
	if topStr := c.Query("top"); topStr != "" {
		parsed, err := strconv.Atoi(topStr)
		if err != nil || parsed <= 0 {
			response.BadRequest(c, "top参数无效")
			return
		}
		top = parsed
	}

	params := services.AnalyticsParams{
		From:       from,
		To:         to,
		Bucket:     c.Query("bucket"),
		Status:     c.Query("status"),
		CustomerID: c.Query("client_id"),
		Top:        top,
	}

	result, err := h.analyticsService.GetQuoteAnalytics(c.Request.Context(), tenantID, params)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.Header("ETag", result.ETag)
	c.Header("Cache-Control", "private, max-age=60")
	if c.GetHeader("If-None-Match") == result.ETag {
		c.Status(http.StatusNotModified)
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", result.Payload)
}
