package handlers

import (
	"kusystem/internal/middleware"
	"kusystem/internal/services"
	"kusystem/pkg/pagination"
	"kusystem/pkg/response"

	"github.com/gin-gonic/gin"
)

// QuoteHandler 报价单处理器
type QuoteHandler struct {
	quoteService *services.QuoteService
}

// NewQuoteHandler 创建报价单处理器
func NewQuoteHandler(quoteService *services.QuoteService) *QuoteHandler {
	return &QuoteHandler{quoteService: quoteService}
}

// List 获取报价单列表
// GET /api/v1/quotes?page=1&pageSize=20&search=&status=&customerId=
func (h *QuoteHandler) List(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)
	params := pagination.ParsePageParams(c)

	quotes, pageInfo, err := h.quoteService.List(tenantID, services.ListQuotesParams{
		Page:       params.Page,
		PageSize:   params.PageSize,
		Search:     c.Query("search"),
		Status:     c.Query("status"),
		CustomerID: c.Query("customerId"),
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithPage(c, quotes, pageInfo)
}

// Get 获取报价单详情
// GET /api/v1/quotes/:id
func (h *QuoteHandler) Get(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	quote, err := h.quoteService.GetByID(tenantID, c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, quote)
}

// Create 创建报价单
// POST /api/v1/quotes
func (h *QuoteHandler) Create(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	var req services.CreateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	quote, err := h.quoteService.Create(tenantID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Created(c, quote)
}

// Update 更新报价单
// PUT /api/v1/quotes/:id
func (h *QuoteHandler) Update(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	var req services.UpdateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	quote, err := h.quoteService.Update(tenantID, c.Param("id"), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, quote)
}

// Delete 删除报价单
// DELETE /api/v1/quotes/:id
func (h *QuoteHandler) Delete(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	if err := h.quoteService.Delete(tenantID, c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, nil)
}

// ChangeStatusRequest 状态变更请求
type ChangeStatusRequest struct {
	Status string  `json:"status" binding:"required"`
	Reason *string `json:"reason" binding:"omitempty,max=500"`
}

// ChangeStatus 变更报价单状态
// PATCH /api/v1/quotes/:id/status
func (h *QuoteHandler) ChangeStatus(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	var req ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	actor := middleware.GetCurrentUser(c).Actor()
	quote, err := h.quoteService.ChangeStatus(tenantID, c.Param("id"), req.Status, req.Reason, actor)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, quote)
}

// StatusHistory 获取状态变更历史
// GET /api/v1/quotes/:id/status-history
func (h *QuoteHandler) StatusHistory(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	history, err := h.quoteService.ListStatusHistory(tenantID, c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, history)
}

// SetPublicEnabledRequest 公开链接开关请求
type SetPublicEnabledRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// SetPublicEnabled 启用或停用公开链接
// PATCH /api/v1/quotes/:id/public
func (h *QuoteHandler) SetPublicEnabled(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	var req SetPublicEnabledRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	quote, err := h.quoteService.SetPublicEnabled(tenantID, c.Param("id"), *req.Enabled)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, quote)
}

// RegeneratePublicLink 重新生成公开链接
// POST /api/v1/quotes/:id/public/regenerate
func (h *QuoteHandler) RegeneratePublicLink(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	quote, err := h.quoteService.RegeneratePublicLink(tenantID, c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, quote)
}
