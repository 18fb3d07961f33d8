package handlers

import (
	"kusystem/internal/services"
	"kusystem/pkg/response"

	"github.com/gin-gonic/gin"
)

// PublicQuoteHandler 报价单公开访问处理器，无需认证
type PublicQuoteHandler struct {
	publicQuoteService *services.PublicQuoteService
}

// NewPublicQuoteHandler 创建公开访问处理器
func NewPublicQuoteHandler(publicQuoteService *services.PublicQuoteService) *PublicQuoteHandler {
	return &PublicQuoteHandler{publicQuoteService: publicQuoteService}
}

// Get 凭公开链接ID查看报价单
// GET /public/quotes/:publicId
func (h *PublicQuoteHandler) Get(c *gin.Context) {
	view, err := h.publicQuoteService.GetByPublicID(c.Param("publicId"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, view)
}
