package handlers

import (
	"kusystem/pkg/response"

	"github.com/gin-gonic/gin"
)

// HealthHandler 健康检查处理器
type HealthHandler struct{}

// NewHealthHandler 创建健康检查处理器
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Check 健康检查
// GET /health
func (h *HealthHandler) Check(c *gin.Context) {
	response.Success(c, gin.H{
		"status":  "ok",
		"service": "kusystem",
	})
}
