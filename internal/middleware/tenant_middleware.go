package middleware

import (
	"strconv"

	"kusystem/pkg/response"

	"github.com/gin-gonic/gin"
)

// TenantHeader 租户标识请求头
const TenantHeader = "X-Tenant-Id"

// 租户ID在gin上下文中的键
const tenantIDKey = "tenant_id"

// TenantMiddleware 租户解析中间件。除公开路由外的所有请求都必须携带
// X-Tenant-Id 头；缺失、非数字、非正数三种情况返回不同的400错误信息。
func TenantMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(TenantHeader)
		if header == "" {
			response.BadRequest(c, "缺少 X-Tenant-Id 请求头")
			c.Abort()
			return
		}

		tenantID, err := strconv.ParseUint(header, 10, 64)
		if err != nil {
			response.BadRequest(c, "X-Tenant-Id 无效（非数字格式）")
			c.Abort()
			return
		}
		if tenantID == 0 {
			response.BadRequest(c, "X-Tenant-Id 无效（必须为正整数）")
			c.Abort()
			return
		}

		c.Set(tenantIDKey, uint(tenantID))
		c.Next()
	}
}

// GetTenantID 获取已解析的租户ID。公开路由不经过租户中间件，
// 在这类路由上调用属于编码错误，panic后由恢复中间件转为500。
func GetTenantID(c *gin.Context) uint {
	v, exists := c.Get(tenantIDKey)
	if !exists {
		panic("tenant id not resolved for this request")
	}
	return v.(uint)
}
