package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"kusystem/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTenantTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(TenantMiddleware())
	r.GET("/probe", func(c *gin.Context) {
		response.Success(c, gin.H{"tenant_id": GetTenantID(c)})
	})
	return r
}

func doTenantRequest(t *testing.T, header string, setHeader bool) (*httptest.ResponseRecorder, response.Response) {
	t.Helper()

	r := newTenantTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if setHeader {
		req.Header.Set(TenantHeader, header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestTenantMiddlewareMissingHeader(t *testing.T) {
	w, body := doTenantRequest(t, "", false)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "缺少 X-Tenant-Id 请求头", body.Message)
}

func TestTenantMiddlewareNonNumeric(t *testing.T) {
	w, body := doTenantRequest(t, "abc", true)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "X-Tenant-Id 无效（非数字格式）", body.Message)
}

func TestTenantMiddlewareZero(t *testing.T) {
	w, body := doTenantRequest(t, "0", true)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "X-Tenant-Id 无效（必须为正整数）", body.Message)
}

func TestTenantMiddlewareNegative(t *testing.T) {
	// 负数无法解析为无符号整数，按非数字格式处理
	w, body := doTenantRequest(t, "-3", true)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "X-Tenant-Id 无效（非数字格式）", body.Message)
}

func TestTenantMiddlewareValid(t *testing.T) {
	w, body := doTenantRequest(t, "7", true)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", body.Message)
}
