package response

import (
	"kusystem/pkg/errors"
	"kusystem/pkg/pagination"

	"github.com/gin-gonic/gin"
)

// Response 统一返回格式
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success 成功返回
func Success(c *gin.Context, data interface{}) {
	c.JSON(errors.CodeSuccess, Response{
		Code:    errors.CodeSuccess,
		Message: "success",
		Data:    data,
	})
}

// Created 创建成功返回 (201)
func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    errors.CodeSuccess,
		Message: "success",
		Data:    data,
	})
}

// SuccessWithPage 分页成功返回
func SuccessWithPage(c *gin.Context, data interface{}, pageInfo *pagination.PageInfo) {
	c.JSON(errors.CodeSuccess, gin.H{
		"code":      errors.CodeSuccess,
		"message":   "success",
		"data":      data,
		"page_info": pageInfo,
	})
}

// Error 通用错误返回，HTTP状态码与业务码保持一致
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

// ========== HTTP错误快捷方法 ==========

func BadRequest(c *gin.Context, message string) {
	Error(c, errors.CodeInvalidParam, message)
}

func Unauthorized(c *gin.Context, message string) {
	Error(c, errors.CodeUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	Error(c, errors.CodeForbidden, message)
}

// ForbiddenWithRequired 权限不足返回，附带所需权限标识
func ForbiddenWithRequired(c *gin.Context, message, required string) {
	c.JSON(errors.CodeForbidden, gin.H{
		"code":     errors.CodeForbidden,
		"message":  message,
		"required": required,
	})
}

func NotFound(c *gin.Context, message string) {
	Error(c, errors.CodeNotFound, message)
}

func ServerError(c *gin.Context, message string) {
	Error(c, errors.CodeServerError, message)
}
