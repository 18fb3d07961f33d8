package handlers

import (
	"errors"

	"kusystem/internal/middleware"
	"kusystem/internal/models"
	"kusystem/internal/services"
	"kusystem/pkg/response"

	"github.com/gin-gonic/gin"
)

// handleServiceError 将业务层哨兵错误映射为HTTP响应
func handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, services.ErrForbidden),
		errors.Is(err, services.ErrNotMember),
		errors.Is(err, services.ErrOwnerImmutable):
		response.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrLastOwner),
		errors.Is(err, services.ErrInvalidRole),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvitationAccepted),
		errors.Is(err, services.ErrInvitationExpired),
		errors.Is(err, services.ErrInvalidDayType),
		errors.Is(err, services.ErrTemplateInUse),
		errors.Is(err, services.ErrInvalidBucket):
		response.BadRequest(c, err.Error())
	default:
		response.ServerError(c, "服务器内部错误")
	}
}

// resolveUser 从请求身份解析本地用户记录，首次出现时自动建立
func resolveUser(c *gin.Context, userService *services.UserService) (*models.User, bool) {
	cu := middleware.GetCurrentUser(c)
	if cu == nil || cu.AuthProviderID == "" {
		response.Unauthorized(c, "Unauthorized")
		return nil, false
	}

	user, err := userService.ResolveOrCreate(cu.AuthProviderID, cu.Email, cu.NamePtr())
	if err != nil {
		response.ServerError(c, "用户解析失败")
		return nil, false
	}
	return user, true
}

// membershipFromContext 读取权限守卫写入的成员关系
func membershipFromContext(c *gin.Context) (*models.Membership, bool) {
	value, exists := c.Get("membership")
	if !exists {
		response.Forbidden(c, "不是该组织成员")
		return nil, false
	}
	membership, ok := value.(*models.Membership)
	if !ok {
		response.ServerError(c, "服务器内部错误")
		return nil, false
	}
	return membership, true
}
