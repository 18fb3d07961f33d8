package services

import "errors"

// 业务层哨兵错误，由处理器映射到响应码
var (
	// ErrNotFound 租户范围内不存在匹配记录
	ErrNotFound = errors.New("记录不存在")
	// ErrForbidden 权限不足
	ErrForbidden = errors.New("权限不足")
	// ErrNotMember 不是该组织成员
	ErrNotMember = errors.New("不是该组织成员")
	// ErrLastOwner 不允许移除或降级最后一个owner
	ErrLastOwner = errors.New("组织必须至少保留一个owner")
	// ErrOwnerImmutable owner角色的权限集不可修改
	ErrOwnerImmutable = errors.New("owner角色的权限不可修改")
	// ErrInvalidRole 角色无效
	ErrInvalidRole = errors.New("角色无效")
	// ErrInvalidStatus 报价单状态无效
	ErrInvalidStatus = errors.New("报价单状态无效")
	// ErrInvitationAccepted 邀请已被接受
	ErrInvitationAccepted = errors.New("邀请已被接受")
	// ErrInvitationExpired 邀请已过期
	ErrInvitationExpired = errors.New("邀请已过期")
	// ErrInvalidDayType 排班日类型无效
	ErrInvalidDayType = errors.New("日类型无效")
	// ErrTemplateInUse 模板仍被商品引用
	ErrTemplateInUse = errors.New("仍有商品使用该模板，无法删除")
	// ErrInvalidBucket 时间粒度无效
	ErrInvalidBucket = errors.New("时间粒度无效，应为day/week/month")
)
