package errors

// 业务响应码沿用HTTP状态语义，信封内code与HTTP状态码保持一致
const (
	CodeSuccess = 200

	CodeInvalidParam = 400
	CodeUnauthorized = 401
	CodeForbidden    = 403
	CodeNotFound     = 404
	CodeServerError  = 500
)
