package api

import (
	"errors"
	"net/http"

	"warden/internal/xe"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// 错误码定义
const (
	// 通用错误码
	ErrCodeInvalidRequest     = "ERR_INVALID_REQUEST"
	ErrCodeUnauthorized       = "ERR_UNAUTHORIZED"
	ErrCodeForbidden          = "ERR_FORBIDDEN"
	ErrCodeNotFound           = "ERR_NOT_FOUND"
	ErrCodeConflict           = "ERR_CONFLICT"
	ErrCodeInternalError      = "ERR_INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "ERR_SERVICE_UNAVAILABLE"

	// 认证错误码
	ErrCodeInvalidCredentials = "ERR_INVALID_CREDENTIALS"
	ErrCodeAccountDisabled    = "ERR_ACCOUNT_DISABLED"
	ErrCodeSessionExpired     = "ERR_SESSION_EXPIRED"
	ErrCodeAccountNotFound    = "ERR_ACCOUNT_NOT_FOUND"

	// 业务逻辑错误码
	ErrCodeMissingField = "ERR_MISSING_FIELD"
	ErrCodeInconsistent = "ERR_INCONSISTENT"
)

// APIError 统一的 API 错误响应结构
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorResponse 返回统一格式的错误响应
func ErrorResponse(c *gin.Context, status int, code string, message string) {
	c.JSON(status, APIError{
		Code:    code,
		Message: message,
	})
}

// ErrorResponseWithDetails 返回带详情的错误响应
func ErrorResponseWithDetails(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, APIError{
		Code:    code,
		Message: message,
		Details: details,
	})
}

// RespondError 按领域错误分类选择状态码，Message 使用错误的消息键。
func RespondError(c *gin.Context, err error) {
	status, code := statusOf(err)
	key := xe.KeyOf(err)
	if status >= http.StatusInternalServerError {
		logrus.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).Error("request failed")
		if key == "" {
			key = "internal.error"
		}
		ErrorResponse(c, status, code, key)
		return
	}

	var de *xe.Error
	if errors.As(err, &de) && de.Detail != "" && status != http.StatusUnauthorized {
		ErrorResponseWithDetails(c, status, code, key, gin.H{"detail": de.Detail})
		return
	}
	ErrorResponse(c, status, code, key)
}

func statusOf(err error) (int, string) {
	switch xe.KindOf(err) {
	case xe.KindValidation:
		return http.StatusBadRequest, ErrCodeInvalidRequest
	case xe.KindConflict:
		return http.StatusConflict, ErrCodeConflict
	case xe.KindPermissionDenied:
		return http.StatusForbidden, ErrCodeForbidden
	case xe.KindNotFound:
		return http.StatusNotFound, ErrCodeNotFound
	case xe.KindUnauthenticated:
		if xe.KeyOf(err) == xe.KeyAccountDisabled {
			return http.StatusForbidden, ErrCodeAccountDisabled
		}
		return http.StatusUnauthorized, ErrCodeInvalidCredentials
	case xe.KindConsistency:
		return http.StatusInternalServerError, ErrCodeInconsistent
	default:
		return http.StatusInternalServerError, ErrCodeInternalError
	}
}

// 常用错误响应快捷函数

// BadRequest 400 错误请求
func BadRequest(c *gin.Context, code string, message string) {
	ErrorResponse(c, http.StatusBadRequest, code, message)
}

// Unauthorized 401 未授权
func Unauthorized(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusUnauthorized, ErrCodeUnauthorized, message)
}

// Forbidden 403 禁止访问
func Forbidden(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusForbidden, ErrCodeForbidden, message)
}

// NotFound 404 资源不存在
func NotFound(c *gin.Context, code string, message string) {
	ErrorResponse(c, http.StatusNotFound, code, message)
}

// InternalError 500 服务器内部错误
func InternalError(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusInternalServerError, ErrCodeInternalError, message)
}

// ServiceUnavailable 503 服务不可用
func ServiceUnavailable(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, message)
}

// MissingField 缺少必填字段
func MissingField(c *gin.Context, field string) {
	ErrorResponseWithDetails(c, http.StatusBadRequest, ErrCodeMissingField, field+" is required", gin.H{"field": field})
}

// InvalidPayload 无效的请求体
func InvalidPayload(c *gin.Context) {
	ErrorResponse(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request payload")
}
