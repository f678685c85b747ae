package api

import (
	"errors"
	"net/http"
	"strings"

	"warden/internal/auth"
	"warden/internal/authz"
	"warden/internal/metrics"
	"warden/internal/xe"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	currentAccountContextKey = "current-account"
)

// RequestAccount 存储请求上下文中的认证账户信息
type RequestAccount struct {
	ID        uint
	UserName  string
	SessionID string
}

// AuthMiddleware JWT 认证中间件。令牌对应的会话必须仍然存在，账户必须处于启用状态。
func (h *HTTPHandler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{
				Code:    ErrCodeUnauthorized,
				Message: "缺少授权头",
			})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{
				Code:    ErrCodeUnauthorized,
				Message: "无效的授权头格式",
			})
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{
				Code:    ErrCodeUnauthorized,
				Message: "缺少 Bearer Token",
			})
			return
		}

		claims, err := h.authManager.ParseToken(tokenString)
		if err != nil {
			logrus.WithError(err).Warn("failed to parse jwt token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{
				Code:    ErrCodeSessionExpired,
				Message: "Token 无效或已过期",
			})
			return
		}

		ctx, cancel := h.requestContext(c)
		defer cancel()

		session, err := h.sessions.Lookup(ctx, claims.ID)
		if err != nil || session.AccountID != claims.AccountID {
			if err != nil && !errors.Is(err, auth.ErrSessionNotFound) {
				logrus.WithError(err).WithField("account_id", claims.AccountID).Error("failed to load session")
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{
				Code:    ErrCodeSessionExpired,
				Message: "会话已失效",
			})
			return
		}

		account, err := h.repo.GetAccountByID(ctx, claims.AccountID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{
					Code:    ErrCodeAccountNotFound,
					Message: "账户不存在",
				})
				return
			}
			logrus.WithError(err).WithField("account_id", claims.AccountID).Error("failed to load account")
			c.AbortWithStatusJSON(http.StatusInternalServerError, APIError{
				Code:    ErrCodeInternalError,
				Message: "验证账户失败",
			})
			return
		}

		if !account.IsEnabled() {
			c.AbortWithStatusJSON(http.StatusForbidden, APIError{
				Code:    ErrCodeAccountDisabled,
				Message: xe.KeyAccountDisabled,
			})
			return
		}

		c.Set(currentAccountContextKey, &RequestAccount{
			ID:        account.ID,
			UserName:  account.UserName,
			SessionID: session.ID,
		})
		c.Next()
	}
}

// RequirePermission 权限守卫中间件，当前账户必须持有全部 codes。
func (h *HTTPHandler) RequirePermission(codes ...string) gin.HandlerFunc {
	return PermissionGuard(h.core.Resolver, h.metrics, codes...)
}

// PermissionGuard 使用注入的权限来源构造守卫中间件，m 可以为 nil。
func PermissionGuard(source authz.PermissionSource, m *metrics.Metrics, codes ...string) gin.HandlerFunc {
	gate := authz.NewGate(source, m)
	return func(c *gin.Context) {
		account := CurrentAccount(c)
		if account == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{
				Code:    ErrCodeUnauthorized,
				Message: "authentication required",
			})
			return
		}
		if err := gate.RequireAll(c.Request.Context(), account.ID, codes...); err != nil {
			RespondError(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentAccount 从上下文获取当前认证账户
func CurrentAccount(c *gin.Context) *RequestAccount {
	value, exists := c.Get(currentAccountContextKey)
	if !exists {
		return nil
	}
	account, ok := value.(*RequestAccount)
	if !ok {
		return nil
	}
	return account
}
