package api

import (
	"context"
	"net/http"
	"time"

	"warden/internal/auth"
	"warden/internal/authz"
	"warden/internal/config"
	"warden/internal/metrics"
	"warden/internal/model"
	"warden/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
)

const requestTimeout = 5 * time.Second

// HTTPHandler HTTP 请求处理器
type HTTPHandler struct {
	cfg         config.Config
	repo        model.Repository
	authManager *auth.Manager
	sessions    auth.SessionStore
	metrics     *metrics.Metrics

	// 服务层
	core        *service.Core
	accounts    *service.AccountService
	roles       *service.RoleService
	permissions *service.PermissionService
	links       *service.LinkService
	coordinator *service.AssignmentCoordinator
}

// NewHTTPHandler 创建 HTTP 处理器实例，m 可以为 nil。
func NewHTTPHandler(cfg config.Config, repo model.Repository, sessions auth.SessionStore, m *metrics.Metrics) (*HTTPHandler, error) {
	expiry := time.Duration(cfg.JWTExpirationMinutes) * time.Minute
	authManager, err := auth.NewManager(cfg.JWTSecret, cfg.JWTIssuer, expiry)
	if err != nil {
		return nil, err
	}

	core := service.NewCore(repo, m)
	return &HTTPHandler{
		cfg:         cfg,
		repo:        repo,
		authManager: authManager,
		sessions:    sessions,
		metrics:     m,
		core:        core,
		accounts:    service.NewAccountService(core),
		roles:       service.NewRoleService(core),
		permissions: service.NewPermissionService(core),
		links:       service.NewLinkService(core),
		coordinator: service.NewAssignmentCoordinator(core),
	}, nil
}

// Core 返回处理器使用的权限核心。
func (h *HTTPHandler) Core() *service.Core {
	return h.core
}

// RegisterRoutes 注册全部 API 路由。
func (h *HTTPHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	apiGroup := r.Group("/api")

	authGroup := apiGroup.Group("/auth")
	authGroup.POST("/login", h.Login)
	authGroup.POST("/logout", h.AuthMiddleware(), h.Logout)
	authGroup.GET("/me", h.AuthMiddleware(), h.Me)

	protected := apiGroup.Group("")
	protected.Use(h.AuthMiddleware())

	accounts := protected.Group("/accounts")
	accounts.GET("", h.ListAccounts)
	accounts.POST("", h.CreateAccount)
	accounts.PATCH("", h.UpdateAccounts)
	accounts.DELETE("", h.DeregisterAccounts)
	accounts.GET("/:id", h.RequirePermission(authz.CodeQueryAccount), h.GetAccount)
	accounts.GET("/:id/roles", h.RequirePermission(authz.CodeQueryRole), h.ListAccountRoles)
	accounts.GET("/:id/permissions", h.ListAccountPermissions)
	accounts.GET("/:id/user", h.RequirePermission(authz.CodeQueryUserInfo), h.GetAccountUser)

	roles := protected.Group("/roles")
	roles.GET("", h.ListRoles)
	roles.GET("/active", h.RequirePermission(authz.CodeQueryRole), h.ListActiveRoles)
	roles.POST("", h.CreateRoles)
	roles.PATCH("", h.UpdateRoles)
	roles.DELETE("", h.DeleteRoles)
	roles.GET("/:id/permissions", h.RequirePermission(authz.CodeQueryPermission), h.ListRolePermissionIDs)

	permissions := protected.Group("/permissions")
	permissions.GET("", h.ListPermissions)
	permissions.POST("", h.CreatePermissions)
	permissions.PATCH("", h.UpdatePermissions)
	permissions.DELETE("", h.DeletePermissions)

	links := protected.Group("/links")
	links.PUT("/account-roles", h.AssignAccountRoles)
	links.POST("/account-roles", h.AddAccountRoles)
	links.DELETE("/account-roles", h.DeleteAccountRoles)
	links.PUT("/role-permissions", h.AssignRolePermissions)
	links.POST("/role-permissions", h.AddRolePermissions)
	links.DELETE("/role-permissions", h.DeleteRolePermissionsByPermission)
	links.DELETE("/roles", h.DeleteRoleLinks)
	links.POST("/account-users", h.AddAccountUsers)
	links.DELETE("/account-users", h.DeleteAccountUsers)

	protected.GET("/users/:id/account", h.RequirePermission(authz.CodeQueryUserInfo), h.GetUserAccount)
}

func (h *HTTPHandler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), requestTimeout)
}

// pathID 解析路径中的正整数 id，失败时写入 400 响应。
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := cast.ToUintE(c.Param(name))
	if err != nil || id == 0 {
		ErrorResponseWithDetails(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid "+name, gin.H{"field": name})
		return 0, false
	}
	return id, true
}

// bindJSON 绑定请求体，失败时写入 400 响应。
func bindJSON(c *gin.Context, dest any) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		ErrorResponseWithDetails(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request payload", gin.H{"detail": err.Error()})
		return false
	}
	return true
}
