package api

import (
	"net/http"

	"warden/internal/auth"
	"warden/internal/entity/converter"
	"warden/internal/entity/dto"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func (h *HTTPHandler) Login(c *gin.Context) {
	var req dto.AuthLoginRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	account, err := h.accounts.Authenticate(ctx, req.UserName, req.Password)
	if err != nil {
		logrus.WithError(err).WithField("user_name", req.UserName).Warn("login attempt failed")
		RespondError(c, err)
		return
	}

	sessionID := auth.NewSessionID()
	token, expiresAt, err := h.authManager.GenerateToken(account, sessionID)
	if err != nil {
		logrus.WithError(err).Error("failed to generate token")
		InternalError(c, "failed to create session")
		return
	}
	err = h.sessions.Save(ctx, auth.Session{
		ID:        sessionID,
		AccountID: account.ID,
		UserName:  account.UserName,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		logrus.WithError(err).WithField("account_id", account.ID).Error("failed to save session")
		InternalError(c, "failed to create session")
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Account:   converter.AccountToSummary(account),
	})
}

func (h *HTTPHandler) Logout(c *gin.Context) {
	current := CurrentAccount(c)
	if current == nil {
		Unauthorized(c, "authentication required")
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	if err := h.sessions.Delete(ctx, current.SessionID); err != nil {
		logrus.WithError(err).WithField("account_id", current.ID).Error("failed to delete session")
		InternalError(c, "failed to revoke session")
		return
	}
	c.Status(http.StatusNoContent)
}

// Me 返回当前账户以及实时解析的角色码和权限码。
func (h *HTTPHandler) Me(c *gin.Context) {
	current := CurrentAccount(c)
	if current == nil {
		Unauthorized(c, "authentication required")
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	account, err := h.accounts.GetAccount(ctx, current.ID)
	if err != nil {
		RespondError(c, err)
		return
	}
	roles, err := h.core.Resolver.ResolveRoleCodes(ctx, current.ID)
	if err != nil {
		RespondError(c, err)
		return
	}
	permissions, err := h.core.Resolver.ResolvePermissionCodes(ctx, current.ID)
	if err != nil {
		RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MeResponse{
		Account:     converter.AccountToSummary(account),
		Roles:       roles,
		Permissions: permissions,
	})
}
