package api

import (
	"net/http"

	"warden/internal/entity"
	"warden/internal/entity/converter"
	"warden/internal/entity/dto"

	"github.com/gin-gonic/gin"
)

func (h *HTTPHandler) ListAccounts(c *gin.Context) {
	var params entity.AccountQuery
	if err := c.ShouldBindQuery(&params); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	accounts, meta, err := h.accounts.QueryAccounts(ctx, CurrentAccount(c).ID, &params)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.AccountListResponse{
		Accounts: converter.AccountsToSummaries(accounts),
		Meta:     meta,
	})
}

func (h *HTTPHandler) CreateAccount(c *gin.Context) {
	var req dto.AccountCreateRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	account, err := h.accounts.AddAccount(ctx, CurrentAccount(c).ID, req)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, converter.AccountToSummary(account))
}

func (h *HTTPHandler) UpdateAccounts(c *gin.Context) {
	var reqs []dto.AccountUpdateRequest
	if !bindJSON(c, &reqs) {
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	n, err := h.accounts.UpdateAccounts(ctx, CurrentAccount(c).ID, reqs)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CountResponse{Count: n})
}

func (h *HTTPHandler) DeregisterAccounts(c *gin.Context) {
	var req dto.IDsRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	n, err := h.accounts.DeregisterAccounts(ctx, CurrentAccount(c).ID, req.IDs)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CountResponse{Count: n})
}

func (h *HTTPHandler) GetAccount(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	account, err := h.accounts.GetAccount(ctx, id)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, converter.AccountToSummary(account))
}

func (h *HTTPHandler) ListAccountRoles(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	roles, err := h.roles.RolesOfAccount(ctx, id)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.RoleListResponse{Roles: converter.RolesToSummaries(roles)})
}

func (h *HTTPHandler) ListAccountPermissions(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	permissions, err := h.permissions.PermissionsOfAccount(ctx, CurrentAccount(c).ID, id)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.PermissionListResponse{Permissions: converter.PermissionsToSummaries(permissions)})
}

func (h *HTTPHandler) GetAccountUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	link, err := h.links.UserOfAccount(ctx, id)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, converter.AccountUserToSummary(link))
}
