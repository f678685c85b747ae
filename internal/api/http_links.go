package api

import (
	"context"
	"net/http"

	"warden/internal/entity/converter"
	"warden/internal/entity/dto"

	"github.com/gin-gonic/gin"
)

// AssignAccountRoles 整体替换批次中账户的角色。
func (h *HTTPHandler) AssignAccountRoles(c *gin.Context) {
	var pairs []dto.AccountRolePair
	if !bindJSON(c, &pairs) {
		return
	}
	h.respondCount(c, func(ctx context.Context, actor uint) (int64, error) {
		return h.coordinator.AssignRolesToAccounts(ctx, actor, pairs)
	})
}

func (h *HTTPHandler) AddAccountRoles(c *gin.Context) {
	var pairs []dto.AccountRolePair
	if !bindJSON(c, &pairs) {
		return
	}
	h.respondCount(c, func(ctx context.Context, actor uint) (int64, error) {
		return h.links.AddAccountRoleLinks(ctx, actor, pairs)
	})
}

// DeleteAccountRoles 删除账户的全部角色关联，请求体为账户 id。
func (h *HTTPHandler) DeleteAccountRoles(c *gin.Context) {
	var req dto.IDsRequest
	if !bindJSON(c, &req) {
		return
	}
	h.respondCount(c, func(ctx context.Context, actor uint) (int64, error) {
		return h.links.DeleteLinksByAccountIDs(ctx, actor, req.IDs)
	})
}

// AssignRolePermissions 整体替换批次中角色的权限。
func (h *HTTPHandler) AssignRolePermissions(c *gin.Context) {
	var pairs []dto.RolePermissionPair
	if !bindJSON(c, &pairs) {
		return
	}
	h.respondCount(c, func(ctx context.Context, actor uint) (int64, error) {
		return h.coordinator.AssignPermissionsToRoles(ctx, actor, pairs)
	})
}

func (h *HTTPHandler) AddRolePermissions(c *gin.Context) {
	var pairs []dto.RolePermissionPair
	if !bindJSON(c, &pairs) {
		return
	}
	h.respondCount(c, func(ctx context.Context, actor uint) (int64, error) {
		return h.links.AddRolePermissionLinks(ctx, actor, pairs)
	})
}

// DeleteRolePermissionsByPermission 请求体为权限 id。
func (h *HTTPHandler) DeleteRolePermissionsByPermission(c *gin.Context) {
	var req dto.IDsRequest
	if !bindJSON(c, &req) {
		return
	}
	h.respondCount(c, func(ctx context.Context, actor uint) (int64, error) {
		return h.links.DeleteLinksByPermissionIDs(ctx, actor, req.IDs)
	})
}

// DeleteRoleLinks 请求体为角色 id，同时清理账户和权限两侧的关联。
func (h *HTTPHandler) DeleteRoleLinks(c *gin.Context) {
	var req dto.IDsRequest
	if !bindJSON(c, &req) {
		return
	}
	h.respondCount(c, func(ctx context.Context, actor uint) (int64, error) {
		return h.links.DeleteLinksByRoleIDs(ctx, actor, req.IDs)
	})
}

func (h *HTTPHandler) AddAccountUsers(c *gin.Context) {
	var pairs []dto.AccountUserPair
	if !bindJSON(c, &pairs) {
		return
	}
	h.respondCount(c, func(ctx context.Context, actor uint) (int64, error) {
		return h.links.AddAccountUserLinks(ctx, actor, pairs)
	})
}

func (h *HTTPHandler) DeleteAccountUsers(c *gin.Context) {
	var req dto.IDsRequest
	if !bindJSON(c, &req) {
		return
	}
	h.respondCount(c, func(ctx context.Context, actor uint) (int64, error) {
		return h.links.DeleteAccountUserLinks(ctx, actor, req.IDs)
	})
}

func (h *HTTPHandler) GetUserAccount(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	link, err := h.links.AccountOfUser(ctx, id)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, converter.AccountUserToSummary(link))
}

func (h *HTTPHandler) respondCount(c *gin.Context, fn func(ctx context.Context, actor uint) (int64, error)) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	n, err := fn(ctx, CurrentAccount(c).ID)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CountResponse{Count: n})
}
