package api

import (
	"net/http"

	"warden/internal/entity"
	"warden/internal/entity/converter"
	"warden/internal/entity/dto"

	"github.com/gin-gonic/gin"
)

func (h *HTTPHandler) ListRoles(c *gin.Context) {
	var params entity.RoleQuery
	if err := c.ShouldBindQuery(&params); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	roles, meta, err := h.roles.QueryRoles(ctx, CurrentAccount(c).ID, &params)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.RoleListResponse{
		Roles: converter.RolesToSummaries(roles),
		Meta:  meta,
	})
}

// ListActiveRoles 返回全部正常状态的角色，用于下拉选择。
func (h *HTTPHandler) ListActiveRoles(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	roles, err := h.roles.ListActiveRoles(ctx)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.RoleListResponse{Roles: converter.RolesToSummaries(roles)})
}

func (h *HTTPHandler) CreateRoles(c *gin.Context) {
	var reqs []dto.RoleCreateRequest
	if !bindJSON(c, &reqs) {
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	roles, err := h.roles.AddRoles(ctx, CurrentAccount(c).ID, reqs)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.RoleListResponse{Roles: converter.RolesToSummaries(roles)})
}

func (h *HTTPHandler) UpdateRoles(c *gin.Context) {
	var reqs []dto.RoleUpdateRequest
	if !bindJSON(c, &reqs) {
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	n, err := h.roles.UpdateRoles(ctx, CurrentAccount(c).ID, reqs)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CountResponse{Count: n})
}

func (h *HTTPHandler) DeleteRoles(c *gin.Context) {
	var req dto.IDsRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	n, err := h.roles.DeleteRoles(ctx, CurrentAccount(c).ID, req.IDs)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CountResponse{Count: n})
}

func (h *HTTPHandler) ListRolePermissionIDs(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	ids, err := h.roles.PermissionIDsOfRole(ctx, id)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.PermissionIDsResponse{RoleID: id, PermissionIDs: ids})
}
