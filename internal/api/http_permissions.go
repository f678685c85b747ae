package api

import (
	"net/http"

	"warden/internal/entity"
	"warden/internal/entity/converter"
	"warden/internal/entity/dto"

	"github.com/gin-gonic/gin"
)

func (h *HTTPHandler) ListPermissions(c *gin.Context) {
	var params entity.PermissionQuery
	if err := c.ShouldBindQuery(&params); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	permissions, meta, err := h.permissions.QueryPermissions(ctx, CurrentAccount(c).ID, &params)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.PermissionListResponse{
		Permissions: converter.PermissionsToSummaries(permissions),
		Meta:        meta,
	})
}

func (h *HTTPHandler) CreatePermissions(c *gin.Context) {
	var reqs []dto.PermissionCreateRequest
	if !bindJSON(c, &reqs) {
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	permissions, err := h.permissions.AddPermissions(ctx, CurrentAccount(c).ID, reqs)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.PermissionListResponse{Permissions: converter.PermissionsToSummaries(permissions)})
}

func (h *HTTPHandler) UpdatePermissions(c *gin.Context) {
	var reqs []dto.PermissionUpdateRequest
	if !bindJSON(c, &reqs) {
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	n, err := h.permissions.UpdatePermissions(ctx, CurrentAccount(c).ID, reqs)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CountResponse{Count: n})
}

// DeletePermissions 软删除权限并清理引用它们的角色关联。
func (h *HTTPHandler) DeletePermissions(c *gin.Context) {
	var req dto.IDsRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	n, err := h.permissions.DeletePermissions(ctx, CurrentAccount(c).ID, req.IDs)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CountResponse{Count: n})
}
