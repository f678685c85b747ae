package dto

import (
	"time"

	"warden/internal/entity/common"
)

// PermissionSummary describes a permission.
type PermissionSummary struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
	Type        int       `json:"type"`
	Remark      string    `json:"remark"`
	Status      int       `json:"status"`
	CreateID    uint      `json:"create_id"`
	CreateTime  time.Time `json:"create_time"`
	UpdateID    uint      `json:"update_id"`
	UpdateTime  time.Time `json:"update_time"`
}

// PermissionCreateRequest is one element of a permission-add batch.
type PermissionCreateRequest struct {
	Name        string `json:"name" binding:"required,max=64"`
	Code        string `json:"code" binding:"required,max=128"`
	Description string `json:"description" binding:"max=255"`
	Type        int    `json:"type"`
	Remark      string `json:"remark" binding:"max=255"`
}

// PermissionUpdateRequest is one element of a permission-update batch.
type PermissionUpdateRequest struct {
	ID          uint    `json:"id" binding:"required"`
	Name        *string `json:"name,omitempty" binding:"omitempty,min=1,max=64"`
	Code        *string `json:"code,omitempty" binding:"omitempty,min=1,max=128"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=255"`
	Type        *int    `json:"type,omitempty"`
	Remark      *string `json:"remark,omitempty" binding:"omitempty,max=255"`
	Status      *int    `json:"status,omitempty" binding:"omitempty,oneof=-1 1"`
}

// PermissionListResponse is the response for listing permissions.
type PermissionListResponse struct {
	Permissions []PermissionSummary `json:"permissions"`
	Meta        *common.Meta        `json:"meta,omitempty"`
}
