package dto

import (
	"time"

	"warden/internal/entity/common"
)

// RoleSummary describes a role.
type RoleSummary struct {
	ID         uint      `json:"id"`
	Name       string    `json:"name"`
	Code       string    `json:"code"`
	Status     int       `json:"status"`
	CreateID   uint      `json:"create_id"`
	CreateTime time.Time `json:"create_time"`
	UpdateID   uint      `json:"update_id"`
	UpdateTime time.Time `json:"update_time"`
}

// RoleCreateRequest is one element of a role-add batch.
type RoleCreateRequest struct {
	Name string `json:"name" binding:"required,max=64"`
	Code string `json:"code" binding:"required,max=64"`
}

// RoleUpdateRequest is one element of a role-update batch.
type RoleUpdateRequest struct {
	ID     uint    `json:"id" binding:"required"`
	Name   *string `json:"name,omitempty" binding:"omitempty,min=1,max=64"`
	Code   *string `json:"code,omitempty" binding:"omitempty,min=1,max=64"`
	Status *int    `json:"status,omitempty" binding:"omitempty,oneof=-1 1"`
}

// RoleListResponse is the response for listing roles.
type RoleListResponse struct {
	Roles []RoleSummary `json:"roles"`
	Meta  *common.Meta  `json:"meta,omitempty"`
}
