package dto

import (
	"time"

	"warden/internal/entity/common"
)

// AccountSummary is a lightweight account description returned to clients.
type AccountSummary struct {
	ID         uint      `json:"id"`
	UserName   string    `json:"user_name"`
	Status     int       `json:"status"`
	CreateID   uint      `json:"create_id"`
	CreateTime time.Time `json:"create_time"`
	UpdateID   uint      `json:"update_id"`
	UpdateTime time.Time `json:"update_time"`
}

// AccountCreateRequest is the payload for creating an account.
type AccountCreateRequest struct {
	UserName string `json:"user_name" binding:"required,max=64"`
	Password string `json:"password" binding:"required,min=6"`
	Status   *int   `json:"status" binding:"omitempty,oneof=-1 0 1"`
}

// AccountUpdateRequest is one element of a batch account update.
type AccountUpdateRequest struct {
	ID       uint    `json:"id" binding:"required"`
	UserName *string `json:"user_name,omitempty" binding:"omitempty,min=1,max=64"`
	Password *string `json:"password,omitempty" binding:"omitempty,min=6"`
	Status   *int    `json:"status,omitempty" binding:"omitempty,oneof=-2 -1 0 1"`
}

// AccountListResponse is the response for listing accounts.
type AccountListResponse struct {
	Accounts []AccountSummary `json:"accounts"`
	Meta     *common.Meta     `json:"meta"`
}
