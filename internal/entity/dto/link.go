package dto

// AccountRolePair binds an account to a role.
type AccountRolePair struct {
	AccountID uint `json:"account_id" binding:"required"`
	RoleID    uint `json:"role_id" binding:"required"`
}

// RolePermissionPair binds a role to a permission.
type RolePermissionPair struct {
	RoleID       uint `json:"role_id" binding:"required"`
	PermissionID uint `json:"permission_id" binding:"required"`
}

// AccountUserPair binds an account to a user profile.
type AccountUserPair struct {
	AccountID uint `json:"account_id" binding:"required"`
	UserID    uint `json:"user_id" binding:"required"`
}

// IDsRequest carries a batch of ids.
type IDsRequest struct {
	IDs []uint `json:"ids" binding:"required,min=1,dive,required"`
}

// CountResponse reports how many rows an operation wrote.
type CountResponse struct {
	Count int64 `json:"count"`
}

// AccountUserSummary describes an account-user binding.
type AccountUserSummary struct {
	AccountID uint `json:"account_id"`
	UserID    uint `json:"user_id"`
}

// PermissionIDsResponse lists the permission ids linked to a role.
type PermissionIDsResponse struct {
	RoleID        uint   `json:"role_id"`
	PermissionIDs []uint `json:"permission_ids"`
}
