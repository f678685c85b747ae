package converter

import (
	"warden/internal/entity"
	"warden/internal/entity/dto"
)

// AccountToSummary converts an entity.Account to dto.AccountSummary.
func AccountToSummary(a *entity.Account) dto.AccountSummary {
	if a == nil {
		return dto.AccountSummary{}
	}
	return dto.AccountSummary{
		ID:         a.ID,
		UserName:   a.UserName,
		Status:     a.Status,
		CreateID:   a.CreateID,
		CreateTime: a.CreateTime,
		UpdateID:   a.UpdateID,
		UpdateTime: a.UpdateTime,
	}
}

// AccountsToSummaries converts a slice of accounts.
func AccountsToSummaries(accounts []entity.Account) []dto.AccountSummary {
	summaries := make([]dto.AccountSummary, len(accounts))
	for i := range accounts {
		summaries[i] = AccountToSummary(&accounts[i])
	}
	return summaries
}

// RoleToSummary converts an entity.Role to dto.RoleSummary.
func RoleToSummary(r *entity.Role) dto.RoleSummary {
	if r == nil {
		return dto.RoleSummary{}
	}
	return dto.RoleSummary{
		ID:         r.ID,
		Name:       r.Name,
		Code:       r.Code,
		Status:     r.Status,
		CreateID:   r.CreateID,
		CreateTime: r.CreateTime,
		UpdateID:   r.UpdateID,
		UpdateTime: r.UpdateTime,
	}
}

// RolesToSummaries converts a slice of roles.
func RolesToSummaries(roles []entity.Role) []dto.RoleSummary {
	summaries := make([]dto.RoleSummary, len(roles))
	for i := range roles {
		summaries[i] = RoleToSummary(&roles[i])
	}
	return summaries
}

// PermissionToSummary converts an entity.Permission to dto.PermissionSummary.
func PermissionToSummary(p *entity.Permission) dto.PermissionSummary {
	if p == nil {
		return dto.PermissionSummary{}
	}
	return dto.PermissionSummary{
		ID:          p.ID,
		Name:        p.Name,
		Code:        p.Code,
		Description: p.Description,
		Type:        p.Type,
		Remark:      p.Remark,
		Status:      p.Status,
		CreateID:    p.CreateID,
		CreateTime:  p.CreateTime,
		UpdateID:    p.UpdateID,
		UpdateTime:  p.UpdateTime,
	}
}

// PermissionsToSummaries converts a slice of permissions.
func PermissionsToSummaries(permissions []entity.Permission) []dto.PermissionSummary {
	summaries := make([]dto.PermissionSummary, len(permissions))
	for i := range permissions {
		summaries[i] = PermissionToSummary(&permissions[i])
	}
	return summaries
}

// AccountUserToSummary converts an account-user binding.
func AccountUserToSummary(l *entity.AccountUserLink) dto.AccountUserSummary {
	if l == nil {
		return dto.AccountUserSummary{}
	}
	return dto.AccountUserSummary{AccountID: l.AccountID, UserID: l.UserID}
}
