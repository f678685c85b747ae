package sql

import (
	"context"
	"fmt"

	"warden/internal/entity"
)

// FindAccountRoleLinksByAccountIDs returns links of the given accounts ordered by id.
func (r *GormRepository) FindAccountRoleLinksByAccountIDs(ctx context.Context, accountIDs []uint) ([]entity.AccountRoleLink, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	links := make([]entity.AccountRoleLink, 0)
	if len(accountIDs) == 0 {
		return links, nil
	}
	if err := r.conn(ctx).Where("account_id IN ?", accountIDs).Order("id ASC").Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

// FindAccountRoleLinksByRoleIDs returns links of the given roles ordered by id.
func (r *GormRepository) FindAccountRoleLinksByRoleIDs(ctx context.Context, roleIDs []uint) ([]entity.AccountRoleLink, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	links := make([]entity.AccountRoleLink, 0)
	if len(roleIDs) == 0 {
		return links, nil
	}
	if err := r.conn(ctx).Where("role_id IN ?", roleIDs).Order("id ASC").Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

// FindAccountRoleLinks returns links whose account and role both fall in the given sets.
// Callers match exact pairs on the result.
func (r *GormRepository) FindAccountRoleLinks(ctx context.Context, accountIDs, roleIDs []uint) ([]entity.AccountRoleLink, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	links := make([]entity.AccountRoleLink, 0)
	if len(accountIDs) == 0 || len(roleIDs) == 0 {
		return links, nil
	}
	if err := r.conn(ctx).
		Where("account_id IN ? AND role_id IN ?", accountIDs, roleIDs).
		Order("id ASC").
		Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

// CreateAccountRoleLinks bulk inserts links and returns the inserted row count.
func (r *GormRepository) CreateAccountRoleLinks(ctx context.Context, links []entity.AccountRoleLink) (int64, error) {
	if r == nil || r.db == nil {
		return 0, fmt.Errorf("repository not initialised")
	}
	if len(links) == 0 {
		return 0, nil
	}
	result := r.conn(ctx).Create(&links)
	return result.RowsAffected, result.Error
}

// DeleteAccountRoleLinksByAccountIDs removes every link of the given accounts.
func (r *GormRepository) DeleteAccountRoleLinksByAccountIDs(ctx context.Context, accountIDs []uint) (int64, error) {
	if r == nil || r.db == nil {
		return 0, fmt.Errorf("repository not initialised")
	}
	if len(accountIDs) == 0 {
		return 0, nil
	}
	result := r.conn(ctx).Where("account_id IN ?", accountIDs).Delete(&entity.AccountRoleLink{})
	return result.RowsAffected, result.Error
}

// DeleteAccountRoleLinksByRoleIDs removes every link of the given roles.
func (r *GormRepository) DeleteAccountRoleLinksByRoleIDs(ctx context.Context, roleIDs []uint) (int64, error) {
	if r == nil || r.db == nil {
		return 0, fmt.Errorf("repository not initialised")
	}
	if len(roleIDs) == 0 {
		return 0, nil
	}
	result := r.conn(ctx).Where("role_id IN ?", roleIDs).Delete(&entity.AccountRoleLink{})
	return result.RowsAffected, result.Error
}

// FindRolePermissionLinksByRoleIDs returns links of the given roles ordered by id.
func (r *GormRepository) FindRolePermissionLinksByRoleIDs(ctx context.Context, roleIDs []uint) ([]entity.RolePermissionLink, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	links := make([]entity.RolePermissionLink, 0)
	if len(roleIDs) == 0 {
		return links, nil
	}
	if err := r.conn(ctx).Where("role_id IN ?", roleIDs).Order("id ASC").Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

// FindRolePermissionLinks returns links whose role and permission both fall in the given sets.
func (r *GormRepository) FindRolePermissionLinks(ctx context.Context, roleIDs, permissionIDs []uint) ([]entity.RolePermissionLink, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	links := make([]entity.RolePermissionLink, 0)
	if len(roleIDs) == 0 || len(permissionIDs) == 0 {
		return links, nil
	}
	if err := r.conn(ctx).
		Where("role_id IN ? AND permission_id IN ?", roleIDs, permissionIDs).
		Order("id ASC").
		Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

// CreateRolePermissionLinks bulk inserts links and returns the inserted row count.
func (r *GormRepository) CreateRolePermissionLinks(ctx context.Context, links []entity.RolePermissionLink) (int64, error) {
	if r == nil || r.db == nil {
		return 0, fmt.Errorf("repository not initialised")
	}
	if len(links) == 0 {
		return 0, nil
	}
	result := r.conn(ctx).Create(&links)
	return result.RowsAffected, result.Error
}

// DeleteRolePermissionLinksByRoleIDs removes every link of the given roles.
func (r *GormRepository) DeleteRolePermissionLinksByRoleIDs(ctx context.Context, roleIDs []uint) (int64, error) {
	if r == nil || r.db == nil {
		return 0, fmt.Errorf("repository not initialised")
	}
	if len(roleIDs) == 0 {
		return 0, nil
	}
	result := r.conn(ctx).Where("role_id IN ?", roleIDs).Delete(&entity.RolePermissionLink{})
	return result.RowsAffected, result.Error
}

// DeleteRolePermissionLinksByPermissionIDs removes every link referencing the given permissions.
func (r *GormRepository) DeleteRolePermissionLinksByPermissionIDs(ctx context.Context, permissionIDs []uint) (int64, error) {
	if r == nil || r.db == nil {
		return 0, fmt.Errorf("repository not initialised")
	}
	if len(permissionIDs) == 0 {
		return 0, nil
	}
	result := r.conn(ctx).Where("permission_id IN ?", permissionIDs).Delete(&entity.RolePermissionLink{})
	return result.RowsAffected, result.Error
}

// FindAccountUserLinks returns links where the account or the user is already bound.
func (r *GormRepository) FindAccountUserLinks(ctx context.Context, accountIDs, userIDs []uint) ([]entity.AccountUserLink, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	links := make([]entity.AccountUserLink, 0)
	query := r.conn(ctx).Model(&entity.AccountUserLink{})
	switch {
	case len(accountIDs) > 0 && len(userIDs) > 0:
		query = query.Where("account_id IN ? OR user_id IN ?", accountIDs, userIDs)
	case len(accountIDs) > 0:
		query = query.Where("account_id IN ?", accountIDs)
	case len(userIDs) > 0:
		query = query.Where("user_id IN ?", userIDs)
	default:
		return links, nil
	}
	if err := query.Order("id ASC").Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

// CreateAccountUserLinks bulk inserts bindings and returns the inserted row count.
func (r *GormRepository) CreateAccountUserLinks(ctx context.Context, links []entity.AccountUserLink) (int64, error) {
	if r == nil || r.db == nil {
		return 0, fmt.Errorf("repository not initialised")
	}
	if len(links) == 0 {
		return 0, nil
	}
	result := r.conn(ctx).Create(&links)
	return result.RowsAffected, result.Error
}

// GetAccountUserLinkByAccountID loads the binding of an account.
func (r *GormRepository) GetAccountUserLinkByAccountID(ctx context.Context, accountID uint) (*entity.AccountUserLink, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	var link entity.AccountUserLink
	if err := r.conn(ctx).Where("account_id = ?", accountID).First(&link).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

// GetAccountUserLinkByUserID loads the binding of a user.
func (r *GormRepository) GetAccountUserLinkByUserID(ctx context.Context, userID uint) (*entity.AccountUserLink, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	var link entity.AccountUserLink
	if err := r.conn(ctx).Where("user_id = ?", userID).First(&link).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

// DeleteAccountUserLinksByAccountIDs removes the bindings of the given accounts.
func (r *GormRepository) DeleteAccountUserLinksByAccountIDs(ctx context.Context, accountIDs []uint) (int64, error) {
	if r == nil || r.db == nil {
		return 0, fmt.Errorf("repository not initialised")
	}
	if len(accountIDs) == 0 {
		return 0, nil
	}
	result := r.conn(ctx).Where("account_id IN ?", accountIDs).Delete(&entity.AccountUserLink{})
	return result.RowsAffected, result.Error
}
