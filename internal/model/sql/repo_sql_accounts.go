package sql

import (
	"context"
	"fmt"
	"strings"

	"warden/internal/entity"

	"gorm.io/gorm"
)

// CreateAccount persists a new account record.
func (r *GormRepository) CreateAccount(ctx context.Context, account *entity.Account) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if account == nil {
		return fmt.Errorf("account is nil")
	}
	return r.conn(ctx).Create(account).Error
}

// GetAccountByID loads an account by ID.
func (r *GormRepository) GetAccountByID(ctx context.Context, id uint) (*entity.Account, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return nil, fmt.Errorf("invalid account id")
	}
	var account entity.Account
	if err := r.conn(ctx).First(&account, id).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// GetAccountByUserName loads an account by login name.
func (r *GormRepository) GetAccountByUserName(ctx context.Context, userName string) (*entity.Account, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	trimmed := strings.TrimSpace(userName)
	if trimmed == "" {
		return nil, fmt.Errorf("user name is empty")
	}
	var account entity.Account
	if err := r.conn(ctx).Where("user_name = ?", trimmed).First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// FindAccountsByIDs returns the accounts that exist among ids. Missing ids are skipped.
func (r *GormRepository) FindAccountsByIDs(ctx context.Context, ids []uint) ([]entity.Account, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	accounts := make([]entity.Account, 0)
	if len(ids) == 0 {
		return accounts, nil
	}
	if err := r.conn(ctx).Where("id IN ?", ids).Order("id ASC").Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

// ExistsAccountUserName reports whether another account already uses userName.
func (r *GormRepository) ExistsAccountUserName(ctx context.Context, userName string, excludeID uint) (bool, error) {
	if r == nil || r.db == nil {
		return false, fmt.Errorf("repository not initialised")
	}
	query := r.conn(ctx).Model(&entity.Account{}).Where("user_name = ?", strings.TrimSpace(userName))
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateAccount updates an existing account.
func (r *GormRepository) UpdateAccount(ctx context.Context, id uint, updates entity.AccountUpdates, stamp entity.Stamp) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid account id")
	}
	if updates.IsEmpty() {
		return nil
	}
	result := r.conn(ctx).Model(&entity.Account{}).Where("id = ?", id).Updates(updateColumns(updates.ToMap(), stamp))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateAccountStatusByIDs sets status on every listed account that is not deregistered yet.
func (r *GormRepository) UpdateAccountStatusByIDs(ctx context.Context, ids []uint, status int, stamp entity.Stamp) (int64, error) {
	if r == nil || r.db == nil {
		return 0, fmt.Errorf("repository not initialised")
	}
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.conn(ctx).
		Model(&entity.Account{}).
		Where("id IN ? AND status <> ?", ids, entity.AccountStatusDeregistered).
		Updates(updateColumns(map[string]interface{}{"status": status}, stamp))
	return result.RowsAffected, result.Error
}

// ListAccounts returns paginated accounts.
func (r *GormRepository) ListAccounts(ctx context.Context, params *entity.AccountQuery) ([]entity.Account, *entity.Meta, error) {
	if r == nil || r.db == nil {
		return nil, nil, fmt.Errorf("repository not initialised")
	}
	if params == nil {
		params = &entity.AccountQuery{}
	}
	params.Normalize()

	query := r.conn(ctx).Model(&entity.Account{})
	if params.ID != 0 {
		query = query.Where("id = ?", params.ID)
	}
	if keyword := strings.TrimSpace(params.UserName); keyword != "" {
		query = query.Where("user_name LIKE ?", "%"+keyword+"%")
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	accounts := make([]entity.Account, 0)
	if err := query.Order("id DESC").Offset(params.Offset()).Limit(int(params.PageSize)).Find(&accounts).Error; err != nil {
		return nil, nil, err
	}

	return accounts, r.calculatePagination(total, params.Page, params.PageSize), nil
}

// CountAccounts returns total account count.
func (r *GormRepository) CountAccounts(ctx context.Context) (int64, error) {
	if r == nil || r.db == nil {
		return 0, fmt.Errorf("repository not initialised")
	}
	var count int64
	if err := r.conn(ctx).Model(&entity.Account{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// LockAccounts locks the account rows for the rest of the current transaction.
func (r *GormRepository) LockAccounts(ctx context.Context, ids []uint) error {
	return r.lockRows(ctx, &entity.Account{}, ids)
}
