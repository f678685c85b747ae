package sql

import (
	"context"
	"fmt"
	"strings"

	"warden/internal/entity"

	"gorm.io/gorm"
)

// CreateRoles inserts roles in one statement and returns the inserted row count.
func (r *GormRepository) CreateRoles(ctx context.Context, roles []entity.Role) (int64, error) {
	if r == nil || r.db == nil {
		return 0, fmt.Errorf("repository not initialised")
	}
	if len(roles) == 0 {
		return 0, nil
	}
	result := r.conn(ctx).Create(&roles)
	return result.RowsAffected, result.Error
}

// FindRolesByIDs returns the roles that exist among ids, optionally only active ones.
func (r *GormRepository) FindRolesByIDs(ctx context.Context, ids []uint, activeOnly bool) ([]entity.Role, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	roles := make([]entity.Role, 0)
	if len(ids) == 0 {
		return roles, nil
	}
	query := r.conn(ctx).Where("id IN ?", ids)
	if activeOnly {
		query = query.Where("status = ?", entity.StatusNormal)
	}
	if err := query.Order("id ASC").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

// FindActiveRolesByCodes returns active roles whose code is in codes.
func (r *GormRepository) FindActiveRolesByCodes(ctx context.Context, codes []string) ([]entity.Role, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	roles := make([]entity.Role, 0)
	if len(codes) == 0 {
		return roles, nil
	}
	if err := r.conn(ctx).
		Where("code IN ? AND status = ?", codes, entity.StatusNormal).
		Order("id ASC").
		Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

// UpdateRole updates role fields.
func (r *GormRepository) UpdateRole(ctx context.Context, id uint, updates entity.RoleUpdates, stamp entity.Stamp) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid role id")
	}
	if updates.IsEmpty() {
		return nil
	}
	result := r.conn(ctx).Model(&entity.Role{}).Where("id = ?", id).Updates(updateColumns(updates.ToMap(), stamp))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateRoleStatusByIDs sets status on the listed roles that are not deleted yet.
func (r *GormRepository) UpdateRoleStatusByIDs(ctx context.Context, ids []uint, status int, stamp entity.Stamp) (int64, error) {
	if r == nil || r.db == nil {
		return 0, fmt.Errorf("repository not initialised")
	}
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.conn(ctx).
		Model(&entity.Role{}).
		Where("id IN ? AND status <> ?", ids, entity.StatusDeleted).
		Updates(updateColumns(map[string]interface{}{"status": status}, stamp))
	return result.RowsAffected, result.Error
}

// ListRoles returns paginated roles.
func (r *GormRepository) ListRoles(ctx context.Context, params *entity.RoleQuery) ([]entity.Role, *entity.Meta, error) {
	if r == nil || r.db == nil {
		return nil, nil, fmt.Errorf("repository not initialised")
	}
	if params == nil {
		params = &entity.RoleQuery{}
	}
	params.Normalize()

	query := r.conn(ctx).Model(&entity.Role{})
	if params.ID != 0 {
		query = query.Where("id = ?", params.ID)
	}
	if name := strings.TrimSpace(params.Name); name != "" {
		query = query.Where("name LIKE ?", "%"+name+"%")
	}
	if code := strings.TrimSpace(params.Code); code != "" {
		query = query.Where("code LIKE ?", "%"+code+"%")
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	roles := make([]entity.Role, 0)
	if err := query.Order("id DESC").Offset(params.Offset()).Limit(int(params.PageSize)).Find(&roles).Error; err != nil {
		return nil, nil, err
	}
	return roles, r.calculatePagination(total, params.Page, params.PageSize), nil
}

// ListActiveRoles returns every active role ordered by id.
func (r *GormRepository) ListActiveRoles(ctx context.Context) ([]entity.Role, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	roles := make([]entity.Role, 0)
	if err := r.conn(ctx).Where("status = ?", entity.StatusNormal).Order("id ASC").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

// LockRoles locks the role rows for the rest of the current transaction.
func (r *GormRepository) LockRoles(ctx context.Context, ids []uint) error {
	return r.lockRows(ctx, &entity.Role{}, ids)
}
