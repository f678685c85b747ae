package sql

import (
	"context"
	"fmt"
	"strings"

	"warden/internal/entity"

	"gorm.io/gorm"
)

// CreatePermissions inserts permissions and returns the inserted row count.
func (r *GormRepository) CreatePermissions(ctx context.Context, permissions []entity.Permission) (int64, error) {
	if r == nil || r.db == nil {
		return 0, fmt.Errorf("repository not initialised")
	}
	if len(permissions) == 0 {
		return 0, nil
	}
	result := r.conn(ctx).Create(&permissions)
	return result.RowsAffected, result.Error
}

// FindPermissionsByIDs returns the permissions that exist among ids.
func (r *GormRepository) FindPermissionsByIDs(ctx context.Context, ids []uint, activeOnly bool) ([]entity.Permission, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	permissions := make([]entity.Permission, 0)
	if len(ids) == 0 {
		return permissions, nil
	}
	query := r.conn(ctx).Where("id IN ?", ids)
	if activeOnly {
		query = query.Where("status = ?", entity.StatusNormal)
	}
	if err := query.Order("id ASC").Find(&permissions).Error; err != nil {
		return nil, err
	}
	return permissions, nil
}

// FindActivePermissionsByCodes returns active permissions whose code is in codes.
func (r *GormRepository) FindActivePermissionsByCodes(ctx context.Context, codes []string) ([]entity.Permission, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	permissions := make([]entity.Permission, 0)
	if len(codes) == 0 {
		return permissions, nil
	}
	if err := r.conn(ctx).
		Where("code IN ? AND status = ?", codes, entity.StatusNormal).
		Order("id ASC").
		Find(&permissions).Error; err != nil {
		return nil, err
	}
	return permissions, nil
}

// UpdatePermission updates permission fields.
func (r *GormRepository) UpdatePermission(ctx context.Context, id uint, updates entity.PermissionUpdates, stamp entity.Stamp) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid permission id")
	}
	if updates.IsEmpty() {
		return nil
	}
	result := r.conn(ctx).Model(&entity.Permission{}).Where("id = ?", id).Updates(updateColumns(updates.ToMap(), stamp))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdatePermissionStatusByIDs sets status on the listed permissions that are not deleted yet.
func (r *GormRepository) UpdatePermissionStatusByIDs(ctx context.Context, ids []uint, status int, stamp entity.Stamp) (int64, error) {
	if r == nil || r.db == nil {
		return 0, fmt.Errorf("repository not initialised")
	}
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.conn(ctx).
		Model(&entity.Permission{}).
		Where("id IN ? AND status <> ?", ids, entity.StatusDeleted).
		Updates(updateColumns(map[string]interface{}{"status": status}, stamp))
	return result.RowsAffected, result.Error
}

// ListPermissions returns paginated permissions.
func (r *GormRepository) ListPermissions(ctx context.Context, params *entity.PermissionQuery) ([]entity.Permission, *entity.Meta, error) {
	if r == nil || r.db == nil {
		return nil, nil, fmt.Errorf("repository not initialised")
	}
	if params == nil {
		params = &entity.PermissionQuery{}
	}
	params.Normalize()

	query := r.conn(ctx).Model(&entity.Permission{})
	if params.ID != 0 {
		query = query.Where("id = ?", params.ID)
	}
	if name := strings.TrimSpace(params.Name); name != "" {
		query = query.Where("name LIKE ?", "%"+name+"%")
	}
	if code := strings.TrimSpace(params.Code); code != "" {
		query = query.Where("code LIKE ?", "%"+code+"%")
	}
	if desc := strings.TrimSpace(params.Description); desc != "" {
		query = query.Where("description LIKE ?", "%"+desc+"%")
	}
	if remark := strings.TrimSpace(params.Remark); remark != "" {
		query = query.Where("remark LIKE ?", "%"+remark+"%")
	}
	if params.Type != nil {
		query = query.Where("type = ?", *params.Type)
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	permissions := make([]entity.Permission, 0)
	if err := query.Order("id DESC").Offset(params.Offset()).Limit(int(params.PageSize)).Find(&permissions).Error; err != nil {
		return nil, nil, err
	}
	return permissions, r.calculatePagination(total, params.Page, params.PageSize), nil
}
