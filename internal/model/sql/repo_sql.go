package sql

import (
	"context"
	"fmt"

	"warden/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type txKey struct{}

// GormRepository implements Repository using GORM
type GormRepository struct {
	db         *gorm.DB
	rowLocking bool
}

// Option configures a GormRepository.
type Option func(*GormRepository)

// WithRowLocking enables SELECT ... FOR UPDATE on replace-all targets.
func WithRowLocking(enabled bool) Option {
	return func(r *GormRepository) {
		r.rowLocking = enabled
	}
}

// NewGormRepository creates a new repository instance
func NewGormRepository(db *gorm.DB, opts ...Option) *GormRepository {
	r := &GormRepository{db: db}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// DB exposes the underlying connection, mainly for migrations and tests.
func (r *GormRepository) DB() *gorm.DB {
	if r == nil {
		return nil
	}
	return r.db
}

// Transaction runs fn inside a database transaction carried by ctx.
// Nested calls join the outer transaction.
func (r *GormRepository) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// conn returns the transaction bound to ctx, or the base connection.
func (r *GormRepository) conn(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok && tx != nil {
		return tx.WithContext(ctx)
	}
	return r.db.WithContext(ctx)
}

// lockRows takes row locks on the given ids. SQLite has no row locks and
// serialises writers on its own, so it is skipped there.
func (r *GormRepository) lockRows(ctx context.Context, model interface{}, ids []uint) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if !r.rowLocking || len(ids) == 0 {
		return nil
	}
	if r.db.Dialector != nil && r.db.Dialector.Name() == "sqlite" {
		return nil
	}
	var locked []uint
	return r.conn(ctx).
		Model(model).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id").
		Pluck("id", &locked).Error
}

// calculatePagination calculates pagination metrics
func (r *GormRepository) calculatePagination(totalCount int64, page, pageSize int64) *entity.Meta {
	if pageSize <= 0 {
		pageSize = entity.DefaultPageSize
	}
	if page <= 0 {
		page = 1
	}

	return &entity.Meta{
		Total:    totalCount,
		Page:     page,
		PageSize: pageSize,
	}
}

// updateColumns merges business columns with the audit stamp.
func updateColumns(fields map[string]interface{}, stamp entity.Stamp) map[string]interface{} {
	columns := stamp.Columns()
	for k, v := range fields {
		columns[k] = v
	}
	return columns
}
