package persistence

import (
	"context"

	"github.com/shopapi/backend/internal/domain/audit"
	"gorm.io/gorm"
)

var auditSortColumns = sortColumns{
	"created_at": "created_at",
	"action":     "action",
}

// GormAuditRepository implements audit.Repository using GORM.
// Rows are only ever inserted.
type GormAuditRepository struct {
	db *gorm.DB
}

// NewGormAuditRepository creates a new GormAuditRepository
func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

// Append inserts an audit entry
func (r *GormAuditRepository) Append(ctx context.Context, entry *audit.Entry) error {
	return translateError(r.db.WithContext(ctx).Create(entry).Error)
}

// FindAll returns one page of audit entries, newest first by default
func (r *GormAuditRepository) FindAll(ctx context.Context, filter audit.Filter) ([]audit.Entry, int64, error) {
	conditions := func(query *gorm.DB) *gorm.DB {
		if filter.Action != "" {
			query = query.Where("action = ?", filter.Action)
		}
		if filter.TargetType != "" {
			query = query.Where("target_type = ?", filter.TargetType)
		}
		if filter.TargetID != nil {
			query = query.Where("target_id = ?", *filter.TargetID)
		}
		if filter.ActorID != nil {
			query = query.Where("actor_id = ?", *filter.ActorID)
		}
		return query
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&audit.Entry{}).Scopes(conditions).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []audit.Entry
	query := r.db.WithContext(ctx).Model(&audit.Entry{}).Scopes(conditions)
	if err := applyPage(query, filter.Filter, auditSortColumns, "created_at DESC, id ASC").Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

var _ audit.Repository = (*GormAuditRepository)(nil)
