// audit/repository.go
package audit

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

type Repository interface {
	RecordLogin(ctx context.Context, record LoginRecord) error
	RecentLogins(ctx context.Context, userID, limit int) ([]LoginRecord, error)
}

// GormRepository persists the audit trail in the primary relational
// store so the admin API can read it back.
type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) RecordLogin(ctx context.Context, record LoginRecord) error {
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("failed to record login: %w", err)
	}
	return nil
}

func (r *GormRepository) RecentLogins(ctx context.Context, userID, limit int) ([]LoginRecord, error) {
	var records []LoginRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query login history: %w", err)
	}
	return records, nil
}
