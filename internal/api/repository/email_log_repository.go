package repository

import (
	"context"

	"tradetracker/internal/entity"

	"gorm.io/gorm"
)

// EmailLogRepository defines the interface for email send logs.
type EmailLogRepository interface {
	Create(ctx context.Context, log *entity.EmailLog) error
	// HasSent reports whether a successful email of the given kind was ever
	// recorded for the user. Backs welcome-email deduplication.
	HasSent(ctx context.Context, userID, kind string) (bool, error)
}

// NewEmailLogRepository creates a new GORM-based email-log repository.
func NewEmailLogRepository(db *gorm.DB) EmailLogRepository {
	return &emailLogRepository{db: db}
}

type emailLogRepository struct {
	db *gorm.DB
}

func (r *emailLogRepository) Create(ctx context.Context, log *entity.EmailLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *emailLogRepository) HasSent(ctx context.Context, userID, kind string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.EmailLog{}).
		Where("user_id = ? AND kind = ? AND success = ?", userID, kind, true).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
