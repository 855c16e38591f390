package repository

import (
	"context"
	"errors"

	"tradetracker/internal/entity"
	"tradetracker/pkg/common"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FeesConfigRepository defines the interface for fees-config persistence.
type FeesConfigRepository interface {
	FindByUser(ctx context.Context, userID string) (*entity.FeesConfig, error)
	Upsert(ctx context.Context, cfg *entity.FeesConfig) error
}

// NewFeesConfigRepository creates a new GORM-based fees-config repository.
func NewFeesConfigRepository(db *gorm.DB) FeesConfigRepository {
	return &feesConfigRepository{db: db}
}

type feesConfigRepository struct {
	db *gorm.DB
}

func (r *feesConfigRepository) FindByUser(ctx context.Context, userID string) (*entity.FeesConfig, error) {
	var cfg entity.FeesConfig
	if err := r.db.WithContext(ctx).First(&cfg, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return &cfg, nil
}

func (r *feesConfigRepository) Upsert(ctx context.Context, cfg *entity.FeesConfig) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(cfg).Error
}
