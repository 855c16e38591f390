package repository

import (
	"context"
	"errors"

	"tradetracker/internal/entity"
	"tradetracker/pkg/common"

	"gorm.io/gorm"
)

// TradeRepository defines the interface for trade persistence. The service
// layer owns all lifecycle rules; implementations only store and query.
type TradeRepository interface {
	Create(ctx context.Context, trade *entity.Trade) error
	FindByID(ctx context.Context, id string) (*entity.Trade, error)
	FindByUser(ctx context.Context, userID string) ([]entity.Trade, error)
	// FindOpenByTicker returns the first open trade for (user, ticker) in
	// creation order. With multiple open lots the pick is arbitrary but
	// deterministic; no FIFO lot matching is implied.
	FindOpenByTicker(ctx context.Context, userID, ticker string) (*entity.Trade, error)
	// FindSince returns the user's trades whose entry or exit date is on or
	// after from (lexical). It over-fetches: callers that need the exact
	// activity-in-period semantics re-filter the result.
	FindSince(ctx context.Context, userID, from string) ([]entity.Trade, error)
	Save(ctx context.Context, trade *entity.Trade) error
	Delete(ctx context.Context, id string) error
}

// NewTradeRepository creates a new GORM-based trade repository.
func NewTradeRepository(db *gorm.DB) TradeRepository {
	return &tradeRepository{db: db}
}

type tradeRepository struct {
	db *gorm.DB
}

func (r *tradeRepository) Create(ctx context.Context, trade *entity.Trade) error {
	return r.db.WithContext(ctx).Create(trade).Error
}

func (r *tradeRepository) FindByID(ctx context.Context, id string) (*entity.Trade, error) {
	var trade entity.Trade
	if err := r.db.WithContext(ctx).First(&trade, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return &trade, nil
}

func (r *tradeRepository) FindByUser(ctx context.Context, userID string) ([]entity.Trade, error) {
	var trades []entity.Trade
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC, created_at DESC").
		Find(&trades).Error
	if err != nil {
		return nil, err
	}
	return trades, nil
}

func (r *tradeRepository) FindOpenByTicker(ctx context.Context, userID, ticker string) (*entity.Trade, error) {
	var trade entity.Trade
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND ticker = ? AND status = ?", userID, ticker, entity.TradeStatusOpen).
		Order("created_at ASC").
		First(&trade).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return &trade, nil
}

func (r *tradeRepository) FindSince(ctx context.Context, userID, from string) ([]entity.Trade, error) {
	var trades []entity.Trade
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND (date >= ? OR exit_date >= ?)", userID, from, from).
		Order("date DESC").
		Find(&trades).Error
	if err != nil {
		return nil, err
	}
	return trades, nil
}

func (r *tradeRepository) Save(ctx context.Context, trade *entity.Trade) error {
	return r.db.WithContext(ctx).Save(trade).Error
}

func (r *tradeRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&entity.Trade{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound
	}
	return nil
}
