package repository

import (
	"context"
	"errors"

	"tradetracker/internal/entity"
	"tradetracker/pkg/common"

	"gorm.io/gorm"
)

// MonthlyBalanceRepository defines the interface for monthly-balance
// persistence, with the same month-keyed lookup as monthly returns.
type MonthlyBalanceRepository interface {
	FindByID(ctx context.Context, id string) (*entity.MonthlyBalance, error)
	FindByUser(ctx context.Context, userID string) ([]entity.MonthlyBalance, error)
	FindByUserAndMonth(ctx context.Context, userID, month string) (*entity.MonthlyBalance, error)
	Create(ctx context.Context, mb *entity.MonthlyBalance) error
	Save(ctx context.Context, mb *entity.MonthlyBalance) error
	Delete(ctx context.Context, id string) error
}

// NewMonthlyBalanceRepository creates a new GORM-based monthly-balance repository.
func NewMonthlyBalanceRepository(db *gorm.DB) MonthlyBalanceRepository {
	return &monthlyBalanceRepository{db: db}
}

type monthlyBalanceRepository struct {
	db *gorm.DB
}

func (r *monthlyBalanceRepository) FindByID(ctx context.Context, id string) (*entity.MonthlyBalance, error) {
	var mb entity.MonthlyBalance
	if err := r.db.WithContext(ctx).First(&mb, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return &mb, nil
}

func (r *monthlyBalanceRepository) FindByUser(ctx context.Context, userID string) ([]entity.MonthlyBalance, error) {
	var balances []entity.MonthlyBalance
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&balances).Error
	if err != nil {
		return nil, err
	}
	return balances, nil
}

func (r *monthlyBalanceRepository) FindByUserAndMonth(ctx context.Context, userID, month string) (*entity.MonthlyBalance, error) {
	var mb entity.MonthlyBalance
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND month = ?", userID, month).
		First(&mb).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return &mb, nil
}

func (r *monthlyBalanceRepository) Create(ctx context.Context, mb *entity.MonthlyBalance) error {
	return r.db.WithContext(ctx).Create(mb).Error
}

func (r *monthlyBalanceRepository) Save(ctx context.Context, mb *entity.MonthlyBalance) error {
	return r.db.WithContext(ctx).Save(mb).Error
}

func (r *monthlyBalanceRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&entity.MonthlyBalance{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound
	}
	return nil
}
