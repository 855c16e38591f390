package repository

import (
	"context"
	"errors"

	"tradetracker/internal/entity"
	"tradetracker/pkg/common"

	"gorm.io/gorm"
)

// MonthlyReturnRepository defines the interface for monthly-return
// persistence. The (user, month) pair is unique; the service resolves it via
// FindByUserAndMonth before deciding between create and update.
type MonthlyReturnRepository interface {
	FindByID(ctx context.Context, id string) (*entity.MonthlyReturn, error)
	FindByUser(ctx context.Context, userID string) ([]entity.MonthlyReturn, error)
	FindByUserAndMonth(ctx context.Context, userID, month string) (*entity.MonthlyReturn, error)
	Create(ctx context.Context, mr *entity.MonthlyReturn) error
	Save(ctx context.Context, mr *entity.MonthlyReturn) error
	Delete(ctx context.Context, id string) error
}

// NewMonthlyReturnRepository creates a new GORM-based monthly-return repository.
func NewMonthlyReturnRepository(db *gorm.DB) MonthlyReturnRepository {
	return &monthlyReturnRepository{db: db}
}

type monthlyReturnRepository struct {
	db *gorm.DB
}

func (r *monthlyReturnRepository) FindByID(ctx context.Context, id string) (*entity.MonthlyReturn, error) {
	var mr entity.MonthlyReturn
	if err := r.db.WithContext(ctx).First(&mr, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return &mr, nil
}

func (r *monthlyReturnRepository) FindByUser(ctx context.Context, userID string) ([]entity.MonthlyReturn, error) {
	var returns []entity.MonthlyReturn
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&returns).Error
	if err != nil {
		return nil, err
	}
	return returns, nil
}

func (r *monthlyReturnRepository) FindByUserAndMonth(ctx context.Context, userID, month string) (*entity.MonthlyReturn, error) {
	var mr entity.MonthlyReturn
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND month = ?", userID, month).
		First(&mr).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return &mr, nil
}

func (r *monthlyReturnRepository) Create(ctx context.Context, mr *entity.MonthlyReturn) error {
	return r.db.WithContext(ctx).Create(mr).Error
}

func (r *monthlyReturnRepository) Save(ctx context.Context, mr *entity.MonthlyReturn) error {
	return r.db.WithContext(ctx).Save(mr).Error
}

func (r *monthlyReturnRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&entity.MonthlyReturn{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound
	}
	return nil
}
