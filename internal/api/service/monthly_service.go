package service

import (
	"context"
	"strings"

	"tradetracker/internal/api/dto"
	"tradetracker/internal/api/repository"
	"tradetracker/internal/entity"
	"tradetracker/pkg/common"
	"tradetracker/pkg/logger"
)

// MonthlyService manages month-keyed return and balance records. Saving the
// same (caller, month) twice updates the existing record: reads resolve the
// month first and the unique index backstops races.
type MonthlyService interface {
	GetMonthlyReturns(ctx context.Context, userID string) ([]entity.MonthlyReturn, error)
	SaveMonthlyReturn(ctx context.Context, userID string, req *dto.SaveMonthlyReturnRequest) (*dto.SaveMonthlyReturnResponse, error)
	DeleteMonthlyReturn(ctx context.Context, userID, id string) error

	GetMonthlyBalances(ctx context.Context, userID string) ([]entity.MonthlyBalance, error)
	SaveMonthlyBalance(ctx context.Context, userID string, req *dto.SaveMonthlyBalanceRequest) (*dto.SaveMonthlyBalanceResponse, error)
	DeleteMonthlyBalance(ctx context.Context, userID, id string) error
}

// NewMonthlyService creates a new monthly records service.
func NewMonthlyService(
	returnRepo repository.MonthlyReturnRepository,
	balanceRepo repository.MonthlyBalanceRepository,
	log *logger.Logger,
) MonthlyService {
	return &monthlyService{returnRepo: returnRepo, balanceRepo: balanceRepo, logger: log}
}

type monthlyService struct {
	returnRepo  repository.MonthlyReturnRepository
	balanceRepo repository.MonthlyBalanceRepository
	logger      *logger.Logger
}

func (s *monthlyService) GetMonthlyReturns(ctx context.Context, userID string) ([]entity.MonthlyReturn, error) {
	return s.returnRepo.FindByUser(ctx, userID)
}

func (s *monthlyService) SaveMonthlyReturn(ctx context.Context, userID string, req *dto.SaveMonthlyReturnRequest) (*dto.SaveMonthlyReturnResponse, error) {
	if err := validateMonth(req.Month); err != nil {
		return nil, err
	}
	if req.StartCap <= 0 {
		return nil, common.NewValidationError("start capital must be a positive number")
	}

	record := entity.MonthlyReturn{
		UserID:           userID,
		Month:            req.Month,
		StartCap:         req.StartCap,
		CloseCap:         req.CloseCap,
		PercentageReturn: req.PercentageReturn,
		DollarReturn:     req.DollarReturn,
		INRReturn:        req.INRReturn,
		Comments:         req.Comments,
	}
	deriveReturns(&record)

	existing, err := s.returnRepo.FindByUserAndMonth(ctx, userID, req.Month)
	switch err {
	case nil:
		record.ID = existing.ID
		record.CreatedAt = existing.CreatedAt
		if err := s.returnRepo.Save(ctx, &record); err != nil {
			return nil, err
		}
	case common.ErrNotFound:
		if err := s.returnRepo.Create(ctx, &record); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	s.logger.Info("Monthly return saved",
		logger.Field("user_id", userID),
		logger.Field("month", req.Month),
		logger.Field("return_id", record.ID))

	return &dto.SaveMonthlyReturnResponse{
		Message:  "Monthly return saved successfully",
		ReturnID: record.ID,
		UserID:   userID,
	}, nil
}

func (s *monthlyService) DeleteMonthlyReturn(ctx context.Context, userID, id string) error {
	existing, err := s.returnRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.UserID != userID {
		return common.ErrAccessDenied
	}
	return s.returnRepo.Delete(ctx, id)
}

func (s *monthlyService) GetMonthlyBalances(ctx context.Context, userID string) ([]entity.MonthlyBalance, error) {
	return s.balanceRepo.FindByUser(ctx, userID)
}

func (s *monthlyService) SaveMonthlyBalance(ctx context.Context, userID string, req *dto.SaveMonthlyBalanceRequest) (*dto.SaveMonthlyBalanceResponse, error) {
	if err := validateMonth(req.Month); err != nil {
		return nil, err
	}
	if req.StartBalance <= 0 {
		return nil, common.NewValidationError("start balance must be a positive number")
	}
	if req.Deposits < 0 || req.Withdrawals < 0 {
		return nil, common.NewValidationError("deposits and withdrawals must be non-negative")
	}

	record := entity.MonthlyBalance{
		UserID:       userID,
		Month:        req.Month,
		StartBalance: req.StartBalance,
		CloseBalance: req.CloseBalance,
		Deposits:     req.Deposits,
		Withdrawals:  req.Withdrawals,
		Comments:     req.Comments,
	}

	existing, err := s.balanceRepo.FindByUserAndMonth(ctx, userID, req.Month)
	switch err {
	case nil:
		record.ID = existing.ID
		record.CreatedAt = existing.CreatedAt
		if err := s.balanceRepo.Save(ctx, &record); err != nil {
			return nil, err
		}
	case common.ErrNotFound:
		if err := s.balanceRepo.Create(ctx, &record); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	s.logger.Info("Monthly balance saved",
		logger.Field("user_id", userID),
		logger.Field("month", req.Month),
		logger.Field("balance_id", record.ID))

	return &dto.SaveMonthlyBalanceResponse{
		Message:   "Monthly balance saved successfully",
		BalanceID: record.ID,
		UserID:    userID,
	}, nil
}

func (s *monthlyService) DeleteMonthlyBalance(ctx context.Context, userID, id string) error {
	existing, err := s.balanceRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.UserID != userID {
		return common.ErrAccessDenied
	}
	return s.balanceRepo.Delete(ctx, id)
}

// deriveReturns fills percentage and dollar returns from start/close capital
// when the caller omitted them and both endpoints are known.
func deriveReturns(r *entity.MonthlyReturn) {
	if !hasValue(r.CloseCap) || r.StartCap <= 0 {
		return
	}
	if !hasValue(r.PercentageReturn) {
		pct := (*r.CloseCap - r.StartCap) / r.StartCap * 100
		r.PercentageReturn = &pct
	}
	if !hasValue(r.DollarReturn) {
		dollars := *r.CloseCap - r.StartCap
		r.DollarReturn = &dollars
	}
}

// validateMonth only requires a key to be present. The month string is an
// opaque upsert key; the importer normalizes its own inputs to
// first-of-month dates but API callers may use any stable label.
func validateMonth(month string) error {
	if strings.TrimSpace(month) == "" {
		return common.NewValidationError("month is required")
	}
	return nil
}
