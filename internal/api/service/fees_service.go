package service

import (
	"context"

	"tradetracker/internal/api/dto"
	"tradetracker/internal/api/repository"
	"tradetracker/internal/entity"
	"tradetracker/pkg/common"
	"tradetracker/pkg/logger"
)

// FeesService manages per-user fee parameters. Reads always succeed: a user
// without a saved config gets the defaults.
type FeesService interface {
	GetFeesConfig(ctx context.Context, userID string) (*entity.FeesConfig, error)
	SaveFeesConfig(ctx context.Context, userID string, req *dto.SaveFeesConfigRequest) error
}

// NewFeesService creates a new fees-config service.
func NewFeesService(feesRepo repository.FeesConfigRepository, log *logger.Logger) FeesService {
	return &feesService{feesRepo: feesRepo, logger: log}
}

type feesService struct {
	feesRepo repository.FeesConfigRepository
	logger   *logger.Logger
}

func (s *feesService) GetFeesConfig(ctx context.Context, userID string) (*entity.FeesConfig, error) {
	cfg, err := s.feesRepo.FindByUser(ctx, userID)
	if err != nil {
		if err == common.ErrNotFound {
			defaults := entity.DefaultFeesConfig(userID)
			return &defaults, nil
		}
		return nil, err
	}
	return cfg, nil
}

func (s *feesService) SaveFeesConfig(ctx context.Context, userID string, req *dto.SaveFeesConfigRequest) error {
	if req.BrokeragePercentage < 0 || req.BrokeragePercentage > 10 {
		return common.NewValidationError("brokerage percentage must be between 0 and 10")
	}
	flatFees := map[string]float64{
		"brokerage_max_usd":            req.BrokerageMaxUSD,
		"platform_fee_usd":             req.PlatformFeeUSD,
		"withdrawal_fee_usd":           req.WithdrawalFeeUSD,
		"amc_yearly_usd":               req.AMCYearlyUSD,
		"account_opening_fee_usd":      req.AccountOpeningFeeUSD,
		"tracking_charges_usd":         req.TrackingChargesUSD,
		"profile_verification_fee_usd": req.ProfileVerificationFeeUSD,
	}
	for name, v := range flatFees {
		if v < 0 {
			return common.NewValidationError("%s must be non-negative", name)
		}
	}
	if req.ExchangeTransactionChargesPercentage < 0 || req.IFSCATurnoverFeesPercentage < 0 {
		return common.NewValidationError("fee percentages must be non-negative")
	}

	cfg := &entity.FeesConfig{
		UserID:                               userID,
		BrokeragePercentage:                  req.BrokeragePercentage,
		BrokerageMaxUSD:                      req.BrokerageMaxUSD,
		ExchangeTransactionChargesPercentage: req.ExchangeTransactionChargesPercentage,
		IFSCATurnoverFeesPercentage:          req.IFSCATurnoverFeesPercentage,
		PlatformFeeUSD:                       req.PlatformFeeUSD,
		WithdrawalFeeUSD:                     req.WithdrawalFeeUSD,
		AMCYearlyUSD:                         req.AMCYearlyUSD,
		AccountOpeningFeeUSD:                 req.AccountOpeningFeeUSD,
		TrackingChargesUSD:                   req.TrackingChargesUSD,
		ProfileVerificationFeeUSD:            req.ProfileVerificationFeeUSD,
	}

	if err := s.feesRepo.Upsert(ctx, cfg); err != nil {
		s.logger.Error("Failed to save fees config", logger.ErrorField(err), logger.Field("user_id", userID))
		return err
	}

	s.logger.Info("Fees config saved", logger.Field("user_id", userID))
	return nil
}
