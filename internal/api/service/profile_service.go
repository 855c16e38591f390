package service

import (
	"context"

	"tradetracker/internal/api/dto"
	"tradetracker/internal/api/repository"
	"tradetracker/internal/entity"
	"tradetracker/pkg/common"
	"tradetracker/pkg/logger"
)

// ProfileService manages per-user account settings.
type ProfileService interface {
	GetProfile(ctx context.Context, userID string) (*entity.UserProfile, error)
	UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) error
	// GetAccountBalance returns the profile balance, or the fixed default
	// when no profile exists yet.
	GetAccountBalance(ctx context.Context, userID string) (float64, error)
}

// NewProfileService creates a new profile service.
func NewProfileService(profileRepo repository.ProfileRepository, log *logger.Logger) ProfileService {
	return &profileService{profileRepo: profileRepo, logger: log}
}

type profileService struct {
	profileRepo repository.ProfileRepository
	logger      *logger.Logger
}

func (s *profileService) GetProfile(ctx context.Context, userID string) (*entity.UserProfile, error) {
	return s.profileRepo.FindByUser(ctx, userID)
}

func (s *profileService) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) error {
	if req.AccountBalance == nil || *req.AccountBalance <= 0 {
		return common.NewValidationError("account balance must be a positive number")
	}
	if req.RiskTolerance != nil && (*req.RiskTolerance <= 0 || *req.RiskTolerance > 100) {
		return common.NewValidationError("risk tolerance must be between 0 and 100")
	}

	profile := &entity.UserProfile{
		UserID:         userID,
		AccountBalance: *req.AccountBalance,
		Currency:       req.Currency,
		RiskTolerance:  2.0,
	}
	if profile.Currency == "" {
		profile.Currency = "USD"
	}
	if req.RiskTolerance != nil {
		profile.RiskTolerance = *req.RiskTolerance
	}

	if err := s.profileRepo.Upsert(ctx, profile); err != nil {
		s.logger.Error("Failed to save profile", logger.ErrorField(err), logger.Field("user_id", userID))
		return err
	}

	s.logger.Info("Profile updated",
		logger.Field("user_id", userID),
		logger.Field("account_balance", *req.AccountBalance))
	return nil
}

func (s *profileService) GetAccountBalance(ctx context.Context, userID string) (float64, error) {
	profile, err := s.profileRepo.FindByUser(ctx, userID)
	if err != nil {
		if err == common.ErrNotFound {
			return common.DefaultAccountBalance, nil
		}
		return 0, err
	}
	if profile.AccountBalance <= 0 {
		return common.DefaultAccountBalance, nil
	}
	return profile.AccountBalance, nil
}
