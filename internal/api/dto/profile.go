package dto

import "tradetracker/internal/entity"

// UpdateProfileRequest is the profile PUT payload. AccountBalance is
// required and must be positive; the rest fall back to defaults.
type UpdateProfileRequest struct {
	AccountBalance *float64 `json:"account_balance"`
	Currency       string   `json:"currency"`
	RiskTolerance  *float64 `json:"risk_tolerance"`
}

// ProfileResponse wraps a profile read.
type ProfileResponse struct {
	Profile entity.UserProfile `json:"profile"`
}

// AccountBalanceResponse is the trimmed balance-only read used by the
// frontend for risk calculations.
type AccountBalanceResponse struct {
	AccountBalance float64 `json:"account_balance"`
}
