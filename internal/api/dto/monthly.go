package dto

import "tradetracker/internal/entity"

// SaveMonthlyReturnRequest creates or updates the record for (caller, month).
// PercentageReturn and DollarReturn are derived from start/close capital when
// not supplied.
type SaveMonthlyReturnRequest struct {
	Month            string   `json:"month"`
	StartCap         float64  `json:"start_cap"`
	CloseCap         *float64 `json:"close_cap,omitempty"`
	PercentageReturn *float64 `json:"percentage_return,omitempty"`
	DollarReturn     *float64 `json:"dollar_return,omitempty"`
	INRReturn        *float64 `json:"inr_return,omitempty"`
	Comments         string   `json:"comments"`
}

// MonthlyReturnsResponse wraps a listing.
type MonthlyReturnsResponse struct {
	MonthlyReturns []entity.MonthlyReturn `json:"monthly_returns"`
}

// SaveMonthlyReturnResponse returns the record id hit by the upsert.
type SaveMonthlyReturnResponse struct {
	Message  string `json:"message"`
	ReturnID string `json:"return_id"`
	UserID   string `json:"user_id"`
}

// SaveMonthlyBalanceRequest mirrors the monthly-return upsert for capital
// snapshots.
type SaveMonthlyBalanceRequest struct {
	Month        string   `json:"month"`
	StartBalance float64  `json:"start_balance"`
	CloseBalance *float64 `json:"close_balance,omitempty"`
	Deposits     float64  `json:"deposits"`
	Withdrawals  float64  `json:"withdrawals"`
	Comments     string   `json:"comments"`
}

// MonthlyBalancesResponse wraps a listing.
type MonthlyBalancesResponse struct {
	MonthlyBalances []entity.MonthlyBalance `json:"monthly_balances"`
}

// SaveMonthlyBalanceResponse returns the record id hit by the upsert.
type SaveMonthlyBalanceResponse struct {
	Message   string `json:"message"`
	BalanceID string `json:"balance_id"`
	UserID    string `json:"user_id"`
}
