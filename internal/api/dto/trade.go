package dto

import "tradetracker/internal/entity"

// AddTradeRequest is the payload for creating a trade. UserID in the payload
// is ignored; the authenticated caller always becomes the owner.
type AddTradeRequest struct {
	Date           string   `json:"date"`
	Ticker         string   `json:"ticker"`
	BuyPrice       *float64 `json:"buy_price,omitempty"`
	SellPrice      *float64 `json:"sell_price,omitempty"`
	Shares         float64  `json:"shares"`
	Risk           *float64 `json:"risk,omitempty"`
	RiskDollars    *float64 `json:"risk_dollars,omitempty"`
	AccountBalance *float64 `json:"account_balance,omitempty"`
	Notes          string   `json:"notes"`
	Status         string   `json:"status"`
}

// AddTradeResponse returns the generated id.
type AddTradeResponse struct {
	Message string `json:"message"`
	TradeID string `json:"trade_id"`
}

// ExitTradeRequest closes all or part of the open position for a ticker.
type ExitTradeRequest struct {
	Ticker       string  `json:"ticker"`
	SharesToExit float64 `json:"shares_to_exit"`
	SellPrice    float64 `json:"sell_price"`
	Notes        string  `json:"notes"`
}

// ExitTradeResponse reports the affected record ids. ExitTradeID is set only
// for partial exits, where a new closed leg is created.
type ExitTradeResponse struct {
	Message          string  `json:"message"`
	TradeID          string  `json:"trade_id,omitempty"`
	ExitTradeID      string  `json:"exit_trade_id,omitempty"`
	RemainingTradeID string  `json:"remaining_trade_id,omitempty"`
	RemainingShares  float64 `json:"remaining_shares"`
}

// UpdateTradeRequest is a patch: nil means "field not provided", so partial
// updates are unambiguous.
type UpdateTradeRequest struct {
	Date           *string  `json:"date,omitempty"`
	Ticker         *string  `json:"ticker,omitempty"`
	BuyPrice       *float64 `json:"buy_price,omitempty"`
	SellPrice      *float64 `json:"sell_price,omitempty"`
	Shares         *float64 `json:"shares,omitempty"`
	Risk           *float64 `json:"risk,omitempty"`
	RiskDollars    *float64 `json:"risk_dollars,omitempty"`
	AccountBalance *float64 `json:"account_balance,omitempty"`
	Notes          *string  `json:"notes,omitempty"`
	Status         *string  `json:"status,omitempty"`
}

// TradesResponse wraps a trade listing.
type TradesResponse struct {
	Trades []entity.Trade `json:"trades"`
}

// MessageResponse is a generic success body carrying the affected id.
type MessageResponse struct {
	Message string `json:"message"`
	TradeID string `json:"trade_id,omitempty"`
	UserID  string `json:"user_id,omitempty"`
}
