package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Trade statuses.
const (
	TradeStatusOpen   = "open"
	TradeStatusClosed = "closed"
)

// Trade is one entry or exit leg of a position. Optional numeric fields are
// pointers so "absent" is distinguishable from zero. Date and ExitDate are
// zero-padded "YYYY-MM-DD" strings; range filters compare them lexically.
type Trade struct {
	ID             string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID         string    `gorm:"not null;index" json:"user_id"`
	Date           string    `gorm:"not null;type:varchar(10)" json:"date"`
	ExitDate       *string   `gorm:"type:varchar(10)" json:"exit_date,omitempty"`
	Ticker         string    `gorm:"not null;index" json:"ticker"`
	BuyPrice       *float64  `json:"buy_price,omitempty"`
	SellPrice      *float64  `json:"sell_price,omitempty"`
	Shares         float64   `gorm:"not null" json:"shares"`
	Risk           *float64  `json:"risk,omitempty"`
	RiskDollars    *float64  `json:"risk_dollars,omitempty"`
	AccountBalance *float64  `json:"account_balance,omitempty"`
	Notes          string    `json:"notes"`
	Status         string    `gorm:"not null;index" json:"status"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Trade) TableName() string {
	return "trades"
}

func (t *Trade) BeforeCreate(_ *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// IsClosedComplete reports whether the trade is eligible for P&L: closed with
// buy price, sell price and shares all present.
func (t *Trade) IsClosedComplete() bool {
	return t.Status == TradeStatusClosed && t.BuyPrice != nil && t.SellPrice != nil
}

// PnL returns (sell − buy) × shares for a closed-complete trade, 0 otherwise.
func (t *Trade) PnL() float64 {
	if !t.IsClosedComplete() {
		return 0
	}
	return (*t.SellPrice - *t.BuyPrice) * t.Shares
}

// ActivityDate is the date used by range filters: the exit date for closed
// trades that have one, the entry date otherwise.
func (t *Trade) ActivityDate() string {
	if t.Status == TradeStatusClosed && t.ExitDate != nil && *t.ExitDate != "" {
		return *t.ExitDate
	}
	return t.Date
}
