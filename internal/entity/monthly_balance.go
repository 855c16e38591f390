package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MonthlyBalance snapshots account capital for one (user, month), with the
// same month-keyed upsert semantics as MonthlyReturn.
type MonthlyBalance struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID       string    `gorm:"not null;index:idx_monthly_balances_user_month,unique" json:"user_id"`
	Month        string    `gorm:"not null;index:idx_monthly_balances_user_month,unique" json:"month"`
	StartBalance float64   `gorm:"not null" json:"start_balance"`
	CloseBalance *float64  `json:"close_balance,omitempty"`
	Deposits     float64   `json:"deposits"`
	Withdrawals  float64   `json:"withdrawals"`
	Comments     string    `json:"comments"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (MonthlyBalance) TableName() string {
	return "monthly_balances"
}

func (m *MonthlyBalance) BeforeCreate(_ *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
