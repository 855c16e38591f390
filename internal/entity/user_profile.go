package entity

import "time"

// UserProfile holds per-user account settings. AccountBalance feeds risk
// derivation on trade writes; changing it never rewrites past trades.
type UserProfile struct {
	UserID         string    `gorm:"primaryKey" json:"user_id"`
	AccountBalance float64   `gorm:"not null" json:"account_balance"`
	Currency       string    `gorm:"not null;default:USD" json:"currency"`
	RiskTolerance  float64   `gorm:"not null;default:2.0" json:"risk_tolerance"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}
