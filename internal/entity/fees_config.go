package entity

import "time"

// FeesConfig is a per-user set of fee parameters, keyed by user id. It is
// pure configuration; fee application happens outside this service.
type FeesConfig struct {
	UserID                               string    `gorm:"primaryKey" json:"user_id"`
	BrokeragePercentage                  float64   `gorm:"not null;default:0.25" json:"brokerage_percentage"`
	BrokerageMaxUSD                      float64   `gorm:"not null;default:25.0" json:"brokerage_max_usd"`
	ExchangeTransactionChargesPercentage float64   `gorm:"not null;default:0.12" json:"exchange_transaction_charges_percentage"`
	IFSCATurnoverFeesPercentage          float64   `gorm:"not null;default:0.0001" json:"ifsca_turnover_fees_percentage"`
	PlatformFeeUSD                       float64   `json:"platform_fee_usd"`
	WithdrawalFeeUSD                     float64   `json:"withdrawal_fee_usd"`
	AMCYearlyUSD                         float64   `json:"amc_yearly_usd"`
	AccountOpeningFeeUSD                 float64   `json:"account_opening_fee_usd"`
	TrackingChargesUSD                   float64   `json:"tracking_charges_usd"`
	ProfileVerificationFeeUSD            float64   `json:"profile_verification_fee_usd"`
	CreatedAt                            time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt                            time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (FeesConfig) TableName() string {
	return "fees_configs"
}

// DefaultFeesConfig returns the config used when a user has never saved one.
func DefaultFeesConfig(userID string) FeesConfig {
	return FeesConfig{
		UserID:                               userID,
		BrokeragePercentage:                  0.25,
		BrokerageMaxUSD:                      25.0,
		ExchangeTransactionChargesPercentage: 0.12,
		IFSCATurnoverFeesPercentage:          0.0001,
	}
}
