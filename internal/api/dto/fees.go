package dto

import "tradetracker/internal/entity"

// SaveFeesConfigRequest replaces the caller's fee parameters. All amounts
// must be non-negative; brokerage percentage is capped at 10.
type SaveFeesConfigRequest struct {
	BrokeragePercentage                  float64 `json:"brokerage_percentage"`
	BrokerageMaxUSD                      float64 `json:"brokerage_max_usd"`
	ExchangeTransactionChargesPercentage float64 `json:"exchange_transaction_charges_percentage"`
	IFSCATurnoverFeesPercentage          float64 `json:"ifsca_turnover_fees_percentage"`
	PlatformFeeUSD                       float64 `json:"platform_fee_usd"`
	WithdrawalFeeUSD                     float64 `json:"withdrawal_fee_usd"`
	AMCYearlyUSD                         float64 `json:"amc_yearly_usd"`
	AccountOpeningFeeUSD                 float64 `json:"account_opening_fee_usd"`
	TrackingChargesUSD                   float64 `json:"tracking_charges_usd"`
	ProfileVerificationFeeUSD            float64 `json:"profile_verification_fee_usd"`
}

// FeesConfigResponse wraps a fees-config read.
type FeesConfigResponse struct {
	FeesConfig entity.FeesConfig `json:"fees_config"`
}
