package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MonthlyReturn records performance for one (user, month). The month string
// is the upsert key: saving the same user+month updates in place.
type MonthlyReturn struct {
	ID               string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID           string    `gorm:"not null;index:idx_monthly_returns_user_month,unique" json:"user_id"`
	Month            string    `gorm:"not null;index:idx_monthly_returns_user_month,unique" json:"month"`
	StartCap         float64   `gorm:"not null" json:"start_cap"`
	CloseCap         *float64  `json:"close_cap,omitempty"`
	PercentageReturn *float64  `json:"percentage_return,omitempty"`
	DollarReturn     *float64  `json:"dollar_return,omitempty"`
	INRReturn        *float64  `json:"inr_return,omitempty"`
	Comments         string    `json:"comments"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (MonthlyReturn) TableName() string {
	return "monthly_returns"
}

func (m *MonthlyReturn) BeforeCreate(_ *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
