package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EmailLog records one sent (or attempted) email. It backs welcome-email
// deduplication and campaign reporting; Payload keeps the summary data that
// was rendered into the message.
type EmailLog struct {
	ID        string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID    string         `gorm:"not null;index" json:"user_id"`
	Email     string         `gorm:"not null" json:"email"`
	Kind      string         `gorm:"not null;index" json:"kind"`
	Success   bool           `gorm:"not null" json:"success"`
	Payload   datatypes.JSON `json:"payload,omitempty"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (EmailLog) TableName() string {
	return "email_logs"
}

func (e *EmailLog) BeforeCreate(_ *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}
