package entity

import "time"

// User mirrors the identity provider's view of an account. Rows are upserted
// by the API auth middleware; the mailer derives campaign audiences from them.
type User struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	Email       string    `gorm:"not null;index" json:"email"`
	DisplayName string    `json:"display_name"`
	LastSeenAt  time.Time `json:"last_seen_at"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
