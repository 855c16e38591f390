package config

import (
	"tradetracker/pkg/config"
)

// Mailer holds campaign tuning knobs.
type Mailer struct {
	// SendRate is emails per second across a campaign run.
	SendRate float64 `mapstructure:"send_rate"`
	// ReminderAfterDays is the inactivity threshold for reminder emails.
	ReminderAfterDays int `mapstructure:"reminder_after_days"`
	// WeeklyCron fires the weekly-summary campaign in serve mode.
	WeeklyCron string `mapstructure:"weekly_cron"`
	// ReminderCron fires the reminder campaign in serve mode.
	ReminderCron string `mapstructure:"reminder_cron"`
}

// Config holds the full configuration for the mailer.
type Config struct {
	App      config.App      `mapstructure:"app"`
	Logger   config.Logger   `mapstructure:"logger"`
	Database config.Database `mapstructure:"database"`
	Email    config.Email    `mapstructure:"email"`
	Telegram config.Telegram `mapstructure:"telegram"`
	Mailer   Mailer          `mapstructure:"mailer"`
}

// Load loads the mailer configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
