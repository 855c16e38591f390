package dto

// EmailRequest targets a single address. Endpoints verify the address
// belongs to the authenticated caller before sending.
type EmailRequest struct {
	Email    string `json:"email"`
	UserName string `json:"user_name,omitempty"`
}

// TriggerWelcomeEmailRequest fires the welcome email on login/signup.
// Existing users who already received it are skipped.
type TriggerWelcomeEmailRequest struct {
	Email     string `json:"email"`
	UserName  string `json:"user_name,omitempty"`
	IsNewUser bool   `json:"is_new_user,omitempty"`
}

// TradeReminderRequest sends an inactivity nudge.
type TradeReminderRequest struct {
	Email        string `json:"email"`
	UserName     string `json:"user_name,omitempty"`
	DaysInactive int    `json:"days_inactive,omitempty"`
}

// WeeklySummaryEmailRequest sends the weekly summary. When Summary is nil the
// server computes it from the caller's trailing-7-day trades.
type WeeklySummaryEmailRequest struct {
	Email    string         `json:"email"`
	UserName string         `json:"user_name,omitempty"`
	Summary  *WeeklySummary `json:"summary_data,omitempty"`
}

// EmailResponse reports the outcome of an email trigger.
type EmailResponse struct {
	Message string `json:"message"`
	Email   string `json:"email"`
	Skipped bool   `json:"skipped,omitempty"`
}
