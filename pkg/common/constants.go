package common

const (
	// DateFormat is the canonical zero-padded calendar-date layout. Trade
	// dates are stored as strings in this layout so range filters can compare
	// them lexically.
	DateFormat = "2006-01-02"

	// DefaultAccountBalance is snapshotted onto trades when neither the
	// payload nor the user profile provides a balance.
	DefaultAccountBalance = 10000.0

	// RedisKeyMetricsVersion is the per-user counter bumped on every trade
	// mutation to invalidate cached metrics.
	RedisKeyMetricsVersion = "metrics:ver:%s"

	// RedisKeyMetrics is the cache key for a computed metrics payload:
	// user id, version, from date, to date.
	RedisKeyMetrics = "metrics:%s:%d:%s:%s"
)

// Email kinds recorded in email_logs.
const (
	EmailKindWelcome       = "welcome"
	EmailKindTradeReminder = "trade_reminder"
	EmailKindWeeklySummary = "weekly_summary"
	EmailKindUpdate        = "product_update"
)
