package utils

import (
	"time"

	"tradetracker/pkg/common"
)

// FormatDate renders t as a zero-padded "YYYY-MM-DD" string.
func FormatDate(t time.Time) string {
	return t.Format(common.DateFormat)
}

// ParseDate parses a zero-padded "YYYY-MM-DD" string.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(common.DateFormat, s)
}

// IsValidDate reports whether s is a well-formed "YYYY-MM-DD" string.
func IsValidDate(s string) bool {
	_, err := time.Parse(common.DateFormat, s)
	return err == nil
}

// DaysAgo returns the date string for n days before now.
func DaysAgo(n int) string {
	return FormatDate(time.Now().AddDate(0, 0, -n))
}
