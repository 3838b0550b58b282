package handlers

import (
	"strconv"
	"time"
)

// parseInt parses a query parameter with a fallback.
func parseInt(s string, defaultValue int) int {
	if val, err := strconv.Atoi(s); err == nil {
		return val
	}
	return defaultValue
}

// parseDateQuery accepts RFC3339 or plain YYYY-MM-DD date bounds.
func parseDateQuery(s string) *time.Time {
	if s == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return &t
	}
	return nil
}

// periodStart maps a dashboard period selector onto its window start.
// Unknown values fall back to 7 days, matching the dashboard default.
func periodStart(period string) time.Time {
	now := time.Now().UTC()
	switch period {
	case "24h":
		return now.Add(-24 * time.Hour)
	case "7d":
		return now.AddDate(0, 0, -7)
	case "30d":
		return now.AddDate(0, 0, -30)
	case "90d":
		return now.AddDate(0, 0, -90)
	default:
		return now.AddDate(0, 0, -7)
	}
}
