package postgres

import (
	"strings"
	"time"
)

// stringOrDash returns "-" when the input is empty/whitespace
func stringOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// dashToEmpty undoes stringOrDash when reading rows back
func dashToEmpty(s string) string {
	if s == "-" {
		return ""
	}
	return s
}

// since returns the UTC cut-off for a "last N days" query
func since(now time.Time, days int) time.Time {
	if days <= 0 {
		days = 7
	}
	return now.UTC().AddDate(0, 0, -days)
}
