package persistence

import (
	"strings"
)

// ValidateSortOrder normalizes the sort direction to ASC or DESC.
// Defaults to DESC, listings read newest first.
func ValidateSortOrder(desc bool) string {
	if desc {
		return "DESC"
	}
	return "ASC"
}

// ValidateSortField validates the sort field against a whitelist of allowed
// fields. Returns the defaultField if the input is empty or not whitelisted.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// RatingSortFields contains allowed sort fields for ratings
var RatingSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"amount":       true,
	"issue_date":   true,
	"payment_date": true,
	"state_id":     true,
	"market_id":    true,
}

// UserSortFields contains allowed sort fields for users
var UserSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"email":      true,
	"first_name": true,
	"last_name":  true,
	"role":       true,
}

// LogSortFields contains allowed sort fields for audit log entries
var LogSortFields = map[string]bool{
	"id":     true,
	"at":     true,
	"action": true,
}
