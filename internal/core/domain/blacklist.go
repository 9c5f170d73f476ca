package domain

import (
	"strings"
	"time"
)

// EntryType distinguishes the kind of identifier a blacklist entry holds.
type EntryType string

const (
	EntryTypeAccount EntryType = "account"
	EntryTypeIP      EntryType = "ip"
)

// BlacklistEntry is a flagged identifier. Entries never expire; insertion
// is idempotent per (type, value).
type BlacklistEntry struct {
	Type      EntryType `json:"type"`
	Value     string    `json:"value"`
	Reasons   []string  `json:"reasons"`
	AddedBy   string    `json:"added_by"` // "system" for engine inserts, analyst username otherwise
	CreatedAt time.Time `json:"created_at"`
}

// Key returns the identity used for idempotency checks.
func (e *BlacklistEntry) Key() string {
	return string(e.Type) + ":" + e.Value
}

// containsFold is a case-insensitive substring check shared by search paths.
func containsFold(s, substr string) bool {
	if substr == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
