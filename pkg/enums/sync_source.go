package enums

import "fmt"

// SyncSource identifies where an inventory change originated. Changes sourced
// from the marketplace are never echoed back to it.
type SyncSource string

const (
	SyncSourceWebsite     SyncSource = "website"
	SyncSourceMarketplace SyncSource = "fourseller"
	SyncSourceReconcile   SyncSource = "marketplace_reconcile"
)

var validSyncSources = []SyncSource{
	SyncSourceWebsite,
	SyncSourceMarketplace,
	SyncSourceReconcile,
}

// String implements fmt.Stringer.
func (s SyncSource) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SyncSource.
func (s SyncSource) IsValid() bool {
	for _, candidate := range validSyncSources {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsExternal reports whether the change came from the marketplace side.
func (s SyncSource) IsExternal() bool {
	return s == SyncSourceMarketplace || s == SyncSourceReconcile
}

// ParseSyncSource converts raw input into a SyncSource.
func ParseSyncSource(value string) (SyncSource, error) {
	for _, candidate := range validSyncSources {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sync source %q", value)
}
