package domain

import "time"

// CacheEntry is the stored result of a successful execution of a code unit.
// Code is kept for auditing only and is never re-executed from the store.
type CacheEntry struct {
	Key        ContentKey `json:"key"`
	EntryPoint string     `json:"entry_point"`
	Code       string     `json:"code,omitzero"`
	Output     string     `json:"output"`
	StoredAt   time.Time  `json:"stored_at,omitzero"`
}
