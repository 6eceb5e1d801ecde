// Package ports defines the interfaces (contracts) that adapters must implement.
// These are the boundaries of the hexagonal architecture. Domain logic depends
// only on these interfaces, never on concrete implementations.
package ports

// Storage persists lookup usage statistics to durable storage.
// The backing store (bbolt) is catalog-scoped: each catalogID gets its own
// namespace, so statistics for a custom catalog never mix with the shipped one.
// Concurrent reads are safe; writes are serialized by the adapter.
//
// Crash safety: SaveUsage must be transactional. A crash mid-write must not
// corrupt previously committed data.
type Storage interface {
	// SaveUsage persists the full usage snapshot for a catalog.
	// Overwrites any prior snapshot for this catalogID.
	SaveUsage(catalogID string, stats *UsageStats) error

	// LoadUsage retrieves the usage snapshot for a catalog.
	// Returns nil, nil if nothing has been stored yet.
	LoadUsage(catalogID string) (*UsageStats, error)

	// DeleteUsage removes all stored usage for a catalog.
	// Idempotent: deleting a nonexistent catalog is not an error.
	DeleteUsage(catalogID string) error
}

// UsageStats counts resolver outcomes. Hits are keyed by entry id, misses by
// the normalized keyword that failed to resolve.
type UsageStats struct {
	Lookups   uint64            `json:"lookups"`
	Hits      map[string]uint32 `json:"hits"`
	Misses    map[string]uint32 `json:"misses"`
	UpdatedAt int64             `json:"updated_at"` // unix seconds of the last recorded lookup
}

// NewUsageStats returns an empty snapshot with all maps initialized.
func NewUsageStats() *UsageStats {
	return &UsageStats{
		Hits:   make(map[string]uint32),
		Misses: make(map[string]uint32),
	}
}
