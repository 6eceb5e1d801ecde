// Package usage counts glossary lookups: hits per entry id and misses per
// normalized keyword. Misses show catalog authors which words readers look
// up that the glossary does not define yet.
//
// State is held in memory and periodically persisted through ports.Storage
// by the app layer. The miss table is bounded so a stream of garbage keywords
// cannot grow it without limit.
package usage

import (
	"sort"
	"sync"
	"time"

	"github.com/corey/rfcguide/internal/ports"
)

// MaxMissKeys bounds the number of distinct miss keys kept. Once full, new
// keys are dropped; existing keys keep counting.
const MaxMissKeys = 2048

// Tracker records lookup outcomes. Safe for concurrent use.
type Tracker struct {
	mu    sync.Mutex
	state *ports.UsageStats
	dirty bool
	now   func() time.Time
}

// New creates an empty tracker.
func New() *Tracker {
	return &Tracker{state: ports.NewUsageStats(), now: time.Now}
}

// NewFromState creates a tracker seeded with a stored snapshot.
// A nil snapshot is treated as empty. Nil maps are initialized.
func NewFromState(stats *ports.UsageStats) *Tracker {
	t := New()
	t.Restore(stats)
	return t
}

// Restore replaces the tracker state with a copy of stats.
func (t *Tracker) Restore(stats *ports.UsageStats) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if stats == nil {
		t.state = ports.NewUsageStats()
	} else {
		t.state = clone(stats)
	}
	t.dirty = false
}

// RecordHit counts a successful lookup of entry id.
func (t *Tracker) RecordHit(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.Lookups++
	t.state.Hits[id]++
	t.touch()
}

// RecordMiss counts a lookup whose normalized keyword matched nothing.
// Empty keys count as lookups but are not stored.
func (t *Tracker) RecordMiss(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.Lookups++
	if key != "" {
		if _, ok := t.state.Misses[key]; ok || len(t.state.Misses) < MaxMissKeys {
			t.state.Misses[key]++
		}
	}
	t.touch()
}

func (t *Tracker) touch() {
	t.state.UpdatedAt = t.now().Unix()
	t.dirty = true
}

// Snapshot returns a deep copy of the current state.
func (t *Tracker) Snapshot() *ports.UsageStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return clone(t.state)
}

// TakeDirty returns a snapshot and clears the dirty flag if anything changed
// since the last call, or nil otherwise. Used by the periodic flush.
func (t *Tracker) TakeDirty() *ports.UsageStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.dirty {
		return nil
	}
	t.dirty = false
	return clone(t.state)
}

// MarkDirty flags the state as changed so the next TakeDirty returns it.
// Used to retry after a failed flush.
func (t *Tracker) MarkDirty() {
	t.mu.Lock()
	t.dirty = true
	t.mu.Unlock()
}

// Count is one ranked key/count pair.
type Count struct {
	Key   string `json:"key"`
	Count uint32 `json:"count"`
}

// TopHits returns the n most looked-up entry ids.
func TopHits(stats *ports.UsageStats, n int) []Count {
	return top(stats.Hits, n)
}

// TopMisses returns the n most frequent unresolved keys.
func TopMisses(stats *ports.UsageStats, n int) []Count {
	return top(stats.Misses, n)
}

// top ranks by count descending, then key ascending for determinism.
// n <= 0 returns every key.
func top(m map[string]uint32, n int) []Count {
	out := make([]Count, 0, len(m))
	for k, v := range m {
		out = append(out, Count{Key: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func clone(s *ports.UsageStats) *ports.UsageStats {
	c := &ports.UsageStats{
		Lookups:   s.Lookups,
		UpdatedAt: s.UpdatedAt,
		Hits:      make(map[string]uint32, len(s.Hits)),
		Misses:    make(map[string]uint32, len(s.Misses)),
	}
	for k, v := range s.Hits {
		c.Hits[k] = v
	}
	for k, v := range s.Misses {
		c.Misses[k] = v
	}
	return c
}
