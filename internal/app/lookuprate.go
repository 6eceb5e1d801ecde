package app

import (
	"sync"
	"time"
)

// DefaultRateWindow is the rolling window for the lookup rate.
const DefaultRateWindow = 5 * time.Minute

// LookupRate computes a rolling lookups-per-minute rate over a window.
// Safe for concurrent use.
type LookupRate struct {
	mu      sync.Mutex
	window  time.Duration
	samples []time.Time
}

// NewLookupRate creates a tracker with the given rolling window duration.
func NewLookupRate(window time.Duration) *LookupRate {
	return &LookupRate{window: window}
}

// Record notes one lookup at the current time.
func (r *LookupRate) Record() {
	r.RecordAt(time.Now())
}

// RecordAt notes one lookup at a specific timestamp. Timestamps are expected
// in non-decreasing order.
func (r *LookupRate) RecordAt(ts time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.samples = append(r.samples, ts)
	r.evict(ts)
}

// PerMinute returns the current lookup rate.
func (r *LookupRate) PerMinute() float64 {
	return r.PerMinuteAt(time.Now())
}

// PerMinuteAt computes the rate as of now: lookups in the window divided by
// the span since the oldest of them. Fewer than two samples yield 0.
func (r *LookupRate) PerMinuteAt(now time.Time) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evict(now)
	if len(r.samples) < 2 {
		return 0
	}
	span := now.Sub(r.samples[0])
	if span <= 0 {
		return 0
	}
	return float64(len(r.samples)) / span.Minutes()
}

// Reset clears all samples.
func (r *LookupRate) Reset() {
	r.mu.Lock()
	r.samples = nil
	r.mu.Unlock()
}

// evict removes samples older than the window. Caller holds mu.
func (r *LookupRate) evict(now time.Time) {
	cutoff := now.Add(-r.window)
	i := 0
	for i < len(r.samples) && r.samples[i].Before(cutoff) {
		i++
	}
	if i > 0 {
		r.samples = r.samples[i:]
	}
}
