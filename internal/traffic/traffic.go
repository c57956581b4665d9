package traffic

import (
	"sync"
	"time"
)

var defaultTracker Tracker

// RecordServed records a prediction request that reached the handler.
func RecordServed() {
	defaultTracker.RecordServed()
}

// RecordServedN records N served requests. For synthetic load injection.
func RecordServedN(n int) {
	defaultTracker.RecordServedN(n)
}

// RecordDenied records a rate-limit denial (429).
func RecordDenied() {
	defaultTracker.RecordDenied()
}

// RequestCount returns served + denied requests within the window.
func RequestCount(window time.Duration) int {
	return defaultTracker.RequestCount(window)
}

// ServedCount returns served requests within the window.
func ServedCount(window time.Duration) int {
	return defaultTracker.ServedCount(window)
}

// DenialCount returns denials within the window.
func DenialCount(window time.Duration) int {
	return defaultTracker.DenialCount(window)
}

// Reset clears all recorded data. For tests only.
func Reset() {
	defaultTracker.Reset()
}

// Tracker maintains sliding windows of request timestamps. Single source of
// truth for the overloaded (RequestCount, DenialCount) and idle (ServedCount)
// health states and the window gauges.
type Tracker struct {
	mu          sync.Mutex
	servedTimes []time.Time
	deniedTimes []time.Time
}

// RecordServed records one served request at the current time.
func (t *Tracker) RecordServed() {
	t.RecordServedN(1)
}

// RecordServedN records N served requests atomically.
func (t *Tracker) RecordServedN(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := time.Now()
	for i := 0; i < n; i++ {
		t.servedTimes = append(t.servedTimes, now)
	}
	t.pruneLocked(now)
}

// RecordDenied records one rate-limit denial at the current time.
func (t *Tracker) RecordDenied() {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := time.Now()
	t.deniedTimes = append(t.deniedTimes, now)
	t.pruneLocked(now)
}

// RequestCount returns served + denied requests within the window ending now.
func (t *Tracker) RequestCount(window time.Duration) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	cutoff := time.Now().Add(-window)
	return countInWindow(t.servedTimes, cutoff) + countInWindow(t.deniedTimes, cutoff)
}

// ServedCount returns served requests within the window ending now.
func (t *Tracker) ServedCount(window time.Duration) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return countInWindow(t.servedTimes, time.Now().Add(-window))
}

// DenialCount returns denials within the window ending now.
func (t *Tracker) DenialCount(window time.Duration) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return countInWindow(t.deniedTimes, time.Now().Add(-window))
}

// Reset clears all recorded timestamps.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.servedTimes = nil
	t.deniedTimes = nil
}

func countInWindow(times []time.Time, cutoff time.Time) int {
	n := 0
	for _, ts := range times {
		if !ts.Before(cutoff) {
			n++
		}
	}
	return n
}

// pruneLocked drops timestamps older than the longest window any caller uses.
// Must be called with the mutex held.
func (t *Tracker) pruneLocked(now time.Time) {
	cutoff := now.Add(-30 * time.Minute)
	prune := func(slice *[]time.Time) {
		times := *slice
		i := 0
		for ; i < len(times) && times[i].Before(cutoff); i++ {
		}
		if i > 0 {
			*slice = append(times[:0], times[i:]...)
		}
	}
	prune(&t.servedTimes)
	prune(&t.deniedTimes)
}
