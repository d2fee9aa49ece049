package ratelimit

import (
	"sync"
	"time"
)

// Limiter allows at most max events per key within a sliding window.
type Limiter struct {
	max    int
	window time.Duration

	mutex   sync.Mutex
	buckets map[string][]time.Time
}

func New(max int, window time.Duration) *Limiter {
	return &Limiter{
		max:     max,
		window:  window,
		buckets: map[string][]time.Time{},
	}
}

// prune drops every event older than the window, events are kept in
// ascending order.
func (l *Limiter) prune(events []time.Time, now time.Time) []time.Time {
	i := 0
	for i < len(events) && now.Sub(events[i]) >= l.window {
		i++
	}
	return events[i:]
}

// Allow records an event for key at now and reports whether it is within
// the limit. Rejected events are not recorded.
func (l *Limiter) Allow(key string, now time.Time) bool {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	events := l.prune(l.buckets[key], now)
	if len(events) >= l.max {
		l.buckets[key] = events
		return false
	}
	l.buckets[key] = append(events, now)
	return true
}

// Remaining is how many more events key may have at now.
func (l *Limiter) Remaining(key string, now time.Time) int {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return l.max - len(l.prune(l.buckets[key], now))
}

// Sweep forgets keys with no events inside the window and returns how many
// were removed.
func (l *Limiter) Sweep(now time.Time) int {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	removed := 0
	for key, events := range l.buckets {
		events = l.prune(events, now)
		if len(events) == 0 {
			delete(l.buckets, key)
			removed++
			continue
		}
		l.buckets[key] = events
	}
	return removed
}

// Len is the number of keys being tracked.
func (l *Limiter) Len() int {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return len(l.buckets)
}
