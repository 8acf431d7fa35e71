package store

import (
	"context"
	"sync"
	"time"

	"helptoheat/internal/ratelimit/models"
)

// InMemory is a sliding window limiter local to one process.
type InMemory struct {
	mu      sync.Mutex
	windows map[string][]time.Time
	now     func() time.Time
}

func NewInMemory() *InMemory {
	return &InMemory{windows: make(map[string][]time.Time), now: time.Now}
}

// NewInMemoryWithClock is for tests that need to move time.
func NewInMemoryWithClock(now func() time.Time) *InMemory {
	return &InMemory{windows: make(map[string][]time.Time), now: now}
}

func (s *InMemory) Allow(_ context.Context, key string, limit models.Limit) (*models.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	stamps := prune(s.windows[key], now.Add(-limit.Window))

	if len(stamps) >= limit.Requests {
		s.windows[key] = stamps
		resetAt := now.Add(limit.Window)
		if len(stamps) > 0 {
			resetAt = stamps[0].Add(limit.Window)
		}
		return &models.Result{
			Allowed:    false,
			Limit:      limit.Requests,
			ResetAt:    resetAt,
			RetryAfter: models.RetryAfterSeconds(resetAt, now),
		}, nil
	}

	stamps = append(stamps, now)
	s.windows[key] = stamps
	return &models.Result{
		Allowed:   true,
		Limit:     limit.Requests,
		Remaining: limit.Requests - len(stamps),
		ResetAt:   stamps[0].Add(limit.Window),
	}, nil
}

// prune drops timestamps at or before cutoff. Stamps are kept in order.
func prune(stamps []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for ; i < len(stamps); i++ {
		if stamps[i].After(cutoff) {
			break
		}
	}
	return stamps[i:]
}
