package rates

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Source is the raw rate lookup the cache wraps.
type Source interface {
	Rate(ctx context.Context, from, to string) (float64, error)
}

type entry struct {
	rate      float64
	fetchedAt time.Time
}

// Cached serves exchange rates with a freshness window. A stale entry
// triggers a refresh; on refresh failure the last known value is served, and
// 1.0 when nothing was ever fetched. Rate never fails: salary normalization
// must not abort on a rate outage.
type Cached struct {
	source    Source
	freshness time.Duration

	mu      sync.RWMutex
	entries map[string]entry
}

func NewCached(source Source, freshness time.Duration) *Cached {
	if freshness <= 0 {
		freshness = 24 * time.Hour
	}
	return &Cached{
		source:    source,
		freshness: freshness,
		entries:   make(map[string]entry),
	}
}

func (c *Cached) Rate(ctx context.Context, from, to string) float64 {
	key := from + ":" + to

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if ok && time.Since(e.fetchedAt) < c.freshness {
		return e.rate
	}

	rate, err := c.source.Rate(ctx, from, to)
	if err != nil {
		if ok {
			slog.WarnContext(ctx, "rate refresh failed, serving last known value",
				"from", from, "to", to, "error", err, "age", time.Since(e.fetchedAt))
			return e.rate
		}
		slog.WarnContext(ctx, "rate lookup failed with no cached value, falling back to 1.0",
			"from", from, "to", to, "error", err)
		return 1.0
	}

	c.mu.Lock()
	c.entries[key] = entry{rate: rate, fetchedAt: time.Now()}
	c.mu.Unlock()
	return rate
}
