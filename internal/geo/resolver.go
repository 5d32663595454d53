package geo

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Resolution is a single geocoder answer for a location name.
type Resolution struct {
	DisplayName string       `json:"display_name"`
	Lat         float64      `json:"lat"`
	Lon         float64      `json:"lon"`
	Box         *BoundingBox `json:"box,omitempty"`
}

// Client looks up a single location name. A nil result with a nil error
// means the geocoder had no answer.
type Client interface {
	Lookup(ctx context.Context, name string) (*Resolution, error)
}

// Cache is a read-through cache for resolutions. Implementations decide TTL.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, val any) error
}

// Resolver fans out geocoding lookups with a bounded concurrency cap.
// Individual lookup failures yield an absent entry, never abort the batch.
type Resolver struct {
	client Client
	cache  Cache
	limit  int
}

func NewResolver(client Client, cache Cache, limit int) *Resolver {
	if limit <= 0 {
		limit = 8
	}
	return &Resolver{client: client, cache: cache, limit: limit}
}

// ResolvePoints resolves each distinct name to a centroid. Names that fail
// or come back empty are simply missing from the result map.
func (r *Resolver) ResolvePoints(ctx context.Context, names []string) (map[string]Point, error) {
	resolutions, err := r.resolve(ctx, names)
	if err != nil {
		return nil, err
	}

	points := make(map[string]Point, len(resolutions))
	for name, res := range resolutions {
		points[name] = Point{Lat: res.Lat, Lon: res.Lon}
	}
	return points, nil
}

// ResolveBoxes resolves names to bounding boxes. Only names with a non-empty
// box contribute; order is not significant.
func (r *Resolver) ResolveBoxes(ctx context.Context, names []string) ([]BoundingBox, error) {
	resolutions, err := r.resolve(ctx, names)
	if err != nil {
		return nil, err
	}

	var boxes []BoundingBox
	for _, res := range resolutions {
		if res.Box != nil {
			boxes = append(boxes, *res.Box)
		}
	}
	return boxes, nil
}

func (r *Resolver) resolve(ctx context.Context, names []string) (map[string]Resolution, error) {
	distinct := dedupe(names)
	if len(distinct) == 0 {
		return map[string]Resolution{}, nil
	}

	var mu sync.Mutex
	out := make(map[string]Resolution, len(distinct))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.limit)

	for _, name := range distinct {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			res, err := r.lookupCached(gctx, name)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				slog.WarnContext(gctx, "geo lookup failed", "location", name, "error", err)
				return nil
			}
			if res == nil {
				return nil
			}

			mu.Lock()
			out[name] = *res
			mu.Unlock()
			return nil
		})
	}

	// A cancelled batch yields no partial results.
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Resolver) lookupCached(ctx context.Context, name string) (*Resolution, error) {
	key := "geo:" + strings.ToLower(strings.TrimSpace(name))

	if r.cache != nil {
		var cached Resolution
		hit, err := r.cache.Get(ctx, key, &cached)
		if err != nil {
			slog.WarnContext(ctx, "geo cache read failed", "location", name, "error", err)
		} else if hit {
			return &cached, nil
		}
	}

	res, err := r.client.Lookup(ctx, name)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, nil
	}

	if res.DisplayName == "United States" {
		us := UnitedStates
		res.Box = &us
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, key, res); err != nil {
			slog.WarnContext(ctx, "geo cache write failed", "location", name, "error", err)
		}
	}
	return res, nil
}

func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	var out []string
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
