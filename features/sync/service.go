// Package sync implements the ingestion path: raw feed postings are
// normalized into canonical records and upserted into the vector index, with
// re-embedding only when a description actually changed.
package sync

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"strings"
	gosync "sync"
	"time"

	"talentmatch/apps/backend/features/job"
	"talentmatch/apps/backend/internal/geo"
	"talentmatch/apps/backend/internal/normalize"
	"talentmatch/apps/backend/internal/vocab"
)

// ErrEmptyBatch is returned when a checkpoint is requested for a batch with
// no postings; the cursor must not advance.
var ErrEmptyBatch = errors.New("empty posting batch")

// ExistingRecord is the slice of a stored posting needed for the re-embed
// decision.
type ExistingRecord struct {
	Description string
	Vector      []float32
}

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// VectorStore is the index surface the synchronizer writes through.
type VectorStore interface {
	// FetchExisting returns nil when no record is stored under id.
	FetchExisting(ctx context.Context, id string) (*ExistingRecord, error)
	Upsert(ctx context.Context, p *job.Posting, vector []float32) error
}

type GeoResolver interface {
	ResolvePoints(ctx context.Context, names []string) (map[string]geo.Point, error)
}

// RateSource serves currency→USD multipliers. It never fails; outages
// degrade to cached values.
type RateSource interface {
	Rate(ctx context.Context, from, to string) float64
}

type VocabSource interface {
	Get(ctx context.Context) (*vocab.Vocabulary, error)
}

const lockStripes = 64

type Service struct {
	embedder Embedder
	store    VectorStore
	geo      GeoResolver
	rates    RateSource
	vocab    VocabSource

	// locks serializes the compare-then-embed-then-write sequence per id,
	// so concurrent syncs of the same posting don't both recompute the
	// vector. Cross-id contention is bounded by striping.
	locks [lockStripes]gosync.Mutex
}

func NewService(e Embedder, vs VectorStore, gr GeoResolver, rs RateSource, vc VocabSource) *Service {
	return &Service{embedder: e, store: vs, geo: gr, rates: rs, vocab: vc}
}

// SyncBatch upserts every posting in the batch and returns the checkpoint
// cursor (max updatedAt). Normalization problems degrade per record;
// index or embedding failures abort the batch so the caller retries it
// without advancing the checkpoint.
func (s *Service) SyncBatch(ctx context.Context, batch []job.RawPosting) (time.Time, error) {
	cursor, err := Checkpoint(batch)
	if err != nil {
		return time.Time{}, err
	}

	for i := range batch {
		if err := s.syncOne(ctx, &batch[i]); err != nil {
			return time.Time{}, fmt.Errorf("sync posting %s: %w", batch[i].SourceID, err)
		}
	}
	return cursor, nil
}

func (s *Service) syncOne(ctx context.Context, raw *job.RawPosting) error {
	v, err := s.vocab.Get(ctx)
	if err != nil {
		return err
	}

	id := job.DeriveID(raw.SourceID)

	locations := normalize.EnabledLocations(raw.Locations, v.EnabledFlag)
	points, err := s.geo.ResolvePoints(ctx, locations)
	if err != nil {
		return err
	}

	geoPoints := make([]job.GeoPoint, 0, len(locations))
	for _, loc := range locations {
		if p, ok := points[loc]; ok {
			geoPoints = append(geoPoints, job.GeoPoint{Location: loc, Lat: p.Lat, Lon: p.Lon})
		}
	}

	rate := func(code string) float64 { return s.rates.Rate(ctx, code, "USD") }

	// Tags are stored lowercase: the index filters jobTypes with field
	// tokenization, so stored values must match the tag vocabulary exactly.
	jobTypes := normalize.EnabledTypes(raw.JobTypes, v.EnabledFlag)
	for i := range jobTypes {
		jobTypes[i] = strings.ToLower(jobTypes[i])
	}

	posting := &job.Posting{
		ID:          id,
		SourceID:    raw.SourceID,
		Status:      strings.ToLower(raw.Status),
		Name:        raw.Name,
		JobTypes:    jobTypes,
		Locations:   locations,
		GeoPoints:   geoPoints,
		Salary:      normalize.Salary(raw.Salary, raw.JobTypes, rate, v),
		Description: raw.Description,
		Workplace:   strings.ToLower(strings.TrimSpace(raw.Workplace)),
		UpdatedAt:   raw.UpdatedAt,
	}
	if raw.NoticePeriod != nil {
		posting.NoticePeriod = normalize.NoticePeriod(raw.NoticePeriod.Data, v)
	}

	lock := &s.locks[stripe(id)]
	lock.Lock()
	defer lock.Unlock()

	existing, err := s.store.FetchExisting(ctx, id)
	if err != nil {
		return fmt.Errorf("fetch existing: %w", err)
	}

	var vector []float32
	if existing != nil && existing.Description == raw.Description && len(existing.Vector) > 0 {
		// Description unchanged: reuse the stored vector verbatim.
		vector = existing.Vector
	} else {
		vector, err = s.embedder.Embed(ctx, raw.Description)
		if err != nil {
			return fmt.Errorf("embed description: %w", err)
		}
		slog.InfoContext(ctx, "recomputed embedding", "job_id", id, "new", existing == nil)
	}

	if err := s.store.Upsert(ctx, posting, vector); err != nil {
		return fmt.Errorf("upsert: %w", err)
	}
	return nil
}

// Checkpoint returns the incremental-fetch cursor for a batch: the maximum
// updatedAt across its postings.
func Checkpoint(batch []job.RawPosting) (time.Time, error) {
	if len(batch) == 0 {
		return time.Time{}, ErrEmptyBatch
	}

	cursor := batch[0].UpdatedAt
	for _, p := range batch[1:] {
		if p.UpdatedAt.After(cursor) {
			cursor = p.UpdatedAt
		}
	}
	return cursor, nil
}

func stripe(id string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return int(h.Sum32() % lockStripes)
}
