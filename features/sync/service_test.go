package sync

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentmatch/apps/backend/features/job"
	"talentmatch/apps/backend/internal/geo"
	"talentmatch/apps/backend/internal/vocab"
)

type mockEmbedder struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

type mockStore struct {
	mu        sync.Mutex
	records   map[string]*ExistingRecord
	upserts   []*job.Posting
	upsertErr error
}

func newMockStore() *mockStore {
	return &mockStore{records: make(map[string]*ExistingRecord)}
}

func (m *mockStore) FetchExisting(ctx context.Context, id string) (*ExistingRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.records[id], nil
}

func (m *mockStore) Upsert(ctx context.Context, p *job.Posting, vector []float32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserts = append(m.upserts, p)
	m.records[p.ID] = &ExistingRecord{Description: p.Description, Vector: vector}
	return nil
}

type mockGeo struct {
	points map[string]geo.Point
}

func (m *mockGeo) ResolvePoints(ctx context.Context, names []string) (map[string]geo.Point, error) {
	out := make(map[string]geo.Point)
	for _, n := range names {
		if p, ok := m.points[n]; ok {
			out[n] = p
		}
	}
	return out, nil
}

type identityRates struct{}

func (identityRates) Rate(ctx context.Context, from, to string) float64 { return 1.0 }

type defaultVocab struct{}

func (defaultVocab) Get(ctx context.Context) (*vocab.Vocabulary, error) {
	return vocab.Defaults(), nil
}

func rawPosting(sourceID, description string, updatedAt time.Time) job.RawPosting {
	return job.RawPosting{
		SourceID:  sourceID,
		Status:    "Active",
		Name:      "Backend Engineer",
		JobTypes:  []job.TypeFlag{{Type: "Full-Time", Status: "true"}},
		Locations: []job.LocationFlag{{Name: "Austin", Status: "true"}},
		Salary:    &job.RawSalary{Min: "100", Max: "150", Duration: "Per Day", Currency: "$"},
		NoticePeriod: &job.RawNotice{Data: "2 to 4 weeks"},
		Description:  description,
		Workplace:    "Remote",
		UpdatedAt:    updatedAt,
	}
}

func newTestService(e *mockEmbedder, store *mockStore) *Service {
	g := &mockGeo{points: map[string]geo.Point{"Austin": {Lat: 30.27, Lon: -97.74}}}
	return NewService(e, store, g, identityRates{}, defaultVocab{})
}

func TestSyncBatch_NewPosting(t *testing.T) {
	embedder := &mockEmbedder{}
	store := newMockStore()
	s := newTestService(embedder, store)

	updated := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	cursor, err := s.SyncBatch(context.Background(), []job.RawPosting{
		rawPosting("src-1", "build APIs", updated),
	})
	require.NoError(t, err)

	assert.Equal(t, updated, cursor)
	assert.Equal(t, 1, embedder.calls)
	require.Len(t, store.upserts, 1)

	p := store.upserts[0]
	assert.Equal(t, job.DeriveID("src-1"), p.ID)
	assert.Equal(t, "active", p.Status)
	assert.Equal(t, []string{"full-time"}, p.JobTypes, "tags are stored lowercase for field-tokenized filtering")
	assert.Equal(t, []string{"Austin"}, p.Locations)
	require.Len(t, p.GeoPoints, 1)
	assert.Equal(t, "Austin", p.GeoPoints[0].Location)
	assert.Equal(t, "remote", p.Workplace)
	assert.True(t, p.Salary.Normalized)
	assert.Equal(t, "3000.00", p.Salary.Min)
	require.NotNil(t, p.NoticePeriod)
	assert.Equal(t, 2.0, p.NoticePeriod.MinWeeks)
}

func TestSyncBatch_UnchangedDescriptionSkipsEmbed(t *testing.T) {
	embedder := &mockEmbedder{}
	store := newMockStore()
	s := newTestService(embedder, store)

	batch := []job.RawPosting{rawPosting("src-1", "build APIs", time.Now())}

	_, err := s.SyncBatch(context.Background(), batch)
	require.NoError(t, err)
	_, err = s.SyncBatch(context.Background(), batch)
	require.NoError(t, err)

	assert.Equal(t, 1, embedder.calls, "second sync reuses the stored vector")
	assert.Len(t, store.upserts, 2, "metadata is still refreshed")
}

func TestSyncBatch_ChangedDescriptionReembeds(t *testing.T) {
	embedder := &mockEmbedder{}
	store := newMockStore()
	s := newTestService(embedder, store)

	_, err := s.SyncBatch(context.Background(), []job.RawPosting{
		rawPosting("src-1", "build APIs", time.Now()),
	})
	require.NoError(t, err)

	_, err = s.SyncBatch(context.Background(), []job.RawPosting{
		rawPosting("src-1", "build APIs and own deployments", time.Now()),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, embedder.calls)
}

func TestSyncBatch_EmptyBatch(t *testing.T) {
	s := newTestService(&mockEmbedder{}, newMockStore())

	_, err := s.SyncBatch(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyBatch)
}

func TestSyncBatch_EmbedErrorAborts(t *testing.T) {
	embedder := &mockEmbedder{err: errors.New("embedding api down")}
	store := newMockStore()
	s := newTestService(embedder, store)

	_, err := s.SyncBatch(context.Background(), []job.RawPosting{
		rawPosting("src-1", "build APIs", time.Now()),
	})
	require.Error(t, err)
	assert.Empty(t, store.upserts)
}

func TestSyncBatch_UpsertErrorAborts(t *testing.T) {
	store := newMockStore()
	store.upsertErr = errors.New("index down")
	s := newTestService(&mockEmbedder{}, store)

	_, err := s.SyncBatch(context.Background(), []job.RawPosting{
		rawPosting("src-1", "build APIs", time.Now()),
	})
	assert.Error(t, err)
}

func TestSyncBatch_UnspecifiedNotice(t *testing.T) {
	store := newMockStore()
	s := newTestService(&mockEmbedder{}, store)

	raw := rawPosting("src-1", "build APIs", time.Now())
	raw.NoticePeriod = nil

	_, err := s.SyncBatch(context.Background(), []job.RawPosting{raw})
	require.NoError(t, err)
	require.Len(t, store.upserts, 1)
	assert.Nil(t, store.upserts[0].NoticePeriod)
}

func TestCheckpoint_MaxUpdatedAt(t *testing.T) {
	early := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)

	cursor, err := Checkpoint([]job.RawPosting{
		{SourceID: "a", UpdatedAt: early},
		{SourceID: "b", UpdatedAt: late},
		{SourceID: "c", UpdatedAt: early},
	})
	require.NoError(t, err)
	assert.Equal(t, late, cursor)
}

func TestCheckpoint_Empty(t *testing.T) {
	_, err := Checkpoint(nil)
	assert.ErrorIs(t, err, ErrEmptyBatch)
}
