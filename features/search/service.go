package search

import (
	"context"
	"strings"
	"time"

	"talentmatch/apps/backend/internal/filter"
	"talentmatch/apps/backend/internal/geo"
)

type Service struct {
	embedder Embedder
	store    VectorStore
	geo      GeoResolver
	logger   *QueryLogger

	minScore    float64
	searchLimit int
	defaultSize int
}

func NewService(e Embedder, vs VectorStore, gr GeoResolver, logger *QueryLogger, minScore float64, searchLimit, defaultPageSize int) *Service {
	if minScore <= 0 {
		minScore = 0.75
	}
	if searchLimit <= 0 {
		searchLimit = 200
	}
	if defaultPageSize <= 0 {
		defaultPageSize = 10
	}
	return &Service{
		embedder:    e,
		store:       vs,
		geo:         gr,
		logger:      logger,
		minScore:    minScore,
		searchLimit: searchLimit,
		defaultSize: defaultPageSize,
	}
}

// Search runs the full query path: embed the resume, filter + rank against
// the index, exclude avoided regions, boost preferred ones, paginate.
func (s *Service) Search(ctx context.Context, q CandidateQuery) (*Page, error) {
	start := time.Now()

	page := q.Page
	if page <= 0 {
		page = 1
	}
	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = s.defaultSize
	}

	// A query without a resume cannot be matched semantically; it yields an
	// empty result set rather than an error.
	if strings.TrimSpace(q.Resume) == "" {
		return &Page{Jobs: []JobSummary{}, Page: page, PageSize: pageSize}, nil
	}

	vec, err := s.embedder.Embed(ctx, q.Resume)
	if err != nil {
		return nil, err
	}

	where := BuildFilter(q.WorkPreference)

	matches, err := s.store.Search(ctx, vec, where, s.searchLimit)
	if err != nil {
		return nil, err
	}

	matches = applyThreshold(matches, s.minScore)

	excl, err := s.geoExclusion(ctx, q.WorkPreference)
	if err != nil {
		return nil, err
	}
	matches = applyGeoExclusion(matches, excl)

	preferred, err := s.preferredBoxes(ctx, q.WorkPreference)
	if err != nil {
		return nil, err
	}
	matches = reorderByPreference(matches, preferred)

	total := len(matches)
	pageMatches, totalPages := paginate(matches, page, pageSize)

	result := &Page{
		Jobs:         summarize(pageMatches),
		Page:         page,
		PageSize:     pageSize,
		TotalPages:   totalPages,
		TotalResults: total,
	}

	if s.logger != nil {
		s.logger.Log(ctx, QueryLogEntry{
			ResumeChars: len(q.Resume),
			NumResults:  total,
			Duration:    time.Since(start),
		})
	}
	return result, nil
}

func (s *Service) geoExclusion(ctx context.Context, pref *WorkPreference) (*filter.GeoExclusion, error) {
	if pref == nil || len(pref.LocationsToAvoid) == 0 {
		return nil, nil
	}
	boxes, err := s.geo.ResolveBoxes(ctx, pref.LocationsToAvoid)
	if err != nil {
		return nil, err
	}
	if len(boxes) == 0 {
		return nil, nil
	}
	return &filter.GeoExclusion{Boxes: boxes}, nil
}

func (s *Service) preferredBoxes(ctx context.Context, pref *WorkPreference) ([]geo.BoundingBox, error) {
	if pref == nil || len(pref.PreferredLocations) == 0 {
		return nil, nil
	}
	return s.geo.ResolveBoxes(ctx, pref.PreferredLocations)
}

func summarize(matches []Match) []JobSummary {
	summaries := make([]JobSummary, 0, len(matches))
	for _, m := range matches {
		summaries = append(summaries, JobSummary{
			JobID:     m.ID,
			JobTitle:  m.Job.Name,
			Location:  strings.Join(m.Job.Locations, ", "),
			Workplace: m.Job.Workplace,
			JobTypes:  m.Job.JobTypes,
		})
	}
	return summaries
}
