// Package search implements the query path: a candidate's resume and work
// preferences go in, a ranked, paginated page of matching postings comes out.
package search

import (
	"context"

	"talentmatch/apps/backend/features/job"
	"talentmatch/apps/backend/internal/filter"
	"talentmatch/apps/backend/internal/geo"
)

// WorkPreference carries the candidate's hard constraints and soft
// preferences. Pointer fields distinguish "not given" from zero.
type WorkPreference struct {
	MonthlySalaryAmount *float64 `json:"monthlySalaryAmount"`
	NoticePeriodWeeks   *float64 `json:"noticePeriodWeeks"`
	WorkAvailability    string   `json:"workAvailability"`
	IdealWorkSetup      string   `json:"idealWorkSetup"`
	PreferredLocations  []string `json:"preferredLocations"`
	LocationsToAvoid    []string `json:"locationsToAvoid"`
}

type CandidateQuery struct {
	Resume         string          `json:"resume"`
	Page           int             `json:"page"`
	PageSize       int             `json:"page_size"`
	WorkPreference *WorkPreference `json:"work_preference"`
}

// Match is one index hit: similarity score plus the posting payload.
type Match struct {
	ID    string
	Score float64
	Job   job.Posting
}

type JobSummary struct {
	JobID     string   `json:"job_id"`
	JobTitle  string   `json:"job_title"`
	Location  string   `json:"location"`
	Workplace string   `json:"workplace"`
	JobTypes  []string `json:"job_type"`
}

type Page struct {
	Jobs         []JobSummary `json:"jobs"`
	Page         int          `json:"page"`
	PageSize     int          `json:"page_size"`
	TotalPages   int          `json:"total_pages"`
	TotalResults int          `json:"total_results"`
}

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// VectorStore runs filtered nearest-neighbor search against the index.
// Results come back ordered by similarity, highest first.
type VectorStore interface {
	Search(ctx context.Context, vector []float32, where *filter.Clause, limit int) ([]Match, error)
}

type GeoResolver interface {
	ResolveBoxes(ctx context.Context, names []string) ([]geo.BoundingBox, error)
}
