// Package job holds the canonical posting record shared by the ingestion
// (write) and search (read) paths, plus the raw wire shapes of the upstream
// feed.
package job

import (
	"time"

	"github.com/google/uuid"

	"talentmatch/apps/backend/internal/geo"
)

const StatusActive = "active"

// Raw feed shapes. Job types and locations arrive with per-entry status
// flags; only enabled entries survive normalization.

type TypeFlag struct {
	Type   string `json:"type"`
	Status string `json:"status"`
}

type LocationFlag struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

type RawSalary struct {
	Min        string `json:"min"`
	Max        string `json:"max"`
	Duration   string `json:"duration"`
	Visibility string `json:"salvisibility"`
	Currency   string `json:"currency"`
}

type RawNotice struct {
	Data string `json:"data"`
}

type RawPosting struct {
	SourceID     string         `json:"_id"`
	Status       string         `json:"status"`
	JobTypes     []TypeFlag     `json:"job_type"`
	Locations    []LocationFlag `json:"location"`
	Salary       *RawSalary     `json:"salary"`
	Name         string         `json:"name"`
	NoticePeriod *RawNotice     `json:"notice_period"`
	Description  string         `json:"job_description"`
	Workplace    string         `json:"workplace"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// MonthlySalary is the canonical compensation record: min/max per month,
// formatted with two decimals like the source system displays them. MinUSD
// and MaxUSD carry the numeric amounts used for range filtering; they are
// only trustworthy when Normalized is true (conversion succeeded).
type MonthlySalary struct {
	Min        string  `json:"min"`
	Max        string  `json:"max"`
	Duration   string  `json:"duration"`
	Currency   string  `json:"currency"`
	MinUSD     float64 `json:"-"`
	MaxUSD     float64 `json:"-"`
	Normalized bool    `json:"-"`
}

// NoticeWeeks maps a notice-period label to weeks. A nil MaxWeeks means the
// period is open-ended upward. A nil *NoticeWeeks on the posting means the
// notice period is unspecified, which is distinct from immediate.
type NoticeWeeks struct {
	MinWeeks float64  `json:"min_weeks"`
	MaxWeeks *float64 `json:"max_weeks"`
}

type GeoPoint struct {
	Location string  `json:"loc"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
}

// Posting is the canonical record stored in the vector index.
type Posting struct {
	ID           string
	SourceID     string
	Status       string
	Name         string
	JobTypes     []string
	Locations    []string
	GeoPoints    []GeoPoint
	Salary       MonthlySalary
	NoticePeriod *NoticeWeeks
	Description  string
	Workplace    string
	UpdatedAt    time.Time
}

// Points returns the posting's geo points as bare coordinates.
func (p *Posting) Points() []geo.Point {
	pts := make([]geo.Point, 0, len(p.GeoPoints))
	for _, gp := range p.GeoPoints {
		pts = append(pts, geo.Point{Lat: gp.Lat, Lon: gp.Lon})
	}
	return pts
}

// idNamespace salts the source-id to UUID mapping. Changing it orphans every
// record in the index, so it never changes.
var idNamespace = uuid.MustParse("8b5f1f0e-6c3a-4b9d-9f22-5a7e0d3c1b8a")

// DeriveID maps a source system identifier to a stable index UUID. The
// mapping is deterministic: re-ingesting the same source record always
// yields the same id.
func DeriveID(sourceID string) string {
	return uuid.NewSHA1(idNamespace, []byte(sourceID)).String()
}
