// Package vocab holds the versioned normalization vocabulary: duration
// multipliers, notice-period labels, currency symbols. New labels show up in
// the upstream feed regularly, so the tables live in the database rather
// than in code.
package vocab

import (
	"context"
	"log/slog"
)

// NoticeRange is a notice-period label mapped to weeks. A nil MaxWeeks means
// the upper bound is open-ended.
type NoticeRange struct {
	MinWeeks float64  `json:"min_weeks"`
	MaxWeeks *float64 `json:"max_weeks"`
}

type Vocabulary struct {
	ID      int `json:"-"`
	Version int `json:"version"`

	// EnabledFlag is the status value marking a job-type or location entry
	// as enabled in the raw feed.
	EnabledFlag string `json:"enabled_flag"`

	// DurationMultipliers convert a salary period to per-month. Keys are
	// matched as lowercase substrings of the raw duration label. Hourly pay
	// is handled separately because the multiplier depends on job type.
	DurationMultipliers map[string]float64 `json:"duration_multipliers"`
	HourlyLabel         string             `json:"hourly_label"`
	MonthlyLabel        string             `json:"monthly_label"`
	HourlyFullTime      float64            `json:"hourly_full_time_hours"`
	HourlyPartTime      float64            `json:"hourly_part_time_hours"`

	// CurrencyCodes map a feed currency symbol to an ISO code for the rate
	// lookup. Symbols missing from the map are treated as USD.
	CurrencyCodes map[string]string `json:"currency_codes"`

	NoticePeriods map[string]NoticeRange `json:"notice_periods"`
}

func Defaults() *Vocabulary {
	openEnded := func(min float64) NoticeRange { return NoticeRange{MinWeeks: min} }
	bounded := func(min, max float64) NoticeRange { return NoticeRange{MinWeeks: min, MaxWeeks: &max} }

	return &Vocabulary{
		Version:     1,
		EnabledFlag: "true",
		DurationMultipliers: map[string]float64{
			"per day":  30,
			"per week": 4,
			"per year": 1.0 / 12,
		},
		HourlyLabel:    "per hour",
		MonthlyLabel:   "per month",
		HourlyFullTime: 160,
		HourlyPartTime: 80,
		CurrencyCodes: map[string]string{
			"$": "USD",
			"₹": "INR",
			"€": "EUR",
			"£": "GBP",
		},
		NoticePeriods: map[string]NoticeRange{
			"immediate":         bounded(0, 0),
			"3 to 7 days":       bounded(3.0/7.0, 1),
			"1 to 2 weeks":      bounded(1, 2),
			"2 to 4 weeks":      bounded(2, 4),
			"more than 4 weeks": openEnded(4),
		},
	}
}

type Repository interface {
	Get(ctx context.Context) (*Vocabulary, error)
	Update(ctx context.Context, v *Vocabulary) error
	Seed(ctx context.Context, v *Vocabulary) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get returns the stored vocabulary, falling back to compiled-in defaults
// when the store is unreachable so normalization keeps working.
func (s *Service) Get(ctx context.Context) (*Vocabulary, error) {
	v, err := s.repo.Get(ctx)
	if err != nil {
		slog.WarnContext(ctx, "vocabulary fetch failed, using defaults", "error", err)
		return Defaults(), nil
	}
	return v, nil
}

func (s *Service) Update(ctx context.Context, v *Vocabulary) error {
	return s.repo.Update(ctx, v)
}

// Seed writes the default vocabulary if none is stored yet.
func (s *Service) Seed(ctx context.Context) error {
	return s.repo.Seed(ctx, Defaults())
}
