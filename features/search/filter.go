package search

import (
	"strings"

	"talentmatch/apps/backend/features/job"
	"talentmatch/apps/backend/internal/filter"
)

// availabilityTags maps a candidate's availability preference onto the
// job-type tags that satisfy it.
var availabilityTags = map[string][]string{
	"full-time": {"full-time", "regular/permanent", "internship", "contract/temporary"},
	"part-time": {"part-time"},
	"flexible":  {"volunteer", "other"},
}

// workplaceBySetup maps the candidate's ideal setup onto the posting's
// workplace value.
var workplaceBySetup = map[string]string{
	"in-office": "on-site",
	"remote":    "remote",
	"hybrid":    "hybrid",
}

// BuildFilter translates work preferences into the hard-constraint
// predicate tree. Every clause must hold for a posting to qualify.
func BuildFilter(pref *WorkPreference) *filter.Clause {
	clauses := []*filter.Clause{
		filter.Equal("status", job.StatusActive),
	}

	if pref == nil {
		return filter.And(clauses...)
	}

	if pref.MonthlySalaryAmount != nil {
		// The job's floor must be within the candidate's target. Records
		// whose salary could not be normalized carry no comparable floor
		// and never satisfy a salary constraint.
		clauses = append(clauses,
			filter.Equal("salaryNormalized", true),
			filter.LTE("salaryMinUSD", *pref.MonthlySalaryAmount),
		)
	}

	if pref.NoticePeriodWeeks != nil {
		// The job must tolerate a notice at least this long; an open-ended
		// ceiling always qualifies.
		clauses = append(clauses, filter.Or(
			filter.GTE("noticeMaxWeeks", *pref.NoticePeriodWeeks),
			filter.Equal("noticeOpenEnded", true),
		))
	}

	if tags, ok := availabilityTags[strings.ToLower(strings.TrimSpace(pref.WorkAvailability))]; ok {
		clauses = append(clauses, filter.ContainsAny("jobTypes", tags...))
	}

	if workplace, ok := workplaceBySetup[strings.ToLower(strings.TrimSpace(pref.IdealWorkSetup))]; ok {
		clauses = append(clauses, filter.Equal("workplace", workplace))
	}

	return filter.And(clauses...)
}
