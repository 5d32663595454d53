package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentmatch/apps/backend/internal/filter"
)

func floatPtr(f float64) *float64 { return &f }

func findByPath(c *filter.Clause, path string) *filter.Clause {
	for _, op := range c.Operands {
		if len(op.Path) == 1 && op.Path[0] == path {
			return op
		}
	}
	return nil
}

func TestBuildFilter_NilPreference(t *testing.T) {
	c := BuildFilter(nil)

	require.Equal(t, filter.OpAnd, c.Operator)
	require.Len(t, c.Operands, 1)
	assert.Equal(t, []string{"status"}, c.Operands[0].Path)
	assert.Equal(t, "active", c.Operands[0].Value)
}

func TestBuildFilter_Salary(t *testing.T) {
	c := BuildFilter(&WorkPreference{MonthlySalaryAmount: floatPtr(5000)})

	salary := findByPath(c, "salaryMinUSD")
	require.NotNil(t, salary)
	assert.Equal(t, filter.OpLTE, salary.Operator)
	assert.Equal(t, 5000.0, salary.Value)

	normalized := findByPath(c, "salaryNormalized")
	require.NotNil(t, normalized, "unnormalized salaries must not pass the floor check")
	assert.Equal(t, filter.OpEqual, normalized.Operator)
	assert.Equal(t, true, normalized.Value)
}

func TestBuildFilter_NoSalaryNoNormalizedGate(t *testing.T) {
	c := BuildFilter(&WorkPreference{WorkAvailability: "full-time"})

	assert.Nil(t, findByPath(c, "salaryNormalized"),
		"without a salary target, unnormalized records still qualify")
}

func TestBuildFilter_NoticePeriod(t *testing.T) {
	c := BuildFilter(&WorkPreference{NoticePeriodWeeks: floatPtr(3)})

	var or *filter.Clause
	for _, op := range c.Operands {
		if op.Operator == filter.OpOr {
			or = op
		}
	}
	require.NotNil(t, or)
	require.Len(t, or.Operands, 2)

	gte := or.Operands[0]
	assert.Equal(t, []string{"noticeMaxWeeks"}, gte.Path)
	assert.Equal(t, filter.OpGTE, gte.Operator)
	assert.Equal(t, 3.0, gte.Value)

	open := or.Operands[1]
	assert.Equal(t, []string{"noticeOpenEnded"}, open.Path)
	assert.Equal(t, true, open.Value, "open-ended notice always qualifies")
}

func TestBuildFilter_Availability(t *testing.T) {
	c := BuildFilter(&WorkPreference{WorkAvailability: "Full-Time"})

	types := findByPath(c, "jobTypes")
	require.NotNil(t, types)
	assert.Equal(t, filter.OpContainsAny, types.Operator)
	assert.Equal(t, []string{"full-time", "regular/permanent", "internship", "contract/temporary"}, types.Value)
}

func TestBuildFilter_PartTimeAndFlexible(t *testing.T) {
	pt := findByPath(BuildFilter(&WorkPreference{WorkAvailability: "part-time"}), "jobTypes")
	require.NotNil(t, pt)
	assert.Equal(t, []string{"part-time"}, pt.Value)

	flex := findByPath(BuildFilter(&WorkPreference{WorkAvailability: "flexible"}), "jobTypes")
	require.NotNil(t, flex)
	assert.Equal(t, []string{"volunteer", "other"}, flex.Value)
}

func TestBuildFilter_UnknownAvailabilityIgnored(t *testing.T) {
	c := BuildFilter(&WorkPreference{WorkAvailability: "weekends-only"})
	assert.Nil(t, findByPath(c, "jobTypes"))
}

func TestBuildFilter_Workplace(t *testing.T) {
	c := BuildFilter(&WorkPreference{IdealWorkSetup: "In-Office"})

	wp := findByPath(c, "workplace")
	require.NotNil(t, wp)
	assert.Equal(t, "on-site", wp.Value)

	remote := findByPath(BuildFilter(&WorkPreference{IdealWorkSetup: "remote"}), "workplace")
	require.NotNil(t, remote)
	assert.Equal(t, "remote", remote.Value)
}

func TestBuildFilter_AllPreferences(t *testing.T) {
	c := BuildFilter(&WorkPreference{
		MonthlySalaryAmount: floatPtr(4000),
		NoticePeriodWeeks:   floatPtr(2),
		WorkAvailability:    "full-time",
		IdealWorkSetup:      "hybrid",
	})

	assert.Len(t, c.Operands, 6, "status + salary gate + salary + notice + availability + workplace")
}
