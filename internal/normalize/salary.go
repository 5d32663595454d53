// Package normalize converts raw feed fields into canonical typed values.
// All functions fail soft: malformed input degrades to a safe default and
// never aborts the caller's batch.
package normalize

import (
	"fmt"
	"strconv"
	"strings"

	"talentmatch/apps/backend/features/job"
	"talentmatch/apps/backend/internal/vocab"
)

// RateFunc returns the multiplier converting one unit of the given ISO
// currency code into USD. Implementations never fail; they fall back to a
// cached value or 1.0.
type RateFunc func(code string) float64

// Salary converts a raw salary to canonical monthly USD. Hourly pay assumes
// full-time hours unless the posting is tagged part-time only. Unparseable
// amounts or an unknown duration label fail closed: the original salary is
// passed through unconverted with Normalized=false.
func Salary(sal *job.RawSalary, types []job.TypeFlag, rate RateFunc, v *vocab.Vocabulary) job.MonthlySalary {
	if sal == nil {
		return job.MonthlySalary{}
	}

	passthrough := job.MonthlySalary{
		Min:      sal.Min,
		Max:      sal.Max,
		Duration: sal.Duration,
		Currency: currencyOrDefault(sal.Currency),
	}

	minAmount, okMin := parseAmount(sal.Min)
	maxAmount, okMax := parseAmount(sal.Max)
	if !okMin || !okMax {
		return passthrough
	}

	multiplier, ok := monthlyMultiplier(sal.Duration, types, v)
	if !ok {
		return passthrough
	}

	r := 1.0
	symbol := currencyOrDefault(sal.Currency)
	if code, known := v.CurrencyCodes[symbol]; known && code != "USD" {
		r = rate(code)
	} else if !known && symbol != "$" {
		// Unknown symbol: no rate table entry, keep the amount as-is.
		r = 1.0
	}

	minMonthly := minAmount * multiplier * r
	maxMonthly := maxAmount * multiplier * r

	return job.MonthlySalary{
		Min:        fmt.Sprintf("%.2f", minMonthly),
		Max:        fmt.Sprintf("%.2f", maxMonthly),
		Duration:   "Per month",
		Currency:   "$",
		MinUSD:     minMonthly,
		MaxUSD:     maxMonthly,
		Normalized: true,
	}
}

// parseAmount treats empty as zero (the feed omits one bound regularly) and
// anything non-numeric as a parse failure.
func parseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func monthlyMultiplier(duration string, types []job.TypeFlag, v *vocab.Vocabulary) (float64, bool) {
	d := strings.ToLower(strings.TrimSpace(duration))
	if d == "" {
		return 0, false
	}

	if strings.Contains(d, v.HourlyLabel) {
		switch {
		case hasType(types, "full-time"):
			return v.HourlyFullTime, true
		case hasType(types, "part-time"):
			return v.HourlyPartTime, true
		default:
			return v.HourlyFullTime, true
		}
	}

	if strings.Contains(d, v.MonthlyLabel) {
		return 1, true
	}

	for label, m := range v.DurationMultipliers {
		if strings.Contains(d, label) {
			return m, true
		}
	}
	return 0, false
}

func hasType(types []job.TypeFlag, want string) bool {
	for _, t := range types {
		if strings.EqualFold(t.Type, want) {
			return true
		}
	}
	return false
}

func currencyOrDefault(symbol string) string {
	if strings.TrimSpace(symbol) == "" {
		return "$"
	}
	return symbol
}
