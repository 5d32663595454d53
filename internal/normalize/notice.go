package normalize

import (
	"strings"

	"talentmatch/apps/backend/features/job"
	"talentmatch/apps/backend/internal/vocab"
)

// NoticePeriod maps a fixed-vocabulary label to weeks. Unknown labels
// return nil: callers must treat absence as "unspecified", which is not the
// same thing as immediate.
func NoticePeriod(label string, v *vocab.Vocabulary) *job.NoticeWeeks {
	key := strings.ToLower(strings.TrimSpace(label))
	r, ok := v.NoticePeriods[key]
	if !ok {
		return nil
	}

	nw := &job.NoticeWeeks{MinWeeks: r.MinWeeks}
	if r.MaxWeeks != nil {
		max := *r.MaxWeeks
		nw.MaxWeeks = &max
	}
	return nw
}
