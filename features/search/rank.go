package search

import (
	"talentmatch/apps/backend/internal/filter"
	"talentmatch/apps/backend/internal/geo"
)

// applyThreshold drops results scoring below minScore.
func applyThreshold(matches []Match, minScore float64) []Match {
	kept := make([]Match, 0, len(matches))
	for _, m := range matches {
		if m.Score >= minScore {
			kept = append(kept, m)
		}
	}
	return kept
}

// applyGeoExclusion keeps a posting iff at least one of its geo points lies
// outside every avoided box. Postings without resolved points are kept.
func applyGeoExclusion(matches []Match, excl *filter.GeoExclusion) []Match {
	if excl == nil || len(excl.Boxes) == 0 {
		return matches
	}

	kept := make([]Match, 0, len(matches))
	for _, m := range matches {
		if !excl.Excludes(m.Job.Points()) {
			kept = append(kept, m)
		}
	}
	return kept
}

// reorderByPreference partitions results into postings with at least one geo
// point inside a preferred box (first) and the rest (second). Relative
// similarity order within each partition is preserved; preference strictly
// outranks raw score across partitions.
func reorderByPreference(matches []Match, preferred []geo.BoundingBox) []Match {
	if len(preferred) == 0 {
		return matches
	}

	inPreferred := make([]Match, 0, len(matches))
	rest := make([]Match, 0, len(matches))
	for _, m := range matches {
		if hasPointInside(m.Job.Points(), preferred) {
			inPreferred = append(inPreferred, m)
		} else {
			rest = append(rest, m)
		}
	}
	return append(inPreferred, rest...)
}

func hasPointInside(points []geo.Point, boxes []geo.BoundingBox) bool {
	for _, p := range points {
		for _, b := range boxes {
			if b.Contains(p.Lat, p.Lon) {
				return true
			}
		}
	}
	return false
}

// paginate slices a 1-based page out of the ordered result set. An
// out-of-range page yields an empty slice; totals are unaffected.
func paginate(matches []Match, page, pageSize int) ([]Match, int) {
	total := len(matches)
	totalPages := (total + pageSize - 1) / pageSize

	start := (page - 1) * pageSize
	if start >= total {
		return []Match{}, totalPages
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return matches[start:end], totalPages
}
