package normalize

import (
	"strings"

	"talentmatch/apps/backend/features/job"
)

// EnabledTypes keeps the type names whose status flag equals the enabled
// sentinel, case-insensitively, preserving source order.
func EnabledTypes(types []job.TypeFlag, flag string) []string {
	var out []string
	for _, t := range types {
		if strings.EqualFold(t.Status, flag) {
			out = append(out, t.Type)
		}
	}
	return out
}

// EnabledLocations keeps the location names whose status flag equals the
// enabled sentinel, preserving source order.
func EnabledLocations(locs []job.LocationFlag, flag string) []string {
	var out []string
	for _, l := range locs {
		if strings.EqualFold(l.Status, flag) {
			out = append(out, l.Name)
		}
	}
	return out
}
