package combat

import "sort"

// Entrant pairs a participant ID with its initiative stat for ordering.
type Entrant struct {
	ID         string
	Initiative int
}

// Order returns participant IDs in descending initiative order.
// Ties break by participant ID ascending so round outcomes are
// reproducible regardless of arrival order.
//
// Postcondition: Returns a new slice; the input is not modified. The same
// input always yields the same output.
func Order(entrants []Entrant) []string {
	sorted := make([]Entrant, len(entrants))
	copy(sorted, entrants)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Initiative != sorted[j].Initiative {
			return sorted[i].Initiative > sorted[j].Initiative
		}
		return sorted[i].ID < sorted[j].ID
	})

	ids := make([]string, len(sorted))
	for i, e := range sorted {
		ids[i] = e.ID
	}
	return ids
}
