package domain

import "strings"

// FilterAll is the sentinel that disables a status or type facet.
const FilterAll = "all"

// FilterGrievances narrows records by a free-text query and status/type
// facets. The query is trimmed, lowercased, and substring-matched against the
// id, name, location, and description; an empty query matches every record.
// Each facet is either FilterAll or an exact match, and all three constraints
// must hold. The input slice is never mutated and its order is preserved.
func FilterGrievances(records []Grievance, query, statusFilter, typeFilter string) []Grievance {
	q := strings.ToLower(strings.TrimSpace(query))

	out := make([]Grievance, 0, len(records))
	for _, g := range records {
		if !matchesQuery(g, q) {
			continue
		}
		if statusFilter != FilterAll && string(g.Status) != statusFilter {
			continue
		}
		if typeFilter != FilterAll && string(g.Type) != typeFilter {
			continue
		}
		out = append(out, g)
	}
	return out
}

func matchesQuery(g Grievance, q string) bool {
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(g.ID), q) ||
		strings.Contains(strings.ToLower(g.Name), q) ||
		strings.Contains(strings.ToLower(g.Location), q) ||
		strings.Contains(strings.ToLower(g.Description), q)
}
