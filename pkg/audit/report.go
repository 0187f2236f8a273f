package audit

import (
	"fmt"
	"slices"
	"strings"
)

// Report summarizes a violation list for display.
type Report struct {
	Valid      bool         `json:"valid"`
	Total      int          `json:"total"`
	Counts     map[Kind]int `json:"counts"`
	Offenders  []int        `json:"offenders"`
	Summary    string       `json:"summary"`
	Violations []Violation  `json:"-"`
}

// Summarize builds a report from violations. Offenders lists the ids of
// every building referenced by at least one violation, sorted ascending.
func Summarize(violations []Violation) Report {
	r := Report{
		Valid:      len(violations) == 0,
		Total:      len(violations),
		Counts:     make(map[Kind]int, len(Kinds)),
		Violations: violations,
	}
	seen := make(map[int]bool)
	for _, v := range violations {
		r.Counts[v.Kind()]++
		for _, id := range v.BuildingIDs() {
			if !seen[id] {
				seen[id] = true
				r.Offenders = append(r.Offenders, id)
			}
		}
	}
	slices.Sort(r.Offenders)
	r.Summary = r.summary()
	return r
}

// Offends reports whether the building with id appears in any violation.
func (r Report) Offends(id int) bool {
	_, found := slices.BinarySearch(r.Offenders, id)
	return found
}

func (r Report) summary() string {
	if r.Valid {
		return "valid"
	}
	parts := make([]string, 0, len(Kinds))
	for _, k := range Kinds {
		if n := r.Counts[k]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, k))
		}
	}
	return fmt.Sprintf("%d violations: %s", r.Total, strings.Join(parts, ", "))
}
