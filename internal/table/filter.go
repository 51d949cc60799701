package table

import "strings"

// FilterOutcome reports whether a date filter was actually applied, and on
// which column, so callers and tests can assert on degradation paths
// instead of inferring them from logs.
type FilterOutcome struct {
	Applied bool
	Column  string
	Reason  string // populated when the filter was skipped
}

// FilterByDate returns the subset of rows whose date value lies within
// [start, end] inclusive. The filter column is the first date candidate
// present in the table, preferring derived "_ts" columns over raw ones.
//
// Bounds are parsed independently; an unparseable bound is ignored rather
// than treated as an error. Rows with a missing or unparseable date are
// excluded once at least one bound parses. When no candidate column exists
// or neither bound parses, the input table is returned unchanged.
func FilterByDate(t *Table, start, end string) (*Table, FilterOutcome) {
	name := filterColumn(t)
	if name == "" {
		return t, FilterOutcome{Reason: "no date column"}
	}

	startTS, hasStart := parseTime(strings.TrimSpace(start))
	endTS, hasEnd := parseTime(strings.TrimSpace(end))
	if !hasStart && !hasEnd {
		return t, FilterOutcome{Column: name, Reason: "no parseable bounds"}
	}

	col, _ := t.Column(name)
	idx := make([]int, 0, col.Len())
	for i := 0; i < col.Len(); i++ {
		ts, ok := col.Time(i)
		if !ok {
			continue
		}
		if hasStart && ts.Before(startTS) {
			continue
		}
		if hasEnd && ts.After(endTS) {
			continue
		}
		idx = append(idx, i)
	}

	return t.Select(idx), FilterOutcome{Applied: true, Column: name}
}

// filterColumn picks the filter column: every derived "_ts" candidate in
// priority order first, then the raw candidates.
func filterColumn(t *Table) string {
	for _, c := range dateCandidates {
		if t.HasColumn(c + "_ts") {
			return c + "_ts"
		}
	}
	for _, c := range dateCandidates {
		if t.HasColumn(c) {
			return c
		}
	}
	return ""
}
