package table

// coerce.go defines the normalization rules applied to every loaded CSV.
//
// The rule set is deliberately data-driven: columns are matched by name
// against fixed tables, so adding a new recognized column is a one-line
// change and each rule is testable in isolation. Cell-level coercion
// failures always resolve to a missing value, never an error.

import (
	"strconv"
	"strings"
	"time"
)

// dateCandidates lists the recognized date columns in priority order.
// Order matters: both derived-column creation and filter-column selection
// scan this list front to back.
var dateCandidates = []string{
	"load_date",
	"dispatch_date",
	"purchase_date",
	"incident_date",
	"month",
	"scheduled_datetime",
	"actual_datetime",
	"event_date",
	"created_at",
	"updated_at",
}

// DateCandidates returns the recognized date column names in priority order.
func DateCandidates() []string {
	out := make([]string, len(dateCandidates))
	copy(out, dateCandidates)
	return out
}

// coercion is a per-column normalization rule.
type coercion int

const (
	coerceBool coercion = iota + 1
	coerceNumeric
)

// columnCoercions maps well-known column names to their rule.
// Date candidates are handled separately because they produce a derived
// column instead of rewriting the source column.
var columnCoercions = map[string]coercion{
	"on_time_flag":      coerceBool,
	"detention_minutes": coerceNumeric,
	"gallons":           coerceNumeric,
	"price_per_gallon":  coerceNumeric,
	"total_cost":        coerceNumeric,
	"total_miles":       coerceNumeric,
	"average_mpg":       coerceNumeric,
	"labor_cost":        coerceNumeric,
	"parts_cost":        coerceNumeric,
	"downtime_hours":    coerceNumeric,
}

// Recognized boolean token spellings. Matching is exact: anything outside
// these sets passes through verbatim.
var (
	boolTrueTokens = map[string]struct{}{
		"true": {}, "True": {}, "TRUE": {}, "1": {}, "yes": {}, "Yes": {}, "Y": {},
	}
	boolFalseTokens = map[string]struct{}{
		"false": {}, "False": {}, "FALSE": {}, "0": {}, "no": {}, "No": {}, "N": {},
	}
)

// normalizeBool maps recognized true/false spellings to canonical
// "true"/"false" strings. Unrecognized tokens are returned unchanged.
func normalizeBool(s string) string {
	if _, ok := boolTrueTokens[s]; ok {
		return "true"
	}
	if _, ok := boolFalseTokens[s]; ok {
		return "false"
	}
	return s
}

// parseNumber parses a cell as a float after stripping currency symbols
// and thousands separators. Returns false when the cell does not parse.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// timeLayouts are tried in order by parseTime. ISO forms first, then the
// slash-separated US forms that show up in hand-edited CSVs, then the
// year-month form used by the "month" column.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"2006-01",
}

// parseTime parses a date or datetime string against the known layouts.
func parseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// applyCoercions rewrites the table's columns according to the rule tables:
// boolean token normalization in place, numeric conversion with unparseable
// cells becoming missing, and a derived "<name>_ts" timestamp column for
// each date candidate that has at least one parseable value.
func applyCoercions(t *Table) {
	for _, c := range t.Columns {
		switch columnCoercions[c.Name] {
		case coerceBool:
			for i, v := range c.Strs {
				if c.Valid[i] {
					c.Strs[i] = normalizeBool(v)
				}
			}
		case coerceNumeric:
			nums := make([]float64, c.Len())
			valid := make([]bool, c.Len())
			for i, v := range c.Strs {
				if !c.Valid[i] {
					continue
				}
				nums[i], valid[i] = parseNumber(v)
			}
			c.Type = TypeNumeric
			c.Nums = nums
			c.Strs = nil
			c.Valid = valid
		}
	}

	for _, name := range dateCandidates {
		src, ok := t.Column(name)
		if !ok || src.Type != TypeString {
			continue
		}
		times := make([]time.Time, src.Len())
		valid := make([]bool, src.Len())
		parsed := 0
		for i, v := range src.Strs {
			if !src.Valid[i] {
				continue
			}
			if ts, ok := parseTime(v); ok {
				times[i] = ts
				valid[i] = true
				parsed++
			}
		}
		// Keep the raw column unparsed unless something actually parsed.
		if parsed == 0 {
			continue
		}
		t.Columns = append(t.Columns, &Column{
			Name:  name + "_ts",
			Type:  TypeTimestamp,
			Times: times,
			Valid: valid,
		})
	}
}
