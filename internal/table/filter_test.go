package table

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dateTable builds a table with a derived load_date_ts column the way the
// loader would: one row per value, empty string meaning unparseable.
func dateTable(t *testing.T, dates ...string) *Table {
	t.Helper()
	col := &Column{Name: "load_date", Type: TypeString,
		Strs: make([]string, len(dates)), Valid: make([]bool, len(dates))}
	for i, d := range dates {
		if d != "" {
			col.Strs[i] = d
			col.Valid[i] = true
		}
	}
	tbl := &Table{Name: "t", Columns: []*Column{col}}
	applyCoercions(tbl)
	require.True(t, tbl.HasColumn("load_date_ts"))
	return tbl
}

func TestFilterByDateRange(t *testing.T) {
	tbl := dateTable(t, "2024-01-01", "2024-01-15", "2024-02-01")

	got, outcome := FilterByDate(tbl, "2024-01-05", "2024-01-31")
	assert.True(t, outcome.Applied)
	assert.Equal(t, "load_date_ts", outcome.Column)
	require.Equal(t, 1, got.NumRows())

	ld, _ := got.Column("load_date")
	assert.Equal(t, "2024-01-15", ld.Strs[0])
}

func TestFilterByDateInclusiveBounds(t *testing.T) {
	tbl := dateTable(t, "2024-01-05", "2024-01-31")

	got, _ := FilterByDate(tbl, "2024-01-05", "2024-01-31")
	assert.Equal(t, 2, got.NumRows())
}

func TestFilterByDateSingleBound(t *testing.T) {
	tbl := dateTable(t, "2024-01-01", "2024-02-01", "2024-03-01")

	got, _ := FilterByDate(tbl, "2024-02-01", "")
	assert.Equal(t, 2, got.NumRows())

	got, _ = FilterByDate(tbl, "", "2024-02-01")
	assert.Equal(t, 2, got.NumRows())
}

func TestFilterByDateExcludesMissingWhenBounded(t *testing.T) {
	tbl := dateTable(t, "2024-01-10", "", "bad")

	got, outcome := FilterByDate(tbl, "2024-01-01", "")
	assert.True(t, outcome.Applied)
	assert.Equal(t, 1, got.NumRows())
}

func TestFilterByDateUnparseableBoundsIgnored(t *testing.T) {
	tbl := dateTable(t, "2024-01-10", "2024-02-10")

	// Neither bound parses: pass through unchanged
	got, outcome := FilterByDate(tbl, "not a date", "also bad")
	assert.False(t, outcome.Applied)
	assert.Equal(t, "no parseable bounds", outcome.Reason)
	assert.Equal(t, 2, got.NumRows())

	// One bad bound is ignored; the good one still applies
	got, outcome = FilterByDate(tbl, "not a date", "2024-01-31")
	assert.True(t, outcome.Applied)
	assert.Equal(t, 1, got.NumRows())
}

func TestFilterByDateNoCandidateColumn(t *testing.T) {
	tbl := &Table{Name: "t", Columns: []*Column{
		{Name: "vehicle", Type: TypeString, Strs: []string{"a", "b"}, Valid: []bool{true, true}},
	}}

	got, outcome := FilterByDate(tbl, "2024-01-01", "2024-12-31")
	assert.False(t, outcome.Applied)
	assert.Equal(t, "no date column", outcome.Reason)
	assert.Same(t, tbl, got)
}

func TestFilterByDatePrefersDerivedColumn(t *testing.T) {
	// dispatch_date is earlier in the candidate list than event_date, but
	// only event_date has a derived column: _ts columns win over raw ones.
	dispatch := &Column{Name: "dispatch_date", Type: TypeString,
		Strs: []string{"junk", "junk"}, Valid: []bool{true, true}}
	event := &Column{Name: "event_date", Type: TypeString,
		Strs: []string{"2024-01-10", "2024-06-10"}, Valid: []bool{true, true}}
	tbl := &Table{Name: "t", Columns: []*Column{dispatch, event}}
	applyCoercions(tbl)
	require.False(t, tbl.HasColumn("dispatch_date_ts"))
	require.True(t, tbl.HasColumn("event_date_ts"))

	got, outcome := FilterByDate(tbl, "2024-05-01", "")
	assert.Equal(t, "event_date_ts", outcome.Column)
	assert.Equal(t, 1, got.NumRows())
}

func TestFilterByDateDatetimeValues(t *testing.T) {
	tbl := dateTable(t, "2024-01-05T08:00:00", "2024-01-05T20:00:00")

	got, _ := FilterByDate(tbl, "", "2024-01-05T12:00:00")
	require.Equal(t, 1, got.NumRows())

	ts, _ := got.Column("load_date_ts")
	assert.Equal(t, time.Date(2024, 1, 5, 8, 0, 0, 0, time.UTC), ts.Times[0])
}
