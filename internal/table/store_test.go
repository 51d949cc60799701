package table

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func fixedClock() time.Time {
	return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
}

func TestLoadNormalization(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "delivery_events.csv",
		" trip_id ,load_date,detention_minutes,on_time_flag\n"+
			"1, 2024-01-05 ,12,Y\n"+
			"2,bad,x,N\n")

	s := NewStoreWithClock(dir, fixedClock)
	tbl, err := s.Load("delivery_events")
	require.NoError(t, err)
	require.Equal(t, 2, tbl.NumRows())

	// Header whitespace is trimmed
	assert.True(t, tbl.HasColumn("trip_id"))
	assert.False(t, tbl.HasColumn(" trip_id "))

	// Cell whitespace is trimmed
	ld, ok := tbl.Column("load_date")
	require.True(t, ok)
	assert.Equal(t, "2024-01-05", ld.Strs[0])

	// Boolean tokens normalize to canonical strings
	flag, ok := tbl.Column("on_time_flag")
	require.True(t, ok)
	assert.Equal(t, "true", flag.Strs[0])
	assert.Equal(t, "false", flag.Strs[1])

	// Numeric coercion: unparseable cells become missing, never an error
	dm, ok := tbl.Column("detention_minutes")
	require.True(t, ok)
	assert.Equal(t, TypeNumeric, dm.Type)
	assert.Equal(t, 12.0, dm.Nums[0])
	assert.True(t, dm.Valid[0])
	assert.False(t, dm.Valid[1])

	// Derived timestamp column exists because row 1 parsed; row 2 is
	// missing in the derived column only
	ts, ok := tbl.Column("load_date_ts")
	require.True(t, ok, "load_date_ts should be derived")
	assert.Equal(t, TypeTimestamp, ts.Type)
	assert.True(t, ts.Valid[0])
	assert.False(t, ts.Valid[1])
	assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), ts.Times[0])

	// Raw column keeps the unparseable original
	assert.Equal(t, "bad", ld.Strs[1])

	// Ingestion stamp column records load time, UTC ISO 8601
	ing, ok := tbl.Column(IngestColumn)
	require.True(t, ok)
	assert.Equal(t, "2024-06-01T12:00:00", ing.Strs[0])
	assert.Equal(t, "2024-06-01T12:00:00", ing.Strs[1])
}

func TestLoadEmptyCellsAreMissing(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "tbl.csv", "a,b\n1,\n,2\n")

	s := NewStoreWithClock(dir, fixedClock)
	tbl, err := s.Load("tbl")
	require.NoError(t, err)

	a, _ := tbl.Column("a")
	b, _ := tbl.Column("b")
	assert.True(t, a.Valid[0])
	assert.False(t, a.Valid[1])
	assert.False(t, b.Valid[0])
	assert.True(t, b.Valid[1])
	assert.Nil(t, b.Value(0))
}

func TestLoadNoDerivedColumnWhenNothingParses(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "tbl.csv", "load_date\nnope\nalso bad\n")

	s := NewStoreWithClock(dir, fixedClock)
	tbl, err := s.Load("tbl")
	require.NoError(t, err)
	assert.False(t, tbl.HasColumn("load_date_ts"))
	assert.True(t, tbl.HasColumn("load_date"))
}

func TestLoadCacheIdempotence(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "tbl.csv", "trip_id\n1\n2\n")

	s := NewStoreWithClock(dir, fixedClock)
	first, err := s.Load("tbl")
	require.NoError(t, err)

	// Rewrite the file; the cache must ignore it
	writeCSV(t, dir, "tbl.csv", "trip_id\n1\n2\n3\n")

	second, err := s.Load("tbl")
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, first.LoadID, second.LoadID)

	// Reload picks up the new file content
	third, err := s.Reload("tbl")
	require.NoError(t, err)
	assert.Equal(t, 3, third.NumRows())
	assert.NotEqual(t, first.LoadID, third.LoadID)
}

func TestLoadNotFound(t *testing.T) {
	s := NewStoreWithClock(t.TempDir(), fixedClock)
	_, err := s.Load("missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLoadRaggedRows(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "tbl.csv", "a,b,c\n1,2\n4,5,6\n")

	s := NewStoreWithClock(dir, fixedClock)
	tbl, err := s.Load("tbl")
	require.NoError(t, err)

	c, _ := tbl.Column("c")
	assert.False(t, c.Valid[0])
	assert.True(t, c.Valid[1])
}

func TestListTables(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "zeta.csv", "a\n")
	writeCSV(t, dir, "alpha.csv", "a\n")
	writeCSV(t, dir, "notes.txt", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.csv"), 0o755))

	s := NewStoreWithClock(dir, fixedClock)
	names, err := s.ListTables()
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "zeta"}, names)
}

func TestListTablesMissingDirIsEmpty(t *testing.T) {
	s := NewStoreWithClock(filepath.Join(t.TempDir(), "nope"), fixedClock)
	names, err := s.ListTables()
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestSchema(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "tbl.csv", "trip_id,load_date,gallons\n1,2024-01-05,10.5\n")

	s := NewStoreWithClock(dir, fixedClock)
	schema, err := s.Schema("tbl")
	require.NoError(t, err)

	assert.Equal(t, "string", schema["trip_id"])
	assert.Equal(t, "string", schema["load_date"])
	assert.Equal(t, "numeric", schema["gallons"])
	assert.Equal(t, "timestamp", schema["load_date_ts"])
	assert.Equal(t, "string", schema[IngestColumn])
}
