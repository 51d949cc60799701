package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a table has no backing CSV file on disk.
var ErrNotFound = errors.New("table not found")

// IngestColumn is the name of the audit column stamped on every load with
// the wall-clock time the table entered the cache. Informational only.
const IngestColumn = "_ingest_ts"

// TimeLayout is the ISO 8601 format (no timezone offset) used for the
// ingest column and for timestamp cells on the wire. Values are UTC.
const TimeLayout = "2006-01-02T15:04:05"

// Store reads CSV files from a data directory into Tables and caches them
// for the process lifetime. Entries are added lazily on first access and
// never evicted automatically; Invalidate and Reload exist for callers
// (and tests) that need a fresh read.
type Store struct {
	dataDir string
	now     func() time.Time

	mu    sync.RWMutex
	cache map[string]*Table
}

// NewStore creates a Store over the given data directory.
func NewStore(dataDir string) *Store {
	return NewStoreWithClock(dataDir, time.Now)
}

// NewStoreWithClock creates a Store with an injectable clock for the
// ingest timestamp. Used by tests.
func NewStoreWithClock(dataDir string, now func() time.Time) *Store {
	return &Store{
		dataDir: dataDir,
		now:     now,
		cache:   make(map[string]*Table),
	}
}

// DataDir returns the configured data directory.
func (s *Store) DataDir() string { return s.dataDir }

func (s *Store) path(name string) string {
	return filepath.Join(s.dataDir, name+".csv")
}

// Load returns the named table, reading and normalizing its CSV file on
// first access. Cached entries are returned as-is with no staleness check.
// Concurrent first loads of the same table may both read the file; the
// first result to reach the cache wins.
func (s *Store) Load(name string) (*Table, error) {
	s.mu.RLock()
	t, ok := s.cache[name]
	s.mu.RUnlock()
	if ok {
		return t, nil
	}

	t, err := s.read(name)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if cached, ok := s.cache[name]; ok {
		t = cached
	} else {
		s.cache[name] = t
	}
	s.mu.Unlock()

	return t, nil
}

// Invalidate drops the cached entry for a table, forcing the next Load to
// re-read the file.
func (s *Store) Invalidate(name string) {
	s.mu.Lock()
	delete(s.cache, name)
	s.mu.Unlock()
}

// Reload drops the cached entry and loads the table fresh from disk.
func (s *Store) Reload(name string) (*Table, error) {
	s.Invalidate(name)
	return s.Load(name)
}

// ListTables enumerates CSV files in the data directory and returns their
// base names sorted lexicographically. A missing directory yields an empty
// list, not an error.
func (s *Store) ListTables() ([]string, error) {
	entries, err := os.ReadDir(s.dataDir)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing data directory: %w", err)
	}

	names := []string{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
	}
	sort.Strings(names)
	return names, nil
}

// Schema loads the table through the cache and reports each column's
// inferred type label.
func (s *Store) Schema(name string) (map[string]string, error) {
	t, err := s.Load(name)
	if err != nil {
		return nil, err
	}
	return t.Schema(), nil
}

// read parses and normalizes a CSV file into a Table.
func (s *Store) read(name string) (*Table, error) {
	path := s.path(name)

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // tolerate ragged rows; short rows pad as missing
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("reading %s: no header row", path)
	}

	header := records[0]
	rows := records[1:]

	t := &Table{
		Name:     name,
		LoadID:   uuid.New(),
		LoadedAt: s.now().UTC(),
		Columns:  make([]*Column, 0, len(header)+1),
	}

	// Everything starts as a trimmed string column; empty cells are
	// missing, not the literal empty string. Typing happens afterwards.
	for ci, raw := range header {
		col := &Column{
			Name:  strings.TrimSpace(raw),
			Type:  TypeString,
			Strs:  make([]string, len(rows)),
			Valid: make([]bool, len(rows)),
		}
		for ri, row := range rows {
			if ci >= len(row) {
				continue
			}
			v := strings.TrimSpace(row[ci])
			if v == "" {
				continue
			}
			col.Strs[ri] = v
			col.Valid[ri] = true
		}
		t.Columns = append(t.Columns, col)
	}

	applyCoercions(t)

	ingest := &Column{
		Name:  IngestColumn,
		Type:  TypeString,
		Strs:  make([]string, len(rows)),
		Valid: make([]bool, len(rows)),
	}
	stamp := t.LoadedAt.Format(TimeLayout)
	for i := range ingest.Strs {
		ingest.Strs[i] = stamp
		ingest.Valid[i] = true
	}
	t.Columns = append(t.Columns, ingest)

	slog.Info("table loaded",
		"table", name,
		"rows", t.NumRows(),
		"columns", len(t.Columns),
		"load_id", t.LoadID,
		"path", path,
	)
	return t, nil
}
