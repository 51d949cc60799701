// Package core orchestrates the per-request query pipeline over the table
// store: load, date filter, deterministic sort, pagination and row
// serialization, plus the metadata accessors for table listing and schema
// reporting.
package core

import (
	"context"
	"strings"
	"time"

	"github.com/haulstack/logistics-api/internal/config"
	"github.com/haulstack/logistics-api/internal/logging"
	"github.com/haulstack/logistics-api/internal/table"
)

// Service wires the table store to the configured allow-list and
// pagination bounds.
type Service struct {
	store        *table.Store
	exposed      []string
	exposedSet   map[string]bool
	defaultLimit int
	maxLimit     int
}

// NewService creates a Service over a table store.
func NewService(store *table.Store, cfg *config.Config) *Service {
	s := &Service{
		store:        store,
		exposed:      cfg.Data.ExposedTables,
		exposedSet:   make(map[string]bool, len(cfg.Data.ExposedTables)),
		defaultLimit: cfg.Query.DefaultLimit,
		maxLimit:     cfg.Query.MaxLimit,
	}
	for _, name := range cfg.Data.ExposedTables {
		s.exposedSet[strings.TrimSpace(name)] = true
	}
	return s
}

// DataDir returns the data directory backing the store.
func (s *Service) DataDir() string { return s.store.DataDir() }

// Exposed returns the configured table allow-list.
func (s *Service) Exposed() []string { return s.exposed }

// ListTables enumerates the tables present on disk.
func (s *Service) ListTables() ([]string, error) {
	return s.store.ListTables()
}

// TableSchema reports column type labels for a table that exists in the
// on-disk listing. Returns table.ErrNotFound for unknown names.
func (s *Service) TableSchema(name string) (map[string]string, error) {
	return s.store.Schema(name)
}

// QueryParams are the inputs to one data request. Zero values mean unset:
// pagination fields fall back to defaults, Page/PageSize take precedence
// over Offset/Limit when supplied (page_size overrides limit, page
// overrides offset via offset = (page-1)*limit).
type QueryParams struct {
	Table     string
	StartDate string
	EndDate   string
	Offset    int
	Limit     int
	Page      int
	PageSize  int
	Full      bool
}

// QueryResult is the response envelope for the data endpoint.
// Count is the number of returned rows; Total is the row count after
// filtering but before pagination. NextOffset is null once exhausted.
type QueryResult struct {
	Table      string           `json:"table"`
	Count      int              `json:"count"`
	Offset     int              `json:"offset"`
	Limit      int              `json:"limit"`
	Total      int              `json:"total"`
	NextOffset *int             `json:"next_offset"`
	HasMore    bool             `json:"has_more"`
	Data       []map[string]any `json:"data"`
}

// Query runs the pipeline for one named table: allow-list check, cached
// load, optional date filter, deterministic sort, pagination window, and
// row serialization. Filter and sort never fail the request; when they
// cannot apply, the unfiltered or unsorted rows are served instead.
func (s *Service) Query(ctx context.Context, p QueryParams) (*QueryResult, error) {
	logger := logging.FromContext(ctx)

	name := strings.TrimSpace(p.Table)
	if !s.exposedSet[name] {
		return nil, &NotExposedError{Table: name, Exposed: s.exposed}
	}

	t, err := s.store.Load(name)
	if err != nil {
		return nil, err
	}

	if p.StartDate != "" || p.EndDate != "" {
		filtered, outcome := table.FilterByDate(t, p.StartDate, p.EndDate)
		if outcome.Applied {
			t = filtered
		} else {
			logger.Warn("date filter skipped",
				"table", name,
				"reason", outcome.Reason,
				"start_date", p.StartDate,
				"end_date", p.EndDate,
			)
		}
	}

	total := t.NumRows()
	limit := s.resolveLimit(p)
	offset := resolveOffset(p, limit)

	var idx []int
	if p.Full {
		// Full override: every row, load order, no window.
		offset = 0
		limit = total
		idx = seq(0, total)
	} else {
		if col, ok := sortColumn(t); ok {
			idx = sortedIndex(t, col)
		} else {
			idx = seq(0, total)
		}
		idx = window(idx, offset, limit)
	}

	data := make([]map[string]any, 0, len(idx))
	for _, i := range idx {
		data = append(data, serializeRow(t, i))
	}

	res := &QueryResult{
		Table:  name,
		Count:  len(data),
		Offset: offset,
		Limit:  limit,
		Total:  total,
		Data:   data,
	}
	if next := offset + len(data); !p.Full && next < total {
		res.NextOffset = &next
		res.HasMore = true
	}

	logger.Info("serving table",
		"table", name,
		"offset", offset,
		"limit", limit,
		"returned", res.Count,
		"total", total,
	)
	return res, nil
}

// resolveLimit applies the precedence rule (page_size over limit), the
// default, and the configured cap.
func (s *Service) resolveLimit(p QueryParams) int {
	limit := p.Limit
	if p.PageSize > 0 {
		limit = p.PageSize
	}
	if limit <= 0 {
		limit = s.defaultLimit
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}
	return limit
}

// resolveOffset applies the precedence rule: a 1-based page parameter
// overrides a raw offset.
func resolveOffset(p QueryParams, limit int) int {
	if p.Page > 0 {
		return (p.Page - 1) * limit
	}
	if p.Offset > 0 {
		return p.Offset
	}
	return 0
}

// window slices idx to [offset, offset+limit); out-of-range windows yield
// an empty slice.
func window(idx []int, offset, limit int) []int {
	if offset >= len(idx) {
		return nil
	}
	end := offset + limit
	if end > len(idx) {
		end = len(idx)
	}
	return idx[offset:end]
}

func seq(start, end int) []int {
	out := make([]int, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, i)
	}
	return out
}

// serializeRow converts row i to a transport map: timestamps as ISO 8601
// strings without offset, missing cells as explicit nulls.
func serializeRow(t *table.Table, i int) map[string]any {
	row := make(map[string]any, len(t.Columns))
	for _, c := range t.Columns {
		v := c.Value(i)
		if ts, ok := v.(time.Time); ok {
			v = ts.Format(table.TimeLayout)
		}
		row[c.Name] = v
	}
	return row
}
