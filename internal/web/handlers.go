package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/haulstack/logistics-api/internal/core"
)

// handleHealth reports liveness and the configured data directory.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{
		"status":   "ok",
		"data_dir": s.service.DataDir(),
	})
}

// handleListTables returns the tables present on disk alongside the
// configured allow-list.
func (s *Server) handleListTables(w http.ResponseWriter, r *http.Request) {
	tables, err := s.service.ListTables()
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{
		"tables":  tables,
		"exposed": s.service.Exposed(),
	})
}

// handleSchema reports the inferred column types for one table.
func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(chi.URLParam(r, "tableName"))

	schema, err := s.service.TableSchema(name)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{
		"table":  name,
		"schema": schema,
	})
}

// handleQuery serves one page of filtered, deterministically ordered rows.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := core.QueryParams{
		Table:     chi.URLParam(r, "tableName"),
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
		Offset:    intParam(q.Get("offset")),
		Limit:     intParam(q.Get("limit")),
		Page:      intParam(q.Get("page")),
		PageSize:  intParam(q.Get("page_size")),
		Full:      boolParam(q.Get("full")),
	}

	res, err := s.service.Query(r.Context(), params)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, res)
}

// intParam parses a query parameter as a non-negative int; malformed or
// negative values read as unset.
func intParam(v string) int {
	if v == "" {
		return 0
	}
	i, err := strconv.Atoi(v)
	if err != nil || i < 0 {
		return 0
	}
	return i
}

// boolParam treats the usual truthy spellings as set.
func boolParam(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}
