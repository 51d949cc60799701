package web

// errors.go maps pipeline errors to HTTP responses. Boundary-visible
// failures (not exposed, not found) are typed and map 1:1 to status codes;
// anything else is an internal load failure. Full details are logged
// server-side with the request ID; clients get the mapped message.

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/haulstack/logistics-api/internal/core"
	"github.com/haulstack/logistics-api/internal/logging"
	"github.com/haulstack/logistics-api/internal/table"
)

// ErrorResponse is the JSON body for all error replies.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// respondError classifies err, logs it, and writes the mapped status and
// JSON body.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	code := "LOAD_FAILED"

	var notExposed *core.NotExposedError
	switch {
	case errors.As(err, &notExposed):
		status = http.StatusNotFound
		code = "TABLE_NOT_EXPOSED"
	case errors.Is(err, table.ErrNotFound):
		status = http.StatusNotFound
		code = "TABLE_NOT_FOUND"
	}

	logging.FromContext(r.Context()).Error("request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"status", status,
		"code", code,
		"error", err,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: err.Error(), Code: code})
}
