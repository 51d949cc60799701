package core

import (
	"fmt"
	"strings"
)

// NotExposedError is returned when a requested table is absent from the
// configured allow-list. The message names the allowed tables so callers
// can correct the request.
type NotExposedError struct {
	Table   string
	Exposed []string
}

func (e *NotExposedError) Error() string {
	return fmt.Sprintf("table %q not exposed. Allowed: %s", e.Table, strings.Join(e.Exposed, ", "))
}
