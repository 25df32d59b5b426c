package catalog

import (
	"errors"
	"fmt"
)

// ErrEmptyQuery is returned when a search is attempted without a query.
var ErrEmptyQuery = errors.New("search query is required")

// UpstreamError reports a failed or malformed exchange with the catalog service.
type UpstreamError struct {
	Op         string
	StatusCode int // 0 when no HTTP response was received
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("catalog %s failed: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("catalog %s failed: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
