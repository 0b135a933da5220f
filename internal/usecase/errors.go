package usecase

import (
	"fmt"

	crerr "github.com/cockroachdb/errors"
)

var (
	ErrInvalidInput             = crerr.New("invalid input")
	ErrConfiguration            = crerr.New("configuration error")
	ErrUpstreamUnreachable      = crerr.New("upstream unreachable")
	ErrUpstreamRequest          = crerr.New("upstream request error")
	ErrCacheCorruption          = crerr.New("cache corruption")
	ErrReferenceDataUnavailable = crerr.New("reference data unavailable")
	ErrDependencyUnavailable    = crerr.New("dependency unavailable")
)

// UpstreamError is a non-2xx answer from the fantasy platform.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upstream status %d", e.Status)
	}
	return fmt.Sprintf("upstream status %d: %s", e.Status, e.Message)
}
