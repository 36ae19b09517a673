package catalog

import (
	"errors"
	"fmt"
)

// ErrTimeout marks a fetch attempt that ran out its deadline. Timeouts
// are never retried; the caller falls straight through to a fallback.
var ErrTimeout = errors.New("catalog request timed out")

// StatusError is a non-2xx response from a catalog endpoint.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.Code)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

// Fallback names the data source a failed fetch resolved to.
type Fallback string

const (
	FallbackCache  Fallback = "cache"
	FallbackSample Fallback = "sample"
)

// FetchError reports that live data could not be fetched and which
// fallback the returned data came from. It is carried in Result.Err,
// never returned as a failure: callers always have renderable data.
type FetchError struct {
	Kind     Kind
	Fallback Fallback
	Cause    error
}

func (e *FetchError) Error() string {
	switch e.Fallback {
	case FallbackCache:
		return fmt.Sprintf("failed to fetch latest %s data: %v; showing cached data", e.Kind, e.Cause)
	default:
		return fmt.Sprintf("failed to fetch %s data: %v; showing sample data", e.Kind, e.Cause)
	}
}

func (e *FetchError) Unwrap() error { return e.Cause }
