package search

import (
	"errors"
	"fmt"
)

// ErrUnavailable is the only error text exposed to callers when every
// strategy has failed. Raw backend errors stay in the logs.
var ErrUnavailable = errors.New("search service is currently unavailable")

// BackendError wraps a failure of the full-text engine: transport errors,
// timeouts, malformed queries. The orchestrator recovers from it by falling
// back to the database strategy.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("search backend error during %s: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// QueryError wraps a failure of the relational path. When the relational path
// is the last resort the orchestrator converts it into a failed envelope.
type QueryError struct {
	Op  string
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query error during %s: %v", e.Op, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }
