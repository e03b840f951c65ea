package inventory

import "fmt"

// Kind classifies a summary failure.
type Kind int

const (
	// KindConnection means the shared pool could not be obtained. The next
	// request retries the connection.
	KindConnection Kind = iota + 1
	// KindQuery means the pool was available but the aggregation failed.
	KindQuery
)

func (k Kind) String() string {
	switch k {
	case KindConnection:
		return "connection"
	case KindQuery:
		return "query"
	default:
		return "unknown"
	}
}

// Error is returned by Service for every failure it surfaces.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s failure during %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
