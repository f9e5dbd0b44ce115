// Package fetch implements the per-screen request lifecycle: one request per distinct
// query value, forward-only state transitions, and a guard that drops stale resolutions.
package fetch

// Status tags which variant of a State holds.
type Status int

const (
	// Idle means no query has been issued yet.
	Idle Status = iota
	// Loading means a request for the current query is outstanding.
	Loading
	// Failed means the current query's request failed.
	Failed
	// Loaded means the current query's request succeeded.
	Loaded
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Failed:
		return "failed"
	case Loaded:
		return "loaded"
	default:
		return "unknown"
	}
}

// State is a tagged variant over Idle, Loading, Failed and Loaded(T).
// Value is only meaningful when Status is Loaded.
type State[T any] struct {
	Status Status
	Value  T
}

// IsLoading reports whether a request is outstanding.
func (s State[T]) IsLoading() bool { return s.Status == Loading }

// IsError is the only failure signal exposed to the render layer.
func (s State[T]) IsError() bool { return s.Status == Failed }

// Get returns the loaded value and whether there is one.
func (s State[T]) Get() (T, bool) {
	if s.Status != Loaded {
		var zero T
		return zero, false
	}
	return s.Value, true
}
