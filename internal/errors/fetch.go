package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingTitle is returned when a detail record has no title.
	ErrMissingTitle = errors.New("book record has no title")
	// ErrEmptyDetail is returned when the detail response holds no record at all.
	ErrEmptyDetail = errors.New("detail response is empty")
	// ErrEmptyIdentifier is returned when a detail query has no book identifier.
	ErrEmptyIdentifier = errors.New("book identifier is required")
)

// FetchError is the single failure kind a screen can observe: the transport failed,
// the server answered with a non-success status, or the body did not have the expected shape.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError wraps err as a FetchError for the named operation.
// A nil err yields nil so callers can wrap unconditionally.
func NewFetchError(op string, err error) error {
	if err == nil {
		return nil
	}
	var fe *FetchError
	if errors.As(err, &fe) && fe.Op == op {
		return err
	}
	return &FetchError{Op: op, Err: err}
}

// IsFetchError reports whether err is a FetchError (even when wrapped).
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}
