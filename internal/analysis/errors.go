package analysis

import "fmt"

// ErrorKind classifies why an analysis failed.
type ErrorKind string

const (
	// ErrInvalidInput covers empty byte input or a declared non-image
	// content type.
	ErrInvalidInput ErrorKind = "invalid_input"
	// ErrDecodeFailure covers a codec rejecting the given bytes.
	ErrDecodeFailure ErrorKind = "decode_failure"
	// ErrInternalNumeric indicates a bug in the engine itself: a
	// computation that should never fail, did. It is surfaced, never
	// swallowed.
	ErrInternalNumeric ErrorKind = "internal_numeric"
)

// AnalysisError is the single error kind an analysis returns. A failed
// analysis never returns partial layer results alongside it.
type AnalysisError struct {
	Kind ErrorKind
	Err  error
}

func (e *AnalysisError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("analysis: %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("analysis: %s", e.Kind)
}

func (e *AnalysisError) Unwrap() error { return e.Err }

func newError(kind ErrorKind, err error) *AnalysisError {
	return &AnalysisError{Kind: kind, Err: err}
}
