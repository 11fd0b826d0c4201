// Package vaulterrors defines the pipeline's error taxonomy: fatal errors
// that abort a run before any output is written, and recoverable errors
// that are appended to the issue collector while the run proceeds.
package vaulterrors

import (
	"fmt"
	"time"
)

// ErrorType classifies which phase raised an error.
type ErrorType string

const (
	ErrorTypeWalk     ErrorType = "walk"
	ErrorTypeMedia    ErrorType = "media"
	ErrorTypeParse    ErrorType = "parse"
	ErrorTypeSlug     ErrorType = "slug"
	ErrorTypeLink     ErrorType = "link"
	ErrorTypeConfig   ErrorType = "config"
	ErrorTypeInternal ErrorType = "internal"
)

// PipelineError is the concrete error type raised by every phase. A
// PipelineError with Recoverable=false is fatal and must abort the run
// before any output is written; Recoverable=true means the caller should
// record it via the issue collector and continue.
type PipelineError struct {
	Type        ErrorType
	Operation   string
	FilePath    string
	Underlying  error
	Timestamp   time.Time
	Recoverable bool
}

// New creates a PipelineError for the given phase and operation.
func New(t ErrorType, op string, err error) *PipelineError {
	return &PipelineError{
		Type:       t,
		Operation:  op,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// WithFile attaches the file path the error occurred on.
func (e *PipelineError) WithFile(path string) *PipelineError {
	e.FilePath = path
	return e
}

// WithRecoverable marks whether this error should abort the run.
func (e *PipelineError) WithRecoverable(recoverable bool) *PipelineError {
	e.Recoverable = recoverable
	return e
}

// Error implements the error interface.
func (e *PipelineError) Error() string {
	if e.FilePath != "" {
		return fmt.Sprintf("%s %s failed for %s: %v", e.Type, e.Operation, e.FilePath, e.Underlying)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Type, e.Operation, e.Underlying)
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *PipelineError) Unwrap() error {
	return e.Underlying
}

// IsRecoverable reports whether the pipeline may continue past this error.
func (e *PipelineError) IsRecoverable() bool {
	return e.Recoverable
}

// Fatal builds a non-recoverable config/input error — the only kind that
// aborts a run before any output is written (invalid config, unreadable
// input root).
func Fatal(t ErrorType, op string, err error) *PipelineError {
	return New(t, op, err).WithRecoverable(false)
}

// Recoverable builds a recoverable error destined for the issue collector.
func Recoverable(t ErrorType, op string, err error) *PipelineError {
	return New(t, op, err).WithRecoverable(true)
}

// MultiError aggregates several errors, used by config validation to report
// every violation in one pass instead of failing fast on the first.
type MultiError struct {
	Errors []error
}

// NewMultiError filters nils and wraps the rest.
func NewMultiError(errs []error) *MultiError {
	filtered := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	return &MultiError{Errors: filtered}
}

// Error implements the error interface.
func (e *MultiError) Error() string {
	switch len(e.Errors) {
	case 0:
		return "no errors"
	case 1:
		return e.Errors[0].Error()
	default:
		return fmt.Sprintf("%d errors: %v", len(e.Errors), e.Errors)
	}
}

// Unwrap returns all wrapped errors, enabling errors.Is/As over the set.
func (e *MultiError) Unwrap() []error {
	return e.Errors
}

// HasErrors reports whether any error was collected.
func (e *MultiError) HasErrors() bool {
	return len(e.Errors) > 0
}
