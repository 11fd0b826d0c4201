package vaulterrors

import (
	"errors"
	"testing"
	"time"
)

func TestPipelineError_WalkRecoverable(t *testing.T) {
	underlying := errors.New("permission denied")
	err := New(ErrorTypeWalk, "stat", underlying).
		WithFile("/vault/notes/a.md").
		WithRecoverable(true)

	if err.Type != ErrorTypeWalk {
		t.Errorf("Expected Type to be ErrorTypeWalk, got %v", err.Type)
	}
	if err.FilePath != "/vault/notes/a.md" {
		t.Errorf("Expected FilePath to be set, got %s", err.FilePath)
	}
	if err.Operation != "stat" {
		t.Errorf("Expected Operation to be 'stat', got %s", err.Operation)
	}
	if !errors.Is(err, underlying) {
		t.Errorf("Expected error to unwrap to underlying error")
	}
	if !err.IsRecoverable() {
		t.Errorf("Expected error to be recoverable")
	}

	expected := "walk stat failed for /vault/notes/a.md: permission denied"
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}
}

func TestPipelineError_MediaWithoutFile(t *testing.T) {
	underlying := errors.New("encode failed")
	err := New(ErrorTypeMedia, "optimize", underlying)

	expected := "media optimize failed: encode failed"
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}
}

func TestFatalVsRecoverable(t *testing.T) {
	fatal := Fatal(ErrorTypeConfig, "load", errors.New("missing input path"))
	if fatal.IsRecoverable() {
		t.Errorf("Expected Fatal() to produce a non-recoverable error")
	}

	rec := Recoverable(ErrorTypeLink, "resolve", errors.New("broken link"))
	if !rec.IsRecoverable() {
		t.Errorf("Expected Recoverable() to produce a recoverable error")
	}
}

func TestMultiError(t *testing.T) {
	err1 := errors.New("error 1")
	err2 := errors.New("error 2")
	err3 := errors.New("error 3")

	multiErr := NewMultiError([]error{err1, err2, err3})
	if len(multiErr.Errors) != 3 {
		t.Errorf("Expected 3 errors, got %d", len(multiErr.Errors))
	}
	if !multiErr.HasErrors() {
		t.Errorf("Expected HasErrors() to be true")
	}

	expected := "3 errors: "
	if multiErr.Error()[:len(expected)] != expected {
		t.Errorf("Expected message to start with %q, got %q", expected, multiErr.Error())
	}

	single := NewMultiError([]error{err1})
	if single.Error() != "error 1" {
		t.Errorf("Expected 'error 1', got %q", single.Error())
	}

	empty := NewMultiError(nil)
	if empty.Error() != "no errors" {
		t.Errorf("Expected 'no errors', got %q", empty.Error())
	}
	if empty.HasErrors() {
		t.Errorf("Expected HasErrors() to be false for an empty set")
	}

	filtered := NewMultiError([]error{err1, nil, err2, nil})
	if len(filtered.Errors) != 2 {
		t.Errorf("Expected 2 errors after filtering nils, got %d", len(filtered.Errors))
	}

	unwrapped := multiErr.Unwrap()
	if len(unwrapped) != 3 {
		t.Errorf("Expected 3 unwrapped errors, got %d", len(unwrapped))
	}
}

func TestTimestamp(t *testing.T) {
	err := New(ErrorTypeInternal, "test", errors.New("test"))
	if err.Timestamp.IsZero() {
		t.Errorf("Expected non-zero timestamp")
	}

	now := time.Now()
	if err.Timestamp.After(now) || now.Sub(err.Timestamp) > time.Second {
		t.Errorf("Timestamp seems incorrect: %v", err.Timestamp)
	}
}
