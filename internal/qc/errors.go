package qc

import (
	"errors"
	"fmt"
)

var (
	// Config errors, returned before any test runs.
	ErrInvalidSpan      = errors.New("invalid span")
	ErrInvalidThreshold = errors.New("invalid threshold")
	ErrUnknownTest      = errors.New("unknown test kind")
	ErrKindMismatch     = errors.New("parameters do not match test kind")

	// ErrUnknownStream marks a configured stream with no matching data.
	ErrUnknownStream = errors.New("unknown stream")

	ErrLengthMismatch  = errors.New("flag length mismatch")
	ErrDuplicateColumn = errors.New("duplicate column")

	// ErrInternalConsistency is returned when a test produced the wrong
	// number of flags. It indicates a bug, not bad input.
	ErrInternalConsistency = errors.New("internal consistency fault")

	ErrMalformedTable = errors.New("malformed table")
	ErrInvalidFlag    = errors.New("invalid flag")
)

// ConfigError names the stream and test whose parameters were rejected.
type ConfigError struct {
	StreamID string
	Test     TestKind
	Err      error
	Detail   string
}

func (e *ConfigError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("config: stream %q test %q: %v", e.StreamID, e.Test, e.Err)
	}
	return fmt.Sprintf("config: stream %q test %q: %v: %s", e.StreamID, e.Test, e.Err, e.Detail)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// ResultError describes a configured stream or test that could not be run.
type ResultError struct {
	StreamID string
	Err      error
}

func (e *ResultError) Error() string {
	return fmt.Sprintf("result: stream %q: %v", e.StreamID, e.Err)
}

func (e *ResultError) Unwrap() error { return e.Err }

// MergeError is fatal to a Merge call.
type MergeError struct {
	Column string
	Want   int
	Got    int
	Err    error
}

func (e *MergeError) Error() string {
	if errors.Is(e.Err, ErrLengthMismatch) {
		return fmt.Sprintf("merge: column %q: %v: table has %d rows, flags have %d",
			e.Column, e.Err, e.Want, e.Got)
	}
	return fmt.Sprintf("merge: column %q: %v", e.Column, e.Err)
}

func (e *MergeError) Unwrap() error { return e.Err }
