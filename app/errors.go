package app

import (
	"errors"
	"fmt"
	"net/http"
)

// Outcome is the interpretation of an API status code. Every status code
// maps to exactly one Outcome.
type Outcome int

const (
	Success Outcome = iota
	Unauthenticated
	Exhausted
	NotFound
	Unexpected
)

// Classify maps a status code to its Outcome.
func Classify(code int) Outcome {
	switch {
	case code == http.StatusUnauthorized:
		return Unauthenticated
	case code == http.StatusTooManyRequests:
		return Exhausted
	case code == http.StatusNotFound:
		return NotFound
	case code == http.StatusOK:
		return Success
	default:
		return Unexpected
	}
}

func (o Outcome) String() string {
	switch o {
	case Success:
		return "Success"
	case Unauthenticated:
		return "Unauthenticated"
	case Exhausted:
		return "No more endpoints left"
	case NotFound:
		return "Resource not found"
	default:
		return "Unexpected status"
	}
}

// StatusError reports an API response that did not succeed. Reported is set
// when a warning describing the failure has already been written to the
// user.
type StatusError struct {
	Op       string
	Outcome  Outcome
	Code     int
	Reported bool
}

func (e *StatusError) Error() string {
	if e.Outcome == Unexpected {
		return fmt.Sprintf("%s: unexpected status code %d", e.Op, e.Code)
	}
	return fmt.Sprintf("%s: %s (status %d)", e.Op, e.Outcome, e.Code)
}

// ParseError reports a successful response whose body could not be used.
type ParseError struct {
	Op  string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: invalid response from the API: %v", e.Op, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// UsageError reports malformed command line input. It is raised before any
// request is made.
type UsageError struct {
	Err error
}

// NewUsageError wraps err as a UsageError.
func NewUsageError(err error) *UsageError {
	return &UsageError{Err: err}
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

// Exit codes.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// ExitCode returns the process exit code for an error returned by a command.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		return ExitUsage
	}
	return ExitError
}

// Reported reports whether err has already been shown to the user as a
// warning.
func Reported(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.Reported
}
