package errx

import (
	"errors"
	"fmt"
)

// Kind classifies a failure by the recovery policy it demands. Only
// KindPlanning is ever surfaced to the user; everything else degrades to a
// deterministic fallback somewhere up the stack.
type Kind string

const (
	KindPlanning           Kind = "planning"
	KindExecutionStep      Kind = "execution_step"
	KindEvaluation         Kind = "evaluation"
	KindExtraction         Kind = "extraction"
	KindResponseGeneration Kind = "response_generation"
	KindTransport          Kind = "transport"
	KindMalformedResponse  Kind = "malformed_response"
	KindStorage            Kind = "storage"
)

const (
	// SystemErrorMessage is a user-facing fallback when internal errors occur.
	SystemErrorMessage = "internal error"
	// RedisErrorMessage describes Redis related failures.
	RedisErrorMessage = "redis operation failed"
	// RedisNotFoundMessage describes a missing key lookup.
	RedisNotFoundMessage = "redis key not found"
)

// Sentinel errors for boundary contracts.
var (
	// ErrToolNotRegistered reports a plan step naming a tool the executor
	// does not know.
	ErrToolNotRegistered = errors.New("tool not registered")
	// ErrEmptyCompletion reports an LLM call that returned no content.
	ErrEmptyCompletion = errors.New("empty completion")
)

// Error wraps an underlying cause with a failure kind and a safe message.
type Error struct {
	Err     error
	Kind    Kind
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error with the provided information.
func New(err error, kind Kind, message string) *Error {
	return &Error{
		Err:     err,
		Kind:    kind,
		Message: message,
	}
}

// Planning wraps an LLM transport or parse failure during planning. This is
// the one failure class the orchestrator surfaces to the user.
func Planning(err error) *Error {
	return New(err, KindPlanning, "planning failed")
}

// Transport marks an LLM transport failure.
func Transport(err error) *Error {
	return New(err, KindTransport, "llm transport failed")
}

// Malformed marks an LLM response that could not be decoded.
func Malformed(err error) *Error {
	return New(err, KindMalformedResponse, "llm response malformed")
}

// KindOf returns the Kind of err if it is (or wraps) an *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// Is reports whether the target matches the underlying error or the Error itself.
func (e *Error) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// As allows casting to Error or the wrapped error in a chain.
func (e *Error) As(target any) bool {
	if errors.As(e.Err, target) {
		return true
	}
	if t, ok := target.(**Error); ok {
		*t = e
		return true
	}
	return false
}
