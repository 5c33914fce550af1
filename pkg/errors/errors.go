// SPDX-License-Identifier: Apache-2.0
// Package errors provides the typed error kinds raised by actors, actions,
// questions, resolutions, the narrator and the notebook.
package errors

import (
	stderrors "errors"
	"fmt"
	"log/slog"
)

// Code classifies screenplay errors.
type Code string

const (
	// CodeUnableToPerform indicates an actor lacks a requested ability.
	CodeUnableToPerform Code = "UNABLE_TO_PERFORM"

	// CodeUnableToAct indicates an action was built or called with missing
	// or contradictory parameters.
	CodeUnableToAct Code = "UNABLE_TO_ACT"

	// CodeDelivery indicates an action exhausted its retries or failed
	// delivering to an external collaborator.
	CodeDelivery Code = "DELIVERY_ERROR"

	// CodeUnableToAnswer indicates a question could not produce a value.
	CodeUnableToAnswer Code = "UNABLE_TO_ANSWER"

	// CodeUnableToFormResolution indicates a resolution was built with
	// invalid expected values.
	CodeUnableToFormResolution Code = "UNABLE_TO_FORM_RESOLUTION"

	// CodeUnableToNarrate indicates the narrator was given no function.
	CodeUnableToNarrate Code = "UNABLE_TO_NARRATE"

	// CodeUnableToDirect indicates a notebook lookup missed.
	CodeUnableToDirect Code = "UNABLE_TO_DIRECT"

	CodeNotPerformable Code = "NOT_PERFORMABLE"
	CodeNotAnswerable  Code = "NOT_ANSWERABLE"
	CodeNotResolvable  Code = "NOT_RESOLVABLE"

	// CodeAssertionFailed indicates an answer did not satisfy its resolution.
	CodeAssertionFailed Code = "ASSERTION_FAILED"

	// CodeUnknown is reported by CodeOf for errors outside this package.
	CodeUnknown Code = "UNKNOWN"
)

// Error is a typed error carrying a Code and optional context.
// It implements the error interface and can be unwrapped with errors.As().
type Error struct {
	Code    Code
	Message string
	Err     error
	Context map[string]any
}

// Sentinels for errors.Is. A sentinel matches any *Error with the same Code.
var (
	ErrUnableToPerform        = &Error{Code: CodeUnableToPerform}
	ErrUnableToAct            = &Error{Code: CodeUnableToAct}
	ErrDelivery               = &Error{Code: CodeDelivery}
	ErrUnableToAnswer         = &Error{Code: CodeUnableToAnswer}
	ErrUnableToFormResolution = &Error{Code: CodeUnableToFormResolution}
	ErrUnableToNarrate        = &Error{Code: CodeUnableToNarrate}
	ErrUnableToDirect         = &Error{Code: CodeUnableToDirect}
	ErrNotPerformable         = &Error{Code: CodeNotPerformable}
	ErrNotAnswerable          = &Error{Code: CodeNotAnswerable}
	ErrNotResolvable          = &Error{Code: CodeNotResolvable}
	ErrAssertionFailed        = &Error{Code: CodeAssertionFailed}
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message == "" && e.Err == nil {
		return string(e.Code)
	}
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements errors.Unwrap for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's Code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t == e {
		return true
	}
	return t.Message == "" && t.Err == nil && t.Code == e.Code
}

// LogValue implements slog.LogValuer for structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("code", string(e.Code)),
		slog.String("message", e.Message),
	}
	if e.Err != nil {
		attrs = append(attrs, slog.String("cause", e.Err.Error()))
	}
	for k, v := range e.Context {
		attrs = append(attrs, slog.Any(k, v))
	}
	return slog.GroupValue(attrs...)
}

// New creates a new Error with the given code, message, and cause.
func New(code Code, msg string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: msg,
		Err:     cause,
		Context: make(map[string]any),
	}
}

// WithContext adds a key-value pair to the error context.
// Returns the error for method chaining.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// CodeOf returns the Code of the first *Error in err's chain.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

func UnableToPerform(msg string) *Error { return New(CodeUnableToPerform, msg, nil) }

func UnableToAct(msg string) *Error { return New(CodeUnableToAct, msg, nil) }

// Delivery builds a delivery error chained from cause.
func Delivery(msg string, cause error) *Error { return New(CodeDelivery, msg, cause) }

func UnableToAnswer(msg string, cause error) *Error { return New(CodeUnableToAnswer, msg, cause) }

func UnableToFormResolution(msg string) *Error { return New(CodeUnableToFormResolution, msg, nil) }

func UnableToNarrate(msg string) *Error { return New(CodeUnableToNarrate, msg, nil) }

func UnableToDirect(msg string, cause error) *Error { return New(CodeUnableToDirect, msg, cause) }

func NotPerformable(msg string) *Error { return New(CodeNotPerformable, msg, nil) }

func NotAnswerable(msg string) *Error { return New(CodeNotAnswerable, msg, nil) }

func NotResolvable(msg string) *Error { return New(CodeNotResolvable, msg, nil) }

// AssertionFailed builds the error See raises when an answer does not match.
func AssertionFailed(msg string) *Error { return New(CodeAssertionFailed, msg, nil) }
