package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/vango-dev/dhframe/pkg/frame"
	"github.com/vango-dev/dhframe/pkg/server"
	"github.com/vango-dev/dhframe/pkg/session"
	"github.com/vango-dev/dhframe/pkg/widget"
)

// Category represents the type of error.
type Category string

const (
	CategoryWidget  Category = "widget"
	CategoryBackend Category = "backend"
	CategoryConfig  Category = "config"
	CategoryHost    Category = "host"
	CategoryCLI     Category = "cli"
)

// Error is a structured error with a code, a suggestion and documentation.
type Error struct {
	// Code is a unique error identifier (e.g., "E100").
	Code string

	// Category is the error type.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// WithSuggestion adds a fix suggestion to the error.
func (e *Error) WithSuggestion(s string) *Error {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *Error) WithDetail(d string) *Error {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *Error) Wrap(err error) *Error {
	e.Wrapped = err
	return e
}

// New creates an Error from a registered error code.
func New(code string) *Error {
	template, ok := registry[code]
	if !ok {
		return &Error{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &Error{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Detail:     template.Detail,
		Suggestion: template.Suggestion,
		DocURL:     template.DocURL,
	}
}

// Newf creates an Error with a formatted message and no code.
func Newf(category Category, format string, args ...any) *Error {
	return &Error{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError maps err to a coded Error. Errors that are already *Error are
// returned unchanged; unrecognised errors get no code.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if stderrors.As(err, &e) {
		return e
	}

	var unknownKind *widget.UnknownKindError
	switch {
	case stderrors.Is(err, widget.ErrUnsupportedType):
		return New("E100").Wrap(err)
	case stderrors.Is(err, frame.ErrMissingSession):
		return New("E101").Wrap(err)
	case stderrors.As(err, &unknownKind):
		e := New("E102").Wrap(err)
		if unknownKind.Suggestion != "" {
			e.Suggestion = fmt.Sprintf("Did you mean %q?", unknownKind.Suggestion)
		}
		return e
	case stderrors.Is(err, widget.ErrNoPath):
		return New("E103").Wrap(err)
	case stderrors.Is(err, server.ErrBackendStart):
		return New("E110").Wrap(err)
	case stderrors.Is(err, session.ErrMaxSessionsReached):
		return New("E130").Wrap(err)
	case stderrors.Is(err, session.ErrManagerStopped):
		return New("E131").Wrap(err)
	}
	return &Error{Category: CategoryCLI, Message: err.Error()}
}
