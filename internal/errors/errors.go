package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes for categorizing errors
const (
	ErrConfig  = "CONFIG"
	ErrNetwork = "NETWORK"
	ErrParse   = "PARSE"
	ErrTimeout = "TIMEOUT"
	ErrBuffer  = "BUFFER"
	ErrRender  = "RENDER"
	ErrRuntime = "RUNTIME"
)

// Error represents a structured error with code, message, suggestion, and optional cause.
// Rendered as:
//
//	✗ <What failed>
//
//	  <Why it failed - technical details>
//
//	  <How to fix it - actionable steps>
type Error struct {
	Code       string
	Message    string
	Suggestion string
	Cause      error
}

// New creates a new structured error with the given code, message, and suggestion.
func New(code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
	}
}

// Newf creates a structured error without a suggestion from a format string.
func Newf(code, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an existing error with a message. The code is inherited from the
// cause when it is a structured error, otherwise ErrRuntime is used.
func Wrap(err error, message string) *Error {
	code := Code(err)
	if code == "" {
		code = ErrRuntime
	}
	return &Error{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// WrapWithCode wraps an existing error with a specific code, message, and suggestion.
func WrapWithCode(err error, code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
		Cause:      err,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("✗ %s\n", e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Cause.Error()))
	}

	if e.Suggestion != "" {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Suggestion))
	}

	return b.String()
}

// Unwrap returns the underlying cause for use with errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsCode checks if an error is a structured Error with the given code.
func IsCode(err error, code string) bool {
	return err != nil && Code(err) == code
}

// Code returns the code of the outermost structured error in the chain,
// or an empty string when there is none.
func Code(err error) string {
	if err == nil {
		return ""
	}
	var chErr *Error
	if errors.As(err, &chErr) {
		return chErr.Code
	}
	return ""
}

// IsFetch reports whether err is a per-tick fetch failure (network, parse or
// timeout). Fetch failures become gaps and never stop a schedule.
func IsFetch(err error) bool {
	switch Code(err) {
	case ErrNetwork, ErrParse, ErrTimeout:
		return true
	}
	return false
}

// Summary returns the one-line message of a structured error, falling back
// to err.Error() for plain errors. Used where the multi-line form is too
// noisy, such as log lines.
func Summary(err error) string {
	if err == nil {
		return ""
	}
	var chErr *Error
	if errors.As(err, &chErr) {
		if chErr.Cause != nil {
			return chErr.Message + ": " + Summary(chErr.Cause)
		}
		return chErr.Message
	}
	return err.Error()
}
