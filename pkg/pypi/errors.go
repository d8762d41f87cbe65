package pypi

import "fmt"

// Error is the single error kind returned by this package. It carries a
// human-readable message describing the failure and, where one exists, the
// underlying cause (transport error, JSON decode error, ...).
//
// Callers distinguish failure causes by message text; there are no
// structured error codes. Use errors.As to detect an *Error and errors.Is
// against wrapped stdlib errors via Unwrap.
type Error struct {
	Message string // Human-readable description of the failure
	Cause   error  // Underlying error, nil when the failure originates here
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// newError creates an *Error with a formatted message and no cause.
func newError(format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}

// wrapError creates an *Error wrapping an existing error.
func wrapError(cause error, format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...), Cause: cause}
}
