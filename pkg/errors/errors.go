package errors

import (
	goErrors "errors"
	"fmt"
)

// New creates a new error. If any arguments are given, the message is
// treated as a format string.
func New(format string, args ...interface{}) error {
	if len(args) == 0 {
		return goErrors.New(format)
	}
	return fmt.Errorf(format, args...)
}

// contextError annotates an error with a short description of what was being
// attempted when it occurred.
type contextError struct {
	context string
	cause   error
}

// WithContext wraps `err` so that its message is prefixed with `context`.
// Nil errors stay nil.
func WithContext(err error, context string) error {
	if err == nil {
		return nil
	}
	return contextError{context: context, cause: err}
}

func (err contextError) Error() string {
	return fmt.Sprintf("%s: %s", err.context, err.cause)
}

func (err contextError) Unwrap() error {
	return err.cause
}

// RootCause returns the innermost error that was wrapped with WithContext.
func RootCause(err error) error {
	for {
		wrapped, ok := err.(contextError)
		if !ok {
			return err
		}
		err = wrapped.cause
	}
}

// FriendlyError is an error whose message is meant to be shown directly to
// the user, without any of the context that was added on the way up.
type FriendlyError struct {
	Message string
}

// NewFriendlyError creates a FriendlyError from the given format string.
func NewFriendlyError(format string, args ...interface{}) error {
	return FriendlyError{Message: fmt.Sprintf(format, args...)}
}

func (err FriendlyError) Error() string {
	return err.Message
}

// FriendlyMessage returns the message that should be printed to the user.
func (err FriendlyError) FriendlyMessage() string {
	return err.Message
}

type friendlyError interface {
	FriendlyMessage() string
}

// GetPrintableMessage returns the friendly message of the root cause if it
// has one. Otherwise, the full error string is returned.
func GetPrintableMessage(err error) string {
	if friendly, ok := RootCause(err).(friendlyError); ok {
		return friendly.FriendlyMessage()
	}
	return err.Error()
}
