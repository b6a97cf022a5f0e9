package errors

import (
	"fmt"
)

// MissingFieldError represents a missing required field.
type MissingFieldError struct {
	Field string
}

func (err MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", err.Field)
}

// FriendlyMessage implements the interface used by GetPrintableMessage.
func (err MissingFieldError) FriendlyMessage() string {
	return fmt.Sprintf("The %s is required.\n"+
		"Set it with the --%s flag, or in the libsync config file "+
		"(see `libsync config`).", err.Field, err.Field)
}

// FileNotFound represents when we were unable to access a file
// because the path didn't exist.
type FileNotFound struct {
	Path string
}

func (err FileNotFound) Error() string {
	return fmt.Sprintf("%q does not exist", err.Path)
}
