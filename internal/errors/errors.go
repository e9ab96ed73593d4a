// Package errors formats command failures for the terminal.
package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/objectives/internal/logger"
)

// UserError is a failure caused by the user's input (unknown objective,
// duplicate name, submitting too early). It is reported without being
// logged as an application error.
type UserError struct {
	Msg string
	Err error
}

func (e *UserError) Error() string { return e.Msg }

func (e *UserError) Unwrap() error { return e.Err }

// User wraps err with a message meant for the person at the terminal.
func User(err error, format string, args ...interface{}) error {
	return &UserError{Msg: fmt.Sprintf(format, args...), Err: err}
}

// IsUser reports whether err is, or wraps, a UserError.
func IsUser(err error) bool {
	var ue *UserError
	return stderrors.As(err, &ue)
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal reports err and exits the program with exit code 1. User errors
// exit with code 2 and are not logged.
func Fatal(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "%s\n", Format(err))
	if IsUser(err) {
		os.Exit(2)
	}
	logger.Error("Command execution failed", "error", err)
	os.Exit(1)
}
