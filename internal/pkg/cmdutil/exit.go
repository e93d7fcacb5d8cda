package cmdutil

import (
	"errors"
	"fmt"
)

// Exit codes for CLI commands
const (
	ExitSuccess = 0
	ExitFound   = 1 // forbidden content found
	ExitUsage   = 2 // bad flags, configuration or input
)

// ExitError carries a process exit code. A nil Err means the command has
// already reported everything it wants to and only the code matters.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// Exit wraps err with an exit code.
func Exit(code int, err error) error {
	return &ExitError{Code: code, Err: err}
}

// ExitCode maps an error returned by a command to a process exit code.
// Errors without an ExitError are usage or configuration errors.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitUsage
}

// Silent reports whether err should be returned without printing a message.
func Silent(err error) bool {
	var exitErr *ExitError
	return errors.As(err, &exitErr) && exitErr.Err == nil
}
