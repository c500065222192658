package main

import "fmt"

// CLIError carries the exit code for a failed command.
type CLIError struct {
	Code    int
	Message string
	Cause   error
}

func (e *CLIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *CLIError) Unwrap() error { return e.Cause }

func (e *CLIError) ExitCode() int { return e.Code }

func newConfigError(message string, cause error) *CLIError {
	return &CLIError{Code: ExitConfigError, Message: message, Cause: cause}
}

func newValidationError(message string, cause error) *CLIError {
	return &CLIError{Code: ExitValidationError, Message: message, Cause: cause}
}

func newUsageError(message string, cause error) *CLIError {
	return &CLIError{Code: ExitUsageError, Message: message, Cause: cause}
}
