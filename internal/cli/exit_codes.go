package cli

import "fmt"

// Exit codes for the pontos CLI.
// These codes support programmatic composition and CI/CD integration.
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitFailure indicates a generic command failure
	ExitFailure = 1

	// ExitNothingToRelease indicates no unreleased changelog entries exist
	ExitNothingToRelease = 2

	// ExitInvalidArguments indicates invalid command arguments
	ExitInvalidArguments = 3

	// ExitMissingPrerequisites indicates required files or tokens are missing
	ExitMissingPrerequisites = 4
)

// ExitError carries an exit code through cobra's error return without
// printing an additional message.
type ExitError struct {
	Code int
}

// NewExitError creates an ExitError for the given code.
func NewExitError(code int) *ExitError {
	return &ExitError{Code: code}
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}
