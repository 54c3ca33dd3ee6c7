package main

// Exit codes returned by the surveyflow binary
const (
	ExitCodeSuccess         = 0 // Success
	ExitCodeGeneralError    = 1 // General error (invalid arguments)
	ExitCodeConfigError     = 2 // Configuration could not be loaded or is incomplete
	ExitCodeDefinitionError = 3 // Survey definition failed to parse or check
	ExitCodeViolations      = 4 // Dry-run answers have validation violations
	ExitCodeStoreError      = 5 // MongoDB or Redis unreachable
	ExitCodeServerError     = 6 // HTTP server failed
)

// ExitError wraps an error with an exit code
type ExitError struct {
	Code int
	Err  error
}

func (e ExitError) Error() string {
	return e.Err.Error()
}

func (e ExitError) Unwrap() error {
	return e.Err
}
