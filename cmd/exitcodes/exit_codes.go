package exitcodes

const (
	// ================================
	// Platform-universal exit codes
	// ================================

	// ExitCodeSuccess indicates no errors or failures had occurred.
	ExitCodeSuccess = 0

	// ExitCodeGeneralError indicates some type of general error occurred.
	ExitCodeGeneralError = 1

	// ================================
	// Application-specific exit codes
	// ================================
	// Note: Despite not being standardized, exit codes 2-5 are often used for common use cases, so we avoid them.

	// ExitCodeGenerationError indicates the binding generator failed while processing a build. Note that an error
	// with error code ExitCodeGeneralError and ExitCodeGenerationError are mutually exclusive errors.
	ExitCodeGenerationError = 6

	// ExitCodeHandledError indicates an error which was already reported through the logger and should not be
	// printed again at the top level.
	ExitCodeHandledError = 7
)
