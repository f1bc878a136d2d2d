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

	// ExitCodeHandledError indicates an error occurred that was already reported through the command's logger.
	// Errors carrying this code should not be printed again when they bubble up to the top-level.
	ExitCodeHandledError = 6

	// ExitCodeCompilationFailed indicates the compiler rejected the provided source. The rejection diagnostics
	// were already reported through the command's logger.
	ExitCodeCompilationFailed = 7
)
