package cli

// Error codes for structured error responses.
// These codes are stable and can be relied upon by scripts.
const (
	// Configuration errors
	ErrConfigInvalid   = "CONFIG_INVALID"
	ErrGatefileInvalid = "GATEFILE_INVALID"
	ErrSuiteNotFound   = "SUITE_NOT_FOUND"

	// Query errors
	ErrQueryInvalid = "QUERY_INVALID"
	ErrNoQueries    = "NO_QUERIES"

	// Execution errors
	ErrBinaryNotConfigured = "BINARY_NOT_CONFIGURED"
	ErrGateFailed          = "GATE_FAILED"

	// History errors
	ErrHistoryUnavailable = "HISTORY_UNAVAILABLE"

	// Input errors
	ErrInvalidInput = "INVALID_INPUT"
)
