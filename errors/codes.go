package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Request errors
const (
	// ErrCodeInvalidInput indicates the request failed shape validation.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeConflict indicates the request collides with an existing account.
	ErrCodeConflict ErrorCode = "CONFLICT"
	// ErrCodeNotFound indicates the requested account does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
)

// Authentication/Authorization errors
const (
	// ErrCodeUnauthorized indicates missing or rejected credentials.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// ErrCodeForbidden indicates the caller's role is not allowed.
	ErrCodeForbidden ErrorCode = "FORBIDDEN"
)

// Infrastructure errors
const (
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
	// ErrCodeDatabaseError indicates the account store failed.
	ErrCodeDatabaseError ErrorCode = "DATABASE_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeDatabaseError: true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}

// IsInfrastructure reports whether the code describes a server-side failure
// rather than a problem with the caller's request.
func IsInfrastructure(code ErrorCode) bool {
	switch code {
	case ErrCodeInternal, ErrCodeDatabaseError:
		return true
	}
	return false
}
