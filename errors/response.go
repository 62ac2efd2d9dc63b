package errors

import (
	stderrors "errors"
)

// Envelope is the JSON body every endpoint responds with.
type Envelope struct {
	Success bool      `json:"success"`
	Message string    `json:"message,omitempty"`
	Data    any       `json:"data,omitempty"`
	Code    ErrorCode `json:"code,omitempty"`
	Details any       `json:"details,omitempty"`
}

// ToResponse converts an AppError to a failure envelope.
func (e *AppError) ToResponse() Envelope {
	env := Envelope{
		Success: false,
		Message: e.Message,
		Code:    e.Code,
	}
	if len(e.Details) > 0 {
		env.Details = e.Details
	}
	return env
}

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
