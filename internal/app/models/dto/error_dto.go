package dto

import "time"

// ErrorCode represents standardized error codes
type ErrorCode string

const (
	ErrorCodeInvalidCredentials    ErrorCode = "AUTH_001"
	ErrorCodeInvalidToken          ErrorCode = "AUTH_005"
	ErrorCodeExpiredToken          ErrorCode = "AUTH_006"
	ErrorCodeUnauthorized          ErrorCode = "AUTH_008"
	ErrorCodeForbidden             ErrorCode = "AUTH_009"
	ErrorCodeResourceNotFound      ErrorCode = "RES_001"
	ErrorCodeResourceAlreadyExists ErrorCode = "RES_002"
	ErrorCodeValidationFailed      ErrorCode = "VAL_001"
	ErrorCodeInternalServer        ErrorCode = "SRV_001"
)

// ErrorResponse is the error body the backend returns.
// Message sits at the top level because that is where the client looks first.
type ErrorResponse struct {
	Message   string    `json:"message"`
	Code      ErrorCode `json:"code,omitempty"`
	Details   string    `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewErrorResponse creates an error body
func NewErrorResponse(code ErrorCode, message string) *ErrorResponse {
	return &ErrorResponse{
		Message:   message,
		Code:      code,
		Timestamp: time.Now(),
	}
}

// WithDetails adds additional details to the error
func (e *ErrorResponse) WithDetails(details string) *ErrorResponse {
	e.Details = details
	return e
}
