package apperrors

import (
	"context"
	"errors"
	"fmt"
)

// Failure categories surfaced to the user
var (
	// ErrAuthenticationFailed means the backend rejected the credentials
	ErrAuthenticationFailed = errors.New("authentication failed")
	// ErrNotAuthenticated means a protected view was requested without a session
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrAuthorizationFailed means the session role may not open the requested view
	ErrAuthorizationFailed = errors.New("permission denied")
	// ErrDuplicateRegistration is returned when the email is already registered (HTTP 409)
	ErrDuplicateRegistration = errors.New("email already registered")
	// ErrRegistrationFailed covers every other registration rejection
	ErrRegistrationFailed = errors.New("registration failed")
	// ErrNetworkFailure means no response was received
	ErrNetworkFailure = errors.New("network failure")
	// ErrServerFailure covers 5xx responses and malformed payloads
	ErrServerFailure = errors.New("server failure")
)

var (
	ErrValidationFailed = errors.New("validation failed")
	ErrResourceNotFound = errors.New("resource not found")
	ErrBadRequest       = errors.New("bad request")
	ErrConflict         = errors.New("conflict")
	// ErrDataIntegrity flags API data that breaks an assumed invariant
	ErrDataIntegrity = errors.New("data integrity violation")
)

// Token errors
var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Is returns whether err matches target or any of errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}
	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

// CustomError represents a failed remote call with the context the backend returned
type CustomError struct {
	Err        error
	Message    string
	StatusCode int
	Code       string
	Details    map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" {
		msg = "unknown error"
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (HTTP %d)", msg, e.StatusCode)
	}
	return msg
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithStatus records the HTTP status of the failed call
func (e *CustomError) WithStatus(status int) *CustomError {
	e.StatusCode = status
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// Category is the user-facing classification of a failure
type Category string

const (
	CategoryAuthentication Category = "authentication"
	CategoryAuthorization  Category = "authorization"
	CategoryLoginRequired  Category = "login_required"
	CategoryDuplicate      Category = "duplicate_registration"
	CategoryNetwork        Category = "network"
	CategoryServer         Category = "server"
	CategoryValidation     Category = "validation"
	CategoryNotFound       Category = "not_found"
	CategoryDataIntegrity  Category = "data_integrity"
	CategoryCanceled       Category = "canceled"
	CategoryUnknown        Category = "unknown"
)

// Message is an inline, displayable rendition of an error
type Message struct {
	Category  Category
	Text      string
	Retryable bool
}

// Describe maps any error onto the message a view should show inline
func Describe(err error) Message {
	switch {
	case err == nil:
		return Message{}
	case errors.Is(err, context.Canceled):
		return Message{Category: CategoryCanceled, Text: "Request canceled."}
	case errors.Is(err, ErrNotAuthenticated):
		return Message{Category: CategoryLoginRequired, Text: "Please log in to continue."}
	case errors.Is(err, ErrAuthenticationFailed):
		return Message{Category: CategoryAuthentication, Text: "Invalid email or password."}
	case errors.Is(err, ErrAuthorizationFailed):
		return Message{Category: CategoryAuthorization, Text: "You are not allowed to view this page."}
	case errors.Is(err, ErrDuplicateRegistration):
		return Message{Category: CategoryDuplicate, Text: "This email is already registered. Please use a different email or try logging in."}
	case errors.Is(err, ErrValidationFailed), errors.Is(err, ErrBadRequest), errors.Is(err, ErrConflict):
		return Message{Category: CategoryValidation, Text: remoteText(err, "The request was rejected as invalid.")}
	case errors.Is(err, ErrResourceNotFound):
		return Message{Category: CategoryNotFound, Text: remoteText(err, "The requested item was not found.")}
	case errors.Is(err, ErrNetworkFailure), errors.Is(err, context.DeadlineExceeded):
		return Message{Category: CategoryNetwork, Text: "Could not reach the server. Check your connection and try again.", Retryable: true}
	case errors.Is(err, ErrDataIntegrity):
		return Message{Category: CategoryDataIntegrity, Text: "Some records returned by the server are inconsistent."}
	case errors.Is(err, ErrServerFailure), errors.Is(err, ErrRegistrationFailed):
		return Message{Category: CategoryServer, Text: "The server could not complete the request. Please try again later.", Retryable: true}
	default:
		return Message{Category: CategoryUnknown, Text: err.Error()}
	}
}

func remoteText(err error, fallback string) string {
	var ce *CustomError
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message
	}
	return fallback
}
