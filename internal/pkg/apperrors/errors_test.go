package apperrors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCustomError(t *testing.T) {
	err := NewCustomError(ErrConflict, "You have already submitted this assignment").WithStatus(409).WithCode("RES_002")
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, "You have already submitted this assignment (HTTP 409)", err.Error())

	bare := &CustomError{Err: ErrServerFailure}
	assert.Equal(t, "server failure", bare.Error())
	assert.Equal(t, "unknown error", (&CustomError{}).Error())
}

func TestIs(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", ErrTokenExpired)
	assert.True(t, Is(err, ErrTokenInvalid, ErrTokenExpired))
	assert.False(t, Is(err, ErrTokenInvalid))
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		category  Category
		text      string
		retryable bool
	}{
		{"nil", nil, "", "", false},
		{"canceled", fmt.Errorf("load: %w", context.Canceled), CategoryCanceled, "Request canceled.", false},
		{"login required", ErrNotAuthenticated, CategoryLoginRequired, "Please log in to continue.", false},
		{"bad credentials", NewCustomError(ErrAuthenticationFailed, "Bad credentials").WithStatus(401), CategoryAuthentication, "Invalid email or password.", false},
		{"forbidden", ErrAuthorizationFailed, CategoryAuthorization, "You are not allowed to view this page.", false},
		{"duplicate", ErrDuplicateRegistration, CategoryDuplicate, "This email is already registered. Please use a different email or try logging in.", false},
		{"remote validation text", NewCustomError(ErrBadRequest, "Assignment is past due date"), CategoryValidation, "Assignment is past due date", false},
		{"validation fallback", ErrValidationFailed, CategoryValidation, "The request was rejected as invalid.", false},
		{"not found", NewCustomError(ErrResourceNotFound, "Submission not found"), CategoryNotFound, "Submission not found", false},
		{"network", ErrNetworkFailure, CategoryNetwork, "Could not reach the server. Check your connection and try again.", true},
		{"deadline", context.DeadlineExceeded, CategoryNetwork, "Could not reach the server. Check your connection and try again.", true},
		{"integrity", ErrDataIntegrity, CategoryDataIntegrity, "Some records returned by the server are inconsistent.", false},
		{"server", ErrServerFailure, CategoryServer, "The server could not complete the request. Please try again later.", true},
		{"unknown", errors.New("disk full"), CategoryUnknown, "disk full", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Describe(tt.err)
			assert.Equal(t, tt.category, got.Category)
			assert.Equal(t, tt.text, got.Text)
			assert.Equal(t, tt.retryable, got.Retryable)
		})
	}
}
