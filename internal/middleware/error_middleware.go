package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/collegeportal/internal/app/models/dto"
	"github.com/yigit/collegeportal/internal/pkg/apperrors"
)

// HandleAPIError handles common API errors and returns appropriate responses
func HandleAPIError(c *gin.Context, err error) {
	status, code, message := http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error"

	switch {
	case errors.Is(err, apperrors.ErrResourceNotFound):
		status, code, message = http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"
	case errors.Is(err, apperrors.ErrAuthorizationFailed):
		status, code, message = http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied"
	case errors.Is(err, apperrors.ErrAuthenticationFailed):
		status, code, message = http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials"
	case errors.Is(err, apperrors.ErrTokenExpired):
		status, code, message = http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired"
	case errors.Is(err, apperrors.ErrTokenInvalid):
		status, code, message = http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token"
	case errors.Is(err, apperrors.ErrValidationFailed), errors.Is(err, apperrors.ErrBadRequest):
		status, code, message = http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"
	case errors.Is(err, apperrors.ErrDuplicateRegistration):
		status, code, message = http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Email already exists"
	case errors.Is(err, apperrors.ErrConflict):
		status, code, message = http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Resource already exists"
	}

	var custom *apperrors.CustomError
	if errors.As(err, &custom) && custom.Message != "" {
		message = custom.Message
	}

	if status >= http.StatusInternalServerError {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled API error")
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(code, message))
}
