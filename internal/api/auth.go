package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/yigit/collegeportal/internal/app/models/dto"
	"github.com/yigit/collegeportal/internal/pkg/apperrors"
)

// AuthAPI performs the unauthenticated /auth calls. It satisfies session.Authenticator.
type AuthAPI struct {
	client *Client
}

// NewAuthAPI creates the auth endpoints client
func NewAuthAPI(client *Client) *AuthAPI {
	return &AuthAPI{client: client}
}

// Login posts credentials. Any 4xx rejection is reported as ErrAuthenticationFailed.
func (a *AuthAPI) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	var resp dto.AuthResponse
	err := a.client.Do(ctx, Request{Method: http.MethodPost, Path: "/auth/login", Body: req}, &resp)
	if err != nil {
		var ce *apperrors.CustomError
		if errors.As(err, &ce) && ce.StatusCode >= 400 && ce.StatusCode < 500 {
			return nil, apperrors.NewCustomError(apperrors.ErrAuthenticationFailed, ce.Message).WithStatus(ce.StatusCode)
		}
		return nil, err
	}
	return &resp, nil
}

// Register posts a new account. 409 becomes ErrDuplicateRegistration.
func (a *AuthAPI) Register(ctx context.Context, req dto.RegisterRequest) error {
	err := a.client.Do(ctx, Request{Method: http.MethodPost, Path: "/auth/register", Body: req}, nil)
	if errors.Is(err, apperrors.ErrConflict) {
		var ce *apperrors.CustomError
		msg := ""
		if errors.As(err, &ce) {
			msg = ce.Message
		}
		return apperrors.NewCustomError(apperrors.ErrDuplicateRegistration, msg).WithStatus(http.StatusConflict)
	}
	return err
}
