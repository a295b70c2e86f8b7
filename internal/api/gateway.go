package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/collegeportal/internal/app/models"
	"github.com/yigit/collegeportal/internal/guard"
	"github.com/yigit/collegeportal/internal/pkg/apperrors"
)

// Gateway performs protected calls. Every call takes a fresh session snapshot,
// runs the access guard on it and, only when the guard renders, sends the
// snapshot's token. Nothing is cached between calls, so a handle obtained
// before logout cannot reach the network afterwards.
type Gateway struct {
	client   *Client
	sessions guard.SessionSource
	logger   zerolog.Logger
}

// NewGateway creates a gateway over client using sessions for credentials
func NewGateway(client *Client, sessions guard.SessionSource, logger zerolog.Logger) *Gateway {
	return &Gateway{client: client, sessions: sessions, logger: logger}
}

// Student returns the student endpoints
func (g *Gateway) Student() *StudentAPI { return &StudentAPI{g: g} }

// Teacher returns the teacher endpoints
func (g *Gateway) Teacher() *TeacherAPI { return &TeacherAPI{g: g} }

// Admin returns the admin endpoints
func (g *Gateway) Admin() *AdminAPI { return &AdminAPI{g: g} }

func (g *Gateway) call(ctx context.Context, roles []models.Role, req Request, out interface{}) error {
	snap := g.sessions.Snapshot()
	switch guard.Decide(snap, roles) {
	case guard.RedirectLogin:
		return apperrors.ErrNotAuthenticated
	case guard.RedirectUnauthorized:
		return apperrors.NewCustomError(apperrors.ErrAuthorizationFailed,
			fmt.Sprintf("role %s may not call %s %s", snap.Role(), req.Method, req.Path))
	}

	req.Token = snap.Token
	err := g.client.Do(ctx, req, out)
	if errors.Is(err, apperrors.ErrAuthenticationFailed) {
		// The backend no longer accepts the token (expired or revoked).
		g.logger.Warn().Str("path", req.Path).Msg("Session token rejected by server")
		return fmt.Errorf("%w: %w", apperrors.ErrNotAuthenticated, err)
	}
	return err
}
