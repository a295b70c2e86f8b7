// Package session holds the process-wide authentication state of the portal.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/yigit/collegeportal/internal/app/models"
	"github.com/yigit/collegeportal/internal/app/models/dto"
	"github.com/yigit/collegeportal/internal/pkg/apperrors"
	"github.com/yigit/collegeportal/internal/pkg/auth"
	"github.com/yigit/collegeportal/internal/pkg/tokenstore"
)

// Session is an immutable view of the authentication state.
// User is non-nil exactly when Token is non-empty.
type Session struct {
	Token string
	User  *models.User
}

// Authenticated reports whether the session carries a credential
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// Role returns the user's role, or an empty role when anonymous
func (s Session) Role() models.Role {
	if s.User == nil {
		return ""
	}
	return s.User.Role
}

// Authenticator performs the remote auth calls
type Authenticator interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error)
	Register(ctx context.Context, req dto.RegisterRequest) error
}

// Store owns the current token and identity and keeps the durable copy of the token in step
type Store struct {
	mu    sync.RWMutex
	token string
	user  *models.User

	auth     Authenticator
	tokens   tokenstore.Store
	validate *validator.Validate
	logger   zerolog.Logger
	now      func() time.Time
}

// NewStore creates an empty, unauthenticated store
func NewStore(authenticator Authenticator, tokens tokenstore.Store, logger zerolog.Logger) *Store {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Requests carry gin binding tags; reuse them for client-side checks.
	v.SetTagName("binding")

	return &Store{
		auth:     authenticator,
		tokens:   tokens,
		validate: v,
		logger:   logger,
		now:      time.Now,
	}
}

// Snapshot returns a consistent copy of the session
func (s *Store) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return Session{}
	}
	u := *s.user
	return Session{Token: s.token, User: &u}
}

// Restore re-derives the session from the persisted token. A token that cannot
// yield a complete identity is removed so the store never holds a token without a user.
func (s *Store) Restore() error {
	token, err := s.tokens.Load()
	if errors.Is(err, tokenstore.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load persisted token: %w", err)
	}

	user, _, err := auth.ParseIdentity(token, s.now())
	if err != nil {
		s.logger.Info().Err(err).Msg("Discarding persisted token")
		if cerr := s.tokens.Clear(); cerr != nil {
			return fmt.Errorf("discard persisted token: %w", cerr)
		}
		return nil
	}

	s.mu.Lock()
	s.token = token
	s.user = user
	s.mu.Unlock()

	s.logger.Debug().Int64("userID", user.ID).Str("role", string(user.Role)).Msg("Session restored")
	return nil
}

// Login authenticates against the backend. On any failure the session is left as it was.
func (s *Store) Login(ctx context.Context, email, password string) (*models.User, error) {
	req := dto.LoginRequest{Email: strings.TrimSpace(email), Password: password}
	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	resp, err := s.auth.Login(ctx, req)
	if err != nil {
		s.logger.Debug().Err(err).Str("email", req.Email).Msg("Login failed")
		return nil, err
	}

	user, err := userFromResponse(resp)
	if err != nil {
		s.logger.Error().Err(err).Msg("Malformed login response")
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.tokens.Save(resp.Token); err != nil {
		return nil, fmt.Errorf("persist token: %w", err)
	}
	s.token = resp.Token
	s.user = user

	s.logger.Info().Int64("userID", user.ID).Str("role", string(user.Role)).Msg("Logged in")
	u := *user
	return &u, nil
}

// Register creates an account. It never authenticates; callers log in afterwards.
func (s *Store) Register(ctx context.Context, req dto.RegisterRequest) error {
	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validate.Struct(req); err != nil {
		return validationError(err)
	}

	if err := s.auth.Register(ctx, req); err != nil {
		if errors.Is(err, apperrors.ErrDuplicateRegistration) {
			return err
		}
		return fmt.Errorf("%w: %w", apperrors.ErrRegistrationFailed, err)
	}

	s.logger.Info().Str("email", req.Email).Str("role", string(req.Role)).Msg("Account registered")
	return nil
}

// ErrSavedSessionKept is returned by Logout when the in-memory session is gone
// but the persisted token survived every attempt to remove it.
var ErrSavedSessionKept = errors.New("saved session could not be removed")

// clearAttempts bounds how often Logout tries to remove the persisted token
const clearAttempts = 3

// Logout clears the credential from memory and from durable storage.
// Memory is cleared even if the durable copy cannot be removed; in that case
// the error wraps ErrSavedSessionKept because the next Restore would bring it back.
func (s *Store) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.user = nil

	var err error
	for attempt := 1; attempt <= clearAttempts; attempt++ {
		if err = s.tokens.Clear(); err == nil {
			s.logger.Info().Msg("Logged out")
			return nil
		}
		s.logger.Warn().Err(err).Int("attempt", attempt).Msg("Failed to clear persisted token")
	}
	return fmt.Errorf("%w: %w", ErrSavedSessionKept, err)
}

// Close releases the durable storage
func (s *Store) Close() error {
	return s.tokens.Close()
}

func userFromResponse(resp *dto.AuthResponse) (*models.User, error) {
	if resp == nil || resp.Token == "" {
		return nil, apperrors.NewCustomError(apperrors.ErrServerFailure, "login response carried no token")
	}
	role, err := models.ParseRole(resp.Role)
	if err != nil {
		return nil, apperrors.NewCustomError(apperrors.ErrServerFailure, fmt.Sprintf("login response: %v", err))
	}
	return &models.User{
		ID:    resp.ID,
		Name:  resp.Name,
		Email: resp.Email,
		Role:  role,
	}, nil
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", apperrors.ErrValidationFailed, err)
	}
	fields := make([]string, 0, len(verrs))
	details := make(map[string]interface{}, len(verrs))
	for _, fe := range verrs {
		name := strings.ToLower(fe.Field())
		fields = append(fields, name)
		details[name] = fe.Tag()
	}
	return apperrors.NewCustomError(apperrors.ErrValidationFailed, "invalid "+strings.Join(fields, ", ")).
		WithDetails(details)
}
