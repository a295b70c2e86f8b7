package session

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/collegeportal/internal/app/models"
	"github.com/yigit/collegeportal/internal/app/models/dto"
	"github.com/yigit/collegeportal/internal/pkg/apperrors"
	"github.com/yigit/collegeportal/internal/pkg/auth"
	"github.com/yigit/collegeportal/internal/pkg/tokenstore"
)

type fakeAuth struct {
	users       map[string]dto.AuthResponse
	registerErr error
	loginCalls  int
	registered  []dto.RegisterRequest
}

func (f *fakeAuth) Login(_ context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	f.loginCalls++
	resp, ok := f.users[req.Email]
	if !ok || req.Password != "secret1" {
		return nil, apperrors.NewCustomError(apperrors.ErrAuthenticationFailed, "Invalid email or password").WithStatus(401)
	}
	return &resp, nil
}

func (f *fakeAuth) Register(_ context.Context, req dto.RegisterRequest) error {
	f.registered = append(f.registered, req)
	return f.registerErr
}

func newFakeAuth() *fakeAuth {
	return &fakeAuth{users: map[string]dto.AuthResponse{
		"ada@college.edu": {ID: 1, Token: "tok-admin", Role: "ADMIN", Name: "Ada", Email: "ada@college.edu"},
		"sam@college.edu": {ID: 2, Token: "tok-student", Role: "ROLE_STUDENT", Name: "Sam", Email: "sam@college.edu"},
		"bad@college.edu": {ID: 3, Token: "tok-bad", Role: "JANITOR", Name: "Bad", Email: "bad@college.edu"},
	}}
}

// requireConsistent checks that token and user are both set or both unset
func requireConsistent(t *testing.T, s *Store) Session {
	t.Helper()
	snap := s.Snapshot()
	require.Equal(t, snap.Token != "", snap.User != nil, "token and user must be set together")
	return snap
}

func TestLogin_SetsTokenUserAndDurableCopy(t *testing.T) {
	tokens := tokenstore.NewMemoryStore()
	s := NewStore(newFakeAuth(), tokens, zerolog.Nop())

	user, err := s.Login(context.Background(), " sam@college.edu ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, user.Role)

	snap := requireConsistent(t, s)
	assert.Equal(t, "tok-student", snap.Token)
	assert.Equal(t, "Sam", snap.User.Name)

	persisted, err := tokens.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-student", persisted)
}

func TestLogin_FailureLeavesStateUnchanged(t *testing.T) {
	tokens := tokenstore.NewMemoryStore()
	s := NewStore(newFakeAuth(), tokens, zerolog.Nop())

	_, err := s.Login(context.Background(), "ada@college.edu", "wrong")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrAuthenticationFailed)
	assert.False(t, requireConsistent(t, s).Authenticated())
	_, err = tokens.Load()
	assert.ErrorIs(t, err, tokenstore.ErrNotFound)

	_, err = s.Login(context.Background(), "ada@college.edu", "secret1")
	require.NoError(t, err)

	_, err = s.Login(context.Background(), "sam@college.edu", "nope")
	require.Error(t, err)
	snap := requireConsistent(t, s)
	assert.Equal(t, "tok-admin", snap.Token, "a failed login keeps the previous session")
}

func TestLogin_UnknownRoleIsServerFailure(t *testing.T) {
	s := NewStore(newFakeAuth(), tokenstore.NewMemoryStore(), zerolog.Nop())

	_, err := s.Login(context.Background(), "bad@college.edu", "secret1")
	assert.ErrorIs(t, err, apperrors.ErrServerFailure)
	assert.False(t, requireConsistent(t, s).Authenticated())
}

func TestLogin_ValidatesBeforeCallingBackend(t *testing.T) {
	fa := newFakeAuth()
	s := NewStore(fa, tokenstore.NewMemoryStore(), zerolog.Nop())

	_, err := s.Login(context.Background(), "not-an-email", "secret1")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	_, err = s.Login(context.Background(), "sam@college.edu", "")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Zero(t, fa.loginCalls)
}

func TestLogout_ClearsEverything(t *testing.T) {
	tokens := tokenstore.NewMemoryStore()
	s := NewStore(newFakeAuth(), tokens, zerolog.Nop())
	_, err := s.Login(context.Background(), "ada@college.edu", "secret1")
	require.NoError(t, err)

	require.NoError(t, s.Logout())
	assert.Equal(t, Session{}, requireConsistent(t, s))
	_, err = tokens.Load()
	assert.ErrorIs(t, err, tokenstore.ErrNotFound)

	require.NoError(t, s.Logout(), "logging out twice is harmless")
}

// flakyTokens fails Clear a fixed number of times before delegating
type flakyTokens struct {
	*tokenstore.MemoryStore
	failures int
	clears   int
}

func (f *flakyTokens) Clear() error {
	f.clears++
	if f.clears <= f.failures {
		return errors.New("disk")
	}
	return f.MemoryStore.Clear()
}

func TestLogout_RetriesDurableClear(t *testing.T) {
	tokens := &flakyTokens{MemoryStore: tokenstore.NewMemoryStore(), failures: clearAttempts - 1}
	s := NewStore(newFakeAuth(), tokens, zerolog.Nop())
	_, err := s.Login(context.Background(), "ada@college.edu", "secret1")
	require.NoError(t, err)

	require.NoError(t, s.Logout())
	assert.Equal(t, clearAttempts, tokens.clears)
	_, err = tokens.Load()
	assert.ErrorIs(t, err, tokenstore.ErrNotFound)
}

func TestLogout_ReportsSurvivingDurableToken(t *testing.T) {
	tokens := &flakyTokens{MemoryStore: tokenstore.NewMemoryStore(), failures: 100}
	s := NewStore(newFakeAuth(), tokens, zerolog.Nop())
	_, err := s.Login(context.Background(), "ada@college.edu", "secret1")
	require.NoError(t, err)

	err = s.Logout()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSavedSessionKept)
	assert.Equal(t, clearAttempts, tokens.clears)
	assert.False(t, requireConsistent(t, s).Authenticated(), "memory is cleared regardless")
}

func TestTokenAndUserStayConsistentAcrossSequences(t *testing.T) {
	s := NewStore(newFakeAuth(), tokenstore.NewMemoryStore(), zerolog.Nop())
	ctx := context.Background()

	steps := []func(){
		func() { _, _ = s.Login(ctx, "ada@college.edu", "secret1") },
		func() { _ = s.Logout() },
		func() { _, _ = s.Login(ctx, "sam@college.edu", "bad") },
		func() { _, _ = s.Login(ctx, "sam@college.edu", "secret1") },
		func() { _, _ = s.Login(ctx, "bad@college.edu", "secret1") },
		func() { _, _ = s.Login(ctx, "ada@college.edu", "secret1") },
		func() { _ = s.Logout() },
		func() { _ = s.Logout() },
	}
	for i, step := range steps {
		step()
		t.Run(fmt.Sprintf("after step %d", i), func(t *testing.T) {
			requireConsistent(t, s)
		})
	}
}

func TestSnapshot_IsACopy(t *testing.T) {
	s := NewStore(newFakeAuth(), tokenstore.NewMemoryStore(), zerolog.Nop())
	_, err := s.Login(context.Background(), "ada@college.edu", "secret1")
	require.NoError(t, err)

	snap := s.Snapshot()
	snap.User.Role = models.RoleStudent
	assert.Equal(t, models.RoleAdmin, s.Snapshot().Role())
}

func TestRegister(t *testing.T) {
	valid := dto.RegisterRequest{Name: " Nia ", Email: "nia@college.edu", Password: "secret1", Role: models.RoleTeacher}

	t.Run("success does not authenticate", func(t *testing.T) {
		fa := newFakeAuth()
		s := NewStore(fa, tokenstore.NewMemoryStore(), zerolog.Nop())
		require.NoError(t, s.Register(context.Background(), valid))
		require.Len(t, fa.registered, 1)
		assert.Equal(t, "Nia", fa.registered[0].Name)
		assert.False(t, s.Snapshot().Authenticated())
	})

	t.Run("duplicate email", func(t *testing.T) {
		fa := newFakeAuth()
		fa.registerErr = apperrors.NewCustomError(apperrors.ErrDuplicateRegistration, "Email is already in use").WithStatus(409)
		s := NewStore(fa, tokenstore.NewMemoryStore(), zerolog.Nop())
		err := s.Register(context.Background(), valid)
		assert.ErrorIs(t, err, apperrors.ErrDuplicateRegistration)
		assert.NotErrorIs(t, err, apperrors.ErrRegistrationFailed)
	})

	t.Run("other failure", func(t *testing.T) {
		fa := newFakeAuth()
		fa.registerErr = apperrors.ErrNetworkFailure
		s := NewStore(fa, tokenstore.NewMemoryStore(), zerolog.Nop())
		err := s.Register(context.Background(), valid)
		assert.ErrorIs(t, err, apperrors.ErrRegistrationFailed)
		assert.ErrorIs(t, err, apperrors.ErrNetworkFailure)
	})

	t.Run("invalid fields are rejected locally", func(t *testing.T) {
		fa := newFakeAuth()
		s := NewStore(fa, tokenstore.NewMemoryStore(), zerolog.Nop())
		bad := valid
		bad.Password = "123"
		bad.Role = "JANITOR"
		err := s.Register(context.Background(), bad)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

		var ce *apperrors.CustomError
		require.True(t, errors.As(err, &ce))
		assert.Contains(t, ce.Details, "password")
		assert.Contains(t, ce.Details, "role")
		assert.Empty(t, fa.registered)
	})
}

func signedToken(t *testing.T, user *models.User, ttl time.Duration) string {
	t.Helper()
	svc := auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", AccessTokenExp: ttl, TokenIssuer: "test"})
	token, _, err := svc.GenerateToken(user)
	require.NoError(t, err)
	return token
}

func TestRestore(t *testing.T) {
	teacher := &models.User{ID: 7, Name: "Tom", Email: "tom@college.edu", Role: models.RoleTeacher}

	t.Run("valid token re-derives identity", func(t *testing.T) {
		tokens := tokenstore.NewMemoryStore()
		token := signedToken(t, teacher, time.Hour)
		require.NoError(t, tokens.Save(token))

		s := NewStore(newFakeAuth(), tokens, zerolog.Nop())
		require.NoError(t, s.Restore())

		snap := requireConsistent(t, s)
		assert.Equal(t, token, snap.Token)
		assert.Equal(t, *teacher, *snap.User)
	})

	t.Run("nothing persisted", func(t *testing.T) {
		s := NewStore(newFakeAuth(), tokenstore.NewMemoryStore(), zerolog.Nop())
		require.NoError(t, s.Restore())
		assert.False(t, requireConsistent(t, s).Authenticated())
	})

	t.Run("expired token is discarded", func(t *testing.T) {
		tokens := tokenstore.NewMemoryStore()
		require.NoError(t, tokens.Save(signedToken(t, teacher, time.Minute)))

		s := NewStore(newFakeAuth(), tokens, zerolog.Nop())
		s.now = func() time.Time { return time.Now().Add(time.Hour) }
		require.NoError(t, s.Restore())

		assert.False(t, requireConsistent(t, s).Authenticated())
		_, err := tokens.Load()
		assert.ErrorIs(t, err, tokenstore.ErrNotFound)
	})

	t.Run("garbage token is discarded", func(t *testing.T) {
		tokens := tokenstore.NewMemoryStore()
		require.NoError(t, tokens.Save("not-a-jwt"))

		s := NewStore(newFakeAuth(), tokens, zerolog.Nop())
		require.NoError(t, s.Restore())
		assert.False(t, requireConsistent(t, s).Authenticated())
		_, err := tokens.Load()
		assert.ErrorIs(t, err, tokenstore.ErrNotFound)
	})
}
