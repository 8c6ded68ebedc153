package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/dom/movie-catalog/internal/repository/postgres"
	"github.com/dom/movie-catalog/internal/service"
	"github.com/dom/movie-catalog/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) (*service.AuthService, *service.SessionService) {
	t.Helper()
	db := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(db)
	sessions := service.NewSessionService(repos.Session, "test-secret", time.Hour)
	return service.NewAuthService(repos.User, sessions), sessions
}

func TestAuthService_Register(t *testing.T) {
	auth, sessions := newAuthService(t)
	ctx := context.Background()

	result, err := auth.Register(ctx, service.RegisterInput{Username: "alice", Password: "pass1"})
	require.NoError(t, err)

	assert.Equal(t, "alice", result.User.Username)
	assert.NotEqual(t, "pass1", result.User.PasswordHash)
	assert.NotEmpty(t, result.Token)

	session, err := sessions.Resolve(ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, session.UserID)
	assert.Equal(t, "alice", session.Username)
}

func TestAuthService_RegisterDuplicate(t *testing.T) {
	auth, _ := newAuthService(t)
	ctx := context.Background()

	_, err := auth.Register(ctx, service.RegisterInput{Username: "alice", Password: "pass1"})
	require.NoError(t, err)

	_, err = auth.Register(ctx, service.RegisterInput{Username: "alice", Password: "other"})
	assert.ErrorIs(t, err, service.ErrUsernameTaken)

	// The first account still works with its own password.
	_, err = auth.Login(ctx, service.LoginInput{Username: "alice", Password: "pass1"})
	assert.NoError(t, err)
}

func TestAuthService_Login(t *testing.T) {
	auth, _ := newAuthService(t)
	ctx := context.Background()

	_, err := auth.Register(ctx, service.RegisterInput{Username: "alice", Password: "pass1"})
	require.NoError(t, err)

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{"valid", "alice", "pass1", nil},
		{"wrong password", "alice", "wrong", service.ErrInvalidCredentials},
		{"unknown user", "nobody", "pass1", service.ErrInvalidCredentials},
		{"username is case sensitive", "Alice", "pass1", service.ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := auth.Login(ctx, service.LoginInput{Username: tt.username, Password: tt.password})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, result)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.username, result.User.Username)
			assert.NotEmpty(t, result.Token)
		})
	}
}

func TestAuthService_EachLoginIsASeparateSession(t *testing.T) {
	auth, sessions := newAuthService(t)
	ctx := context.Background()

	_, err := auth.Register(ctx, service.RegisterInput{Username: "alice", Password: "pass1"})
	require.NoError(t, err)

	first, err := auth.Login(ctx, service.LoginInput{Username: "alice", Password: "pass1"})
	require.NoError(t, err)
	second, err := auth.Login(ctx, service.LoginInput{Username: "alice", Password: "pass1"})
	require.NoError(t, err)
	assert.NotEqual(t, first.Session.ID, second.Session.ID)

	require.NoError(t, auth.Logout(ctx, first.Token))

	_, err = sessions.Resolve(ctx, first.Token)
	assert.ErrorIs(t, err, service.ErrSessionNotFound)
	_, err = sessions.Resolve(ctx, second.Token)
	assert.NoError(t, err)
}

func TestAuthService_LogoutIsIdempotent(t *testing.T) {
	auth, _ := newAuthService(t)
	ctx := context.Background()

	result, err := auth.Register(ctx, service.RegisterInput{Username: "alice", Password: "pass1"})
	require.NoError(t, err)

	assert.NoError(t, auth.Logout(ctx, result.Token))
	assert.NoError(t, auth.Logout(ctx, result.Token))
	assert.NoError(t, auth.Logout(ctx, ""))
}
