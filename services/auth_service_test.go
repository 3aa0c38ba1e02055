package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ngminhphat/tip-b18-computer-ecommerce-be/apperrors"
	"github.com/ngminhphat/tip-b18-computer-ecommerce-be/models"
	"github.com/ngminhphat/tip-b18-computer-ecommerce-be/token"
)

type authStack struct {
	db     *gorm.DB
	users  *UserService
	tokens *token.Service
	auth   *AuthService
	now    time.Time
}

func newAuthStack(t *testing.T) *authStack {
	t.Helper()
	stack := &authStack{
		db:  newTestDB(t),
		now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	stack.users = NewUserService(stack.db, &fakeMailer{}, testLogger())
	stack.tokens = token.NewService("test-secret", stack.users).
		WithClock(func() time.Time { return stack.now })
	stack.auth = NewAuthService(stack.db, stack.users, stack.tokens, testLogger())
	return stack
}

func (s *authStack) registerActive(t *testing.T, username string) *models.User {
	t.Helper()
	user, err := s.users.Register(validRegisterInput(username))
	require.NoError(t, err)
	require.NoError(t, s.users.Activate(*user.ActivationToken))
	return user
}

func (s *authStack) storedRefreshToken(t *testing.T, username string) *string {
	t.Helper()
	var user models.User
	require.NoError(t, s.db.Where("username = ?", username).First(&user).Error)
	return user.RefreshToken
}

func TestLoginPersistsRefreshToken(t *testing.T) {
	stack := newAuthStack(t)
	stack.registerActive(t, "alice")

	result, err := stack.auth.Login("alice", "Str0ng!Pass")
	require.NoError(t, err)
	require.NotEmpty(t, result.AccessToken)
	require.NotEmpty(t, result.RefreshToken)

	stored := stack.storedRefreshToken(t, "alice")
	require.NotNil(t, stored)
	require.Equal(t, result.RefreshToken, *stored)

	claims, err := stack.tokens.ParseClaims(result.AccessToken)
	require.NoError(t, err)
	require.Equal(t, token.TypeAccess, claims.TokenType)

	claims, err = stack.tokens.ParseClaims(result.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, token.TypeRefresh, claims.TokenType)
}

func TestLoginFailures(t *testing.T) {
	stack := newAuthStack(t)
	stack.registerActive(t, "alice")

	_, err := stack.auth.Login("alice", "wrong-password")
	require.True(t, apperrors.Is(err, apperrors.Unauthorized))

	_, err = stack.auth.Login("nobody", "Str0ng!Pass")
	require.True(t, apperrors.Is(err, apperrors.Unauthorized))

	inactive, err := stack.users.Register(validRegisterInput("bob"))
	require.NoError(t, err)
	require.False(t, inactive.IsActive)
	_, err = stack.auth.Login("bob", "Str0ng!Pass")
	require.True(t, apperrors.Is(err, apperrors.Unauthorized))
}

func TestSecondLoginOverwritesRefreshSlot(t *testing.T) {
	stack := newAuthStack(t)
	stack.registerActive(t, "alice")

	first, err := stack.auth.Login("alice", "Str0ng!Pass")
	require.NoError(t, err)

	stack.now = stack.now.Add(time.Minute)
	second, err := stack.auth.Login("alice", "Str0ng!Pass")
	require.NoError(t, err)
	require.NotEqual(t, first.RefreshToken, second.RefreshToken)

	stored := stack.storedRefreshToken(t, "alice")
	require.NotNil(t, stored)
	require.Equal(t, second.RefreshToken, *stored)

	// The first session's token no longer resolves a user.
	err = stack.auth.Logout(first.RefreshToken)
	require.True(t, apperrors.Is(err, apperrors.TokenInvalid))
}

func TestRefreshRotatesWithoutPersisting(t *testing.T) {
	stack := newAuthStack(t)
	stack.registerActive(t, "alice")

	result, err := stack.auth.Login("alice", "Str0ng!Pass")
	require.NoError(t, err)

	stack.now = stack.now.Add(time.Minute)
	rotated, err := stack.auth.Refresh(result.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, result.RefreshToken, rotated)

	// Only login writes the slot; rotation leaves it untouched.
	stored := stack.storedRefreshToken(t, "alice")
	require.NotNil(t, stored)
	require.Equal(t, result.RefreshToken, *stored)
}

func TestRefreshRejectsExpiredToken(t *testing.T) {
	stack := newAuthStack(t)
	stack.registerActive(t, "alice")

	result, err := stack.auth.Login("alice", "Str0ng!Pass")
	require.NoError(t, err)

	stack.now = stack.now.Add(25 * time.Hour)
	_, err = stack.auth.Refresh(result.RefreshToken)
	require.True(t, apperrors.Is(err, apperrors.Forbidden))
}

func TestLogoutClearsRefreshSlot(t *testing.T) {
	stack := newAuthStack(t)
	stack.registerActive(t, "alice")

	result, err := stack.auth.Login("alice", "Str0ng!Pass")
	require.NoError(t, err)

	require.NoError(t, stack.auth.Logout(result.RefreshToken))
	require.Nil(t, stack.storedRefreshToken(t, "alice"))

	// The token no longer maps to a session.
	err = stack.auth.Logout(result.RefreshToken)
	require.True(t, apperrors.Is(err, apperrors.TokenInvalid))
}
