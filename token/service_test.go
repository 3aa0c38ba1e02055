package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ngminhphat/tip-b18-computer-ecommerce-be/apperrors"
	"github.com/ngminhphat/tip-b18-computer-ecommerce-be/models"
)

type fakeUserLookup struct {
	users map[string]*models.User
}

func (f fakeUserLookup) FindByUsername(username string) (*models.User, error) {
	user, ok := f.users[username]
	if !ok {
		return nil, apperrors.New(apperrors.NotFound, "user not found")
	}
	return user, nil
}

func newTestService(now time.Time) *Service {
	lookup := fakeUserLookup{users: map[string]*models.User{
		"alice": {ID: "u-1", Username: "alice"},
		"root":  {ID: "u-2", Username: "root", Roles: []models.Role{{Name: models.RoleUser}, {Name: models.RoleAdmin}}},
	}}
	return NewService("test-secret", lookup).WithClock(func() time.Time { return now })
}

func TestIssueAccessTokenClaims(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, vietnamZone)
	svc := newTestService(base)

	tok, err := svc.IssueAccessToken("alice")
	require.NoError(t, err)

	claims, err := svc.ParseClaims(tok)
	require.NoError(t, err)
	require.Equal(t, "alice", claims.UserName)
	require.Equal(t, models.RoleUser, claims.Role)
	require.Equal(t, TypeAccess, claims.TokenType)
	require.NotEmpty(t, claims.JwtID)
	require.Equal(t, base.Add(time.Hour).Unix(), claims.Exp)
}

func TestIssueAccessTokenHighestRole(t *testing.T) {
	svc := newTestService(time.Date(2026, 3, 1, 12, 0, 0, 0, vietnamZone))

	tok, err := svc.IssueAccessToken("root")
	require.NoError(t, err)

	claims, err := svc.ParseClaims(tok)
	require.NoError(t, err)
	require.Equal(t, models.RoleAdmin, claims.Role)
}

func TestIssueAccessTokenUnknownUser(t *testing.T) {
	svc := newTestService(time.Now())
	_, err := svc.IssueAccessToken("nobody")
	require.Error(t, err)
	require.True(t, apperrors.Is(err, apperrors.NotFound))
}

func TestRotateRefreshToken(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, vietnamZone)
	svc := newTestService(base)

	access, err := svc.IssueAccessToken("alice")
	require.NoError(t, err)

	refresh, err := svc.RotateRefreshToken(access)
	require.NoError(t, err)

	claims, err := svc.ParseClaims(refresh)
	require.NoError(t, err)
	require.Equal(t, "alice", claims.UserName)
	require.Equal(t, TypeRefresh, claims.TokenType)
	require.Empty(t, claims.JwtID)
	require.Equal(t, base.Add(refreshTTL).Unix(), claims.Exp)
}

func TestRotateRefreshTokenExpiredInput(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, vietnamZone)
	svc := newTestService(base)

	access, err := svc.IssueAccessToken("alice")
	require.NoError(t, err)

	svc.WithClock(func() time.Time { return base.Add(2 * time.Hour) })

	_, err = svc.RotateRefreshToken(access)
	require.Error(t, err)
	require.True(t, apperrors.Is(err, apperrors.Forbidden))
}

func TestVerifyNotExpired(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, vietnamZone)
	svc := newTestService(base)

	access, err := svc.IssueAccessToken("alice")
	require.NoError(t, err)

	valid, err := svc.VerifyNotExpired(access)
	require.NoError(t, err)
	require.True(t, valid)

	// The expiry instant itself already counts as expired.
	svc.WithClock(func() time.Time { return base.Add(accessTTL) })
	valid, err = svc.VerifyNotExpired(access)
	require.NoError(t, err)
	require.False(t, valid)
}

func TestVerifyNotExpiredForgedToken(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, vietnamZone)
	svc := newTestService(base)

	forged, err := NewService("other-secret", fakeUserLookup{users: map[string]*models.User{
		"alice": {Username: "alice"},
	}}).WithClock(func() time.Time { return base }).IssueAccessToken("alice")
	require.NoError(t, err)

	_, err = svc.VerifyNotExpired(forged)
	require.Error(t, err)
	require.True(t, apperrors.Is(err, apperrors.TokenInvalid))
}

func TestIsValidFor(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, vietnamZone)
	svc := newTestService(base)

	access, err := svc.IssueAccessToken("alice")
	require.NoError(t, err)

	require.True(t, svc.IsValidFor(access, "alice"))
	require.False(t, svc.IsValidFor(access, "bob"))
	require.False(t, svc.IsValidFor("not.a.token", "alice"))

	svc.WithClock(func() time.Time { return base.Add(2 * time.Hour) })
	require.False(t, svc.IsValidFor(access, "alice"))
}

func TestExtractUsernameIgnoresExpiry(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, vietnamZone)
	svc := newTestService(base)

	access, err := svc.IssueAccessToken("alice")
	require.NoError(t, err)

	svc.WithClock(func() time.Time { return base.Add(48 * time.Hour) })

	username, err := svc.ExtractUsername(access)
	require.NoError(t, err)
	require.Equal(t, "alice", username)
}
