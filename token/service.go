package token

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/ngminhphat/tip-b18-computer-ecommerce-be/apperrors"
	"github.com/ngminhphat/tip-b18-computer-ecommerce-be/models"
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"

	accessTTL  = time.Hour
	refreshTTL = 24 * time.Hour
)

// All expiry arithmetic runs under a fixed UTC+7 offset so tokens behave the
// same regardless of where the process runs.
var vietnamZone = time.FixedZone("UTC+7", 7*60*60)

// UserLookup is the user-record port the service reads subjects from.
type UserLookup interface {
	FindByUsername(username string) (*models.User, error)
}

type Claims struct {
	UserName  string `json:"userName"`
	Role      string `json:"role"`
	Exp       int64  `json:"exp"`
	JwtID     string `json:"jwtId,omitempty"`
	TokenType string `json:"tokenType"`
}

// Service issues and verifies the compact tokens built by the codec. The
// secret and clock are explicit constructor inputs, never ambient state.
type Service struct {
	secret string
	users  UserLookup
	now    func() time.Time
}

func NewService(secret string, users UserLookup) *Service {
	return &Service{
		secret: secret,
		users:  users,
		now:    func() time.Time { return time.Now().In(vietnamZone) },
	}
}

// WithClock replaces the time source. Tests use it to force expiry.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// IssueAccessToken looks the user up and signs a one-hour access token with a
// fresh jwtId. The embedded role is the user's highest-privilege role.
func (s *Service) IssueAccessToken(username string) (string, error) {
	user, err := s.users.FindByUsername(username)
	if err != nil {
		return "", err
	}
	return s.issue(Claims{
		UserName:  user.Username,
		Role:      user.PrimaryRole(),
		Exp:       s.now().Add(accessTTL).Unix(),
		JwtID:     uuid.NewString(),
		TokenType: TypeAccess,
	})
}

// RotateRefreshToken consumes a still-valid token and mints a 24-hour refresh
// token for the same subject. Expired input always fails, never falls through
// to issuance.
func (s *Service) RotateRefreshToken(oldToken string) (string, error) {
	expired, err := s.expiredState(oldToken)
	if err != nil {
		return "", err
	}
	if expired {
		return "", apperrors.New(apperrors.Forbidden, "refresh token was expired, please make a new sign in request")
	}
	username, err := s.ExtractUsername(oldToken)
	if err != nil {
		return "", err
	}
	user, err := s.users.FindByUsername(username)
	if err != nil {
		return "", err
	}
	return s.issue(Claims{
		UserName:  user.Username,
		Role:      user.PrimaryRole(),
		Exp:       s.now().Add(refreshTTL).Unix(),
		TokenType: TypeRefresh,
	})
}

// VerifyNotExpired reports whether the token's exp instant is strictly after
// now under the fixed offset. Structurally broken or forged tokens fail with
// TokenInvalid rather than reporting false.
func (s *Service) VerifyNotExpired(tok string) (bool, error) {
	expired, err := s.expiredState(tok)
	if err != nil {
		return false, err
	}
	return !expired, nil
}

// IsValidFor reports whether the token belongs to the expected username and is
// not expired.
func (s *Service) IsValidFor(tok, expectedUsername string) bool {
	username, err := s.ExtractUsername(tok)
	if err != nil {
		return false
	}
	valid, err := s.VerifyNotExpired(tok)
	if err != nil {
		return false
	}
	return username == expectedUsername && valid
}

// ExtractUsername returns the subject of a token that parses and carries a
// valid signature, regardless of expiry.
func (s *Service) ExtractUsername(tok string) (string, error) {
	claims, err := s.ParseClaims(tok)
	if err != nil {
		return "", err
	}
	return claims.UserName, nil
}

// ParseClaims decodes and signature-checks the token, returning its claims.
func (s *Service) ParseClaims(tok string) (*Claims, error) {
	decoded, err := Decode(tok, s.secret)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.TokenInvalid, "token is invalid", err)
	}
	if !decoded.SignatureValid {
		return nil, apperrors.New(apperrors.TokenInvalid, "token signature mismatch")
	}
	var claims Claims
	if err := json.Unmarshal(decoded.Payload, &claims); err != nil {
		return nil, apperrors.Wrap(apperrors.TokenInvalid, "token claims are invalid", err)
	}
	return &claims, nil
}

func (s *Service) expiredState(tok string) (bool, error) {
	claims, err := s.ParseClaims(tok)
	if err != nil {
		return false, err
	}
	expiry := time.Unix(claims.Exp, 0).In(vietnamZone)
	return !expiry.After(s.now()), nil
}

func (s *Service) issue(claims Claims) (string, error) {
	payload, err := json.Marshal(claims)
	if err != nil {
		return "", apperrors.Wrap(apperrors.Internal, "cannot marshal token claims", err)
	}
	return Encode([]byte(Header), payload, s.secret)
}
