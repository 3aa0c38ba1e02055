package services

import (
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ngminhphat/tip-b18-computer-ecommerce-be/apperrors"
	"github.com/ngminhphat/tip-b18-computer-ecommerce-be/models"
	"github.com/ngminhphat/tip-b18-computer-ecommerce-be/token"
)

type AuthService struct {
	db     *gorm.DB
	users  *UserService
	tokens *token.Service
	log    zerolog.Logger
}

func NewAuthService(db *gorm.DB, users *UserService, tokens *token.Service, log zerolog.Logger) *AuthService {
	return &AuthService{db: db, users: users, tokens: tokens, log: log}
}

type LoginResult struct {
	User         *models.User
	AccessToken  string
	RefreshToken string
}

// Login issues an access token, derives a refresh token from it and persists
// the refresh token in the user's single slot. Logging in elsewhere overwrites
// the slot, silently ending the previous session.
func (s *AuthService) Login(username, password string) (*LoginResult, error) {
	user, err := s.users.FindByUsername(username)
	if err != nil {
		if apperrors.Is(err, apperrors.NotFound) {
			return nil, apperrors.New(apperrors.Unauthorized, "username or password is incorrect")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.New(apperrors.Unauthorized, "account not activated, please check your email")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, apperrors.New(apperrors.Unauthorized, "username or password is incorrect")
	}

	accessToken, err := s.tokens.IssueAccessToken(user.Username)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.tokens.RotateRefreshToken(accessToken)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(user).Update("refresh_token", refreshToken).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "cannot persist refresh token", err)
	}
	user.RefreshToken = &refreshToken

	s.log.Info().Str("username", user.Username).Msg("user logged in")
	return &LoginResult{User: user, AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Refresh consumes a still-valid token and returns a fresh refresh token for
// the same subject.
func (s *AuthService) Refresh(oldToken string) (string, error) {
	return s.tokens.RotateRefreshToken(oldToken)
}

// Logout clears the refresh-token slot of whichever user owns the presented
// token value. A token no user owns is invalid.
func (s *AuthService) Logout(tok string) error {
	valid, err := s.tokens.VerifyNotExpired(tok)
	if err != nil {
		return err
	}
	if !valid {
		return apperrors.New(apperrors.Unauthorized, "token is expired")
	}

	user, err := s.users.GetUserByRefreshToken(tok)
	if err != nil {
		return err
	}
	if err := s.db.Model(user).Update("refresh_token", nil).Error; err != nil {
		return apperrors.Wrap(apperrors.Internal, "cannot clear refresh token", err)
	}

	s.log.Info().Str("username", user.Username).Msg("user logged out")
	return nil
}
