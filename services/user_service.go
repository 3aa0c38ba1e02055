package services

import (
	"crypto/rand"
	"errors"
	"math/big"
	"regexp"
	"unicode"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ngminhphat/tip-b18-computer-ecommerce-be/apperrors"
	"github.com/ngminhphat/tip-b18-computer-ecommerce-be/models"
)

// Mailer is the outbound email port. The SMTP implementation lives in the
// mailer package; tests plug in a fake.
type Mailer interface {
	SendActivationEmail(to, username, activationToken string) error
	SendPasswordResetEmail(to, username, newPassword string) error
}

type UserService struct {
	db     *gorm.DB
	mailer Mailer
	log    zerolog.Logger
}

func NewUserService(db *gorm.DB, mailer Mailer, log zerolog.Logger) *UserService {
	return &UserService{db: db, mailer: mailer, log: log}
}

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`)
)

func ValidateUsername(username string) bool {
	if len(username) < 4 || len(username) > 20 {
		return false
	}
	return usernamePattern.MatchString(username)
}

func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func ValidatePassword(password string) bool {
	if len(password) < 8 || len(password) > 50 {
		return false
	}

	var (
		isUpper   = false
		isLower   = false
		isNumber  = false
		isSpecial = false
		isSpace   = false
	)

	for _, s := range password {
		switch {
		case unicode.IsSpace(s):
			isSpace = true
		case unicode.IsUpper(s):
			isUpper = true
		case unicode.IsLower(s):
			isLower = true
		case unicode.IsDigit(s):
			isNumber = true
		case unicode.IsPunct(s) || unicode.IsSymbol(s):
			isSpecial = true
		}
	}

	return isUpper && isLower && isNumber && isSpecial && !isSpace
}

type RegisterInput struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Fullname string `json:"fullname"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// Register creates an inactive account, stores a single-use activation token
// and mails the activation link.
func (s *UserService) Register(in RegisterInput) (*models.User, error) {
	if !ValidateUsername(in.Username) {
		return nil, apperrors.New(apperrors.Validation, "username is invalid")
	}
	if !ValidateEmail(in.Email) {
		return nil, apperrors.New(apperrors.Validation, "email is invalid")
	}
	if !ValidatePassword(in.Password) {
		return nil, apperrors.New(apperrors.Validation, "password is too weak")
	}

	var count int64
	s.db.Model(&models.User{}).Where("username = ?", in.Username).Count(&count)
	if count > 0 {
		return nil, apperrors.New(apperrors.Conflict, "username already registered: "+in.Username)
	}
	s.db.Model(&models.User{}).Where("email = ?", in.Email).Count(&count)
	if count > 0 {
		return nil, apperrors.New(apperrors.Conflict, "email already registered: "+in.Email)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "cannot hash password", err)
	}

	activationToken := uuid.NewString()
	user := models.User{
		Username:        in.Username,
		Email:           in.Email,
		Password:        string(hashed),
		Fullname:        in.Fullname,
		Phone:           in.Phone,
		Address:         in.Address,
		IsActive:        false,
		ActivationToken: &activationToken,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "cannot save user", err)
	}

	if err := s.mailer.SendActivationEmail(user.Email, user.Username, activationToken); err != nil {
		s.log.Error().Err(err).Str("email", user.Email).Msg("cannot send activation email")
	}

	return &user, nil
}

// Activate flips the account active and clears the token. The token is
// single-use: a second call with the same value no longer resolves a user.
func (s *UserService) Activate(activationToken string) error {
	var user models.User
	err := s.db.Where("activation_token = ?", activationToken).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.New(apperrors.NotFound, "activation token is invalid or expired")
		}
		return apperrors.Wrap(apperrors.Internal, "cannot look up activation token", err)
	}

	return s.db.Model(&user).Updates(map[string]interface{}{
		"is_active":        true,
		"activation_token": nil,
	}).Error
}

// FindByUsername satisfies token.UserLookup.
func (s *UserService) FindByUsername(username string) (*models.User, error) {
	var user models.User
	err := s.db.Preload("Roles").Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.NotFound, "user not found")
		}
		return nil, apperrors.Wrap(apperrors.Internal, "cannot look up user", err)
	}
	return &user, nil
}

func (s *UserService) FindByID(id string) (*models.User, error) {
	var user models.User
	err := s.db.Preload("Roles").Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.NotFound, "user not found")
		}
		return nil, apperrors.Wrap(apperrors.Internal, "cannot look up user", err)
	}
	return &user, nil
}

func (s *UserService) GetUserByRefreshToken(refreshToken string) (*models.User, error) {
	var user models.User
	err := s.db.Where("refresh_token = ?", refreshToken).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.TokenInvalid, "token is invalid")
		}
		return nil, apperrors.Wrap(apperrors.Internal, "cannot look up refresh token", err)
	}
	return &user, nil
}

func (s *UserService) ChangePassword(username, oldPassword, newPassword string) error {
	if !ValidatePassword(newPassword) {
		return apperrors.New(apperrors.Validation, "new password is too weak")
	}
	user, err := s.FindByUsername(username)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)) != nil {
		return apperrors.New(apperrors.Validation, "old password is not correct")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Wrap(apperrors.Internal, "cannot hash password", err)
	}
	return s.db.Model(user).Update("password", string(hashed)).Error
}

// ForgotPassword resets the account to a random temporary password and mails
// it to the owner.
func (s *UserService) ForgotPassword(email string) error {
	var user models.User
	err := s.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.New(apperrors.NotFound, "email not found")
		}
		return apperrors.Wrap(apperrors.Internal, "cannot look up email", err)
	}

	newPassword, err := randomPassword(10)
	if err != nil {
		return apperrors.Wrap(apperrors.Internal, "cannot generate password", err)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Wrap(apperrors.Internal, "cannot hash password", err)
	}
	if err := s.db.Model(&user).Update("password", string(hashed)).Error; err != nil {
		return err
	}

	return s.mailer.SendPasswordResetEmail(user.Email, user.Username, newPassword)
}

type UpdateProfileInput struct {
	Fullname *string `json:"fullname"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
}

func (s *UserService) UpdateProfile(userID string, in UpdateProfileInput) (*models.User, error) {
	user, err := s.FindByID(userID)
	if err != nil {
		return nil, err
	}

	if in.Email != nil && *in.Email != user.Email {
		if !ValidateEmail(*in.Email) {
			return nil, apperrors.New(apperrors.Validation, "email is invalid")
		}
		var count int64
		s.db.Model(&models.User{}).Where("email = ? AND id <> ?", *in.Email, userID).Count(&count)
		if count > 0 {
			return nil, apperrors.New(apperrors.Conflict, "email already registered: "+*in.Email)
		}
		user.Email = *in.Email
	}
	if in.Fullname != nil {
		user.Fullname = *in.Fullname
	}
	if in.Phone != nil {
		user.Phone = *in.Phone
	}
	if in.Address != nil {
		user.Address = *in.Address
	}

	if err := s.db.Save(user).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "cannot save user", err)
	}
	return user, nil
}

func (s *UserService) ListUsers() ([]models.User, error) {
	var users []models.User
	if err := s.db.Preload("Roles").Find(&users).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "cannot list users", err)
	}
	return users, nil
}

const passwordAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

func randomPassword(n int) (string, error) {
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(passwordAlphabet))))
		if err != nil {
			return "", err
		}
		out[i] = passwordAlphabet[idx.Int64()]
	}
	return string(out), nil
}
