package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ngminhphat/tip-b18-computer-ecommerce-be/apperrors"
	"github.com/ngminhphat/tip-b18-computer-ecommerce-be/models"
)

func validRegisterInput(username string) RegisterInput {
	return RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "Str0ng!Pass",
		Fullname: "Test User",
	}
}

func TestRegisterCreatesInactiveAccount(t *testing.T) {
	db := newTestDB(t)
	mail := &fakeMailer{}
	users := NewUserService(db, mail, testLogger())

	user, err := users.Register(validRegisterInput("alice"))
	require.NoError(t, err)
	require.False(t, user.IsActive)
	require.NotNil(t, user.ActivationToken)
	require.Len(t, mail.activationTokens, 1)
	require.Equal(t, *user.ActivationToken, mail.activationTokens[0])

	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("Str0ng!Pass")))
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db, &fakeMailer{}, testLogger())

	_, err := users.Register(validRegisterInput("alice"))
	require.NoError(t, err)

	_, err = users.Register(validRegisterInput("alice"))
	require.True(t, apperrors.Is(err, apperrors.Conflict))

	in := validRegisterInput("alice2")
	in.Email = "alice@example.com"
	_, err = users.Register(in)
	require.True(t, apperrors.Is(err, apperrors.Conflict))
}

func TestRegisterValidation(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db, &fakeMailer{}, testLogger())

	in := validRegisterInput("al")
	_, err := users.Register(in)
	require.True(t, apperrors.Is(err, apperrors.Validation))

	in = validRegisterInput("alice")
	in.Email = "not-an-email"
	_, err = users.Register(in)
	require.True(t, apperrors.Is(err, apperrors.Validation))

	in = validRegisterInput("alice")
	in.Password = "weakpass"
	_, err = users.Register(in)
	require.True(t, apperrors.Is(err, apperrors.Validation))
}

func TestActivateIsSingleUse(t *testing.T) {
	db := newTestDB(t)
	mail := &fakeMailer{}
	users := NewUserService(db, mail, testLogger())

	user, err := users.Register(validRegisterInput("alice"))
	require.NoError(t, err)
	activationToken := *user.ActivationToken

	require.NoError(t, users.Activate(activationToken))

	activated, err := users.FindByUsername("alice")
	require.NoError(t, err)
	require.True(t, activated.IsActive)
	require.Nil(t, activated.ActivationToken)

	err = users.Activate(activationToken)
	require.True(t, apperrors.Is(err, apperrors.NotFound))
}

func TestChangePassword(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db, &fakeMailer{}, testLogger())

	_, err := users.Register(validRegisterInput("alice"))
	require.NoError(t, err)

	err = users.ChangePassword("alice", "wrong-old", "N3w!Password")
	require.True(t, apperrors.Is(err, apperrors.Validation))

	require.NoError(t, users.ChangePassword("alice", "Str0ng!Pass", "N3w!Password"))

	user, err := users.FindByUsername("alice")
	require.NoError(t, err)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("N3w!Password")))
}

func TestForgotPasswordResetsAndMails(t *testing.T) {
	db := newTestDB(t)
	mail := &fakeMailer{}
	users := NewUserService(db, mail, testLogger())

	_, err := users.Register(validRegisterInput("alice"))
	require.NoError(t, err)

	require.NoError(t, users.ForgotPassword("alice@example.com"))
	require.Len(t, mail.resetPasswords, 1)

	user, err := users.FindByUsername("alice")
	require.NoError(t, err)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(mail.resetPasswords[0])))

	err = users.ForgotPassword("nobody@example.com")
	require.True(t, apperrors.Is(err, apperrors.NotFound))
}

func TestUpdateProfilePartial(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db, &fakeMailer{}, testLogger())

	created, err := users.Register(validRegisterInput("alice"))
	require.NoError(t, err)

	phone := "0123456789"
	updated, err := users.UpdateProfile(created.ID, UpdateProfileInput{Phone: &phone})
	require.NoError(t, err)
	require.Equal(t, phone, updated.Phone)
	require.Equal(t, "alice@example.com", updated.Email)

	_, err = users.Register(validRegisterInput("bob"))
	require.NoError(t, err)

	taken := "bob@example.com"
	_, err = users.UpdateProfile(created.ID, UpdateProfileInput{Email: &taken})
	require.True(t, apperrors.Is(err, apperrors.Conflict))
}

func TestPrimaryRoleIsDeterministic(t *testing.T) {
	user := models.User{Roles: []models.Role{{Name: models.RoleUser}, {Name: models.RoleAdmin}}}
	require.Equal(t, models.RoleAdmin, user.PrimaryRole())

	none := models.User{}
	require.Equal(t, models.RoleUser, none.PrimaryRole())
}
