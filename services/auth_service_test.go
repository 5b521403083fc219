package services_test

import (
	"testing"
	"time"

	"babelchat/auth"
	"babelchat/domain"
	"babelchat/errors"
	"babelchat/mocks"
	"babelchat/services"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestAuthService_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockIUserRepository(ctrl)
	svc := services.NewAuthService(mockRepo, 24*time.Hour)

	t.Run("should register successfully when input is valid", func(t *testing.T) {
		req := require.New(t)
		username := "alice"
		password := "ComplexPass123!"

		// Expect CreateUser to be called with a hashed password (not the plain one)
		mockRepo.EXPECT().
			CreateUser(gomock.Any()).
			DoAndReturn(func(user domain.User) error {
				req.Equal(username, user.Username)
				req.NotEmpty(user.ID)
				req.NotEqual(password, user.PasswordHash)
				return nil
			}).
			Times(1)

		token, err := svc.Register(username, password, "fr")

		req.NoError(err)
		req.NotEmpty(token)
	})

	t.Run("should fail when password complexity is not met", func(t *testing.T) {
		req := require.New(t)

		// Repository should NEVER be called
		mockRepo.EXPECT().CreateUser(gomock.Any()).Times(0)

		token, err := svc.Register("alice", "simple", "")

		req.Error(err)
		req.ErrorIs(err, errors.ErrInvalidPassword)
		req.Empty(token)
	})

	t.Run("should fail when username is already taken", func(t *testing.T) {
		req := require.New(t)

		mockRepo.EXPECT().
			CreateUser(gomock.Any()).
			Return(errors.ErrUserAlreadyExists).
			Times(1)

		_, err := svc.Register("alice", "ComplexPass123!", "")

		req.ErrorIs(err, errors.ErrUserAlreadyExists)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockIUserRepository(ctrl)
	svc := services.NewAuthService(mockRepo, 24*time.Hour)

	password := "ComplexPass123!"
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)

	t.Run("should login successfully with correct credentials", func(t *testing.T) {
		req := require.New(t)

		mockRepo.EXPECT().
			GetUserByName("alice").
			Return(domain.User{ID: "user-1", Username: "alice", PasswordHash: hash}, nil)

		token, err := svc.Login("alice", password)

		req.NoError(err)
		req.NotEmpty(token)
	})

	t.Run("should fail with a wrong password", func(t *testing.T) {
		req := require.New(t)

		mockRepo.EXPECT().
			GetUserByName("alice").
			Return(domain.User{ID: "user-1", Username: "alice", PasswordHash: hash}, nil)

		_, err := svc.Login("alice", "WrongPass456!")

		req.ErrorIs(err, errors.ErrInvalidCredentials)
	})

	t.Run("should fail with the same error for an unknown user", func(t *testing.T) {
		req := require.New(t)

		mockRepo.EXPECT().
			GetUserByName("nobody").
			Return(domain.User{}, errors.ErrNotFound)

		_, err := svc.Login("nobody", password)

		// Generic error to prevent user enumeration
		req.ErrorIs(err, errors.ErrInvalidCredentials)
	})
}

func TestAuthService_Authenticate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockIUserRepository(ctrl)
	svc := services.NewAuthService(mockRepo, 24*time.Hour)

	t.Run("should resolve a valid token to its user", func(t *testing.T) {
		req := require.New(t)

		token, err := auth.GenerateToken("user-1", time.Hour)
		req.NoError(err)

		mockRepo.EXPECT().
			GetUser("user-1").
			Return(domain.User{ID: "user-1", Username: "alice"}, nil)

		user, err := svc.Authenticate(token)

		req.NoError(err)
		req.Equal("alice", user.Username)
	})

	t.Run("should reject a garbage token without hitting storage", func(t *testing.T) {
		req := require.New(t)

		_, err := svc.Authenticate("not-a-jwt")

		req.ErrorIs(err, errors.ErrInvalidCredentials)
	})

	t.Run("should reject an expired token", func(t *testing.T) {
		req := require.New(t)

		token, err := auth.GenerateToken("user-1", -time.Minute)
		req.NoError(err)

		_, err = svc.Authenticate(token)

		req.ErrorIs(err, errors.ErrInvalidCredentials)
	})
}
