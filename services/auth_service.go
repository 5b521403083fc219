//go:generate go run go.uber.org/mock/mockgen -source=auth_service.go -destination=../mocks/mock_auth_service.go -package=mocks
package services

import (
	"fmt"
	"time"

	"babelchat/auth"
	"babelchat/domain"
	"babelchat/errors"
	"babelchat/repositories"

	"github.com/google/uuid"
)

type IAuthService interface {
	Register(username, password, language string) (Token, error)
	Login(username, password string) (Token, error)
	Authenticate(token string) (domain.User, error)
}

type Token string

type AuthService struct {
	userRepository repositories.IUserRepository
	tokenDuration  time.Duration
}

func NewAuthService(repo repositories.IUserRepository, tokenDuration time.Duration) IAuthService {
	return &AuthService{userRepository: repo, tokenDuration: tokenDuration}
}

func (s *AuthService) Register(username, password, language string) (Token, error) {
	valReq := auth.RegisterRequest{
		Username: username,
		Password: password,
		Language: language,
	}

	// 1. Validate business rules (username shape, password complexity)
	// before any expensive cryptographic operation.
	if err := auth.ValidateRegister(valReq); err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrInvalidPassword, err)
	}

	// 2. Hash the password using Argon2id.
	// Done in the service layer to keep the repository unaware of plain passwords.
	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("hashing failed: %w", err)
	}

	// 3. Persist the user with the generated hash.
	user := domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		DisplayName:  username,
		Language:     language,
		PasswordHash: hashedPassword,
	}
	if err := s.userRepository.CreateUser(user); err != nil {
		return "", err // Propagates ErrUserAlreadyExists if the name is taken
	}

	// 4. Generate the initial session token.
	token, err := auth.GenerateToken(user.ID, s.tokenDuration)
	if err != nil {
		return "", errors.ErrTokenGeneration
	}

	return Token(token), nil
}

func (s *AuthService) Login(username, password string) (Token, error) {
	// Generic error on every failure path to prevent user enumeration.
	user, err := s.userRepository.GetUserByName(username)
	if err != nil {
		return "", errors.ErrInvalidCredentials
	}

	match, err := auth.ComparePassword(password, user.PasswordHash)
	if err != nil || !match {
		return "", errors.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, s.tokenDuration)
	if err != nil {
		return "", errors.ErrTokenGeneration
	}

	return Token(token), nil
}

// Authenticate resolves a bearer token to its account. Both websocket
// upgrades and REST calls funnel through here.
func (s *AuthService) Authenticate(token string) (domain.User, error) {
	claims, err := auth.ValidateToken(token)
	if err != nil {
		return domain.User{}, errors.ErrInvalidCredentials
	}
	user, err := s.userRepository.GetUser(claims.UserID)
	if err != nil {
		return domain.User{}, errors.ErrInvalidCredentials
	}
	return user, nil
}
