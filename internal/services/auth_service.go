package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rentopedia/rentals-service/internal/dtos"
	"github.com/rentopedia/rentals-service/internal/middleware"
	"github.com/rentopedia/rentals-service/internal/models"
	"github.com/rentopedia/rentals-service/internal/repositories"
	"github.com/rentopedia/rentals-service/internal/utils"
)

// AuthService handles registration and session-token issuance.
type AuthService struct {
	users    repositories.UserRepository
	secret   []byte
	tokenTTL time.Duration
}

func NewAuthService(users repositories.UserRepository, secret []byte, tokenTTL time.Duration) *AuthService {
	return &AuthService{users: users, secret: secret, tokenTTL: tokenTTL}
}

func (s *AuthService) Register(ctx context.Context, req dtos.RegisterRequest) error {
	username := strings.ToLower(req.Username)

	existing, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if existing != nil {
		return utils.ErrUsernameTaken
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return err
	}

	return s.users.Create(ctx, &models.User{
		ID:           uuid.New(),
		Name:         req.Name,
		Username:     username,
		Email:        strings.ToLower(req.Email),
		PasswordHash: hash,
	})
}

// Login verifies credentials and returns a signed session token. The
// same error covers unknown-user and wrong-password.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.GetByUsername(ctx, strings.ToLower(username))
	if err != nil {
		return "", err
	}
	if user == nil || !utils.CheckPasswordHash(password, user.PasswordHash) {
		return "", utils.ErrInvalidCredentials
	}

	return middleware.IssueToken(s.secret, user.ID.String(), user.Username, s.tokenTTL)
}

func (s *AuthService) TokenTTL() time.Duration {
	return s.tokenTTL
}
