package auth

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/abokiste/abokiste/internal/user"
)

// ErrInvalidCredentials is returned when the email/password pair does
// not match an account. Login never reveals whether the email exists.
var ErrInvalidCredentials = errors.New("invalid email or password")

// UserSource resolves accounts for credential checks.
type UserSource interface {
	GetByEmail(ctx context.Context, email string) (*user.User, error)
}

// LoginResult is a successful authentication.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *user.User
}

// Service provides authentication operations.
type Service struct {
	users  UserSource
	jwt    *JWTService
	logger zerolog.Logger
}

// NewService creates a new auth service.
func NewService(users UserSource, jwt *JWTService, logger zerolog.Logger) *Service {
	return &Service{users: users, jwt: jwt, logger: logger}
}

// Login verifies the credentials and issues an access token.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.jwt.GenerateAccessToken(u)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", u.ID).
		Str("role", string(u.Role)).
		Msg("user logged in")

	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: u}, nil
}

// ValidateAccessToken validates an access token and returns the caller
// identity.
func (s *Service) ValidateAccessToken(tokenString string) (*Identity, error) {
	return s.jwt.ValidateAccessToken(tokenString)
}
