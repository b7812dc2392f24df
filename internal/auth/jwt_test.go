package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abokiste/abokiste/internal/auth"
	"github.com/abokiste/abokiste/internal/user"
)

func newJWTService() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SigningKey: "test-secret-key-for-testing-only",
		Issuer:     "https://api.abokiste.shop",
		Audience:   "abokiste-api",
	})
}

func TestJWTService_GenerateAndValidateAccessToken(t *testing.T) {
	svc := newJWTService()

	u := &user.User{
		ID:        "usr_test123",
		Email:     "test@example.com",
		Role:      user.RoleSupplier,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	// Generate token
	token, expiresAt, err := svc.GenerateAccessToken(u)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))
	assert.WithinDuration(t, time.Now().Add(auth.AccessTokenExpiry), expiresAt, time.Minute)

	// Validate token
	identity, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, identity.UserID)
	assert.Equal(t, user.RoleSupplier, identity.Role)
}

func TestJWTService_InvalidToken(t *testing.T) {
	svc := newJWTService()

	tests := []struct {
		name  string
		token string
	}{
		{"empty token", ""},
		{"malformed token", "not.a.valid.jwt"},
		{"invalid base64", "xxx.yyy.zzz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateAccessToken(tt.token)
			assert.ErrorIs(t, err, auth.ErrInvalidAccessToken)
		})
	}
}

func TestJWTService_WrongSigningKey(t *testing.T) {
	svc := newJWTService()
	other := auth.NewJWTService(auth.JWTConfig{
		SigningKey: "a-completely-different-key",
		Issuer:     "https://api.abokiste.shop",
		Audience:   "abokiste-api",
	})

	token, _, err := svc.GenerateAccessToken(&user.User{ID: "usr_1", Role: user.RoleUser})
	require.NoError(t, err)

	_, err = other.ValidateAccessToken(token)
	assert.ErrorIs(t, err, auth.ErrInvalidAccessToken)
}

func TestJWTService_WrongAudience(t *testing.T) {
	svc := newJWTService()
	other := auth.NewJWTService(auth.JWTConfig{
		SigningKey: "test-secret-key-for-testing-only",
		Issuer:     "https://api.abokiste.shop",
		Audience:   "some-other-service",
	})

	token, _, err := svc.GenerateAccessToken(&user.User{ID: "usr_1", Role: user.RoleUser})
	require.NoError(t, err)

	_, err = other.ValidateAccessToken(token)
	assert.ErrorIs(t, err, auth.ErrInvalidAccessToken)
}
