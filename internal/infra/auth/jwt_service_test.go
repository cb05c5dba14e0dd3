package auth

import (
	"testing"
	"time"

	"rentalhub/config"
	"rentalhub/internal/domain/entity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfig(secret string) *config.Config {
	cfg := &config.Config{}
	cfg.SecretKey.Access = secret

	return cfg
}

func TestJWTService_IssueAndValidate(t *testing.T) {
	jwtService, err := NewJWTService(newTestConfig("test_access_secret_key_very_long_for_testing"))
	require.NoError(t, err)

	principal := entity.Principal{ID: uuid.New(), Roles: entity.Roles{entity.RoleUser, entity.RoleAdmin}}

	token, err := jwtService.IssueToken(principal, time.Minute)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := jwtService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, principal.ID, claims.UserID)
	assert.Equal(t, []string{"user", "admin"}, claims.Roles)
	assert.Equal(t, principal, claims.Principal())
	assert.True(t, claims.Principal().IsStaff())
}

func TestJWTService_InvalidToken(t *testing.T) {
	jwtService, err := NewJWTService(newTestConfig("test_access_secret_key_very_long_for_testing"))
	require.NoError(t, err)

	_, err = jwtService.ValidateToken("invalid.token.string")
	assert.Error(t, err)
}

func TestJWTService_ExpiredToken(t *testing.T) {
	jwtService, err := NewJWTService(newTestConfig("test_access_secret_key_very_long_for_testing"))
	require.NoError(t, err)

	token, err := jwtService.IssueToken(entity.Principal{ID: uuid.New()}, -time.Minute)
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWTService_WrongSecret(t *testing.T) {
	issuer, err := NewJWTService(newTestConfig("first_secret_key_very_long_for_testing"))
	require.NoError(t, err)
	verifier, err := NewJWTService(newTestConfig("second_secret_key_very_long_for_testing"))
	require.NoError(t, err)

	token, err := issuer.IssueToken(entity.Principal{ID: uuid.New()}, time.Minute)
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestJWTService_NonUUIDSubject(t *testing.T) {
	secret := "test_access_secret_key_very_long_for_testing"
	jwtService, err := NewJWTService(newTestConfig(secret))
	require.NoError(t, err)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "not-a-uuid",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}).SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(token)
	assert.Error(t, err)
}

func TestNewJWTService_RequiresSecret(t *testing.T) {
	_, err := NewJWTService(newTestConfig(""))
	assert.Error(t, err)
}
