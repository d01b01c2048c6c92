package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	cfg := JWTConfig{SecretKey: "test-secret", Issuer: "qaforum-test", Expiry: time.Hour}
	generator, err := NewJWTGenerator(cfg)
	require.NoError(t, err)
	validator, err := NewJWTValidator(cfg)
	require.NoError(t, err)

	token, err := generator.GenerateToken("user-1", "alice")
	require.NoError(t, err)

	claims, err := validator.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "qaforum-test", claims.Issuer)
	assert.Equal(t, "user-1", claims.Subject)
}

func TestExpiredToken(t *testing.T) {
	cfg := JWTConfig{SecretKey: "test-secret", Expiry: -time.Minute}
	generator, err := NewJWTGenerator(cfg)
	require.NoError(t, err)
	validator, err := NewJWTValidator(cfg)
	require.NoError(t, err)

	token, err := generator.GenerateToken("user-1", "alice")
	require.NoError(t, err)

	_, err = validator.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestWrongSecret(t *testing.T) {
	generator, err := NewJWTGenerator(JWTConfig{SecretKey: "secret-a", Expiry: time.Hour})
	require.NoError(t, err)
	validator, err := NewJWTValidator(JWTConfig{SecretKey: "secret-b"})
	require.NoError(t, err)

	token, err := generator.GenerateToken("user-1", "alice")
	require.NoError(t, err)

	_, err = validator.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestMalformedToken(t *testing.T) {
	validator, err := NewJWTValidator(JWTConfig{SecretKey: "test-secret"})
	require.NoError(t, err)

	_, err = validator.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMissingSecretRejected(t *testing.T) {
	_, err := NewJWTGenerator(JWTConfig{})
	assert.Error(t, err)

	_, err = NewJWTValidator(JWTConfig{})
	assert.Error(t, err)
}
