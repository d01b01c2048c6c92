package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"qaforum/pkg/auth"
	pkgerrors "qaforum/pkg/errors"
)

func newAuthFixture(t *testing.T) (*AuthService, *memUserRepo, *auth.JWTValidator) {
	t.Helper()

	cfg := auth.JWTConfig{SecretKey: "test-secret", Issuer: "qaforum-test"}
	generator, err := auth.NewJWTGenerator(cfg)
	require.NoError(t, err)
	validator, err := auth.NewJWTValidator(cfg)
	require.NoError(t, err)

	userRepo := newMemUserRepo()
	return NewAuthService(userRepo, generator, zap.NewNop()), userRepo, validator
}

func TestAuthServiceRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("register issues a usable token", func(t *testing.T) {
		svc, _, validator := newAuthFixture(t)

		result, err := svc.Register(ctx, "alice", "alice@example.com", "secret1")

		require.NoError(t, err)
		assert.NotEmpty(t, result.Token)
		assert.Equal(t, "alice", result.User.Username)

		claims, err := validator.ValidateToken(result.Token)
		require.NoError(t, err)
		assert.Equal(t, result.User.ID, claims.UserID)
		assert.Equal(t, "alice", claims.Username)
	})

	t.Run("duplicate username conflicts", func(t *testing.T) {
		svc, _, _ := newAuthFixture(t)

		_, err := svc.Register(ctx, "alice", "alice@example.com", "secret1")
		require.NoError(t, err)

		_, err = svc.Register(ctx, "alice", "other@example.com", "secret1")
		assert.True(t, pkgerrors.IsConflict(err))
	})

	t.Run("invalid input rejected", func(t *testing.T) {
		svc, _, _ := newAuthFixture(t)

		_, err := svc.Register(ctx, "al", "alice@example.com", "secret1")
		assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeValidation))
	})
}

func TestAuthServiceLogin(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newAuthFixture(t)

	_, err := svc.Register(ctx, "alice", "alice@example.com", "secret1")
	require.NoError(t, err)

	t.Run("login by username", func(t *testing.T) {
		result, err := svc.Login(ctx, "alice", "secret1")
		require.NoError(t, err)
		assert.Equal(t, "alice", result.User.Username)
	})

	t.Run("login by email", func(t *testing.T) {
		result, err := svc.Login(ctx, "Alice@Example.com", "secret1")
		require.NoError(t, err)
		assert.Equal(t, "alice", result.User.Username)
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		_, err := svc.Login(ctx, "alice", "wrong-password")
		assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeUnauthorized))
	})

	t.Run("unknown user is unauthorized, not not-found", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody", "secret1")
		assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeUnauthorized))
	})
}
