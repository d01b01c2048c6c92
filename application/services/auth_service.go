package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"qaforum/application/ports"
	"qaforum/domain/core/entities"
	"qaforum/pkg/auth"
	pkgerrors "qaforum/pkg/errors"
)

// AuthResult carries the outcome of a successful registration or login
type AuthResult struct {
	Token string         `json:"token"`
	User  *entities.User `json:"user"`
}

// AuthService handles registration and credential-based login
type AuthService struct {
	userRepo  ports.UserRepository
	generator *auth.JWTGenerator
	logger    *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo ports.UserRepository, generator *auth.JWTGenerator, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		generator: generator,
		logger:    logger,
	}
}

// Register creates a new user account and returns a signed token for it
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*AuthResult, error) {
	user, err := entities.NewUser(username, email, password)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.generator.GenerateToken(user.ID, user.Username)
	if err != nil {
		s.logger.Error("Failed to generate token", zap.String("userID", user.ID), zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to generate token").WithCause(err)
	}

	s.logger.Info("User registered",
		zap.String("userID", user.ID),
		zap.String("username", user.Username),
	)

	return &AuthResult{Token: token, User: user}, nil
}

// Login verifies credentials and returns a signed token. The identifier may
// be a username or an email address. Lookup failures and password mismatches
// are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*AuthResult, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, pkgerrors.NewValidationError("identifier and password are required")
	}

	var user *entities.User
	var err error
	if strings.Contains(identifier, "@") {
		user, err = s.userRepo.GetByEmail(ctx, strings.ToLower(identifier))
	} else {
		user, err = s.userRepo.GetByUsername(ctx, identifier)
	}
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return nil, pkgerrors.NewUnauthorizedError("invalid credentials")
		}
		return nil, err
	}

	if !user.CheckPassword(password) {
		return nil, pkgerrors.NewUnauthorizedError("invalid credentials")
	}

	token, err := s.generator.GenerateToken(user.ID, user.Username)
	if err != nil {
		s.logger.Error("Failed to generate token", zap.String("userID", user.ID), zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to generate token").WithCause(err)
	}

	return &AuthResult{Token: token, User: user}, nil
}
