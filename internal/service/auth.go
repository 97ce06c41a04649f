package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"story-server/internal/config"
	"story-server/shared/interfaces"
	"story-server/shared/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TokenSigner issues access tokens for a user.
type TokenSigner interface {
	SignToken(userID uuid.UUID, ttl time.Duration) (string, error)
}

// AuthService handles registration and login.
type AuthService interface {
	Register(ctx context.Context, name, username, email, password string) (*models.AuthResult, error)
	Login(ctx context.Context, email, password string) (*models.AuthResult, error)
}

var _ AuthService = (*authServiceImpl)(nil)

type authServiceImpl struct {
	userRepo interfaces.UserRepository
	signer   TokenSigner
	cfg      *config.Config
	logger   *zap.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo interfaces.UserRepository, signer TokenSigner, cfg *config.Config, logger *zap.Logger) AuthService {
	return &authServiceImpl{
		userRepo: userRepo,
		signer:   signer,
		cfg:      cfg,
		logger:   logger.Named("AuthService"),
	}
}

// Register creates a new user and returns it together with an access token.
func (s *authServiceImpl) Register(ctx context.Context, name, username, email, password string) (*models.AuthResult, error) {
	// Username и email храним в нижнем регистре
	name = strings.TrimSpace(name)
	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.ToLower(strings.TrimSpace(email))

	logFields := []zap.Field{zap.String("username", username), zap.String("email", email)}
	s.logger.Info("Registering new user", logFields...)

	if name == "" || username == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: name, username, email and password are required", models.ErrValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		s.logger.Warn("Registration attempt with invalid email format", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("%w: invalid email format", models.ErrValidation)
	}
	if len(password) < MinPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", models.ErrValidation, MinPasswordLength)
	}

	hashed, err := hashPassword(password, s.cfg.PasswordPepper)
	if err != nil {
		s.logger.Error("Failed to hash password during registration", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         name,
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
		Badges:       []string{},
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, models.ErrUserAlreadyExists) || errors.Is(err, models.ErrEmailAlreadyExists) {
			s.logger.Warn("Registration attempt for existing user", append(logFields, zap.Error(err))...)
			return nil, err
		}
		s.logger.Error("Failed to create user in repository", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.signer.SignToken(user.ID, s.cfg.AccessTokenTTL)
	if err != nil {
		s.logger.Error("Failed to sign token after registration", zap.String("userID", user.ID.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	s.logger.Info("User registered successfully", zap.String("userID", user.ID.String()))
	return &models.AuthResult{User: user, Token: token}, nil
}

// Login checks the credentials and returns the user with a fresh token.
// Unknown email and wrong password are indistinguishable for the caller.
func (s *authServiceImpl) Login(ctx context.Context, email, password string) (*models.AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", models.ErrValidation)
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			s.logger.Warn("Login attempt for non-existent email", zap.String("email", email))
			return nil, models.ErrInvalidCredentials
		}
		s.logger.Error("Error retrieving user during login", zap.String("email", email), zap.Error(err))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !checkPasswordHash(password, user.PasswordHash, s.cfg.PasswordPepper) {
		s.logger.Warn("Invalid password attempt", zap.String("userID", user.ID.String()))
		return nil, models.ErrInvalidCredentials
	}

	token, err := s.signer.SignToken(user.ID, s.cfg.AccessTokenTTL)
	if err != nil {
		s.logger.Error("Failed to sign token on login", zap.String("userID", user.ID.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	s.logger.Info("User logged in successfully", zap.String("userID", user.ID.String()))
	return &models.AuthResult{User: user, Token: token}, nil
}
