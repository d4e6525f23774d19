package service

import (
	"context"
	"log/slog"

	"splitshare/internal/auth"
	"splitshare/internal/models"
	"splitshare/internal/storage"
)

// AuthService handles registration, login, and user listing.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	store         storage.Store
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, store storage.Store) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		store:         store,
	}
}

// Register creates a new user account and returns it with a session token.
func (s *AuthService) Register(ctx context.Context, reg auth.Registration) (*models.User, string, error) {
	if reg.Email == "" {
		return nil, "", &MissingParameterError{Name: "email"}
	}
	if reg.DisplayName == "" {
		return nil, "", &MissingParameterError{Name: "display_name"}
	}

	user, err := s.authenticator.Register(ctx, reg)
	if err != nil {
		slog.Warn("Registration failed", "email", reg.Email, "error", err)
		return nil, "", err
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		slog.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, "", err
	}

	slog.Info("User registered", "user_id", user.ID, "email", user.Email)
	return user, token, nil
}

// Login authenticates a user and returns a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	if email == "" || password == "" {
		return nil, "", auth.ErrInvalidCredentials
	}

	user, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		slog.Warn("Login failed", "email", email)
		return nil, "", err
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		slog.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, "", err
	}

	slog.Info("User logged in", "user_id", user.ID, "email", user.Email)
	return user, token, nil
}

// Users returns all registered users ordered by email.
func (s *AuthService) Users(ctx context.Context) ([]*models.User, error) {
	return s.store.ListUsers(ctx)
}
