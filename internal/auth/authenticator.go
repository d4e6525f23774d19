package auth

import (
	"context"

	"splitshare/internal/models"
)

// Registration carries the details of a new account request.
type Registration struct {
	Email        string
	DisplayName  string
	MobileNumber string
	Password     string
}

// Authenticator defines the interface for authentication implementations.
// This abstraction allows swapping between different auth methods (password,
// passkeys, OAuth, etc.) without changing the service layer code.
type Authenticator interface {
	// Register creates a new user account.
	// Returns the created user or an error if registration fails.
	Register(ctx context.Context, reg Registration) (*models.User, error)

	// Authenticate verifies the user's credentials and returns the user if
	// successful.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks if the credential meets the implementation's
	// requirements (length, format, etc.).
	ValidateCredential(credential string) error
}
