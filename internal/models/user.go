package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered user account.
// Participants and payers on expenses reference users by ID; the API surface
// addresses them by email.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Email is the user's email address (unique). Used for login and as the
	// public identifier on the expense API.
	Email string

	// DisplayName is the display name of the user.
	DisplayName string

	// MobileNumber is an optional contact number.
	MobileNumber string

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last account update.
	UpdatedAt int64
}

// NewUser creates a user with a fresh UUID and timestamps.
func NewUser(email, displayName, mobileNumber, passwordHash string) *User {
	now := time.Now().Unix()
	return &User{
		ID:           uuid.New().String(),
		Email:        email,
		DisplayName:  displayName,
		MobileNumber: mobileNumber,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
