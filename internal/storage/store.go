// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"splitshare/internal/models"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the interface for user and expense storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateUser persists a new user.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email address.
	// Returns (nil, nil) if no user has that email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID.
	// Returns (nil, nil) if no user has that ID.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// ListUsers returns all registered users ordered by email.
	ListUsers(ctx context.Context) ([]*models.User, error)

	// CreateExpense persists an expense and all its splits in a single
	// transaction: either everything commits or nothing does. Missing IDs
	// and timestamps are populated by the store.
	CreateExpense(ctx context.Context, expense *models.Expense, splits []models.Split) error

	// GetExpense retrieves one expense with its splits and user emails.
	// Returns ErrNotFound if the expense does not exist.
	GetExpense(ctx context.Context, id string) (*models.ExpenseWithSplits, error)

	// ListExpenses returns every expense with its splits and user emails,
	// ordered by creation time descending.
	ListExpenses(ctx context.Context) ([]*models.ExpenseWithSplits, error)

	// Close releases any resources held by the store.
	Close() error
}
