package models

import "github.com/shopspring/decimal"

// SplitType identifies how an expense's total is divided among participants.
type SplitType string

const (
	// SplitEqual divides the total evenly among all participants.
	SplitEqual SplitType = "EQUAL"

	// SplitExact uses caller-supplied amounts that must sum to the total.
	SplitExact SplitType = "EXACT"

	// SplitPercentage uses caller-supplied percentages that must sum to 100.
	SplitPercentage SplitType = "PERCENTAGE"
)

// Valid reports whether t is one of the known split types.
func (t SplitType) Valid() bool {
	switch t {
	case SplitEqual, SplitExact, SplitPercentage:
		return true
	}
	return false
}

// Expense represents a shared expense paid by one user and divided among
// participants. Expenses are immutable after creation.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// Title is the human-readable description of the expense.
	Title string

	// Amount is the total amount of the expense, two fraction digits.
	Amount decimal.Decimal

	// SplitType is the strategy used to divide Amount among participants.
	SplitType SplitType

	// PaidByID is the ID of the user who paid the expense.
	PaidByID string

	// CreatedAt is the Unix timestamp when the expense was created.
	CreatedAt int64
}

// ExpenseWithSplits joins an expense with its splits and the emails of the
// payer and participants. It is the read model the aggregation queries and
// the API responses are built from.
type ExpenseWithSplits struct {
	Expense

	// PaidByEmail is the payer's email address.
	PaidByEmail string

	// Splits holds one entry per participant.
	Splits []SplitWithUser
}
