package models

import "github.com/shopspring/decimal"

// Split represents one participant's share of an expense.
// A user appears at most once among an expense's splits, and the split
// amounts sum to the expense amount under the strategy's rounding policy.
// Splits are created in the same transaction as their expense and never
// mutated afterward.
type Split struct {
	// ID is the unique identifier for the split (UUID format).
	ID string

	// ExpenseID is the expense this split belongs to.
	ExpenseID string

	// UserID is the participant's user ID.
	UserID string

	// Amount is the participant's share of the expense amount.
	Amount decimal.Decimal

	// Percentage is the participant's share as a percentage of the total.
	// Only set for percentage splits; Valid is false otherwise.
	Percentage decimal.NullDecimal
}

// SplitWithUser joins a split with the participant's email address.
type SplitWithUser struct {
	Split

	// UserEmail is the participant's email address.
	UserEmail string
}
