// Package calculator implements the split and balance computations for
// Splitshare. Every function is a pure function of its inputs with no shared
// mutable state, so concurrent calls never interfere with each other.
package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"splitshare/internal/models"
)

var hundred = decimal.NewFromInt(100)

// Participant is one entry of a split request. Amount and Percentage are
// optional; which one is required depends on the split type.
type Participant struct {
	// User identifies the participant (email on the API surface).
	User string

	// Amount is the participant's exact share. Required for EXACT splits.
	Amount *decimal.Decimal

	// Percentage is the participant's share of the total in [0, 100].
	// Required for PERCENTAGE splits.
	Percentage *decimal.Decimal
}

// Share is the finalized share for one participant, ready for persistence.
type Share struct {
	User       string
	Amount     decimal.Decimal
	Percentage decimal.NullDecimal
}

// ComputeShares derives the authoritative per-participant shares for an
// expense, or rejects the request.
//
// Rules per split type:
//
//   - EQUAL: each share is total/n rounded half-up to two decimal places.
//     Any leftover cents from rounding are folded into the first
//     participant's share, so the shares always sum exactly to the total.
//   - EXACT: every entry must supply an amount, and the amounts must sum to
//     the total exactly.
//   - PERCENTAGE: every entry must supply a percentage in [0, 100], the
//     percentages must sum to 100 exactly, and each share is
//     percentage/100 x total rounded half-up to two decimal places. Shares
//     are rounded independently and may miss the total by a cent on
//     pathological percentage sets.
//
// Regardless of type, the total must be positive with at most two fraction
// digits, no participant may appear twice, and no entry may carry both an
// amount and a percentage.
func ComputeShares(total decimal.Decimal, splitType models.SplitType, participants []Participant) ([]Share, error) {
	if !total.IsPositive() {
		return nil, &InvalidSplitError{Reason: "total amount must be positive"}
	}
	if total.Exponent() < -2 {
		return nil, &InvalidSplitError{Reason: fmt.Sprintf("total amount %s has more than two decimal places", total)}
	}
	if !splitType.Valid() {
		return nil, &InvalidSplitError{Reason: fmt.Sprintf("unknown split type %q", splitType)}
	}
	if len(participants) == 0 {
		return nil, &InvalidSplitError{Reason: "at least one participant must be included in the split"}
	}

	seen := make(map[string]bool, len(participants))
	for _, p := range participants {
		if seen[p.User] {
			return nil, &InvalidSplitError{Reason: fmt.Sprintf("participant %s appears more than once", p.User)}
		}
		seen[p.User] = true
		if p.Amount != nil && p.Percentage != nil {
			return nil, &ConflictingFieldsError{User: p.User}
		}
	}

	switch splitType {
	case models.SplitEqual:
		return equalShares(total, participants), nil
	case models.SplitExact:
		return exactShares(total, participants)
	default:
		return percentageShares(total, participants)
	}
}

// equalShares divides the total evenly, assigning leftover cents to the
// first participant.
func equalShares(total decimal.Decimal, participants []Participant) []Share {
	n := decimal.NewFromInt(int64(len(participants)))
	perHead := total.DivRound(n, 2)

	shares := make([]Share, len(participants))
	for i, p := range participants {
		shares[i] = Share{User: p.User, Amount: perHead}
	}

	// Rounding can leave the sum a few cents off the total in either
	// direction; the first participant absorbs the difference.
	remainder := total.Sub(perHead.Mul(n))
	if !remainder.IsZero() {
		shares[0].Amount = shares[0].Amount.Add(remainder)
	}
	return shares
}

func exactShares(total decimal.Decimal, participants []Participant) ([]Share, error) {
	sum := decimal.Zero
	shares := make([]Share, len(participants))
	for i, p := range participants {
		if p.Amount == nil {
			return nil, &InvalidSplitError{Reason: fmt.Sprintf("exact split requires an amount for %s", p.User)}
		}
		amount := *p.Amount
		if amount.IsNegative() {
			return nil, &InvalidSplitError{Reason: fmt.Sprintf("amount for %s must not be negative", p.User)}
		}
		if amount.Exponent() < -2 {
			return nil, &InvalidSplitError{Reason: fmt.Sprintf("amount %s for %s has more than two decimal places", amount, p.User)}
		}
		sum = sum.Add(amount)
		shares[i] = Share{User: p.User, Amount: amount}
	}
	if !sum.Equal(total) {
		return nil, &SplitMismatchError{Sum: sum, Total: total}
	}
	return shares, nil
}

func percentageShares(total decimal.Decimal, participants []Participant) ([]Share, error) {
	sum := decimal.Zero
	shares := make([]Share, len(participants))
	for i, p := range participants {
		if p.Percentage == nil {
			return nil, &InvalidSplitError{Reason: fmt.Sprintf("percentage split requires a percentage for %s", p.User)}
		}
		pct := *p.Percentage
		if pct.IsNegative() || pct.GreaterThan(hundred) {
			return nil, &InvalidSplitError{Reason: fmt.Sprintf("percentage %s for %s must be between 0 and 100", pct, p.User)}
		}
		sum = sum.Add(pct)
		shares[i] = Share{
			User:       p.User,
			Amount:     pct.Mul(total).DivRound(hundred, 2),
			Percentage: decimal.NullDecimal{Decimal: pct, Valid: true},
		}
	}
	if !sum.Equal(hundred) {
		return nil, &PercentageMismatchError{Sum: sum}
	}
	return shares, nil
}
