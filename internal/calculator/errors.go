package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// InvalidSplitError reports a structurally invalid split request, such as an
// empty participant list, a duplicate participant, or a missing
// per-participant value.
type InvalidSplitError struct {
	Reason string
}

func (e *InvalidSplitError) Error() string {
	return fmt.Sprintf("invalid split: %s", e.Reason)
}

// SplitMismatchError reports that the supplied exact amounts do not sum to
// the expense total. It carries both sums so callers can surface them.
type SplitMismatchError struct {
	Sum   decimal.Decimal
	Total decimal.Decimal
}

func (e *SplitMismatchError) Error() string {
	return fmt.Sprintf("sum of splits (%s) must equal total amount (%s)", e.Sum, e.Total)
}

// PercentageMismatchError reports that the supplied percentages do not sum
// to 100.
type PercentageMismatchError struct {
	Sum decimal.Decimal
}

func (e *PercentageMismatchError) Error() string {
	return fmt.Sprintf("percentages must sum to 100, got %s", e.Sum)
}

// ConflictingFieldsError reports a participant entry that carries both an
// amount and a percentage.
type ConflictingFieldsError struct {
	User string
}

func (e *ConflictingFieldsError) Error() string {
	return fmt.Sprintf("cannot specify both amount and percentage for %s", e.User)
}
