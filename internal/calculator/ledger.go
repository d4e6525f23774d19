package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"splitshare/internal/models"
)

// LedgerRow is one row of the flattened export: one participant's share of
// one expense.
type LedgerRow struct {
	Date            int64
	Description     string
	TotalAmount     decimal.Decimal
	PaidBy          string
	SplitType       models.SplitType
	Participant     string
	ShareAmount     decimal.Decimal
	SharePercentage decimal.NullDecimal // invalid for non-percentage splits
}

// Ledger flattens expenses into one row per split, ordered by expense
// creation time descending. Rows of the same expense keep their split order.
func Ledger(expenses []ExpenseForBalance) []LedgerRow {
	ordered := make([]ExpenseForBalance, len(expenses))
	copy(ordered, expenses)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt > ordered[j].CreatedAt
	})

	var rows []LedgerRow
	for _, exp := range ordered {
		for _, share := range exp.Splits {
			rows = append(rows, LedgerRow{
				Date:            exp.CreatedAt,
				Description:     exp.Title,
				TotalAmount:     exp.Amount,
				PaidBy:          exp.PaidBy,
				SplitType:       exp.SplitType,
				Participant:     share.User,
				ShareAmount:     share.Amount,
				SharePercentage: share.Percentage,
			})
		}
	}
	return rows
}
