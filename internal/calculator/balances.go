package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"splitshare/internal/models"
)

// ExpenseForBalance carries the minimal expense information needed for
// balance calculations. The service layer builds these from persisted
// expenses at query time; no balance state is cached anywhere.
type ExpenseForBalance struct {
	Title     string
	Amount    decimal.Decimal
	SplitType models.SplitType
	PaidBy    string // payer's email
	CreatedAt int64
	Splits    []ShareForBalance
}

// ShareForBalance is one participant's share within an ExpenseForBalance.
type ShareForBalance struct {
	User       string // participant's email
	Amount     decimal.Decimal
	Percentage decimal.NullDecimal
}

// UserBalance is the paid/owed/net triple for one user.
type UserBalance struct {
	User       string
	TotalPaid  decimal.Decimal
	TotalOwed  decimal.Decimal
	NetBalance decimal.Decimal // TotalPaid - TotalOwed
}

// BreakdownEntry is one split a user participates in, joined with its parent
// expense's metadata.
type BreakdownEntry struct {
	ExpenseTitle  string
	ExpenseAmount decimal.Decimal
	SplitType     models.SplitType
	PaidBy        string
	Amount        decimal.Decimal
	Percentage    decimal.NullDecimal
}

// Balances computes the paid/owed/net triple for every known user.
// knownUsers seeds the result so registered users without any expenses still
// get a zero row. Rows are sorted by user ascending for a stable order.
func Balances(expenses []ExpenseForBalance, knownUsers []string) []UserBalance {
	balances := make(map[string]*UserBalance, len(knownUsers))
	ensure := func(user string) *UserBalance {
		b, ok := balances[user]
		if !ok {
			b = &UserBalance{User: user, TotalPaid: decimal.Zero, TotalOwed: decimal.Zero}
			balances[user] = b
		}
		return b
	}

	for _, user := range knownUsers {
		ensure(user)
	}
	for _, exp := range expenses {
		ensure(exp.PaidBy).TotalPaid = balances[exp.PaidBy].TotalPaid.Add(exp.Amount)
		for _, share := range exp.Splits {
			ensure(share.User).TotalOwed = balances[share.User].TotalOwed.Add(share.Amount)
		}
	}

	users := make([]string, 0, len(balances))
	for user := range balances {
		users = append(users, user)
	}
	sort.Strings(users)

	result := make([]UserBalance, len(users))
	for i, user := range users {
		b := balances[user]
		b.NetBalance = b.TotalPaid.Sub(b.TotalOwed)
		result[i] = *b
	}
	return result
}

// UserSummary computes one user's balance triple plus the breakdown of every
// split the user participates in.
func UserSummary(user string, expenses []ExpenseForBalance) (UserBalance, []BreakdownEntry) {
	balance := UserBalance{User: user, TotalPaid: decimal.Zero, TotalOwed: decimal.Zero}
	var breakdown []BreakdownEntry

	for _, exp := range expenses {
		if exp.PaidBy == user {
			balance.TotalPaid = balance.TotalPaid.Add(exp.Amount)
		}
		for _, share := range exp.Splits {
			if share.User != user {
				continue
			}
			balance.TotalOwed = balance.TotalOwed.Add(share.Amount)
			breakdown = append(breakdown, BreakdownEntry{
				ExpenseTitle:  exp.Title,
				ExpenseAmount: exp.Amount,
				SplitType:     exp.SplitType,
				PaidBy:        exp.PaidBy,
				Amount:        share.Amount,
				Percentage:    share.Percentage,
			})
		}
	}

	balance.NetBalance = balance.TotalPaid.Sub(balance.TotalOwed)
	return balance, breakdown
}

// InvolvedExpense is an expense a user participates in, with the user's own
// share alongside the expense's metadata.
type InvolvedExpense struct {
	Date        int64
	Description string
	TotalAmount decimal.Decimal
	PaidBy      string
	SplitType   models.SplitType
	Share       decimal.Decimal
	Percentage  decimal.NullDecimal
}

// PaidExpense is an expense a user paid for, with the full split list.
type PaidExpense struct {
	Date        int64
	Description string
	TotalAmount decimal.Decimal
	SplitType   models.SplitType
	Splits      []ShareForBalance
}

// BalanceSheet computes the two views of a user's expense history: expenses
// the user is involved in as a participant, and expenses the user paid for.
func BalanceSheet(user string, expenses []ExpenseForBalance) ([]InvolvedExpense, []PaidExpense) {
	var involved []InvolvedExpense
	var paid []PaidExpense

	for _, exp := range expenses {
		for _, share := range exp.Splits {
			if share.User != user {
				continue
			}
			involved = append(involved, InvolvedExpense{
				Date:        exp.CreatedAt,
				Description: exp.Title,
				TotalAmount: exp.Amount,
				PaidBy:      exp.PaidBy,
				SplitType:   exp.SplitType,
				Share:       share.Amount,
				Percentage:  share.Percentage,
			})
		}
		if exp.PaidBy == user {
			paid = append(paid, PaidExpense{
				Date:        exp.CreatedAt,
				Description: exp.Title,
				TotalAmount: exp.Amount,
				SplitType:   exp.SplitType,
				Splits:      exp.Splits,
			})
		}
	}
	return involved, paid
}
