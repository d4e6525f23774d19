// Package service implements the application operations on top of the
// storage layer: expense creation through the split calculator, balance
// summaries, balance sheets, and the ledger export.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"splitshare/internal/calculator"
	"splitshare/internal/models"
	"splitshare/internal/storage"
)

// ExpenseService creates expenses and answers balance queries.
// All aggregation reads the persisted expense set at query time; no balance
// state is cached between calls.
type ExpenseService struct {
	store storage.Store
}

// NewExpenseService creates a new ExpenseService with the given storage backend.
func NewExpenseService(store storage.Store) *ExpenseService {
	return &ExpenseService{store: store}
}

// ParticipantInput is one participant entry of an expense-creation request.
type ParticipantInput struct {
	Email      string
	Amount     *decimal.Decimal
	Percentage *decimal.Decimal
}

// CreateExpenseRequest is the input for Create.
type CreateExpenseRequest struct {
	Title        string
	Amount       decimal.Decimal
	SplitType    models.SplitType
	PaidBy       string // payer email
	Participants []ParticipantInput
}

// Create validates the request, derives the authoritative splits, and
// persists the expense with all its splits in one transaction. Validation
// happens entirely before persistence; on any error nothing is committed.
func (s *ExpenseService) Create(ctx context.Context, req CreateExpenseRequest) (*models.ExpenseWithSplits, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, &MissingParameterError{Name: "title"}
	}
	if strings.TrimSpace(req.PaidBy) == "" {
		return nil, &MissingParameterError{Name: "paid_by"}
	}

	payer, err := s.resolveUser(ctx, req.PaidBy)
	if err != nil {
		return nil, err
	}

	participants := make([]calculator.Participant, len(req.Participants))
	userIDs := make(map[string]string, len(req.Participants))
	for i, p := range req.Participants {
		user, err := s.resolveUser(ctx, p.Email)
		if err != nil {
			return nil, err
		}
		userIDs[p.Email] = user.ID
		participants[i] = calculator.Participant{
			User:       p.Email,
			Amount:     p.Amount,
			Percentage: p.Percentage,
		}
	}

	shares, err := calculator.ComputeShares(req.Amount, req.SplitType, participants)
	if err != nil {
		return nil, err
	}

	expense := &models.Expense{
		Title:     req.Title,
		Amount:    req.Amount,
		SplitType: req.SplitType,
		PaidByID:  payer.ID,
	}
	splits := make([]models.Split, len(shares))
	for i, share := range shares {
		splits[i] = models.Split{
			UserID:     userIDs[share.User],
			Amount:     share.Amount,
			Percentage: share.Percentage,
		}
	}

	if err := s.store.CreateExpense(ctx, expense, splits); err != nil {
		return nil, fmt.Errorf("failed to persist expense: %w", err)
	}
	slog.Info("Expense created",
		"expense_id", expense.ID,
		"title", expense.Title,
		"amount", expense.Amount,
		"split_type", expense.SplitType,
		"participants", len(splits),
	)

	return s.store.GetExpense(ctx, expense.ID)
}

// UserSummaryResult is the balance triple plus the per-split breakdown for
// one user.
type UserSummaryResult struct {
	Balance   calculator.UserBalance
	Breakdown []calculator.BreakdownEntry
}

// Summary computes the paid/owed/net triple and split breakdown for one user.
func (s *ExpenseService) Summary(ctx context.Context, userEmail string) (*UserSummaryResult, error) {
	if _, err := s.resolveUser(ctx, userEmail); err != nil {
		return nil, err
	}

	expenses, err := s.balanceInputs(ctx)
	if err != nil {
		return nil, err
	}

	balance, breakdown := calculator.UserSummary(userEmail, expenses)
	return &UserSummaryResult{Balance: balance, Breakdown: breakdown}, nil
}

// SummaryAll computes the paid/owed/net triple for every registered user,
// ordered by email.
func (s *ExpenseService) SummaryAll(ctx context.Context) ([]calculator.UserBalance, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	emails := make([]string, len(users))
	for i, u := range users {
		emails[i] = u.Email
	}

	expenses, err := s.balanceInputs(ctx)
	if err != nil {
		return nil, err
	}

	return calculator.Balances(expenses, emails), nil
}

// BalanceSheetResult is the two views of one user's expense history.
type BalanceSheetResult struct {
	UserEmail string
	Involved  []calculator.InvolvedExpense
	Paid      []calculator.PaidExpense
}

// BalanceSheet returns the expenses a user participates in and the expenses
// the user paid for.
func (s *ExpenseService) BalanceSheet(ctx context.Context, userEmail string) (*BalanceSheetResult, error) {
	if strings.TrimSpace(userEmail) == "" {
		return nil, &MissingParameterError{Name: "user_email"}
	}
	if _, err := s.resolveUser(ctx, userEmail); err != nil {
		return nil, err
	}

	expenses, err := s.balanceInputs(ctx)
	if err != nil {
		return nil, err
	}

	involved, paid := calculator.BalanceSheet(userEmail, expenses)
	return &BalanceSheetResult{UserEmail: userEmail, Involved: involved, Paid: paid}, nil
}

// ExportLedger returns the flattened row-per-split ledger, newest expense
// first.
func (s *ExpenseService) ExportLedger(ctx context.Context) ([]calculator.LedgerRow, error) {
	expenses, err := s.balanceInputs(ctx)
	if err != nil {
		return nil, err
	}
	return calculator.Ledger(expenses), nil
}

// balanceInputs loads the full persisted expense set and converts it to the
// calculator's read model.
func (s *ExpenseService) balanceInputs(ctx context.Context) ([]calculator.ExpenseForBalance, error) {
	expenses, err := s.store.ListExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}

	inputs := make([]calculator.ExpenseForBalance, len(expenses))
	for i, exp := range expenses {
		shares := make([]calculator.ShareForBalance, len(exp.Splits))
		for j, split := range exp.Splits {
			shares[j] = calculator.ShareForBalance{
				User:       split.UserEmail,
				Amount:     split.Amount,
				Percentage: split.Percentage,
			}
		}
		inputs[i] = calculator.ExpenseForBalance{
			Title:     exp.Title,
			Amount:    exp.Amount,
			SplitType: exp.SplitType,
			PaidBy:    exp.PaidByEmail,
			CreatedAt: exp.CreatedAt,
			Splits:    shares,
		}
	}
	return inputs, nil
}

func (s *ExpenseService) resolveUser(ctx context.Context, email string) (*models.User, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user %s: %w", email, err)
	}
	if user == nil {
		return nil, &UnknownUserError{Email: email}
	}
	return user, nil
}
