package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"splitshare/internal/models"
	"splitshare/internal/storage"
)

// CreateExpense persists an expense and all its splits in one transaction.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense, splits []models.Split) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO expenses (id, title, amount, split_type, paid_by, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		expense.ID, expense.Title, expense.Amount.String(), string(expense.SplitType), expense.PaidByID, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for i := range splits {
		split := &splits[i]
		if split.ID == "" {
			split.ID = uuid.New().String()
		}
		split.ExpenseID = expense.ID

		var percentage any
		if split.Percentage.Valid {
			percentage = split.Percentage.Decimal.String()
		}

		_, err = tx.ExecContext(ctx,
			"INSERT INTO splits (id, expense_id, user_id, amount, percentage) VALUES (?, ?, ?, ?, ?)",
			split.ID, split.ExpenseID, split.UserID, split.Amount.String(), percentage,
		)
		if err != nil {
			return fmt.Errorf("failed to insert split: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetExpense retrieves one expense with its splits and user emails.
func (s *SQLiteStore) GetExpense(ctx context.Context, id string) (*models.ExpenseWithSplits, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT e.id, e.title, e.amount, e.split_type, e.paid_by, e.created_at, u.email
		FROM expenses e
		JOIN users u ON u.id = e.paid_by
		WHERE e.id = ?
	`, id)

	expense, err := scanExpense(row.Scan)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	splits, err := s.loadSplits(ctx, "WHERE sp.expense_id = ?", id)
	if err != nil {
		return nil, err
	}
	expense.Splits = splits[expense.ID]

	return expense, nil
}

// ListExpenses returns every expense with its splits and user emails,
// ordered by creation time descending.
func (s *SQLiteStore) ListExpenses(ctx context.Context) ([]*models.ExpenseWithSplits, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT e.id, e.title, e.amount, e.split_type, e.paid_by, e.created_at, u.email
		FROM expenses e
		JOIN users u ON u.id = e.paid_by
		ORDER BY e.created_at DESC, e.rowid DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.ExpenseWithSplits
	for rows.Next() {
		expense, err := scanExpense(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}

	splits, err := s.loadSplits(ctx, "")
	if err != nil {
		return nil, err
	}
	for _, expense := range expenses {
		expense.Splits = splits[expense.ID]
	}

	return expenses, nil
}

// loadSplits fetches splits joined with user emails, grouped by expense ID.
// Split order within an expense follows insertion order.
func (s *SQLiteStore) loadSplits(ctx context.Context, where string, args ...any) (map[string][]models.SplitWithUser, error) {
	query := fmt.Sprintf(`
		SELECT sp.id, sp.expense_id, sp.user_id, sp.amount, sp.percentage, u.email
		FROM splits sp
		JOIN users u ON u.id = sp.user_id
		%s
		ORDER BY sp.rowid
	`, where)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get splits: %w", err)
	}
	defer rows.Close()

	splits := make(map[string][]models.SplitWithUser)
	for rows.Next() {
		var split models.SplitWithUser
		var amount string
		var percentage sql.NullString
		if err := rows.Scan(&split.ID, &split.ExpenseID, &split.UserID, &amount, &percentage, &split.UserEmail); err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		if split.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("invalid split amount %q: %w", amount, err)
		}
		if percentage.Valid {
			pct, err := decimal.NewFromString(percentage.String)
			if err != nil {
				return nil, fmt.Errorf("invalid split percentage %q: %w", percentage.String, err)
			}
			split.Percentage = decimal.NullDecimal{Decimal: pct, Valid: true}
		}
		splits[split.ExpenseID] = append(splits[split.ExpenseID], split)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating splits: %w", err)
	}

	return splits, nil
}

// scanExpense scans one joined expense row, parsing the stored decimal amount.
func scanExpense(scan func(...any) error) (*models.ExpenseWithSplits, error) {
	expense := &models.ExpenseWithSplits{}
	var amount, splitType string
	if err := scan(&expense.ID, &expense.Title, &amount, &splitType, &expense.PaidByID, &expense.CreatedAt, &expense.PaidByEmail); err != nil {
		return nil, err
	}

	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid expense amount %q: %w", amount, err)
	}
	expense.Amount = parsed
	expense.SplitType = models.SplitType(splitType)
	return expense, nil
}
