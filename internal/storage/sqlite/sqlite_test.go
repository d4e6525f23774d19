package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"splitshare/internal/models"
	"splitshare/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "splitshare-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func createTestUser(t *testing.T, store *SQLiteStore, email string) *models.User {
	t.Helper()
	user := models.NewUser(email, "Test "+email, "", "hash")
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser(%s) failed: %v", email, err)
	}
	return user
}

func TestSQLiteStore_Users(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("create and fetch by email and ID", func(t *testing.T) {
		user := createTestUser(t, store, "alice@example.com")

		byEmail, err := store.GetUserByEmail(ctx, "alice@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if byEmail == nil || byEmail.ID != user.ID {
			t.Errorf("GetUserByEmail returned %+v, want ID %s", byEmail, user.ID)
		}

		byID, err := store.GetUserByID(ctx, user.ID)
		if err != nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		if byID == nil || byID.Email != "alice@example.com" {
			t.Errorf("GetUserByID returned %+v", byID)
		}
	})

	t.Run("missing user returns nil without error", func(t *testing.T) {
		user, err := store.GetUserByEmail(ctx, "nobody@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if user != nil {
			t.Errorf("expected nil user, got %+v", user)
		}
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		err := store.CreateUser(ctx, models.NewUser("alice@example.com", "Dup", "", "hash"))
		if err == nil {
			t.Error("expected unique constraint error for duplicate email")
		}
	})

	t.Run("ListUsers orders by email", func(t *testing.T) {
		createTestUser(t, store, "bob@example.com")
		createTestUser(t, store, "aaron@example.com")

		users, err := store.ListUsers(ctx)
		if err != nil {
			t.Fatalf("ListUsers failed: %v", err)
		}
		if len(users) != 3 {
			t.Fatalf("got %d users, want 3", len(users))
		}
		if users[0].Email != "aaron@example.com" || users[2].Email != "bob@example.com" {
			t.Errorf("unexpected order: %s, %s, %s", users[0].Email, users[1].Email, users[2].Email)
		}
	})
}

func TestSQLiteStore_Expenses(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := createTestUser(t, store, "alice@example.com")
	bob := createTestUser(t, store, "bob@example.com")

	t.Run("CreateExpense persists expense and splits atomically", func(t *testing.T) {
		expense := &models.Expense{
			Title:     "Dinner",
			Amount:    mustDecimal(t, "100.00"),
			SplitType: models.SplitEqual,
			PaidByID:  alice.ID,
		}
		splits := []models.Split{
			{UserID: alice.ID, Amount: mustDecimal(t, "50.00")},
			{UserID: bob.ID, Amount: mustDecimal(t, "50.00")},
		}

		if err := store.CreateExpense(ctx, expense, splits); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
		if expense.ID == "" {
			t.Error("expected expense ID to be generated")
		}
		if expense.CreatedAt == 0 {
			t.Error("expected CreatedAt to be set")
		}

		got, err := store.GetExpense(ctx, expense.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if got.PaidByEmail != "alice@example.com" {
			t.Errorf("payer email = %s, want alice@example.com", got.PaidByEmail)
		}
		if !got.Amount.Equal(mustDecimal(t, "100.00")) {
			t.Errorf("amount = %s, want 100.00", got.Amount)
		}
		if len(got.Splits) != 2 {
			t.Fatalf("got %d splits, want 2", len(got.Splits))
		}
		if got.Splits[1].UserEmail != "bob@example.com" {
			t.Errorf("split user = %s, want bob@example.com", got.Splits[1].UserEmail)
		}
		if got.Splits[0].Percentage.Valid {
			t.Error("equal split should have no percentage")
		}
	})

	t.Run("duplicate participant rolls back the whole expense", func(t *testing.T) {
		expense := &models.Expense{
			Title:     "Broken",
			Amount:    mustDecimal(t, "60.00"),
			SplitType: models.SplitEqual,
			PaidByID:  alice.ID,
		}
		splits := []models.Split{
			{UserID: bob.ID, Amount: mustDecimal(t, "30.00")},
			{UserID: bob.ID, Amount: mustDecimal(t, "30.00")},
		}

		if err := store.CreateExpense(ctx, expense, splits); err == nil {
			t.Fatal("expected unique constraint error for duplicate participant")
		}

		// Nothing from the failed creation may be observable.
		if _, err := store.GetExpense(ctx, expense.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound after rollback, got %v", err)
		}
	})

	t.Run("percentage round-trips exactly", func(t *testing.T) {
		expense := &models.Expense{
			Title:     "Rent",
			Amount:    mustDecimal(t, "1500.00"),
			SplitType: models.SplitPercentage,
			PaidByID:  bob.ID,
		}
		splits := []models.Split{
			{UserID: alice.ID, Amount: mustDecimal(t, "1000.00"), Percentage: decimal.NullDecimal{Decimal: mustDecimal(t, "66.67"), Valid: true}},
			{UserID: bob.ID, Amount: mustDecimal(t, "500.00"), Percentage: decimal.NullDecimal{Decimal: mustDecimal(t, "33.33"), Valid: true}},
		}

		if err := store.CreateExpense(ctx, expense, splits); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}

		got, err := store.GetExpense(ctx, expense.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if !got.Splits[0].Percentage.Valid || !got.Splits[0].Percentage.Decimal.Equal(mustDecimal(t, "66.67")) {
			t.Errorf("percentage = %+v, want 66.67", got.Splits[0].Percentage)
		}
	})

	t.Run("ListExpenses orders newest first", func(t *testing.T) {
		older := &models.Expense{
			Title: "Older", Amount: mustDecimal(t, "10.00"),
			SplitType: models.SplitEqual, PaidByID: alice.ID, CreatedAt: 100,
		}
		newer := &models.Expense{
			Title: "Newer", Amount: mustDecimal(t, "20.00"),
			SplitType: models.SplitEqual, PaidByID: alice.ID, CreatedAt: 200,
		}
		for _, e := range []*models.Expense{older, newer} {
			splits := []models.Split{{UserID: alice.ID, Amount: e.Amount}}
			if err := store.CreateExpense(ctx, e, splits); err != nil {
				t.Fatalf("CreateExpense(%s) failed: %v", e.Title, err)
			}
		}

		expenses, err := store.ListExpenses(ctx)
		if err != nil {
			t.Fatalf("ListExpenses failed: %v", err)
		}
		if len(expenses) < 2 {
			t.Fatalf("got %d expenses", len(expenses))
		}
		for i := 1; i < len(expenses); i++ {
			if expenses[i-1].CreatedAt < expenses[i].CreatedAt {
				t.Errorf("expenses out of order at %d: %d < %d", i, expenses[i-1].CreatedAt, expenses[i].CreatedAt)
			}
		}
	})
}
