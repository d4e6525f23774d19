package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"splitshare/internal/auth"
	"splitshare/internal/service"
	"splitshare/internal/storage/sqlite"
)

const testSecret = "test-secret-key-that-is-long-enough!"

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "splitshare-api-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	jwtManager := auth.NewJWTManager(testSecret, time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store)
	server := NewServer(
		service.NewExpenseService(store),
		service.NewAuthService(authenticator, jwtManager, store),
		jwtManager,
	)

	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, ts *httptest.Server, path, token string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal body: %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, ts.URL+path, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func getWithToken(t *testing.T, ts *httptest.Server, path, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, ts.URL+path, nil)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

func registerAccount(t *testing.T, ts *httptest.Server, email string) string {
	t.Helper()
	resp := postJSON(t, ts, "/api/auth/register", "", map[string]string{
		"email":        email,
		"display_name": "Test " + email,
		"password":     "s3cure-password",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register %s: status %d, want %d", email, resp.StatusCode, http.StatusCreated)
	}
	var session sessionResponse
	decodeBody(t, resp, &session)
	if session.Token == "" {
		t.Fatal("register returned empty token")
	}
	return session.Token
}

func TestAuthEndpoints(t *testing.T) {
	ts := setupTestServer(t)

	token := registerAccount(t, ts, "alice@x.com")

	t.Run("duplicate email conflicts", func(t *testing.T) {
		resp := postJSON(t, ts, "/api/auth/register", "", map[string]string{
			"email":        "alice@x.com",
			"display_name": "Alice Again",
			"password":     "s3cure-password",
		})
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusConflict {
			t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusConflict)
		}
	})

	t.Run("weak password rejected", func(t *testing.T) {
		resp := postJSON(t, ts, "/api/auth/register", "", map[string]string{
			"email":        "bob@x.com",
			"display_name": "Bob",
			"password":     "short",
		})
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
		}
	})

	t.Run("login with valid credentials", func(t *testing.T) {
		resp := postJSON(t, ts, "/api/auth/login", "", map[string]string{
			"email":    "alice@x.com",
			"password": "s3cure-password",
		})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}
		var session sessionResponse
		decodeBody(t, resp, &session)
		if session.User.Email != "alice@x.com" {
			t.Errorf("email = %s, want alice@x.com", session.User.Email)
		}
	})

	t.Run("login with wrong password", func(t *testing.T) {
		resp := postJSON(t, ts, "/api/auth/login", "", map[string]string{
			"email":    "alice@x.com",
			"password": "wrong-password",
		})
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
		}
	})

	t.Run("protected route without token", func(t *testing.T) {
		resp := getWithToken(t, ts, "/api/users", "")
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
		}
	})

	t.Run("list users with token", func(t *testing.T) {
		resp := getWithToken(t, ts, "/api/users", token)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}
		var users []userResponse
		decodeBody(t, resp, &users)
		if len(users) != 1 {
			t.Errorf("got %d users, want 1", len(users))
		}
	})
}

func TestExpenseEndpoints(t *testing.T) {
	ts := setupTestServer(t)

	token := registerAccount(t, ts, "alice@x.com")
	registerAccount(t, ts, "bob@x.com")
	registerAccount(t, ts, "carol@x.com")

	t.Run("create equal-split expense", func(t *testing.T) {
		resp := postJSON(t, ts, "/api/expenses", token, map[string]any{
			"title":         "Dinner",
			"amount":        "3000.00",
			"split_type":    "EQUAL",
			"paid_by_email": "alice@x.com",
			"splits": []map[string]any{
				{"user_email": "alice@x.com"},
				{"user_email": "bob@x.com"},
				{"user_email": "carol@x.com"},
			},
		})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusCreated)
		}
		var expense expenseResponse
		decodeBody(t, resp, &expense)
		if len(expense.Splits) != 3 {
			t.Fatalf("got %d splits, want 3", len(expense.Splits))
		}
		for _, split := range expense.Splits {
			if split.Amount.String() != "1000" {
				t.Errorf("%s share = %s, want 1000", split.UserEmail, split.Amount)
			}
		}
	})

	t.Run("exact split that does not reconcile", func(t *testing.T) {
		resp := postJSON(t, ts, "/api/expenses", token, map[string]any{
			"title":         "Broken",
			"amount":        "100.00",
			"split_type":    "EXACT",
			"paid_by_email": "alice@x.com",
			"splits": []map[string]any{
				{"user_email": "alice@x.com", "amount": "60.00"},
				{"user_email": "bob@x.com", "amount": "39.99"},
			},
		})
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
		}
	})

	t.Run("unknown participant", func(t *testing.T) {
		resp := postJSON(t, ts, "/api/expenses", token, map[string]any{
			"title":         "Ghosted",
			"amount":        "50.00",
			"split_type":    "EQUAL",
			"paid_by_email": "alice@x.com",
			"splits": []map[string]any{
				{"user_email": "ghost@x.com"},
			},
		})
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
		}
	})

	t.Run("single-user summary", func(t *testing.T) {
		resp := getWithToken(t, ts, "/api/expenses/summary?user_email=alice@x.com", token)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}
		var summary userSummaryResponse
		decodeBody(t, resp, &summary)
		if summary.TotalPaid.String() != "3000" {
			t.Errorf("total_paid = %s, want 3000", summary.TotalPaid)
		}
		if summary.NetBalance.String() != "2000" {
			t.Errorf("net_balance = %s, want 2000", summary.NetBalance)
		}
		if len(summary.Breakdown) != 1 {
			t.Errorf("got %d breakdown entries, want 1", len(summary.Breakdown))
		}
	})

	t.Run("all-users summary", func(t *testing.T) {
		resp := getWithToken(t, ts, "/api/expenses/summary", token)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}
		var summaries []userSummaryResponse
		decodeBody(t, resp, &summaries)
		if len(summaries) != 3 {
			t.Fatalf("got %d summaries, want 3", len(summaries))
		}
		for i := 1; i < len(summaries); i++ {
			if summaries[i-1].UserEmail > summaries[i].UserEmail {
				t.Errorf("summaries out of order: %s before %s", summaries[i-1].UserEmail, summaries[i].UserEmail)
			}
		}
	})

	t.Run("summary for unknown user", func(t *testing.T) {
		resp := getWithToken(t, ts, "/api/expenses/summary?user_email=ghost@x.com", token)
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
		}
	})

	t.Run("balance sheet", func(t *testing.T) {
		resp := getWithToken(t, ts, "/api/expenses/balance-sheet?user_email=bob@x.com", token)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}
		var sheet balanceSheetResponse
		decodeBody(t, resp, &sheet)
		if len(sheet.ExpensesInvolved) != 1 {
			t.Errorf("got %d involved expenses, want 1", len(sheet.ExpensesInvolved))
		}
		if len(sheet.ExpensesPaid) != 0 {
			t.Errorf("got %d paid expenses, want 0", len(sheet.ExpensesPaid))
		}
	})

	t.Run("balance sheet without user_email", func(t *testing.T) {
		resp := getWithToken(t, ts, "/api/expenses/balance-sheet", token)
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
		}
	})

	t.Run("csv export", func(t *testing.T) {
		resp := getWithToken(t, ts, "/api/expenses/export", token)
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}
		if ct := resp.Header.Get("Content-Type"); ct != "text/csv" {
			t.Errorf("Content-Type = %s, want text/csv", ct)
		}
		if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "balance_sheet.csv") {
			t.Errorf("Content-Disposition = %s, want filename balance_sheet.csv", cd)
		}
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			t.Fatalf("failed to read body: %v", err)
		}
		lines := strings.Split(strings.TrimSpace(string(body)), "\n")
		if len(lines) != 4 {
			t.Fatalf("got %d CSV lines, want 4 (header + 3 rows)", len(lines))
		}
		if !strings.HasPrefix(lines[0], "Date,Description,") {
			t.Errorf("unexpected header: %s", lines[0])
		}
	})

	t.Run("health check is public", func(t *testing.T) {
		resp, err := ts.Client().Get(fmt.Sprintf("%s/healthz", ts.URL))
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}
	})

	t.Run("metrics endpoint exposes request counters", func(t *testing.T) {
		resp, err := ts.Client().Get(ts.URL + "/metrics")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			t.Fatalf("failed to read body: %v", err)
		}
		if !strings.Contains(string(body), "splitshare_http_requests_total") {
			t.Error("metrics output missing splitshare_http_requests_total")
		}
	})
}
