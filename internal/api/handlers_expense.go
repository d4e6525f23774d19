package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"splitshare/internal/calculator"
	"splitshare/internal/models"
	"splitshare/internal/service"
)

type splitResponse struct {
	ID         string              `json:"id"`
	UserEmail  string              `json:"user_email"`
	Amount     decimal.Decimal     `json:"amount"`
	Percentage decimal.NullDecimal `json:"percentage"`
}

type expenseResponse struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	Amount    decimal.Decimal  `json:"amount"`
	SplitType models.SplitType `json:"split_type"`
	PaidBy    string           `json:"paid_by_email"`
	CreatedAt int64            `json:"created_at"`
	Splits    []splitResponse  `json:"splits"`
}

func toExpenseResponse(expense *models.ExpenseWithSplits) expenseResponse {
	splits := make([]splitResponse, len(expense.Splits))
	for i, split := range expense.Splits {
		splits[i] = splitResponse{
			ID:         split.ID,
			UserEmail:  split.UserEmail,
			Amount:     split.Amount,
			Percentage: split.Percentage,
		}
	}
	return expenseResponse{
		ID:        expense.ID,
		Title:     expense.Title,
		Amount:    expense.Amount,
		SplitType: expense.SplitType,
		PaidBy:    expense.PaidByEmail,
		CreatedAt: expense.CreatedAt,
		Splits:    splits,
	}
}

type participantRequest struct {
	UserEmail  string           `json:"user_email"`
	Amount     *decimal.Decimal `json:"amount"`
	Percentage *decimal.Decimal `json:"percentage"`
}

type createExpenseRequest struct {
	Title     string               `json:"title"`
	Amount    decimal.Decimal      `json:"amount"`
	SplitType models.SplitType     `json:"split_type"`
	PaidBy    string               `json:"paid_by_email"`
	Splits    []participantRequest `json:"splits"`
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	participants := make([]service.ParticipantInput, len(req.Splits))
	for i, p := range req.Splits {
		participants[i] = service.ParticipantInput{
			Email:      p.UserEmail,
			Amount:     p.Amount,
			Percentage: p.Percentage,
		}
	}

	expense, err := s.expenses.Create(r.Context(), service.CreateExpenseRequest{
		Title:        req.Title,
		Amount:       req.Amount,
		SplitType:    req.SplitType,
		PaidBy:       req.PaidBy,
		Participants: participants,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toExpenseResponse(expense))
}

type breakdownResponse struct {
	ExpenseTitle  string              `json:"expense_title"`
	ExpenseAmount decimal.Decimal     `json:"expense_amount"`
	SplitType     models.SplitType    `json:"split_type"`
	PaidBy        string              `json:"paid_by"`
	Amount        decimal.Decimal     `json:"amount"`
	Percentage    decimal.NullDecimal `json:"percentage"`
}

type userSummaryResponse struct {
	UserEmail  string              `json:"user_email"`
	TotalPaid  decimal.Decimal     `json:"total_paid"`
	TotalOwed  decimal.Decimal     `json:"total_owed"`
	NetBalance decimal.Decimal     `json:"net_balance"`
	Breakdown  []breakdownResponse `json:"expense_breakdown,omitempty"`
}

func toBalanceResponse(balance calculator.UserBalance) userSummaryResponse {
	return userSummaryResponse{
		UserEmail:  balance.User,
		TotalPaid:  balance.TotalPaid,
		TotalOwed:  balance.TotalOwed,
		NetBalance: balance.NetBalance,
	}
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	userEmail := r.URL.Query().Get("user_email")

	if userEmail == "" {
		balances, err := s.expenses.SummaryAll(r.Context())
		if err != nil {
			respondError(w, err)
			return
		}
		responses := make([]userSummaryResponse, len(balances))
		for i, balance := range balances {
			responses[i] = toBalanceResponse(balance)
		}
		respondJSON(w, http.StatusOK, responses)
		return
	}

	summary, err := s.expenses.Summary(r.Context(), userEmail)
	if err != nil {
		respondError(w, err)
		return
	}

	response := toBalanceResponse(summary.Balance)
	response.Breakdown = make([]breakdownResponse, len(summary.Breakdown))
	for i, entry := range summary.Breakdown {
		response.Breakdown[i] = breakdownResponse{
			ExpenseTitle:  entry.ExpenseTitle,
			ExpenseAmount: entry.ExpenseAmount,
			SplitType:     entry.SplitType,
			PaidBy:        entry.PaidBy,
			Amount:        entry.Amount,
			Percentage:    entry.Percentage,
		}
	}
	respondJSON(w, http.StatusOK, response)
}

type involvedExpenseResponse struct {
	Date        string              `json:"date"`
	Description string              `json:"description"`
	TotalAmount decimal.Decimal     `json:"total_amount"`
	PaidBy      string              `json:"paid_by"`
	SplitType   models.SplitType    `json:"split_type"`
	YourShare   decimal.Decimal     `json:"your_share"`
	Percentage  decimal.NullDecimal `json:"your_percentage"`
}

type paidSplitResponse struct {
	UserEmail  string              `json:"user_email"`
	Amount     decimal.Decimal     `json:"amount"`
	Percentage decimal.NullDecimal `json:"percentage"`
}

type paidExpenseResponse struct {
	Date        string              `json:"date"`
	Description string              `json:"description"`
	TotalAmount decimal.Decimal     `json:"total_amount"`
	SplitType   models.SplitType    `json:"split_type"`
	Splits      []paidSplitResponse `json:"splits"`
}

type balanceSheetResponse struct {
	UserEmail        string                    `json:"user_email"`
	ExpensesInvolved []involvedExpenseResponse `json:"expenses_involved"`
	ExpensesPaid     []paidExpenseResponse     `json:"expenses_paid"`
}

func formatDate(unix int64) string {
	return time.Unix(unix, 0).UTC().Format("2006-01-02 15:04")
}

func (s *Server) handleBalanceSheet(w http.ResponseWriter, r *http.Request) {
	sheet, err := s.expenses.BalanceSheet(r.Context(), r.URL.Query().Get("user_email"))
	if err != nil {
		respondError(w, err)
		return
	}

	response := balanceSheetResponse{
		UserEmail:        sheet.UserEmail,
		ExpensesInvolved: make([]involvedExpenseResponse, len(sheet.Involved)),
		ExpensesPaid:     make([]paidExpenseResponse, len(sheet.Paid)),
	}
	for i, entry := range sheet.Involved {
		response.ExpensesInvolved[i] = involvedExpenseResponse{
			Date:        formatDate(entry.Date),
			Description: entry.Description,
			TotalAmount: entry.TotalAmount,
			PaidBy:      entry.PaidBy,
			SplitType:   entry.SplitType,
			YourShare:   entry.Share,
			Percentage:  entry.Percentage,
		}
	}
	for i, entry := range sheet.Paid {
		splits := make([]paidSplitResponse, len(entry.Splits))
		for j, split := range entry.Splits {
			splits[j] = paidSplitResponse{
				UserEmail:  split.User,
				Amount:     split.Amount,
				Percentage: split.Percentage,
			}
		}
		response.ExpensesPaid[i] = paidExpenseResponse{
			Date:        formatDate(entry.Date),
			Description: entry.Description,
			TotalAmount: entry.TotalAmount,
			SplitType:   entry.SplitType,
			Splits:      splits,
		}
	}
	respondJSON(w, http.StatusOK, response)
}

func (s *Server) handleExportLedger(w http.ResponseWriter, r *http.Request) {
	// Buffer the CSV so errors can still produce a proper status code.
	var buf bytes.Buffer
	if err := s.expenses.WriteLedgerCSV(r.Context(), &buf); err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="balance_sheet.csv"`)
	w.Write(buf.Bytes())
}
