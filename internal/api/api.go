// Package api exposes the services over a JSON HTTP API. Handlers stay
// thin: they decode requests, call the service layer, and map errors to
// status codes.
package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"splitshare/internal/auth"
	"splitshare/internal/middleware"
	"splitshare/internal/service"
)

// Server holds the handlers' dependencies.
type Server struct {
	expenses *service.ExpenseService
	auth     *service.AuthService
	jwt      *auth.JWTManager
}

// NewServer creates an API server over the given services.
func NewServer(expenses *service.ExpenseService, authSvc *service.AuthService, jwt *auth.JWTManager) *Server {
	return &Server{expenses: expenses, auth: authSvc, jwt: jwt}
}

// Handler builds the full route table with middleware applied.
// Auth endpoints, health, and metrics are public; everything else requires a
// bearer token.
func (s *Server) Handler() http.Handler {
	requireAuth := middleware.RequireAuth(s.jwt)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.Handle("GET /api/users", requireAuth(http.HandlerFunc(s.handleListUsers)))
	mux.Handle("POST /api/expenses", requireAuth(http.HandlerFunc(s.handleCreateExpense)))
	mux.Handle("GET /api/expenses/summary", requireAuth(http.HandlerFunc(s.handleSummary)))
	mux.Handle("GET /api/expenses/balance-sheet", requireAuth(http.HandlerFunc(s.handleBalanceSheet)))
	mux.Handle("GET /api/expenses/export", requireAuth(http.HandlerFunc(s.handleExportLedger)))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	return middleware.Logging(middleware.Metrics(mux))
}
