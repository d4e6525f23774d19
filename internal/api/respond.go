package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"splitshare/internal/auth"
	"splitshare/internal/calculator"
	"splitshare/internal/service"
	"splitshare/internal/storage"
)

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// respondError maps service and calculator errors to HTTP status codes.
// Validation failures are 400s with the error's message; anything
// unrecognized is a 500 with a generic message.
func respondError(w http.ResponseWriter, err error) {
	var (
		invalidSplit  *calculator.InvalidSplitError
		splitMismatch *calculator.SplitMismatchError
		pctMismatch   *calculator.PercentageMismatchError
		conflicting   *calculator.ConflictingFieldsError
		unknownUser   *service.UnknownUserError
		missingParam  *service.MissingParameterError
	)

	switch {
	case errors.As(err, &invalidSplit),
		errors.As(err, &splitMismatch),
		errors.As(err, &pctMismatch),
		errors.As(err, &conflicting),
		errors.As(err, &unknownUser),
		errors.As(err, &missingParam),
		errors.Is(err, auth.ErrWeakPassword):
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, auth.ErrInvalidCredentials):
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
	case errors.Is(err, auth.ErrEmailExists):
		respondJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, storage.ErrNotFound):
		respondJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		slog.Error("Request failed", "error", err)
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

func badRequest(w http.ResponseWriter, msg string) {
	respondJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}
