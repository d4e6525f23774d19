package api

import (
	"encoding/json"
	"net/http"

	"splitshare/internal/auth"
	"splitshare/internal/models"
)

type userResponse struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	DisplayName  string `json:"display_name"`
	MobileNumber string `json:"mobile_number,omitempty"`
	CreatedAt    int64  `json:"created_at"`
}

func toUserResponse(user *models.User) userResponse {
	return userResponse{
		ID:           user.ID,
		Email:        user.Email,
		DisplayName:  user.DisplayName,
		MobileNumber: user.MobileNumber,
		CreatedAt:    user.CreatedAt,
	}
}

type sessionResponse struct {
	User  userResponse `json:"user"`
	Token string       `json:"token"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email        string `json:"email"`
		DisplayName  string `json:"display_name"`
		MobileNumber string `json:"mobile_number"`
		Password     string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	user, token, err := s.auth.Register(r.Context(), auth.Registration{
		Email:        req.Email,
		DisplayName:  req.DisplayName,
		MobileNumber: req.MobileNumber,
		Password:     req.Password,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, sessionResponse{User: toUserResponse(user), Token: token})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	user, token, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, sessionResponse{User: toUserResponse(user), Token: token})
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.auth.Users(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	responses := make([]userResponse, len(users))
	for i, user := range users {
		responses[i] = toUserResponse(user)
	}
	respondJSON(w, http.StatusOK, responses)
}
