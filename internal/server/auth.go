package server

import (
	"encoding/json"
	"net/http"
	"strings"
)

// LoginRequest represents the request body for /auth/login
type LoginRequest struct {
	Password string `json:"password"`
}

// LoginResponse represents the response for /auth/login
type LoginResponse struct {
	Token           string `json:"token"`
	ExpirationHours int    `json:"expiration_hours"`
}

// operatorID is the user id carried by tokens issued from the operator
// password login.
const operatorID = "operator"

// handleLogin exchanges the operator password for a bearer token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.jwtService == nil || s.adminHash == "" {
		err := &ErrAuthDisabled{}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Password) == "" {
		err := &ErrValidation{Field: "password", Message: "must not be empty"}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	if !s.passwords.VerifyPassword(req.Password, s.adminHash) {
		err := &ErrInvalidCredentials{}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	token, err := s.jwtService.GenerateToken(operatorID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	s.jsonResponse(w, http.StatusOK, LoginResponse{
		Token:           token,
		ExpirationHours: s.jwtService.config.ExpirationHours,
	})
}
