package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/reliefdesk/grievance-service/internal/adapters/middleware"
	"github.com/reliefdesk/grievance-service/internal/core/domain"
	"github.com/reliefdesk/grievance-service/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	resolver    ports.SessionResolver
}

func NewAuthHandler(auth ports.AuthService, resolver ports.SessionResolver) *AuthHandler {
	return &AuthHandler{authService: auth, resolver: resolver}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Message     string             `json:"message"`
	Token       string             `json:"token"`
	Destination domain.Destination `json:"destination"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	token, dest, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(LoginResponse{
		Message:     "Login successful",
		Token:       token,
		Destination: dest,
	}); err != nil {
		log.Printf("Failed to write response: %v", err)
	}
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	token := bearerToken(r)
	if token == "" {
		http.Error(w, "missing authorization header", http.StatusUnauthorized)
		return
	}

	if err := h.authService.Logout(r.Context(), token); err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"message": "Logged out"})
}

type SessionResponse struct {
	Destination domain.Destination `json:"destination"`
}

// Session reports where the current caller should land. It runs on page load
// and after login, and both paths go through the same resolver, so the answer
// for a given role never depends on which trigger asked.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, _ := middleware.UserID(r.Context())

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(SessionResponse{
		Destination: h.resolver.Resolve(r.Context(), userID),
	})
}

func bearerToken(r *http.Request) string {
	parts := strings.Split(r.Header.Get("Authorization"), " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}
