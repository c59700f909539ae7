package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/reliefdesk/grievance-service/internal/core/ports"
)

type SignupHandler struct {
	registrationService ports.RegistrationService
}

func NewSignupHandler(registration ports.RegistrationService) *SignupHandler {
	return &SignupHandler{registrationService: registration}
}

type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

type SignupResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
	Role    string `json:"role"`
}

func (h *SignupHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	profile, err := h.registrationService.Signup(r.Context(), req.Email, req.Password, req.Name, req.Role)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(SignupResponse{
		Message: "Account created successfully",
		ID:      profile.ID,
		Role:    string(profile.Role),
	}); err != nil {
		log.Printf("Failed to write response: %v", err)
	}
}
