package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/reliefdesk/grievance-service/internal/adapters/middleware"
	"github.com/reliefdesk/grievance-service/internal/core/domain"
	"github.com/reliefdesk/grievance-service/internal/core/ports"
)

type GrievanceHandler struct {
	grievanceService ports.GrievanceService
}

func NewGrievanceHandler(svc ports.GrievanceService) *GrievanceHandler {
	return &GrievanceHandler{grievanceService: svc}
}

type ReportRequest struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Location    string `json:"location"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Image       string `json:"image,omitempty"`
}

type ReportResponse struct {
	Message    string `json:"message"`
	TrackingID string `json:"tracking_id"`
}

// Grievances dispatches the collection endpoint: POST files a new report,
// GET returns the filtered catalog.
func (h *GrievanceHandler) Grievances(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.report(w, r)
	case http.MethodGet:
		h.catalog(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *GrievanceHandler) report(w http.ResponseWriter, r *http.Request) {
	var req ReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	g, err := h.grievanceService.Report(r.Context(), ports.ReportInput{
		Name:        req.Name,
		Phone:       req.Phone,
		Location:    req.Location,
		Type:        req.Type,
		Description: req.Description,
		ImageURL:    req.Image,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(ReportResponse{
		Message:    "Grievance submitted, keep the tracking id to check its status",
		TrackingID: g.ID,
	}); err != nil {
		log.Printf("Failed to write response: %v", err)
	}
}

func (h *GrievanceHandler) catalog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	records, err := h.grievanceService.Catalog(r.Context(), q.Get("query"), q.Get("status"), q.Get("type"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(records); err != nil {
		log.Printf("Failed to write response: %v", err)
	}
}

type ActionRequest struct {
	ID string `json:"id"`
}

// Assign moves a pending grievance into progress on behalf of the caller.
func (h *GrievanceHandler) Assign(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, h.grievanceService.Assign, "Grievance assigned")
}

// Resolve marks an in-progress grievance as resolved.
func (h *GrievanceHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, h.grievanceService.Resolve, "Grievance resolved")
}

func (h *GrievanceHandler) action(
	w http.ResponseWriter,
	r *http.Request,
	act func(ctx context.Context, role domain.Role, id string) error,
	message string,
) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	role, _ := middleware.Role(r.Context())

	if err := act(r.Context(), domain.NormalizeRole(role), req.ID); err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message, "id": req.ID})
}
