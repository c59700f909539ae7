package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/reliefdesk/grievance-service/internal/core/ports"
)

// TrackHandler serves the public tracking lookup. No authentication: holding
// a tracking id is the capability.
type TrackHandler struct {
	trackingService ports.TrackingService
}

func NewTrackHandler(svc ports.TrackingService) *TrackHandler {
	return &TrackHandler{trackingService: svc}
}

func (h *TrackHandler) Track(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.URL.Query().Get("id")
	g, err := h.trackingService.Track(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(g); err != nil {
		log.Printf("Failed to write response: %v", err)
	}
}
