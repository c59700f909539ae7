package handler

import (
	"errors"
	"net/http"

	"github.com/reliefdesk/grievance-service/internal/core/domain"
)

// writeDomainError maps a core error to an HTTP status. Anything the domain
// does not name is reported as a generic 500 so store internals never leak.
func writeDomainError(w http.ResponseWriter, err error) {
	var missing *domain.MissingFieldError
	switch {
	case errors.As(err, &missing):
		http.Error(w, missing.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrUnsupportedRole),
		errors.Is(err, domain.ErrUnsupportedType),
		errors.Is(err, domain.ErrInvalidTrackingID):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrInvalidCredentials):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, domain.ErrForbidden):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrInvalidTransition):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "something went wrong, please try again", http.StatusInternalServerError)
	}
}
