package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/reliefdesk/grievance-service/internal/adapters/handler"
	"github.com/reliefdesk/grievance-service/internal/core/services"
	"github.com/reliefdesk/grievance-service/test/mocks"
)

func newSignupHandler() (*handler.SignupHandler, *mocks.MockUserRepository) {
	repo := mocks.NewMockUserRepository()
	return handler.NewSignupHandler(services.NewRegistrationService(repo)), repo
}

func TestSignup_Created(t *testing.T) {
	h, _ := newSignupHandler()

	body := `{"email":"jane@example.com","password":"s3cret","name":"Jane","role":"volunteer"}`
	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Signup(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp handler.SignupResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.ID == "" || resp.Role != "volunteer" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestSignup_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"missing_name", `{"email":"a@example.com","password":"pw","role":"reporter"}`, http.StatusBadRequest},
		{"admin_role", `{"email":"a@example.com","password":"pw","name":"A","role":"admin"}`, http.StatusBadRequest},
		{"malformed_json", `{"email":`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newSignupHandler()
			req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			h.Signup(rec, req)

			if rec.Code != tt.want {
				t.Errorf("expected %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestSignup_DuplicateEmailConflicts(t *testing.T) {
	h, _ := newSignupHandler()
	body := `{"email":"dup@example.com","password":"pw","name":"A","role":"reporter"}`

	first := httptest.NewRecorder()
	h.Signup(first, httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(body)))
	if first.Code != http.StatusCreated {
		t.Fatalf("first signup: expected 201, got %d", first.Code)
	}

	second := httptest.NewRecorder()
	h.Signup(second, httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(body)))
	if second.Code != http.StatusConflict {
		t.Fatalf("second signup: expected 409, got %d: %s", second.Code, second.Body.String())
	}
}

func TestSignup_MethodNotAllowed(t *testing.T) {
	h, _ := newSignupHandler()
	rec := httptest.NewRecorder()

	h.Signup(rec, httptest.NewRequest(http.MethodGet, "/signup", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}
