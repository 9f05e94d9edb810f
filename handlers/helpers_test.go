package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Dosada05/sportshive/services"
)

func TestMapServiceErrorToHTTP(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"not found", services.ErrTeamNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("load: %w", services.ErrTournamentNotFound), http.StatusNotFound},
		{"email conflict", services.ErrUserEmailConflict, http.StatusConflict},
		{"tournament full", services.ErrTournamentFull, http.StatusConflict},
		{"registration closed", services.ErrRegistrationNotOpen, http.StatusBadRequest},
		{"self connection", services.ErrSelfConnection, http.StatusBadRequest},
		{"file too large", services.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
		{"bad credentials", services.ErrInvalidCredentials, http.StatusUnauthorized},
		{"organizer only", services.ErrOrganizerOnly, http.StatusForbidden},
		{"storage down", services.ErrStorageUnavailable, http.StatusServiceUnavailable},
		{"chat upstream", services.ErrChatUpstream, http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)

			mapServiceErrorToHTTP(rec, req, tt.err)

			assert.Equal(t, tt.expected, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestMapServiceErrorToHTTP_HidesUnknownErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	mapServiceErrorToHTTP(rec, req, errors.New("pq: connection refused"))

	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestReadJSON_TooLarge(t *testing.T) {
	body := `{"email":"` + strings.Repeat("a", 1_048_576) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	rec := httptest.NewRecorder()

	var dst services.LoginInput
	err := readJSON(rec, req, &dst)
	assert.Error(t, err)
}

func TestReadJSON_MultipleValues(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a"}{"email":"b"}`))
	rec := httptest.NewRecorder()

	var dst services.LoginInput
	err := readJSON(rec, req, &dst)
	assert.EqualError(t, err, "body must only contain a single JSON value")
}

func TestOriginChecker(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    bool
	}{
		{"wildcard", []string{"*"}, "https://evil.example", true},
		{"empty list", nil, "https://evil.example", true},
		{"listed", []string{"https://sportshive.app"}, "https://sportshive.app", true},
		{"not listed", []string{"https://sportshive.app"}, "https://evil.example", false},
		{"no origin header", []string{"https://sportshive.app"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ws/notifications", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.want, originChecker(tt.allowed)(req))
		})
	}
}
