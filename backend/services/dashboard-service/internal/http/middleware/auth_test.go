package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"voltboard/backend/services/dashboard-service/internal/service"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthRejectsMissingToken(t *testing.T) {
	tokens := service.NewTokenService("secret", time.Hour)
	handler := Auth(tokens)(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/readings/snapshot", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthRejectsInvalidToken(t *testing.T) {
	tokens := service.NewTokenService("secret", time.Hour)
	handler := Auth(tokens)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/readings/snapshot", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthAcceptsBearerHeader(t *testing.T) {
	tokens := service.NewTokenService("secret", time.Hour)
	token, err := tokens.GenerateToken()
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	handler := Auth(tokens)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/readings/snapshot", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthAcceptsTokenQueryParam(t *testing.T) {
	tokens := service.NewTokenService("secret", time.Hour)
	token, err := tokens.GenerateToken()
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	handler := Auth(tokens)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/ws?token="+token, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
