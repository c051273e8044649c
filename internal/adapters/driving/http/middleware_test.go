package http

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/custodia-labs/energy-index/internal/core/domain"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		expected string
	}{
		{name: "valid bearer token", header: "Bearer abc123", expected: "abc123"},
		{name: "bearer with extra spaces", header: "Bearer   token-with-spaces   ", expected: "token-with-spaces"},
		{name: "lowercase bearer", header: "bearer token123", expected: "token123"},
		{name: "empty header", header: "", expected: ""},
		{name: "no bearer prefix", header: "token123", expected: ""},
		{name: "basic auth", header: "Basic dXNlcjpwYXNz", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			if result := extractBearerToken(req); result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestGetAuthContext(t *testing.T) {
	if GetAuthContext(context.Background()) != nil {
		t.Error("expected nil for context without auth")
	}

	authCtx := &domain.AuthContext{Subject: "admin", Role: domain.RoleAdmin}
	ctx := context.WithValue(context.Background(), authContextKey, authCtx)
	if GetAuthContext(ctx) != authCtx {
		t.Error("expected auth context from request context")
	}
}

func TestAuthMiddleware_Authenticate(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		validate   func(ctx context.Context, token string) (*domain.AuthContext, error)
		wantStatus int
		wantError  string
	}{
		{
			name:       "missing token",
			wantStatus: http.StatusUnauthorized,
			wantError:  "missing authorization token",
		},
		{
			name:   "valid token",
			header: "Bearer good",
			validate: func(ctx context.Context, token string) (*domain.AuthContext, error) {
				return &domain.AuthContext{Subject: "admin", Role: domain.RoleAdmin}, nil
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "expired token",
			header: "Bearer old",
			validate: func(ctx context.Context, token string) (*domain.AuthContext, error) {
				return nil, fmt.Errorf("parse: %w", domain.ErrTokenExpired)
			},
			wantStatus: http.StatusUnauthorized,
			wantError:  "token expired",
		},
		{
			name:   "invalid token",
			header: "Bearer bad",
			validate: func(ctx context.Context, token string) (*domain.AuthContext, error) {
				return nil, domain.ErrTokenInvalid
			},
			wantStatus: http.StatusUnauthorized,
			wantError:  "invalid token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewAuthMiddleware(&mockAuthService{validateTokenFn: tt.validate})

			var seen *domain.AuthContext
			handler := m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = GetAuthContext(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, rr.Code)
			}
			if tt.wantError != "" {
				if got := decodeError(t, rr); got != tt.wantError {
					t.Errorf("expected error %q, got %q", tt.wantError, got)
				}
				return
			}
			if seen == nil || seen.Subject != "admin" {
				t.Errorf("expected auth context in handler, got %+v", seen)
			}
		})
	}
}

func TestAuthMiddleware_RequireRole(t *testing.T) {
	m := NewAuthMiddleware(&mockAuthService{})

	tests := []struct {
		name       string
		authCtx    *domain.AuthContext
		handler    http.Handler
		wantStatus int
	}{
		{name: "admin passes admin check", authCtx: &domain.AuthContext{Role: domain.RoleAdmin}, handler: m.RequireAdmin(okHandler), wantStatus: http.StatusOK},
		{name: "viewer blocked from admin", authCtx: &domain.AuthContext{Role: domain.RoleViewer}, handler: m.RequireAdmin(okHandler), wantStatus: http.StatusForbidden},
		{name: "no context", handler: m.RequireAdmin(okHandler), wantStatus: http.StatusUnauthorized},
		{name: "viewer passes reader check", authCtx: &domain.AuthContext{Role: domain.RoleViewer}, handler: m.RequireRole(domain.RoleAdmin, domain.RoleViewer)(okHandler), wantStatus: http.StatusOK},
		{name: "unknown role blocked", authCtx: &domain.AuthContext{Role: "guest"}, handler: m.RequireRole(domain.RoleAdmin, domain.RoleViewer)(okHandler), wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.authCtx != nil {
				req = req.WithContext(context.WithValue(req.Context(), authContextKey, tt.authCtx))
			}
			rr := httptest.NewRecorder()
			tt.handler.ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rr.Code)
			}
		})
	}
}

func TestLoggingMiddleware(t *testing.T) {
	handler := NewLoggingMiddleware(nil).Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/health", nil))

	if rr.Code != http.StatusTeapot {
		t.Errorf("expected status %d, got %d", http.StatusTeapot, rr.Code)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	handler := NewRecoveryMiddleware(nil).Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, rr.Code)
	}
}

func TestCORSMiddleware(t *testing.T) {
	handler := NewCORSMiddleware([]string{"https://dash.example.org"}).Handler(okHandler)

	req := httptest.NewRequest("OPTIONS", "/api/v1/score", nil)
	req.Header.Set("Origin", "https://dash.example.org")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Errorf("expected preflight status %d, got %d", http.StatusNoContent, rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://dash.example.org" {
		t.Errorf("expected allowed origin header, got %q", got)
	}

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("expected no CORS header for disallowed origin, got %q", got)
	}
	if rr.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if got := rr.Header().Get("Vary"); got != "Origin" {
		t.Errorf("expected Vary: Origin, got %q", got)
	}
}

func TestCORSMiddleware_Wildcard(t *testing.T) {
	handler := NewCORSMiddleware([]string{"*"}).Handler(okHandler)

	req := httptest.NewRequest("GET", "/api/v1/reports/texas", nil)
	req.Header.Set("Origin", "https://anywhere.example")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://anywhere.example" {
		t.Errorf("expected echoed origin, got %q", got)
	}
	if rr.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/health", nil))
	if seen == "" {
		t.Fatal("expected a generated request ID")
	}
	if got := rr.Header().Get(RequestIDHeader); got != seen {
		t.Errorf("expected response header %q, got %q", seen, got)
	}

	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set(RequestIDHeader, "run-42")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if seen != "run-42" {
		t.Errorf("expected caller request ID to be kept, got %q", seen)
	}
}

func TestStatusRecorder(t *testing.T) {
	rr := httptest.NewRecorder()
	rec := &statusRecorder{ResponseWriter: rr}

	if rec.status() != http.StatusOK {
		t.Errorf("expected implicit 200, got %d", rec.status())
	}

	rec.WriteHeader(http.StatusCreated)
	rec.WriteHeader(http.StatusInternalServerError)
	_, _ = rec.Write([]byte("hello"))

	if rec.status() != http.StatusCreated {
		t.Errorf("expected first status to stick, got %d", rec.status())
	}
	if rec.bytes != 5 {
		t.Errorf("expected 5 bytes, got %d", rec.bytes)
	}
}
