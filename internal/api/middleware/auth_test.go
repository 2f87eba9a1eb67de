package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"blogapi/internal/api/middleware"
	"blogapi/internal/common/security"
	"blogapi/internal/platform/config"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
)

func newGate(t *testing.T, tm *security.TokenManager, got *security.Claims) http.Handler {
	t.Helper()
	r := chi.NewRouter()
	r.Use(jwtauth.Verify(tm.Auth(), jwtauth.TokenFromHeader, security.TokenFromCookie))
	r.Group(func(protected chi.Router) {
		protected.Use(middleware.Authenticator)
		protected.Get("/protected", func(w http.ResponseWriter, r *http.Request) {
			claims, ok := middleware.ClaimsFromContext(r.Context())
			if !ok {
				t.Error("claims missing from admitted request context")
			}
			*got = claims
			w.WriteHeader(http.StatusOK)
		})
	})
	r.Get("/public", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return r
}

func newTokenManager(ttl time.Duration) *security.TokenManager {
	return security.NewTokenManager(config.Config{
		JWTSecret: []byte("test-secret-for-gate-tests"),
		JWTExp:    ttl,
	})
}

func TestAuthenticator_ValidCookie(t *testing.T) {
	tm := newTokenManager(time.Hour)
	var got security.Claims
	gate := newGate(t, tm, &got)

	token, _, err := tm.Issue("u-1", "alice", "alice@example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: security.TokenCookieName, Value: token})
	w := httptest.NewRecorder()
	gate.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got.UserID != "u-1" || got.Username != "alice" || got.Email != "alice@example.com" {
		t.Fatalf("identity mismatch: %+v", got)
	}
}

func TestAuthenticator_MissingToken(t *testing.T) {
	tm := newTokenManager(time.Hour)
	var got security.Claims
	gate := newGate(t, tm, &got)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	gate.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}
}

func TestAuthenticator_GarbageToken(t *testing.T) {
	tm := newTokenManager(time.Hour)
	var got security.Claims
	gate := newGate(t, tm, &got)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: security.TokenCookieName, Value: "not-a-jwt"})
	w := httptest.NewRecorder()
	gate.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for malformed token, got %d", w.Code)
	}
}

func TestAuthenticator_ExpiredToken(t *testing.T) {
	tm := newTokenManager(-time.Minute)
	var got security.Claims
	gate := newGate(t, tm, &got)

	token, _, err := tm.Issue("u-1", "alice", "alice@example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: security.TokenCookieName, Value: token})
	w := httptest.NewRecorder()
	gate.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for expired token, got %d", w.Code)
	}
}

func TestAuthenticator_BearerHeader(t *testing.T) {
	tm := newTokenManager(time.Hour)
	var got security.Claims
	gate := newGate(t, tm, &got)

	token, _, err := tm.Issue("u-2", "bob", "bob@example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	gate.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 via bearer header, got %d", w.Code)
	}
	if got.UserID != "u-2" {
		t.Fatalf("identity mismatch: %+v", got)
	}
}

func TestPublicRouteSkipsGate(t *testing.T) {
	tm := newTokenManager(time.Hour)
	var got security.Claims
	gate := newGate(t, tm, &got)

	req := httptest.NewRequest(http.MethodGet, "/public", nil)
	w := httptest.NewRecorder()
	gate.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected public route to admit anonymous requests, got %d", w.Code)
	}
}
