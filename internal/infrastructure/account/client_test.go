package account

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/scorecast/scorecast/internal/platform/logging"
	"github.com/scorecast/scorecast/internal/platform/resilience"
	"github.com/scorecast/scorecast/internal/usecase"
)

func newIntrospectServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		if r.URL.Path != "/v1/auth/introspect" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return srv
}

func TestClient_VerifyAccessToken(t *testing.T) {
	t.Run("active token yields principal", func(t *testing.T) {
		srv := newIntrospectServer(t, http.StatusOK, `{"active":true,"user_id":"u1","email":"u1@example.com"}`)
		client := NewClient(srv.Client(), srv.URL, "/v1/auth/introspect", nil, logging.NewNop())

		principal, err := client.VerifyAccessToken(t.Context(), "tok-1")
		if err != nil {
			t.Fatalf("verify: %v", err)
		}
		if principal.UserID != "u1" || principal.Email != "u1@example.com" {
			t.Fatalf("unexpected principal: %+v", principal)
		}
	})

	t.Run("blank token rejected without a request", func(t *testing.T) {
		client := NewClient(nil, "http://127.0.0.1:1", "/v1/auth/introspect", nil, logging.NewNop())

		if _, err := client.VerifyAccessToken(t.Context(), "   "); !errors.Is(err, usecase.ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("denied introspection maps to unauthorized", func(t *testing.T) {
		srv := newIntrospectServer(t, http.StatusUnauthorized, `{}`)
		client := NewClient(srv.Client(), srv.URL, "/v1/auth/introspect", nil, logging.NewNop())

		if _, err := client.VerifyAccessToken(t.Context(), "tok-bad"); !errors.Is(err, usecase.ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("inactive token maps to unauthorized", func(t *testing.T) {
		srv := newIntrospectServer(t, http.StatusOK, `{"active":false}`)
		client := NewClient(srv.Client(), srv.URL, "/v1/auth/introspect", nil, logging.NewNop())

		if _, err := client.VerifyAccessToken(t.Context(), "tok-expired"); !errors.Is(err, usecase.ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("empty user id is a protocol error", func(t *testing.T) {
		srv := newIntrospectServer(t, http.StatusOK, `{"active":true,"user_id":""}`)
		client := NewClient(srv.Client(), srv.URL, "/v1/auth/introspect", nil, logging.NewNop())

		if _, err := client.VerifyAccessToken(t.Context(), "tok-odd"); err == nil {
			t.Fatal("expected error for empty user_id")
		}
	})
}

func TestClient_VerifyAccessToken_CircuitBreaker(t *testing.T) {
	t.Run("server errors open the circuit", func(t *testing.T) {
		srv := newIntrospectServer(t, http.StatusInternalServerError, `{}`)
		breaker := resilience.NewCircuitBreaker(2, time.Minute, 1)
		client := NewClient(srv.Client(), srv.URL, "/v1/auth/introspect", breaker, logging.NewNop())

		for range 2 {
			if _, err := client.VerifyAccessToken(t.Context(), "tok"); err == nil {
				t.Fatal("expected error from 5xx response")
			}
		}

		if _, err := client.VerifyAccessToken(t.Context(), "tok"); !errors.Is(err, usecase.ErrDependencyUnavailable) {
			t.Fatalf("expected ErrDependencyUnavailable once open, got %v", err)
		}
	})

	t.Run("auth denials do not trip the breaker", func(t *testing.T) {
		srv := newIntrospectServer(t, http.StatusUnauthorized, `{}`)
		breaker := resilience.NewCircuitBreaker(1, time.Minute, 1)
		client := NewClient(srv.Client(), srv.URL, "/v1/auth/introspect", breaker, logging.NewNop())

		for range 3 {
			if _, err := client.VerifyAccessToken(t.Context(), "tok"); !errors.Is(err, usecase.ErrUnauthorized) {
				t.Fatalf("expected ErrUnauthorized, got %v", err)
			}
		}

		if state := breaker.State(); state != resilience.CircuitStateClosed {
			t.Fatalf("expected closed breaker, got %v", state)
		}
	})
}
