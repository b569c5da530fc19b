package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pkgAuth "github.com/parshwa-io/adminconsole-backend/pkg/auth"
	"github.com/parshwa-io/adminconsole-backend/pkg/config"
)

type stubSessionChecker struct {
	active bool
	err    error
}

func (s *stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return s.active, s.err
}

func authTestJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "adminconsole",
		ExpirationMinutes: 15,
	}
}

func mintTestToken(t *testing.T) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(authTestJWTConfig(), time.Now(), pkgAuth.AccessTokenPayload{
		Email: "ops@example.com",
		Name:  "Ops",
		JTI:   "access-1",
	})
	if err != nil {
		t.Fatalf("minting token: %v", err)
	}
	return token
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	handler := Auth(authTestJWTConfig(), &stubSessionChecker{active: true}, nil)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not run")
		}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthSeedsOperatorContext(t *testing.T) {
	var gotEmail, gotAccessID string
	handler := Auth(authTestJWTConfig(), &stubSessionChecker{active: true}, nil)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotEmail = OperatorEmailFromContext(r.Context())
			gotAccessID = AccessIDFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+mintTestToken(t))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotEmail != "ops@example.com" || gotAccessID != "access-1" {
		t.Fatalf("context not seeded: email=%s access=%s", gotEmail, gotAccessID)
	}
}

func TestAuthRejectsRevokedSession(t *testing.T) {
	handler := Auth(authTestJWTConfig(), &stubSessionChecker{active: false}, nil)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not run")
		}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+mintTestToken(t))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthRejectsGarbageToken(t *testing.T) {
	handler := Auth(authTestJWTConfig(), &stubSessionChecker{active: true}, nil)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not run")
		}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not.a.jwt")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
