package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/health-optimised/directory-backend/internal/accounts"
	pkgAuth "github.com/health-optimised/directory-backend/pkg/auth"
	"github.com/health-optimised/directory-backend/pkg/config"
	"github.com/health-optimised/directory-backend/pkg/enums"
	"github.com/health-optimised/directory-backend/pkg/kv"
	"github.com/health-optimised/directory-backend/pkg/logger"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "middleware-test-secret",
		Issuer:            "health-optimised",
		ExpirationMinutes: 60,
	}
}

func testDirectory(t *testing.T) *accounts.Directory {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	return accounts.NewDirectory(context.Background(), kv.NewMemory(), logg)
}

func okHandler(captured *http.Request) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if captured != nil {
			*captured = *r
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	handler := Auth(testJWTConfig(), testDirectory(t), nil)(okHandler(nil))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAuthRejectsGarbageToken(t *testing.T) {
	handler := Auth(testJWTConfig(), testDirectory(t), nil)(okHandler(nil))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAuthRejectsWhenNoLiveSession(t *testing.T) {
	cfg := testJWTConfig()
	token, err := pkgAuth.MintAccessToken(cfg, time.Now(), "admin@example.com", enums.RoleAdmin)
	if err != nil {
		t.Fatal(err)
	}

	handler := Auth(cfg, testDirectory(t), nil)(okHandler(nil))
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a live session, got %d", w.Code)
	}
}

func TestAuthSeedsContext(t *testing.T) {
	cfg := testJWTConfig()
	dir := testDirectory(t)
	if _, err := dir.Login(context.Background(), "admin@example.com", "admin123"); err != nil {
		t.Fatal(err)
	}

	token, err := pkgAuth.MintAccessToken(cfg, time.Now(), "admin@example.com", enums.RoleAdmin)
	if err != nil {
		t.Fatal(err)
	}

	var captured http.Request
	handler := Auth(cfg, dir, nil)(okHandler(&captured))
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected pass-through, got %d", w.Code)
	}
	if got := UsernameFromContext(captured.Context()); got != "admin@example.com" {
		t.Fatalf("unexpected username in context: %q", got)
	}
	if got := RoleFromContext(captured.Context()); got != string(enums.RoleAdmin) {
		t.Fatalf("unexpected role in context: %q", got)
	}
}

func TestAuthSurvivesCredentialRotation(t *testing.T) {
	cfg := testJWTConfig()
	dir := testDirectory(t)
	ctx := context.Background()
	if _, err := dir.Login(ctx, "admin@example.com", "admin123"); err != nil {
		t.Fatal(err)
	}

	token, err := pkgAuth.MintAccessToken(cfg, time.Now(), "admin@example.com", enums.RoleAdmin)
	if err != nil {
		t.Fatal(err)
	}

	// rotation renames the account; the session role still matches
	if _, ok := dir.UpdateAccount(ctx, enums.RoleAdmin, accounts.AccountUpdate{Username: "admin-rotated@health-optimised.dev"}); !ok {
		t.Fatal("expected rotation")
	}

	handler := Auth(cfg, dir, nil)(okHandler(nil))
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusNoContent {
		t.Fatalf("rotation must not invalidate the session, got %d", w.Code)
	}
}

func TestRequireRole(t *testing.T) {
	handler := RequireRole(enums.RoleAdmin, nil)(okHandler(nil))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(WithRole(r.Context(), string(enums.RoleUser)))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for user role, got %d", w.Code)
	}

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(WithRole(r.Context(), string(enums.RoleAdmin)))
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected pass-through for admin role, got %d", w.Code)
	}
}
