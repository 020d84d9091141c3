package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/health-optimised/directory-backend/internal/accounts"
	"github.com/health-optimised/directory-backend/pkg/auth"
	"github.com/health-optimised/directory-backend/pkg/config"
	"github.com/health-optimised/directory-backend/pkg/kv"
	"github.com/health-optimised/directory-backend/pkg/logger"
)

func authFixture(t *testing.T) (*accounts.Directory, config.JWTConfig, *logger.Logger) {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	dir := accounts.NewDirectory(context.Background(), kv.NewMemory(), logg)
	cfg := config.JWTConfig{Secret: "test-secret", Issuer: "health-optimised", ExpirationMinutes: 5}
	return dir, cfg, logg
}

func TestAuthLoginIssuesToken(t *testing.T) {
	dir, cfg, logg := authFixture(t)
	handler := AuthLogin(dir, cfg, logg)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(
		`{"username":"admin@example.com","password":"admin123"}`,
	))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var payload struct {
		Data struct {
			Session     accounts.Session `json:"session"`
			AccessToken string           `json:"access_token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Data.Session.Username != "admin@example.com" {
		t.Fatalf("session username = %q", payload.Data.Session.Username)
	}
	if payload.Data.Session.LoggedInAt == 0 {
		t.Fatal("expected loggedInAt to be stamped")
	}

	claims, err := auth.ParseAccessToken(cfg, payload.Data.AccessToken)
	if err != nil {
		t.Fatalf("parse issued token: %v", err)
	}
	if claims.Username != "admin@example.com" {
		t.Fatalf("claims username = %q", claims.Username)
	}
}

func TestAuthLoginRejectsBadCredentials(t *testing.T) {
	dir, cfg, logg := authFixture(t)
	handler := AuthLogin(dir, cfg, logg)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(
		`{"username":"admin@example.com","password":"wrong"}`,
	))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "invalid credentials") {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestAuthSessionLifecycle(t *testing.T) {
	dir, cfg, logg := authFixture(t)

	rec := httptest.NewRecorder()
	AuthSession(dir, logg)(rec, httptest.NewRequest(http.MethodGet, "/api/v1/auth/session", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("empty session status = %d", rec.Code)
	}

	login := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(
		`{"username":"user@example.com","password":"user123"}`,
	))
	rec = httptest.NewRecorder()
	AuthLogin(dir, cfg, logg)(rec, login)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	AuthSession(dir, logg)(rec, httptest.NewRequest(http.MethodGet, "/api/v1/auth/session", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("session status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "user@example.com") {
		t.Fatalf("session body = %s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	AuthLogout(dir, logg)(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("logout status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	AuthSession(dir, logg)(rec, httptest.NewRequest(http.MethodGet, "/api/v1/auth/session", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("post-logout session status = %d", rec.Code)
	}
}
