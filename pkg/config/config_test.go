package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HEALTHOPT_JWT_SECRET", "test-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !cfg.App.IsDev() {
		t.Fatalf("expected dev default env, got %q", cfg.App.Env)
	}
	if cfg.KV.Driver != KVDriverSQLite {
		t.Fatalf("expected sqlite default driver, got %q", cfg.KV.Driver)
	}
	if cfg.Admin.FeedbackTTL.Seconds() != 4 {
		t.Fatalf("expected 4s feedback ttl, got %s", cfg.Admin.FeedbackTTL)
	}
	if cfg.Admin.CredentialDomain != "health-optimised.dev" {
		t.Fatalf("unexpected credential domain %q", cfg.Admin.CredentialDomain)
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("HEALTHOPT_JWT_SECRET", "test-secret")
	t.Setenv("HEALTHOPT_KV_DRIVER", "cassandra")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown kv driver")
	}
}

func TestLoadRedisDriverRequiresEndpoint(t *testing.T) {
	t.Setenv("HEALTHOPT_JWT_SECRET", "test-secret")
	t.Setenv("HEALTHOPT_KV_DRIVER", "redis")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when redis driver has no endpoint")
	}

	t.Setenv("HEALTHOPT_REDIS_ADDR", "localhost:6379")
	if _, err := Load(); err != nil {
		t.Fatalf("expected redis driver to load with address: %v", err)
	}
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("HEALTHOPT_JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when jwt secret missing")
	}
}
