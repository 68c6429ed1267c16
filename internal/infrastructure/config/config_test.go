package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"SESSION_SECRET": "s3cret",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Fatalf("expected port 8080, got %q", cfg.Port)
	}
	if cfg.Session.TTL != 168*time.Hour {
		t.Fatalf("expected 168h session TTL, got %v", cfg.Session.TTL)
	}
	if cfg.Session.Backend != SessionBackendRedis {
		t.Fatalf("expected redis session backend, got %q", cfg.Session.Backend)
	}
	if cfg.Backend.Timeout != 15*time.Second {
		t.Fatalf("expected 15s backend timeout, got %v", cfg.Backend.Timeout)
	}
	if cfg.Backend.AuthURL != cfg.Backend.APIURL {
		t.Fatalf("expected auth URL to fall back to API URL, got %q", cfg.Backend.AuthURL)
	}
	if cfg.Demo.Enabled {
		t.Fatal("expected demo login to be disabled by default")
	}
	if !cfg.IsDevelopment() {
		t.Fatal("expected development environment by default")
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	if _, err := load(context.Background(), envconfig.MapLookuper(nil)); err == nil {
		t.Fatal("expected error when SESSION_SECRET is missing")
	}
}

func TestLoad_InvalidSessionBackend(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"SESSION_SECRET":  "s3cret",
		"SESSION_BACKEND": "postgres",
	}))
	if err == nil {
		t.Fatal("expected error for unknown session backend")
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"SESSION_SECRET":   "s3cret",
		"SESSION_BACKEND":  "memory",
		"DEMO_ENABLED":     "true",
		"BACKEND_API_URL":  "https://api.minutehire.test",
		"BACKEND_AUTH_URL": "https://auth.minutehire.test",
		"REDIS_DB":         "3",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Session.Backend != SessionBackendMemory {
		t.Fatalf("expected memory backend, got %q", cfg.Session.Backend)
	}
	if !cfg.Demo.Enabled {
		t.Fatal("expected demo login enabled")
	}
	if cfg.Backend.AuthURL != "https://auth.minutehire.test" {
		t.Fatalf("unexpected auth URL %q", cfg.Backend.AuthURL)
	}
	if cfg.Redis.DB != 3 {
		t.Fatalf("expected redis db 3, got %d", cfg.Redis.DB)
	}
}
