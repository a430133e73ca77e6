package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Success(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.App.Env != "production" {
		t.Fatalf("expected App.Env to be production, got %q", cfg.App.Env)
	}
	if cfg.Upstream.BaseURL != "http://backend.local:8080/api" {
		t.Fatalf("unexpected upstream url %q", cfg.Upstream.BaseURL)
	}
	if got := cfg.Upstream.Timeout; got != 10*time.Second {
		t.Fatalf("expected default upstream timeout 10s, got %v", got)
	}
	if cfg.Checkout.ChargeReason != "Compra en Artemisia" {
		t.Fatalf("unexpected charge reason %q", cfg.Checkout.ChargeReason)
	}
	if cfg.Checkout.Country != "BO" {
		t.Fatalf("unexpected country %q", cfg.Checkout.Country)
	}
	if got := cfg.Checkout.PaymentWindow; got != 5*time.Minute {
		t.Fatalf("expected payment window 5m, got %v", got)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 {
		t.Fatalf("expected two default origins, got %v", cfg.CORS.AllowedOrigins)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setMinimalEnv(t)
	if err := os.Unsetenv(EnvAppEnv); err != nil {
		t.Fatalf("failed to unset %s: %v", EnvAppEnv, err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected missing required env to return an error")
	}
}

func TestLoad_RejectsNonHTTPUpstream(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvUpstreamBaseURL, "ftp://backend.local/api")

	if _, err := Load(); err == nil {
		t.Fatal("expected non-http upstream to be rejected")
	}
}

func setMinimalEnv(t *testing.T) {
	t.Helper()

	t.Setenv(EnvAppEnv, "production")
	t.Setenv(EnvPort, "8081")
	t.Setenv(EnvUpstreamBaseURL, "http://backend.local:8080/api")
	t.Setenv(EnvRedisURL, "redis://localhost:6379/0")
	t.Setenv(EnvCheckoutWindow, "5m")
}

func TestAppConfigEnvHelpers(t *testing.T) {
	devConfig := AppConfig{Env: "DEV"}
	if !devConfig.IsDev() {
		t.Fatalf("expected IsDev true for %q", devConfig.Env)
	}
	if devConfig.IsProd() {
		t.Fatalf("expected IsProd false for %q", devConfig.Env)
	}

	prodConfig := AppConfig{Env: "prod"}
	if !prodConfig.IsProd() {
		t.Fatalf("expected IsProd true for %q", prodConfig.Env)
	}
	if prodConfig.IsDev() {
		t.Fatalf("expected IsDev false for %q", prodConfig.Env)
	}
}

func TestSessionTTLFor(t *testing.T) {
	cfg := SessionConfig{DefaultTTL: time.Hour, MaxTTL: 4 * time.Hour}

	if got := cfg.TTLFor(0); got != time.Hour {
		t.Fatalf("expected default ttl, got %v", got)
	}
	if got := cfg.TTLFor(2 * time.Hour); got != 2*time.Hour {
		t.Fatalf("expected token ttl, got %v", got)
	}
	if got := cfg.TTLFor(48 * time.Hour); got != 4*time.Hour {
		t.Fatalf("expected ttl clamped to max, got %v", got)
	}
}
