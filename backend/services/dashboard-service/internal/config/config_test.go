package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.HTTP.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.HTTP.Port)
	}
	if cfg.Store.Collection != "sensor_readings" {
		t.Fatalf("expected default collection, got %q", cfg.Store.Collection)
	}
	if cfg.Snapshot.Limit != 20 {
		t.Fatalf("expected snapshot limit 20, got %d", cfg.Snapshot.Limit)
	}
	if cfg.Snapshot.CacheTTL != 60*time.Second {
		t.Fatalf("expected cache TTL 60s, got %v", cfg.Snapshot.CacheTTL)
	}
	if cfg.Poll.Interval != 2*time.Second {
		t.Fatalf("expected poll interval 2s, got %v", cfg.Poll.Interval)
	}
	if cfg.AuthEnabled() {
		t.Fatal("auth must be disabled by default")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("DASHBOARD_HTTP_PORT", "9090")
	t.Setenv("DASHBOARD_COLLECTION", "lab_bench")
	t.Setenv("DASHBOARD_POLL_INTERVAL", "500ms")
	t.Setenv("DASHBOARD_SNAPSHOT_LIMIT", "50")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.HTTP.Port != "9090" {
		t.Fatalf("expected port 9090, got %q", cfg.HTTP.Port)
	}
	if cfg.Store.Collection != "lab_bench" {
		t.Fatalf("expected collection lab_bench, got %q", cfg.Store.Collection)
	}
	if cfg.Poll.Interval != 500*time.Millisecond {
		t.Fatalf("expected poll interval 500ms, got %v", cfg.Poll.Interval)
	}
	if cfg.Snapshot.Limit != 50 {
		t.Fatalf("expected snapshot limit 50, got %d", cfg.Snapshot.Limit)
	}
}

func TestLoadAuthRequiresPassphraseHash(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("DASHBOARD_JWT_SECRET", "secret")
	t.Setenv("DASHBOARD_PASSPHRASE_HASH", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected auth config validation to fail without a passphrase hash")
	}
}

func TestHTTPAddress(t *testing.T) {
	cfg := &Config{}
	cfg.HTTP.Port = "8081"
	if got := cfg.HTTPAddress(); got != ":8081" {
		t.Fatalf("expected :8081, got %q", got)
	}
	cfg.HTTP.Port = ":8082"
	if got := cfg.HTTPAddress(); got != ":8082" {
		t.Fatalf("expected :8082, got %q", got)
	}
}
