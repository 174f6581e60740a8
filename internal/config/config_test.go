package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBMaxConns != defaultDBMaxConns {
		t.Fatalf("expected default pool size %d, got %d", defaultDBMaxConns, cfg.DBMaxConns)
	}
	if cfg.ConnectTimeout != defaultConnectTimeout {
		t.Fatalf("expected default connect timeout %s, got %s", defaultConnectTimeout, cfg.ConnectTimeout)
	}
	if cfg.RefreshSecret != "secret" {
		t.Fatalf("refresh secret should fall back to the JWT secret, got %q", cfg.RefreshSecret)
	}
}

func TestLoadPoolSettings(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DB_MAX_CONNS", "32")
	t.Setenv("CONNECT_TIMEOUT", "2s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBMaxConns != 32 {
		t.Fatalf("expected 32 max conns, got %d", cfg.DBMaxConns)
	}
	if cfg.ConnectTimeout != 2*time.Second {
		t.Fatalf("expected 2s connect timeout, got %s", cfg.ConnectTimeout)
	}
}

func TestLoadRejectsBadPoolSize(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DB_MAX_CONNS", "zero")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-numeric DB_MAX_CONNS")
	}
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when JWT_SECRET is missing")
	}
}
