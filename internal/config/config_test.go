package config

import (
	"testing"
	"time"
)

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("ENABLE_DB", "true")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "test-secret")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when DATABASE_URL is missing")
	}
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("ENABLE_DB", "false")
	t.Setenv("JWT_SECRET", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when JWT_SECRET is missing")
	}
}

func TestLoadUsesDefaults(t *testing.T) {
	t.Setenv("ENABLE_DB", "false")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "")
	t.Setenv("ACCESS_TOKEN_TTL", "")
	t.Setenv("NEUTRAL_CONFIDENCE", "")
	t.Setenv("GOOGLE_CLIENT_ID", "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.AccessTTL != 15*time.Minute {
		t.Fatalf("expected default access TTL, got %s", cfg.AccessTTL)
	}
	if cfg.NeutralConfidence {
		t.Fatal("neutral confidence must be opt-in")
	}
	if cfg.GoogleEnabled() {
		t.Fatal("google oauth should be disabled without credentials")
	}
}

func TestLoadParsesTTL(t *testing.T) {
	t.Setenv("ENABLE_DB", "false")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ACCESS_TOKEN_TTL", "30m")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.AccessTTL != 30*time.Minute {
		t.Fatalf("expected 30m, got %s", cfg.AccessTTL)
	}
}
