package config

import (
	"testing"
	"time"
)

const testSecret = "a-sufficiently-long-secret-0123456789abc"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Addr != ":3001" {
		t.Fatalf("expected default addr :3001, got %s", cfg.Addr)
	}
	if cfg.CodeTTL != 10*time.Minute {
		t.Fatalf("expected default code TTL 10m, got %s", cfg.CodeTTL)
	}
	if cfg.UploadPublicPrefix != "/uploads" {
		t.Fatalf("expected default upload prefix /uploads, got %s", cfg.UploadPublicPrefix)
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing JWT_SECRET")
	}
}

func TestLoad_ShortSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "too-short")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for short JWT_SECRET")
	}
}

func TestLoad_CodeTTLOverride(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("CODE_TTL", "5m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CodeTTL != 5*time.Minute {
		t.Fatalf("expected 5m, got %s", cfg.CodeTTL)
	}
}

func TestLoad_InvalidDurationFallsBack(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("CODE_TTL", "not-a-duration")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CodeTTL != 10*time.Minute {
		t.Fatalf("expected fallback 10m, got %s", cfg.CodeTTL)
	}
}
