package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("SESSION_TTL", "")
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.SessionTTL != 12*time.Hour {
		t.Fatalf("expected default session ttl, got %s", cfg.SessionTTL)
	}
	if cfg.DefaultBufferMinutes != 15 {
		t.Fatalf("expected default buffer minutes, got %d", cfg.DefaultBufferMinutes)
	}
	if cfg.MaxResumeSizeBytes != 16*1024*1024 {
		t.Fatalf("expected 16 MiB resume cap, got %d", cfg.MaxResumeSizeBytes)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("DATABASE_URL", "postgres://user@host/db")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("STRIPE_DRY_RUN", "true")
	t.Setenv("RESUME_BUCKET", "resumes-prod")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if cfg.DatabaseURL != "postgres://user@host/db" {
		t.Fatalf("expected db override, got %s", cfg.DatabaseURL)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Fatalf("expected session ttl override, got %s", cfg.SessionTTL)
	}
	if !cfg.StripeDryRun {
		t.Fatalf("expected stripe dry run enabled")
	}
	if cfg.ResumeBucket != "resumes-prod" {
		t.Fatalf("expected resume bucket override, got %s", cfg.ResumeBucket)
	}
}
