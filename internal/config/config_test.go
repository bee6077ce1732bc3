package config

import (
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"APP_ENV", "HTTP_PORT", "STORAGE_BACKEND", "STORAGE_KEY", "ACCESS_TTL", "ADMIN_USERNAME", "RATE_LIMIT_PER_MIN", "CLOUDINARY_CLOUD_NAME"} {
		t.Setenv(key, "")
	}
	cfg := FromEnv()
	if cfg.HTTPPort != "8081" || cfg.StorageBackend != "memory" || cfg.StorageKey != "students" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.AdminUsername != "admin" || cfg.AccessTTL != 8*time.Hour || cfg.RateLimitPerMin != 120 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Production() || cfg.CloudinaryEnabled() {
		t.Fatalf("dev config should not be production or have cloudinary")
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("STORAGE_BACKEND", "redis")
	t.Setenv("ACCESS_TTL", "30m")
	t.Setenv("RATE_LIMIT_PER_MIN", "10")
	cfg := FromEnv()
	if !cfg.Production() || cfg.StorageBackend != "redis" || cfg.AccessTTL != 30*time.Minute || cfg.RateLimitPerMin != 10 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("ACCESS_TTL", "soon")
	t.Setenv("RATE_LIMIT_PER_MIN", "many")
	cfg := FromEnv()
	if cfg.AccessTTL != 8*time.Hour || cfg.RateLimitPerMin != 120 {
		t.Fatalf("expected fallbacks, got %+v", cfg)
	}
}

func TestCORSOrigins(t *testing.T) {
	t.Setenv("CORS_ORIGINS", "")
	if got := FromEnv().CORSOrigins; len(got) != 1 || got[0] != "*" {
		t.Fatalf("expected wildcard default, got %v", got)
	}
	t.Setenv("CORS_ORIGINS", "https://records.example, ,http://localhost:5173")
	got := FromEnv().CORSOrigins
	if len(got) != 2 || got[0] != "https://records.example" || got[1] != "http://localhost:5173" {
		t.Fatalf("unexpected origins %v", got)
	}
}
