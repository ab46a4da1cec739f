package config

import "testing"

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SERVER_PORT", "FRONTEND_URL", "STORE_DRIVER", "FIRESTORE_PROJECT_ID",
		"GOOGLE_APPLICATION_CREDENTIALS", "REDIS_URL", "RATE_LIMIT_RATE",
		"ENABLE_HSTS", "SERVER_DEBUG_MODE", "OTEL_ENABLED", "OTEL_EXPORTER_OTLP_ENDPOINT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_DRIVER", "memory")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ServerPort != "8080" {
		t.Errorf("Expected default ServerPort to be '8080', got '%s'", cfg.ServerPort)
	}
	if cfg.FrontendURL != "http://localhost:3000" {
		t.Errorf("Expected default FrontendURL to be 'http://localhost:3000', got '%s'", cfg.FrontendURL)
	}
	if cfg.RedisURL != "redis://localhost:6379/0" {
		t.Errorf("Expected default RedisURL to be 'redis://localhost:6379/0', got '%s'", cfg.RedisURL)
	}
	if cfg.RateLimitRate != "100-M" {
		t.Errorf("Expected default RateLimitRate to be '100-M', got '%s'", cfg.RateLimitRate)
	}
	if cfg.EnableHSTS {
		t.Error("Expected default EnableHSTS to be false")
	}
	if cfg.OTELEnabled {
		t.Error("Expected default OTELEnabled to be false")
	}
}

func TestLoadFirestoreRequiresProject(t *testing.T) {
	clearEnv(t)

	// The default driver is firestore, which needs a project id.
	if _, err := Load(); err == nil {
		t.Fatal("Load must fail without FIRESTORE_PROJECT_ID")
	}

	t.Setenv("FIRESTORE_PROJECT_ID", "kotoba-prod")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.StoreDriver != "firestore" || cfg.FirestoreProjectID != "kotoba-prod" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("ENABLE_HSTS", "true")
	t.Setenv("OTEL_ENABLED", "1")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "otel-collector:4318")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ServerPort != "9090" {
		t.Errorf("ServerPort = %q, want 9090", cfg.ServerPort)
	}
	if !cfg.EnableHSTS {
		t.Error("EnableHSTS not applied")
	}
	if !cfg.OTELEnabled || cfg.OTELEndpoint != "otel-collector:4318" {
		t.Errorf("otel config = %v %q", cfg.OTELEnabled, cfg.OTELEndpoint)
	}
}
