package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.Addr() != "0.0.0.0:4000" {
		t.Fatalf("addr = %q", cfg.Server.Addr())
	}
	if cfg.Auth.BootstrapUsername != "admin" || cfg.Auth.BootstrapPassword != "password123" {
		t.Fatalf("bootstrap account = %s/%s", cfg.Auth.BootstrapUsername, cfg.Auth.BootstrapPassword)
	}
	if cfg.Advisory.Model != "gpt-4o-mini" || cfg.Advisory.MaxTokens != 300 {
		t.Fatalf("advisory defaults = %s/%d", cfg.Advisory.Model, cfg.Advisory.MaxTokens)
	}
	if cfg.Advisory.Timeout() != 30*time.Second {
		t.Fatalf("advisory timeout = %s", cfg.Advisory.Timeout())
	}
	if cfg.Database.DSN != "" {
		t.Fatalf("expected empty default DSN, got %q", cfg.Database.DSN)
	}
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error without JWT secret")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "8080")
	t.Setenv("DATABASE_DSN", "postgres://localhost/profitlens")
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("ADVISORY_MODEL", "gpt-4o")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Fatalf("port = %d", cfg.Server.Port)
	}
	if cfg.Database.DSN != "postgres://localhost/profitlens" {
		t.Fatalf("dsn = %q", cfg.Database.DSN)
	}
	if cfg.Advisory.APIKey != "sk-env" {
		t.Fatalf("api key = %q", cfg.Advisory.APIKey)
	}
	if cfg.Advisory.Model != "gpt-4o" {
		t.Fatalf("model = %q", cfg.Advisory.Model)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("log level = %q", cfg.Logging.Level)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
server:
  host: 127.0.0.1
  port: 9000
auth:
  jwt_secret: file-secret
advisory:
  max_tokens: 150
  timeout_seconds: 5
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.Addr() != "127.0.0.1:9000" {
		t.Fatalf("addr = %q", cfg.Server.Addr())
	}
	if cfg.Auth.JWTSecret != "file-secret" {
		t.Fatalf("secret = %q", cfg.Auth.JWTSecret)
	}
	if cfg.Advisory.MaxTokens != 150 {
		t.Fatalf("max tokens = %d", cfg.Advisory.MaxTokens)
	}
	if cfg.Advisory.Timeout() != 5*time.Second {
		t.Fatalf("timeout = %s", cfg.Advisory.Timeout())
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("auth:\n  jwt_secret: file-secret\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("JWT_SECRET", "env-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Auth.JWTSecret != "env-secret" {
		t.Fatalf("secret = %q, want env to win", cfg.Auth.JWTSecret)
	}
}

func TestLoadRejectsBadPort(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "70000")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for out-of-range port")
	}
}
