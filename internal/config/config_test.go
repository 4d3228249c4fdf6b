package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("expected default addr, got %q", cfg.HTTPAddr)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Fatalf("expected 10s shutdown timeout, got %s", cfg.ShutdownTimeout)
	}
	if cfg.ChatMaxSteps != 10 {
		t.Fatalf("expected 10 chat steps, got %d", cfg.ChatMaxSteps)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "3")
	t.Setenv("CORS_ORIGINS", "https://admin.example.com, https://shop.example.com")
	t.Setenv("ASSETS_BASE_URL", "https://cdn.example.com/assets/")
	t.Setenv("LLM_API_KEY", "secret")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.HTTPAddr != ":9090" || cfg.ShutdownTimeout != 3*time.Second {
		t.Fatalf("unexpected overrides %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://shop.example.com" {
		t.Fatalf("unexpected cors origins %v", cfg.CORSOrigins)
	}
	if cfg.AssetsBaseURL != "https://cdn.example.com/assets" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.AssetsBaseURL)
	}
	if cfg.LLM.APIKey != "secret" {
		t.Fatalf("expected llm key from env")
	}
}

func TestFromEnv_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("http_addr: \":7070\"\nchat_max_steps: 4\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(FileEnv, path)

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.HTTPAddr != ":7070" || cfg.ChatMaxSteps != 4 {
		t.Fatalf("expected file values, got %+v", cfg)
	}
}

func TestFromEnv_MissingFile(t *testing.T) {
	t.Setenv(FileEnv, filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := FromEnv(); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}
