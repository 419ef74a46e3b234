package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/yungbote/echonova-backend/internal/platform/logger"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("PORT", "")
	t.Setenv("AI_PROVIDER", "")

	cfg, err := LoadConfig(logger.NewNop())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.CatalogCacheTTL != 300*time.Second {
		t.Fatalf("CatalogCacheTTL = %v, want 5m", cfg.CatalogCacheTTL)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Fatalf("ShutdownTimeout = %v", cfg.ShutdownTimeout)
	}
	if cfg.LLM.Provider != "" {
		t.Fatalf("expected empty provider, got %q", cfg.LLM.Provider)
	}
}

func TestLoadConfigFileWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
port: "9090"
database:
  driver: postgres
  dsn: postgres://file
redis:
  addr: redis:6379
  catalog_cache_ttl_seconds: 60
http:
  cors_origins: ["https://file.example"]
ai:
  provider: ollama
  ollama_base_url: http://ollama:11434
  ollama_model: llama3
`)
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "")
	t.Setenv("DB_DSN", "postgres://env")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("AI_PROVIDER", "")
	t.Setenv("OLLAMA_MODEL_NAME", "mistral")
	t.Setenv("OLLAMA_BASE_URL", "")

	cfg, err := LoadConfig(logger.NewNop())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != "9090" || cfg.DBDriver != "postgres" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.DBDSN != "postgres://env" {
		t.Fatalf("DB_DSN should override the file, got %q", cfg.DBDSN)
	}
	if cfg.CatalogCacheTTL != time.Minute {
		t.Fatalf("CatalogCacheTTL = %v, want 1m", cfg.CatalogCacheTTL)
	}
	if strings.Join(cfg.CORSOrigins, ",") != "https://a.example,https://b.example" {
		t.Fatalf("CORSOrigins = %v", cfg.CORSOrigins)
	}
	if cfg.LLM.Provider != "ollama" || cfg.LLM.Ollama.BaseURL != "http://ollama:11434" {
		t.Fatalf("ai section not applied: %+v", cfg.LLM)
	}
	if cfg.LLM.Ollama.Model != "mistral" {
		t.Fatalf("OLLAMA_MODEL_NAME should win over the file, got %q", cfg.LLM.Ollama.Model)
	}
}

func TestLoadConfigExplicitMissingFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))
	if _, err := LoadConfig(logger.NewNop()); err == nil {
		t.Fatalf("expected error for missing explicit config file")
	}
}

func TestLoadConfigRejectsBadYAML(t *testing.T) {
	t.Setenv("CONFIG_FILE", writeConfig(t, "port: [unclosed"))
	if _, err := LoadConfig(logger.NewNop()); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestConfigValidate(t *testing.T) {
	if err := (Config{Port: "8080"}).Validate(); err == nil {
		t.Fatalf("expected missing JWT secret to fail validation")
	}
	if err := (Config{Port: "8080", JWTSecret: "s"}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
