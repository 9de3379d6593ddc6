package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	if config.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", config.Server.Port)
	}
	if config.Market.GetCacheTTL() != time.Minute {
		t.Errorf("expected default cache TTL 1m, got %v", config.Market.GetCacheTTL())
	}
	if config.Clients.Yahoo.GetTimeout() != 10*time.Second {
		t.Errorf("expected default yahoo timeout 10s, got %v", config.Clients.Yahoo.GetTimeout())
	}
	if config.IsProduction() {
		t.Error("default config must not be production")
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ecopro.toml")
	content := `
environment = "production"

[server]
port = 9090

[market]
cache_ttl = "2m"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !config.IsProduction() {
		t.Error("expected production environment")
	}
	if config.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", config.Server.Port)
	}
	if config.Market.GetCacheTTL() != 2*time.Minute {
		t.Errorf("expected cache TTL 2m, got %v", config.Market.GetCacheTTL())
	}
	// Values the file does not set keep their defaults.
	if config.Storage.Namespace != "ecopro" {
		t.Errorf("expected default namespace, got %s", config.Storage.Namespace)
	}
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	config, err := LoadConfig("does/not/exist.toml")
	if err != nil {
		t.Fatalf("missing file must not error: %v", err)
	}
	if config.Server.Port != 8080 {
		t.Errorf("expected defaults, got port %d", config.Server.Port)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("ECOPRO_ENV", "production")
	t.Setenv("ECOPRO_PORT", "7070")
	t.Setenv("ECOPRO_STORAGE_ADDRESS", "ws://db:8000")
	t.Setenv("ECOPRO_MARKET_CACHE_TTL", "90s")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !config.IsProduction() {
		t.Error("expected ECOPRO_ENV override")
	}
	if config.Server.Port != 7070 {
		t.Errorf("expected port override, got %d", config.Server.Port)
	}
	if config.Storage.Address != "ws://db:8000" {
		t.Errorf("expected storage override, got %s", config.Storage.Address)
	}
	if config.Market.GetCacheTTL() != 90*time.Second {
		t.Errorf("expected TTL override, got %v", config.Market.GetCacheTTL())
	}
}

func TestInvalidCacheTTLEnvIgnored(t *testing.T) {
	t.Setenv("ECOPRO_MARKET_CACHE_TTL", "not-a-duration")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if config.Market.GetCacheTTL() != time.Minute {
		t.Errorf("invalid TTL env must keep the default, got %v", config.Market.GetCacheTTL())
	}
}
