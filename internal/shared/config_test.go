package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Client.ServerURL != "http://127.0.0.1:3000" {
			t.Errorf("expected server url http://127.0.0.1:3000, got %s", config.Client.ServerURL)
		}

		if config.Server.Port != 3000 {
			t.Errorf("expected server port 3000, got %d", config.Server.Port)
		}

		if config.Server.Storage != "file" {
			t.Errorf("expected file storage, got %s", config.Server.Storage)
		}

		if config.Server.MaxUploadBytes() != 10<<20 {
			t.Errorf("expected 10MB upload limit, got %d", config.Server.MaxUploadBytes())
		}

		if config.Server.TTL() != 24*time.Hour {
			t.Errorf("expected 24h token ttl, got %v", config.Server.TTL())
		}

		if config.YouTube.MaxResults != 10 {
			t.Errorf("expected 10 max results, got %d", config.YouTube.MaxResults)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "nested", "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Server.Addr() != DefaultConfig().Server.Addr() {
			t.Errorf("created config server addr doesn't match default")
		}

		if err := CreateConfigFile(configPath); !errors.Is(err, ErrAlreadyExists) {
			t.Errorf("creating config file again should fail with ErrAlreadyExists, got %v", err)
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[client]
server_url = "http://example.com:9000"

[database]
path = "/custom/cache.db"

[server]
port = 8080
storage = "redis"
token_ttl = "1h"
max_upload_mb = 2

[redis]
addr = "localhost:6380"

[youtube]
api_key = "test_api_key"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.DatabasePath() != "/custom/cache.db" {
			t.Errorf("expected database path /custom/cache.db, got %s", config.DatabasePath())
		}

		if config.Server.Port != 8080 {
			t.Errorf("expected server port 8080, got %d", config.Server.Port)
		}

		if config.Server.Host != "127.0.0.1" {
			t.Errorf("expected default host to survive partial config, got %s", config.Server.Host)
		}

		if config.Server.TTL() != time.Hour {
			t.Errorf("expected 1h ttl, got %v", config.Server.TTL())
		}

		if config.Server.MaxUploadBytes() != 2<<20 {
			t.Errorf("expected 2MB limit, got %d", config.Server.MaxUploadBytes())
		}

		if config.YouTube.APIKey != "test_api_key" {
			t.Errorf("expected api key test_api_key, got %s", config.YouTube.APIKey)
		}
	})

	t.Run("Validate", func(t *testing.T) {
		config := DefaultConfig()
		config.Server.Storage = "s3"
		if err := config.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig for unknown storage, got %v", err)
		}

		config = DefaultConfig()
		config.Server.Storage = "redis"
		config.Redis.Addr = ""
		if err := config.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig for redis without addr, got %v", err)
		}

		config = DefaultConfig()
		config.Client.ServerURL = ""
		if err := config.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig for missing server url, got %v", err)
		}
	})

	t.Run("ResolveConfigPath", func(t *testing.T) {
		if got := ResolveConfigPath("/flag/config.toml"); got != "/flag/config.toml" {
			t.Errorf("expected flag path to win, got %s", got)
		}

		t.Setenv(ConfigEnv, "/env/config.toml")
		if got := ResolveConfigPath(""); got != "/env/config.toml" {
			t.Errorf("expected env path, got %s", got)
		}
	})

	t.Run("DatabasePath defaults into config dir", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
		config := DefaultConfig()
		if got := config.DatabasePath(); got != "/tmp/xdg/tubelist/cache.db" {
			t.Errorf("expected default cache path, got %s", got)
		}
	})
}
