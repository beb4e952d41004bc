package shared

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// ConfigEnv names the environment variable that overrides the config file location.
const ConfigEnv = "TUBELIST_CONFIG"

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Client   ClientConfig   `toml:"client"`
	Database DatabaseConfig `toml:"database"`
	Server   ServerConfig   `toml:"server"`
	Redis    RedisConfig    `toml:"redis"`
	YouTube  YouTubeConfig  `toml:"youtube"`
	Log      LogConfig      `toml:"log"`
}

// ClientConfig contains settings for the CLI/TUI talking to the companion server.
type ClientConfig struct {
	ServerURL string `toml:"server_url"`
	Timeout   string `toml:"timeout"`
}

// DatabaseConfig contains local cache database settings.
//
// An empty path resolves to cache.db inside [ConfigDir].
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains companion server settings.
type ServerConfig struct {
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	Storage     string `toml:"storage"` // "file" or "redis"
	DataDir     string `toml:"data_dir"`
	UploadsDir  string `toml:"uploads_dir"`
	MaxUploadMB int64  `toml:"max_upload_mb"`
	JWTSecret   string `toml:"jwt_secret"`
	TokenTTL    string `toml:"token_ttl"`
}

// RedisConfig contains connection settings for the redis storage backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// YouTubeConfig contains YouTube Data API settings for video search.
type YouTubeConfig struct {
	APIKey            string  `toml:"api_key"`
	Endpoint          string  `toml:"endpoint"`
	MaxResults        int64   `toml:"max_results"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// LogConfig controls log verbosity.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Addr returns the host:port the companion server listens on.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// TTL parses TokenTTL, defaulting to 24 hours when unset or invalid.
func (s ServerConfig) TTL() time.Duration {
	d, err := time.ParseDuration(s.TokenTTL)
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}

// MaxUploadBytes returns the upload size limit in bytes (10MB by default).
func (s ServerConfig) MaxUploadBytes() int64 {
	if s.MaxUploadMB <= 0 {
		return 10 << 20
	}
	return s.MaxUploadMB << 20
}

// RequestTimeout parses the client timeout, defaulting to 10 seconds.
func (c ClientConfig) RequestTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

// DatabasePath resolves the cache database location.
func (c *Config) DatabasePath() string {
	if c.Database.Path != "" {
		return c.Database.Path
	}
	return filepath.Join(ConfigDir(), "cache.db")
}

// Validate checks settings that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.Server.Storage {
	case "", "file", "redis":
	default:
		return fmt.Errorf("%w: unknown server storage %q", ErrInvalidConfig, c.Server.Storage)
	}

	if c.Server.Storage == "redis" && c.Redis.Addr == "" {
		return fmt.Errorf("%w: redis storage requires redis.addr", ErrInvalidConfig)
	}

	if c.Client.ServerURL == "" {
		return fmt.Errorf("%w: client.server_url is required", ErrInvalidConfig)
	}

	return nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Values missing from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: config file at %s", ErrAlreadyExists, path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ResolveConfigPath picks the config file location: explicit flag, then [ConfigEnv], then [ConfigDir].
func ResolveConfigPath(flag string) string {
	if flag != "" {
		return flag
	}
	if v := os.Getenv(ConfigEnv); v != "" {
		return v
	}
	return filepath.Join(ConfigDir(), "config.toml")
}
