// Package config provides configuration management for clientpulse.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultPort is the default HTTP port for the API server.
	DefaultPort = 8180

	// DefaultMaxConns is the default database connection pool size.
	DefaultMaxConns = 10

	// settingsFile is the YAML settings file name inside the data dir.
	settingsFile = "settings.yaml"
)

// Config holds the application configuration.
//
// Precedence, lowest to highest: defaults, settings.yaml, environment.
// Environment variables are prefixed CLIENTPULSE_ except DATABASE_DSN,
// which keeps its conventional name.
type Config struct {
	// Server settings
	Port      int    `yaml:"port"`
	AuthToken string `yaml:"auth_token"` // empty disables bearer auth

	// Database settings
	DatabaseDSN string `yaml:"database_dsn"`
	MaxConns    int    `yaml:"max_conns"`

	// Logging
	LogLevel string `yaml:"log_level"` // trace, debug, info, warn, error
}

var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// DataDir returns the data directory path (~/.clientpulse), overridable via
// CLIENTPULSE_DATA_DIR.
func DataDir() string {
	if dir := os.Getenv("CLIENTPULSE_DATA_DIR"); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".clientpulse")
}

// SettingsPath returns the settings file path.
func SettingsPath() string {
	return filepath.Join(DataDir(), settingsFile)
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() error {
	return os.MkdirAll(DataDir(), 0750)
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Port:     DefaultPort,
		MaxConns: DefaultMaxConns,
		LogLevel: "info",
	}
}

// Load builds the configuration from defaults, the settings file, and the
// environment. A missing or unparseable settings file falls back to defaults
// rather than failing startup. A .env file in the working directory is
// applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if data, err := os.ReadFile(SettingsPath()); err == nil {
		// Unknown keys are ignored; a broken file keeps defaults.
		_ = yaml.Unmarshal(data, cfg)
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	applyEnv(cfg)
	return cfg, nil
}

// applyEnv overlays environment variables onto the config.
func applyEnv(cfg *Config) {
	if v := os.Getenv("CLIENTPULSE_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			cfg.Port = p
		}
	}
	if v := os.Getenv("CLIENTPULSE_AUTH_TOKEN"); v != "" {
		cfg.AuthToken = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		cfg.DatabaseDSN = v
	}
	if v := os.Getenv("CLIENTPULSE_MAX_CONNS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxConns = n
		}
	}
	if v := os.Getenv("CLIENTPULSE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(v))
	}
}

// Get returns the global configuration, loading it if necessary.
func Get() *Config {
	configOnce.Do(func() {
		var err error
		globalConfig, err = Load()
		if err != nil {
			globalConfig = Default()
		}
	})

	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}

// Reload re-reads the configuration and replaces the global instance.
// Called by the settings watcher when the file changes on disk.
func Reload() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
	return cfg, nil
}
