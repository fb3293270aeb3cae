// Package config loads console settings.
//
// Sources, later ones winning:
//   - built-in defaults
//   - ~/.stockbox/config.toml (or $STOCKBOX_CONFIG)
//   - a .env file in the working directory
//   - STOCKBOX_* environment variables
package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"

	"github.com/stockbox/stockbox-admin/internal/session"
	"github.com/stockbox/stockbox-admin/pkg/client"
)

// Config holds console settings.
type Config struct {
	APIURL         string        `toml:"api_url" env:"STOCKBOX_API_URL, overwrite"`
	SessionMaxAge  time.Duration `toml:"session_max_age" env:"STOCKBOX_SESSION_MAX_AGE, overwrite"`
	RequestTimeout time.Duration `toml:"request_timeout" env:"STOCKBOX_REQUEST_TIMEOUT, overwrite"`
	DataDir        string        `toml:"data_dir" env:"STOCKBOX_DATA_DIR, overwrite"`
	LogLevel       string        `toml:"log_level" env:"STOCKBOX_LOG_LEVEL, overwrite"`
}

// Default returns the built-in settings. DataDir is ~/.stockbox when the
// home directory is known.
func Default() *Config {
	cfg := &Config{
		APIURL:         client.DefaultBaseURL,
		SessionMaxAge:  session.DefaultMaxAge,
		RequestTimeout: 30 * time.Second,
		LogLevel:       "info",
	}
	if home, err := os.UserHomeDir(); err == nil {
		cfg.DataDir = filepath.Join(home, ".stockbox")
	}
	return cfg
}

// Path returns the config file location.
func Path() (string, error) {
	if p := os.Getenv("STOCKBOX_CONFIG"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".stockbox", "config.toml"), nil
}

// Load builds the configuration from every source.
func Load(ctx context.Context) (*Config, error) {
	cfg := Default()

	path, err := Path()
	if err == nil {
		if err := LoadFile(cfg, path); err != nil {
			return nil, err
		}
	}

	// .env only fills variables that are not already set.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config.Load: read .env: %w", err)
	}

	if err := ApplyEnv(ctx, cfg, envconfig.OsLookuper()); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile overlays the TOML file at path onto cfg. A missing file is fine.
func LoadFile(cfg *Config, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("config.LoadFile: %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays environment values from l onto cfg.
func ApplyEnv(ctx context.Context, cfg *Config, l envconfig.Lookuper) error {
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: cfg, Lookuper: l}); err != nil {
		return fmt.Errorf("config.ApplyEnv: %w", err)
	}
	return nil
}

// Validate checks the settings are usable.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Host == "" || (u.Scheme != "https" && u.Scheme != "http") {
		return fmt.Errorf("config: api_url %q must be an http(s) URL", c.APIURL)
	}
	c.APIURL = strings.TrimRight(c.APIURL, "/")
	if c.SessionMaxAge <= 0 {
		return fmt.Errorf("config: session_max_age must be positive, got %s", c.SessionMaxAge)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("config: request_timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.DataDir == "" {
		return fmt.Errorf("config: data_dir is not set and the home directory is unknown")
	}
	return nil
}

// StoragePath is the file holding persisted console state.
func (c *Config) StoragePath() string {
	return filepath.Join(c.DataDir, "storage.json")
}

// LogPath is the file the console logs to.
func (c *Config) LogPath() string {
	return filepath.Join(c.DataDir, "stockbox.log")
}
