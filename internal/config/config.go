// Package config loads client settings from a .env file, an optional YAML
// file and GACHA_* environment variables, in that order of precedence (later wins).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAPIURL      = "http://localhost:8080"
	DefaultRevealDelay = 2 * time.Second
	DefaultErrorTTL    = 3 * time.Second
	DefaultHTTPTimeout = 30 * time.Second
	DefaultExportDir   = "."
)

// Config holds client settings.
type Config struct {
	APIURL      string        `yaml:"api_url"      env:"GACHA_API_URL"`
	UserID      string        `yaml:"user_id"      env:"GACHA_USER"`
	RevealDelay time.Duration `yaml:"reveal_delay" env:"GACHA_REVEAL_DELAY"`
	ErrorTTL    time.Duration `yaml:"error_ttl"    env:"GACHA_ERROR_TTL"`
	HTTPTimeout time.Duration `yaml:"http_timeout" env:"GACHA_HTTP_TIMEOUT"`
	ExportDir   string        `yaml:"export_dir"   env:"GACHA_EXPORT_DIR"`
	OpenExport  bool          `yaml:"open_export"  env:"GACHA_OPEN_EXPORT"`
	LogFile     string        `yaml:"log_file"     env:"GACHA_LOG_FILE"`
}

// Sources names the files Load reads. Empty paths are skipped.
type Sources struct {
	DotEnv string
	YAML   string
}

// DefaultSources returns ./.env and ~/.gacha/config.yaml.
func DefaultSources() Sources {
	s := Sources{DotEnv: ".env"}
	if home, err := os.UserHomeDir(); err == nil {
		s.YAML = filepath.Join(home, ".gacha", "config.yaml")
	}
	return s
}

// Load builds a Config from the given sources. Missing files are not errors.
func Load(src Sources) (Config, error) {
	if src.DotEnv != "" {
		// godotenv never overrides variables already set in the process.
		if err := godotenv.Load(src.DotEnv); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("config.Load: read %s: %w", src.DotEnv, err)
		}
	}

	var cfg Config
	if src.YAML != "" {
		fileCfg, err := readYAML(src.YAML)
		if err != nil {
			return Config{}, fmt.Errorf("config.Load: %w", err)
		}
		cfg = fileCfg
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config.Load: parse env: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config.Load: %w", err)
	}
	return cfg, nil
}

// readYAML loads a YAML file into Config. A missing file returns a zero Config.
func readYAML(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.APIURL == "" {
		c.APIURL = DefaultAPIURL
	}
	if c.RevealDelay == 0 {
		c.RevealDelay = DefaultRevealDelay
	}
	if c.ErrorTTL == 0 {
		c.ErrorTTL = DefaultErrorTTL
	}
	if c.HTTPTimeout == 0 {
		c.HTTPTimeout = DefaultHTTPTimeout
	}
	if c.ExportDir == "" {
		c.ExportDir = DefaultExportDir
	}
}

// Validate rejects settings the client cannot run with.
func (c Config) Validate() error {
	switch {
	case c.RevealDelay < 0:
		return fmt.Errorf("reveal delay must be positive, got %s", c.RevealDelay)
	case c.ErrorTTL < 0:
		return fmt.Errorf("error ttl must be positive, got %s", c.ErrorTTL)
	case c.HTTPTimeout < 0:
		return fmt.Errorf("http timeout must be positive, got %s", c.HTTPTimeout)
	}
	return nil
}
