// Package config reads the urlform YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-urlform/internal/logging"
)

// Config is the top-level configuration shared by every command.
type Config struct {
	// Schema is a file path or http(s) URL of the schema document.
	Schema string `yaml:"schema"`
	// OpenAPIOperation, when set, treats Schema as an OpenAPI document and
	// derives the form from this operation's query parameters.
	OpenAPIOperation string `yaml:"openapi_operation"`

	Addr         string `yaml:"addr"`
	PageAddress  string `yaml:"page_address"`
	LivePreview  bool   `yaml:"live_preview"`
	Locale       string `yaml:"locale"`
	Theme        string `yaml:"theme"`
	ThemeVariant string `yaml:"theme_variant"`
	Watch        bool   `yaml:"watch"`
	MaxSessions  int    `yaml:"max_sessions"`

	RequestTimeout time.Duration `yaml:"request_timeout"`
	ShutdownGrace  time.Duration `yaml:"shutdown_grace"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Addr:           "127.0.0.1:8080",
		PageAddress:    "http://localhost/",
		LivePreview:    true,
		Locale:         "en",
		Theme:          "urlform",
		MaxSessions:    256,
		RequestTimeout: 10 * time.Second,
		ShutdownGrace:  5 * time.Second,
		LogLevel:       "info",
		LogFormat:      string(logging.FormatText),
	}
}

// Load reads path over Default. An empty or missing path yields the
// defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	def := Default()
	if strings.TrimSpace(c.Addr) == "" {
		c.Addr = def.Addr
	}
	if strings.TrimSpace(c.PageAddress) == "" {
		c.PageAddress = def.PageAddress
	}
	if strings.TrimSpace(c.Locale) == "" {
		c.Locale = def.Locale
	}
	if strings.TrimSpace(c.Theme) == "" {
		c.Theme = def.Theme
	}
	if c.MaxSessions <= 0 {
		c.MaxSessions = def.MaxSessions
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = def.RequestTimeout
	}
	if c.ShutdownGrace <= 0 {
		c.ShutdownGrace = def.ShutdownGrace
	}
	if strings.TrimSpace(c.LogLevel) == "" {
		c.LogLevel = def.LogLevel
	}
	if strings.TrimSpace(c.LogFormat) == "" {
		c.LogFormat = def.LogFormat
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: log_level: %w", err)
	}
	switch logging.Format(strings.ToLower(c.LogFormat)) {
	case logging.FormatText, logging.FormatJSON:
	default:
		return fmt.Errorf("config: log_format %q must be text or json", c.LogFormat)
	}
	page, err := url.Parse(c.PageAddress)
	if err != nil || !page.IsAbs() {
		return fmt.Errorf("config: page_address %q must be an absolute URL", c.PageAddress)
	}
	if c.MaxSessions < 1 {
		return errors.New("config: max_sessions must be positive")
	}
	if c.RequestTimeout < 0 || c.ShutdownGrace < 0 {
		return errors.New("config: durations must not be negative")
	}
	if c.OpenAPIOperation != "" && strings.TrimSpace(c.Schema) == "" {
		return errors.New("config: openapi_operation requires schema")
	}
	return nil
}

// Logging returns the parsed level and format.
func (c Config) Logging() (level slog.Level, format logging.Format, err error) {
	level, err = logging.ParseLevel(c.LogLevel)
	if err != nil {
		return level, format, err
	}
	return level, logging.Format(strings.ToLower(c.LogFormat)), nil
}
