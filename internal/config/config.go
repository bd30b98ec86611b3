// Package config loads the autoroutes command configuration from TOML files,
// environment-specific overlays and environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jackielii/autoroutes/internal/logging"
	"github.com/pelletier/go-toml/v2"
)

const (
	// BaseConfigFile is the primary configuration file name.
	BaseConfigFile = "autoroutes.toml"

	// EnvConfigEnv selects an overlay file, autoroutes.<env>.toml, next to the base file.
	EnvConfigEnv = "AUTOROUTES_ENV"

	EnvServerHost            = "AUTOROUTES_HOST"
	EnvServerPort            = "AUTOROUTES_PORT"
	EnvServerShutdownTimeout = "AUTOROUTES_SHUTDOWN_TIMEOUT"
	EnvRoutesRoot            = "AUTOROUTES_ROOT"
	EnvRoutesPattern         = "AUTOROUTES_PATTERN"
	EnvRoutesTolerant        = "AUTOROUTES_TOLERANT"
)

var loggingEnv = &logging.Env{
	Level:  "AUTOROUTES_LOG_LEVEL",
	Format: "AUTOROUTES_LOG_FORMAT",
}

// Config represents the root configuration.
type Config struct {
	Server  ServerConfig   `toml:"server"`
	Routes  RoutesConfig   `toml:"routes"`
	Logging logging.Config `toml:"logging"`
}

// ServerConfig configures the HTTP listener of the serve command.
type ServerConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	ShutdownTimeout string `toml:"shutdown_timeout"`
}

// Addr returns the listen address.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ShutdownTimeoutDuration parses and returns the shutdown timeout as a time.Duration.
func (c *ServerConfig) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// RoutesConfig configures route discovery.
type RoutesConfig struct {
	Root           string `toml:"root"`
	Pattern        string `toml:"pattern"`
	EntriesPattern string `toml:"entries_pattern"`
	EntryName      string `toml:"entry_name"`
	// Tolerant skips route modules that fail to load instead of aborting.
	// A pointer so that an overlay can switch it off again.
	Tolerant *bool `toml:"tolerant"`
}

// IsTolerant reports whether failed route modules are skipped.
func (c *RoutesConfig) IsTolerant() bool {
	return c.Tolerant != nil && *c.Tolerant
}

// Load reads the configuration file at path and applies the overlay selected
// by AUTOROUTES_ENV. A missing base file yields an empty configuration, so the
// command can run from flags and environment alone.
func Load(path string) (*Config, error) {
	cfg, err := load(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg, err = &Config{}, nil
	}
	if err != nil {
		return nil, err
	}

	if overlay := overlayPath(path); overlay != "" {
		o, err := load(overlay)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", overlay, err)
		}
		cfg.Merge(o)
	}
	return cfg, nil
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *Config) Finalize() error {
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Routes.Finalize(); err != nil {
		return fmt.Errorf("routes: %w", err)
	}
	if err := c.Logging.Finalize(loggingEnv); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *Config) Merge(overlay *Config) {
	c.Server.Merge(&overlay.Server)
	c.Routes.Merge(&overlay.Routes)
	c.Logging.Merge(&overlay.Logging)
}

func (c *ServerConfig) Finalize() error {
	c.loadDefaults()
	if err := c.loadEnv(); err != nil {
		return err
	}
	return c.validate()
}

func (c *ServerConfig) Merge(overlay *ServerConfig) {
	if overlay.Host != "" {
		c.Host = overlay.Host
	}
	if overlay.Port != 0 {
		c.Port = overlay.Port
	}
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
}

func (c *ServerConfig) loadDefaults() {
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
}

func (c *ServerConfig) loadEnv() error {
	if v := os.Getenv(EnvServerHost); v != "" {
		c.Host = v
	}
	if v := os.Getenv(EnvServerPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvServerPort, err)
		}
		c.Port = port
	}
	if v := os.Getenv(EnvServerShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	return nil
}

func (c *ServerConfig) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func (c *RoutesConfig) Finalize() error {
	c.loadDefaults()
	if err := c.loadEnv(); err != nil {
		return err
	}
	return c.validate()
}

func (c *RoutesConfig) Merge(overlay *RoutesConfig) {
	if overlay.Root != "" {
		c.Root = overlay.Root
	}
	if overlay.Pattern != "" {
		c.Pattern = overlay.Pattern
	}
	if overlay.EntriesPattern != "" {
		c.EntriesPattern = overlay.EntriesPattern
	}
	if overlay.EntryName != "" {
		c.EntryName = overlay.EntryName
	}
	if overlay.Tolerant != nil {
		c.Tolerant = overlay.Tolerant
	}
}

func (c *RoutesConfig) loadDefaults() {
	if c.Root == "" {
		c.Root = "routes"
	}
	if c.Pattern == "" {
		c.Pattern = "./**/"
	}
	if c.EntriesPattern == "" {
		c.EntriesPattern = "**/index.*"
	}
	if c.EntryName == "" {
		c.EntryName = "index"
	}
}

func (c *RoutesConfig) loadEnv() error {
	if v := os.Getenv(EnvRoutesRoot); v != "" {
		c.Root = v
	}
	if v := os.Getenv(EnvRoutesPattern); v != "" {
		c.Pattern = v
	}
	if v := os.Getenv(EnvRoutesTolerant); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvRoutesTolerant, err)
		}
		c.Tolerant = &b
	}
	return nil
}

func (c *RoutesConfig) validate() error {
	if strings.ContainsAny(c.EntryName, `/\`) {
		return fmt.Errorf("invalid entry_name %q: must be a base name", c.EntryName)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath(base string) string {
	env := os.Getenv(EnvConfigEnv)
	if env == "" {
		return ""
	}
	ext := filepath.Ext(base)
	p := strings.TrimSuffix(base, ext) + "." + env + ext
	if _, err := os.Stat(p); err == nil {
		return p
	}
	return ""
}
