package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Resolver ResolverConfig `yaml:"resolver"`
	Browse   BrowseConfig   `yaml:"browse"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port     int    `yaml:"port"`
	BasePath string `yaml:"base_path"`
}

// DatabaseConfig holds SQLite settings.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// ResolverConfig holds fallback-resolution settings shared by all sources.
type ResolverConfig struct {
	// MaxItems caps how many items a single resolution may return.
	MaxItems int `yaml:"max_items"`
	// FetchTimeout bounds a source's full fetch (bulk, with continuations).
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
	// QuickTimeout bounds the lighter first-page-only fallback fetch.
	QuickTimeout time.Duration `yaml:"quick_timeout"`
}

// BrowseConfig carries the request fingerprint the music browse endpoint
// expects. Upstream drifts these independently of everything else, so they
// are configuration, not constants.
type BrowseConfig struct {
	ClientName    string `yaml:"client_name"`
	ClientVersion string `yaml:"client_version"`
	VisitorData   string `yaml:"visitor_data"`
	UserAgent     string `yaml:"user_agent"`
	HL            string `yaml:"hl"`
	GL            string `yaml:"gl"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	FilePath string `yaml:"file_path"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:     8080,
			BasePath: "",
		},
		Database: DatabaseConfig{
			Path: "/data/odeum.db",
		},
		Resolver: ResolverConfig{
			MaxItems:     65,
			FetchTimeout: 20 * time.Second,
			QuickTimeout: 6 * time.Second,
		},
		Browse: BrowseConfig{
			ClientName:    "WEB_REMIX",
			ClientVersion: "1.20240101.00.00",
			UserAgent:     "Mozilla/5.0 (Windows NT 10.0; Win64; x64)",
			HL:            "en",
			GL:            "US",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads config from a YAML file (if it exists) and overrides with
// environment variables. Environment variables take precedence.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFromFile(path); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	cfg.loadFromEnv()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) loadFromEnv() {
	if v := os.Getenv("OD_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("OD_BASE_PATH"); v != "" {
		c.Server.BasePath = v
	}
	if v := os.Getenv("OD_DB_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("OD_MAX_ITEMS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Resolver.MaxItems = n
		}
	}
	if v := os.Getenv("OD_FETCH_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Resolver.FetchTimeout = d
		}
	}
	if v := os.Getenv("OD_QUICK_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Resolver.QuickTimeout = d
		}
	}
	if v := os.Getenv("OD_BROWSE_CLIENT_VERSION"); v != "" {
		c.Browse.ClientVersion = v
	}
	if v := os.Getenv("OD_BROWSE_VISITOR_DATA"); v != "" {
		c.Browse.VisitorData = v
	}
	if v := os.Getenv("OD_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("OD_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("OD_LOG_FILE"); v != "" {
		c.Logging.FilePath = v
	}
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}
	if c.Resolver.MaxItems < 1 {
		return fmt.Errorf("resolver max_items must be positive, got %d", c.Resolver.MaxItems)
	}
	if c.Resolver.FetchTimeout <= 0 || c.Resolver.QuickTimeout <= 0 {
		return fmt.Errorf("resolver timeouts must be positive")
	}
	if c.Browse.ClientName == "" || c.Browse.ClientVersion == "" {
		return fmt.Errorf("browse client name and version are required")
	}
	c.Server.BasePath = strings.TrimRight(c.Server.BasePath, "/")
	return nil
}
