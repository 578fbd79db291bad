// Package common provides shared utilities for Glossa
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Glossa
type Config struct {
	Environment string          `toml:"environment"`
	Server      ServerConfig    `toml:"server"`
	Glossary    GlossaryConfig  `toml:"glossary"`
	Storage     StorageConfig   `toml:"storage"`
	Clients     ClientsConfig   `toml:"clients"`
	Auth        AuthConfig      `toml:"auth"`
	RateLimit   RateLimitConfig `toml:"rate_limit"`
	Logging     LoggingConfig   `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// GlossaryConfig controls where terms come from and how they are searched.
type GlossaryConfig struct {
	Source       string        `toml:"source"` // "embedded", "file", "http" or "surrealdb"
	Path         string        `toml:"path"`   // file source: .json, .yaml or .yml
	URL          string        `toml:"url"`    // http source: static JSON document
	Watch        bool          `toml:"watch"`  // reload the file source when it changes
	Debounce     string        `toml:"debounce"`
	SuggestLimit int           `toml:"suggest_limit"`
	PageSize     int           `toml:"page_size"`
	Matcher      MatcherConfig `toml:"matcher"`
}

// MatcherConfig tunes approximate matching. Lower thresholds demand closer matches.
type MatcherConfig struct {
	Threshold      float64 `toml:"threshold"`
	Location       int     `toml:"location"`
	Distance       int     `toml:"distance"`
	IgnoreLocation bool    `toml:"ignore_location"`
}

// GetDebounce parses and returns the live-search quiet period
func (c *GlossaryConfig) GetDebounce() time.Duration {
	d, err := time.ParseDuration(c.Debounce)
	if err != nil || d <= 0 {
		return 250 * time.Millisecond
	}
	return d
}

// StorageConfig holds SurrealDB connection settings, used when glossary.source is "surrealdb".
type StorageConfig struct {
	Address   string `toml:"address"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
	Namespace string `toml:"namespace"`
	Database  string `toml:"database"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	YouTube YouTubeConfig `toml:"youtube"`
	HTTP    HTTPConfig    `toml:"http"`
}

// YouTubeConfig holds YouTube Data API configuration for the video search proxy
type YouTubeConfig struct {
	BaseURL    string `toml:"base_url"`
	APIKey     string `toml:"api_key"`
	ChannelID  string `toml:"channel_id"`
	MaxResults int    `toml:"max_results"`
	RateLimit  int    `toml:"rate_limit"`
	Timeout    string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *YouTubeConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 15 * time.Second
	}
	return d
}

// HTTPConfig configures the http term source
type HTTPConfig struct {
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *HTTPConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// AuthConfig holds the admin token configuration.
type AuthConfig struct {
	JWTSecret   string `toml:"jwt_secret"`
	Issuer      string `toml:"issuer"`
	TokenExpiry string `toml:"token_expiry"` // duration string, default "24h"
}

// GetTokenExpiry parses and returns the token expiry duration.
func (c *AuthConfig) GetTokenExpiry() time.Duration {
	d, err := time.ParseDuration(c.TokenExpiry)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

// RateLimitConfig holds per-client request limits for the public API.
type RateLimitConfig struct {
	RequestsPerMinute int `toml:"requests_per_minute"` // 0 disables limiting
	Burst             int `toml:"burst"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level    string   `toml:"level"`
	Format   string   `toml:"format"`
	Outputs  []string `toml:"outputs"`
	FilePath string   `toml:"file_path"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Glossary: GlossaryConfig{
			Source:       "embedded",
			Path:         "data/glossary.json",
			Debounce:     "250ms",
			SuggestLimit: 8,
			PageSize:     50,
			Matcher: MatcherConfig{
				Threshold: 0.3,
				Location:  0,
				Distance:  100,
			},
		},
		Storage: StorageConfig{
			Address:   "ws://localhost:8000/rpc",
			Username:  "root",
			Password:  "root",
			Namespace: "glossa",
			Database:  "glossa",
		},
		Clients: ClientsConfig{
			YouTube: YouTubeConfig{
				BaseURL:    "https://www.googleapis.com/youtube/v3",
				ChannelID:  "UCBdWQ1bvfUWXCz6je9Ep7wg",
				MaxResults: 10,
				RateLimit:  5,
				Timeout:    "15s",
			},
			HTTP: HTTPConfig{
				RateLimit: 2,
				Timeout:   "10s",
			},
		},
		Auth: AuthConfig{
			JWTSecret:   "dev-jwt-secret-change-in-production",
			Issuer:      "glossa-server",
			TokenExpiry: "24h",
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 120,
			Burst:             20,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "console",
			Outputs:  []string{"console"},
			FilePath: "./logs/glossa.log",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides.
// A .env file in the working directory is read first; variables already
// set in the process environment win.
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("GLOSSA_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("GLOSSA_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("GLOSSA_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("GLOSSA_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	// Glossary overrides
	if v := os.Getenv("GLOSSA_GLOSSARY_SOURCE"); v != "" {
		config.Glossary.Source = strings.ToLower(v)
	}
	if v := os.Getenv("GLOSSA_GLOSSARY_PATH"); v != "" {
		config.Glossary.Path = v
	}
	if v := os.Getenv("GLOSSA_GLOSSARY_URL"); v != "" {
		config.Glossary.URL = v
	}
	if v := os.Getenv("GLOSSA_GLOSSARY_WATCH"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			config.Glossary.Watch = b
		}
	}
	if v := os.Getenv("GLOSSA_MATCH_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			config.Glossary.Matcher.Threshold = f
		}
	}

	// Storage overrides
	if v := os.Getenv("GLOSSA_STORAGE_ADDRESS"); v != "" {
		config.Storage.Address = v
	}
	if v := os.Getenv("GLOSSA_STORAGE_USERNAME"); v != "" {
		config.Storage.Username = v
	}
	if v := os.Getenv("GLOSSA_STORAGE_PASSWORD"); v != "" {
		config.Storage.Password = v
	}

	// Both key names are accepted.
	for _, name := range []string{"YOUTUBE_API_KEY", "GLOSSA_YOUTUBE_API_KEY"} {
		if v := os.Getenv(name); v != "" {
			config.Clients.YouTube.APIKey = v
			break
		}
	}
	if v := os.Getenv("GLOSSA_YOUTUBE_CHANNEL_ID"); v != "" {
		config.Clients.YouTube.ChannelID = v
	}

	if v := os.Getenv("GLOSSA_AUTH_JWT_SECRET"); v != "" {
		config.Auth.JWTSecret = v
	}
	if v := os.Getenv("GLOSSA_AUTH_TOKEN_EXPIRY"); v != "" {
		config.Auth.TokenExpiry = v
	}

	if v := os.Getenv("GLOSSA_RATE_LIMIT_RPM"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.RateLimit.RequestsPerMinute = n
		}
	}
}

// Validate checks settings that would otherwise fail later in confusing ways.
func (c *Config) Validate() error {
	switch c.Glossary.Source {
	case "embedded", "file", "http", "surrealdb":
	default:
		return fmt.Errorf("unknown glossary source %q (want embedded, file, http or surrealdb)", c.Glossary.Source)
	}
	if c.Glossary.Source == "file" && c.Glossary.Path == "" {
		return fmt.Errorf("glossary.path is required for the file source")
	}
	if c.Glossary.Source == "http" && c.Glossary.URL == "" {
		return fmt.Errorf("glossary.url is required for the http source")
	}
	if t := c.Glossary.Matcher.Threshold; t < 0 || t > 1 {
		return fmt.Errorf("glossary.matcher.threshold must be within [0, 1], got %v", t)
	}
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return fmt.Errorf("auth.jwt_secret must not be empty")
	}
	if c.IsProduction() && c.Auth.JWTSecret == NewDefaultConfig().Auth.JWTSecret {
		return fmt.Errorf("auth.jwt_secret must be changed in production")
	}
	return nil
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
