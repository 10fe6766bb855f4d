package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for camset
type Config struct {
	// Flickr application credentials and requested permission level
	Flickr FlickrConfig `yaml:"flickr" json:"flickr"`

	// Photostream search settings
	Search SearchConfig `yaml:"search" json:"search"`

	// Courtesy pacing between remote calls
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// FlickrConfig holds the API key/secret pair and the permission level the
// authorization flow requests. Creating and mutating photosets needs "write".
type FlickrConfig struct {
	APIKey    string `yaml:"api_key" json:"api_key"`
	APISecret string `yaml:"api_secret" json:"api_secret"`
	Perms     string `yaml:"perms" json:"perms"`
}

// SearchConfig holds photostream enumeration settings
type SearchConfig struct {
	PerPage int    `yaml:"per_page" json:"per_page"`
	Extras  string `yaml:"extras" json:"extras"`
}

// RateLimitConfig holds pacing configuration. Strategy "fixed" sleeps a
// constant interval between calls; "token_bucket" allows bursts up to
// RequestsPerMinute per minute.
type RateLimitConfig struct {
	Strategy          string        `yaml:"strategy" json:"strategy"`
	SearchDelay       time.Duration `yaml:"search_delay" json:"search_delay"`
	AddDelay          time.Duration `yaml:"add_delay" json:"add_delay"`
	RequestsPerMinute int           `yaml:"requests_per_minute" json:"requests_per_minute"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// MaxPerPage is the largest page size flickr.photos.search accepts.
const MaxPerPage = 500

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Flickr: FlickrConfig{
			Perms: "write",
		},
		Search: SearchConfig{
			PerPage: MaxPerPage,
			Extras:  "machine_tags",
		},
		RateLimit: RateLimitConfig{
			Strategy:          "fixed",
			SearchDelay:       time.Second,
			AddDelay:          500 * time.Millisecond,
			RequestsPerMinute: 60,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if key := os.Getenv("FLICKR_API_KEY"); key != "" {
		c.Flickr.APIKey = key
	}
	if secret := os.Getenv("FLICKR_API_SECRET"); secret != "" {
		c.Flickr.APISecret = secret
	}
	if perms := os.Getenv("CAMSET_PERMS"); perms != "" {
		c.Flickr.Perms = perms
	}

	if perPage := os.Getenv("CAMSET_PER_PAGE"); perPage != "" {
		if val, err := strconv.Atoi(perPage); err == nil && val > 0 {
			c.Search.PerPage = val
		}
	}

	if strategy := os.Getenv("CAMSET_RATE_STRATEGY"); strategy != "" {
		c.RateLimit.Strategy = strategy
	}
	if delay := os.Getenv("CAMSET_SEARCH_DELAY"); delay != "" {
		if d, err := time.ParseDuration(delay); err == nil && d >= 0 {
			c.RateLimit.SearchDelay = d
		}
	}
	if delay := os.Getenv("CAMSET_ADD_DELAY"); delay != "" {
		if d, err := time.ParseDuration(delay); err == nil && d >= 0 {
			c.RateLimit.AddDelay = d
		}
	}

	if logLevel := os.Getenv("CAMSET_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFile := os.Getenv("CAMSET_LOG_FILE"); logFile != "" {
		c.Logging.File = logFile
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	locations := []string{
		".camset.yaml",
		".camset.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "camset", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "camset", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".camset.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// ValidPerms are the permission levels Flickr grants, in increasing order.
var ValidPerms = []string{"read", "write", "delete"}

// Validate checks if the configuration is valid. Credential presence is
// deliberately not checked here: `auth status` and `config show` work
// without credentials, and the commands that need them fail fast themselves.
func (c *Config) Validate() error {
	var errs []error

	validPerms := map[string]bool{}
	for _, p := range ValidPerms {
		validPerms[p] = true
	}
	if !validPerms[strings.ToLower(c.Flickr.Perms)] {
		errs = append(errs, fmt.Errorf("invalid perms %q (must be read, write, or delete)", c.Flickr.Perms))
	}

	if c.Search.PerPage <= 0 || c.Search.PerPage > MaxPerPage {
		errs = append(errs, fmt.Errorf("per_page must be between 1 and %d", MaxPerPage))
	}

	switch strings.ToLower(c.RateLimit.Strategy) {
	case "fixed", "token_bucket":
	default:
		errs = append(errs, fmt.Errorf("invalid rate limit strategy %q", c.RateLimit.Strategy))
	}
	if c.RateLimit.SearchDelay < 0 || c.RateLimit.AddDelay < 0 {
		errs = append(errs, errors.New("delays cannot be negative"))
	}
	if c.RateLimit.RequestsPerMinute <= 0 {
		errs = append(errs, errors.New("requests per minute must be positive"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// HasCredentials reports whether both halves of the key/secret pair are set.
func (c *Config) HasCredentials() bool {
	return c.Flickr.APIKey != "" && c.Flickr.APISecret != ""
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// 0600: the file may hold the API secret
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if apiKey, ok := flags["api-key"].(string); ok && apiKey != "" {
		c.Flickr.APIKey = apiKey
	}
	if apiSecret, ok := flags["api-secret"].(string); ok && apiSecret != "" {
		c.Flickr.APISecret = apiSecret
	}
	if perPage, ok := flags["per-page"].(int); ok && perPage > 0 {
		c.Search.PerPage = perPage
	}
	if delay, ok := flags["search-delay"].(time.Duration); ok && delay >= 0 {
		c.RateLimit.SearchDelay = delay
	}
	if delay, ok := flags["add-delay"].(time.Duration); ok && delay >= 0 {
		c.RateLimit.AddDelay = delay
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence.
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".camset.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	// Override with environment variables (includes values from .env)
	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
