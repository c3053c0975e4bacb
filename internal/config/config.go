package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultToken is the Api-Token accepted when none is configured
	DefaultToken = "mock-api-token"

	DefaultSeed  = 20240715
	DefaultCount = 240
)

// DefaultReferenceDate is the generation epoch of the default corpus
var DefaultReferenceDate = time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)

// Config is the main configuration structure
type Config struct {
	API       APIConfig       `yaml:"api"`
	Generator GeneratorConfig `yaml:"generator"`
	OpenAPI   OpenAPIConfig   `yaml:"openapi"`
	Logging   LoggingConfig   `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// APIConfig contains HTTP API settings
type APIConfig struct {
	ListenAddr     string          `yaml:"listen_addr" validate:"required"`
	Token          string          `yaml:"token" validate:"required"`
	MaxHeaderBytes int             `yaml:"max_header_bytes" validate:"gte=0"` // Default: 1MB
	ReadTimeout    time.Duration   `yaml:"read_timeout" validate:"gte=0"`     // Default: 30s
	WriteTimeout   time.Duration   `yaml:"write_timeout" validate:"gte=0"`    // Default: 30s
	IdleTimeout    time.Duration   `yaml:"idle_timeout" validate:"gte=0"`     // Default: 60s
	RateLimit      RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig limits requests per Api-Token. The emulated platform allows
// 5 requests per second per account.
type RateLimitConfig struct {
	Enabled           bool    `yaml:"enabled"`
	RequestsPerSecond float64 `yaml:"requests_per_second" validate:"gte=0"`
	Burst             int     `yaml:"burst" validate:"gte=0"`
}

// GeneratorConfig controls the synthesized campaign corpus
type GeneratorConfig struct {
	Seed          int64     `yaml:"seed" validate:"ne=0"`
	ReferenceDate time.Time `yaml:"reference_date"`
	Count         int       `yaml:"count" validate:"gte=0,lte=100000"`
}

// OpenAPIConfig points at the served OpenAPI document
type OpenAPIConfig struct {
	SpecPath string `yaml:"spec_path"` // Empty uses the bundled document
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level      string `yaml:"level" validate:"oneof=debug info warn error"`
	Format     string `yaml:"format" validate:"oneof=json text"`
	File       string `yaml:"file"`         // Log to a rotated file instead of stdout
	MaxSizeMB  int    `yaml:"max_size_mb"`  // Rotate after this size (default: 100)
	MaxBackups int    `yaml:"max_backups"`  // Rotated files to keep (0 = all)
	MaxAgeDays int    `yaml:"max_age_days"` // Days to keep rotated files (0 = forever)
}

// MetricsConfig contains Prometheus metrics settings
type MetricsConfig struct {
	Enabled    bool     `yaml:"enabled"`
	ListenAddr string   `yaml:"listen_addr"` // Default: :9090
	Path       string   `yaml:"path"`        // Default: /metrics
	AllowedIPs []string `yaml:"allowed_ips"` // IP addresses/CIDRs allowed to access metrics
}

var validate = validator.New()

// Default returns a configuration with every default applied, used when no
// config file is given
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// Load loads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overrides the listen port and token from PORT and MOCK_API_TOKEN
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if port := getenv("PORT"); port != "" {
		n, err := strconv.Atoi(port)
		if err != nil || n <= 0 || n > 65535 {
			return fmt.Errorf("invalid PORT: %q", port)
		}
		c.API.ListenAddr = ":" + port
	}
	if token := getenv("MOCK_API_TOKEN"); token != "" {
		c.API.Token = token
	}
	return nil
}

// setDefaults sets default values for configuration
func (c *Config) setDefaults() {
	if c.API.ListenAddr == "" {
		c.API.ListenAddr = ":3100"
	}
	if c.API.Token == "" {
		c.API.Token = DefaultToken
	}
	if c.API.MaxHeaderBytes == 0 {
		c.API.MaxHeaderBytes = 1 << 20 // 1 MB
	}
	if c.API.ReadTimeout == 0 {
		c.API.ReadTimeout = 30 * time.Second
	}
	if c.API.WriteTimeout == 0 {
		c.API.WriteTimeout = 30 * time.Second
	}
	if c.API.IdleTimeout == 0 {
		c.API.IdleTimeout = 60 * time.Second
	}
	if c.API.RateLimit.RequestsPerSecond == 0 {
		c.API.RateLimit.RequestsPerSecond = 5
	}
	if c.API.RateLimit.Burst == 0 {
		c.API.RateLimit.Burst = 5
	}

	if c.Generator.Seed == 0 {
		c.Generator.Seed = DefaultSeed
	}
	if c.Generator.ReferenceDate.IsZero() {
		c.Generator.ReferenceDate = DefaultReferenceDate
	}
	if c.Generator.Count == 0 {
		c.Generator.Count = DefaultCount
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if c.Logging.MaxSizeMB == 0 {
		c.Logging.MaxSizeMB = 100
	}

	// Metrics defaults
	if c.Metrics.ListenAddr == "" {
		c.Metrics.ListenAddr = ":9090"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fieldError(verrs[0])
		}
		return err
	}

	if c.Metrics.Enabled && c.Metrics.ListenAddr == c.API.ListenAddr {
		return fmt.Errorf("metrics.listen_addr must differ from api.listen_addr")
	}

	return nil
}

// fieldError turns a validator error into a message naming the YAML key
func fieldError(fe validator.FieldError) error {
	name := fe.Namespace()
	if key, ok := yamlKeys[fe.StructNamespace()]; ok {
		name = key
	}

	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", name)
	case "oneof":
		return fmt.Errorf("invalid %s: %v (must be one of: %s)", name, fe.Value(), fe.Param())
	case "ne":
		return fmt.Errorf("%s must not be %s", name, fe.Param())
	default:
		return fmt.Errorf("invalid %s: %v (%s=%s)", name, fe.Value(), fe.Tag(), fe.Param())
	}
}

var yamlKeys = map[string]string{
	"Config.API.ListenAddr":                  "api.listen_addr",
	"Config.API.Token":                       "api.token",
	"Config.API.MaxHeaderBytes":              "api.max_header_bytes",
	"Config.API.ReadTimeout":                 "api.read_timeout",
	"Config.API.WriteTimeout":                "api.write_timeout",
	"Config.API.IdleTimeout":                 "api.idle_timeout",
	"Config.API.RateLimit.RequestsPerSecond": "api.rate_limit.requests_per_second",
	"Config.API.RateLimit.Burst":             "api.rate_limit.burst",
	"Config.Generator.Seed":                  "generator.seed",
	"Config.Generator.Count":                 "generator.count",
	"Config.Logging.Level":                   "logging.level",
	"Config.Logging.Format":                  "logging.format",
}
