package contract

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/huangsam/feedstore/schema"
	"github.com/redis/go-redis/v9"
)

// Default values for configuration.
const (
	DefaultCacheKey = "feed_cache_key"
	DefaultTimeout  = 10 * time.Second
	MaxCacheKeyLen  = 255
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// Config holds the runtime configuration for the feed store CLI.
// This struct is the "final, validated" config.
type Config struct {
	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext
	CacheKey       string

	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	Timeout     time.Duration // How long the CLI waits for a completion
	MetricsAddr string        // Empty disables the metrics endpoint

	ImagesFile string    // Source of images for insert ("-" is stdin)
	Timestamp  time.Time // Timestamp for insert (zero = now)
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	CacheBackend   string `mapstructure:"cache-backend"`
	CacheDBConnect string `mapstructure:"cache-db-connect"`
	CacheKey       string `mapstructure:"cache-key"`
	Output         string `mapstructure:"output"`
	OutputFile     string `mapstructure:"output-file"`
	Width          int    `mapstructure:"width"`
	Color          string `mapstructure:"color"`
	Timeout        string `mapstructure:"timeout"`
	MetricsAddr    string `mapstructure:"metrics-addr"`

	// --- Fields from insertCmd.Flags() ---
	ImagesFile string `mapstructure:"images-file"`
	Timestamp  string `mapstructure:"timestamp"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfig(cfg, input); err != nil {
		return err
	}
	if err := processInsertInputs(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of connection strings
// for the networked backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.MemoryBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	case schema.RedisBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if _, err := redis.ParseURL(connStr); err != nil {
			return fmt.Errorf("Redis connection string must be a redis:// or rediss:// URL: %w", err)
		}
	default:
		return fmt.Errorf("unsupported cache backend: %s", backend)
	}
	return nil
}

// ValidateCacheKey checks that key can name a slot in every backend.
func ValidateCacheKey(key string) error {
	if key == "" {
		return fmt.Errorf("cache key cannot be empty")
	}
	if len(key) > MaxCacheKeyLen {
		return fmt.Errorf("cache key cannot exceed %d bytes (received %d)", MaxCacheKeyLen, len(key))
	}
	for _, r := range key {
		if unicode.IsSpace(r) || !unicode.IsPrint(r) {
			return fmt.Errorf("invalid cache key %q: whitespace and control characters are not allowed", key)
		}
	}
	return nil
}

// validateSimpleInputs processes and validates all output related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.MetricsAddr = input.MetricsAddr

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json", input.Output)
	}

	if input.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", input.Width)
	}

	cfg.Timeout = DefaultTimeout
	if input.Timeout != "" {
		timeout, err := time.ParseDuration(input.Timeout)
		if err != nil {
			return fmt.Errorf("invalid --timeout value: %w", err)
		}
		if timeout <= 0 {
			return fmt.Errorf("timeout must be greater than 0 (received %s)", input.Timeout)
		}
		cfg.Timeout = timeout
	}
	return nil
}

// validateBackendConfig validates the cache backend, its connection string and the slot key.
func validateBackendConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, redis, memory", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	cfg.CacheKey = input.CacheKey
	if cfg.CacheKey == "" {
		cfg.CacheKey = DefaultCacheKey
	}
	return ValidateCacheKey(cfg.CacheKey)
}

// processInsertInputs parses the inputs used only by the insert command.
func processInsertInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.ImagesFile = input.ImagesFile
	if cfg.ImagesFile == "" {
		cfg.ImagesFile = "-"
	}

	cfg.Timestamp = time.Time{}
	if input.Timestamp != "" {
		ts, err := time.Parse(DateTimeFormat, input.Timestamp)
		if err != nil {
			return fmt.Errorf("invalid --timestamp value (expected %s): %w", DateTimeFormat, err)
		}
		cfg.Timestamp = ts
	}
	return nil
}
