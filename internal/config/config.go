package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// DefaultConfigPath is read when no explicit config file is given and it exists
const DefaultConfigPath = "configs/config.toml"

// Config is the complete service configuration
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Aviation  AviationConfig  `toml:"aviation"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
	QueryLog  QueryLogConfig  `toml:"query_log"`
	Logging   LoggingConfig   `toml:"logging"`
}

// ServerConfig holds the HTTP listener settings
type ServerConfig struct {
	Host                string   `toml:"host"`
	Port                string   `toml:"port"`
	CORSAllowedOrigins  []string `toml:"cors_allowed_origins"`
	StaticFilesDir      string   `toml:"static_files_dir"` // empty serves the embedded client
	ReadTimeoutSeconds  int      `toml:"read_timeout_seconds"`
	WriteTimeoutSeconds int      `toml:"write_timeout_seconds"`
}

// AviationConfig holds the upstream flight-data provider settings
type AviationConfig struct {
	BaseURL               string `toml:"base_url"`
	AccessKey             string `toml:"access_key"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
	DefaultFlightLimit    int    `toml:"default_flight_limit"`
	DefaultCatalogLimit   int    `toml:"default_catalog_limit"`
}

// RateLimitConfig limits inbound API requests per process. Zero disables it.
type RateLimitConfig struct {
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
}

// QueryLogConfig controls the operator query log
type QueryLogConfig struct {
	Enabled bool   `toml:"enabled"`
	DBPath  string `toml:"db_path"`
	// MaxRecent caps the recent-queries listing
	MaxRecent int `toml:"max_recent"`
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Default returns the configuration used when nothing overrides it
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:                "",
			Port:                "3000",
			CORSAllowedOrigins:  nil,
			ReadTimeoutSeconds:  15,
			WriteTimeoutSeconds: 30,
		},
		Aviation: AviationConfig{
			BaseURL:               "http://api.aviationstack.com/v1",
			RequestTimeoutSeconds: 10,
			DefaultFlightLimit:    20,
			DefaultCatalogLimit:   50,
		},
		QueryLog: QueryLogConfig{
			Enabled:   false,
			DBPath:    "data/queries.db",
			MaxRecent: 100,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load builds the configuration from defaults, an optional TOML file, an
// optional .env file and finally the process environment.
//
// An empty configPath falls back to DefaultConfigPath when that file exists.
// A missing envFile is not an error.
func Load(configPath, envFile string) (*Config, error) {
	cfg := Default()

	path := configPath
	if path == "" {
		if _, err := os.Stat(DefaultConfigPath); err == nil {
			path = DefaultConfigPath
		}
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	if envFile != "" {
		// godotenv never overrides variables that are already set
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Server.StaticFilesDir = getEnv("STATIC_FILES_DIR", c.Server.StaticFilesDir)
	c.Aviation.AccessKey = getEnv("AVIATION_API_KEY", c.Aviation.AccessKey)
	c.Aviation.BaseURL = getEnv("AVIATION_BASE_URL", c.Aviation.BaseURL)
	c.Aviation.RequestTimeoutSeconds = getEnvAsInt("AVIATION_TIMEOUT_SECONDS", c.Aviation.RequestTimeoutSeconds)
	c.RateLimit.RequestsPerSecond = getEnvAsFloat("RATE_LIMIT_RPS", c.RateLimit.RequestsPerSecond)
	c.RateLimit.Burst = getEnvAsInt("RATE_LIMIT_BURST", c.RateLimit.Burst)
	c.QueryLog.Enabled = getEnvAsBool("QUERY_LOG_ENABLED", c.QueryLog.Enabled)
	c.QueryLog.DBPath = getEnv("QUERY_LOG_DB_PATH", c.QueryLog.DBPath)
	c.Logging.Level = getEnv("LOG_LEVEL", c.Logging.Level)
	c.Logging.Format = getEnv("LOG_FORMAT", c.Logging.Format)
}

// Validate checks the configuration values. A missing access key is allowed;
// upstream calls then fail at request time.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("server.port must be numeric: %q", c.Server.Port)
	}
	if c.Aviation.BaseURL == "" {
		return fmt.Errorf("aviation.base_url is required")
	}
	if c.Aviation.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("aviation.request_timeout_seconds must be greater than 0")
	}
	if c.Aviation.DefaultFlightLimit <= 0 || c.Aviation.DefaultCatalogLimit <= 0 {
		return fmt.Errorf("aviation default limits must be greater than 0")
	}
	if c.RateLimit.RequestsPerSecond < 0 || c.RateLimit.Burst < 0 {
		return fmt.Errorf("rate_limit values must not be negative")
	}
	if c.QueryLog.Enabled && c.QueryLog.DBPath == "" {
		return fmt.Errorf("query_log.db_path is required when the query log is enabled")
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log format: %s (must be console or json)", c.Logging.Format)
	}

	return nil
}

// Addr returns the listen address
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

// ReadTimeout returns the server read timeout
func (s ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(s.ReadTimeoutSeconds) * time.Second
}

// WriteTimeout returns the server write timeout
func (s ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(s.WriteTimeoutSeconds) * time.Second
}

// RequestTimeout returns the bound on a single upstream call
func (a AviationConfig) RequestTimeout() time.Duration {
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
