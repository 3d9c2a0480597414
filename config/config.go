package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server       ServerConfig
	Basalam      BasalamConfig
	Search       SearchConfig
	Confirmation ConfirmationConfig
	Cache        CacheConfig
	RateLimit    RateLimitConfig
	Log          LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// BasalamConfig holds Basalam marketplace API configuration
type BasalamConfig struct {
	SearchURL  string        `mapstructure:"search_url"`
	SimilarURL string        `mapstructure:"similar_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	PageSize   int           `mapstructure:"page_size"` // more-like-this page size
}

// SearchConfig holds pagination bounds for the search passthrough
type SearchConfig struct {
	DefaultPageSize int `mapstructure:"default_page_size"`
	MaxPageSize     int `mapstructure:"max_page_size"`
	MaxQueryLength  int `mapstructure:"max_query_length"`
}

// ConfirmationConfig holds cart confirmation tuning
type ConfirmationConfig struct {
	MaxConcurrency int           `mapstructure:"max_concurrency"`
	SimilarLimit   int           `mapstructure:"similar_limit"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type     string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP   int     `mapstructure:"per_ip"`  // requests per minute
	Basalam float64 `mapstructure:"basalam"` // outbound requests per second
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "text" or "json"
}

const envFile = ".env"

// Upper bounds enforced on confirmation tuning
const (
	MaxConfirmationConcurrency = 10
	MaxSimilarLimit            = 100
)

// Load loads configuration from a .env file, environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/salamyar/")

	// Environment variable settings
	v.SetEnvPrefix("SALAMYAR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile exports the variables of ./.env into the environment.
// A missing file is not an error; existing variables are never overridden.
func loadEnvFile() error {
	if _, err := os.Stat(envFile); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(envFile); err != nil {
		return fmt.Errorf("error loading %s: %w", envFile, err)
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Basalam defaults
	v.SetDefault("basalam.search_url", "https://search.basalam.com/ai-engine/api/v2.0/product/search")
	v.SetDefault("basalam.similar_url", "https://search.basalam.com/ai-engine/api/v2.0/mlt")
	v.SetDefault("basalam.timeout", "15s")
	v.SetDefault("basalam.page_size", 24)

	// Search defaults
	v.SetDefault("search.default_page_size", 12)
	v.SetDefault("search.max_page_size", 50)
	v.SetDefault("search.max_query_length", 500)

	// Confirmation defaults
	v.SetDefault("confirmation.max_concurrency", 5)
	v.SetDefault("confirmation.similar_limit", MaxSimilarLimit)
	v.SetDefault("confirmation.timeout", "60s")

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", "5m")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)
	v.SetDefault("ratelimit.basalam", 10)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when cache type is 'redis'")
	}

	if config.Confirmation.MaxConcurrency < 1 || config.Confirmation.MaxConcurrency > MaxConfirmationConcurrency {
		return fmt.Errorf("confirmation max_concurrency must be between 1 and %d, got: %d",
			MaxConfirmationConcurrency, config.Confirmation.MaxConcurrency)
	}

	if config.Confirmation.SimilarLimit < 1 || config.Confirmation.SimilarLimit > MaxSimilarLimit {
		return fmt.Errorf("confirmation similar_limit must be between 1 and %d, got: %d",
			MaxSimilarLimit, config.Confirmation.SimilarLimit)
	}

	if config.Basalam.PageSize < 1 {
		return fmt.Errorf("basalam page_size must be positive, got: %d", config.Basalam.PageSize)
	}

	if config.Search.DefaultPageSize < 1 || config.Search.DefaultPageSize > config.Search.MaxPageSize {
		return fmt.Errorf("search default_page_size must be between 1 and max_page_size (%d), got: %d",
			config.Search.MaxPageSize, config.Search.DefaultPageSize)
	}

	if _, err := log.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("log level: %w", err)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("log format must be 'text' or 'json', got: %s", config.Log.Format)
	}

	return nil
}
