package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Redis    RedisConfig
	CORS     CORSConfig
	Log      LogConfig
	Reports  ReportsConfig
	Events   EventsConfig
	Catalog  CatalogConfig
	Shutdown time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns host:port.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// ReportsConfig controls caching of the enrollment report.
type ReportsConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

// EventsConfig tunes the asynchronous notification listeners and the Redis
// event relay.
type EventsConfig struct {
	RelayEnabled       bool
	RelayChannelPrefix string
	AsyncWorkers       int
	AsyncBuffer        int
	AsyncRetries       int
}

// CatalogConfig governs startup data.
type CatalogConfig struct {
	SeedSampleData bool
}

// RedisRequired reports whether any feature needs a Redis connection.
func (c *Config) RedisRequired() bool {
	return c.Reports.CacheEnabled || c.Events.RelayEnabled
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	if !strings.HasPrefix(c.APIPrefix, "/") {
		return fmt.Errorf("API_PREFIX must start with '/', got %q", c.APIPrefix)
	}
	if c.Events.AsyncWorkers <= 0 {
		return fmt.Errorf("EVENT_ASYNC_WORKERS must be positive, got %d", c.Events.AsyncWorkers)
	}
	return nil
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = strings.TrimRight(v.GetString("API_PREFIX"), "/")

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Reports = ReportsConfig{
		CacheEnabled: v.GetBool("ENABLE_REPORT_CACHE"),
		CacheTTL:     parseDuration(v.GetString("REPORT_CACHE_TTL"), 5*time.Minute),
	}

	cfg.Events = EventsConfig{
		RelayEnabled:       v.GetBool("ENABLE_EVENT_RELAY"),
		RelayChannelPrefix: v.GetString("EVENT_RELAY_CHANNEL_PREFIX"),
		AsyncWorkers:       v.GetInt("EVENT_ASYNC_WORKERS"),
		AsyncBuffer:        v.GetInt("EVENT_ASYNC_BUFFER"),
		AsyncRetries:       v.GetInt("EVENT_ASYNC_RETRIES"),
	}

	cfg.Catalog = CatalogConfig{SeedSampleData: v.GetBool("SEED_SAMPLE_DATA")}
	cfg.Shutdown = parseDuration(v.GetString("SHUTDOWN_TIMEOUT"), 10*time.Second)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_REPORT_CACHE", false)
	v.SetDefault("REPORT_CACHE_TTL", "5m")

	v.SetDefault("ENABLE_EVENT_RELAY", false)
	v.SetDefault("EVENT_RELAY_CHANNEL_PREFIX", "campus.events")
	v.SetDefault("EVENT_ASYNC_WORKERS", 1)
	v.SetDefault("EVENT_ASYNC_BUFFER", 256)
	v.SetDefault("EVENT_ASYNC_RETRIES", 3)

	v.SetDefault("SEED_SAMPLE_DATA", true)
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
