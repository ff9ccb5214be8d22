// Package config loads service configuration from environment
// variables, with an optional YAML overlay file pointed at by
// CAREWATCH_CONFIG. Environment values win over file values.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full service configuration.
type Config struct {
	ServiceName string `yaml:"service_name"`

	// Trigger mode: "stream" consumes survey rows from Redis,
	// "none" leaves ingestion to library callers.
	TriggerMode string `yaml:"trigger_mode"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
	Stream   StreamConfig   `yaml:"stream"`
	Cache    CacheConfig    `yaml:"cache"`
}

// PostgresConfig holds the sink database settings.
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
	MaxConns int    `yaml:"max_conns"`
	MaxIdle  int    `yaml:"max_idle"`
}

// RedisConfig holds the cache/stream backend settings.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// StreamConfig controls the survey-row consumer.
type StreamConfig struct {
	Name          string `yaml:"name"`
	ConsumerGroup string `yaml:"consumer_group"`
	ConsumerName  string `yaml:"consumer_name"`
	BatchSize     int64  `yaml:"batch_size"`
}

// CacheConfig controls the dashboard cache refresh loop.
type CacheConfig struct {
	TTL             time.Duration `yaml:"ttl"`
	RefreshInterval time.Duration `yaml:"refresh_interval"`
}

// Load builds the configuration: defaults, then the optional YAML file,
// then environment overrides.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CAREWATCH_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		ServiceName: "carewatch",
		TriggerMode: "none",
		LogLevel:    "info",
		LogFormat:   "json",
		Postgres: PostgresConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "carewatch",
			Password: "",
			Database: "carewatch",
			SSLMode:  "disable",
			MaxConns: 10,
			MaxIdle:  5,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Stream: StreamConfig{
			Name:          "survey:rows",
			ConsumerGroup: "carewatch-ingest",
			ConsumerName:  "carewatch-1",
			BatchSize:     10,
		},
		Cache: CacheConfig{
			TTL:             5 * time.Minute,
			RefreshInterval: time.Minute,
		},
	}
}

func applyEnv(cfg *Config) {
	cfg.ServiceName = getEnv("SERVICE_NAME", cfg.ServiceName)
	cfg.TriggerMode = getEnv("TRIGGER_MODE", cfg.TriggerMode)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)

	cfg.Postgres.Host = getEnv("POSTGRES_HOST", cfg.Postgres.Host)
	cfg.Postgres.Port = getEnvInt("POSTGRES_PORT", cfg.Postgres.Port)
	cfg.Postgres.User = getEnv("POSTGRES_USER", cfg.Postgres.User)
	cfg.Postgres.Password = getEnv("POSTGRES_PASSWORD", cfg.Postgres.Password)
	cfg.Postgres.Database = getEnv("POSTGRES_DB", cfg.Postgres.Database)
	cfg.Postgres.SSLMode = getEnv("POSTGRES_SSLMODE", cfg.Postgres.SSLMode)
	cfg.Postgres.MaxConns = getEnvInt("POSTGRES_MAX_CONNS", cfg.Postgres.MaxConns)
	cfg.Postgres.MaxIdle = getEnvInt("POSTGRES_MAX_IDLE", cfg.Postgres.MaxIdle)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getEnvInt("REDIS_DB", cfg.Redis.DB)

	cfg.Stream.Name = getEnv("SURVEY_STREAM", cfg.Stream.Name)
	cfg.Stream.ConsumerGroup = getEnv("SURVEY_CONSUMER_GROUP", cfg.Stream.ConsumerGroup)
	cfg.Stream.ConsumerName = getEnv("SURVEY_CONSUMER_NAME", cfg.Stream.ConsumerName)
	cfg.Stream.BatchSize = int64(getEnvInt("SURVEY_BATCH_SIZE", int(cfg.Stream.BatchSize)))

	cfg.Cache.TTL = getEnvDuration("CACHE_TTL", cfg.Cache.TTL)
	cfg.Cache.RefreshInterval = getEnvDuration("CACHE_REFRESH_INTERVAL", cfg.Cache.RefreshInterval)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
