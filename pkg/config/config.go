// ABOUTME: Configuration management with .env, environment and optional config file support
// ABOUTME: Defines configuration structures for HTTP, aggregation, caching, storage and publishing

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Log       LogConfig
	HTTP      HTTPConfig
	Aggregate AggregateConfig
	Cache     CacheConfig
	Store     StoreConfig
	Kafka     KafkaConfig
}

// LogConfig holds logger configuration
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string

	// Format is text or json
	Format string
}

// HTTPConfig holds outbound HTTP configuration
type HTTPConfig struct {
	// Client selects the implementation (standard/resty)
	Client string

	UserAgent string

	// MaxRetries is the number of extra attempts after a transport error or 5xx.
	// The default 0 makes a single attempt per URL.
	MaxRetries int

	// RateLimit is requests per second across all hosts; 0 disables limiting
	RateLimit float64
	RateBurst int

	// DiscoveryTimeout bounds each request made while locating a feed
	DiscoveryTimeout time.Duration

	// FetchTimeout bounds a single feed download
	FetchTimeout time.Duration

	MaxFeedBytes int64
}

// AggregateConfig holds aggregation tuning
type AggregateConfig struct {
	Workers           int
	ScanFactor        int
	MergeLimitPerFeed int
}

// CacheConfig holds cache backend configuration
type CacheConfig struct {
	// Type specifies the cache backend (none/memory/redis/bolt)
	Type string

	// TTL is how long a fetched feed body stays cached
	TTL time.Duration

	Redis RedisConfig
	Bolt  BoltConfig
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	// Address is the Redis server address
	Address string

	// Password is the Redis authentication password
	Password string

	// DB is the Redis database number
	DB int
}

// BoltConfig holds on-disk cache configuration
type BoltConfig struct {
	Path string
}

// StoreConfig selects the publication store
type StoreConfig struct {
	// Driver is sqlite or postgres; empty disables the store
	Driver string
	DSN    string
}

// KafkaConfig configures the digest publisher; no brokers disables it
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("HTTP_CLIENT", "standard")
	v.SetDefault("HTTP_USER_AGENT", "PaperfeedEngine/1.0 (+https://github.com/paperfeed)")
	v.SetDefault("HTTP_MAX_RETRIES", 0)
	v.SetDefault("HTTP_RATE_LIMIT", 0)
	v.SetDefault("HTTP_RATE_BURST", 5)
	v.SetDefault("DISCOVERY_TIMEOUT", 10*time.Second)
	v.SetDefault("FETCH_TIMEOUT", 30*time.Second)
	v.SetDefault("MAX_FEED_BYTES", 10<<20)
	v.SetDefault("AGGREGATE_WORKERS", 10)
	v.SetDefault("AGGREGATE_SCAN_FACTOR", 2)
	v.SetDefault("MERGE_LIMIT_PER_FEED", 100)
	v.SetDefault("CACHE_TYPE", "none")
	v.SetDefault("CACHE_TTL", 10*time.Minute)
	v.SetDefault("REDIS_ADDRESS", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("BOLT_PATH", "paperfeed-cache.db")
	v.SetDefault("STORE_DRIVER", "")
	v.SetDefault("STORE_DSN", "")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_TOPIC", "issue_digests")
}

// Load reads an optional .env file, the environment and an optional CONFIG_FILE
func Load() (*Config, error) {
	// A missing .env is normal outside development
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", file, err)
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Log: LogConfig{
			Level:  strings.ToLower(v.GetString("LOG_LEVEL")),
			Format: strings.ToLower(v.GetString("LOG_FORMAT")),
		},
		HTTP: HTTPConfig{
			Client:           strings.ToLower(v.GetString("HTTP_CLIENT")),
			UserAgent:        v.GetString("HTTP_USER_AGENT"),
			MaxRetries:       v.GetInt("HTTP_MAX_RETRIES"),
			RateLimit:        v.GetFloat64("HTTP_RATE_LIMIT"),
			RateBurst:        v.GetInt("HTTP_RATE_BURST"),
			DiscoveryTimeout: v.GetDuration("DISCOVERY_TIMEOUT"),
			FetchTimeout:     v.GetDuration("FETCH_TIMEOUT"),
			MaxFeedBytes:     v.GetInt64("MAX_FEED_BYTES"),
		},
		Aggregate: AggregateConfig{
			Workers:           v.GetInt("AGGREGATE_WORKERS"),
			ScanFactor:        v.GetInt("AGGREGATE_SCAN_FACTOR"),
			MergeLimitPerFeed: v.GetInt("MERGE_LIMIT_PER_FEED"),
		},
		Cache: CacheConfig{
			Type: strings.ToLower(v.GetString("CACHE_TYPE")),
			TTL:  v.GetDuration("CACHE_TTL"),
			Redis: RedisConfig{
				Address:  v.GetString("REDIS_ADDRESS"),
				Password: v.GetString("REDIS_PASSWORD"),
				DB:       v.GetInt("REDIS_DB"),
			},
			Bolt: BoltConfig{
				Path: v.GetString("BOLT_PATH"),
			},
		},
		Store: StoreConfig{
			Driver: strings.ToLower(v.GetString("STORE_DRIVER")),
			DSN:    v.GetString("STORE_DSN"),
		},
		Kafka: KafkaConfig{
			Brokers: splitAndTrim(v.GetString("KAFKA_BROKERS")),
			Topic:   v.GetString("KAFKA_TOPIC"),
		},
	}
}

func splitAndTrim(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return errors.New("log format must be 'text' or 'json'")
	}

	if c.HTTP.Client != "standard" && c.HTTP.Client != "resty" {
		return errors.New("http client must be 'standard' or 'resty'")
	}
	if c.HTTP.DiscoveryTimeout <= 0 || c.HTTP.FetchTimeout <= 0 {
		return errors.New("discovery and fetch timeouts must be positive")
	}
	if c.HTTP.MaxRetries < 0 {
		return errors.New("max retries cannot be negative")
	}
	if c.HTTP.RateLimit < 0 {
		return errors.New("rate limit cannot be negative")
	}
	if c.HTTP.RateLimit > 0 && c.HTTP.RateBurst < 1 {
		return errors.New("rate burst must be at least 1 when rate limiting")
	}
	if c.HTTP.MaxFeedBytes <= 0 {
		return errors.New("max feed bytes must be positive")
	}

	if c.Aggregate.Workers < 1 {
		return errors.New("aggregate workers must be at least 1")
	}
	if c.Aggregate.ScanFactor < 0 {
		return errors.New("scan factor cannot be negative")
	}
	if c.Aggregate.MergeLimitPerFeed < 1 {
		return errors.New("merge limit per feed must be at least 1")
	}

	switch c.Cache.Type {
	case "none", "memory":
	case "redis":
		if c.Cache.Redis.Address == "" {
			return errors.New("redis address cannot be empty when using redis cache")
		}
	case "bolt":
		if c.Cache.Bolt.Path == "" {
			return errors.New("bolt path cannot be empty when using bolt cache")
		}
	default:
		return errors.New("cache type must be 'none', 'memory', 'redis' or 'bolt'")
	}
	if c.Cache.Type != "none" && c.Cache.TTL <= 0 {
		return errors.New("cache TTL must be positive")
	}

	switch c.Store.Driver {
	case "":
	case "sqlite", "postgres":
		if c.Store.DSN == "" {
			return fmt.Errorf("store DSN cannot be empty for driver %s", c.Store.Driver)
		}
	default:
		return errors.New("store driver must be 'sqlite' or 'postgres'")
	}

	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		return errors.New("kafka topic cannot be empty when brokers are set")
	}

	return nil
}
