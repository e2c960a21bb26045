// ABOUTME: Builds a fully wired client from application configuration
// ABOUTME: Chooses the HTTP client, cache, store and publisher implementations by name

package feedengine

import (
	"context"
	"fmt"
	"io"

	"paperfeed-engine/core/aggregate"
	"paperfeed-engine/core/feed"
	"paperfeed-engine/core/interfaces"
	"paperfeed-engine/infrastructure/cache/bolt"
	"paperfeed-engine/infrastructure/cache/memory"
	"paperfeed-engine/infrastructure/cache/redis"
	"paperfeed-engine/infrastructure/http/httpclient"
	"paperfeed-engine/infrastructure/http/resty"
	"paperfeed-engine/infrastructure/http/standard"
	"paperfeed-engine/infrastructure/logger/logrus"
	"paperfeed-engine/infrastructure/publisher/kafka"
	"paperfeed-engine/infrastructure/store/postgres"
	"paperfeed-engine/infrastructure/store/sqlite"
	"paperfeed-engine/pkg/config"
)

// NewLogger builds the logger described by cfg
func NewLogger(cfg config.LogConfig) interfaces.Logger {
	return logrus.New(logrus.Options{Level: cfg.Level, Format: cfg.Format})
}

// NewHTTPClient builds the HTTP client described by cfg.
// It sets no client-wide timeout so DiscoveryTimeout and FetchTimeout stay independent.
func NewHTTPClient(cfg config.HTTPConfig, logger interfaces.Logger) interfaces.HTTPClient {
	opts := httpclient.Options{
		UserAgent:  cfg.UserAgent,
		MaxRetries: cfg.MaxRetries,
		RateLimit:  cfg.RateLimit,
		RateBurst:  cfg.RateBurst,
	}
	if cfg.Client == "resty" {
		return resty.NewClient(opts, logger)
	}
	return standard.NewStandardHTTPClient(opts)
}

// FromConfig validates cfg and wires every dependency it names.
// The returned client owns the cache, store and publisher and releases them on Close.
func FromConfig(ctx context.Context, cfg *config.Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger := NewLogger(cfg.Log)
	options := []Option{
		WithLogger(logger),
		WithHTTPClient(NewHTTPClient(cfg.HTTP, logger)),
		WithDiscoveryTimeout(cfg.HTTP.DiscoveryTimeout),
		WithFeedOptions(feed.Options{
			Fetcher: feed.FetcherOptions{
				Timeout:  cfg.HTTP.FetchTimeout,
				MaxBytes: cfg.HTTP.MaxFeedBytes,
				CacheTTL: cfg.Cache.TTL,
			},
		}),
		WithAggregateOptions(aggregate.Options{
			Workers:           cfg.Aggregate.Workers,
			ScanFactor:        cfg.Aggregate.ScanFactor,
			MergeLimitPerFeed: cfg.Aggregate.MergeLimitPerFeed,
		}),
	}

	var closers []io.Closer
	fail := func(err error) (*Client, error) {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i].Close()
		}
		return nil, err
	}

	switch cfg.Cache.Type {
	case "memory":
		options = append(options, WithCache(memory.NewMemoryCache()))
	case "redis":
		c, err := redis.NewRedisCache(cfg.Cache.Redis)
		if err != nil {
			return fail(fmt.Errorf("connecting to redis: %w", err))
		}
		closers = append(closers, c)
		options = append(options, WithCache(c))
	case "bolt":
		c, err := bolt.NewBoltCache(cfg.Cache.Bolt)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, c)
		options = append(options, WithCache(c))
	}

	switch cfg.Store.Driver {
	case "sqlite":
		s, err := sqlite.Open(ctx, cfg.Store.DSN)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, s)
		options = append(options, WithStore(s))
	case "postgres":
		s, err := postgres.Open(ctx, cfg.Store.DSN)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, s)
		options = append(options, WithStore(s))
	}

	if len(cfg.Kafka.Brokers) > 0 {
		p, err := kafka.NewPublisher(cfg.Kafka, logger)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, p)
		options = append(options, WithPublisher(p))
	}

	client, err := NewClient(options...)
	if err != nil {
		return fail(err)
	}
	client.closers = closers

	logger.Debug("Feed engine configured", map[string]interface{}{
		"http_client":  cfg.HTTP.Client,
		"cache":        cfg.Cache.Type,
		"store":        cfg.Store.Driver,
		"kafka_topic":  cfg.Kafka.Topic,
		"kafka_active": len(cfg.Kafka.Brokers) > 0,
	})
	return client, nil
}
