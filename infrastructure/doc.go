// Package infrastructure provides concrete implementations of the interfaces
// defined in the core package.
//
// The infrastructure package is organized by technical concern:
//
// - cache/memory: In-memory cache on patrickmn/go-cache
// - cache/redis: Redis-based cache shared between processes
// - cache/bolt: On-disk cache on bbolt
// - http/standard: net/http client with retry and rate limiting
// - http/resty: go-resty client with the same options
// - logger/logrus: Structured logger on logrus
// - store/sqlite, store/postgres: Publication stores over a shared sqlstore
// - publisher/kafka: Digest hand-off to a Kafka topic
//
// # Cache Implementations
//
// Memory Cache Example:
//
//	cache := memory.NewMemoryCache()
//	err := cache.Set(ctx, "feed:https://example.com/rss", body, 10*time.Minute)
//	body, err := cache.Get(ctx, "feed:https://example.com/rss")
//
// Redis Cache Example:
//
//	cache, err := redis.NewRedisCache(config.RedisConfig{Address: "localhost:6379"})
//
// # HTTP Client
//
//	client := standard.NewStandardHTTPClient(httpclient.Options{
//	    Timeout:    30 * time.Second,
//	    MaxRetries: 2,
//	    RateLimit:  5,
//	    RateBurst:  5,
//	})
package infrastructure
