// ABOUTME: Configuration options for the feed engine client
// ABOUTME: Provides functional options pattern for flexible client configuration

package feedengine

import (
	"context"
	"time"

	"paperfeed-engine/core/aggregate"
	"paperfeed-engine/core/domain"
	"paperfeed-engine/core/feed"
	"paperfeed-engine/core/interfaces"
	"paperfeed-engine/core/locator"
)

// PublicationRegistry is the write side of a publication store, used when onboarding
type PublicationRegistry interface {
	SavePublication(ctx context.Context, p domain.Publication) error
	SaveIssue(ctx context.Context, issue domain.Issue) error
	AddPublicationToIssue(ctx context.Context, issueID, publicationID string, removeImages bool) error
}

// Config holds the configuration for the client
type Config struct {
	HTTPClient interfaces.HTTPClient
	Cache      interfaces.Cache
	Logger     interfaces.Logger
	Store      interfaces.PublicationStore
	Registry   PublicationRegistry
	Publisher  interfaces.DigestPublisher

	Feed      feed.Options
	Aggregate aggregate.Options

	// DiscoveryTimeout is used when LocateFeed is given no timeout
	DiscoveryTimeout time.Duration
}

// Option is a functional option for configuring the client
type Option func(*Config) error

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client interfaces.HTTPClient) Option {
	return func(c *Config) error {
		c.HTTPClient = client
		return nil
	}
}

// WithCache sets the raw feed cache
func WithCache(cache interfaces.Cache) Option {
	return func(c *Config) error {
		c.Cache = cache
		return nil
	}
}

// WithLogger sets a custom logger
func WithLogger(logger interfaces.Logger) Option {
	return func(c *Config) error {
		c.Logger = logger
		return nil
	}
}

// WithStore sets the publication store. If store also implements
// PublicationRegistry it is used for onboarding too.
func WithStore(store interfaces.PublicationStore) Option {
	return func(c *Config) error {
		c.Store = store
		if reg, ok := store.(PublicationRegistry); ok && c.Registry == nil {
			c.Registry = reg
		}
		return nil
	}
}

// WithPublisher sets where finished digests are delivered
func WithPublisher(p interfaces.DigestPublisher) Option {
	return func(c *Config) error {
		c.Publisher = p
		return nil
	}
}

// WithFeedOptions sets fetch limits and the parser clock
func WithFeedOptions(opts feed.Options) Option {
	return func(c *Config) error {
		c.Feed = opts
		return nil
	}
}

// WithAggregateOptions sets worker count, scan factor and merge limits
func WithAggregateOptions(opts aggregate.Options) Option {
	return func(c *Config) error {
		c.Aggregate = opts
		return nil
	}
}

// WithDiscoveryTimeout sets the default per-request discovery timeout
func WithDiscoveryTimeout(d time.Duration) Option {
	return func(c *Config) error {
		c.DiscoveryTimeout = d
		return nil
	}
}

// WithClock sets the clock used for windows and fallback dates
func WithClock(now func() time.Time) Option {
	return func(c *Config) error {
		c.Feed.Now = now
		c.Aggregate.Now = now
		return nil
	}
}

func defaultConfig() Config {
	return Config{
		DiscoveryTimeout: locator.DefaultTimeout,
	}
}
