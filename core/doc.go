// Package core contains the business logic of the feed engine.
// It has no knowledge of caches, databases or brokers beyond the
// interfaces it declares.
//
// The core package is organized into several sub-packages:
//
// - domain: Items, articles, publications, windows and digests
// - locator: Feed discovery from an arbitrary web page
// - feed: Fetching, validating and parsing a single RSS or Atom feed
// - aggregate: Bounded concurrent aggregation and merging across feeds
// - errors: Typed errors distinguishing network, parse and validation failures
// - interfaces: Contracts for external dependencies (cache, HTTP, logger, store, publisher)
//
// # Usage Example
//
//	deps := interfaces.Dependencies{
//	    HTTPClient: myHTTPClient, // implements interfaces.HTTPClient
//	    Logger:     myLogger,     // implements interfaces.Logger
//	    Store:      myStore,      // implements interfaces.PublicationStore
//	}
//
//	feeds := feed.NewFeedService(deps, feed.Options{})
//	items, err := feeds.FetchAndParseFeed(ctx, "https://example.com/feed.rss")
//
//	agg := aggregate.NewAggregator(deps, feeds, aggregate.Options{})
//	digest, err := agg.AggregateRecentArticles(ctx, "weekly", 7, 5)
package core
