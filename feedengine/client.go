// ABOUTME: Main client for the feed engine tying discovery, fetching, parsing and aggregation together
// ABOUTME: Offers a single API for callers that do not want to assemble the core services themselves

package feedengine

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"paperfeed-engine/core/aggregate"
	"paperfeed-engine/core/domain"
	coreerrors "paperfeed-engine/core/errors"
	"paperfeed-engine/core/feed"
	"paperfeed-engine/core/interfaces"
	"paperfeed-engine/core/locator"
	"paperfeed-engine/infrastructure/http/httpclient"
	"paperfeed-engine/infrastructure/http/standard"
	"paperfeed-engine/infrastructure/logger/logrus"
)

// Client is the main entry point for the feed engine
type Client struct {
	deps       interfaces.Dependencies
	registry   PublicationRegistry
	feeds      *feed.FeedService
	locator    *locator.Locator
	aggregator *aggregate.Aggregator
	config     Config

	// closers are released by Close in reverse order
	closers []io.Closer
}

// NewClient creates a new client with the given options
func NewClient(options ...Option) (*Client, error) {
	config := defaultConfig()

	for _, opt := range options {
		if err := opt(&config); err != nil {
			return nil, err
		}
	}

	if config.HTTPClient == nil {
		// Deadlines come from the locator and fetcher contexts; one attempt per request
		config.HTTPClient = standard.NewStandardHTTPClient(httpclient.Options{})
	}
	if config.Logger == nil {
		config.Logger = logrus.New(logrus.Options{Level: "info"})
	}
	if config.DiscoveryTimeout <= 0 {
		config.DiscoveryTimeout = locator.DefaultTimeout
	}

	deps := interfaces.Dependencies{
		HTTPClient: config.HTTPClient,
		Cache:      config.Cache,
		Logger:     config.Logger,
		Store:      config.Store,
		Publisher:  config.Publisher,
	}

	feeds := feed.NewFeedService(deps, config.Feed)

	return &Client{
		deps:       deps,
		registry:   config.Registry,
		feeds:      feeds,
		locator:    locator.NewLocator(deps),
		aggregator: aggregate.NewAggregator(deps, feeds, config.Aggregate),
		config:     config,
	}, nil
}

// Close releases every resource the client owns
func (c *Client) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

// Logger returns the logger the client reports through
func (c *Client) Logger() interfaces.Logger {
	return c.deps.Logger
}

// LocateFeed finds the feed URL for a web page. timeoutSeconds <= 0 uses the default.
// A page with no discoverable feed returns ("", false, nil).
func (c *Client) LocateFeed(ctx context.Context, pageURL string, timeoutSeconds int) (string, bool, error) {
	return c.locator.Locate(ctx, pageURL, c.timeout(timeoutSeconds))
}

// FetchAndParseFeed downloads a feed and returns its items in document order
func (c *Client) FetchAndParseFeed(ctx context.Context, feedURL string) ([]domain.NormalizedItem, error) {
	return c.feeds.FetchAndParseFeed(ctx, feedURL)
}

// GetArticles returns a page of articles from one feed plus its total item count
func (c *Client) GetArticles(ctx context.Context, feedURL string, skip, limit int) ([]domain.Article, int, error) {
	return c.feeds.GetArticles(ctx, feedURL, skip, limit)
}

// DescribeFeed returns channel metadata for a feed
func (c *Client) DescribeFeed(ctx context.Context, feedURL string) (*domain.FeedInfo, error) {
	return c.feeds.DescribeFeed(ctx, feedURL)
}

// DiscoverPublication locates the feed behind pageURL and describes it
func (c *Client) DiscoverPublication(ctx context.Context, pageURL string, timeoutSeconds int) (*domain.FeedInfo, error) {
	feedURL, ok, err := c.LocateFeed(ctx, pageURL, timeoutSeconds)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &coreerrors.NotFoundError{Resource: "feed", ID: pageURL}
	}
	return c.DescribeFeed(ctx, feedURL)
}

// RegisterPublication discovers the feed behind pageURL, saves it as a publication
// and adds it to issue, creating or renaming the issue as needed.
func (c *Client) RegisterPublication(ctx context.Context, issue domain.Issue, pageURL string, removeImages bool, timeoutSeconds int) (*domain.Publication, error) {
	if c.registry == nil {
		return nil, &coreerrors.InvalidArgumentError{Field: "store", Message: "publication store does not accept writes"}
	}
	if strings.TrimSpace(issue.ID) == "" {
		return nil, &coreerrors.InvalidArgumentError{Field: "issue", Message: "issue id cannot be empty"}
	}

	info, err := c.DiscoverPublication(ctx, pageURL, timeoutSeconds)
	if err != nil {
		return nil, err
	}

	pub := domain.Publication{
		// Stable per feed so re-registering updates instead of duplicating
		ID:      uuid.NewSHA1(uuid.NameSpaceURL, []byte(info.URL)).String(),
		Title:   info.Title,
		URL:     info.Link,
		FeedURL: info.URL,
	}
	if pub.URL == "" {
		pub.URL = pageURL
	}
	if issue.Title == "" {
		issue.Title = issue.ID
	}

	if err := c.registry.SaveIssue(ctx, issue); err != nil {
		return nil, coreerrors.WrapError(err, "save issue")
	}
	if err := c.registry.SavePublication(ctx, pub); err != nil {
		return nil, coreerrors.WrapError(err, "save publication")
	}
	if err := c.registry.AddPublicationToIssue(ctx, issue.ID, pub.ID, removeImages); err != nil {
		return nil, coreerrors.WrapError(err, "add publication to issue")
	}

	c.deps.Logger.Info("Registered publication", map[string]interface{}{
		"issue_id":       issue.ID,
		"publication_id": pub.ID,
		"feed_url":       pub.FeedURL,
	})
	return &pub, nil
}

// AggregateRecentArticles builds the digest for an issue over the last daysBack days
func (c *Client) AggregateRecentArticles(ctx context.Context, issueID string, daysBack, maxPerPublication int) (*domain.IssueDigest, error) {
	return c.aggregator.AggregateRecentArticles(ctx, issueID, daysBack, maxPerPublication)
}

// PublishDigest hands a digest to the configured publisher
func (c *Client) PublishDigest(ctx context.Context, digest *domain.IssueDigest) error {
	if c.deps.Publisher == nil {
		return &coreerrors.InvalidArgumentError{Field: "publisher", Message: "no digest publisher configured"}
	}
	return c.deps.Publisher.Publish(ctx, digest)
}

// MergeFeeds reads several feeds into one newest-first list. period is "",
// "last-week", "last-month" or "YYYY-MM-DD,YYYY-MM-DD"; "" applies no date filter.
func (c *Client) MergeFeeds(ctx context.Context, feedURLs []string, period string) (aggregate.MergeResult, error) {
	var r domain.DateRange
	if period != "" {
		var err error
		r, err = domain.ParsePeriod(period, c.now())
		if err != nil {
			return aggregate.MergeResult{}, err
		}
	}
	return c.aggregator.MergeFeeds(ctx, feedURLs, r), nil
}

func (c *Client) timeout(seconds int) time.Duration {
	if seconds <= 0 {
		return c.config.DiscoveryTimeout
	}
	return time.Duration(seconds) * time.Second
}

func (c *Client) now() time.Time {
	if c.config.Aggregate.Now != nil {
		return c.config.Aggregate.Now()
	}
	return time.Now()
}
