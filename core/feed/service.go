// ABOUTME: Feed service combines fetching, validation and parsing of a single feed
// ABOUTME: Provides business logic for feed operations independent of any transport

package feed

import (
	"context"
	"net/url"
	"strings"
	"time"

	"paperfeed-engine/core/domain"
	coreerrors "paperfeed-engine/core/errors"
	"paperfeed-engine/core/interfaces"
)

// Options configures a FeedService
type Options struct {
	Fetcher FetcherOptions

	// Now is the clock used for fallback publish dates; nil means time.Now
	Now func() time.Time
}

// FeedService handles single-feed operations
type FeedService struct {
	deps    interfaces.Dependencies
	fetcher *Fetcher
	parser  *Parser
}

// NewFeedService creates a new feed service instance
func NewFeedService(deps interfaces.Dependencies, opts Options) *FeedService {
	return &FeedService{
		deps:    deps,
		fetcher: NewFetcher(deps, opts.Fetcher),
		parser:  NewParser(opts.Now),
	}
}

// FetchAndParseFeed fetches feedURL and returns its items in document order
func (s *FeedService) FetchAndParseFeed(ctx context.Context, feedURL string) ([]domain.NormalizedItem, error) {
	if err := validateFeedURL(feedURL); err != nil {
		return nil, err
	}

	_, root, err := s.fetcher.fetchDocument(ctx, feedURL)
	if err != nil {
		return nil, err
	}
	return s.parser.parseRoot(root), nil
}

// GetArticles returns one page of a feed's articles and the total item count.
// Articles are linked to the publication that owns feedURL when the store knows it.
func (s *FeedService) GetArticles(ctx context.Context, feedURL string, skip, limit int) ([]domain.Article, int, error) {
	items, err := s.FetchAndParseFeed(ctx, feedURL)
	if err != nil {
		return nil, 0, err
	}

	pub := s.lookupPublication(ctx, feedURL)

	page := Page(items, skip, limit)
	articles := make([]domain.Article, 0, len(page))
	for _, item := range page {
		article := domain.NewArticle(item, feedURL)
		article.AttachPublication(pub)
		articles = append(articles, article)
	}

	return articles, len(items), nil
}

// DescribeFeed returns channel metadata for feedURL
func (s *FeedService) DescribeFeed(ctx context.Context, feedURL string) (*domain.FeedInfo, error) {
	if err := validateFeedURL(feedURL); err != nil {
		return nil, err
	}

	raw, err := s.fetcher.Fetch(ctx, feedURL)
	if err != nil {
		return nil, err
	}
	return describe(raw, feedURL)
}

func (s *FeedService) lookupPublication(ctx context.Context, feedURL string) *domain.Publication {
	if s.deps.Store == nil {
		return nil
	}

	pub, err := s.deps.Store.GetPublicationByFeedURL(ctx, feedURL)
	if err != nil {
		if s.deps.Logger != nil {
			s.deps.Logger.Warn("Publication lookup failed", map[string]interface{}{
				"feed_url": feedURL,
				"error":    err.Error(),
			})
		}
		return nil
	}
	return pub
}

func validateFeedURL(feedURL string) error {
	if strings.TrimSpace(feedURL) == "" {
		return &coreerrors.InvalidArgumentError{Field: "feedURL", Message: "cannot be empty"}
	}

	parsed, err := url.Parse(feedURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return &coreerrors.InvalidArgumentError{Field: "feedURL", Message: "invalid URL format"}
	}
	return nil
}
