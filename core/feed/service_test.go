package feed

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"paperfeed-engine/core/domain"
	coreerrors "paperfeed-engine/core/errors"
	"paperfeed-engine/core/interfaces"
)

const simpleRSS = `<rss version="2.0"><channel><title>Simple</title><link>https://example.com</link>
<item><title>One</title><pubDate>Mon, 02 Jan 2006 15:04:05 +0000</pubDate></item>
<item><title>Two</title></item>
<item><title>Three</title></item>
</channel></rss>`

func TestNewFeedService_StoresDependencies(t *testing.T) {
	deps := interfaces.Dependencies{
		HTTPClient: &mockHTTPClient{},
		Logger:     &mockLogger{},
	}

	service := NewFeedService(deps, Options{})

	if service.deps.HTTPClient != deps.HTTPClient {
		t.Error("NewFeedService did not store HTTPClient dependency")
	}
	if service.deps.Logger != deps.Logger {
		t.Error("NewFeedService did not store Logger dependency")
	}
	if service.fetcher.opts.Timeout != DefaultFetchTimeout {
		t.Errorf("fetch timeout = %v, want default %v", service.fetcher.opts.Timeout, DefaultFetchTimeout)
	}
}

func TestFetchAndParseFeed_InvalidURL(t *testing.T) {
	service := NewFeedService(interfaces.Dependencies{}, Options{})

	for _, u := range []string{"", "   ", "not a valid url"} {
		items, err := service.FetchAndParseFeed(context.Background(), u)
		if !coreerrors.IsInvalidArgument(err) {
			t.Errorf("FetchAndParseFeed(%q) error = %v, want InvalidArgumentError", u, err)
		}
		if items != nil {
			t.Errorf("FetchAndParseFeed(%q) should return nil items", u)
		}
	}
}

func TestFetchAndParseFeed_Success(t *testing.T) {
	service := NewFeedService(interfaces.Dependencies{HTTPClient: feedServer(200, simpleRSS)}, Options{})

	items, err := service.FetchAndParseFeed(context.Background(), "https://example.com/feed.xml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}
	if items[0].Title != "One" || items[2].Title != "Three" {
		t.Errorf("items out of document order: %q, %q", items[0].Title, items[2].Title)
	}
}

func TestFetchAndParseFeed_ErrorKinds(t *testing.T) {
	tests := []struct {
		name   string
		client *mockHTTPClient
		check  func(error) bool
	}{
		{
			name: "transport failure",
			client: &mockHTTPClient{
				getFunc: func(ctx context.Context, url string) (interfaces.Response, error) {
					return nil, errors.New("connection refused")
				},
			},
			check: coreerrors.IsNetwork,
		},
		{name: "non-2xx status", client: feedServer(404, "missing"), check: coreerrors.IsNetwork},
		{name: "malformed xml", client: feedServer(200, "<rss><channel>"), check: coreerrors.IsParse},
		{name: "empty body", client: feedServer(200, ""), check: coreerrors.IsParse},
		{name: "not a feed", client: feedServer(200, "<html><body/></html>"), check: coreerrors.IsValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewFeedService(interfaces.Dependencies{HTTPClient: tt.client}, Options{})

			_, err := service.FetchAndParseFeed(context.Background(), "https://example.com/feed.xml")
			if err == nil {
				t.Fatal("expected error")
			}
			if !tt.check(err) {
				t.Errorf("unexpected error kind %s: %v", coreerrors.Kind(err), err)
			}
		})
	}
}

func TestFetchAndParseFeed_NetworkErrorCarriesStatus(t *testing.T) {
	service := NewFeedService(interfaces.Dependencies{HTTPClient: feedServer(503, "")}, Options{})

	_, err := service.FetchAndParseFeed(context.Background(), "https://example.com/feed.xml")

	var netErr *coreerrors.NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
	if netErr.StatusCode != 503 {
		t.Errorf("StatusCode = %d, want 503", netErr.StatusCode)
	}
}

func TestFetch_RejectsOversizedBody(t *testing.T) {
	body := "<rss><channel>" + strings.Repeat("<item/>", 100) + "</channel></rss>"
	fetcher := NewFetcher(interfaces.Dependencies{HTTPClient: feedServer(200, body)}, FetcherOptions{MaxBytes: 64})

	_, err := fetcher.Fetch(context.Background(), "https://example.com/feed.xml")
	if !coreerrors.IsNetwork(err) {
		t.Errorf("expected NetworkError for oversized body, got %v", err)
	}
}

func TestFetch_AppliesTimeout(t *testing.T) {
	var deadline time.Time
	client := &mockHTTPClient{
		getFunc: func(ctx context.Context, url string) (interfaces.Response, error) {
			deadline, _ = ctx.Deadline()
			return &mockResponse{statusCode: 200, body: simpleRSS}, nil
		},
	}
	fetcher := NewFetcher(interfaces.Dependencies{HTTPClient: client}, FetcherOptions{Timeout: 5 * time.Second})

	start := time.Now()
	if _, err := fetcher.Fetch(context.Background(), "https://example.com/feed.xml"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deadline.IsZero() || deadline.Sub(start) > 6*time.Second {
		t.Errorf("fetch deadline not applied: %v", deadline)
	}
}

func TestFetch_ChecksCacheFirst(t *testing.T) {
	httpCalled := false
	client := &mockHTTPClient{
		getFunc: func(ctx context.Context, url string) (interfaces.Response, error) {
			httpCalled = true
			return nil, errors.New("should not be called")
		},
	}
	cache := &mockCache{
		getFunc: func(ctx context.Context, key string) ([]byte, error) {
			if key != "feed:https://example.com/feed.xml" {
				t.Errorf("cache key = %q", key)
			}
			return []byte(simpleRSS), nil
		},
	}
	service := NewFeedService(interfaces.Dependencies{HTTPClient: client, Cache: cache}, Options{})

	items, err := service.FetchAndParseFeed(context.Background(), "https://example.com/feed.xml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if httpCalled {
		t.Error("HTTP client should not be called on cache hit")
	}
	if len(items) != 3 {
		t.Errorf("got %d items from cache, want 3", len(items))
	}
}

func TestFetch_CachesOnlyValidFeeds(t *testing.T) {
	var stored []string
	cache := &mockCache{
		getFunc: func(ctx context.Context, key string) ([]byte, error) {
			return nil, errors.New("miss")
		},
		setFunc: func(ctx context.Context, key string, value []byte, ttl time.Duration) error {
			stored = append(stored, key)
			if ttl != DefaultCacheTTL {
				t.Errorf("ttl = %v, want %v", ttl, DefaultCacheTTL)
			}
			return nil
		},
	}

	good := NewFetcher(interfaces.Dependencies{HTTPClient: feedServer(200, simpleRSS), Cache: cache}, FetcherOptions{})
	if _, err := good.Fetch(context.Background(), "https://example.com/good"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := NewFetcher(interfaces.Dependencies{HTTPClient: feedServer(200, "<html/>"), Cache: cache}, FetcherOptions{})
	if _, err := bad.Fetch(context.Background(), "https://example.com/bad"); err == nil {
		t.Fatal("expected validation error")
	}

	if len(stored) != 1 || stored[0] != "feed:https://example.com/good" {
		t.Errorf("cached keys = %v, want only the valid feed", stored)
	}
}

func TestFetchDocument_ReturnsValidatedRoot(t *testing.T) {
	fetcher := NewFetcher(interfaces.Dependencies{HTTPClient: feedServer(200, simpleRSS)}, FetcherOptions{})

	raw, root, err := fetcher.fetchDocument(context.Background(), "https://example.com/feed.xml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(raw) != simpleRSS {
		t.Error("raw body was altered")
	}
	if root == nil || root.Data != "rss" {
		t.Fatalf("root = %v, want <rss>", root)
	}
	if got := len(NewParser(nil).parseRoot(root)); got != 3 {
		t.Errorf("parsed %d items from returned root, want 3", got)
	}
}

func TestFetchDocument_RefetchesInvalidCachedBody(t *testing.T) {
	cache := &mockCache{
		getFunc: func(ctx context.Context, key string) ([]byte, error) {
			return []byte("<html><body>stale</body></html>"), nil
		},
	}
	fetcher := NewFetcher(interfaces.Dependencies{HTTPClient: feedServer(200, simpleRSS), Cache: cache}, FetcherOptions{})

	_, root, err := fetcher.fetchDocument(context.Background(), "https://example.com/feed.xml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if root.Data != "rss" {
		t.Errorf("root = %q, want the network copy", root.Data)
	}
}

func TestGetArticles_PaginatesAndAttachesPublication(t *testing.T) {
	store := &mockStore{
		byFeedURLFunc: func(ctx context.Context, feedURL string) (*domain.Publication, error) {
			return &domain.Publication{ID: "pub-1", Title: "Simple"}, nil
		},
	}
	service := NewFeedService(interfaces.Dependencies{HTTPClient: feedServer(200, simpleRSS), Store: store}, Options{})

	articles, total, err := service.GetArticles(context.Background(), "https://example.com/feed.xml", 1, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	if len(articles) != 1 || articles[0].Title != "Two" {
		t.Fatalf("unexpected page: %+v", articles)
	}
	if articles[0].PublicationID == nil || *articles[0].PublicationID != "pub-1" {
		t.Errorf("publication not attached: %v", articles[0].PublicationID)
	}
	if articles[0].ID == "" {
		t.Error("article should have an identifier")
	}
}

func TestGetArticles_StoreFailureIsLogged(t *testing.T) {
	warned := false
	store := &mockStore{
		byFeedURLFunc: func(ctx context.Context, feedURL string) (*domain.Publication, error) {
			return nil, errors.New("db down")
		},
	}
	logger := &mockLogger{
		warnFunc: func(msg string, fields map[string]interface{}) { warned = true },
	}
	deps := interfaces.Dependencies{HTTPClient: feedServer(200, simpleRSS), Store: store, Logger: logger}

	articles, _, err := NewFeedService(deps, Options{}).GetArticles(context.Background(), "https://example.com/feed.xml", 0, 10)
	if err != nil {
		t.Fatalf("store failure should not fail GetArticles: %v", err)
	}
	if !warned {
		t.Error("store failure should be logged")
	}
	for _, a := range articles {
		if a.PublicationID != nil {
			t.Error("PublicationID should stay nil when lookup fails")
		}
	}
}

func TestGetArticles_UniqueIDs(t *testing.T) {
	service := NewFeedService(interfaces.Dependencies{HTTPClient: feedServer(200, simpleRSS)}, Options{})

	articles, _, err := service.GetArticles(context.Background(), "https://example.com/feed.xml", 0, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	seen := make(map[string]bool)
	for i, a := range articles {
		if seen[a.ID] {
			t.Errorf("duplicate ID at index %d", i)
		}
		seen[a.ID] = true
	}
}

func TestDescribeFeed(t *testing.T) {
	service := NewFeedService(interfaces.Dependencies{HTTPClient: feedServer(200, simpleRSS)}, Options{})

	info, err := service.DescribeFeed(context.Background(), "https://example.com/feed.xml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Title != "Simple" {
		t.Errorf("Title = %q, want Simple", info.Title)
	}
	if info.FeedType != "rss" {
		t.Errorf("FeedType = %q, want rss", info.FeedType)
	}
	if info.ItemCount != 3 {
		t.Errorf("ItemCount = %d, want 3", info.ItemCount)
	}
}

func TestDescribeFeed_DefaultTitle(t *testing.T) {
	service := NewFeedService(interfaces.Dependencies{
		HTTPClient: feedServer(200, `<rss version="2.0"><channel><item><title>x</title></item></channel></rss>`),
	}, Options{})

	info, err := service.DescribeFeed(context.Background(), "https://example.com/feed.xml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Title != domain.DefaultFeedTitle {
		t.Errorf("Title = %q, want %q", info.Title, domain.DefaultFeedTitle)
	}
}

func TestDescribeFeed_StripsDescriptionMarkup(t *testing.T) {
	service := NewFeedService(interfaces.Dependencies{
		HTTPClient: feedServer(200, `<rss version="2.0"><channel><title>T</title><description><![CDATA[<p>Weekly <em>notes</em></p>]]></description></channel></rss>`),
	}, Options{})

	info, err := service.DescribeFeed(context.Background(), "https://example.com/feed.xml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Description != "Weekly notes" {
		t.Errorf("Description = %q, want %q", info.Description, "Weekly notes")
	}
}
