// ABOUTME: Article aggregator fans out over publications and collects recent articles
// ABOUTME: A failing feed contributes an empty list and a recorded failure, never an error

package aggregate

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"paperfeed-engine/core/domain"
	coreerrors "paperfeed-engine/core/errors"
	"paperfeed-engine/core/interfaces"
)

// Aggregator defaults
const (
	DefaultWorkers           = 10
	DefaultScanFactor        = 2
	DefaultMergeLimitPerFeed = 100
)

// FeedReader fetches and parses one feed
type FeedReader interface {
	FetchAndParseFeed(ctx context.Context, feedURL string) ([]domain.NormalizedItem, error)
}

// Options configures an Aggregator
type Options struct {
	// Workers bounds concurrent feed fetches
	Workers int

	// ScanFactor limits scanning to the first MaxPerPublication*ScanFactor items; 0 scans the whole feed
	ScanFactor int

	// MergeLimitPerFeed caps items taken from each feed in merge mode
	MergeLimitPerFeed int

	// Now is the clock used to build windows; nil means time.Now
	Now func() time.Time
}

// Aggregator collects articles across many feeds
type Aggregator struct {
	deps  interfaces.Dependencies
	feeds FeedReader
	opts  Options
}

// NewAggregator creates an aggregator reading feeds through feeds
func NewAggregator(deps interfaces.Dependencies, feeds FeedReader, opts Options) *Aggregator {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.ScanFactor < 0 {
		opts.ScanFactor = DefaultScanFactor
	}
	if opts.MergeLimitPerFeed <= 0 {
		opts.MergeLimitPerFeed = DefaultMergeLimitPerFeed
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Aggregator{deps: deps, feeds: feeds, opts: opts}
}

// Result is the outcome of aggregating a set of publications
type Result struct {
	ArticlesByPublication map[string][]domain.Article
	TotalArticles         int
	Failures              []domain.FeedFailure
}

type feedResult struct {
	index    int
	key      string
	feedURL  string
	articles []domain.Article
	items    []domain.NormalizedItem
	failure  *domain.FeedFailure
}

// fanOut runs work for every index with at most Workers in flight.
// A single collector drains the results, so callers own their maps without locks.
func (a *Aggregator) fanOut(ctx context.Context, n int, work func(ctx context.Context, i int) feedResult, collect func(feedResult)) {
	resultsChan := make(chan feedResult, n)
	semaphore := make(chan struct{}, a.opts.Workers)
	var wg sync.WaitGroup

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				resultsChan <- work(ctx, i)
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			resultsChan <- work(ctx, i)
		}(i)
	}

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	for r := range resultsChan {
		collect(r)
	}
}

// Aggregate keeps, per publication, up to MaxPerPublication items published
// on or after the window cutoff, in feed order
func (a *Aggregator) Aggregate(ctx context.Context, pubs []domain.PublicationFeedConfig, w domain.AggregationWindow) Result {
	result := Result{ArticlesByPublication: make(map[string][]domain.Article, len(pubs))}
	for _, pub := range pubs {
		result.ArticlesByPublication[pub.ID] = []domain.Article{}
	}

	var failures []feedResult
	a.fanOut(ctx, len(pubs), func(ctx context.Context, i int) feedResult {
		return a.aggregateOne(ctx, i, pubs[i], w)
	}, func(r feedResult) {
		if r.failure != nil {
			failures = append(failures, r)
			return
		}
		result.ArticlesByPublication[r.key] = r.articles
		result.TotalArticles += len(r.articles)
	})

	result.Failures = orderedFailures(failures)
	return result
}

func (a *Aggregator) aggregateOne(ctx context.Context, index int, pub domain.PublicationFeedConfig, w domain.AggregationWindow) feedResult {
	r := feedResult{index: index, key: pub.ID, feedURL: pub.FeedURL, articles: []domain.Article{}}

	if strings.TrimSpace(pub.FeedURL) == "" {
		a.log("warn", "Publication has no feed URL", map[string]interface{}{
			"publication_id": pub.ID,
			"title":          pub.Title,
		})
		return r
	}

	if err := ctx.Err(); err != nil {
		r.failure = a.failure(pub.FeedURL, pub.ID, err)
		return r
	}

	items, err := a.feeds.FetchAndParseFeed(ctx, pub.FeedURL)
	if err != nil {
		r.failure = a.failure(pub.FeedURL, pub.ID, err)
		return r
	}

	if limit := w.MaxPerPublication * a.opts.ScanFactor; a.opts.ScanFactor > 0 && len(items) > limit {
		items = items[:limit]
	}

	publication := pub.Publication
	for _, item := range items {
		if !w.Admits(item.PublishedAt) {
			continue
		}
		article := domain.NewArticle(item, pub.FeedURL)
		article.AttachPublication(&publication)
		article.RemoveImages = pub.RemoveImages
		r.articles = append(r.articles, article)
		if len(r.articles) >= w.MaxPerPublication {
			break
		}
	}

	a.log("info", "Aggregated publication", map[string]interface{}{
		"publication_id": pub.ID,
		"feed_url":       pub.FeedURL,
		"kept":           len(r.articles),
	})
	return r
}

// AggregateRecentArticles builds the digest for an issue from the last daysBack days
func (a *Aggregator) AggregateRecentArticles(ctx context.Context, issueID string, daysBack, maxPerPublication int) (*domain.IssueDigest, error) {
	if a.deps.Store == nil {
		return nil, &coreerrors.InvalidArgumentError{Field: "store", Message: "publication store not configured"}
	}

	window, err := domain.NewAggregationWindow(a.opts.Now(), daysBack, maxPerPublication)
	if err != nil {
		return nil, err
	}

	issue, err := a.deps.Store.GetIssue(ctx, issueID)
	if err != nil {
		return nil, coreerrors.WrapError(err, "load issue")
	}
	if issue == nil {
		return nil, &coreerrors.NotFoundError{Resource: "issue", ID: issueID}
	}

	pubs, err := a.deps.Store.ListPublicationsForIssue(ctx, issueID)
	if err != nil {
		return nil, coreerrors.WrapError(err, "list publications for issue")
	}

	result := a.Aggregate(ctx, pubs, window)

	a.log("info", "Aggregated issue", map[string]interface{}{
		"issue_id":       issueID,
		"publications":   len(pubs),
		"total_articles": result.TotalArticles,
		"failed":         len(result.Failures),
	})

	if pubs == nil {
		pubs = []domain.PublicationFeedConfig{}
	}
	return &domain.IssueDigest{
		Issue:                 *issue,
		Publications:          pubs,
		ArticlesByPublication: result.ArticlesByPublication,
		TotalArticles:         result.TotalArticles,
		DateRange: domain.AppliedRange{
			From:     window.Cutoff,
			To:       window.Now,
			DaysBack: daysBack,
		},
		Failures: result.Failures,
	}, nil
}

func (a *Aggregator) failure(feedURL, publicationID string, err error) *domain.FeedFailure {
	a.log("error", "Failed to read feed", map[string]interface{}{
		"feed_url":       feedURL,
		"publication_id": publicationID,
		"kind":           coreerrors.Kind(err),
		"error":          err.Error(),
	})
	return &domain.FeedFailure{
		FeedURL:       feedURL,
		PublicationID: publicationID,
		Kind:          coreerrors.Kind(err),
		Error:         err.Error(),
	}
}

func (a *Aggregator) log(level, msg string, fields map[string]interface{}) {
	if a.deps.Logger == nil {
		return
	}
	switch level {
	case "error":
		a.deps.Logger.Error(msg, fields)
	case "warn":
		a.deps.Logger.Warn(msg, fields)
	default:
		a.deps.Logger.Info(msg, fields)
	}
}

func orderedFailures(results []feedResult) []domain.FeedFailure {
	sort.Slice(results, func(i, j int) bool { return results[i].index < results[j].index })
	failures := make([]domain.FeedFailure, 0, len(results))
	for _, r := range results {
		failures = append(failures, *r.failure)
	}
	return failures
}
