// ABOUTME: Merge mode combines explicit feed URLs into one date-ordered article list
// ABOUTME: Items with inferred dates sort as the oldest and are dropped when a range is set

package aggregate

import (
	"context"
	"sort"
	"strings"
	"time"

	"paperfeed-engine/core/domain"
)

// MergeResult is the outcome of MergeFeeds
type MergeResult struct {
	Articles  []domain.Article     `json:"articles"`
	Succeeded int                  `json:"succeeded"`
	Failed    []domain.FeedFailure `json:"failed,omitempty"`
}

// MergeFeeds reads every URL, filters the merged items by r and sorts them newest first
func (a *Aggregator) MergeFeeds(ctx context.Context, urls []string, r domain.DateRange) MergeResult {
	perFeed := make([][]domain.Article, len(urls))
	var failures []feedResult

	a.fanOut(ctx, len(urls), func(ctx context.Context, i int) feedResult {
		return a.readForMerge(ctx, i, urls[i])
	}, func(res feedResult) {
		if res.failure != nil {
			failures = append(failures, res)
			return
		}
		perFeed[res.index] = res.articles
	})

	var merged []domain.Article
	for _, articles := range perFeed {
		for _, article := range articles {
			if !r.IsOpen() && (article.DateInferred || !r.Contains(article.PublishedAt)) {
				continue
			}
			merged = append(merged, article)
		}
	}
	sortNewestFirst(merged)

	result := MergeResult{
		Articles:  merged,
		Succeeded: len(urls) - len(failures),
		Failed:    orderedFailures(failures),
	}
	if result.Articles == nil {
		result.Articles = []domain.Article{}
	}

	a.log("info", "Merged feeds", map[string]interface{}{
		"feeds":          len(urls),
		"succeeded":      result.Succeeded,
		"failed":         len(result.Failed),
		"total_articles": len(result.Articles),
	})
	return result
}

func (a *Aggregator) readForMerge(ctx context.Context, index int, feedURL string) feedResult {
	r := feedResult{index: index, key: feedURL, feedURL: feedURL}

	if strings.TrimSpace(feedURL) == "" {
		return r
	}
	if err := ctx.Err(); err != nil {
		r.failure = a.failure(feedURL, "", err)
		return r
	}

	items, err := a.feeds.FetchAndParseFeed(ctx, feedURL)
	if err != nil {
		r.failure = a.failure(feedURL, "", err)
		return r
	}
	if len(items) > a.opts.MergeLimitPerFeed {
		items = items[:a.opts.MergeLimitPerFeed]
	}

	pub := a.lookupPublication(ctx, feedURL)
	r.articles = make([]domain.Article, 0, len(items))
	for _, item := range items {
		article := domain.NewArticle(item, feedURL)
		article.AttachPublication(pub)
		r.articles = append(r.articles, article)
	}
	return r
}

func (a *Aggregator) lookupPublication(ctx context.Context, feedURL string) *domain.Publication {
	if a.deps.Store == nil {
		return nil
	}
	pub, err := a.deps.Store.GetPublicationByFeedURL(ctx, feedURL)
	if err != nil {
		a.log("warn", "Publication lookup failed", map[string]interface{}{
			"feed_url": feedURL,
			"error":    err.Error(),
		})
		return nil
	}
	return pub
}

// sortKey treats an inferred date as the oldest possible value
func sortKey(a domain.Article) time.Time {
	if a.DateInferred {
		return time.Time{}
	}
	return a.PublishedAt
}

func sortNewestFirst(articles []domain.Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		return sortKey(articles[i]).After(sortKey(articles[j]))
	})
}
