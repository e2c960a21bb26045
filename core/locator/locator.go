// ABOUTME: Feed locator turns an arbitrary web page URL into the URL of its feed
// ABOUTME: Checks the page itself first, then runs a chain of discovery strategies

package locator

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	coreerrors "paperfeed-engine/core/errors"
	"paperfeed-engine/core/interfaces"
)

// DefaultTimeout bounds each discovery request when the caller passes none
const DefaultTimeout = 10 * time.Second

// maxPageBytes caps how much HTML is parsed from the initial page
const maxPageBytes = 5 << 20

// Locator discovers feeds
type Locator struct {
	deps       interfaces.Dependencies
	strategies []Strategy
}

// NewLocator creates a locator with the default strategy chain
func NewLocator(deps interfaces.Dependencies) *Locator {
	return &Locator{
		deps:       deps,
		strategies: DefaultStrategies(),
	}
}

// Use appends a strategy to the end of the chain
func (l *Locator) Use(s Strategy) {
	l.strategies = append(l.strategies, s)
}

// Locate returns the feed URL for pageURL.
// Not finding a feed is ("", false, nil); only an unreachable page is an error.
func (l *Locator) Locate(ctx context.Context, pageURL string, timeout time.Duration) (string, bool, error) {
	if l.deps.HTTPClient == nil {
		return "", false, &coreerrors.InvalidArgumentError{Field: "httpClient", Message: "not configured"}
	}
	pageURL = withScheme(strings.TrimSpace(pageURL))
	if pageURL == "" {
		return "", false, &coreerrors.InvalidArgumentError{Field: "pageURL", Message: "cannot be empty"}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	probe := &prober{client: l.deps.HTTPClient, timeout: timeout, logger: l.deps.Logger}

	if final, ok := probe.head(ctx, pageURL); ok {
		l.found(pageURL, final, "content-type")
		return final, true, nil
	}

	page, final, err := l.retrieve(ctx, probe, pageURL)
	if err != nil {
		return "", false, err
	}
	if final != "" {
		l.found(pageURL, final, "content-type")
		return final, true, nil
	}

	for _, s := range l.strategies {
		if feedURL, ok := s.Find(ctx, page); ok {
			l.found(pageURL, feedURL, s.Name())
			return feedURL, true, nil
		}
	}

	if l.deps.Logger != nil {
		l.deps.Logger.Info("No feed found", map[string]interface{}{"url": pageURL})
	}
	return "", false, nil
}

// retrieve GETs the page. A feed content-type yields its final URL,
// otherwise the body is parsed as HTML for the strategies.
func (l *Locator) retrieve(ctx context.Context, probe *prober, pageURL string) (*Page, string, error) {
	ctx, cancel := context.WithTimeout(ctx, probe.timeout)
	defer cancel()

	resp, err := l.deps.HTTPClient.Get(ctx, pageURL)
	if err != nil {
		return nil, "", &coreerrors.NetworkError{URL: pageURL, Err: err}
	}
	body := resp.Body()
	defer body.Close()

	if !is2xx(resp.StatusCode()) {
		return nil, "", &coreerrors.NetworkError{URL: pageURL, StatusCode: resp.StatusCode()}
	}

	final := finalURL(resp, pageURL)
	if IsFeedContentType(resp.Header("Content-Type")) {
		return nil, final, nil
	}

	page := &Page{URL: final, probe: probe}
	doc, err := goquery.NewDocumentFromReader(io.LimitReader(body, maxPageBytes))
	if err != nil {
		probe.debug("Parsing page HTML failed", final, err)
	} else {
		page.Doc = doc
	}
	return page, "", nil
}

func (l *Locator) found(pageURL, feedURL, via string) {
	if l.deps.Logger == nil {
		return
	}
	l.deps.Logger.Info("Feed located", map[string]interface{}{
		"url":      pageURL,
		"feed_url": feedURL,
		"strategy": via,
	})
}

func withScheme(u string) string {
	if u == "" || strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	return "https://" + u
}
