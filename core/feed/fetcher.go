// ABOUTME: Feed fetcher retrieves a feed body and checks that it is a recognizable feed
// ABOUTME: Optionally caches validated bodies so repeated aggregation runs skip the network

package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/antchfx/xmlquery"

	coreerrors "paperfeed-engine/core/errors"
	"paperfeed-engine/core/interfaces"
)

// Fetcher defaults
const (
	DefaultFetchTimeout = 30 * time.Second
	DefaultMaxFeedBytes = 10 << 20
	DefaultCacheTTL     = 10 * time.Minute
)

// FetcherOptions configures a Fetcher
type FetcherOptions struct {
	// Timeout bounds a single feed retrieval, independent of discovery timeouts
	Timeout time.Duration

	// MaxBytes caps the body size read from the network
	MaxBytes int64

	// CacheTTL is how long validated bodies stay in the cache
	CacheTTL time.Duration
}

// Fetcher downloads and validates feed documents
type Fetcher struct {
	deps interfaces.Dependencies
	opts FetcherOptions
}

// NewFetcher creates a Fetcher, filling zero options with defaults
func NewFetcher(deps interfaces.Dependencies, opts FetcherOptions) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultFetchTimeout
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxFeedBytes
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	return &Fetcher{deps: deps, opts: opts}
}

// Fetch returns the raw body of feedURL once it is known to be RSS or Atom.
// Errors are NetworkError, ParseError or ValidationError.
func (f *Fetcher) Fetch(ctx context.Context, feedURL string) ([]byte, error) {
	raw, _, err := f.fetchDocument(ctx, feedURL)
	return raw, err
}

// fetchDocument returns the body together with its validated root element,
// so callers that go on to parse items reuse the same DOM
func (f *Fetcher) fetchDocument(ctx context.Context, feedURL string) ([]byte, *xmlquery.Node, error) {
	if cached, ok := f.cached(ctx, feedURL); ok {
		root, err := validatedRoot(cached, feedURL)
		if err == nil {
			return cached, root, nil
		}
		f.debug("Discarding invalid cached feed", map[string]interface{}{"url": feedURL})
	}

	raw, err := f.download(ctx, feedURL)
	if err != nil {
		return nil, nil, err
	}

	root, err := validatedRoot(raw, feedURL)
	if err != nil {
		return nil, nil, err
	}

	f.store(ctx, feedURL, raw)
	return raw, root, nil
}

func (f *Fetcher) download(ctx context.Context, feedURL string) ([]byte, error) {
	if f.deps.HTTPClient == nil {
		return nil, &coreerrors.NetworkError{URL: feedURL, Err: errors.New("HTTP client not configured")}
	}

	ctx, cancel := context.WithTimeout(ctx, f.opts.Timeout)
	defer cancel()

	resp, err := f.deps.HTTPClient.Get(ctx, feedURL)
	if err != nil {
		return nil, &coreerrors.NetworkError{URL: feedURL, Err: err}
	}
	body := resp.Body()
	defer body.Close()

	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return nil, &coreerrors.NetworkError{URL: feedURL, StatusCode: resp.StatusCode()}
	}

	raw, err := io.ReadAll(io.LimitReader(body, f.opts.MaxBytes+1))
	if err != nil {
		return nil, &coreerrors.NetworkError{URL: feedURL, Err: err}
	}
	if int64(len(raw)) > f.opts.MaxBytes {
		return nil, &coreerrors.NetworkError{
			URL: feedURL,
			Err: fmt.Errorf("response body exceeds %d bytes", f.opts.MaxBytes),
		}
	}

	return raw, nil
}

// Validate reports whether raw is well-formed XML shaped like a feed
func Validate(raw []byte, feedURL string) error {
	_, err := validatedRoot(raw, feedURL)
	return err
}

func validatedRoot(raw []byte, feedURL string) (*xmlquery.Node, error) {
	root, err := parseDocument(raw, feedURL)
	if err != nil {
		return nil, err
	}
	if err := validateShape(root, feedURL); err != nil {
		return nil, err
	}
	return root, nil
}

func cacheKey(feedURL string) string {
	return fmt.Sprintf("feed:%s", feedURL)
}

func (f *Fetcher) cached(ctx context.Context, feedURL string) ([]byte, bool) {
	if f.deps.Cache == nil {
		return nil, false
	}
	data, err := f.deps.Cache.Get(ctx, cacheKey(feedURL))
	if err != nil || len(data) == 0 {
		return nil, false
	}
	f.debug("Feed served from cache", map[string]interface{}{"url": feedURL})
	return data, true
}

func (f *Fetcher) store(ctx context.Context, feedURL string, raw []byte) {
	if f.deps.Cache == nil {
		return
	}
	// Cache errors never fail a fetch
	if err := f.deps.Cache.Set(ctx, cacheKey(feedURL), raw, f.opts.CacheTTL); err != nil {
		f.debug("Failed to cache feed", map[string]interface{}{
			"url":   feedURL,
			"error": err.Error(),
		})
	}
}

func (f *Fetcher) debug(msg string, fields map[string]interface{}) {
	if f.deps.Logger != nil {
		f.deps.Logger.Debug(msg, fields)
	}
}
