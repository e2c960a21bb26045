// ABOUTME: Standard HTTP client implementation with retry logic and rate limiting
// ABOUTME: Follows redirects and reports the final URL so discovery can return it

package standard

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"paperfeed-engine/core/interfaces"
	"paperfeed-engine/infrastructure/http/httpclient"
)

// StandardHTTPClient implements the HTTPClient interface using the standard library
type StandardHTTPClient struct {
	client  *http.Client
	headers map[string]string
	retries int
	limiter *httpclient.Limiter
}

// NewStandardHTTPClient creates a new HTTP client from immutable options
func NewStandardHTTPClient(opts httpclient.Options) *StandardHTTPClient {
	return &StandardHTTPClient{
		client: &http.Client{
			Timeout: opts.Timeout,
		},
		headers: opts.RequestHeaders(),
		retries: opts.MaxRetries,
		limiter: opts.NewLimiter(),
	}
}

// Get performs an HTTP GET request
func (c *StandardHTTPClient) Get(ctx context.Context, url string) (interfaces.Response, error) {
	return c.do(ctx, http.MethodGet, url)
}

// Head performs an HTTP HEAD request
func (c *StandardHTTPClient) Head(ctx context.Context, url string) (interfaces.Response, error) {
	return c.do(ctx, http.MethodHead, url)
}

func (c *StandardHTTPClient) do(ctx context.Context, method, url string) (interfaces.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(httpclient.Backoff(attempt)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		resp, err = c.client.Do(req)
		if err != nil {
			lastErr = err
			resp = nil
			continue
		}

		// Don't retry on success or 4xx errors
		if resp.StatusCode < 500 || attempt == c.retries {
			break
		}

		// Close body for retry
		resp.Body.Close()
		lastErr = fmt.Errorf("server returned %d", resp.StatusCode)
		resp = nil
	}

	if resp == nil {
		return nil, lastErr
	}

	return &httpResponse{
		statusCode: resp.StatusCode,
		body:       resp.Body,
		headers:    resp.Header,
		url:        resp.Request.URL.String(),
	}, nil
}

// httpResponse implements the Response interface
type httpResponse struct {
	statusCode int
	body       io.ReadCloser
	headers    http.Header
	url        string
}

// StatusCode returns the HTTP status code
func (r *httpResponse) StatusCode() int {
	return r.statusCode
}

// Body returns the response body
func (r *httpResponse) Body() io.ReadCloser {
	return r.body
}

// Header returns the value of the specified header
func (r *httpResponse) Header(key string) string {
	return r.headers.Get(key)
}

// URL returns the final request URL after redirects
func (r *httpResponse) URL() string {
	return r.url
}
