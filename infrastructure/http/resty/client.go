// ABOUTME: HTTP client implementation backed by go-resty with built-in retry
// ABOUTME: Buffers bodies in memory; callers still enforce their own size limits

package resty

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"paperfeed-engine/core/interfaces"
	"paperfeed-engine/infrastructure/http/httpclient"
)

// Client implements interfaces.HTTPClient on top of a resty.Client
type Client struct {
	client *resty.Client
}

// NewClient builds a resty-backed client from immutable options.
// logger may be nil, in which case resty's own logger is kept.
func NewClient(opts httpclient.Options, logger interfaces.Logger) *Client {
	limiter := opts.NewLimiter()

	c := resty.New().
		SetTimeout(opts.Timeout).
		SetHeaders(opts.RequestHeaders()).
		SetRetryCount(opts.MaxRetries).
		SetRetryWaitTime(httpclient.Backoff(1)).
		SetRetryMaxWaitTime(2 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || (r != nil && r.StatusCode() >= 500)
		}).
		OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
			return limiter.Wait(r.Context())
		})

	if logger != nil {
		c.SetLogger(&restyLogger{logger: logger})
	}

	return &Client{client: c}
}

// Get performs an HTTP GET request
func (c *Client) Get(ctx context.Context, url string) (interfaces.Response, error) {
	return c.execute(ctx, http.MethodGet, url)
}

// Head performs an HTTP HEAD request
func (c *Client) Head(ctx context.Context, url string) (interfaces.Response, error) {
	return c.execute(ctx, http.MethodHead, url)
}

func (c *Client) execute(ctx context.Context, method, url string) (interfaces.Response, error) {
	resp, err := c.client.R().SetContext(ctx).Execute(method, url)
	if err != nil {
		return nil, err
	}

	finalURL := url
	if raw := resp.RawResponse; raw != nil && raw.Request != nil && raw.Request.URL != nil {
		finalURL = raw.Request.URL.String()
	}

	return &response{
		statusCode: resp.StatusCode(),
		body:       resp.Body(),
		headers:    resp.Header(),
		url:        finalURL,
	}, nil
}

type response struct {
	statusCode int
	body       []byte
	headers    http.Header
	url        string
}

func (r *response) StatusCode() int { return r.statusCode }

func (r *response) Body() io.ReadCloser { return io.NopCloser(bytes.NewReader(r.body)) }

func (r *response) Header(key string) string { return r.headers.Get(key) }

func (r *response) URL() string { return r.url }

// restyLogger routes resty's printf-style logging into the structured logger
type restyLogger struct {
	logger interfaces.Logger
}

func (l *restyLogger) Errorf(format string, v ...interface{}) {
	l.logger.Error("HTTP client error", map[string]interface{}{"detail": fmt.Sprintf(format, v...)})
}

func (l *restyLogger) Warnf(format string, v ...interface{}) {
	l.logger.Warn("HTTP client warning", map[string]interface{}{"detail": fmt.Sprintf(format, v...)})
}

func (l *restyLogger) Debugf(format string, v ...interface{}) {
	l.logger.Debug("HTTP client debug", map[string]interface{}{"detail": fmt.Sprintf(format, v...)})
}
