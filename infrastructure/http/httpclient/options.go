// ABOUTME: Immutable network settings shared by every HTTP client implementation
// ABOUTME: User agent, default headers, timeout, retries and an outbound rate limiter

package httpclient

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// DefaultUserAgent identifies the engine to feed servers
const DefaultUserAgent = "PaperfeedEngine/1.0"

// DefaultHeaders are sent with every request unless overridden
var DefaultHeaders = map[string]string{
	"Accept":          "application/rss+xml, application/atom+xml, application/xml;q=0.9, text/xml;q=0.9, text/html;q=0.8, */*;q=0.7",
	"Accept-Language": "en-US,en;q=0.9",
}

// Options is passed by value at construction and never mutated afterwards
type Options struct {
	// Timeout is an optional client-wide ceiling; 0 leaves deadlines to the request context
	Timeout time.Duration

	UserAgent string

	// Headers are merged over DefaultHeaders
	Headers map[string]string

	// MaxRetries is the number of extra attempts after a transport error or 5xx; 0 makes one attempt
	MaxRetries int

	// RateLimit is requests per second; 0 disables limiting
	RateLimit float64
	RateBurst int
}

// RequestHeaders returns the effective request headers including User-Agent
func (o Options) RequestHeaders() map[string]string {
	h := make(map[string]string, len(DefaultHeaders)+len(o.Headers)+1)
	for k, v := range DefaultHeaders {
		h[k] = v
	}
	for k, v := range o.Headers {
		h[k] = v
	}
	h["User-Agent"] = o.UserAgent
	if h["User-Agent"] == "" {
		h["User-Agent"] = DefaultUserAgent
	}
	return h
}

// Limiter wraps rate.Limiter so a disabled limiter is a no-op
type Limiter struct {
	limiter *rate.Limiter
}

// NewLimiter builds the limiter described by o
func (o Options) NewLimiter() *Limiter {
	if o.RateLimit <= 0 {
		return &Limiter{}
	}
	burst := o.RateBurst
	if burst < 1 {
		burst = 1
	}
	return &Limiter{limiter: rate.NewLimiter(rate.Limit(o.RateLimit), burst)}
}

// Wait blocks until a request may proceed or ctx is done
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil || l.limiter == nil {
		return nil
	}
	return l.limiter.Wait(ctx)
}

// Backoff returns the delay before retry attempt n (1-based): 100ms, 200ms, 400ms...
func Backoff(attempt int) time.Duration {
	return time.Duration(100*(1<<(attempt-1))) * time.Millisecond
}
