// ABOUTME: Probing helpers that decide whether a single URL serves a feed
// ABOUTME: Every outbound call gets its own timeout; failures are reported as absent

package locator

import (
	"context"
	"io"
	"time"

	"paperfeed-engine/core/interfaces"
)

// sniffReadLimit bounds how much of a candidate body is read for sniffing
const sniffReadLimit = 64 << 10

type prober struct {
	client  interfaces.HTTPClient
	timeout time.Duration
	logger  interfaces.Logger
}

// head issues a HEAD and reports the final URL when it signals a feed
func (p *prober) head(ctx context.Context, target string) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.client.Head(ctx, target)
	if err != nil {
		p.debug("HEAD probe failed", target, err)
		return "", false
	}
	resp.Body().Close()

	if !is2xx(resp.StatusCode()) || !IsFeedContentType(resp.Header("Content-Type")) {
		return "", false
	}
	return finalURL(resp, target), true
}

// qualify applies HEAD, then GET, then body sniffing to a candidate
func (p *prober) qualify(ctx context.Context, candidate string) (string, bool) {
	if final, ok := p.head(ctx, candidate); ok {
		return final, true
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.client.Get(ctx, candidate)
	if err != nil {
		p.debug("GET probe failed", candidate, err)
		return "", false
	}
	body := resp.Body()
	defer body.Close()

	if !is2xx(resp.StatusCode()) {
		return "", false
	}
	final := finalURL(resp, candidate)
	if IsFeedContentType(resp.Header("Content-Type")) {
		return final, true
	}

	head, err := io.ReadAll(io.LimitReader(body, sniffReadLimit))
	if err != nil {
		p.debug("Reading candidate body failed", candidate, err)
		return "", false
	}
	if looksLikeFeed(head) {
		return final, true
	}
	return "", false
}

func (p *prober) debug(msg, target string, err error) {
	if p.logger == nil {
		return
	}
	p.logger.Debug(msg, map[string]interface{}{
		"url":   target,
		"error": err.Error(),
	})
}

func is2xx(status int) bool {
	return status >= 200 && status <= 299
}

func finalURL(resp interfaces.Response, requested string) string {
	if u := resp.URL(); u != "" {
		return u
	}
	return requested
}
