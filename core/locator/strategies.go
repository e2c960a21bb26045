// ABOUTME: Discovery strategies tried in order once the page itself is not a feed
// ABOUTME: New heuristics are added as another Strategy without touching existing ones

package locator

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"paperfeed-engine/core/domain"
)

// Page is a retrieved HTML page being searched for feeds
type Page struct {
	// URL is the page URL after redirects
	URL string

	// Doc is the parsed HTML; nil when the body could not be parsed
	Doc *goquery.Document

	probe *prober
}

// Qualify reports the final URL of candidate when it serves a feed
func (p *Page) Qualify(ctx context.Context, candidate string) (string, bool) {
	return p.probe.qualify(ctx, candidate)
}

// Strategy proposes feed URLs for a page
type Strategy interface {
	Name() string
	Find(ctx context.Context, page *Page) (string, bool)
}

// DefaultStrategies returns the built-in discovery chain
func DefaultStrategies() []Strategy {
	return []Strategy{
		htmlCandidates{},
		wellKnownPaths{paths: WellKnownFeedPaths},
	}
}

// htmlCandidates qualifies <link rel="alternate"> targets, or anchors when no such link exists
type htmlCandidates struct{}

func (htmlCandidates) Name() string { return "html" }

func (htmlCandidates) Find(ctx context.Context, page *Page) (string, bool) {
	if page.Doc == nil {
		return "", false
	}

	candidates := alternateLinks(page)
	if len(candidates) == 0 {
		candidates = feedAnchors(page)
	}

	for _, c := range dedupe(candidates) {
		if final, ok := page.Qualify(ctx, c.URL); ok {
			return final, true
		}
	}
	return "", false
}

func alternateLinks(page *Page) []domain.FeedCandidate {
	var out []domain.FeedCandidate
	page.Doc.Find("link[rel][href]").Each(func(_ int, s *goquery.Selection) {
		if !hasToken(s.AttrOr("rel", ""), "alternate") {
			return
		}
		typ := strings.ToLower(s.AttrOr("type", ""))
		if !containsAny(typ, "rss", "atom", "xml") {
			return
		}
		if abs, ok := resolve(page.URL, s.AttrOr("href", "")); ok {
			out = append(out, domain.FeedCandidate{URL: abs, Evidence: domain.EvidenceLinkTag})
		}
	})
	return out
}

func feedAnchors(page *Page) []domain.FeedCandidate {
	var out []domain.FeedCandidate
	page.Doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := s.AttrOr("href", "")
		label := strings.ToLower(s.Text())
		if !containsAny(strings.ToLower(href), "rss", "feed", "atom") && !containsAny(label, "rss", "feed", "atom") {
			return
		}
		if abs, ok := resolve(page.URL, href); ok {
			out = append(out, domain.FeedCandidate{URL: abs, Evidence: domain.EvidenceAnchor})
		}
	})
	return out
}

// WellKnownFeedPaths are probed off the site root, in order
var WellKnownFeedPaths = []string{
	"/feed",
	"/rss",
	"/rss.xml",
	"/atom.xml",
	"/feeds/posts/default",
	"/feeds",
	"/feed.xml",
	"/index.xml",
}

type wellKnownPaths struct {
	paths []string
}

func (wellKnownPaths) Name() string { return "well-known-paths" }

func (w wellKnownPaths) Find(ctx context.Context, page *Page) (string, bool) {
	root, err := url.Parse(page.URL)
	if err != nil || root.Host == "" {
		return "", false
	}

	for _, p := range w.paths {
		candidate := domain.FeedCandidate{
			URL:      root.Scheme + "://" + root.Host + p,
			Evidence: domain.EvidenceWellKnownPath,
		}
		if final, ok := page.Qualify(ctx, candidate.URL); ok {
			return final, true
		}
	}
	return "", false
}

// resolve makes href absolute against base, keeping only http(s) targets
func resolve(base, href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", false
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	b, err := url.Parse(base)
	if err != nil {
		return "", false
	}
	abs := b.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return "", false
	}
	abs.Fragment = ""
	return abs.String(), true
}

func dedupe(candidates []domain.FeedCandidate) []domain.FeedCandidate {
	seen := make(map[string]bool, len(candidates))
	out := candidates[:0]
	for _, c := range candidates {
		if seen[c.URL] {
			continue
		}
		seen[c.URL] = true
		out = append(out, c)
	}
	return out
}

func hasToken(list, token string) bool {
	for _, f := range strings.Fields(strings.ToLower(list)) {
		if f == token {
			return true
		}
	}
	return false
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
