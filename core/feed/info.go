// ABOUTME: Feed metadata extraction for publication onboarding
// ABOUTME: Uses gofeed on an already validated body to describe the channel

package feed

import (
	"bytes"
	"strings"

	"github.com/mmcdole/gofeed"

	"paperfeed-engine/core/domain"
	coreerrors "paperfeed-engine/core/errors"
	"paperfeed-engine/pkg/utils/html"
)

// describe builds FeedInfo from a validated feed body
func describe(raw []byte, feedURL string) (*domain.FeedInfo, error) {
	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, &coreerrors.ParseError{URL: feedURL, Err: err}
	}

	info := &domain.FeedInfo{
		URL:         feedURL,
		Title:       strings.TrimSpace(parsed.Title),
		Description: html.StripHTML(parsed.Description),
		Link:        parsed.Link,
		Language:    parsed.Language,
		FeedType:    parsed.FeedType,
		ItemCount:   len(parsed.Items),
	}
	if info.Title == "" {
		info.Title = domain.DefaultFeedTitle
	}
	return info, nil
}
