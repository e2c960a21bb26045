// ABOUTME: NormalizedItem domain model is the single shape every RSS item or Atom entry is reduced to
// ABOUTME: Provides field bounds, semantic defaults and character-safe truncation

package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Field bounds, counted in characters.
const (
	MaxTitleLength      = 255
	MaxSubtitleLength   = 255
	MaxAuthorLength     = 255
	MaxContentURLLength = 512
)

// Semantic defaults for fields that must never be empty.
const (
	DefaultTitle  = "Untitled"
	DefaultAuthor = "Unknown Author"
)

// NormalizedItem represents one feed entry after field resolution
type NormalizedItem struct {
	// Title is the entry headline
	Title string `json:"title"`

	// Subtitle is a short summary taken from the first non-empty description-like field
	Subtitle string `json:"subtitle,omitempty"`

	// Author is the entry author or DefaultAuthor
	Author string `json:"author"`

	// ContentURL links to the full article
	ContentURL string `json:"content_url"`

	// PublishedAt is always in UTC
	PublishedAt time.Time `json:"date_published"`

	// DateInferred is set when no date field parsed and the fetch time was used instead
	DateInferred bool `json:"date_inferred,omitempty"`
}

// Bounded returns a copy with every field truncated and defaults applied
func (ni NormalizedItem) Bounded() NormalizedItem {
	ni.Title = Truncate(strings.TrimSpace(ni.Title), MaxTitleLength)
	if ni.Title == "" {
		ni.Title = DefaultTitle
	}
	ni.Subtitle = Truncate(strings.TrimSpace(ni.Subtitle), MaxSubtitleLength)
	ni.Author = Truncate(strings.TrimSpace(ni.Author), MaxAuthorLength)
	if ni.Author == "" {
		ni.Author = DefaultAuthor
	}
	ni.ContentURL = Truncate(strings.TrimSpace(ni.ContentURL), MaxContentURLLength)
	ni.PublishedAt = ni.PublishedAt.UTC()
	return ni
}

// Truncate cuts s to at most max characters without splitting a rune
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}
