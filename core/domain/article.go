// ABOUTME: Article, Publication and Issue domain models
// ABOUTME: Articles carry identity for downstream persistence and a weak publication reference

package domain

import "github.com/google/uuid"

// Article is a NormalizedItem attached to an identity
type Article struct {
	NormalizedItem

	// ID is a random UUID assigned when the article is created
	ID string `json:"id"`

	// PublicationID references a publication by id only; nil when the feed is unknown
	PublicationID *string `json:"publication_id"`

	// FeedURL is the feed the article was read from
	FeedURL string `json:"feed_url,omitempty"`

	// Publication display data copied from the store for the downstream renderer
	PublicationTitle     string `json:"publication_title,omitempty"`
	PublicationPublisher string `json:"publication_publisher,omitempty"`
	RemoveImages         bool   `json:"remove_images"`
}

// NewArticle wraps an item with a fresh identifier
func NewArticle(item NormalizedItem, feedURL string) Article {
	return Article{
		NormalizedItem: item,
		ID:             uuid.New().String(),
		FeedURL:        feedURL,
	}
}

// AttachPublication sets the weak publication reference and display data
func (a *Article) AttachPublication(pub *Publication) {
	if pub == nil {
		return
	}
	id := pub.ID
	a.PublicationID = &id
	a.PublicationTitle = pub.Title
	a.PublicationPublisher = pub.Publisher
}

// Publication is a newsletter or site the engine reads from
type Publication struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Publisher string `json:"publisher,omitempty"`
	URL       string `json:"url,omitempty"`
	FeedURL   string `json:"rss_feed_url,omitempty"`
}

// PublicationFeedConfig is a publication as configured for one issue
type PublicationFeedConfig struct {
	Publication

	// RemoveImages is passed through to the renderer untouched
	RemoveImages bool `json:"remove_images"`
}

// Issue groups publications for one aggregated digest
type Issue struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}
