// ABOUTME: Feed-level domain models used by discovery and onboarding
// ABOUTME: FeedCandidate carries discovery evidence, FeedInfo carries channel metadata

package domain

// CandidateEvidence records why a URL was considered a possible feed
type CandidateEvidence string

const (
	// EvidenceContentType means the response advertised a feed content-type
	EvidenceContentType CandidateEvidence = "content-type"

	// EvidenceLinkTag means a <link rel="alternate"> tag pointed at the URL
	EvidenceLinkTag CandidateEvidence = "link-tag"

	// EvidenceAnchor means an <a> element mentioned rss, feed or atom
	EvidenceAnchor CandidateEvidence = "anchor"

	// EvidenceWellKnownPath means the URL is a conventional feed path guess
	EvidenceWellKnownPath CandidateEvidence = "well-known-path"
)

// FeedCandidate is a URL that may serve a feed, scoped to one discovery call
type FeedCandidate struct {
	URL      string
	Evidence CandidateEvidence
}

// DefaultFeedTitle is used when a channel declares no title
const DefaultFeedTitle = "unknown_feed"

// FeedInfo describes a feed channel
type FeedInfo struct {
	// URL is the feed URL that was fetched
	URL string `json:"url"`

	// Title is the channel title or DefaultFeedTitle
	Title string `json:"title"`

	// Description is the channel description
	Description string `json:"description,omitempty"`

	// Link is the website the feed belongs to
	Link string `json:"link,omitempty"`

	// Language is the declared channel language
	Language string `json:"language,omitempty"`

	// FeedType is "rss" or "atom"
	FeedType string `json:"feed_type"`

	// ItemCount is the number of items or entries in the document
	ItemCount int `json:"item_count"`
}
