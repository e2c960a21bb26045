// ABOUTME: IssueDigest is the result of aggregating recent articles for an issue
// ABOUTME: Also defines FeedFailure, the record kept for a feed that could not be read

package domain

import "time"

// FeedFailure records a feed that contributed nothing because it failed
type FeedFailure struct {
	FeedURL       string `json:"url"`
	PublicationID string `json:"publication_id,omitempty"`
	Kind          string `json:"kind"`
	Error         string `json:"error"`
}

// AppliedRange is the date range an aggregation actually used
type AppliedRange struct {
	From     time.Time `json:"from"`
	To       time.Time `json:"to"`
	DaysBack int       `json:"days_back"`
}

// IssueDigest groups recent articles by publication for one issue
type IssueDigest struct {
	Issue                 Issue                   `json:"issue"`
	Publications          []PublicationFeedConfig `json:"publications"`
	ArticlesByPublication map[string][]Article    `json:"articles_by_publication"`
	TotalArticles         int                     `json:"total_articles"`
	DateRange             AppliedRange            `json:"date_range"`
	Failures              []FeedFailure           `json:"failures,omitempty"`
}
