// ABOUTME: Storage interfaces for publication and issue lookups
// ABOUTME: The engine only reads; writes belong to whoever owns the database

package interfaces

import (
	"context"

	"paperfeed-engine/core/domain"
)

// PublicationStore is the read-only view of publications the aggregator needs.
// Absent records are reported as (nil, nil), not as errors.
type PublicationStore interface {
	// GetPublicationByFeedURL finds the publication that owns a feed URL
	GetPublicationByFeedURL(ctx context.Context, feedURL string) (*domain.Publication, error)

	// ListPublicationsForIssue returns the publications configured for an issue
	ListPublicationsForIssue(ctx context.Context, issueID string) ([]domain.PublicationFeedConfig, error)

	// GetIssue returns an issue by id
	GetIssue(ctx context.Context, issueID string) (*domain.Issue, error)
}
