// ABOUTME: Publisher interface for handing finished digests to downstream consumers
// ABOUTME: Implementations may write to a broker, a file, or nowhere at all

package interfaces

import (
	"context"

	"paperfeed-engine/core/domain"
)

// DigestPublisher delivers an aggregated digest
type DigestPublisher interface {
	Publish(ctx context.Context, digest *domain.IssueDigest) error
	Close() error
}
