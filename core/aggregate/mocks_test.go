package aggregate

import (
	"context"
	"sync"

	"paperfeed-engine/core/domain"
)

// mockFeedReader is a mock implementation of FeedReader
type mockFeedReader struct {
	fetchFunc func(ctx context.Context, feedURL string) ([]domain.NormalizedItem, error)

	mu    sync.Mutex
	calls []string
}

func (m *mockFeedReader) FetchAndParseFeed(ctx context.Context, feedURL string) ([]domain.NormalizedItem, error) {
	m.mu.Lock()
	m.calls = append(m.calls, feedURL)
	m.mu.Unlock()
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, feedURL)
	}
	return nil, nil
}

// mockStore is a mock implementation of the PublicationStore interface
type mockStore struct {
	byFeedURLFunc func(ctx context.Context, feedURL string) (*domain.Publication, error)
	listFunc      func(ctx context.Context, issueID string) ([]domain.PublicationFeedConfig, error)
	issueFunc     func(ctx context.Context, issueID string) (*domain.Issue, error)
}

func (m *mockStore) GetPublicationByFeedURL(ctx context.Context, feedURL string) (*domain.Publication, error) {
	if m.byFeedURLFunc != nil {
		return m.byFeedURLFunc(ctx, feedURL)
	}
	return nil, nil
}

func (m *mockStore) ListPublicationsForIssue(ctx context.Context, issueID string) ([]domain.PublicationFeedConfig, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, issueID)
	}
	return nil, nil
}

func (m *mockStore) GetIssue(ctx context.Context, issueID string) (*domain.Issue, error) {
	if m.issueFunc != nil {
		return m.issueFunc(ctx, issueID)
	}
	return nil, nil
}

// mockLogger records messages by level
type mockLogger struct {
	mu     sync.Mutex
	errors []string
	warns  []string
}

func (m *mockLogger) Debug(msg string, fields map[string]interface{}) {}
func (m *mockLogger) Info(msg string, fields map[string]interface{})  {}

func (m *mockLogger) Warn(msg string, fields map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.warns = append(m.warns, msg)
}

func (m *mockLogger) Error(msg string, fields map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, msg)
}
