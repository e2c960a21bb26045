// ABOUTME: database/sql implementation of the PublicationStore interface
// ABOUTME: Also provides the write side used when onboarding publications from the CLI

package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"paperfeed-engine/core/domain"
)

// Store reads and writes publications and issues through database/sql
type Store struct {
	db *sql.DB
	ph Placeholder
}

// New wraps an open database; call Ensure before first use on a fresh database
func New(db *sql.DB, ph Placeholder) *Store {
	return &Store{db: db, ph: ph}
}

// Ensure creates the schema if it does not exist
func (s *Store) Ensure(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

func (s *Store) q(query string) string {
	return rebind(query, s.ph)
}

// GetPublicationByFeedURL returns (nil, nil) when no publication owns feedURL
func (s *Store) GetPublicationByFeedURL(ctx context.Context, feedURL string) (*domain.Publication, error) {
	var p domain.Publication
	err := s.db.QueryRowContext(ctx, s.q(queryPublicationByFeedURL), feedURL).
		Scan(&p.ID, &p.Title, &p.Publisher, &p.URL, &p.FeedURL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("looking up publication for %s: %w", feedURL, err)
	}
	return &p, nil
}

// ListPublicationsForIssue returns publications in the order they were added to the issue
func (s *Store) ListPublicationsForIssue(ctx context.Context, issueID string) ([]domain.PublicationFeedConfig, error) {
	rows, err := s.db.QueryContext(ctx, s.q(queryPublicationsForIssue), issueID)
	if err != nil {
		return nil, fmt.Errorf("listing publications for issue %s: %w", issueID, err)
	}
	defer rows.Close()

	var out []domain.PublicationFeedConfig
	for rows.Next() {
		var pc domain.PublicationFeedConfig
		if err := rows.Scan(&pc.ID, &pc.Title, &pc.Publisher, &pc.URL, &pc.FeedURL, &pc.RemoveImages); err != nil {
			return nil, err
		}
		out = append(out, pc)
	}
	return out, rows.Err()
}

// GetIssue returns (nil, nil) when the issue does not exist
func (s *Store) GetIssue(ctx context.Context, issueID string) (*domain.Issue, error) {
	var issue domain.Issue
	err := s.db.QueryRowContext(ctx, s.q(queryIssue), issueID).Scan(&issue.ID, &issue.Title)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("looking up issue %s: %w", issueID, err)
	}
	return &issue, nil
}

// SavePublication inserts or updates a publication by id
func (s *Store) SavePublication(ctx context.Context, p domain.Publication) error {
	_, err := s.db.ExecContext(ctx, s.q(upsertPublication), p.ID, p.Title, p.Publisher, p.URL, p.FeedURL)
	return err
}

// SaveIssue inserts or updates an issue by id
func (s *Store) SaveIssue(ctx context.Context, issue domain.Issue) error {
	_, err := s.db.ExecContext(ctx, s.q(upsertIssue), issue.ID, issue.Title)
	return err
}

// AddPublicationToIssue links a publication to an issue, appending it to the issue's order
func (s *Store) AddPublicationToIssue(ctx context.Context, issueID, publicationID string, removeImages bool) error {
	_, err := s.db.ExecContext(ctx, s.q(upsertIssuePublication), issueID, publicationID, removeImages, issueID)
	return err
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}
