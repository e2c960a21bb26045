// ABOUTME: Schema and queries shared by the SQLite and Postgres publication stores
// ABOUTME: Queries use ? placeholders and are rebound for drivers that need $n

package sqlstore

import (
	"strconv"
	"strings"
)

// Schema creates the publication tables; it is valid for SQLite and Postgres
const Schema = `
CREATE TABLE IF NOT EXISTS publications (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    publisher TEXT NOT NULL DEFAULT '',
    url TEXT NOT NULL DEFAULT '',
    rss_feed_url TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_publications_feed_url ON publications(rss_feed_url);
CREATE TABLE IF NOT EXISTS issues (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS issue_publications (
    issue_id TEXT NOT NULL REFERENCES issues(id),
    publication_id TEXT NOT NULL REFERENCES publications(id),
    remove_images BOOLEAN NOT NULL DEFAULT FALSE,
    position INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (issue_id, publication_id)
);
`

const (
	queryPublicationByFeedURL = `SELECT id, title, publisher, url, rss_feed_url FROM publications WHERE rss_feed_url = ? LIMIT 1`

	queryPublicationsForIssue = `
SELECT p.id, p.title, p.publisher, p.url, p.rss_feed_url, ip.remove_images
FROM issue_publications ip
JOIN publications p ON p.id = ip.publication_id
WHERE ip.issue_id = ?
ORDER BY ip.position, p.id`

	queryIssue = `SELECT id, title FROM issues WHERE id = ?`

	upsertPublication = `
INSERT INTO publications (id, title, publisher, url, rss_feed_url) VALUES (?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET title = excluded.title, publisher = excluded.publisher,
    url = excluded.url, rss_feed_url = excluded.rss_feed_url`

	upsertIssue = `
INSERT INTO issues (id, title) VALUES (?, ?)
ON CONFLICT (id) DO UPDATE SET title = excluded.title`

	upsertIssuePublication = `
INSERT INTO issue_publications (issue_id, publication_id, remove_images, position)
VALUES (?, ?, ?, (SELECT COUNT(*) FROM issue_publications WHERE issue_id = ?))
ON CONFLICT (issue_id, publication_id) DO UPDATE SET remove_images = excluded.remove_images`
)

// Placeholder renders the nth (1-based) bind parameter for a driver
type Placeholder func(n int) string

// QuestionMark is the SQLite placeholder style
func QuestionMark(int) string { return "?" }

// Dollar is the Postgres placeholder style
func Dollar(n int) string { return "$" + strconv.Itoa(n) }

func rebind(query string, ph Placeholder) string {
	if strings.Count(query, "?") == 0 {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString(ph(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
