// Package storage reads issue corpora from tracker SQLite databases.
//
// The engine itself never persists anything; this package is strictly a
// corpus source for callers that keep their issues in a local tracker
// database instead of JSON exports.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/triagekit/dupdetect/internal/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS issues (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL CHECK(length(title) <= 500),
    description TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT 'open',
    created_at TEXT NOT NULL DEFAULT '',
    url TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_issues_status ON issues(status);
`

// Store is a SQLite-backed issue corpus.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) an issue database at the given path.
// WAL mode keeps concurrent readers from blocking each other.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", "file:"+path+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveIssue inserts or replaces an issue record.
func (s *Store) SaveIssue(ctx context.Context, issue *types.IssueReference) error {
	if err := issue.Validate(); err != nil {
		return fmt.Errorf("invalid issue: %w", err)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO issues (id, title, description, status, created_at, url)
		VALUES (?, ?, ?, ?, ?, ?)`,
		issue.IssueID, issue.Title, issue.Description, issue.Status, issue.CreatedDate, issue.URL)
	if err != nil {
		return fmt.Errorf("failed to save issue %s: %w", issue.IssueID, err)
	}
	return nil
}

// AllIssues returns every issue in the corpus, ordered by creation date then
// ID so result order is stable across calls.
func (s *Store) AllIssues(ctx context.Context) ([]*types.IssueReference, error) {
	return s.query(ctx, `
		SELECT id, title, description, status, created_at, url
		FROM issues ORDER BY created_at, id`)
}

// OpenIssues returns the issues eligible as duplicate targets.
func (s *Store) OpenIssues(ctx context.Context) ([]*types.IssueReference, error) {
	return s.query(ctx, `
		SELECT id, title, description, status, created_at, url
		FROM issues WHERE lower(status) = 'open' ORDER BY created_at, id`)
}

func (s *Store) query(ctx context.Context, stmt string, args ...any) ([]*types.IssueReference, error) {
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query issues: %w", err)
	}
	defer rows.Close()

	var issues []*types.IssueReference
	for rows.Next() {
		issue := &types.IssueReference{}
		if err := rows.Scan(&issue.IssueID, &issue.Title, &issue.Description,
			&issue.Status, &issue.CreatedDate, &issue.URL); err != nil {
			return nil, fmt.Errorf("failed to scan issue row: %w", err)
		}
		issues = append(issues, issue)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate issues: %w", err)
	}
	return issues, nil
}
