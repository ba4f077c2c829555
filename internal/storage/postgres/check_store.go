package postgres

import (
	"context"
	"fmt"

	"github.com/user/page-analyzer/internal/analyzer"
)

// CheckStore implements analyzer.CheckRepository on Postgres.
// It assumes a table schema like:
//
//	CREATE TABLE checks (
//		id BIGSERIAL PRIMARY KEY,
//		page_id BIGINT NOT NULL REFERENCES pages (id) ON DELETE CASCADE,
//		status_code INT NOT NULL,
//		title TEXT NOT NULL DEFAULT '',
//		h1 TEXT NOT NULL DEFAULT '',
//		description TEXT NOT NULL DEFAULT '',
//		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
type CheckStore struct {
	pool Pool
}

// NewCheckStore constructs a CheckStore over an existing pool.
func NewCheckStore(pool Pool) (*CheckStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	return &CheckStore{pool: pool}, nil
}

// Save inserts one check row. The database assigns id and created_at so
// timestamps stay monotonic with storage order.
func (s *CheckStore) Save(ctx context.Context, check analyzer.Check) (analyzer.Check, error) {
	err := s.pool.QueryRow(ctx, `
INSERT INTO checks (page_id, status_code, title, h1, description)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, created_at`,
		check.PageID,
		check.StatusCode,
		check.Title,
		check.H1,
		check.Description,
	).Scan(&check.ID, &check.CreatedAt)
	if err != nil {
		return analyzer.Check{}, fmt.Errorf("insert check: %w", err)
	}
	return check, nil
}

// ListByPage returns the page's checks newest-first.
func (s *CheckStore) ListByPage(ctx context.Context, pageID int64) ([]analyzer.Check, error) {
	rows, err := s.pool.Query(ctx, `
SELECT id, page_id, status_code, title, h1, description, created_at
FROM checks
WHERE page_id = $1
ORDER BY id DESC`, pageID)
	if err != nil {
		return nil, fmt.Errorf("list checks: %w", err)
	}
	defer rows.Close()

	var checks []analyzer.Check
	for rows.Next() {
		var check analyzer.Check
		err := rows.Scan(
			&check.ID,
			&check.PageID,
			&check.StatusCode,
			&check.Title,
			&check.H1,
			&check.Description,
			&check.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan check row: %w", err)
		}
		checks = append(checks, check)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate check rows: %w", err)
	}
	return checks, nil
}

// LatestPerPage resolves the most recent check of every page in a single
// set operation. DISTINCT ON keeps the first row per page_id after the
// id-descending sort, so each page maps to its greatest check id.
func (s *CheckStore) LatestPerPage(ctx context.Context) (map[int64]analyzer.Check, error) {
	rows, err := s.pool.Query(ctx, `
SELECT DISTINCT ON (page_id) id, page_id, status_code, title, h1, description, created_at
FROM checks
ORDER BY page_id, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query latest checks: %w", err)
	}
	defer rows.Close()

	latest := make(map[int64]analyzer.Check)
	for rows.Next() {
		var check analyzer.Check
		err := rows.Scan(
			&check.ID,
			&check.PageID,
			&check.StatusCode,
			&check.Title,
			&check.H1,
			&check.Description,
			&check.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan latest check row: %w", err)
		}
		latest[check.PageID] = check
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate latest check rows: %w", err)
	}
	return latest, nil
}
