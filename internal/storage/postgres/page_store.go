package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/user/page-analyzer/internal/analyzer"
)

// uniqueViolation is the Postgres error code for a unique constraint breach.
const uniqueViolation = "23505"

// PageStore implements analyzer.PageRepository on Postgres.
// It assumes a table schema like:
//
//	CREATE TABLE pages (
//		id BIGSERIAL PRIMARY KEY,
//		origin TEXT NOT NULL UNIQUE,
//		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
type PageStore struct {
	pool Pool
}

// NewPageStore constructs a PageStore over an existing pool.
func NewPageStore(pool Pool) (*PageStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	return &PageStore{pool: pool}, nil
}

// Exists reports whether a page with the exact origin string is stored.
func (s *PageStore) Exists(ctx context.Context, origin string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM pages WHERE origin = $1)`, origin,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check page existence: %w", err)
	}
	return exists, nil
}

// Create inserts a page and returns it with the id and created_at assigned
// by the database. The unique constraint on origin backstops the caller's
// pre-check; a violation surfaces as analyzer.ErrConflict.
func (s *PageStore) Create(ctx context.Context, origin string) (analyzer.Page, error) {
	page := analyzer.Page{Origin: origin}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO pages (origin) VALUES ($1) RETURNING id, created_at`, origin,
	).Scan(&page.ID, &page.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return analyzer.Page{}, fmt.Errorf("%w: %s", analyzer.ErrConflict, origin)
		}
		return analyzer.Page{}, fmt.Errorf("insert page: %w", err)
	}
	return page, nil
}

// Find loads one page or returns analyzer.ErrNotFound.
func (s *PageStore) Find(ctx context.Context, id int64) (analyzer.Page, error) {
	var page analyzer.Page
	err := s.pool.QueryRow(ctx,
		`SELECT id, origin, created_at FROM pages WHERE id = $1`, id,
	).Scan(&page.ID, &page.Origin, &page.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return analyzer.Page{}, analyzer.ErrNotFound
		}
		return analyzer.Page{}, fmt.Errorf("find page: %w", err)
	}
	return page, nil
}

// List returns all pages ordered by id ascending.
func (s *PageStore) List(ctx context.Context) ([]analyzer.Page, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, origin, created_at FROM pages ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	defer rows.Close()

	var pages []analyzer.Page
	for rows.Next() {
		var page analyzer.Page
		if err := rows.Scan(&page.ID, &page.Origin, &page.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan page row: %w", err)
		}
		pages = append(pages, page)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate page rows: %w", err)
	}
	return pages, nil
}

// RemoveAll deletes every page; checks go with them via ON DELETE CASCADE.
func (s *PageStore) RemoveAll(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM pages`); err != nil {
		return fmt.Errorf("remove all pages: %w", err)
	}
	return nil
}
