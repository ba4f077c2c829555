package analyzer

import (
	"context"
	"time"
)

// PageRepository persists registered pages.
type PageRepository interface {
	// Exists reports whether a page with the exact origin string is stored.
	Exists(ctx context.Context, origin string) (bool, error)
	// Create inserts a page and returns it with id and created_at assigned.
	// A duplicate origin yields ErrConflict.
	Create(ctx context.Context, origin string) (Page, error)
	// Find loads one page or returns ErrNotFound.
	Find(ctx context.Context, id int64) (Page, error)
	// List returns all pages ordered by id ascending.
	List(ctx context.Context) ([]Page, error)
	// RemoveAll deletes every page and, transitively, every check.
	RemoveAll(ctx context.Context) error
}

// CheckRepository persists check results.
type CheckRepository interface {
	// Save inserts a check and returns it with id and created_at assigned
	// by the store, so timestamps are monotonic with storage order.
	Save(ctx context.Context, check Check) (Check, error)
	// ListByPage returns the page's checks newest-first (id descending).
	ListByPage(ctx context.Context, pageID int64) ([]Check, error)
	// LatestPerPage returns, for every page with at least one check, the
	// check with the greatest id. Pages without checks have no entry.
	LatestPerPage(ctx context.Context) (map[int64]Check, error)
}

// Fetcher performs a single HTTP GET against a page origin.
type Fetcher interface {
	Fetch(ctx context.Context, origin string) (FetchResult, error)
}

// Parser extracts SEO metadata from an HTML document.
type Parser interface {
	Parse(body []byte) Metadata
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}
