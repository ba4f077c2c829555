// Package memory provides an in-memory implementation for development/testing.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/user/page-analyzer/internal/analyzer"
)

// Store implements analyzer.PageRepository and analyzer.CheckRepository with
// maps guarded by a mutex. IDs are assigned monotonically, mirroring the
// serial columns of the Postgres schema.
type Store struct {
	mu          sync.RWMutex
	clock       analyzer.Clock
	pages       map[int64]analyzer.Page
	checks      map[int64][]analyzer.Check
	nextPageID  int64
	nextCheckID int64
}

// NewStore constructs a Store using the given clock for created_at stamps.
func NewStore(clock analyzer.Clock) *Store {
	return &Store{
		clock:  clock,
		pages:  make(map[int64]analyzer.Page),
		checks: make(map[int64][]analyzer.Check),
	}
}

// Exists reports whether a page with the origin is stored.
func (s *Store) Exists(_ context.Context, origin string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, page := range s.pages {
		if page.Origin == origin {
			return true, nil
		}
	}
	return false, nil
}

// Create stores a new page, rejecting duplicate origins with ErrConflict.
func (s *Store) Create(_ context.Context, origin string) (analyzer.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, page := range s.pages {
		if page.Origin == origin {
			return analyzer.Page{}, fmt.Errorf("%w: %s", analyzer.ErrConflict, origin)
		}
	}
	s.nextPageID++
	page := analyzer.Page{
		ID:        s.nextPageID,
		Origin:    origin,
		CreatedAt: s.clock.Now(),
	}
	s.pages[page.ID] = page
	return page, nil
}

// Find fetches a page by id.
func (s *Store) Find(_ context.Context, id int64) (analyzer.Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	page, ok := s.pages[id]
	if !ok {
		return analyzer.Page{}, analyzer.ErrNotFound
	}
	return page, nil
}

// List returns all pages ordered by id ascending.
func (s *Store) List(_ context.Context) ([]analyzer.Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pages := make([]analyzer.Page, 0, len(s.pages))
	for _, page := range s.pages {
		pages = append(pages, page)
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].ID < pages[j].ID })
	return pages, nil
}

// RemoveAll wipes every page and every check.
func (s *Store) RemoveAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages = make(map[int64]analyzer.Page)
	s.checks = make(map[int64][]analyzer.Check)
	return nil
}

// Save appends a check for its page, assigning id and created_at.
func (s *Store) Save(_ context.Context, check analyzer.Check) (analyzer.Check, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pages[check.PageID]; !ok {
		return analyzer.Check{}, fmt.Errorf("save check: %w", analyzer.ErrNotFound)
	}
	s.nextCheckID++
	check.ID = s.nextCheckID
	check.CreatedAt = s.clock.Now()
	s.checks[check.PageID] = append(s.checks[check.PageID], check)
	return check, nil
}

// ListByPage returns the page's checks newest-first.
func (s *Store) ListByPage(_ context.Context, pageID int64) ([]analyzer.Check, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored := s.checks[pageID]
	out := make([]analyzer.Check, len(stored))
	for i, check := range stored {
		out[len(stored)-1-i] = check
	}
	return out, nil
}

// LatestPerPage maps each page with at least one check to its newest check.
func (s *Store) LatestPerPage(_ context.Context) (map[int64]analyzer.Check, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	latest := make(map[int64]analyzer.Check, len(s.checks))
	for pageID, stored := range s.checks {
		if len(stored) == 0 {
			continue
		}
		latest[pageID] = stored[len(stored)-1]
	}
	return latest, nil
}
