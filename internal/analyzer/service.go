package analyzer

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Service orchestrates page registration and the fetch-parse-persist check
// pipeline. All dependencies are injected so tests can substitute doubles.
type Service struct {
	pages   PageRepository
	checks  CheckRepository
	fetcher Fetcher
	parser  Parser
	logger  *zap.Logger
}

// NewService constructs a Service.
func NewService(
	pages PageRepository,
	checks CheckRepository,
	fetcher Fetcher,
	parser Parser,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		pages:   pages,
		checks:  checks,
		fetcher: fetcher,
		parser:  parser,
		logger:  logger,
	}
}

// RegisterPage normalizes raw input and stores a new page. Duplicate origins
// are rejected with ErrConflict before the insert; a concurrent registration
// that slips past the pre-check is still mapped to ErrConflict by the store's
// unique constraint.
func (s *Service) RegisterPage(ctx context.Context, raw string) (Page, error) {
	origin, err := NormalizeOrigin(raw)
	if err != nil {
		return Page{}, err
	}
	exists, err := s.pages.Exists(ctx, origin)
	if err != nil {
		return Page{}, fmt.Errorf("check page existence: %w", err)
	}
	if exists {
		return Page{}, fmt.Errorf("%w: %s", ErrConflict, origin)
	}
	page, err := s.pages.Create(ctx, origin)
	if err != nil {
		return Page{}, err
	}
	s.logger.Info("page registered",
		zap.Int64("page_id", page.ID),
		zap.String("origin", page.Origin),
	)
	return page, nil
}

// RunCheck fetches the page's origin, extracts SEO metadata from the body,
// and persists the result. A transport failure yields a FetchError and
// writes nothing. Any returned HTTP status, error statuses included, is a
// successful check carrying that code.
func (s *Service) RunCheck(ctx context.Context, pageID int64) (Check, error) {
	page, err := s.pages.Find(ctx, pageID)
	if err != nil {
		return Check{}, err
	}
	result, err := s.fetcher.Fetch(ctx, page.Origin)
	if err != nil {
		s.logger.Warn("page fetch failed",
			zap.Int64("page_id", page.ID),
			zap.String("origin", page.Origin),
			zap.Error(err),
		)
		return Check{}, &FetchError{Origin: page.Origin, Err: err}
	}
	meta := s.parser.Parse(result.Body)
	check := Check{
		PageID:      page.ID,
		StatusCode:  result.StatusCode,
		Title:       meta.Title,
		H1:          meta.H1,
		Description: meta.Description,
	}
	// Once the fetch has succeeded the row must land even if the caller
	// goes away, so the insert runs detached from request cancellation.
	saved, err := s.checks.Save(context.WithoutCancel(ctx), check)
	if err != nil {
		return Check{}, fmt.Errorf("save check: %w", err)
	}
	s.logger.Info("check completed",
		zap.Int64("page_id", page.ID),
		zap.Int64("check_id", saved.ID),
		zap.Int("status_code", saved.StatusCode),
	)
	return saved, nil
}

// PageSummary joins a page with its most recent check, if any, for listings.
type PageSummary struct {
	Page
	LastStatusCode *int       `json:"last_status_code,omitempty"`
	LastCheckedAt  *time.Time `json:"last_checked_at,omitempty"`
}

// ListPages returns every registered page with its latest check summary.
// The latest checks come from a single aggregation query, not one lookup
// per page.
func (s *Service) ListPages(ctx context.Context) ([]PageSummary, error) {
	pages, err := s.pages.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	latest, err := s.checks.LatestPerPage(ctx)
	if err != nil {
		return nil, fmt.Errorf("load latest checks: %w", err)
	}
	summaries := make([]PageSummary, 0, len(pages))
	for _, p := range pages {
		summary := PageSummary{Page: p}
		if check, ok := latest[p.ID]; ok {
			code := check.StatusCode
			at := check.CreatedAt
			summary.LastStatusCode = &code
			summary.LastCheckedAt = &at
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// GetPage loads one page together with its checks, newest first.
func (s *Service) GetPage(ctx context.Context, pageID int64) (Page, []Check, error) {
	page, err := s.pages.Find(ctx, pageID)
	if err != nil {
		return Page{}, nil, err
	}
	checks, err := s.checks.ListByPage(ctx, pageID)
	if err != nil {
		return Page{}, nil, fmt.Errorf("list checks: %w", err)
	}
	return page, checks, nil
}

// RemoveAllPages wipes every page and check. Administrative reset only.
func (s *Service) RemoveAllPages(ctx context.Context) error {
	return s.pages.RemoveAll(ctx)
}
