// Package analyzer holds the page-check domain model and the service that
// orchestrates fetching, parsing, and persistence.
package analyzer

import "time"

// Page is a registered site origin to be checked.
type Page struct {
	// ID is assigned by the store on creation.
	ID int64 `json:"id"`
	// Origin is the canonical scheme://host[:port] form, unique per page.
	Origin string `json:"origin"`
	// CreatedAt is set at creation and never updated.
	CreatedAt time.Time `json:"created_at"`
}

// Check is one point-in-time fetch-and-parse result for a page.
type Check struct {
	ID     int64 `json:"id"`
	PageID int64 `json:"page_id"`
	// StatusCode is whatever the transport returned, 4xx/5xx included.
	StatusCode int `json:"status_code"`
	// Title, H1, and Description are empty strings when the document
	// lacked the corresponding element, never null.
	Title       string    `json:"title"`
	H1          string    `json:"h1"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Metadata carries the SEO fields extracted from a fetched document.
type Metadata struct {
	Title       string
	H1          string
	Description string
}

// FetchResult is the raw outcome of a successful page fetch.
type FetchResult struct {
	StatusCode int
	Body       []byte
}
