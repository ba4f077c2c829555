// Package parser extracts SEO metadata from HTML documents using goquery.
package parser

import (
	"bytes"

	"github.com/PuerkitoBio/goquery"

	"github.com/user/page-analyzer/internal/analyzer"
)

// GoqueryParser implements analyzer.Parser with a best-effort DOM walk.
// Malformed markup never fails the parse; missing elements yield empty
// strings.
type GoqueryParser struct{}

// New constructs a GoqueryParser.
func New() *GoqueryParser {
	return &GoqueryParser{}
}

// Parse extracts the document title, the first h1, and the content of the
// first meta[name=description] element.
func (GoqueryParser) Parse(body []byte) analyzer.Metadata {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		// The underlying html parser repairs broken markup rather than
		// failing; an error here means the reader broke, which cannot
		// happen for an in-memory buffer.
		return analyzer.Metadata{}
	}
	meta := analyzer.Metadata{
		Title: doc.Find("title").First().Text(),
		H1:    doc.Find("h1").First().Text(),
	}
	if desc, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok {
		meta.Description = desc
	}
	return meta
}
