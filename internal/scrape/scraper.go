// Package scrape fetches company web pages through an ordered chain of
// scrapers, falling back from direct HTTP to the Jina reader.
package scrape

import (
	"context"

	"github.com/sells-group/prospect-cli/internal/model"
)

// Result holds a scraped page with the scraper that produced it.
type Result struct {
	Page   model.CrawledPage
	Source string // e.g. "local_http", "jina"
}

// Scraper fetches a single URL and returns its content.
type Scraper interface {
	Scrape(ctx context.Context, url string) (*Result, error)
	Name() string
	Supports(url string) bool
}
