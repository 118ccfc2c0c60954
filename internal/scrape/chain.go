package scrape

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/prospect-cli/internal/metrics"
)

// Chain tries scrapers in priority order, returning the first success.
type Chain struct {
	PathMatcher *PathMatcher
	scrapers    []Scraper
}

// NewChain creates a Chain with the given path matcher and scrapers.
// Scrapers are tried in order; the first successful result is returned.
func NewChain(matcher *PathMatcher, scrapers ...Scraper) *Chain {
	if matcher == nil {
		matcher = NewPathMatcher(nil)
	}
	return &Chain{
		PathMatcher: matcher,
		scrapers:    scrapers,
	}
}

// Scrapers returns the names of the configured scrapers in order.
func (c *Chain) Scrapers() []string {
	names := make([]string, len(c.scrapers))
	for i, s := range c.scrapers {
		names[i] = s.Name()
	}
	return names
}

// Scrape tries each scraper in order for a single URL.
func (c *Chain) Scrape(ctx context.Context, targetURL string) (*Result, error) {
	if c.PathMatcher.IsExcluded(targetURL) {
		metrics.CrawlPages.WithLabelValues("excluded").Inc()
		return nil, eris.Errorf("scrape: url excluded by path matcher: %s", targetURL)
	}

	var lastErr error
	for _, s := range c.scrapers {
		if !s.Supports(targetURL) {
			continue
		}
		result, err := s.Scrape(ctx, targetURL)
		if err == nil && result != nil {
			metrics.CrawlPages.WithLabelValues("ok").Inc()
			return result, nil
		}
		if err != nil {
			zap.L().Debug("scrape: scraper failed, trying next",
				zap.String("scraper", s.Name()),
				zap.String("url", targetURL),
				zap.Error(err),
			)
			lastErr = err
		}
		if ctx.Err() != nil {
			break
		}
	}

	metrics.CrawlPages.WithLabelValues("failed").Inc()
	if lastErr != nil {
		return nil, eris.Wrap(lastErr, "scrape: all scrapers failed")
	}
	return nil, eris.Errorf("scrape: no suitable scraper for url: %s", targetURL)
}

// ScrapeAll fetches urls in parallel with at most maxConcurrent requests in
// flight. The result is aligned with urls; failed or excluded URLs leave a
// nil entry.
func (c *Chain) ScrapeAll(ctx context.Context, urls []string, maxConcurrent int) []*Result {
	results := make([]*Result, len(urls))
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrent)
	for i, u := range urls {
		g.Go(func() error {
			result, err := c.Scrape(gCtx, u)
			if err != nil {
				zap.L().Debug("scrape: chain failed for url", zap.String("url", u), zap.Error(err))
				return nil
			}
			results[i] = result
			return nil
		})
	}
	_ = g.Wait()

	return results
}
