// Package search finds candidate companies for a set of criteria across
// Google Custom Search, Google Places, Jina Search and website crawls.
package search

import (
	"context"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/prospect-cli/internal/config"
	"github.com/sells-group/prospect-cli/internal/criteria"
	"github.com/sells-group/prospect-cli/internal/metrics"
	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/resilience"
	"github.com/sells-group/prospect-cli/pkg/google"
	"github.com/sells-group/prospect-cli/pkg/jina"
)

const (
	defaultMaxResults = 50
	defaultTimeout    = 30 * time.Second
)

// Crawler enriches search results by crawling their websites.
type Crawler interface {
	Crawl(ctx context.Context, req model.CrawlRequest) *model.CrawlResponse
}

// GoogleFactory builds a Google client for a set of credentials.
type GoogleFactory func(creds google.Credentials) google.Client

// JinaFactory builds a Jina client for an API key.
type JinaFactory func(apiKey string) jina.Client

// Deps are the collaborators a Service searches with. Per-request
// credentials are applied by calling the factories again.
type Deps struct {
	NewGoogle GoogleFactory
	NewJina   JinaFactory
	Google    google.Credentials
	JinaKey   string
	Crawler   Crawler
}

// Service runs searches across the requested sources.
type Service struct {
	deps       Deps
	limiter    *rate.Limiter
	retry      resilience.RetryConfig
	timeout    time.Duration
	maxResults int
}

// New creates a Service. A non-positive rate limit disables limiting.
func New(deps Deps, cfg config.SearchConfig) *Service {
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxResults := cfg.DefaultMaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	return &Service{
		deps:       deps,
		limiter:    rate.NewLimiter(limit, 1),
		retry:      resilience.WithAttempts("search", cfg.Retries),
		timeout:    timeout,
		maxResults: maxResults,
	}
}

// request is a SearchRequest with defaults and credentials resolved.
type request struct {
	criteria   model.Criteria
	queries    []string
	sources    []string
	maxResults int
	google     google.Credentials
	jinaKey    string
}

// Search queries every requested source, drops excluded and duplicate
// candidates and truncates to the requested maximum. Source failures are
// logged and skipped; only a cancelled context is an error.
func (s *Service) Search(ctx context.Context, req model.SearchRequest) (*model.SearchResponse, error) {
	r := s.resolve(req)
	log := zap.L().With(zap.Strings("sources", r.sources), zap.Int("max_results", r.maxResults))
	log.Info("search: searching companies", zap.Int("queries", len(r.queries)))

	var (
		all         []model.SearchResult
		sourcesUsed = []string{}
	)
	collect := func(source string, results []model.SearchResult) {
		results = dropExcluded(results, r.criteria.ExcludeKeywords)
		metrics.SearchResults.WithLabelValues(source).Add(float64(len(results)))
		if len(results) > 0 {
			all = append(all, results...)
			sourcesUsed = append(sourcesUsed, source)
		}
	}

	if slices.Contains(r.sources, model.SourceGoogleSearch) {
		collect(model.SourceGoogleSearch, s.googleSearch(ctx, r))
	}
	if slices.Contains(r.sources, model.SourceGoogleMaps) {
		collect(model.SourceGoogleMaps, s.googleMaps(ctx, r))
	}
	if slices.Contains(r.sources, model.SourceJinaSearch) {
		collect(model.SourceJinaSearch, s.jinaSearch(ctx, r))
	}
	if slices.Contains(r.sources, model.SourceWebsiteCrawl) {
		if s.enrich(ctx, all) > 0 {
			sourcesUsed = append(sourcesUsed, model.SourceWebsiteCrawl)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	unique := dedupe(all)
	results := unique
	if len(results) > r.maxResults {
		results = results[:r.maxResults]
	}

	log.Info("search: completed", zap.Int("found", len(all)), zap.Int("unique", len(unique)))

	return &model.SearchResponse{
		Results:           results,
		Total:             len(unique),
		SourcesUsed:       sourcesUsed,
		SearchQueriesUsed: r.queries,
	}, nil
}

func (s *Service) resolve(req model.SearchRequest) request {
	r := request{
		criteria:   criteria.Normalize(req.Criteria),
		sources:    req.Sources,
		maxResults: s.maxResults,
		google:     s.deps.Google,
		jinaKey:    s.deps.JinaKey,
	}
	if len(r.sources) == 0 {
		r.sources = []string{model.SourceGoogleSearch}
	}
	if req.MaxResults != nil && *req.MaxResults > 0 {
		r.maxResults = *req.MaxResults
	}
	r.queries = Queries(r.criteria)

	if c := req.Credentials; c != nil {
		override(&r.google.SearchKey, c.GoogleAPIKey)
		override(&r.google.SearchCX, c.GoogleCX)
		override(&r.google.MapsKey, c.GoogleMapsAPIKey)
		override(&r.jinaKey, c.JinaAPIKey)
	}

	for _, src := range r.sources {
		if !slices.Contains(Sources, src) {
			zap.L().Warn("search: ignoring unknown source", zap.String("source", src))
		}
	}
	return r
}

// Sources lists the supported search sources.
var Sources = []string{
	model.SourceGoogleSearch,
	model.SourceGoogleMaps,
	model.SourceJinaSearch,
	model.SourceWebsiteCrawl,
}

// Queries returns the search queries for c: its own search queries, or one
// generated from the first two industries and the first location.
func Queries(c model.Criteria) []string {
	if len(c.SearchQueries) > 0 {
		return c.SearchQueries
	}
	if len(c.Industries) == 0 {
		return []string{}
	}

	base := strings.Join(c.Industries[:min(2, len(c.Industries))], " ")
	if len(c.Locations) == 0 {
		return []string{base + " companies"}
	}
	loc := ""
	for _, p := range []*string{c.Locations[0].City, c.Locations[0].State, c.Locations[0].Country} {
		if p != nil && *p != "" {
			loc = *p
			break
		}
	}
	return []string{strings.TrimSpace(base + " companies " + loc)}
}

func override(dst *string, v *string) {
	if v != nil && *v != "" {
		*dst = *v
	}
}

// call rate limits and retries one upstream request under the search
// timeout.
func call[T any](ctx context.Context, s *Service, fn func(ctx context.Context) (T, error)) (T, error) {
	return resilience.DoVal(ctx, s.retry, func(ctx context.Context) (T, error) {
		var zero T
		if err := s.limiter.Wait(ctx); err != nil {
			return zero, err
		}
		ctx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()
		return fn(ctx)
	})
}

// dropExcluded removes results whose name or snippet mentions an excluded
// keyword.
func dropExcluded(results []model.SearchResult, exclude []string) []model.SearchResult {
	if len(exclude) == 0 {
		return results
	}
	lowered := make([]string, 0, len(exclude))
	for _, kw := range exclude {
		if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
			lowered = append(lowered, kw)
		}
	}

	return slices.DeleteFunc(results, func(r model.SearchResult) bool {
		text := strings.ToLower(r.CompanyName)
		if r.Snippet != nil {
			text += " " + strings.ToLower(*r.Snippet)
		}
		return slices.ContainsFunc(lowered, func(kw string) bool { return strings.Contains(text, kw) })
	})
}

// dedupe keeps the first result per domain, or per lowercased company name
// when the result has no domain.
func dedupe(results []model.SearchResult) []model.SearchResult {
	out := []model.SearchResult{}
	seen := make(map[string]bool, len(results))
	for _, r := range results {
		key := strings.ToLower(r.CompanyName)
		if r.Domain != nil && *r.Domain != "" {
			key = *r.Domain
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out
}
