package search

import (
	"context"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/pkg/google"
	"github.com/sells-group/prospect-cli/pkg/jina"
)

const (
	googleConfidence = 0.6
	mapsConfidence   = 0.5
	jinaConfidence   = 0.5

	maxNameRunes    = 100
	maxSnippetRunes = 300

	enrichLimit    = 5
	enrichMaxPages = 3
)

// skipDomains are directories and social sites that never represent the
// company itself.
var skipDomains = []string{
	"linkedin.com", "facebook.com", "twitter.com", "youtube.com",
	"instagram.com", "wikipedia.org", "yelp.com", "glassdoor.com",
	"indeed.com", "crunchbase.com", "bloomberg.com", "forbes.com",
}

// titleCuts end a company name inside a page title, applied in order.
var titleCuts = []string{
	" | ", " - ", " : ", " – ",
	" Home", " Official", " Website",
	" Inc", " LLC", " Ltd", " Corp",
}

func (s *Service) googleSearch(ctx context.Context, r request) []model.SearchResult {
	log := zap.L().With(zap.String("source", model.SourceGoogleSearch))
	if !r.google.CanSearch() || s.deps.NewGoogle == nil {
		log.Warn("search: google custom search not configured, skipping")
		return nil
	}
	client := s.deps.NewGoogle(r.google)

	var results []model.SearchResult
	seen := make(map[string]bool)
	for _, q := range r.queries {
		if len(results) >= r.maxResults || ctx.Err() != nil {
			break
		}
		num := min(google.MaxResultsPerQuery, r.maxResults-len(results))
		resp, err := call(ctx, s, func(ctx context.Context) (*google.SearchResponse, error) {
			return client.Search(ctx, q, num)
		})
		if err != nil {
			log.Error("search: google query failed", zap.String("query", q), zap.Error(err))
			continue
		}
		for i, item := range resp.Items {
			res, ok := webResult(model.SourceGoogleSearch, item.Title, item.Link, item.Snippet, googleConfidence)
			if !ok || seen[*res.Domain] {
				continue
			}
			seen[*res.Domain] = true
			res.RawData = map[string]any{"query": q, "position": i + 1}
			results = append(results, res)
		}
	}

	log.Info("search: google search completed", zap.Int("results", len(results)))
	return results
}

func (s *Service) googleMaps(ctx context.Context, r request) []model.SearchResult {
	log := zap.L().With(zap.String("source", model.SourceGoogleMaps))
	if !r.google.CanSearchMaps() || s.deps.NewGoogle == nil {
		log.Warn("search: google maps not configured, skipping")
		return nil
	}
	client := s.deps.NewGoogle(r.google)

	query := MapsQuery(r.criteria)
	resp, err := call(ctx, s, func(ctx context.Context) (*google.TextSearchResponse, error) {
		return client.TextSearch(ctx, query)
	})
	if err != nil {
		log.Error("search: google maps query failed", zap.String("query", query), zap.Error(err))
		return nil
	}

	limit := r.maxResults / 2
	var results []model.SearchResult
	for _, place := range resp.Results {
		if len(results) >= limit {
			break
		}
		if place.Name == "" {
			continue
		}
		results = append(results, placeResult(place))
	}

	log.Info("search: maps search completed", zap.String("query", query), zap.Int("results", len(results)))
	return results
}

func (s *Service) jinaSearch(ctx context.Context, r request) []model.SearchResult {
	log := zap.L().With(zap.String("source", model.SourceJinaSearch))
	if r.jinaKey == "" || s.deps.NewJina == nil {
		log.Warn("search: jina search not configured, skipping")
		return nil
	}
	client := s.deps.NewJina(r.jinaKey)

	var results []model.SearchResult
	seen := make(map[string]bool)
	for _, q := range r.queries {
		if len(results) >= r.maxResults || ctx.Err() != nil {
			break
		}
		count := min(google.MaxResultsPerQuery, r.maxResults-len(results))
		resp, err := call(ctx, s, func(ctx context.Context) (*jina.SearchResponse, error) {
			return client.Search(ctx, q, jina.WithCount(count))
		})
		if err != nil {
			log.Error("search: jina query failed", zap.String("query", q), zap.Error(err))
			continue
		}
		for i, item := range resp.Data {
			snippet := item.Description
			if snippet == "" {
				snippet = item.Content
			}
			res, ok := webResult(model.SourceJinaSearch, item.Title, item.URL, snippet, jinaConfidence)
			if !ok || seen[*res.Domain] {
				continue
			}
			seen[*res.Domain] = true
			res.RawData = map[string]any{"query": q, "position": i + 1}
			results = append(results, res)
		}
	}

	log.Info("search: jina search completed", zap.Int("results", len(results)))
	return results
}

// enrich crawls the first results that have a URL and copies the crawled
// industry and location onto them. It returns the number of successful
// crawls.
func (s *Service) enrich(ctx context.Context, results []model.SearchResult) int {
	if s.deps.Crawler == nil {
		zap.L().Warn("search: website crawl not configured, skipping")
		return 0
	}

	var targets []int
	for i := range results {
		if len(targets) == enrichLimit {
			break
		}
		if results[i].URL != nil && *results[i].URL != "" {
			targets = append(targets, i)
		}
	}

	ok := make([]bool, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichLimit)
	for n, idx := range targets {
		g.Go(func() error {
			noContacts := false
			pages := enrichMaxPages
			resp := s.deps.Crawler.Crawl(gctx, model.CrawlRequest{
				URL:             *results[idx].URL,
				ExtractContacts: &noContacts,
				MaxPages:        &pages,
			})
			if resp == nil || resp.PagesCrawled == 0 {
				zap.L().Warn("search: crawl failed for result", zap.String("url", *results[idx].URL))
				return nil
			}
			if resp.Company.Industry != nil {
				results[idx].Industry = resp.Company.Industry
			}
			if resp.Company.Location != nil {
				results[idx].Location = resp.Company.Location
			}
			ok[n] = true
			return nil
		})
	}
	_ = g.Wait()

	succeeded := 0
	for _, v := range ok {
		if v {
			succeeded++
		}
	}
	return succeeded
}

// MapsQuery builds the Places text query: the industries (or "companies")
// followed by " in <city, state, country>" of the first location.
func MapsQuery(c model.Criteria) string {
	query := strings.Join(c.Industries, " ")
	if query == "" {
		query = "companies"
	}
	if len(c.Locations) == 0 {
		return query
	}

	var parts []string
	loc := c.Locations[0]
	for _, p := range []*string{loc.City, loc.State, loc.Country} {
		if p != nil && *p != "" {
			parts = append(parts, *p)
		}
	}
	if len(parts) == 0 {
		return query
	}
	return query + " in " + strings.Join(parts, ", ")
}

// webResult converts a web search hit into a candidate. It rejects hits
// without a usable link and hits on directory or social sites.
func webResult(source, title, link, snippet string, confidence float64) (model.SearchResult, bool) {
	if link == "" {
		return model.SearchResult{}, false
	}
	domain := extractDomain(link)
	if domain == "" || isSkippedDomain(domain) {
		return model.SearchResult{}, false
	}

	res := model.SearchResult{
		Source:      source,
		CompanyName: CompanyName(title),
		Domain:      model.StringPtr(domain),
		URL:         model.StringPtr(link),
		Confidence:  confidence,
	}
	if snippet != "" {
		res.Snippet = model.StringPtr(truncate(snippet, maxSnippetRunes))
	}
	return res, true
}

func placeResult(place google.Place) model.SearchResult {
	res := model.SearchResult{
		Source:      model.SourceGoogleMaps,
		CompanyName: place.Name,
		Location:    addressLocation(place.FormattedAddress),
		Confidence:  mapsConfidence,
	}
	if place.FormattedAddress != "" {
		res.Snippet = model.StringPtr(place.FormattedAddress)
	}

	types := place.Types
	if types == nil {
		types = []string{}
	}
	raw := map[string]any{"place_id": place.PlaceID, "rating": nil, "user_ratings_total": nil, "types": types}
	if place.Rating != nil {
		raw["rating"] = *place.Rating
	}
	if place.UserRatingsTotal != nil {
		raw["user_ratings_total"] = *place.UserRatingsTotal
	}
	res.RawData = raw
	return res
}

// addressLocation splits a formatted address: with three or more parts the
// first is the city, the second to last the state and the last the
// country; with two parts they are state and country.
func addressLocation(address string) *model.LocationCriteria {
	parts := strings.Split(address, ", ")
	switch {
	case address == "" || len(parts) < 2:
		return nil
	case len(parts) == 2:
		return &model.LocationCriteria{
			State:   model.StringPtr(parts[0]),
			Country: model.StringPtr(parts[1]),
		}
	default:
		return &model.LocationCriteria{
			City:    model.StringPtr(parts[0]),
			State:   model.StringPtr(parts[len(parts)-2]),
			Country: model.StringPtr(parts[len(parts)-1]),
		}
	}
}

// CompanyName derives a company name from a page title by cutting at the
// first separator or corporate suffix.
func CompanyName(title string) string {
	name := title
	for _, cut := range titleCuts {
		name, _, _ = strings.Cut(name, cut)
	}
	return truncate(strings.TrimSpace(name), maxNameRunes)
}

func extractDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

func isSkippedDomain(domain string) bool {
	for _, skip := range skipDomains {
		if domain == skip || strings.HasSuffix(domain, "."+skip) {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
