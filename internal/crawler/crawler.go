// Package crawler enriches a company from its website: the main page plus
// its about and careers pages.
package crawler

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/cache"
	"github.com/sells-group/prospect-cli/internal/config"
	"github.com/sells-group/prospect-cli/internal/metrics"
	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/scrape"
)

// FailedFitEstimate is reported when the main page cannot be fetched.
const FailedFitEstimate = 30

// Crawler fetches and interprets company websites.
type Crawler struct {
	chain         *scrape.Chain
	cache         cache.Cache
	timeout       time.Duration
	maxConcurrent int
	cacheTTL      time.Duration
	now           func() time.Time
}

// New creates a Crawler. A nil cache disables caching.
func New(chain *scrape.Chain, c cache.Cache, cfg config.CrawlConfig) *Crawler {
	if c == nil {
		c = cache.Noop{}
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Crawler{
		chain:         chain,
		cache:         c,
		timeout:       timeout,
		maxConcurrent: max(1, cfg.MaxConcurrent),
		cacheTTL:      time.Duration(cfg.CacheTTLSecs) * time.Second,
		now:           time.Now,
	}
}

// NormalizeURL parses a crawl target, assuming https when the scheme is
// missing.
func NormalizeURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, eris.New("crawler: empty url")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, eris.Wrap(err, "crawler: parse url")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, eris.Errorf("crawler: unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, eris.Errorf("crawler: url has no host: %s", raw)
	}
	if u.Path == "" {
		u.Path = "/"
	}
	return u, nil
}

// CacheKey identifies a crawl by domain and the options that change its
// result.
func CacheKey(domain string, opts model.CrawlOptions) string {
	return fmt.Sprintf("crawl:%s:%d:%t:%t:%t",
		domain, opts.MaxPages, opts.ExtractContacts, opts.IncludeAbout, opts.IncludeCareers)
}

// Crawl fetches the site in req and extracts what it can. Fetch failures
// never surface as errors: a site whose main page cannot be fetched yields
// an empty profile with the failed-fetch estimate.
func (c *Crawler) Crawl(ctx context.Context, req model.CrawlRequest) *model.CrawlResponse {
	start := c.now()
	opts := req.Options()
	log := zap.L().With(zap.String("url", opts.URL), zap.Int("max_pages", opts.MaxPages))

	resp := &model.CrawlResponse{
		Company:  model.CompanyInfo{Domain: opts.URL, Technologies: []string{}},
		Contacts: []model.ContactInfo{},
	}

	target, err := NormalizeURL(opts.URL)
	if err != nil {
		log.Error("crawler: invalid url", zap.Error(err))
		resp.FitScoreEstimate = FailedFitEstimate
		resp.CrawlTimeSeconds = c.elapsed(start)
		return resp
	}
	domain := strings.TrimPrefix(target.Host, "www.")
	resp.Company.Domain = domain
	key := CacheKey(domain, opts)

	var cached model.CrawlResponse
	if found, err := c.cache.Get(ctx, key, &cached); err != nil {
		log.Warn("crawler: cache lookup failed", zap.Error(err))
	} else if found {
		metrics.CrawlCacheHits.Inc()
		log.Info("crawler: cache hit", zap.String("key", key))
		cached.CrawlTimeSeconds = c.elapsed(start)
		return &cached
	}

	log.Info("crawler: starting website crawl")

	mainCtx, cancel := context.WithTimeout(ctx, c.timeout)
	main, err := c.chain.Scrape(mainCtx, target.String())
	cancel()
	if err != nil {
		log.Error("crawler: fetch main page failed", zap.Error(err))
		resp.FitScoreEstimate = FailedFitEstimate
		resp.CrawlTimeSeconds = c.elapsed(start)
		return resp
	}

	pages := 1
	allText := main.Page.Markdown
	info := extractCompanyInfo(main.Page, domain)
	var contacts []model.ContactInfo

	if opts.MaxPages > 1 {
		links := priorityLinks(main.Page.Links, target, opts.IncludeAbout, opts.IncludeCareers)
		if len(links) > opts.MaxPages-1 {
			links = links[:opts.MaxPages-1]
		}

		// Budget one timeout per wave of concurrent fetches.
		waves := (len(links) + c.maxConcurrent - 1) / c.maxConcurrent
		subCtx, cancel := context.WithTimeout(ctx, time.Duration(max(1, waves))*c.timeout)
		results := c.chain.ScrapeAll(subCtx, links, c.maxConcurrent)
		cancel()

		for i, r := range results {
			if r == nil {
				log.Debug("crawler: sub-page failed", zap.String("link", links[i]))
				continue
			}
			pages++
			md := r.Page.Markdown
			if md == "" {
				continue
			}
			allText += "\n\n" + md

			if isCareersLink(links[i]) {
				info.HasCareersPage = true
				if detectHiring(md) {
					info.IsHiring = true
				}
			}
			if opts.ExtractContacts && isAboutLink(links[i]) {
				contacts = append(contacts, extractContacts(md)...)
			}
		}
	}

	if opts.ExtractContacts && len(contacts) == 0 {
		contacts = extractContacts(allText)
	}
	enrichCompanyInfo(&info, allText)

	if len(contacts) > maxContacts {
		contacts = contacts[:maxContacts]
	}
	if contacts != nil {
		resp.Contacts = contacts
	}
	resp.Company = info
	resp.PagesCrawled = pages
	resp.FitScoreEstimate = estimateFit(info)
	resp.CrawlTimeSeconds = c.elapsed(start)

	if c.cacheTTL > 0 {
		if err := c.cache.Set(ctx, key, resp, c.cacheTTL); err != nil {
			log.Warn("crawler: cache store failed", zap.Error(err))
		}
	}

	log.Info("crawler: crawl completed",
		zap.Int("pages_crawled", pages),
		zap.Int("contacts_found", len(resp.Contacts)),
		zap.Float64("crawl_time", resp.CrawlTimeSeconds),
	)
	return resp
}

func (c *Crawler) elapsed(start time.Time) float64 {
	return math.Round(c.now().Sub(start).Seconds()*100) / 100
}
