package main

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/cache"
	"github.com/sells-group/prospect-cli/internal/config"
	"github.com/sells-group/prospect-cli/internal/crawler"
	"github.com/sells-group/prospect-cli/internal/parser"
	"github.com/sells-group/prospect-cli/internal/resilience"
	"github.com/sells-group/prospect-cli/internal/scorer"
	"github.com/sells-group/prospect-cli/internal/scrape"
	"github.com/sells-group/prospect-cli/internal/search"
	anthropicpkg "github.com/sells-group/prospect-cli/pkg/anthropic"
	"github.com/sells-group/prospect-cli/pkg/google"
	"github.com/sells-group/prospect-cli/pkg/jina"
)

// newParser builds the prompt parser. Without an Anthropic key every
// prompt goes through the fallback parser.
func newParser(c *config.Config) *parser.Parser {
	var client anthropicpkg.Client
	if c.Anthropic.Key != "" {
		client = anthropicpkg.NewClient(c.Anthropic.Key)
	}
	return parser.New(client, c.Anthropic.Model,
		parser.WithTemperature(c.Anthropic.Temperature),
		parser.WithMaxTokens(c.Anthropic.MaxTokens),
	)
}

func googleFactory(c *config.Config) search.GoogleFactory {
	return func(creds google.Credentials) google.Client {
		return google.NewClient(creds,
			google.WithSearchBaseURL(c.Google.SearchBaseURL),
			google.WithPlacesBaseURL(c.Google.PlacesBaseURL),
		)
	}
}

func jinaFactory(c *config.Config) search.JinaFactory {
	return func(key string) jina.Client {
		return jina.NewClient(key,
			jina.WithBaseURL(c.Jina.BaseURL),
			jina.WithSearchBaseURL(c.Jina.SearchBaseURL),
			jina.WithRetry(resilience.WithAttempts("jina", c.Search.Retries)),
		)
	}
}

// newCrawler builds the scrape chain and crawler. The Jina reader is
// added as a fallback scraper when a key is configured.
func newCrawler(c *config.Config, store cache.Cache) *crawler.Crawler {
	scrapers := []scrape.Scraper{
		scrape.NewLocalScraper(time.Duration(c.Crawl.TimeoutSecs) * time.Second),
	}
	if c.Jina.Key != "" {
		scrapers = append(scrapers, scrape.NewJinaAdapter(jinaFactory(c)(c.Jina.Key)))
	}
	chain := scrape.NewChain(scrape.NewPathMatcher(c.Crawl.ExcludePaths), scrapers...)
	zap.L().Debug("crawler: scrape chain", zap.Strings("scrapers", chain.Scrapers()))
	return crawler.New(chain, store, c.Crawl)
}

func newSearcher(c *config.Config, cr search.Crawler) *search.Service {
	return search.New(search.Deps{
		NewGoogle: googleFactory(c),
		NewJina:   jinaFactory(c),
		Google: google.Credentials{
			SearchKey: c.Google.SearchKey,
			SearchCX:  c.Google.SearchCX,
			MapsKey:   c.Google.MapsKey,
		},
		JinaKey: c.Jina.Key,
		Crawler: cr,
	}, c.Search)
}

func newScorer(c *config.Config) *scorer.Engine {
	return scorer.New(scorer.WithConcurrency(c.Scoring.MaxConcurrency))
}

// toMap round-trips v through JSON to get the loose map form.
func toMap(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, eris.Wrap(err, "encode criteria")
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, eris.Wrap(err, "decode criteria")
	}
	return m, nil
}

// openOutput returns stdout for an empty path, else creates the file.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, eris.Wrap(err, "create output")
	}
	return f, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(v), "encode output")
}
