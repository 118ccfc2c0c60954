package scrape

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/resilience"
	"github.com/sells-group/prospect-cli/pkg/jina"
)

// challengeSignatures mark reader output that is an interstitial rather
// than the page itself.
var challengeSignatures = []string{
	"checking your browser",
	"enable javascript",
	"please enable cookies",
	"access denied",
	"403 forbidden",
	"just a moment",
	"cloudflare",
	"attention required",
}

// JinaAdapter wraps a Jina Reader client as a Scraper. Three consecutive
// failures open its circuit for a minute, during which the chain skips it.
type JinaAdapter struct {
	client  jina.Client
	breaker *resilience.CircuitBreaker
}

// NewJinaAdapter creates a JinaAdapter from a Jina client.
func NewJinaAdapter(client jina.Client) *JinaAdapter {
	return &JinaAdapter{
		client:  client,
		breaker: resilience.NewCircuitBreaker("jina_reader", 3, time.Minute),
	}
}

// Name identifies the scraper in logs and results.
func (j *JinaAdapter) Name() string { return "jina" }

// Supports returns true unless the circuit is open.
func (j *JinaAdapter) Supports(_ string) bool {
	return j.breaker.State() != resilience.CircuitOpen
}

// Scrape fetches a URL via Jina Reader and rejects unusable content.
func (j *JinaAdapter) Scrape(ctx context.Context, targetURL string) (*Result, error) {
	resp, err := resilience.ExecuteVal(ctx, j.breaker, func(ctx context.Context) (*jina.ReadResponse, error) {
		resp, err := j.client.Read(ctx, targetURL)
		if err != nil {
			return nil, err
		}
		if needsFallback(resp) {
			return nil, eris.New("jina: response needs fallback")
		}
		return resp, nil
	})
	if err != nil {
		return nil, eris.Wrap(err, "jina: scrape")
	}

	pageURL := resp.Data.URL
	if pageURL == "" {
		pageURL = targetURL
	}
	return &Result{
		Page: model.CrawledPage{
			URL:        pageURL,
			Title:      resp.Data.Title,
			Markdown:   resp.Data.Content,
			Links:      resp.Data.Links,
			StatusCode: 200,
		},
		Source: j.Name(),
	}, nil
}

// needsFallback reports whether a reader response is empty, an error, or
// a short challenge page.
func needsFallback(resp *jina.ReadResponse) bool {
	if resp == nil {
		return true
	}
	if resp.Code != 0 && resp.Code != 200 {
		return true
	}

	content := strings.TrimSpace(resp.Data.Content)
	if len(content) < 100 {
		return true
	}

	lower := strings.ToLower(content)
	for _, sig := range challengeSignatures {
		if strings.Contains(lower, sig) && len(content) < 1000 {
			return true
		}
	}
	return false
}
