// Package jina provides a client for the Jina AI reader and search API.
package jina

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/prospect-cli/internal/resilience"
)

// Client defines the Jina AI operations.
type Client interface {
	// Read fetches a URL via Jina AI Reader and returns the markdown content.
	Read(ctx context.Context, targetURL string) (*ReadResponse, error)
	// Search performs a web search via Jina AI Search.
	Search(ctx context.Context, query string, opts ...SearchOption) (*SearchResponse, error)
}

// ReadResponse is the parsed Jina API response.
type ReadResponse struct {
	Code int      `json:"code"`
	Data ReadData `json:"data"`
}

// ReadData holds the content from Jina.
type ReadData struct {
	Title   string    `json:"title"`
	URL     string    `json:"url"`
	Content string    `json:"content"`
	Links   []string  `json:"-"`
	Usage   ReadUsage `json:"usage"`
}

// ReadUsage tracks token consumption.
type ReadUsage struct {
	Tokens int `json:"tokens"`
}

// SearchResponse is the parsed Jina Search API response.
type SearchResponse struct {
	Code int            `json:"code"`
	Data []SearchResult `json:"data"`
}

// SearchResult represents a single search result.
type SearchResult struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Content     string `json:"content"`
	Description string `json:"description"`
}

// SearchOption configures a search request.
type SearchOption func(*searchOpts)

type searchOpts struct {
	siteFilter string
	count      int
}

// WithSiteFilter restricts search results to a specific domain.
func WithSiteFilter(domain string) SearchOption {
	return func(o *searchOpts) {
		o.siteFilter = domain
	}
}

// WithCount asks for at most n results.
func WithCount(n int) SearchOption {
	return func(o *searchOpts) {
		o.count = n
	}
}

// Option configures the Jina client.
type Option func(*httpClient)

// WithBaseURL sets a custom reader base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithSearchBaseURL sets a custom search base URL.
func WithSearchBaseURL(u string) Option {
	return func(c *httpClient) {
		if u != "" {
			c.searchBaseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRetry replaces the retry policy for transient failures.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(c *httpClient) {
		c.retry = cfg
	}
}

type httpClient struct {
	apiKey        string
	baseURL       string
	searchBaseURL string
	http          *http.Client
	retry         resilience.RetryConfig
}

// NewClient creates a new Jina AI client. Reads work without a key at a
// lower rate limit; search requires one.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:        apiKey,
		baseURL:       "https://r.jina.ai",
		searchBaseURL: "https://s.jina.ai",
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		retry: resilience.WithAttempts("jina", 3),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type rawResponse struct {
	status int
	body   []byte
}

// do sends req, retrying transient statuses and network failures. Any
// other non-2xx status is returned to the caller unretried.
func (c *httpClient) do(ctx context.Context, req *http.Request) (rawResponse, error) {
	return resilience.DoVal(ctx, c.retry, func(ctx context.Context) (rawResponse, error) {
		resp, err := c.http.Do(req.Clone(ctx))
		if err != nil {
			return rawResponse{}, err
		}
		body, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			return rawResponse{}, eris.Wrap(err, "jina: read response body")
		}
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return rawResponse{}, resilience.StatusError("jina", resp.StatusCode, body)
		}
		return rawResponse{status: resp.StatusCode, body: body}, nil
	})
}

func (c *httpClient) authorize(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.Header.Set("Accept", "application/json")
}

func (c *httpClient) Read(ctx context.Context, targetURL string) (*ReadResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+targetURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "jina: create request")
	}
	c.authorize(req)
	req.Header.Set("X-Return-Format", "markdown")
	req.Header.Set("X-With-Links-Summary", "true")

	raw, err := c.do(ctx, req)
	if err != nil {
		return nil, eris.Wrap(err, "jina: request failed")
	}
	if raw.status != http.StatusOK {
		return nil, resilience.StatusError("jina", raw.status, raw.body)
	}

	var result struct {
		Code int `json:"code"`
		Data struct {
			ReadData
			Links map[string]string `json:"links"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw.body, &result); err != nil {
		return nil, eris.Wrap(err, "jina: unmarshal response")
	}

	out := &ReadResponse{Code: result.Code, Data: result.Data.ReadData}
	for _, href := range result.Data.Links {
		out.Data.Links = append(out.Data.Links, href)
	}
	slices.Sort(out.Data.Links)
	return out, nil
}

func (c *httpClient) Search(ctx context.Context, query string, opts ...SearchOption) (*SearchResponse, error) {
	if c.apiKey == "" {
		return nil, eris.New("jina: search requires an api key")
	}
	so := &searchOpts{}
	for _, opt := range opts {
		opt(so)
	}

	reqURL := c.searchBaseURL + "/" + url.QueryEscape(query)
	if so.siteFilter != "" {
		reqURL += "?site=" + url.QueryEscape(so.siteFilter)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "jina: create search request")
	}
	c.authorize(req)

	raw, err := c.do(ctx, req)
	if err != nil {
		return nil, eris.Wrap(err, "jina: search request failed")
	}

	// Jina returns 422 when no results are available for the query.
	if raw.status == http.StatusUnprocessableEntity {
		return &SearchResponse{Code: raw.status}, nil
	}
	if raw.status != http.StatusOK {
		return nil, resilience.StatusError("jina", raw.status, raw.body)
	}

	var result SearchResponse
	if err := json.Unmarshal(raw.body, &result); err != nil {
		return nil, eris.Wrap(err, "jina: unmarshal search response")
	}
	if so.count > 0 && len(result.Data) > so.count {
		result.Data = result.Data[:so.count]
	}
	return &result, nil
}
