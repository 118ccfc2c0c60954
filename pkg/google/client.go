// Package google provides clients for the Google Custom Search JSON API and
// the Places Text Search API.
package google

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/prospect-cli/internal/resilience"
)

const (
	defaultSearchBaseURL = "https://www.googleapis.com/customsearch/v1"
	defaultPlacesBaseURL = "https://maps.googleapis.com/maps/api/place"

	// MaxResultsPerQuery is the most results Custom Search returns per call.
	MaxResultsPerQuery = 10
)

// Client performs Google search operations.
type Client interface {
	// Search runs a Custom Search query returning at most num items.
	Search(ctx context.Context, query string, num int) (*SearchResponse, error)
	// TextSearch runs a Places text search.
	TextSearch(ctx context.Context, query string) (*TextSearchResponse, error)
}

// Credentials holds the keys a client authenticates with.
type Credentials struct {
	SearchKey string
	SearchCX  string
	MapsKey   string
}

// CanSearch reports whether Custom Search is configured.
func (c Credentials) CanSearch() bool { return c.SearchKey != "" && c.SearchCX != "" }

// CanSearchMaps reports whether Places is configured.
func (c Credentials) CanSearchMaps() bool { return c.MapsKey != "" }

// SearchResponse is the Custom Search JSON API response.
type SearchResponse struct {
	Items []SearchItem `json:"items"`
}

// SearchItem is a single Custom Search hit.
type SearchItem struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	DisplayLink string `json:"displayLink"`
	Snippet     string `json:"snippet"`
}

// TextSearchResponse is the Places text search response.
type TextSearchResponse struct {
	Status  string  `json:"status"`
	Results []Place `json:"results"`
}

// Place represents a place returned by the API.
type Place struct {
	PlaceID          string   `json:"place_id"`
	Name             string   `json:"name"`
	FormattedAddress string   `json:"formatted_address"`
	Rating           *float64 `json:"rating,omitempty"`
	UserRatingsTotal *int     `json:"user_ratings_total,omitempty"`
	Types            []string `json:"types"`
}

// Option configures the client.
type Option func(*httpClient)

// WithSearchBaseURL overrides the Custom Search endpoint.
func WithSearchBaseURL(u string) Option {
	return func(c *httpClient) {
		if u != "" {
			c.searchBaseURL = u
		}
	}
}

// WithPlacesBaseURL overrides the Places API base URL.
func WithPlacesBaseURL(u string) Option {
	return func(c *httpClient) {
		if u != "" {
			c.placesBaseURL = u
		}
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	creds         Credentials
	searchBaseURL string
	placesBaseURL string
	http          *http.Client
}

// NewClient creates a Google client.
func NewClient(creds Credentials, opts ...Option) Client {
	c := &httpClient{
		creds:         creds,
		searchBaseURL: defaultSearchBaseURL,
		placesBaseURL: defaultPlacesBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) Search(ctx context.Context, query string, num int) (*SearchResponse, error) {
	if !c.creds.CanSearch() {
		return nil, eris.New("google: custom search not configured")
	}
	num = max(1, min(num, MaxResultsPerQuery))

	params := url.Values{}
	params.Set("key", c.creds.SearchKey)
	params.Set("cx", c.creds.SearchCX)
	params.Set("q", query)
	params.Set("num", strconv.Itoa(num))

	var result SearchResponse
	if err := c.get(ctx, c.searchBaseURL+"?"+params.Encode(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *httpClient) TextSearch(ctx context.Context, query string) (*TextSearchResponse, error) {
	if !c.creds.CanSearchMaps() {
		return nil, eris.New("google: maps not configured")
	}

	params := url.Values{}
	params.Set("key", c.creds.MapsKey)
	params.Set("query", query)

	var result TextSearchResponse
	if err := c.get(ctx, c.placesBaseURL+"/textsearch/json?"+params.Encode(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *httpClient) get(ctx context.Context, reqURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return eris.Wrap(err, "google: create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "google: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "google: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return resilience.StatusError("google", resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return eris.Wrap(err, "google: unmarshal response")
	}
	return nil
}
