package model

// Search sources.
const (
	SourceGoogleSearch = "google_search"
	SourceGoogleMaps   = "google_maps"
	SourceJinaSearch   = "jina_search"
	SourceWebsiteCrawl = "website_crawl"
)

// SearchCredentials carries per-request API keys that override configured
// ones.
type SearchCredentials struct {
	GoogleAPIKey     *string `json:"google_api_key"`
	GoogleCX         *string `json:"google_cx"`
	GoogleMapsAPIKey *string `json:"google_maps_api_key"`
	JinaAPIKey       *string `json:"jina_api_key"`
}

// SearchRequest asks the search collaborator for companies matching
// loosely typed criteria.
type SearchRequest struct {
	Criteria    map[string]any     `json:"criteria"`
	Sources     []string           `json:"sources"`
	Credentials *SearchCredentials `json:"credentials"`
	MaxResults  *int               `json:"max_results"`
}

// SearchResult is one company candidate from a search source.
type SearchResult struct {
	Source                string            `json:"source"`
	CompanyName           string            `json:"company_name"`
	Domain                *string           `json:"domain"`
	URL                   *string           `json:"url"`
	Snippet               *string           `json:"snippet"`
	Industry              *string           `json:"industry"`
	Location              *LocationCriteria `json:"location"`
	EmployeeCountEstimate *string           `json:"employee_count_estimate"`
	Confidence            float64           `json:"confidence"`
	RawData               map[string]any    `json:"raw_data"`
}

// SearchResponse is the deduplicated, truncated set of candidates.
type SearchResponse struct {
	Results           []SearchResult `json:"results"`
	Total             int            `json:"total"`
	SourcesUsed       []string       `json:"sources_used"`
	SearchQueriesUsed []string       `json:"search_queries_used"`
}
