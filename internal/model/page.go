package model

// CrawledPage represents a page fetched during crawling.
type CrawledPage struct {
	URL        string   `json:"url"`
	Title      string   `json:"title"`
	Markdown   string   `json:"markdown"`
	Links      []string `json:"links,omitempty"`
	StatusCode int      `json:"status_code"`
}
