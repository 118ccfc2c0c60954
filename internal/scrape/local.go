package scrape

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"

	"github.com/sells-group/prospect-cli/internal/model"
)

const (
	maxBodyBytes = 1 << 20
	minBodyBytes = 100
	userAgent    = "Mozilla/5.0 (compatible; ProspectBot/1.0)"
)

// nonContentSelectors are stripped before text extraction.
const nonContentSelectors = "script, style, noscript, svg, template, nav"

// blockSelectors become one markdown line each.
const blockSelectors = "h1, h2, h3, h4, h5, h6, p, li, address, blockquote, dt, dd, td, th"

// LocalScraper fetches HTML via net/http and renders it to lightweight
// markdown with goquery. Blocked pages fail so the chain can fall through
// to a remote reader.
type LocalScraper struct {
	client *http.Client
}

// NewLocalScraper creates a LocalScraper with the given request timeout.
// A non-positive timeout uses 15s.
func NewLocalScraper(timeout time.Duration) *LocalScraper {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &LocalScraper{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 10 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
				MaxIdleConnsPerHost: 10,
			},
		},
	}
}

// Name identifies the scraper in logs and results.
func (l *LocalScraper) Name() string { return "local_http" }

// Supports accepts http and https URLs.
func (l *LocalScraper) Supports(rawURL string) bool {
	u, err := url.Parse(rawURL)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https")
}

// Scrape fetches a URL, rejects blocked pages, and extracts title, links
// and markdown.
func (l *LocalScraper) Scrape(ctx context.Context, targetURL string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "local_http: create request")
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "local_http: fetch")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, eris.Wrap(err, "local_http: read body")
	}

	if blocked, blockType := DetectBlock(resp, body); blocked {
		return nil, eris.Errorf("local_http: blocked (%s)", blockType)
	}
	if resp.StatusCode >= 400 {
		return nil, eris.Errorf("local_http: status %d", resp.StatusCode)
	}
	if len(body) < minBodyBytes {
		return nil, eris.New("local_http: empty page")
	}

	// Redirects change the base for relative links.
	base := resp.Request.URL
	page, err := ParseHTML(base, body)
	if err != nil {
		return nil, err
	}
	page.URL = targetURL
	page.StatusCode = resp.StatusCode

	return &Result{Page: *page, Source: l.Name()}, nil
}

// ParseHTML renders an HTML document into a CrawledPage. Links are resolved
// against base and de-duplicated in document order.
func ParseHTML(base *url.URL, body []byte) (*model.CrawledPage, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "local_http: parse html")
	}

	page := &model.CrawledPage{
		Title: pageTitle(doc),
		Links: pageLinks(doc, base),
	}

	doc.Find(nonContentSelectors).Remove()
	page.Markdown = renderMarkdown(doc)
	return page, nil
}

func pageTitle(doc *goquery.Document) string {
	if title := collapse(doc.Find("title").First().Text()); title != "" {
		return title
	}
	if og, ok := doc.Find("meta[property='og:title']").Attr("content"); ok {
		return collapse(og)
	}
	return ""
}

func pageLinks(doc *goquery.Document, base *url.URL) []string {
	seen := make(map[string]bool)
	var links []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		abs := ref
		if base != nil {
			abs = base.ResolveReference(ref)
		}
		abs.Fragment = ""
		u := abs.String()
		if !seen[u] {
			seen[u] = true
			links = append(links, u)
		}
	})
	return links
}

// renderMarkdown emits one line per outermost block element, with headings
// prefixed by '#'. Documents without block markup fall back to body text.
func renderMarkdown(doc *goquery.Document) string {
	var lines []string
	doc.Find(blockSelectors).Each(func(_ int, s *goquery.Selection) {
		if s.ParentsFiltered(blockSelectors).Length() > 0 {
			return
		}
		text := collapse(s.Text())
		if text == "" {
			return
		}
		switch tag := goquery.NodeName(s); tag {
		case "h1", "h2", "h3", "h4", "h5", "h6":
			text = strings.Repeat("#", int(tag[1]-'0')) + " " + text
		case "li":
			text = "- " + text
		}
		lines = append(lines, text)
	})

	if len(lines) == 0 {
		return collapse(doc.Find("body").Text())
	}
	return strings.Join(lines, "\n\n")
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
