package scrape

import (
	"net/url"
	"path"
	"strings"
)

// DefaultExcludePatterns skip content sections that say little about the
// company itself.
var DefaultExcludePatterns = []string{
	"/blog/*",
	"/news/*",
	"/press/*",
}

// PathMatcher filters URLs by glob-style path patterns. A pattern ending in
// "/*" also matches deeper paths, so "/blog/*" excludes "/blog/2024/post".
type PathMatcher struct {
	patterns []string
}

// NewPathMatcher creates a PathMatcher from glob patterns (e.g. "/blog/*",
// "/*.pdf"). A nil slice uses DefaultExcludePatterns; an empty non-nil
// slice excludes nothing.
func NewPathMatcher(patterns []string) *PathMatcher {
	if patterns == nil {
		patterns = DefaultExcludePatterns
	}
	lowered := make([]string, len(patterns))
	for i, p := range patterns {
		lowered[i] = strings.ToLower(p)
	}
	return &PathMatcher{patterns: lowered}
}

// Patterns returns the configured patterns.
func (m *PathMatcher) Patterns() []string {
	return m.patterns
}

// IsExcluded reports whether rawURL is unparseable or matches a pattern.
func (m *PathMatcher) IsExcluded(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return true
	}
	p := strings.ToLower(u.Path)
	for _, pattern := range m.patterns {
		if matchSegmented(pattern, p) {
			return true
		}
	}
	return false
}

func matchSegmented(pattern, urlPath string) bool {
	if ok, _ := path.Match(pattern, urlPath); ok {
		return true
	}
	if prefix, ok := strings.CutSuffix(pattern, "/*"); ok {
		return urlPath == prefix || strings.HasPrefix(urlPath, prefix+"/")
	}
	return false
}
