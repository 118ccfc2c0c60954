package parser

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/prospect-cli/internal/model"
)

const (
	fallbackConfidence = 0.5
	fallbackReason     = "Parsed using fallback regex parser (LLM unavailable)"
	maxSearchQueries   = 5
)

var industryKeywords = []string{
	"saas", "fintech", "healthcare", "edtech", "ecommerce", "e-commerce",
	"retail", "manufacturing", "logistics", "real estate", "insurance",
	"banking", "technology", "software", "consulting", "marketing",
}

// knownPlaces maps place names to their US state, in match order.
var knownPlaces = []struct {
	name  string
	state string
}{
	{"texas", "TX"}, {"california", "CA"}, {"new york", "NY"}, {"florida", "FL"},
	{"austin", "TX"}, {"san francisco", "CA"}, {"nyc", "NY"}, {"los angeles", "CA"},
	{"chicago", "IL"}, {"boston", "MA"}, {"seattle", "WA"}, {"denver", "CO"},
}

// stateNames are single-word entries of knownPlaces that name a state, not
// a city.
var stateNames = map[string]bool{"texas": true, "california": true}

var techKeywords = []string{
	"react", "python", "node", "aws", "azure", "gcp", "kubernetes",
	"docker", "javascript", "typescript", "java", "salesforce", "hubspot",
}

var upperTechs = map[string]bool{"aws": true, "gcp": true}

var employeeRangeRe = regexp.MustCompile(`(\d+)\s*[-–to]+\s*(\d+)\s*employees?`)

// Fallback extracts criteria from prompt with fixed keyword tables. It is
// deterministic and never fails.
func Fallback(prompt string) *model.ParsePromptResponse {
	lower := strings.ToLower(prompt)
	title := cases.Title(language.English)

	industries := []string{}
	for _, kw := range industryKeywords {
		if strings.Contains(lower, kw) {
			industries = append(industries, title.String(kw))
		}
	}

	locations := []model.LocationCriteria{}
	for _, place := range knownPlaces {
		if !strings.Contains(lower, place.name) {
			continue
		}
		loc := model.LocationCriteria{
			State:   model.StringPtr(place.state),
			Country: model.StringPtr("US"),
		}
		if !strings.Contains(place.name, " ") && !stateNames[place.name] {
			loc.City = model.StringPtr(title.String(place.name))
		}
		locations = append(locations, loc)
	}

	var employeeRange *model.EmployeeRange
	if m := employeeRangeRe.FindStringSubmatch(lower); m != nil {
		lo, errLo := strconv.Atoi(m[1])
		hi, errHi := strconv.Atoi(m[2])
		if errLo == nil && errHi == nil {
			employeeRange = &model.EmployeeRange{Min: model.IntPtr(lo), Max: model.IntPtr(hi)}
		}
	}

	signals := []string{}
	if strings.Contains(lower, "hiring") {
		signals = append(signals, "hiring")
	}
	if strings.Contains(lower, "funding") || strings.Contains(lower, "funded") {
		signals = append(signals, "funding")
	}
	if strings.Contains(lower, "growing") || strings.Contains(lower, "expanding") {
		signals = append(signals, "expanding")
	}

	technologies := []string{}
	for _, tech := range techKeywords {
		if !strings.Contains(lower, tech) {
			continue
		}
		if upperTechs[tech] {
			technologies = append(technologies, strings.ToUpper(tech))
		} else {
			technologies = append(technologies, title.String(tech))
		}
	}

	keywords := make([]string, 0, len(industries)+len(technologies))
	keywords = append(keywords, industries...)
	keywords = append(keywords, technologies...)

	return &model.ParsePromptResponse{
		Criteria: model.Criteria{
			Industries:      industries,
			Locations:       locations,
			EmployeeRange:   employeeRange,
			Keywords:        keywords,
			Technologies:    technologies,
			Signals:         signals,
			ExcludeKeywords: []string{},
			SearchQueries:   searchQueries(industries, locations, signals),
		},
		Confidence: fallbackConfidence,
		Reasoning:  fallbackReason,
	}
}

func searchQueries(industries []string, locations []model.LocationCriteria, signals []string) []string {
	base := "companies"
	if len(industries) > 0 {
		base = strings.Join(industries[:min(2, len(industries))], " ")
	}

	var queries []string
	if len(locations) > 0 {
		queries = append(queries, base+" "+firstLocationPart(locations[0]))
	}
	queries = append(queries, base+" companies")
	if len(signals) > 0 {
		queries = append(queries, base+" "+signals[0])
	}
	if len(queries) > maxSearchQueries {
		queries = queries[:maxSearchQueries]
	}
	return queries
}

// firstLocationPart returns the most specific populated part of loc.
func firstLocationPart(loc model.LocationCriteria) string {
	for _, p := range []*string{loc.City, loc.State, loc.Country} {
		if p != nil && *p != "" {
			return *p
		}
	}
	return ""
}
