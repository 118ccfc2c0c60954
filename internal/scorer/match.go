package scorer

import (
	"fmt"
	"math"
	"strings"

	"github.com/sells-group/prospect-cli/internal/model"
)

// maxListedMatches caps the keyword and technology lists quoted in reasons.
const maxListedMatches = 3

// matchIndustry compares the lead industry against each criteria industry.
// An exact substring in either direction wins outright; otherwise any word
// of a criteria industry found in the lead industry gives partial credit.
func matchIndustry(lead model.Lead, industries []string) (float64, string) {
	if len(industries) == 0 || !lead.HasIndustry() {
		return 0, ""
	}
	leadIndustry := strings.ToLower(*lead.Industry)

	for _, ind := range industries {
		ind = strings.ToLower(ind)
		if strings.Contains(leadIndustry, ind) || strings.Contains(ind, leadIndustry) {
			return 1.0, "Industry match: " + *lead.Industry
		}
	}

	for _, ind := range industries {
		for _, word := range strings.Fields(strings.ToLower(ind)) {
			if strings.Contains(leadIndustry, word) {
				return 0.5, "Partial industry match: " + *lead.Industry
			}
		}
	}
	return 0, ""
}

// matchSize scores the employee estimate against the range. Below the range
// decays with count/min, above it with max/count; a zero denominator scores 0.
func matchSize(lead model.Lead, r *model.EmployeeRange) (float64, string) {
	if r == nil || !lead.HasEmployeeCount() {
		return 0, ""
	}
	count := float64(*lead.EmployeeCountEstimate)

	lo := 0.0
	if r.Min != nil {
		lo = float64(*r.Min)
	}
	hi := math.Inf(1)
	if r.Max != nil {
		hi = float64(*r.Max)
	}

	switch {
	case lo <= count && count <= hi:
		return 1.0, fmt.Sprintf("Size match: %d employees", *lead.EmployeeCountEstimate)
	case count < lo:
		if lo == 0 {
			return 0, ""
		}
		return math.Max(0, count/lo*0.5), ""
	default:
		if count == 0 {
			return 0, ""
		}
		return math.Max(0, hi/count*0.5), ""
	}
}

// matchLocation walks criteria locations in order. City equality scores
// 1.0, a state substring 0.8 and country equality 0.5. The first criteria
// location producing any match decides.
func matchLocation(lead model.Lead, locations []model.LocationCriteria) (float64, string) {
	if len(locations) == 0 || !lead.HasLocation() {
		return 0, ""
	}
	city := lead.LocationField(model.LocationCity)
	state := lead.LocationField(model.LocationState)
	country := lead.LocationField(model.LocationCountry)

	for _, loc := range locations {
		switch {
		case filled(loc.City) && city != "" && strings.EqualFold(*loc.City, city):
			return 1.0, "City match: " + city
		case filled(loc.State) && state != "" &&
			strings.Contains(strings.ToLower(state), strings.ToLower(*loc.State)):
			return 0.8, "State match: " + state
		case filled(loc.Country) && country != "" && strings.EqualFold(*loc.Country, country):
			return 0.5, "Country match: " + country
		}
	}
	return 0, ""
}

// matchKeywords finds criteria keywords contained in the description.
func matchKeywords(lead model.Lead, keywords []string) (float64, string) {
	if len(keywords) == 0 || !lead.HasDescription() {
		return 0, ""
	}
	desc := strings.ToLower(*lead.Description)

	var matched []string
	for _, kw := range keywords {
		if strings.Contains(desc, strings.ToLower(kw)) {
			matched = append(matched, kw)
		}
	}
	if len(matched) == 0 {
		return 0, ""
	}
	return ratio(len(matched), len(keywords)), "Keywords: " + strings.Join(head(matched, maxListedMatches), ", ")
}

// matchTechnologies intersects criteria technologies with the lead's stack.
func matchTechnologies(lead model.Lead, technologies []string) (float64, string) {
	matched := intersect(technologies, lead.Technologies)
	if len(matched) == 0 {
		return 0, ""
	}
	return ratio(len(matched), len(technologies)), "Tech stack: " + strings.Join(head(matched, maxListedMatches), ", ")
}

// matchSignals intersects criteria signals with the lead's signals. Every
// matched signal is listed.
func matchSignals(lead model.Lead, signals []string) (float64, string) {
	matched := intersect(signals, lead.Signals)
	if len(matched) == 0 {
		return 0, ""
	}
	return ratio(len(matched), len(signals)), "Signals: " + strings.Join(matched, ", ")
}

// intersect returns the wanted entries present in have, compared
// case-insensitively, in wanted order and casing.
func intersect(wanted, have []string) []string {
	if len(wanted) == 0 || len(have) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(have))
	for _, h := range have {
		set[strings.ToLower(h)] = struct{}{}
	}

	var matched []string
	for _, w := range wanted {
		if _, ok := set[strings.ToLower(w)]; ok {
			matched = append(matched, w)
		}
	}
	return matched
}

func ratio(matched, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Min(1.0, float64(matched)/float64(total))
}

func head(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func filled(s *string) bool {
	return s != nil && *s != ""
}
