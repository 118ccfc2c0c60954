package model

// Location map keys understood on a Lead.
const (
	LocationCity    = "city"
	LocationState   = "state"
	LocationCountry = "country"
)

// Lead is a prospective company being scored. Only CompanyName is required;
// every other field may be absent (nil).
type Lead struct {
	ID                    *string           `json:"id"`
	CompanyName           string            `json:"company_name"`
	Domain                *string           `json:"domain"`
	Industry              *string           `json:"industry"`
	Location              map[string]string `json:"location"`
	EmployeeCountEstimate *int              `json:"employee_count_estimate"`
	Description           *string           `json:"description"`
	Technologies          []string          `json:"technologies"`
	Signals               []string          `json:"signals"`
}

// HasIndustry reports whether the lead carries a non-empty industry label.
func (l Lead) HasIndustry() bool { return present(l.Industry) }

// HasDescription reports whether the lead carries a non-empty description.
func (l Lead) HasDescription() bool { return present(l.Description) }

// HasLocation reports whether the lead carries at least one location entry.
func (l Lead) HasLocation() bool { return len(l.Location) > 0 }

// HasEmployeeCount reports whether an employee estimate was supplied.
// Zero is a valid estimate.
func (l Lead) HasEmployeeCount() bool { return l.EmployeeCountEstimate != nil }

// LocationField returns the named location entry, or "" when absent.
func (l Lead) LocationField(key string) string {
	if l.Location == nil {
		return ""
	}
	return l.Location[key]
}

// ScoreLeadsRequest is the transport payload for batch scoring. Criteria
// arrives loosely typed and is normalized before scoring.
type ScoreLeadsRequest struct {
	Leads    []Lead         `json:"leads"`
	Criteria map[string]any `json:"criteria"`
}
