package model

// LocationCriteria constrains a lead's location. A nil field does not
// constrain on that field.
type LocationCriteria struct {
	City    *string `json:"city" yaml:"city" mapstructure:"city"`
	State   *string `json:"state" yaml:"state" mapstructure:"state"`
	Country *string `json:"country" yaml:"country" mapstructure:"country"`
}

// EmployeeRange is an employee count range. A nil bound is unbounded on
// that side.
type EmployeeRange struct {
	Min *int `json:"min" yaml:"min" mapstructure:"min"`
	Max *int `json:"max" yaml:"max" mapstructure:"max"`
}

// RevenueRange is an annual revenue range in USD. Carried through the
// pipeline but not scored.
type RevenueRange struct {
	Min *int64 `json:"min" yaml:"min" mapstructure:"min"`
	Max *int64 `json:"max" yaml:"max" mapstructure:"max"`
}

// Criteria is the Ideal Customer Profile a lead is scored against.
// Strings keep their display casing; matching lowercases at comparison time.
type Criteria struct {
	Industries      []string           `json:"industries"`
	Locations       []LocationCriteria `json:"locations"`
	EmployeeRange   *EmployeeRange     `json:"employee_range"`
	RevenueRange    *RevenueRange      `json:"revenue_range"`
	Keywords        []string           `json:"keywords"`
	Technologies    []string           `json:"technologies"`
	Signals         []string           `json:"signals"`
	ExcludeKeywords []string           `json:"exclude_keywords"`
	SearchQueries   []string           `json:"search_queries"`
}

// IsEmpty reports whether no scored dimension is constrained.
func (c Criteria) IsEmpty() bool {
	return len(c.Industries) == 0 &&
		len(c.Locations) == 0 &&
		c.EmployeeRange == nil &&
		len(c.Keywords) == 0 &&
		len(c.Technologies) == 0 &&
		len(c.Signals) == 0
}

// ParsePromptResponse is the outcome of turning free text into Criteria.
type ParsePromptResponse struct {
	Criteria   Criteria `json:"criteria"`
	Confidence float64  `json:"confidence"`
	Reasoning  string   `json:"reasoning"`
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string { return &s }

// IntPtr returns a pointer to n.
func IntPtr(n int) *int { return &n }

// present reports whether an optional string carries a usable value.
func present(s *string) bool {
	return s != nil && *s != ""
}
