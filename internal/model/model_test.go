package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCriteriaIsEmpty(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		c    Criteria
		want bool
	}{
		{"zero value", Criteria{}, true},
		{"only search queries", Criteria{SearchQueries: []string{"saas austin"}}, true},
		{"only exclusions", Criteria{ExcludeKeywords: []string{"agency"}}, true},
		{"only revenue", Criteria{RevenueRange: &RevenueRange{}}, true},
		{"industries", Criteria{Industries: []string{"SaaS"}}, false},
		{"employee range", Criteria{EmployeeRange: &EmployeeRange{}}, false},
		{"locations", Criteria{Locations: []LocationCriteria{{City: StringPtr("Austin")}}}, false},
		{"technologies", Criteria{Technologies: []string{"React"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.c.IsEmpty())
		})
	}
}

func TestLeadPresence(t *testing.T) {
	t.Parallel()

	t.Run("absent fields", func(t *testing.T) {
		t.Parallel()
		l := Lead{CompanyName: "Acme"}
		assert.False(t, l.HasIndustry())
		assert.False(t, l.HasDescription())
		assert.False(t, l.HasLocation())
		assert.False(t, l.HasEmployeeCount())
		assert.Empty(t, l.LocationField(LocationCity))
	})

	t.Run("empty strings are absent", func(t *testing.T) {
		t.Parallel()
		l := Lead{CompanyName: "Acme", Industry: StringPtr(""), Description: StringPtr(""), Location: map[string]string{}}
		assert.False(t, l.HasIndustry())
		assert.False(t, l.HasDescription())
		assert.False(t, l.HasLocation())
	})

	t.Run("zero employees is present", func(t *testing.T) {
		t.Parallel()
		l := Lead{CompanyName: "Acme", EmployeeCountEstimate: IntPtr(0)}
		assert.True(t, l.HasEmployeeCount())
	})
}

func TestLeadJSONAbsence(t *testing.T) {
	t.Parallel()

	var l Lead
	require.NoError(t, json.Unmarshal([]byte(`{"company_name":"Acme","technologies":[]}`), &l))

	assert.Nil(t, l.Signals)
	assert.NotNil(t, l.Technologies)
	assert.Empty(t, l.Technologies)
	assert.Nil(t, l.EmployeeCountEstimate)
}

func TestEmployeeRangeJSONKeepsUnboundedDistinctFromZero(t *testing.T) {
	t.Parallel()

	var r EmployeeRange
	require.NoError(t, json.Unmarshal([]byte(`{"min":0}`), &r))
	require.NotNil(t, r.Min)
	assert.Equal(t, 0, *r.Min)
	assert.Nil(t, r.Max)

	out, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"min":0,"max":null}`, string(out))
}

func TestCompanyInfoToLead(t *testing.T) {
	t.Parallel()

	c := CompanyInfo{
		Name:                  StringPtr("Acme Corp"),
		Domain:                "acme.com",
		Industry:              StringPtr("SaaS"),
		EmployeeCountEstimate: IntPtr(120),
		Location:              &LocationCriteria{City: StringPtr("Austin"), State: StringPtr("TX")},
		Technologies:          []string{"React"},
		IsHiring:              true,
	}

	l := c.ToLead()
	assert.Equal(t, "Acme Corp", l.CompanyName)
	assert.Equal(t, "acme.com", *l.Domain)
	assert.Equal(t, "Austin", l.LocationField(LocationCity))
	assert.Equal(t, "TX", l.LocationField(LocationState))
	assert.Empty(t, l.LocationField(LocationCountry))
	assert.Equal(t, []string{"hiring"}, l.Signals)

	unnamed := CompanyInfo{Domain: "example.org"}.ToLead()
	assert.Equal(t, "example.org", unnamed.CompanyName)
	assert.Nil(t, unnamed.Location)
}

func TestCrawlRequestOptions(t *testing.T) {
	t.Parallel()

	opts := CrawlRequest{URL: "https://acme.com"}.Options()
	assert.Equal(t, CrawlOptions{
		URL:             "https://acme.com",
		ExtractContacts: true,
		MaxPages:        10,
		IncludeAbout:    true,
		IncludeCareers:  true,
	}, opts)

	off := false
	pages := 3
	opts = CrawlRequest{URL: "acme.com", ExtractContacts: &off, MaxPages: &pages, IncludeCareers: &off}.Options()
	assert.False(t, opts.ExtractContacts)
	assert.Equal(t, 3, opts.MaxPages)
	assert.True(t, opts.IncludeAbout)
	assert.False(t, opts.IncludeCareers)
}
