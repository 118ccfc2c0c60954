package criteria

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospect-cli/internal/model"
)

func TestNormalize_Canonical(t *testing.T) {
	c := model.Criteria{Industries: []string{"SaaS"}}

	assert.Equal(t, c, Normalize(c))
	assert.Equal(t, c, Normalize(&c))
	assert.Equal(t, model.Criteria{}, Normalize((*model.Criteria)(nil)))
	assert.Equal(t, model.Criteria{}, Normalize(nil))
	assert.Equal(t, model.Criteria{}, Normalize(42))
}

func TestNormalize_MissingFieldsStayAbsent(t *testing.T) {
	c := Normalize(map[string]any{})

	assert.Nil(t, c.Industries)
	assert.Nil(t, c.Locations)
	assert.Nil(t, c.EmployeeRange)
	assert.Nil(t, c.RevenueRange)
	assert.Nil(t, c.SearchQueries)
	assert.True(t, c.IsEmpty())
}

func TestNormalize_FullMapping(t *testing.T) {
	c, err := FromJSON([]byte(`{
		"industries": ["SaaS", "Fintech"],
		"locations": [{"city": "Austin", "state": "TX", "zip": "78701"}, "nowhere", {"country": "US"}],
		"employee_range": {"min": 50, "max": 200, "median": 100},
		"revenue_range": {"min": 1000000},
		"keywords": ["payments"],
		"technologies": [],
		"signals": ["hiring"],
		"exclude_keywords": ["agency"],
		"search_queries": ["saas austin"]
	}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"SaaS", "Fintech"}, c.Industries)
	require.Len(t, c.Locations, 2)
	assert.Equal(t, "Austin", *c.Locations[0].City)
	assert.Equal(t, "TX", *c.Locations[0].State)
	assert.Nil(t, c.Locations[0].Country)
	assert.Nil(t, c.Locations[1].City)
	assert.Equal(t, "US", *c.Locations[1].Country)

	require.NotNil(t, c.EmployeeRange)
	assert.Equal(t, 50, *c.EmployeeRange.Min)
	assert.Equal(t, 200, *c.EmployeeRange.Max)

	require.NotNil(t, c.RevenueRange)
	assert.Equal(t, int64(1000000), *c.RevenueRange.Min)
	assert.Nil(t, c.RevenueRange.Max)

	assert.NotNil(t, c.Technologies)
	assert.Empty(t, c.Technologies)
	assert.Equal(t, []string{"payments"}, c.Keywords)
	assert.Equal(t, []string{"hiring"}, c.Signals)
	assert.Equal(t, []string{"agency"}, c.ExcludeKeywords)
	assert.Equal(t, []string{"saas austin"}, c.SearchQueries)
}

func TestNormalize_MalformedFieldsDropped(t *testing.T) {
	c := Normalize(map[string]any{
		"industries":     "SaaS",
		"keywords":       []any{"ok", 7},
		"locations":      "Austin",
		"employee_range": []any{1, 2},
		"signals":        []any{"hiring"},
	})

	assert.Nil(t, c.Industries)
	assert.Nil(t, c.Keywords)
	assert.Nil(t, c.Locations)
	assert.Nil(t, c.EmployeeRange)
	assert.Equal(t, []string{"hiring"}, c.Signals)
}

func TestNormalize_RangeBoundsDecodeWeakly(t *testing.T) {
	c := Normalize(map[string]any{
		"employee_range": map[string]any{"min": "10", "max": nil},
	})

	require.NotNil(t, c.EmployeeRange)
	assert.Equal(t, 10, *c.EmployeeRange.Min)
	assert.Nil(t, c.EmployeeRange.Max)
}

func TestNormalize_EmptyRangeIsAbsent(t *testing.T) {
	c := Normalize(map[string]any{
		"employee_range": map[string]any{},
		"revenue_range":  map[string]any{},
	})

	assert.Nil(t, c.EmployeeRange)
	assert.Nil(t, c.RevenueRange)
	assert.True(t, c.IsEmpty())
}

func TestNormalize_ZeroBoundIsPresent(t *testing.T) {
	c := Normalize(map[string]any{
		"employee_range": map[string]any{"min": 0.0, "max": 0.0},
	})

	require.NotNil(t, c.EmployeeRange)
	require.NotNil(t, c.EmployeeRange.Max)
	assert.Equal(t, 0, *c.EmployeeRange.Max)
}

func TestFromYAML(t *testing.T) {
	c, err := FromYAML([]byte(`
industries:
  - Healthcare
locations:
  - state: CA
employee_range:
  min: 10
technologies: [React, AWS]
`))
	require.NoError(t, err)

	assert.Equal(t, []string{"Healthcare"}, c.Industries)
	require.Len(t, c.Locations, 1)
	assert.Equal(t, "CA", *c.Locations[0].State)
	assert.Equal(t, 10, *c.EmployeeRange.Min)
	assert.Nil(t, c.EmployeeRange.Max)
	assert.Equal(t, []string{"React", "AWS"}, c.Technologies)
}

func TestFromJSON_Invalid(t *testing.T) {
	_, err := FromJSON([]byte(`{"industries": [`))
	assert.Error(t, err)

	_, err = FromYAML([]byte("industries: [\n"))
	assert.Error(t, err)
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	c, err := ReadFile(write("icp.json", `{"industries":["SaaS"],"employee_range":{"min":50}}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"SaaS"}, c.Industries)
	assert.Equal(t, 50, *c.EmployeeRange.Min)

	c, err = ReadFile(write("icp.YML", "signals: [hiring]\nemployee_range: {}\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"hiring"}, c.Signals)
	assert.Nil(t, c.EmployeeRange)

	_, err = ReadFile(write("bad.json", `{`))
	assert.Error(t, err)

	_, err = ReadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
