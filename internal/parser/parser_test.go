package parser

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospect-cli/pkg/anthropic"
	"github.com/sells-group/prospect-cli/pkg/anthropic/mocks"
)

func textResponse(text string) *anthropic.MessageResponse {
	return &anthropic.MessageResponse{
		ID:      "msg_1",
		Content: []anthropic.ContentBlock{{Type: "text", Text: text}},
		Usage:   anthropic.TokenUsage{InputTokens: 300, OutputTokens: 120},
	}
}

func TestParse_LLM(t *testing.T) {
	client := mocks.NewMockClient(t)
	client.On("CreateMessage", mock.Anything, mock.MatchedBy(func(req anthropic.MessageRequest) bool {
		return req.Model == "claude-haiku-4-5-20251001" &&
			req.MaxTokens == 1024 &&
			req.Temperature != nil && *req.Temperature == 0.3 &&
			strings.Contains(req.System, "ICP") &&
			len(req.Messages) == 1 &&
			req.Messages[0].Content == "Parse this prospecting query:\n\nSaaS in Austin"
	})).Return(textResponse("Here you go:\n```json\n"+`{
		"industries": ["SaaS"],
		"locations": [{"city": "Austin", "state": "TX", "country": null}],
		"employee_range": {"min": 50, "max": null},
		"technologies": ["React"],
		"search_queries": ["saas companies austin"],
		"reasoning": "B2B software in Austin"
	}`+"\n```"), nil)

	p := New(client, "claude-haiku-4-5-20251001")
	resp, err := p.Parse(context.Background(), "SaaS in Austin", nil)
	require.NoError(t, err)

	assert.InDelta(t, 0.85, resp.Confidence, 1e-9)
	assert.Equal(t, "B2B software in Austin", resp.Reasoning)
	assert.Equal(t, []string{"SaaS"}, resp.Criteria.Industries)
	require.Len(t, resp.Criteria.Locations, 1)
	assert.Equal(t, "Austin", *resp.Criteria.Locations[0].City)
	assert.Nil(t, resp.Criteria.Locations[0].Country)
	require.NotNil(t, resp.Criteria.EmployeeRange)
	assert.Equal(t, 50, *resp.Criteria.EmployeeRange.Min)
	assert.Nil(t, resp.Criteria.EmployeeRange.Max)
	assert.Equal(t, []string{"saas companies austin"}, resp.Criteria.SearchQueries)
}

func TestParse_LLMContextAndDefaultReasoning(t *testing.T) {
	client := mocks.NewMockClient(t)
	client.On("CreateMessage", mock.Anything, mock.MatchedBy(func(req anthropic.MessageRequest) bool {
		return strings.HasSuffix(req.Messages[0].Content, `Context: {"team":"sales"}`) &&
			*req.Temperature == 0.1 && req.MaxTokens == 512
	})).Return(textResponse(`{"industries": ["Fintech"]}`), nil)

	p := New(client, "m", WithTemperature(0.1), WithMaxTokens(512))
	resp, err := p.Parse(context.Background(), "fintech", map[string]any{"team": "sales"})
	require.NoError(t, err)

	assert.Equal(t, "Parsed using LLM", resp.Reasoning)
	assert.Equal(t, []string{"Fintech"}, resp.Criteria.Industries)
}

func TestParse_LLMFailuresFallBack(t *testing.T) {
	tests := []struct {
		name string
		resp *anthropic.MessageResponse
		err  error
	}{
		{"api error", nil, errors.New("overloaded")},
		{"empty response", &anthropic.MessageResponse{}, nil},
		{"no json", textResponse("I cannot help with that."), nil},
		{"invalid json", textResponse(`{"industries": [}`), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := mocks.NewMockClient(t)
			client.On("CreateMessage", mock.Anything, mock.Anything).Return(tt.resp, tt.err)

			resp, err := New(client, "m").Parse(context.Background(), "healthcare companies hiring", nil)
			require.NoError(t, err)

			assert.InDelta(t, 0.5, resp.Confidence, 1e-9)
			assert.Equal(t, fallbackReason, resp.Reasoning)
			assert.Equal(t, []string{"Healthcare"}, resp.Criteria.Industries)
		})
	}
}

func TestParse_NoClientUsesFallback(t *testing.T) {
	resp, err := New(nil, "").Parse(context.Background(), "retail in Florida", nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"Retail"}, resp.Criteria.Industries)
	require.Len(t, resp.Criteria.Locations, 1)
	assert.Equal(t, "FL", *resp.Criteria.Locations[0].State)
}

func TestParse_EmptyPrompt(t *testing.T) {
	_, err := New(nil, "").Parse(context.Background(), "   ", nil)
	assert.Error(t, err)
}

func TestFallback_FullPrompt(t *testing.T) {
	resp := Fallback("SaaS companies in Austin with 50-200 employees that are hiring and use React and AWS")
	c := resp.Criteria

	assert.Equal(t, []string{"Saas"}, c.Industries)
	require.Len(t, c.Locations, 1)
	assert.Equal(t, "Austin", *c.Locations[0].City)
	assert.Equal(t, "TX", *c.Locations[0].State)
	assert.Equal(t, "US", *c.Locations[0].Country)
	require.NotNil(t, c.EmployeeRange)
	assert.Equal(t, 50, *c.EmployeeRange.Min)
	assert.Equal(t, 200, *c.EmployeeRange.Max)
	assert.Equal(t, []string{"hiring"}, c.Signals)
	assert.Equal(t, []string{"React", "AWS"}, c.Technologies)
	assert.Equal(t, []string{"Saas", "React", "AWS"}, c.Keywords)
	assert.Equal(t, []string{"Saas Austin", "Saas companies", "Saas hiring"}, c.SearchQueries)
	assert.InDelta(t, 0.5, resp.Confidence, 1e-9)
}

func TestFallback_StatesAndSignals(t *testing.T) {
	c := Fallback("Fintech and banking firms in New York and California, recently funded and growing").Criteria

	assert.Equal(t, []string{"Fintech", "Banking"}, c.Industries)
	require.Len(t, c.Locations, 2)
	assert.Nil(t, c.Locations[0].City)
	assert.Equal(t, "CA", *c.Locations[0].State)
	assert.Equal(t, "NY", *c.Locations[1].State)
	assert.Equal(t, []string{"funding", "expanding"}, c.Signals)
	assert.Equal(t, []string{"Fintech Banking CA", "Fintech Banking companies", "Fintech Banking funding"}, c.SearchQueries)
}

func TestFallback_EmployeeRangeVariants(t *testing.T) {
	tests := []struct {
		prompt string
		lo, hi int
	}{
		{"10 to 50 employees", 10, 50},
		{"between 100–500 employee", 100, 500},
		{"5 - 25 Employees", 5, 25},
	}
	for _, tt := range tests {
		t.Run(tt.prompt, func(t *testing.T) {
			r := Fallback(tt.prompt).Criteria.EmployeeRange
			require.NotNil(t, r)
			assert.Equal(t, tt.lo, *r.Min)
			assert.Equal(t, tt.hi, *r.Max)
		})
	}

	assert.Nil(t, Fallback("a big company").Criteria.EmployeeRange)
}

func TestFallback_NothingRecognized(t *testing.T) {
	c := Fallback("find me some leads").Criteria

	assert.Empty(t, c.Industries)
	assert.NotNil(t, c.Industries)
	assert.Empty(t, c.Locations)
	assert.Nil(t, c.EmployeeRange)
	assert.Equal(t, []string{"companies companies"}, c.SearchQueries)
}

func TestExtractJSON(t *testing.T) {
	m, err := extractJSON("prefix {\"a\": {\"b\": 1}} suffix")
	require.NoError(t, err)
	assert.Contains(t, m, "a")

	_, err = extractJSON("} backwards {")
	assert.Error(t, err)
}
