// Package parser turns a free-text prospecting prompt into targeting
// criteria, using Claude when configured and a keyword parser otherwise.
package parser

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/criteria"
	"github.com/sells-group/prospect-cli/internal/metrics"
	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/pkg/anthropic"
)

const (
	llmConfidence   = 0.85
	defaultMaxToken = 1024
	defaultReason   = "Parsed using LLM"
)

const systemPrompt = `You are an expert at parsing sales prospecting queries into structured ICP (Ideal Customer Profile) criteria.

Given a natural language description of target leads, extract:
1. Industries/verticals (be specific: "SaaS", "FinTech", "Healthcare IT", etc.)
2. Locations (cities, states, countries)
3. Company size (employee count ranges like "50-200")
4. Revenue ranges if mentioned
5. Keywords that describe the company
6. Technologies they should use
7. Signals to look for (hiring, funding, expanding, etc.)
8. Keywords to exclude
9. Generate 3-5 effective Google search queries to find these companies

Search queries should work well on Google for finding company websites matching the criteria.

Respond ONLY with valid JSON matching this schema:
{
  "industries": ["string"],
  "locations": [{"city": "string|null", "state": "string|null", "country": "string|null"}],
  "employee_range": {"min": number|null, "max": number|null},
  "revenue_range": {"min": number|null, "max": number|null},
  "keywords": ["string"],
  "technologies": ["string"],
  "signals": ["string"],
  "exclude_keywords": ["string"],
  "search_queries": ["string"],
  "reasoning": "string explaining your interpretation"
}`

// Parser extracts criteria from prompts.
type Parser struct {
	client      anthropic.Client
	model       string
	temperature float64
	maxTokens   int64
}

// Option configures a Parser.
type Option func(*Parser)

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(p *Parser) { p.temperature = t }
}

// WithMaxTokens sets the response token budget.
func WithMaxTokens(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.maxTokens = int64(n)
		}
	}
}

// New creates a Parser. A nil client means every prompt goes through the
// fallback parser.
func New(client anthropic.Client, model string, opts ...Option) *Parser {
	p := &Parser{
		client:      client,
		model:       model,
		temperature: 0.3,
		maxTokens:   defaultMaxToken,
	}
	for _, o := range opts {
		o(p)
	}
	if client == nil {
		zap.L().Warn("parser: no anthropic client configured, prompts will use the fallback parser")
	}
	return p
}

// Parse converts prompt into criteria. Failures of the LLM path fall back
// to the keyword parser, so Parse only errors on an empty prompt.
func (p *Parser) Parse(ctx context.Context, prompt string, promptCtx map[string]any) (*model.ParsePromptResponse, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, eris.New("parser: empty prompt")
	}
	log := zap.L().With(zap.Int("prompt_length", len(prompt)))

	if p.client == nil {
		log.Info("parser: using fallback parser")
		metrics.ParseRequests.WithLabelValues("fallback").Inc()
		return Fallback(prompt), nil
	}

	resp, err := p.parseLLM(ctx, prompt, promptCtx)
	if err != nil {
		log.Error("parser: llm parse failed, using fallback", zap.Error(err))
		metrics.ParseRequests.WithLabelValues("fallback").Inc()
		return Fallback(prompt), nil
	}

	metrics.ParseRequests.WithLabelValues("llm").Inc()
	return resp, nil
}

func (p *Parser) parseLLM(ctx context.Context, prompt string, promptCtx map[string]any) (*model.ParsePromptResponse, error) {
	userMsg := "Parse this prospecting query:\n\n" + prompt
	if len(promptCtx) > 0 {
		raw, err := json.Marshal(promptCtx)
		if err != nil {
			return nil, eris.Wrap(err, "parser: marshal context")
		}
		userMsg += "\n\nContext: " + string(raw)
	}

	temp := p.temperature
	resp, err := p.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       p.model,
		MaxTokens:   p.maxTokens,
		System:      systemPrompt,
		Messages:    []anthropic.Message{{Role: "user", Content: userMsg}},
		Temperature: &temp,
	})
	if err != nil {
		return nil, eris.Wrap(err, "parser: create message")
	}
	resp.Usage.LogCost(p.model, "parse_prompt")

	text := resp.Text()
	if text == "" {
		return nil, eris.New("parser: empty llm response")
	}

	parsed, err := extractJSON(text)
	if err != nil {
		return nil, err
	}

	reasoning, _ := parsed["reasoning"].(string)
	if reasoning == "" {
		reasoning = defaultReason
	}

	zap.L().Info("parser: parsed prompt with llm", zap.Int("criteria_keys", len(parsed)))

	return &model.ParsePromptResponse{
		Criteria:   criteria.Normalize(parsed),
		Confidence: llmConfidence,
		Reasoning:  reasoning,
	}, nil
}

// extractJSON decodes the outermost JSON object in text. Models sometimes
// wrap the object in prose or code fences.
func extractJSON(text string) (map[string]any, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, eris.New("parser: no JSON in llm response")
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(text[start:end+1]), &parsed); err != nil {
		return nil, eris.Wrap(err, "parser: decode llm JSON")
	}
	return parsed, nil
}
