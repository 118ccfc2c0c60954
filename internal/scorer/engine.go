// Package scorer ranks leads against an Ideal Customer Profile with a
// weighted, explainable fit score.
package scorer

import (
	"cmp"
	"math"
	"runtime"
	"slices"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/prospect-cli/internal/criteria"
	"github.com/sells-group/prospect-cli/internal/metrics"
	"github.com/sells-group/prospect-cli/internal/model"
)

// Dimension weights. They sum to 1.0.
const (
	IndustryWeight = 0.25
	SizeWeight     = 0.20
	LocationWeight = 0.20
	KeywordWeight  = 0.20
	SignalWeight   = 0.15
)

// Fit score bounds. A lead matching nothing scores BaseScore; a perfect
// match scores BaseScore + ScoreSpan.
const (
	BaseScore = 40
	ScoreSpan = 55
	MaxScore  = BaseScore + ScoreSpan
)

// Engine scores batches of leads. It holds no per-request state and is safe
// for concurrent use. The zero Engine scores without a concurrency bound.
type Engine struct {
	concurrency int
}

// Option configures an Engine.
type Option func(*Engine)

// WithConcurrency bounds how many leads are scored in parallel. Values
// below 1 fall back to GOMAXPROCS.
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{concurrency: runtime.GOMAXPROCS(0)}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Score scores every lead against c, then ranks them by fit score
// descending. Leads with equal scores keep their input order. Score never
// fails; missing data contributes nothing to its dimension.
func (e *Engine) Score(leads []model.Lead, c model.Criteria) *model.ScoreLeadsResult {
	scored := make([]model.ScoredLead, len(leads))

	var g errgroup.Group
	if e.concurrency > 0 {
		g.SetLimit(e.concurrency)
	}
	for i := range leads {
		g.Go(func() error {
			scored[i] = ScoreOne(leads[i], c)
			return nil
		})
	}
	_ = g.Wait()

	slices.SortStableFunc(scored, func(a, b model.ScoredLead) int {
		return cmp.Compare(b.FitScore, a.FitScore)
	})

	var avg float64
	if len(scored) > 0 {
		total := 0
		for _, s := range scored {
			total += s.FitScore
			metrics.FitScores.Observe(float64(s.FitScore))
		}
		avg = roundTo(float64(total)/float64(len(scored)), 1)
	}
	metrics.LeadsScored.Add(float64(len(scored)))

	zap.L().Info("scorer: scored leads",
		zap.Int("num_leads", len(scored)),
		zap.Float64("avg_score", avg),
	)

	return &model.ScoreLeadsResult{
		ScoredLeads: scored,
		TotalScored: len(leads),
		AvgFitScore: avg,
	}
}

// ScoreLoose normalizes a loosely typed criteria payload and scores leads
// against it.
func (e *Engine) ScoreLoose(leads []model.Lead, raw any) *model.ScoreLeadsResult {
	return e.Score(leads, criteria.Normalize(raw))
}

// ScoreOne computes the breakdown, reasons, confidence and fit score of a
// single lead. It is pure.
func ScoreOne(lead model.Lead, c model.Criteria) model.ScoredLead {
	var b model.ScoreBreakdown
	reasons := []string{}
	add := func(reason string) {
		if reason != "" {
			reasons = append(reasons, reason)
		}
	}

	var reason string
	b.IndustryMatch, reason = matchIndustry(lead, c.Industries)
	add(reason)
	b.SizeMatch, reason = matchSize(lead, c.EmployeeRange)
	add(reason)
	b.LocationMatch, reason = matchLocation(lead, c.Locations)
	add(reason)
	b.KeywordMatch, reason = matchKeywords(lead, c.Keywords)
	add(reason)

	techScore, reason := matchTechnologies(lead, c.Technologies)
	b.KeywordMatch = math.Max(b.KeywordMatch, techScore)
	add(reason)

	b.SignalMatch, reason = matchSignals(lead, c.Signals)
	add(reason)

	return model.ScoredLead{
		LeadID:         lead.ID,
		CompanyName:    lead.CompanyName,
		Domain:         lead.Domain,
		FitScore:       FitScore(b),
		ScoreBreakdown: b,
		MatchReasons:   reasons,
		Confidence:     Confidence(lead),
	}
}

// FitScore maps a breakdown onto [BaseScore, MaxScore].
func FitScore(b model.ScoreBreakdown) int {
	// Each product is rounded on its own so the sum cannot be fused.
	weighted := float64(b.IndustryMatch*IndustryWeight) +
		float64(b.SizeMatch*SizeWeight) +
		float64(b.LocationMatch*LocationWeight) +
		float64(b.KeywordMatch*KeywordWeight) +
		float64(b.SignalMatch*SignalWeight)

	score := int(math.Floor(BaseScore + float64(weighted*ScoreSpan)))
	return min(MaxScore, max(BaseScore, score))
}

// Confidence reflects how complete the lead record is: 0.3 with none of
// industry, location, description and employee estimate, 0.8 with all four.
func Confidence(lead model.Lead) float64 {
	present := 0
	for _, ok := range []bool{
		lead.HasIndustry(),
		lead.HasLocation(),
		lead.HasDescription(),
		lead.HasEmployeeCount(),
	} {
		if ok {
			present++
		}
	}
	completeness := float64(present) / 4
	return roundTo(0.3+float64(completeness*0.5), 2)
}

// roundTo rounds the exact binary value of x to prec decimals, so 0.425
// (stored just below) rounds to 0.42 and 0.675 (stored just above) to 0.68.
func roundTo(x float64, prec int) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', prec, 64), 64)
	if err != nil {
		return x
	}
	return r
}
