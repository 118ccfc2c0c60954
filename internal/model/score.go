package model

// ScoreBreakdown holds the per-dimension match scores, each in [0,1].
// Technology matches are folded into KeywordMatch.
type ScoreBreakdown struct {
	IndustryMatch float64 `json:"industry_match"`
	SizeMatch     float64 `json:"size_match"`
	LocationMatch float64 `json:"location_match"`
	KeywordMatch  float64 `json:"keyword_match"`
	SignalMatch   float64 `json:"signal_match"`
}

// ScoredLead is a lead with its fit score and explanation.
type ScoredLead struct {
	LeadID         *string        `json:"lead_id"`
	CompanyName    string         `json:"company_name"`
	Domain         *string        `json:"domain"`
	FitScore       int            `json:"fit_score"`
	ScoreBreakdown ScoreBreakdown `json:"score_breakdown"`
	MatchReasons   []string       `json:"match_reasons"`
	Confidence     float64        `json:"confidence"`
}

// ScoreLeadsResult is a ranked batch of scored leads.
type ScoreLeadsResult struct {
	ScoredLeads []ScoredLead `json:"scored_leads"`
	TotalScored int          `json:"total_scored"`
	AvgFitScore float64      `json:"avg_fit_score"`
}
