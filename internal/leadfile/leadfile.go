// Package leadfile reads leads from JSON, CSV and XLSX files and writes
// scored leads back out as CSV or XLSX.
package leadfile

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/prospect-cli/internal/model"
)

// Supported file formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// Lead columns, in export order.
const (
	ColID           = "id"
	ColCompanyName  = "company_name"
	ColDomain       = "domain"
	ColIndustry     = "industry"
	ColCity         = "city"
	ColState        = "state"
	ColCountry      = "country"
	ColEmployees    = "employee_count_estimate"
	ColDescription  = "description"
	ColTechnologies = "technologies"
	ColSignals      = "signals"
)

// Columns lists the lead columns understood in CSV and XLSX files.
var Columns = []string{
	ColID, ColCompanyName, ColDomain, ColIndustry, ColCity, ColState,
	ColCountry, ColEmployees, ColDescription, ColTechnologies, ColSignals,
}

// FormatOf returns the format implied by a file extension.
func FormatOf(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return FormatJSON, nil
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", eris.Errorf("leadfile: unsupported file extension %q", ext)
	}
}

// Read loads the leads in path, choosing the decoder by extension.
func Read(path string) ([]model.Lead, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	if format == FormatXLSX {
		return ReadXLSX(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "leadfile: open")
	}
	defer f.Close() //nolint:errcheck

	if format == FormatJSON {
		return DecodeJSON(f)
	}
	return DecodeCSV(f)
}

// fromRows converts a header row plus data rows into leads. Header names
// are matched case-insensitively; unknown columns are ignored and blank
// rows skipped.
func fromRows(rows [][]string) ([]model.Lead, error) {
	if len(rows) == 0 {
		return []model.Lead{}, nil
	}

	index := make(map[string]int)
	for i, h := range rows[0] {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := index[ColCompanyName]; !ok {
		return nil, eris.Errorf("leadfile: missing %q column", ColCompanyName)
	}

	leads := make([]model.Lead, 0, len(rows)-1)
	for n, row := range rows[1:] {
		line := n + 2
		cell := func(col string) string {
			i, ok := index[col]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		if blank(row) {
			continue
		}

		lead := model.Lead{
			CompanyName:  cell(ColCompanyName),
			ID:           optional(cell(ColID)),
			Domain:       optional(cell(ColDomain)),
			Industry:     optional(cell(ColIndustry)),
			Description:  optional(cell(ColDescription)),
			Technologies: splitList(cell(ColTechnologies)),
			Signals:      splitList(cell(ColSignals)),
		}
		if lead.CompanyName == "" {
			return nil, eris.Errorf("leadfile: row %d: %s is required", line, ColCompanyName)
		}

		for key, col := range map[string]string{
			model.LocationCity:    ColCity,
			model.LocationState:   ColState,
			model.LocationCountry: ColCountry,
		} {
			if v := cell(col); v != "" {
				if lead.Location == nil {
					lead.Location = map[string]string{}
				}
				lead.Location[key] = v
			}
		}

		if v := cell(ColEmployees); v != "" {
			n, err := strconv.Atoi(strings.ReplaceAll(v, ",", ""))
			if err != nil || n < 0 {
				return nil, eris.Errorf("leadfile: row %d: invalid %s %q", line, ColEmployees, v)
			}
			lead.EmployeeCountEstimate = &n
		}

		leads = append(leads, lead)
	}
	return leads, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// splitList splits a cell on semicolons or commas. A blank cell is absent.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ';' || r == ',' })
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// exportHeader is the header row of scored-lead exports.
var exportHeader = []string{
	"rank", "lead_id", "company_name", "domain", "fit_score", "confidence",
	"industry_match", "size_match", "location_match", "keyword_match", "signal_match",
	"match_reasons",
}

func exportRow(rank int, l model.ScoredLead) []string {
	b := l.ScoreBreakdown
	return []string{
		strconv.Itoa(rank),
		deref(l.LeadID),
		l.CompanyName,
		deref(l.Domain),
		strconv.Itoa(l.FitScore),
		formatFloat(l.Confidence),
		formatFloat(b.IndustryMatch),
		formatFloat(b.SizeMatch),
		formatFloat(b.LocationMatch),
		formatFloat(b.KeywordMatch),
		formatFloat(b.SignalMatch),
		strings.Join(l.MatchReasons, "; "),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
