package main

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/criteria"
	"github.com/sells-group/prospect-cli/internal/leadfile"
	"github.com/sells-group/prospect-cli/internal/model"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score leads against ideal customer criteria",
	Long: `Score a batch of leads against ideal customer criteria.

Leads are read from a JSON, CSV or XLSX file. CSV and XLSX files need a
company_name column; the optional columns are id, domain, industry, city,
state, country, employee_count_estimate, description, technologies and
signals. List columns are separated by semicolons or commas.

Each lead gets a fit score between 40 and 95 built from industry, size,
location, keyword and signal matches. Leads are ranked highest first.

Examples:
  # Score leads from a spreadsheet and print JSON
  score --leads leads.xlsx --criteria icp.yaml

  # Parse criteria from a prompt and export ranked leads to CSV
  score --leads leads.csv --prompt "B2B SaaS in Austin, 50-200 employees" --output ranked.csv

  # Keep only strong fits
  score --leads leads.json --criteria icp.json --min-score 70 --limit 25`,
	RunE: runScore,
}

func init() {
	f := scoreCmd.Flags()
	f.String("leads", "", "leads file (.json, .csv, .xlsx)")
	f.String("criteria", "", "criteria file (.json, .yaml)")
	f.String("prompt", "", "prospecting prompt to parse into criteria")
	f.Int("min-score", 0, "drop leads scoring below this")
	f.Int("limit", 0, "maximum number of leads to output (0 = all)")
	f.StringP("output", "o", "", "output file path (default: stdout)")
	f.String("format", "", "output format: json, csv or xlsx (default from output extension, else json)")

	_ = scoreCmd.MarkFlagRequired("leads")
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	if err := cfg.Validate("score"); err != nil {
		return err
	}

	f := cmd.Flags()
	leadsPath, _ := f.GetString("leads")
	criteriaPath, _ := f.GetString("criteria")
	prompt, _ := f.GetString("prompt")
	minScore, _ := f.GetInt("min-score")
	limit, _ := f.GetInt("limit")
	output, _ := f.GetString("output")
	format, _ := f.GetString("format")

	if (criteriaPath == "") == (prompt == "") {
		return eris.New("exactly one of --criteria or --prompt is required")
	}
	format, err := outputFormat(format, output)
	if err != nil {
		return err
	}

	log := zap.L().With(zap.String("command", "score"))

	leads, err := leadfile.Read(leadsPath)
	if err != nil {
		return err
	}

	c, err := loadCriteria(cmd, criteriaPath, prompt)
	if err != nil {
		return err
	}

	result := newScorer(cfg).Score(leads, c)
	log.Info("scored leads",
		zap.Int("total_scored", result.TotalScored),
		zap.Float64("avg_fit_score", result.AvgFitScore),
	)
	result.ScoredLeads = filterScored(result.ScoredLeads, minScore, limit)

	if format == leadfile.FormatXLSX {
		return leadfile.WriteXLSX(output, result.ScoredLeads)
	}

	out, err := openOutput(output)
	if err != nil {
		return err
	}
	defer out.Close() //nolint:errcheck
	return writeScored(out, format, result)
}

// loadCriteria reads criteria from path, or parses them from prompt when no
// path is given.
func loadCriteria(cmd *cobra.Command, path, prompt string) (model.Criteria, error) {
	if path != "" {
		return criteria.ReadFile(path)
	}
	parsed, err := newParser(cfg).Parse(cmd.Context(), prompt, nil)
	if err != nil {
		return model.Criteria{}, err
	}
	zap.L().Info("parsed prompt", zap.Float64("confidence", parsed.Confidence))
	return parsed.Criteria, nil
}

// outputFormat resolves --format, falling back to the output extension.
func outputFormat(format, output string) (string, error) {
	if format == "" {
		switch strings.ToLower(filepath.Ext(output)) {
		case ".csv":
			format = leadfile.FormatCSV
		case ".xlsx":
			format = leadfile.FormatXLSX
		default:
			format = leadfile.FormatJSON
		}
	}

	switch format {
	case leadfile.FormatJSON, leadfile.FormatCSV:
		return format, nil
	case leadfile.FormatXLSX:
		if output == "" || output == "-" {
			return "", eris.New("xlsx output requires --output")
		}
		return format, nil
	default:
		return "", eris.Errorf("unsupported format %q", format)
	}
}

// filterScored drops leads below minScore and keeps at most limit. Input
// is already ranked.
func filterScored(leads []model.ScoredLead, minScore, limit int) []model.ScoredLead {
	out := make([]model.ScoredLead, 0, len(leads))
	for _, l := range leads {
		if l.FitScore < minScore {
			continue
		}
		out = append(out, l)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func writeScored(w io.Writer, format string, result *model.ScoreLeadsResult) error {
	if format == leadfile.FormatCSV {
		return leadfile.WriteCSV(w, result.ScoredLeads)
	}
	return printJSON(w, result)
}
