package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospect-cli/internal/leadfile"
	"github.com/sells-group/prospect-cli/internal/model"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"serve", "parse", "search", "crawl", "score"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "prospect-cli", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)
}

func TestSearchCommand_Flags(t *testing.T) {
	flag := searchCmd.Flags().Lookup("sources")
	require.NotNil(t, flag)
	assert.Equal(t, "[google_search]", flag.DefValue)
	assert.NotNil(t, searchCmd.Flags().Lookup("criteria"))
	assert.NotNil(t, searchCmd.Flags().Lookup("prompt"))
}

func TestCrawlCommand_Flags(t *testing.T) {
	flag := crawlCmd.Flags().Lookup("max-pages")
	require.NotNil(t, flag)
	assert.Equal(t, "10", flag.DefValue)
}

func TestScoreCommand_RequiresLeads(t *testing.T) {
	flag := scoreCmd.Flags().Lookup("leads")
	require.NotNil(t, flag)
	assert.Equal(t, []string{"true"}, flag.Annotations["cobra_annotation_bash_completion_one_required_flag"])
}

func TestLoadCriteria_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "icp.yaml")
	require.NoError(t, os.WriteFile(path, []byte("industries:\n  - Fintech\nemployee_range: {}\n"), 0o644))

	c, err := loadCriteria(scoreCmd, path, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Fintech"}, c.Industries)
	assert.Nil(t, c.EmployeeRange)

	_, err = loadCriteria(scoreCmd, filepath.Join(t.TempDir(), "missing.json"), "")
	assert.Error(t, err)
}

func TestToMap(t *testing.T) {
	m, err := toMap(model.Criteria{Industries: []string{"SaaS"}})
	require.NoError(t, err)
	assert.Equal(t, []any{"SaaS"}, m["industries"])
}

func TestOutputFormat(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		output  string
		want    string
		wantErr bool
	}{
		{"stdout default", "", "", leadfile.FormatJSON, false},
		{"csv by extension", "", "ranked.CSV", leadfile.FormatCSV, false},
		{"xlsx by extension", "", "ranked.xlsx", leadfile.FormatXLSX, false},
		{"unknown extension", "", "ranked.txt", leadfile.FormatJSON, false},
		{"explicit csv to stdout", "csv", "", leadfile.FormatCSV, false},
		{"xlsx to stdout", "xlsx", "", "", true},
		{"unsupported", "parquet", "out.parquet", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := outputFormat(tt.format, tt.output)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterScored(t *testing.T) {
	leads := []model.ScoredLead{
		{CompanyName: "A", FitScore: 90},
		{CompanyName: "B", FitScore: 75},
		{CompanyName: "C", FitScore: 60},
		{CompanyName: "D", FitScore: 40},
	}

	got := filterScored(leads, 60, 0)
	assert.Len(t, got, 3)

	got = filterScored(leads, 0, 2)
	require.Len(t, got, 2)
	assert.Equal(t, "B", got[1].CompanyName)

	got = filterScored(leads, 99, 0)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestWriteScored(t *testing.T) {
	result := &model.ScoreLeadsResult{
		ScoredLeads: []model.ScoredLead{{CompanyName: "Acme", FitScore: 82, MatchReasons: []string{}}},
		TotalScored: 1,
		AvgFitScore: 82,
	}

	var buf bytes.Buffer
	require.NoError(t, writeScored(&buf, leadfile.FormatJSON, result))
	assert.Contains(t, buf.String(), `"total_scored": 1`)

	buf.Reset()
	require.NoError(t, writeScored(&buf, leadfile.FormatCSV, result))
	assert.Contains(t, buf.String(), "1,,Acme,,82,")
}
