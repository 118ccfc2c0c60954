package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/cache"
	"github.com/sells-group/prospect-cli/internal/model"
)

var (
	searchCriteria   string
	searchPrompt     string
	searchSources    []string
	searchMaxResults int
	searchOutput     string
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search for companies matching ideal customer criteria",
	Example: `  prospect-cli search --criteria icp.yaml --sources google_search,google_maps
  prospect-cli search --prompt "logistics companies in Ohio" --max-results 20 --output results.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("search"); err != nil {
			return err
		}
		if (searchCriteria == "") == (searchPrompt == "") {
			return eris.New("exactly one of --criteria or --prompt is required")
		}

		ctx := cmd.Context()
		log := zap.L().With(zap.String("command", "search"))

		c, err := loadCriteria(cmd, searchCriteria, searchPrompt)
		if err != nil {
			return err
		}
		raw, err := toMap(c)
		if err != nil {
			return err
		}

		req := model.SearchRequest{Criteria: raw, Sources: searchSources}
		if cmd.Flags().Changed("max-results") {
			req.MaxResults = &searchMaxResults
		}

		store := cache.New(cfg.Redis)
		defer store.Close() //nolint:errcheck

		resp, err := newSearcher(cfg, newCrawler(cfg, store)).Search(ctx, req)
		if err != nil {
			return eris.Wrap(err, "search")
		}
		log.Info("search complete",
			zap.Int("total", resp.Total),
			zap.Strings("sources_used", resp.SourcesUsed),
		)

		out, err := openOutput(searchOutput)
		if err != nil {
			return err
		}
		defer out.Close() //nolint:errcheck
		return printJSON(out, resp)
	},
}

func init() {
	f := searchCmd.Flags()
	f.StringVar(&searchCriteria, "criteria", "", "criteria file (.json, .yaml)")
	f.StringVar(&searchPrompt, "prompt", "", "prospecting prompt to parse into criteria")
	f.StringSliceVar(&searchSources, "sources", []string{"google_search"}, "sources: google_search, google_maps, jina_search, website_crawl")
	f.IntVar(&searchMaxResults, "max-results", 0, "maximum results (default from config)")
	f.StringVarP(&searchOutput, "output", "o", "", "output file (default: stdout)")
	rootCmd.AddCommand(searchCmd)
}
