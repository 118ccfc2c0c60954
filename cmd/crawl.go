package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/cache"
	"github.com/sells-group/prospect-cli/internal/crawler"
	"github.com/sells-group/prospect-cli/internal/model"
)

var (
	crawlMaxPages   int
	crawlNoContacts bool
	crawlNoAbout    bool
	crawlNoCareers  bool
	crawlOutput     string
)

var crawlCmd = &cobra.Command{
	Use:     "crawl [url]",
	Short:   "Crawl a company website for company info and contacts",
	Example: "  prospect-cli crawl acme.com --max-pages 5",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("max-pages") {
			cfg.Crawl.MaxPages = crawlMaxPages
		}
		if err := cfg.Validate("crawl"); err != nil {
			return err
		}
		if _, err := crawler.NormalizeURL(args[0]); err != nil {
			return err
		}

		store := cache.New(cfg.Redis)
		defer store.Close() //nolint:errcheck

		extract := !crawlNoContacts
		about := !crawlNoAbout
		careers := !crawlNoCareers
		pages := cfg.Crawl.MaxPages
		resp := newCrawler(cfg, store).Crawl(cmd.Context(), model.CrawlRequest{
			URL:             args[0],
			ExtractContacts: &extract,
			MaxPages:        &pages,
			IncludeAbout:    &about,
			IncludeCareers:  &careers,
		})
		zap.L().Info("crawl complete",
			zap.String("url", args[0]),
			zap.Int("pages_crawled", resp.PagesCrawled),
			zap.Int("contacts", len(resp.Contacts)),
			zap.Int("fit_score_estimate", resp.FitScoreEstimate),
		)

		out, err := openOutput(crawlOutput)
		if err != nil {
			return err
		}
		defer out.Close() //nolint:errcheck
		return printJSON(out, resp)
	},
}

func init() {
	f := crawlCmd.Flags()
	f.IntVar(&crawlMaxPages, "max-pages", 10, "maximum pages to crawl (1-50)")
	f.BoolVar(&crawlNoContacts, "no-contacts", false, "skip contact extraction")
	f.BoolVar(&crawlNoAbout, "no-about", false, "skip about pages")
	f.BoolVar(&crawlNoCareers, "no-careers", false, "skip careers pages")
	f.StringVarP(&crawlOutput, "output", "o", "", "output file (default: stdout)")
	rootCmd.AddCommand(crawlCmd)
}
