package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/config"
)

// version is set at build time via -ldflags.
var version = "dev"

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:     "prospect-cli",
	Short:   "Lead discovery and scoring",
	Long:    "Parses prospecting prompts into ideal customer criteria, searches Google and Jina for matching companies, crawls their websites and scores leads against the criteria.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
