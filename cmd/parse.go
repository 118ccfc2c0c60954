package main

import (
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var parseContext string

var parseCmd = &cobra.Command{
	Use:   "parse [prompt]",
	Short: "Parse a prospecting prompt into ideal customer criteria",
	Example: `  prospect-cli parse "Series A fintech startups in New York with 50-200 employees"
  prospect-cli parse "dental clinics in Texas" --context '{"region":"south"}'`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("parse"); err != nil {
			return err
		}

		var promptCtx map[string]any
		if parseContext != "" {
			if err := json.Unmarshal([]byte(parseContext), &promptCtx); err != nil {
				return eris.Wrap(err, "parse --context")
			}
		}

		resp, err := newParser(cfg).Parse(cmd.Context(), strings.Join(args, " "), promptCtx)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), resp)
	},
}

func init() {
	parseCmd.Flags().StringVar(&parseContext, "context", "", "extra JSON context passed to the parser")
	rootCmd.AddCommand(parseCmd)
}
