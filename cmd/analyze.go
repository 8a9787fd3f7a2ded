package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var analyzeFlags struct {
	url         string
	description string
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a company website into a keyword-generation profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		o, err := initOracle()
		if err != nil {
			return err
		}

		company, err := o.AnalyzeCompany(cmd.Context(), analyzeFlags.url, analyzeFlags.description)
		if err != nil {
			return eris.Wrap(err, "analyze company")
		}
		company.URL = analyzeFlags.url

		return printJSON(company)
	},
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeFlags.url, "url", "", "company website URL (required)")
	analyzeCmd.Flags().StringVar(&analyzeFlags.description, "description", "", "optional seed description")
	_ = analyzeCmd.MarkFlagRequired("url")
	rootCmd.AddCommand(analyzeCmd)
}
