package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scaile-group/keywords-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "keywords-cli",
	Short: "SEO keyword research pipeline",
	Long:  "Turns a business description into a ranked, deduplicated, semantically clustered keyword list via LLM generation, scoring, and external SEO data providers.",
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
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
