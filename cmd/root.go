package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kcs-funding/giftcrawl/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "giftcrawl",
	Short: "Gift storefront catalog crawler",
	Long:  "Discovers brand pages on the Kakao gift storefront, crawls rendered listings per brand, enriches rows from detail pages, and reconciles items into the catalog store.",
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
