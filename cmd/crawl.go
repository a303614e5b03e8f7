package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var crawlLimit int

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Crawl saved brand pages and reconcile listed items",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		limit := crawlLimit
		if limit <= 0 {
			limit = cfg.Crawl.PerBrandLimit
		}

		inserted, err := runCrawl(ctx, st, limit)
		if err != nil {
			return err
		}

		fmt.Printf("inserted %d items\n", inserted)
		return nil
	},
}

func init() {
	crawlCmd.Flags().IntVar(&crawlLimit, "limit", 0, "max items per brand (default from config)")
	rootCmd.AddCommand(crawlCmd)
}
