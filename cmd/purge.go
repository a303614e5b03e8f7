package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var purgeDays int

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete items not seen by a crawl within the retention window",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		days := purgeDays
		if days <= 0 {
			days = cfg.Retention.Days
		}

		purged, err := runPurge(ctx, st, days)
		if err != nil {
			return err
		}

		fmt.Printf("purged %d items\n", purged)
		return nil
	},
}

func init() {
	purgeCmd.Flags().IntVar(&purgeDays, "days", 0, "retention window in days (default from config)")
	rootCmd.AddCommand(purgeCmd)
}
