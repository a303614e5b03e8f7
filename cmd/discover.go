package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Discover brand pages across configured category pages",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		saved, err := runDiscover(ctx, st)
		if err != nil {
			return err
		}

		fmt.Printf("saved %d brand targets\n", saved)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(discoverCmd)
}
