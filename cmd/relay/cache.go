package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or flush the relay's cache (component C1)",
	}
	cacheCmd.AddCommand(newCacheStatsCmd())
	cacheCmd.AddCommand(newCacheFlushCmd())
	rootCmd.AddCommand(cacheCmd)
}

func newCacheStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print per-{callingMethod, cacheType, method} call counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := buildRelay()
			if err != nil {
				return err
			}
			defer r.Close(context.Background())

			snapshot := r.Counters.Snapshot()
			if len(snapshot) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no cache calls recorded yet")
				return nil
			}
			for k, count := range snapshot {
				callingMethod, cacheType, method := k[0], k[1], k[2]
				fmt.Fprintf(cmd.OutOrStdout(), "%-24s %-8s %-24s %d\n", callingMethod, cacheType, method, count)
			}
			return nil
		},
	}
}

func newCacheFlushCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "flush",
		Short: "Clear every cached entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := buildRelay()
			if err != nil {
				return err
			}
			defer r.Close(context.Background())

			if err := r.Cache.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "cache flushed")
			return nil
		},
	}
}
