package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	txpoolCmd := &cobra.Command{
		Use:   "txpool",
		Short: "Inspect or flush the relay's pending-transaction pool (component C3)",
	}
	txpoolCmd.AddCommand(newTxPoolStatusCmd())
	txpoolCmd.AddCommand(newTxPoolFlushCmd())
	rootCmd.AddCommand(txpoolCmd)
}

func newTxPoolStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the number of pending transactions and whether the pool is enabled",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := buildRelay()
			if err != nil {
				return err
			}
			defer r.Close(context.Background())

			txs, err := r.Pool.GetAllTransactions(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "enabled: %v\npending: %d\n", r.Pool.Enabled(), len(txs))
			return nil
		},
	}
}

func newTxPoolFlushCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "flush",
		Short: "Clear every pending transaction",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := buildRelay()
			if err != nil {
				return err
			}
			defer r.Close(context.Background())

			if err := r.Pool.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "pending pool flushed")
			return nil
		},
	}
}
