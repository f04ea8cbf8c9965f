package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hiero-ledger/hedera-json-rpc-relay-go/config"
	"github.com/hiero-ledger/hedera-json-rpc-relay-go/relay"
)

const version = "v0.1"

var rootCmd = &cobra.Command{
	Use:   "relay",
	Short: "Hedera JSON-RPC relay -- gateway, cache and pending-pool admin CLI",
	Args:  cobra.MinimumNArgs(1),
}

func init() {
	var versionCmd = &cobra.Command{
		Use:   "version",
		Short: "print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "relay", version)
		},
	}
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// buildRelay constructs a relay.Relay from the process environment, the
// same os.Getenv-driven wiring cmd/chain-watch/main.go uses for its
// optional Redis backend, generalized here to the full recognised
// configuration surface (spec.md §6).
func buildRelay() (*relay.Relay, error) {
	cfg := config.Config{
		MirrorNodeURL:     os.Getenv("MIRROR_NODE_URL"),
		MirrorNodeURLWeb3: os.Getenv("MIRROR_NODE_URL_WEB3"),
		RedisURL:          os.Getenv("REDIS_URL"),
		ChainID:           envUint64("CHAIN_ID", 0x128),
		ReadOnly:          envBool("READ_ONLY"),
		EnableTxPool:      !envBool("DISABLE_TX_POOL"),
		LogLevel:          envOr("LOG_LEVEL", "info"),
	}

	op := relay.OperatorConfig{
		Network:       envOr("HEDERA_NETWORK", "testnet"),
		OperatorID:    os.Getenv("HEDERA_OPERATOR_ID"),
		PrivateKey:    os.Getenv("HEDERA_OPERATOR_KEY"),
		DefaultPlanID: envOr("HBAR_DEFAULT_PLAN_ID", "default"),
	}

	return relay.New(cfg, op, newLogger(cfg.LogLevel))
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string) bool {
	v, _ := strconv.ParseBool(os.Getenv(key))
	return v
}

func envUint64(key string, def uint64) uint64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseUint(v, 0, 64)
	if err != nil {
		return def
	}
	return n
}
