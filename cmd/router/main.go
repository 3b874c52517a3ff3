package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	root := &cobra.Command{
		Use:          "router",
		Short:        "Solana venue codec and atomic route executor",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	venuesCmd := &cobra.Command{
		Use:   "venues",
		Short: "List venue ids and whether they are supported",
		RunE:  runVenues,
	}
	venuesCmd.Flags().Bool("supported", false, "only list supported venues")
	root.AddCommand(venuesCmd)

	encodeCmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode one venue swap and print its payload and accounts",
		RunE:  runEncode,
	}
	addEncodeFlags(encodeCmd)
	root.AddCommand(encodeCmd)

	decodeCmd := &cobra.Command{
		Use:   "decode <hex payload>",
		Short: "Decode a venue payload into named fields",
		Args:  cobra.ExactArgs(1),
		RunE:  runDecode,
	}
	decodeCmd.Flags().String("venue", "", "venue name (see venues)")
	decodeCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.AddCommand(decodeCmd)

	evaluateCmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Read the plan's price accounts and run the arbitrage gate",
		RunE:  runEvaluate,
	}
	evaluateCmd.Flags().String("rpc", "https://api.mainnet-beta.solana.com", "Solana RPC URL")
	evaluateCmd.Flags().String("plan", "", "route plan JSON with a gate section")
	evaluateCmd.Flags().String("participant", "", "participant the report is stored under")
	evaluateCmd.Flags().Int("rate-limit", 10, "RPC calls per second, 0 disables pacing")
	addGateFlags(evaluateCmd)
	addStorageFlags(evaluateCmd)
	evaluateCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.AddCommand(evaluateCmd)

	executeCmd := &cobra.Command{
		Use:   "execute",
		Short: "Execute a route plan as one atomic unit",
		RunE:  runExecute,
	}
	executeCmd.Flags().String("rpc", "https://api.mainnet-beta.solana.com", "Solana RPC URL")
	executeCmd.Flags().String("keypair", "~/.config/solana/id.json", "signer keypair file")
	executeCmd.Flags().String("plan", "", "route plan JSON")
	executeCmd.Flags().Uint64("min-output-override", 0, "minimum output for hops that do not set one")
	executeCmd.Flags().Int("max-retries", 5, "maximum retry attempts for blockhash refresh")
	executeCmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	executeCmd.Flags().Duration("refresh-interval", 2*time.Second, "blockhash refresh interval")
	executeCmd.Flags().Duration("timeout", 30*time.Second, "how long to wait for a blockhash before giving up")
	executeCmd.Flags().Int("rate-limit", 10, "RPC calls per second, 0 disables pacing")
	executeCmd.Flags().Float64("breaker-failure-ratio", 0.6, "submission failure ratio that opens the breaker")
	executeCmd.Flags().Uint32("breaker-min-requests", 5, "submissions before the breaker may open")
	executeCmd.Flags().String("gate-program", "", "on-chain gate program id")
	executeCmd.Flags().Bool("on-chain-gate", false, "append the on-chain gate call to gated units")
	executeCmd.Flags().Bool("simulate", true, "simulate instead of sending")
	addGateFlags(executeCmd)
	addStorageFlags(executeCmd)
	executeCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.AddCommand(executeCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func addGateFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("enforce-freshness-starting", true, "reject a stale starting price")
	cmd.Flags().Bool("enforce-freshness-bridging", false, "reject a stale bridging price")
	cmd.Flags().Bool("enforce-freshness-crossing", true, "reject a stale crossing price")
	cmd.Flags().Duration("max-age", 6000*time.Second, "maximum price age")
	cmd.Flags().Uint8("min-signatures", 4, "minimum partial verification signatures")
	cmd.Flags().Bool("full-verification", false, "require fully verified price updates")
}

func addStorageFlags(cmd *cobra.Command) {
	cmd.Flags().String("report-store", "file", "report store (file, postgres, sqlite, none)")
	cmd.Flags().String("report-file", "./data/reports.json", "report file for the file store")
	cmd.Flags().String("pg-dsn", "", "Postgres DSN")
	cmd.Flags().String("sqlite-path", "./data/router.db", "SQLite database path")
	cmd.Flags().String("journal", "./data/units.jsonl", "unit record JSONL path, empty disables it")
}

func addEncodeFlags(cmd *cobra.Command) {
	cmd.Flags().String("venue", "", "venue name (see venues)")
	cmd.Flags().String("amount", "", "input amount, raw units unless --decimals is set")
	cmd.Flags().Uint64("decimals", 0, "scale --amount by the source mint decimals")
	cmd.Flags().Uint64("min-output-override", 0, "minimum output")
	cmd.Flags().String("user", "", "user wallet")
	cmd.Flags().String("source-mint", "", "source mint")
	cmd.Flags().String("destination-mint", "", "destination mint")
	cmd.Flags().String("accounts", "", "named venue accounts (comma-separated name=key)")
	cmd.Flags().StringSlice("trailing", nil, "trailing account candidates, empty entries are absent")
	cmd.Flags().String("params", "", "venue params (comma-separated name=value)")
	cmd.Flags().String("arb-dex", "", "wrap in the arb program instruction: a dex tag or auto")
	cmd.Flags().Uint64("max-bin-to-process", 20, "arb program max bins")
	cmd.Flags().Uint64("min-profit-threshold", 0, "arb program minimum profit")
	cmd.Flags().Bool("no-failure", true, "arb program no-failure flag")
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
