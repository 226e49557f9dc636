package main

import (
	"fmt"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/NonFungibleH/TF-Lock-Alert-Bot-sub000/internal/position"
)

func main() {
	root := &cobra.Command{
		Use:          "lockalert",
		Short:        "Token lock detector and scorer",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	processCmd := &cobra.Command{
		Use:   "process",
		Short: "Process a raw-log JSONL batch into scored lock alerts",
		RunE:  runProcess,
	}

	processCmd.Flags().StringSlice("rpc", nil, "RPC URLs (comma-separated, raced per call)")
	processCmd.Flags().Uint64("chain-id", 0, "chain id of the log batch")
	processCmd.Flags().String("in", "", "input raw logs JSONL")
	processCmd.Flags().String("out", "./data/lock_alerts.jsonl", "output lock alerts JSONL")
	processCmd.Flags().String("errors", "./data/lock_skips.jsonl", "skipped records JSONL")
	processCmd.Flags().String("pg-dsn", "", "optional Postgres DSN for alert upserts")
	processCmd.Flags().String("screener-url", "https://api.dexscreener.com", "market screener base URL")
	processCmd.Flags().String("security-url", "", "token security API base URL")
	processCmd.Flags().Duration("call-timeout", 5*time.Second, "per-RPC-call timeout")
	processCmd.Flags().Duration("throttle", 500*time.Millisecond, "delay between records")
	processCmd.Flags().Int("max-retries", 5, "maximum retry attempts for sink writes")
	processCmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	processCmd.Flags().Duration("dedupe-ttl", 30*time.Minute, "duplicate transaction window")
	processCmd.Flags().Int("dedupe-capacity", 10000, "duplicate cache capacity")
	processCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(processCmd)

	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan locker contracts over a block range",
		RunE:  runScan,
	}

	scanCmd.Flags().StringSlice("rpc", nil, "RPC URLs (comma-separated, raced per call)")
	scanCmd.Flags().Uint64("chain-id", 0, "chain id to scan")
	scanCmd.Flags().Uint64("from", 0, "start block (inclusive)")
	scanCmd.Flags().Uint64("to", 0, "end block (inclusive), 0 means latest")
	scanCmd.Flags().Uint64("batch-size", 2000, "blocks per span")
	scanCmd.Flags().String("checkpoint", "./data/checkpoint.json", "checkpoint file path")
	scanCmd.Flags().Bool("checkpoint-enabled", true, "enable checkpointing")
	scanCmd.Flags().Bool("resolve-senders", false, "resolve transaction senders for aggregator attribution")
	scanCmd.Flags().String("out", "./data/lock_alerts.jsonl", "output lock alerts JSONL")
	scanCmd.Flags().String("errors", "./data/lock_skips.jsonl", "skipped records JSONL")
	scanCmd.Flags().String("pg-dsn", "", "optional Postgres DSN for alert upserts")
	scanCmd.Flags().String("screener-url", "https://api.dexscreener.com", "market screener base URL")
	scanCmd.Flags().String("security-url", "", "token security API base URL")
	scanCmd.Flags().Duration("call-timeout", 5*time.Second, "per-RPC-call timeout")
	scanCmd.Flags().Duration("throttle", 500*time.Millisecond, "delay between records")
	scanCmd.Flags().Int("max-retries", 5, "maximum retry attempts")
	scanCmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	scanCmd.Flags().Duration("dedupe-ttl", 30*time.Minute, "duplicate transaction window")
	scanCmd.Flags().Int("dedupe-capacity", 10000, "duplicate cache capacity")
	scanCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(scanCmd)

	poolCmd := &cobra.Command{
		Use:   "pool <chain-id> <tokenA> <tokenB> <fee>",
		Short: "Derive the deterministic pool address for a pair",
		Args:  cobra.ExactArgs(4),
		RunE:  runPool,
	}

	root.AddCommand(poolCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runPool(_ *cobra.Command, args []string) error {
	var chainID uint64
	if _, err := fmt.Sscanf(args[0], "%d", &chainID); err != nil {
		return fmt.Errorf("invalid chain id: %s", args[0])
	}
	if !common.IsHexAddress(args[1]) || !common.IsHexAddress(args[2]) {
		return fmt.Errorf("invalid token address")
	}
	var fee uint32
	if _, err := fmt.Sscanf(args[3], "%d", &fee); err != nil {
		return fmt.Errorf("invalid fee tier: %s", args[3])
	}

	pool, ok := position.PoolAddress(chainID, common.HexToAddress(args[1]), common.HexToAddress(args[2]), fee)
	if !ok {
		return fmt.Errorf("no factory constants for chain %d", chainID)
	}
	fmt.Println(pool.Hex())
	return nil
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
