package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/NonFungibleH/TF-Lock-Alert-Bot-sub000/internal/config"
	"github.com/NonFungibleH/TF-Lock-Alert-Bot-sub000/internal/ingest"
)

func runScan(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if len(cfg.RPCURLs) == 0 {
		return fmt.Errorf("at least one rpc url is required")
	}
	if cfg.ChainID == 0 {
		return fmt.Errorf("chain id is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pipe, chainClient, sinks, cleanup, err := buildPipeline(ctx, cfg, nil, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	remoteChainID, err := chainClient.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("get chain id: %w", err)
	}
	if remoteChainID.Uint64() != cfg.ChainID {
		return fmt.Errorf("rpc chain id %s does not match configured chain id %d", remoteChainID, cfg.ChainID)
	}

	logger.Info("scan start",
		zap.Uint64("chain_id", cfg.ChainID),
		zap.Uint64("from", cfg.FromBlock),
		zap.Uint64("to", cfg.ToBlock),
		zap.Uint64("batch_size", cfg.BatchSize),
		zap.Int("rpc_endpoints", len(cfg.RPCURLs)),
	)

	runner := ingest.NewRunner(ingest.RunConfig{
		ChainID:           cfg.ChainID,
		FromBlock:         cfg.FromBlock,
		ToBlock:           cfg.ToBlock,
		BatchSize:         cfg.BatchSize,
		CheckpointPath:    cfg.Checkpoint,
		CheckpointEnabled: cfg.CheckpointEnabled,
		ResolveSenders:    cfg.ResolveSenders,
	}, chainClient, pipe, sinks, logger)

	if err := runner.Run(ctx); err != nil {
		return err
	}

	logger.Info("scan complete")
	return nil
}
