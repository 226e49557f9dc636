package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/NonFungibleH/TF-Lock-Alert-Bot-sub000/internal/chain"
	"github.com/NonFungibleH/TF-Lock-Alert-Bot-sub000/internal/classify"
	"github.com/NonFungibleH/TF-Lock-Alert-Bot-sub000/internal/config"
	"github.com/NonFungibleH/TF-Lock-Alert-Bot-sub000/internal/market"
	"github.com/NonFungibleH/TF-Lock-Alert-Bot-sub000/internal/model"
	"github.com/NonFungibleH/TF-Lock-Alert-Bot-sub000/internal/pipeline"
	"github.com/NonFungibleH/TF-Lock-Alert-Bot-sub000/internal/position"
	"github.com/NonFungibleH/TF-Lock-Alert-Bot-sub000/internal/storage"
	"github.com/NonFungibleH/TF-Lock-Alert-Bot-sub000/internal/storage/postgres"
)

// batchInput is the JSONL input shape: each line is either a bare LogRecord
// or a wrapper carrying ABI entries for topic resolution.
type batchInput struct {
	Log model.LogRecord  `json:"log"`
	ABI []model.ABIEntry `json:"abi,omitempty"`
}

func runProcess(cmd *cobra.Command, _ []string) error {
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
	if cfg.In == "" {
		return fmt.Errorf("input path is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	records, abiEntries, err := readBatch(cfg.In)
	if err != nil {
		return err
	}

	pipe, _, sinks, cleanup, err := buildPipeline(ctx, cfg, abiEntries, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	logger.Info("process start",
		zap.Int("rpc_endpoints", len(cfg.RPCURLs)),
		zap.String("in", cfg.In),
		zap.String("out", cfg.Out),
		zap.Int("records", len(records)),
	)

	summary, err := pipe.ProcessBatch(ctx, records, sinks)
	if err != nil {
		return err
	}

	logger.Info("process complete",
		zap.Int("total", summary.Total),
		zap.Int("alerts", summary.Alerts),
		zap.Int("skips", summary.Skips),
		zap.Int("ignored", summary.Ignored),
	)
	return nil
}

func buildPipeline(ctx context.Context, cfg config.Config, abiEntries []model.ABIEntry, logger *zap.Logger) (*pipeline.Pipeline, *chain.Client, pipeline.Sinks, func(), error) {
	chainClient, err := chain.Dial(ctx, cfg.RPCURLs, cfg.CallTimeout, logger)
	if err != nil {
		return nil, nil, pipeline.Sinks{}, nil, fmt.Errorf("connect rpc: %w", err)
	}

	classifier := classify.New(classify.Config{
		DedupeTTL:      cfg.DedupeTTL,
		DedupeCapacity: cfg.DedupeCapacity,
		TopicMap:       classify.TopicMapFromABI(abiEntries),
	}, logger)

	resolver := position.NewResolver(chainClient, logger)

	marketClient := market.New(market.Config{
		ScreenerBaseURL: cfg.ScreenerBaseURL,
		SecurityBaseURL: cfg.SecurityBaseURL,
		Timeout:         cfg.CallTimeout,
	}, logger)

	pipe := pipeline.New(pipeline.Config{
		Throttle:     cfg.Throttle,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
	}, classifier, resolver, marketClient, logger)

	jsonl := storage.NewJsonlSink(cfg.Out, cfg.Errors)
	sinks := pipeline.Sinks{
		Alerts: []storage.AlertSink{jsonl},
		Skips:  jsonl,
	}

	cleanup := func() { chainClient.Close() }
	if cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			chainClient.Close()
			return nil, nil, pipeline.Sinks{}, nil, fmt.Errorf("connect postgres: %w", err)
		}
		sinks.Alerts = append(sinks.Alerts, store)
		cleanup = func() {
			store.Close()
			chainClient.Close()
		}
	}

	return pipe, chainClient, sinks, cleanup, nil
}

// readBatch loads the JSONL input. ABI entries found on any line are merged
// into one set for the whole batch.
func readBatch(path string) ([]model.LogRecord, []model.ABIEntry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open input: %w", err)
	}
	defer file.Close()

	var records []model.LogRecord
	abiEntries := make([]model.ABIEntry, 0)

	scanner := bufio.NewScanner(file)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var wrapped batchInput
		if err := json.Unmarshal(line, &wrapped); err == nil && wrapped.Log.TxHash != "" {
			records = append(records, wrapped.Log)
			abiEntries = append(abiEntries, wrapped.ABI...)
			continue
		}

		var record model.LogRecord
		if err := json.Unmarshal(line, &record); err != nil {
			return nil, nil, fmt.Errorf("parse input line: %w", err)
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("read input: %w", err)
	}

	return records, abiEntries, nil
}
