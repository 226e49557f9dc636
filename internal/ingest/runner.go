package ingest

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/NonFungibleH/TF-Lock-Alert-Bot-sub000/internal/chain"
	"github.com/NonFungibleH/TF-Lock-Alert-Bot-sub000/internal/classify"
	"github.com/NonFungibleH/TF-Lock-Alert-Bot-sub000/internal/model"
	"github.com/NonFungibleH/TF-Lock-Alert-Bot-sub000/internal/pipeline"
)

// RunConfig holds runtime settings for a chain scan.
type RunConfig struct {
	ChainID           uint64
	FromBlock         uint64
	ToBlock           uint64
	BatchSize         uint64
	CheckpointPath    string
	CheckpointEnabled bool
	// ResolveSenders fetches each lock transaction's sender so aggregator
	// attribution can fire; costs one extra RPC per log.
	ResolveSenders bool
}

// Runner scans locker contracts over a block range and feeds each log through
// the pipeline.
type Runner struct {
	cfg        RunConfig
	chain      *chain.Client
	pipe       *pipeline.Pipeline
	sinks      pipeline.Sinks
	logger     *zap.Logger
	checkpoint *CheckpointStore
}

// NewRunner builds a Runner.
func NewRunner(cfg RunConfig, chainClient *chain.Client, pipe *pipeline.Pipeline, sinks pipeline.Sinks, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		cfg:        cfg,
		chain:      chainClient,
		pipe:       pipe,
		sinks:      sinks,
		logger:     logger,
		checkpoint: NewCheckpointStore(cfg.CheckpointPath, cfg.CheckpointEnabled),
	}
}

// Run executes the scan loop.
func (r *Runner) Run(ctx context.Context) error {
	if r.chain == nil {
		return fmt.Errorf("chain client is nil")
	}
	if r.pipe == nil {
		return fmt.Errorf("pipeline is nil")
	}
	if r.cfg.BatchSize == 0 {
		return fmt.Errorf("batch size must be greater than zero")
	}

	addresses := classify.RegistryAddresses(r.cfg.ChainID)
	if len(addresses) == 0 {
		return fmt.Errorf("no locker contracts registered for chain %d", r.cfg.ChainID)
	}
	topics := classify.KnownTopics()

	from := r.cfg.FromBlock
	to := r.cfg.ToBlock
	if to == 0 {
		latest, err := r.chain.LatestBlockNumber(ctx)
		if err != nil {
			return fmt.Errorf("get latest block: %w", err)
		}
		to = latest
	}

	if r.checkpoint != nil {
		cp, ok, err := r.checkpoint.Load(r.cfg.ChainID)
		if err != nil {
			return err
		}
		if ok && cp.LastProcessedBlock >= from {
			from = cp.LastProcessedBlock + 1
			r.logger.Info("resume from checkpoint", zap.Uint64("last_processed", cp.LastProcessedBlock), zap.Uint64("from", from))
		}
	}

	if from > to {
		r.logger.Info("nothing to scan", zap.Uint64("from", from), zap.Uint64("to", to))
		return nil
	}

	spans, err := SplitSpan(from, to, r.cfg.BatchSize)
	if err != nil {
		return err
	}

	for _, span := range spans {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		r.logger.Info("scan span", zap.Uint64("from", span.From), zap.Uint64("to", span.To), zap.Int("addresses", len(addresses)))

		logs, err := r.chain.FilterLogs(ctx, span.From, span.To, addresses, topics)
		if err != nil {
			return fmt.Errorf("filter logs: %w", err)
		}

		records := make([]model.LogRecord, 0, len(logs))
		for _, log := range logs {
			txFrom := ""
			if r.cfg.ResolveSenders {
				if sender, err := r.chain.TransactionSender(ctx, log.TxHash, log.BlockHash, log.TxIndex); err == nil {
					txFrom = sender.Hex()
				} else {
					r.logger.Debug("sender lookup failed", zap.String("tx_hash", log.TxHash.Hex()), zap.Error(err))
				}
			}
			records = append(records, buildLogRecord(r.cfg.ChainID, log, txFrom))
		}

		summary, err := r.pipe.ProcessBatch(ctx, records, r.sinks)
		if err != nil {
			return fmt.Errorf("process span %d-%d: %w", span.From, span.To, err)
		}

		if r.checkpoint != nil {
			if err := r.checkpoint.Save(r.cfg.ChainID, span.To); err != nil {
				return err
			}
		}

		r.logger.Info("span complete",
			zap.Uint64("from", span.From),
			zap.Uint64("to", span.To),
			zap.Int("logs", summary.Total),
			zap.Int("alerts", summary.Alerts),
			zap.Int("skips", summary.Skips),
		)
	}

	return nil
}
