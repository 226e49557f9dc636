package pipeline

import (
	"bytes"
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/NonFungibleH/TF-Lock-Alert-Bot-sub000/internal/classify"
	"github.com/NonFungibleH/TF-Lock-Alert-Bot-sub000/internal/extract"
	"github.com/NonFungibleH/TF-Lock-Alert-Bot-sub000/internal/market"
	"github.com/NonFungibleH/TF-Lock-Alert-Bot-sub000/internal/model"
	"github.com/NonFungibleH/TF-Lock-Alert-Bot-sub000/internal/position"
	"github.com/NonFungibleH/TF-Lock-Alert-Bot-sub000/internal/score"
	"github.com/NonFungibleH/TF-Lock-Alert-Bot-sub000/internal/storage"
	"github.com/NonFungibleH/TF-Lock-Alert-Bot-sub000/internal/tickmath"
)

// Config holds pipeline runtime settings.
type Config struct {
	// Throttle is the fixed delay between successive records, a courtesy to
	// rate-limited third parties rather than a correctness requirement.
	Throttle     time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
}

// Sinks receive the pipeline's outputs.
type Sinks struct {
	Alerts []storage.AlertSink
	Skips  storage.SkipSink
}

// Summary counts a batch run.
type Summary struct {
	Total   int
	Alerts  int
	Skips   int
	Ignored int
}

// Pipeline turns raw logs into scored lock alerts: classify, extract,
// resolve, compute amounts, score. Stateless apart from the classifier's
// dedup cache; safe across independent lock events.
type Pipeline struct {
	cfg        Config
	classifier *classify.Classifier
	resolver   *position.Resolver
	tokenCache *position.TokenMetaCache
	market     *market.Client
	logger     *zap.Logger
}

// New builds a Pipeline.
func New(cfg Config, classifier *classify.Classifier, resolver *position.Resolver, marketClient *market.Client, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		cfg:        cfg,
		classifier: classifier,
		resolver:   resolver,
		tokenCache: position.NewTokenMetaCache(),
		market:     marketClient,
		logger:     logger,
	}
}

// ProcessBatch runs every log through the pipeline and flushes results to the
// sinks. Individual failures skip the record, never the batch.
func (p *Pipeline) ProcessBatch(ctx context.Context, logs []model.LogRecord, sinks Sinks) (Summary, error) {
	summary := Summary{Total: len(logs)}
	alerts := make([]model.LockAlert, 0, len(logs))
	skips := make([]model.SkipRecord, 0)

	for i, log := range logs {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		alert, skip := p.ProcessLog(ctx, log)
		switch {
		case alert != nil:
			alerts = append(alerts, *alert)
			summary.Alerts++
		case skip != nil:
			skips = append(skips, *skip)
			summary.Skips++
		default:
			summary.Ignored++
		}

		if p.cfg.Throttle > 0 && i < len(logs)-1 {
			timer := time.NewTimer(p.cfg.Throttle)
			select {
			case <-ctx.Done():
				timer.Stop()
				return summary, ctx.Err()
			case <-timer.C:
			}
		}
	}

	for _, sink := range sinks.Alerts {
		sink := sink
		err := withRetry(ctx, p.cfg.MaxRetries, p.cfg.RetryBackoff, func(context.Context) error {
			return sink.PutAlertBatch(alerts)
		})
		if err != nil {
			return summary, err
		}
	}
	if sinks.Skips != nil && len(skips) > 0 {
		err := withRetry(ctx, p.cfg.MaxRetries, p.cfg.RetryBackoff, func(context.Context) error {
			return sinks.Skips.PutSkipBatch(skips)
		})
		if err != nil {
			return summary, err
		}
	}

	return summary, nil
}

// ProcessLog turns one raw log into a scored alert, a skip row, or nothing
// when the log is not a lock at all.
func (p *Pipeline) ProcessLog(ctx context.Context, log model.LogRecord) (*model.LockAlert, *model.SkipRecord) {
	cls, ok := p.classifier.Classify(log)
	if !ok {
		return nil, nil
	}

	lock, err := extract.Extract(log, cls)
	if err != nil {
		p.logger.Warn("extract failed",
			zap.String("tx_hash", log.TxHash),
			zap.String("platform", string(cls.Platform)),
			zap.Error(err),
		)
		return nil, skipFor(log, model.SkipShortData)
	}

	record := model.TokenLockRecord{
		ChainID:     log.ChainID,
		TxHash:      log.TxHash,
		BlockNumber: log.BlockNumber,
		Platform:    cls.Platform,
		Version:     cls.Version,
		EventName:   cls.EventName,
		IsLPLock:    lock.IsLP,
	}
	if lock.HasUnlock {
		unlock := lock.UnlockAt
		record.UnlockTimestamp = &unlock
	}

	if lock.NeedsNFTLookup {
		if skip := p.enrichNFT(ctx, log, lock, &record); skip != nil {
			return nil, skip
		}
	} else {
		record.TokenAddress = lock.Token
		record.PairedToken = lock.Paired
		record.Amount = lock.Amount.String()
		if lock.NeedsLPProbe {
			p.probeLP(ctx, log.ChainID, lock, &record)
		}
	}

	meta, metaOK := p.resolver.TokenMeta(ctx, p.tokenCache, common.HexToAddress(record.TokenAddress))
	if metaOK {
		record.TokenSymbol = meta.Symbol
		record.TokenDecimals = meta.Decimals
		// Liquidity values are not token amounts; only scale plain locks.
		if record.Amount != "" && !record.IsLPLock {
			if amount, ok := new(big.Int).SetString(record.Amount, 10); ok {
				record.AmountHuman, _ = decimal.NewFromBigInt(amount, -int32(meta.Decimals)).Float64()
			}
		}
	}

	alert := p.scoreRecord(ctx, log, record, meta, metaOK)
	return &alert, nil
}

// enrichNFT resolves an NFT-deposit lock into its underlying position and
// computes the real token amounts behind it.
func (p *Pipeline) enrichNFT(ctx context.Context, log model.LogRecord, lock model.ExtractedLock, record *model.TokenLockRecord) *model.SkipRecord {
	data, ok := p.resolver.LookupPosition(ctx, common.HexToAddress(lock.NFTManager), lock.TokenID)
	if !ok {
		return skipFor(log, model.SkipUnresolved)
	}
	if data.TickLower > data.TickUpper {
		p.logger.Warn("position tick order violated",
			zap.String("tx_hash", log.TxHash),
			zap.Int32("tick_lower", data.TickLower),
			zap.Int32("tick_upper", data.TickUpper),
		)
		return skipFor(log, model.SkipBadInvariant)
	}

	primary, paired := extract.SplitPrimary(log.ChainID, data.Token0, data.Token1)
	record.TokenAddress = primary.Hex()
	record.PairedToken = paired.Hex()
	record.IsLPLock = true
	record.Amount = data.Liquidity.String()

	lp := &model.LPPosition{
		Liquidity:   data.Liquidity.String(),
		FeeTier:     data.Fee,
		TickLower:   data.TickLower,
		TickUpper:   data.TickUpper,
		TokensOwed0: data.TokensOwed0.String(),
		TokensOwed1: data.TokensOwed1.String(),
	}

	if pool, ok := position.PoolAddress(log.ChainID, data.Token0, data.Token1, data.Fee); ok {
		record.PoolAddress = pool.Hex()
		if state, ok := p.resolver.PoolState(ctx, pool); ok {
			record.PoolState = &state

			meta0, ok0 := p.resolver.TokenMeta(ctx, p.tokenCache, data.Token0)
			meta1, ok1 := p.resolver.TokenMeta(ctx, p.tokenCache, data.Token1)
			if ok0 && ok1 {
				amount0, amount1, err := tickmath.ComputeAmounts(
					data.Liquidity, data.TickLower, data.TickUpper, state.Tick,
					meta0.Decimals, meta1.Decimals,
				)
				if err == nil {
					lp.Amount0 = amount0
					lp.Amount1 = amount1
				} else {
					p.logger.Warn("amount derivation failed", zap.String("pool", pool.Hex()), zap.Error(err))
				}
			}
		}
	}

	record.LPPosition = lp
	return nil
}

// probeLP reclassifies a plain deposit as an LP lock when the locked token
// exposes the pooled-pair interface.
func (p *Pipeline) probeLP(ctx context.Context, chainID uint64, lock model.ExtractedLock, record *model.TokenLockRecord) {
	token0, token1, ok := p.resolver.ProbePair(ctx, common.HexToAddress(lock.Token))
	if !ok {
		return
	}
	primary, paired := extract.SplitPrimary(chainID, token0, token1)
	record.IsLPLock = true
	// The locked token itself is the pool.
	record.PoolAddress = lock.Token
	record.TokenAddress = primary.Hex()
	record.PairedToken = paired.Hex()
}

// scoreRecord assembles the signal bag and scores the finished record.
func (p *Pipeline) scoreRecord(ctx context.Context, log model.LogRecord, record model.TokenLockRecord, meta model.TokenMeta, metaOK bool) model.LockAlert {
	signals := model.ScoreSignals{TopHolderPercent: -1}

	if record.UnlockTimestamp != nil {
		reference := log.Timestamp
		if reference == 0 {
			reference = uint64(time.Now().Unix())
		}
		days := 0.0
		if *record.UnlockTimestamp > reference {
			days = float64(*record.UnlockTimestamp-reference) / 86400.0
		}
		signals.DurationDays = &days
	}

	if metaOK && meta.TotalSupply != "" && !record.IsLPLock {
		if supply, ok := new(big.Int).SetString(meta.TotalSupply, 10); ok && supply.Sign() > 0 {
			if amount, ok := new(big.Int).SetString(record.Amount, 10); ok {
				percent := new(big.Float).Quo(new(big.Float).SetInt(amount), new(big.Float).SetInt(supply))
				value, _ := percent.Float64()
				signals.LockedPercent = value * 100
			}
		}
	}
	if record.IsLPLock {
		// An LP lock escrows the pool tokens themselves; treat the position
		// as fully locked for scoring purposes.
		signals.LockedPercent = 100
	}

	var stats model.MarketStats
	if p.market != nil {
		var err error
		stats, err = p.market.PairStats(ctx, log.ChainID, record.TokenAddress)
		if err != nil {
			p.logger.Debug("market stats unavailable", zap.String("token", record.TokenAddress), zap.Error(err))
		} else {
			signals.AgeMinutes = stats.AgeMinutes
			signals.Buys24h = stats.Buys24h
			signals.Sells24h = stats.Sells24h
			signals.Volume24h = stats.Volume24h
			signals.LiquidityUSD = stats.LiquidityUSD
			signals.Makers24h = stats.Makers24h
		}

		if flags, holders, topPercent, err := p.market.TokenSecurity(ctx, log.ChainID, record.TokenAddress); err == nil {
			signals.Verified = flags.Verified
			signals.Renounced = flags.Renounced
			signals.Honeypot = flags.Honeypot
			signals.HolderCount = holders
			signals.TopHolderPercent = topPercent
		} else {
			p.logger.Debug("token security unavailable", zap.String("token", record.TokenAddress), zap.Error(err))
		}
	}

	signals.NativeLockedUSD = nativeLockedUSD(log.ChainID, record, stats)

	result := score.Compute(signals)
	p.logger.Info("lock scored",
		zap.String("tx_hash", record.TxHash),
		zap.String("platform", string(record.Platform)),
		zap.String("token", record.TokenAddress),
		zap.Bool("lp", record.IsLPLock),
		zap.Int("score", result.Score),
		zap.Bool("critical", result.Breakdown.CriticalFailure),
	)

	return model.LockAlert{
		Record:          record,
		Score:           result,
		PriceUSD:        stats.PriceUSD,
		MarketCapUSD:    stats.MarketCapUSD,
		LiquidityUSD:    stats.LiquidityUSD,
		LockedPercent:   signals.LockedPercent,
		NativeLockedUSD: signals.NativeLockedUSD,
	}
}

// nativeLockedUSD values the native-asset side of the lock. For LP positions
// the wrapped-native side of the range is used; plain locks fall back to the
// token's own USD price.
func nativeLockedUSD(chainID uint64, record model.TokenLockRecord, stats model.MarketStats) float64 {
	if record.LPPosition != nil && stats.NativePriceUSD > 0 {
		wrapped, ok := extract.WrappedNative(chainID)
		if ok && record.PairedToken == wrapped.Hex() {
			// Pool amounts follow token address order: the native side is
			// amount0 when the wrapped token sorts below the project token.
			primary := common.HexToAddress(record.TokenAddress)
			nativeAmount := record.LPPosition.Amount1
			if bytes.Compare(wrapped.Bytes(), primary.Bytes()) < 0 {
				nativeAmount = record.LPPosition.Amount0
			}
			return nativeAmount * stats.NativePriceUSD
		}
	}
	return record.AmountHuman * stats.PriceUSD
}

func skipFor(log model.LogRecord, reason string) *model.SkipRecord {
	topic0 := ""
	if len(log.Topics) > 0 {
		topic0 = log.Topics[0]
	}
	return &model.SkipRecord{
		ChainID:     log.ChainID,
		BlockNumber: log.BlockNumber,
		TxHash:      log.TxHash,
		LogIndex:    log.LogIndex,
		Address:     log.Address,
		Topic0:      topic0,
		Reason:      reason,
	}
}
