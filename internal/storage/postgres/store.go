package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/NonFungibleH/TF-Lock-Alert-Bot-sub000/internal/model"
)

// Store provides Postgres persistence for lock alerts.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// UpsertAlerts inserts or updates lock alert rows keyed by (chain_id, tx_hash).
func (s *Store) UpsertAlerts(ctx context.Context, alerts []model.LockAlert) error {
	if len(alerts) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, alert := range alerts {
		record := alert.Record

		var unlockTS *int64
		if record.UnlockTimestamp != nil {
			value := int64(*record.UnlockTimestamp)
			unlockTS = &value
		}

		var lpLiquidity, poolAddress string
		if record.LPPosition != nil {
			lpLiquidity = record.LPPosition.Liquidity
		}
		poolAddress = record.PoolAddress

		batch.Queue(`
			INSERT INTO lock_alerts (
				chain_id, tx_hash, block_number, platform, version, event_name,
				token_address, token_symbol, paired_token, amount, amount_human,
				unlock_ts, is_lp_lock, lp_liquidity, pool_address,
				score, locked_percent, native_locked_usd,
				price_usd, market_cap_usd, liquidity_usd,
				created_at, updated_at
			) VALUES (
				$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,now(),now()
			)
			ON CONFLICT (chain_id, tx_hash)
			DO UPDATE SET
				score = EXCLUDED.score,
				locked_percent = EXCLUDED.locked_percent,
				native_locked_usd = EXCLUDED.native_locked_usd,
				price_usd = EXCLUDED.price_usd,
				market_cap_usd = EXCLUDED.market_cap_usd,
				liquidity_usd = EXCLUDED.liquidity_usd,
				updated_at = now()
		`,
			int64(record.ChainID),
			record.TxHash,
			int64(record.BlockNumber),
			string(record.Platform),
			record.Version,
			record.EventName,
			record.TokenAddress,
			record.TokenSymbol,
			record.PairedToken,
			record.Amount,
			record.AmountHuman,
			unlockTS,
			record.IsLPLock,
			lpLiquidity,
			poolAddress,
			alert.Score.Score,
			alert.LockedPercent,
			alert.NativeLockedUSD,
			alert.PriceUSD,
			alert.MarketCapUSD,
			alert.LiquidityUSD,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range alerts {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// PutAlertBatch satisfies storage.AlertSink.
func (s *Store) PutAlertBatch(alerts []model.LockAlert) error {
	return s.UpsertAlerts(context.Background(), alerts)
}
