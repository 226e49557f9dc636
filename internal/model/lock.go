package model

import "math/big"

// Platform identifies a lock platform.
type Platform string

const (
	PlatformTeamFinance Platform = "teamfinance"
	PlatformUNCX        Platform = "uncx"
	PlatformGoPlus      Platform = "goplus"
	PlatformAggregator  Platform = "aggregator"
)

// LockClassification tags a log with the platform and contract version that
// emitted it. Computed once by the classifier and threaded through.
type LockClassification struct {
	Platform  Platform `json:"platform"`
	Version   string   `json:"version"`
	EventName string   `json:"event_name"`
}

// ExtractedLock is the field extractor's output before on-chain enrichment.
// Amount is in the token's native decimal units.
type ExtractedLock struct {
	Token     string
	Paired    string
	Amount    *big.Int
	UnlockAt  uint64
	HasUnlock bool
	IsLP      bool

	// Deferred second steps flagged by the layout.
	NeedsLPProbe   bool
	NeedsNFTLookup bool
	NFTManager     string
	TokenID        *big.Int
}

// LPPosition describes a concentrated-liquidity position backing a lock.
// TokensOwed are uncollected fees, informational only.
type LPPosition struct {
	Liquidity   string  `json:"liquidity"`
	FeeTier     uint32  `json:"fee_tier"`
	TickLower   int32   `json:"tick_lower"`
	TickUpper   int32   `json:"tick_upper"`
	TokensOwed0 string  `json:"tokens_owed0"`
	TokensOwed1 string  `json:"tokens_owed1"`
	Amount0     float64 `json:"amount0"`
	Amount1     float64 `json:"amount1"`
}

// PoolState holds live pool fields fetched at detection time.
type PoolState struct {
	Tick         int32  `json:"tick"`
	SqrtPriceX96 string `json:"sqrt_price_x96"`
}

// TokenLockRecord is the canonical normalized lock. UnlockTimestamp is nil for
// permanent locks. Never mutated once enrichment finishes.
type TokenLockRecord struct {
	ChainID       uint64   `json:"chain_id"`
	TxHash        string   `json:"tx_hash"`
	BlockNumber   uint64   `json:"block_number"`
	Platform      Platform `json:"platform"`
	Version       string   `json:"version"`
	EventName     string   `json:"event_name"`
	TokenAddress  string   `json:"token_address"`
	TokenSymbol   string   `json:"token_symbol,omitempty"`
	TokenDecimals uint8    `json:"token_decimals"`
	PairedToken   string   `json:"paired_token,omitempty"`

	Amount          string  `json:"amount"`
	AmountHuman     float64 `json:"amount_human"`
	UnlockTimestamp *uint64 `json:"unlock_timestamp,omitempty"`

	IsLPLock    bool        `json:"is_lp_lock"`
	LPPosition  *LPPosition `json:"lp_position,omitempty"`
	PoolAddress string      `json:"pool_address,omitempty"`
	PoolState   *PoolState  `json:"pool_state,omitempty"`
}

// SkipRecord reports a log that could not become a lock record.
type SkipRecord struct {
	ChainID     uint64 `json:"chain_id"`
	BlockNumber uint64 `json:"block_number"`
	TxHash      string `json:"tx_hash"`
	LogIndex    uint64 `json:"log_index"`
	Address     string `json:"address"`
	Topic0      string `json:"topic0"`
	Reason      string `json:"reason"`
}

// Skip reasons attached to SkipRecord rows.
const (
	SkipNoLock       = "no_lock"
	SkipDuplicate    = "duplicate_tx"
	SkipShortData    = "short_data"
	SkipUnresolved   = "unresolved_position"
	SkipBadInvariant = "invariant_violation"
)
