package model

// LockAlert is the persisted row handed to downstream collaborators: the
// normalized lock plus the market snapshot and score at detection time.
type LockAlert struct {
	Record TokenLockRecord `json:"record"`
	Score  ScoreResult     `json:"score"`

	PriceUSD        float64 `json:"price_usd"`
	MarketCapUSD    float64 `json:"market_cap_usd"`
	LiquidityUSD    float64 `json:"liquidity_usd"`
	LockedPercent   float64 `json:"locked_percent"`
	NativeLockedUSD float64 `json:"native_locked_usd"`
}
