package model

// ScoreSignals is the flattened bag of inputs for the opportunity scorer.
// Pointer fields are nil when the signal could not be determined.
type ScoreSignals struct {
	LockedPercent   float64  `json:"locked_percent"`
	DurationDays    *float64 `json:"duration_days,omitempty"`
	NativeLockedUSD float64  `json:"native_locked_usd"`

	Verified  bool `json:"verified"`
	Renounced bool `json:"renounced"`
	Honeypot  bool `json:"honeypot"`

	TopHolderPercent float64 `json:"top_holder_percent"`
	HolderCount      *int    `json:"holder_count,omitempty"`

	AgeMinutes   float64 `json:"age_minutes"`
	Buys24h      int     `json:"buys_24h"`
	Sells24h     int     `json:"sells_24h"`
	Volume24h    float64 `json:"volume_24h"`
	LiquidityUSD float64 `json:"liquidity_usd"`
	Makers24h    int     `json:"makers_24h"`
}

// ScoreBreakdown lists the four sub-scores summing to the raw score.
type ScoreBreakdown struct {
	LockQuality     int  `json:"lock_quality"`
	ContractSafety  int  `json:"contract_safety"`
	Distribution    int  `json:"distribution"`
	MarketMetrics   int  `json:"market_metrics"`
	CriticalFailure bool `json:"critical_failure"`
}

// ScoreResult is the bounded composite score.
type ScoreResult struct {
	Score     int            `json:"score"`
	Breakdown ScoreBreakdown `json:"breakdown"`
}
