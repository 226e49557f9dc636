package model

// TokenMeta captures ERC20 metadata fetched at detection time.
type TokenMeta struct {
	Address     string `json:"address"`
	Decimals    uint8  `json:"decimals"`
	Symbol      string `json:"symbol"`
	Name        string `json:"name"`
	TotalSupply string `json:"total_supply,omitempty"`
}

// MarketStats holds pair-level market data fetched from the screener API.
type MarketStats struct {
	PriceUSD       float64 `json:"price_usd"`
	NativePriceUSD float64 `json:"native_price_usd"`
	MarketCapUSD   float64 `json:"market_cap_usd"`
	LiquidityUSD   float64 `json:"liquidity_usd"`
	Volume24h      float64 `json:"volume_24h"`
	Buys24h        int     `json:"buys_24h"`
	Sells24h       int     `json:"sells_24h"`
	Makers24h      int     `json:"makers_24h"`
	AgeMinutes     float64 `json:"age_minutes"`
}

// SecurityFlags holds contract-safety signals for a token.
type SecurityFlags struct {
	Verified  bool `json:"verified"`
	Renounced bool `json:"renounced"`
	Honeypot  bool `json:"honeypot"`
}
