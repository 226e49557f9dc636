package market

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/NonFungibleH/TF-Lock-Alert-Bot-sub000/internal/model"
)

// chainSlugs maps chain IDs onto the screener API's chain identifiers.
var chainSlugs = map[uint64]string{
	1:     "ethereum",
	56:    "bsc",
	8453:  "base",
	42161: "arbitrum",
}

// Client fetches pair market data and token security flags over HTTP. Both
// fetches degrade to partial data; a failed lookup never aborts a record.
type Client struct {
	http         *resty.Client
	securityBase string
	logger       *zap.Logger
}

// Config holds market client settings.
type Config struct {
	ScreenerBaseURL string
	SecurityBaseURL string
	Timeout         time.Duration
}

// New builds a market data client.
func New(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.ScreenerBaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetRetryCount(2).
		SetRetryWaitTime(300 * time.Millisecond)
	return &Client{
		http:         httpClient,
		securityBase: strings.TrimRight(cfg.SecurityBaseURL, "/"),
		logger:       logger,
	}
}

type pairResponse struct {
	Pairs []struct {
		ChainID       string `json:"chainId"`
		PairCreatedAt int64  `json:"pairCreatedAt"`
		PriceUSD      string `json:"priceUsd"`
		PriceNative   string `json:"priceNative"`
		FDV           float64 `json:"fdv"`
		MarketCap     float64 `json:"marketCap"`
		Liquidity     struct {
			USD float64 `json:"usd"`
		} `json:"liquidity"`
		Volume struct {
			H24 float64 `json:"h24"`
		} `json:"volume"`
		Txns struct {
			H24 struct {
				Buys  int `json:"buys"`
				Sells int `json:"sells"`
			} `json:"h24"`
		} `json:"txns"`
		Makers struct {
			H24 int `json:"h24"`
		} `json:"makers"`
	} `json:"pairs"`
}

// PairStats fetches market data for a token, picking the deepest pair on the
// requested chain.
func (c *Client) PairStats(ctx context.Context, chainID uint64, token string) (model.MarketStats, error) {
	slug, ok := chainSlugs[chainID]
	if !ok {
		return model.MarketStats{}, fmt.Errorf("unsupported chain %d", chainID)
	}

	var body pairResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&body).
		Get("/latest/dex/tokens/" + token)
	if err != nil {
		return model.MarketStats{}, fmt.Errorf("pair stats: %w", err)
	}
	if resp.IsError() {
		return model.MarketStats{}, fmt.Errorf("pair stats: status %d", resp.StatusCode())
	}

	var best *model.MarketStats
	now := time.Now()
	for _, pair := range body.Pairs {
		if pair.ChainID != slug {
			continue
		}
		stats := model.MarketStats{
			PriceUSD:     parseFloat(pair.PriceUSD),
			MarketCapUSD: pair.MarketCap,
			LiquidityUSD: pair.Liquidity.USD,
			Volume24h:    pair.Volume.H24,
			Buys24h:      pair.Txns.H24.Buys,
			Sells24h:     pair.Txns.H24.Sells,
			Makers24h:    pair.Makers.H24,
		}
		if stats.MarketCapUSD == 0 {
			stats.MarketCapUSD = pair.FDV
		}
		if native := parseFloat(pair.PriceNative); native > 0 {
			stats.NativePriceUSD = stats.PriceUSD / native
		}
		if pair.PairCreatedAt > 0 {
			created := time.UnixMilli(pair.PairCreatedAt)
			stats.AgeMinutes = now.Sub(created).Minutes()
		}
		if best == nil || stats.LiquidityUSD > best.LiquidityUSD {
			snapshot := stats
			best = &snapshot
		}
	}
	if best == nil {
		return model.MarketStats{}, fmt.Errorf("no pairs for token %s on %s", token, slug)
	}
	return *best, nil
}

type securityResponse struct {
	IsHoneypot bool `json:"isHoneypot"`
	Contract   struct {
		Verified  bool `json:"verified"`
		Renounced bool `json:"renounced"`
	} `json:"contract"`
	Holders struct {
		Count       int     `json:"count"`
		Top10Percent float64 `json:"top10Percent"`
	} `json:"holders"`
}

// TokenSecurity fetches contract-safety flags and holder distribution.
// Holder fields come back nil/negative when the provider omits them.
func (c *Client) TokenSecurity(ctx context.Context, chainID uint64, token string) (model.SecurityFlags, *int, float64, error) {
	if c.securityBase == "" {
		return model.SecurityFlags{}, nil, -1, fmt.Errorf("security endpoint not configured")
	}

	var body securityResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&body).
		SetQueryParam("address", token).
		SetQueryParam("chainID", fmt.Sprintf("%d", chainID)).
		Get(c.securityBase + "/v2/IsHoneypot")
	if err != nil {
		return model.SecurityFlags{}, nil, -1, fmt.Errorf("token security: %w", err)
	}
	if resp.IsError() {
		return model.SecurityFlags{}, nil, -1, fmt.Errorf("token security: status %d", resp.StatusCode())
	}

	flags := model.SecurityFlags{
		Verified:  body.Contract.Verified,
		Renounced: body.Contract.Renounced,
		Honeypot:  body.IsHoneypot,
	}
	var holders *int
	if body.Holders.Count > 0 {
		count := body.Holders.Count
		holders = &count
	}
	topPercent := body.Holders.Top10Percent
	if topPercent <= 0 {
		topPercent = -1
	}
	return flags, holders, topPercent, nil
}

func parseFloat(value string) float64 {
	out, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return out
}
