package market

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestPairStatsPicksDeepestPair(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/latest/dex/tokens/0xtoken" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"pairs":[
			{"chainId":"bsc","priceUsd":"9.99","liquidity":{"usd":999999}},
			{"chainId":"ethereum","priceUsd":"1.50","priceNative":"0.0005","marketCap":1000000,
			 "liquidity":{"usd":50000},"volume":{"h24":120000},
			 "txns":{"h24":{"buys":300,"sells":100}},"makers":{"h24":80}},
			{"chainId":"ethereum","priceUsd":"1.40","liquidity":{"usd":2000}}
		]}`))
	}))
	defer server.Close()

	client := New(Config{ScreenerBaseURL: server.URL, Timeout: 2 * time.Second}, nil)

	stats, err := client.PairStats(context.Background(), 1, "0xtoken")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.PriceUSD != 1.50 {
		t.Fatalf("price mismatch: %f", stats.PriceUSD)
	}
	if stats.LiquidityUSD != 50000 {
		t.Fatalf("deepest same-chain pair not selected: %f", stats.LiquidityUSD)
	}
	if stats.NativePriceUSD != 3000 {
		t.Fatalf("native price mismatch: %f", stats.NativePriceUSD)
	}
	if stats.Buys24h != 300 || stats.Sells24h != 100 || stats.Makers24h != 80 {
		t.Fatalf("txn stats mismatch: %+v", stats)
	}
}

func TestPairStatsNoMatchingChain(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"pairs":[{"chainId":"bsc","priceUsd":"1.0","liquidity":{"usd":1000}}]}`))
	}))
	defer server.Close()

	client := New(Config{ScreenerBaseURL: server.URL, Timeout: 2 * time.Second}, nil)

	if _, err := client.PairStats(context.Background(), 1, "0xtoken"); err == nil {
		t.Fatalf("expected error when no pair matches the chain")
	}
}

func TestPairStatsUnsupportedChain(t *testing.T) {
	client := New(Config{ScreenerBaseURL: "http://localhost:1"}, nil)
	if _, err := client.PairStats(context.Background(), 777, "0xtoken"); err == nil {
		t.Fatalf("expected error for unsupported chain")
	}
}

func TestTokenSecurity(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/IsHoneypot" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("address") != "0xtoken" {
			t.Errorf("missing address param")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"isHoneypot":false,
			"contract":{"verified":true,"renounced":true},
			"holders":{"count":1500,"top10Percent":12.5}}`))
	}))
	defer server.Close()

	client := New(Config{SecurityBaseURL: server.URL, Timeout: 2 * time.Second}, nil)

	flags, holders, topPercent, err := client.TokenSecurity(context.Background(), 1, "0xtoken")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !flags.Verified || !flags.Renounced || flags.Honeypot {
		t.Fatalf("flags mismatch: %+v", flags)
	}
	if holders == nil || *holders != 1500 {
		t.Fatalf("holder count mismatch: %v", holders)
	}
	if topPercent != 12.5 {
		t.Fatalf("top holder percent mismatch: %f", topPercent)
	}
}

func TestTokenSecurityUnconfigured(t *testing.T) {
	client := New(Config{}, nil)
	if _, _, _, err := client.TokenSecurity(context.Background(), 1, "0xtoken"); err == nil {
		t.Fatalf("expected error when security endpoint is not configured")
	}
}
