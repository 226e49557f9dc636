package pipeline

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/NonFungibleH/TF-Lock-Alert-Bot-sub000/internal/model"
)

func TestWithRetryEventualSuccess(t *testing.T) {
	attempts := 0
	err := withRetry(context.Background(), 3, time.Millisecond, func(context.Context) error {
		attempts++
		if attempts < 3 {
			return fmt.Errorf("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestWithRetryExhausted(t *testing.T) {
	attempts := 0
	err := withRetry(context.Background(), 2, time.Millisecond, func(context.Context) error {
		attempts++
		return fmt.Errorf("persistent")
	})
	if err == nil {
		t.Fatalf("expected error after exhausting retries")
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestWithRetryContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := withRetry(ctx, 5, time.Hour, func(context.Context) error {
		return fmt.Errorf("always fails")
	})
	if err != context.Canceled {
		t.Fatalf("expected context error, got %v", err)
	}
}

func TestNativeLockedUSDPicksNativeSide(t *testing.T) {
	stats := model.MarketStats{NativePriceUSD: 3000, PriceUSD: 1}
	weth := "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"

	// Project token sorts above the wrapped native asset: native side is amount0.
	record := model.TokenLockRecord{
		TokenAddress: "0xdDdDDdDdDDDdDDdDDDDdDdDDdDDdDDDDDddDdDdd",
		PairedToken:  weth,
		LPPosition:   &model.LPPosition{Amount0: 2, Amount1: 500000},
	}
	if got := nativeLockedUSD(1, record, stats); got != 6000 {
		t.Fatalf("expected amount0 side valued: %f", got)
	}

	// Project token sorts below the wrapped native asset: native side is amount1.
	record.TokenAddress = "0xAaAaAAAaAaAaAaaAaaAAAAaaAAAAaAaAaaAaaAAA"
	record.LPPosition = &model.LPPosition{Amount0: 500000, Amount1: 2}
	if got := nativeLockedUSD(1, record, stats); got != 6000 {
		t.Fatalf("expected amount1 side valued: %f", got)
	}
}

func TestNativeLockedUSDPlainLock(t *testing.T) {
	stats := model.MarketStats{PriceUSD: 0.5}
	record := model.TokenLockRecord{
		TokenAddress: "0xdDdDDdDdDDDdDDdDDDDdDdDDdDDdDDDDDddDdDdd",
		AmountHuman:  10000,
	}
	if got := nativeLockedUSD(1, record, stats); got != 5000 {
		t.Fatalf("expected token-priced value: %f", got)
	}
}

func TestSkipForCarriesContext(t *testing.T) {
	log := model.LogRecord{
		ChainID:     56,
		BlockNumber: 123,
		TxHash:      "0xabc",
		LogIndex:    7,
		Address:     "0xdef",
		Topics:      []string{"0x111"},
	}
	skip := skipFor(log, model.SkipShortData)
	if skip.ChainID != 56 || skip.TxHash != "0xabc" || skip.LogIndex != 7 {
		t.Fatalf("skip context mismatch: %+v", skip)
	}
	if skip.Topic0 != "0x111" || skip.Reason != model.SkipShortData {
		t.Fatalf("skip detail mismatch: %+v", skip)
	}
}
