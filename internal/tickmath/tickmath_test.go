package tickmath

import (
	"math/big"
	"testing"
)

func TestSqrtRatioAtTickZero(t *testing.T) {
	got, err := SqrtRatioAtTick(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := new(big.Int).Lsh(big.NewInt(1), 96)
	if got.Cmp(want) != 0 {
		t.Fatalf("ratio at tick 0 mismatch: %s != %s", got, want)
	}
}

func TestSqrtRatioAtTickBounds(t *testing.T) {
	minRatio, err := SqrtRatioAtTick(MinTick)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	maxRatio, err := SqrtRatioAtTick(MaxTick)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantMin, _ := new(big.Int).SetString("4295128739", 10)
	wantMax, _ := new(big.Int).SetString("1461446703485210103287273052203988822378723970342", 10)

	if minRatio.Cmp(wantMin) != 0 {
		t.Fatalf("min ratio mismatch: %s != %s", minRatio, wantMin)
	}
	if maxRatio.Cmp(wantMax) != 0 {
		t.Fatalf("max ratio mismatch: %s != %s", maxRatio, wantMax)
	}
}

func TestSqrtRatioAtTickMonotonic(t *testing.T) {
	ticks := []int32{-887272, -100000, -60, -1, 0, 1, 60, 100000, 887272}

	var prev *big.Int
	for _, tick := range ticks {
		ratio, err := SqrtRatioAtTick(tick)
		if err != nil {
			t.Fatalf("tick %d: %v", tick, err)
		}
		if prev != nil && ratio.Cmp(prev) <= 0 {
			t.Fatalf("ratio not increasing at tick %d: %s <= %s", tick, ratio, prev)
		}
		prev = ratio
	}
}

func TestSqrtRatioAtTickOutOfRange(t *testing.T) {
	if _, err := SqrtRatioAtTick(MaxTick + 1); err == nil {
		t.Fatalf("expected error above max tick")
	}
	if _, err := SqrtRatioAtTick(MinTick - 1); err == nil {
		t.Fatalf("expected error below min tick")
	}
}

func TestComputeAmountsBelowRange(t *testing.T) {
	liquidity, _ := new(big.Int).SetString("1000000000000000000", 10)

	amount0, amount1, err := ComputeAmounts(liquidity, -60, 60, -120, 18, 18)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if amount1 != 0 {
		t.Fatalf("expected zero token1 below range, got %f", amount1)
	}
	if amount0 <= 0 {
		t.Fatalf("expected positive token0 below range, got %f", amount0)
	}
}

func TestComputeAmountsAboveRange(t *testing.T) {
	liquidity, _ := new(big.Int).SetString("1000000000000000000", 10)

	amount0, amount1, err := ComputeAmounts(liquidity, -60, 60, 60, 18, 18)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if amount0 != 0 {
		t.Fatalf("expected zero token0 at or above range, got %f", amount0)
	}
	if amount1 <= 0 {
		t.Fatalf("expected positive token1 at or above range, got %f", amount1)
	}
}

func TestComputeAmountsInRange(t *testing.T) {
	liquidity, _ := new(big.Int).SetString("1000000000000000000", 10)

	amount0, amount1, err := ComputeAmounts(liquidity, -60, 60, 0, 18, 18)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if amount0 <= 0 || amount1 <= 0 {
		t.Fatalf("expected both sides positive in range, got %f / %f", amount0, amount1)
	}
}

func TestComputeAmountsScalesWithLiquidity(t *testing.T) {
	small, _ := new(big.Int).SetString("1000000000000000000", 10)
	large := new(big.Int).Mul(small, big.NewInt(10))

	small0, small1, err := ComputeAmounts(small, -887220, 887220, 0, 18, 18)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	large0, large1, err := ComputeAmounts(large, -887220, 887220, 0, 18, 18)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if large0 <= small0 || large1 <= small1 {
		t.Fatalf("amounts did not grow with liquidity: %f/%f vs %f/%f", large0, large1, small0, small1)
	}
}

func TestComputeAmountsZeroLiquidity(t *testing.T) {
	amount0, amount1, err := ComputeAmounts(new(big.Int), -60, 60, 0, 18, 18)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if amount0 != 0 || amount1 != 0 {
		t.Fatalf("expected zero amounts, got %f / %f", amount0, amount1)
	}
}

func TestComputeAmountsInvalid(t *testing.T) {
	if _, _, err := ComputeAmounts(nil, -60, 60, 0, 18, 18); err == nil {
		t.Fatalf("expected error for nil liquidity")
	}
	if _, _, err := ComputeAmounts(big.NewInt(-1), -60, 60, 0, 18, 18); err == nil {
		t.Fatalf("expected error for negative liquidity")
	}
	if _, _, err := ComputeAmounts(big.NewInt(1), 60, -60, 0, 18, 18); err == nil {
		t.Fatalf("expected error for inverted tick order")
	}
}
