package tickmath

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// ComputeAmounts derives the real token amounts represented by a liquidity
// value over [tickLower, tickUpper] given the pool's current tick. All
// intermediate arithmetic is unbounded; only the final 10^decimals scale-down
// leaves integer space. Pure and deterministic.
func ComputeAmounts(liquidity *big.Int, tickLower, tickUpper, currentTick int32, decimals0, decimals1 uint8) (float64, float64, error) {
	if liquidity == nil || liquidity.Sign() < 0 {
		return 0, 0, fmt.Errorf("liquidity must be non-negative")
	}
	if tickLower > tickUpper {
		return 0, 0, fmt.Errorf("tick order violated: %d > %d", tickLower, tickUpper)
	}
	if liquidity.Sign() == 0 {
		return 0, 0, nil
	}

	sqrtA, err := SqrtRatioAtTick(tickLower)
	if err != nil {
		return 0, 0, err
	}
	sqrtB, err := SqrtRatioAtTick(tickUpper)
	if err != nil {
		return 0, 0, err
	}

	var amount0, amount1 *big.Int
	switch {
	case currentTick < tickLower:
		// Entirely in token0.
		amount0 = amount0ForLiquidity(liquidity, sqrtA, sqrtB)
		amount1 = new(big.Int)
	case currentTick >= tickUpper:
		// Entirely in token1.
		amount0 = new(big.Int)
		amount1 = amount1ForLiquidity(liquidity, sqrtA, sqrtB)
	default:
		sqrtCurrent, err := SqrtRatioAtTick(currentTick)
		if err != nil {
			return 0, 0, err
		}
		amount0 = amount0ForLiquidity(liquidity, sqrtCurrent, sqrtB)
		amount1 = amount1ForLiquidity(liquidity, sqrtA, sqrtCurrent)
	}

	return humanize(amount0, decimals0), humanize(amount1, decimals1), nil
}

// amount0 = (liquidity << 96) * (sqrtB - sqrtA) / sqrtB / sqrtA
func amount0ForLiquidity(liquidity, sqrtA, sqrtB *big.Int) *big.Int {
	numerator := new(big.Int).Lsh(liquidity, 96)
	numerator.Mul(numerator, new(big.Int).Sub(sqrtB, sqrtA))
	numerator.Div(numerator, sqrtB)
	return numerator.Div(numerator, sqrtA)
}

// amount1 = liquidity * (sqrtB - sqrtA) / 2^96
func amount1ForLiquidity(liquidity, sqrtA, sqrtB *big.Int) *big.Int {
	result := new(big.Int).Sub(sqrtB, sqrtA)
	result.Mul(result, liquidity)
	return result.Div(result, q96)
}

func humanize(amount *big.Int, decimals uint8) float64 {
	value, _ := decimal.NewFromBigInt(amount, -int32(decimals)).Float64()
	return value
}
