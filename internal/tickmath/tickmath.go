package tickmath

import (
	"fmt"
	"math/big"
)

// Tick bounds of the concentrated-liquidity protocol.
const (
	MinTick int32 = -887272
	MaxTick int32 = 887272
)

var (
	q32  = new(big.Int).Lsh(big.NewInt(1), 32)
	q96  = new(big.Int).Lsh(big.NewInt(1), 96)
	q128 = new(big.Int).Lsh(big.NewInt(1), 128)

	maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

	// Base ratio selected by the lowest bit of |tick|: sqrt(1.0001)^-1 in
	// Q128 when the bit is set, 1.0 otherwise.
	sqrtRatioOddBase = mustBig("0xfffcb933bd6fad37aa2d162d1a594001")

	// Q128 multipliers for bits 1..19 of |tick|.
	sqrtRatioMagic = []*big.Int{
		mustBig("0xfff97272373d413259a46990580e213a"),
		mustBig("0xfff2e50f5f656932ef12357cf3c7fdcc"),
		mustBig("0xffe5caca7e10e4e61c3624eaa0941cd0"),
		mustBig("0xffcb9843d60f6159c9db58835c926644"),
		mustBig("0xff973b41fa98c081472e6896dfb254c0"),
		mustBig("0xff2ea16466c96a3843ec78b326b52861"),
		mustBig("0xfe5dee046a99a2a811c461f1969c3053"),
		mustBig("0xfcbe86c7900a88aedcffc83b479aa3a4"),
		mustBig("0xf987a7253ac413176f2b074cf7815e54"),
		mustBig("0xf3392b0822b70005940c7a398e4b70f3"),
		mustBig("0xe7159475a2c29b7443b29c7fa6e889d9"),
		mustBig("0xd097f3bdfd2022b8845ad8f792aa5825"),
		mustBig("0xa9f746462d870fdf8a65dc1f90e061e5"),
		mustBig("0x70d869a156d2a1b890bb3df62baf32f7"),
		mustBig("0x31be135f97d08fd981231505542fcfa6"),
		mustBig("0x9aa508b5b7a84e1c677de54f3e99bc9"),
		mustBig("0x5d6af8dedb81196699c329225ee604"),
		mustBig("0x2216e584f5fa1ea926041bedfe98"),
		mustBig("0x48a170391f7dc42444e8fa2"),
	}
)

func mustBig(hex string) *big.Int {
	value, ok := new(big.Int).SetString(hex[2:], 16)
	if !ok {
		panic("bad constant " + hex)
	}
	return value
}

// SqrtRatioAtTick returns sqrt(1.0001^tick) as a Q96 fixed-point value,
// byte-exact with the pool contract's own computation.
func SqrtRatioAtTick(tick int32) (*big.Int, error) {
	if tick < MinTick || tick > MaxTick {
		return nil, fmt.Errorf("tick %d out of range", tick)
	}

	absTick := uint32(tick)
	if tick < 0 {
		absTick = uint32(-int64(tick))
	}

	ratio := new(big.Int).Set(q128)
	if absTick&1 != 0 {
		ratio.Set(sqrtRatioOddBase)
	}
	for bit, magic := range sqrtRatioMagic {
		if absTick&(1<<uint(bit+1)) != 0 {
			ratio.Mul(ratio, magic)
			ratio.Rsh(ratio, 128)
		}
	}

	if tick > 0 {
		ratio.Div(maxUint256, ratio)
	}

	// Rebase Q128 -> Q96, rounding up on a remainder like the contract does.
	remainder := new(big.Int).Mod(ratio, q32)
	ratio.Rsh(ratio, 32)
	if remainder.Sign() != 0 {
		ratio.Add(ratio, big.NewInt(1))
	}
	return ratio, nil
}
