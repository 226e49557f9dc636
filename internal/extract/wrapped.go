package extract

import "github.com/ethereum/go-ethereum/common"

// wrappedNative lists the wrapped native asset per chain, used to tell the
// project token from the paired token in an LP lock.
var wrappedNative = map[uint64]common.Address{
	1:     common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"), // WETH
	56:    common.HexToAddress("0xbb4CdB9CBd36B01bD1cBaEF60aF814a3f6F0Ee75"), // WBNB
	8453:  common.HexToAddress("0x4200000000000000000000000000000000000006"), // WETH (Base)
	42161: common.HexToAddress("0x82aF49447D8a07e3bd95BD0d56f35241523fBab1"), // WETH (Arbitrum)
}

// IsWrappedNative reports whether address is the chain's wrapped native asset.
func IsWrappedNative(chainID uint64, address common.Address) bool {
	wrapped, ok := wrappedNative[chainID]
	return ok && wrapped == address
}

// WrappedNative returns the wrapped native asset for a chain.
func WrappedNative(chainID uint64) (common.Address, bool) {
	wrapped, ok := wrappedNative[chainID]
	return wrapped, ok
}

// SplitPrimary picks the project token versus the paired token. When exactly
// one side is the wrapped native asset, the other side is primary. When
// neither or both match, the first token is primary.
func SplitPrimary(chainID uint64, token0, token1 common.Address) (primary, paired common.Address) {
	native0 := IsWrappedNative(chainID, token0)
	native1 := IsWrappedNative(chainID, token1)
	if native0 && !native1 {
		return token1, token0
	}
	return token0, token1
}
