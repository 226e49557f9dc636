package position

import (
	"bytes"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// factoryParams are the chain-specific constants for deterministic pool
// derivation.
type factoryParams struct {
	Factory      common.Address
	InitCodeHash common.Hash
}

var poolFactories = map[uint64]factoryParams{
	1: {
		Factory:      common.HexToAddress("0x1F98431c8aD98523631AE4a59f267346ea31F984"),
		InitCodeHash: common.HexToHash("0xe34f199b19b2b4f47f68442619d555527d244f78a3297ea89325f843f87b8b54"),
	},
	56: {
		Factory:      common.HexToAddress("0x41ff9AA7e16B8B1a8a8dc4f0eFacd93D02d071c9"),
		InitCodeHash: common.HexToHash("0x6ce8eb472fa82df5469c6ab680e5ff5e2505a3376419a97500d8c2d954d6b4d7"),
	},
	8453: {
		Factory:      common.HexToAddress("0x33128a8fC17869897dcE68Ed026d694621f6FDfD"),
		InitCodeHash: common.HexToHash("0xe34f199b19b2b4f47f68442619d555527d244f78a3297ea89325f843f87b8b54"),
	},
}

// PoolAddress derives the deterministic pool address for a token pair and fee
// tier via CREATE2: keccak256(0xff ++ factory ++ salt ++ initCodeHash)[12:],
// salt = keccak256(abiEncode(token0, token1, fee)) with tokens sorted by
// address. Order of the caller-supplied tokens does not matter.
func PoolAddress(chainID uint64, tokenA, tokenB common.Address, fee uint32) (common.Address, bool) {
	params, ok := poolFactories[chainID]
	if !ok {
		return common.Address{}, false
	}

	token0, token1 := tokenA, tokenB
	if bytes.Compare(token0.Bytes(), token1.Bytes()) > 0 {
		token0, token1 = token1, token0
	}

	// abi.encode(address, address, uint24): three left-padded 32-byte words.
	salt := crypto.Keccak256(
		common.LeftPadBytes(token0.Bytes(), 32),
		common.LeftPadBytes(token1.Bytes(), 32),
		common.LeftPadBytes(new(big.Int).SetUint64(uint64(fee)).Bytes(), 32),
	)

	digest := crypto.Keccak256(
		[]byte{0xff},
		params.Factory.Bytes(),
		salt,
		params.InitCodeHash.Bytes(),
	)
	return common.BytesToAddress(digest[12:]), true
}
