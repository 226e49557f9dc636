package position

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/NonFungibleH/TF-Lock-Alert-Bot-sub000/internal/chain"
	"github.com/NonFungibleH/TF-Lock-Alert-Bot-sub000/internal/model"
)

// caller is the contract-read capability the resolver depends on.
type caller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

var _ caller = (*chain.Client)(nil)

// PositionData is the raw on-chain position state for an NFT lock.
type PositionData struct {
	Token0      common.Address
	Token1      common.Address
	Fee         uint32
	TickLower   int32
	TickUpper   int32
	Liquidity   *big.Int
	TokensOwed0 *big.Int
	TokensOwed1 *big.Int
}

// Resolver answers position and pool questions against the chain. Every
// method degrades to ok=false on RPC failure or malformed data; the caller
// must tolerate a missing position.
type Resolver struct {
	chain  caller
	logger *zap.Logger
}

// NewResolver builds a Resolver.
func NewResolver(chainClient caller, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{chain: chainClient, logger: logger}
}

// LookupPosition reads positions(tokenId) from an NFT manager contract.
func (r *Resolver) LookupPosition(ctx context.Context, manager common.Address, tokenID *big.Int) (PositionData, bool) {
	if err := loadABIs(); err != nil {
		return PositionData{}, false
	}

	values, err := r.call(ctx, manager, positionManagerABI, "positions", nil, tokenID)
	if err != nil {
		r.logger.Warn("positions lookup failed", zap.String("manager", manager.Hex()), zap.String("token_id", tokenID.String()), zap.Error(err))
		return PositionData{}, false
	}
	if len(values) != 12 {
		r.logger.Warn("positions returned unexpected arity", zap.Int("values", len(values)))
		return PositionData{}, false
	}

	token0, ok0 := values[2].(common.Address)
	token1, ok1 := values[3].(common.Address)
	if !ok0 || !ok1 {
		return PositionData{}, false
	}

	fee, err := asBig(values[4])
	if err != nil {
		return PositionData{}, false
	}
	tickLower, errLower := asInt24(values[5])
	tickUpper, errUpper := asInt24(values[6])
	if errLower != nil || errUpper != nil {
		return PositionData{}, false
	}
	liquidity, err := asBig(values[7])
	if err != nil {
		return PositionData{}, false
	}
	owed0, err0 := asBig(values[10])
	owed1, err1 := asBig(values[11])
	if err0 != nil || err1 != nil {
		return PositionData{}, false
	}

	return PositionData{
		Token0:      token0,
		Token1:      token1,
		Fee:         uint32(fee.Uint64()),
		TickLower:   tickLower,
		TickUpper:   tickUpper,
		Liquidity:   liquidity,
		TokensOwed0: owed0,
		TokensOwed1: owed1,
	}, true
}

// ProbePair checks whether a locked token exposes the pooled-pair interface.
// A hit means the lock is actually an LP lock over (token0, token1).
func (r *Resolver) ProbePair(ctx context.Context, token common.Address) (common.Address, common.Address, bool) {
	if err := loadABIs(); err != nil {
		return common.Address{}, common.Address{}, false
	}

	values, err := r.call(ctx, token, poolABI, "token0", nil)
	if err != nil || len(values) != 1 {
		return common.Address{}, common.Address{}, false
	}
	token0, ok := values[0].(common.Address)
	if !ok || token0 == (common.Address{}) {
		return common.Address{}, common.Address{}, false
	}

	values, err = r.call(ctx, token, poolABI, "token1", nil)
	if err != nil || len(values) != 1 {
		return common.Address{}, common.Address{}, false
	}
	token1, ok := values[0].(common.Address)
	if !ok || token1 == (common.Address{}) {
		return common.Address{}, common.Address{}, false
	}

	return token0, token1, true
}

// PoolState reads slot0 from a pool contract.
func (r *Resolver) PoolState(ctx context.Context, pool common.Address) (model.PoolState, bool) {
	if err := loadABIs(); err != nil {
		return model.PoolState{}, false
	}

	values, err := r.call(ctx, pool, poolABI, "slot0", nil)
	if err != nil || len(values) < 2 {
		r.logger.Debug("slot0 call failed", zap.String("pool", pool.Hex()), zap.Error(err))
		return model.PoolState{}, false
	}

	sqrtPrice, errSqrt := asBig(values[0])
	tickValue, errTick := asBig(values[1])
	if errSqrt != nil || errTick != nil {
		return model.PoolState{}, false
	}
	tick, err := int24FromBig(tickValue)
	if err != nil {
		return model.PoolState{}, false
	}

	return model.PoolState{Tick: tick, SqrtPriceX96: sqrtPrice.String()}, true
}

func (r *Resolver) call(ctx context.Context, target common.Address, parsed abi.ABI, method string, block *big.Int, args ...interface{}) ([]interface{}, error) {
	if r.chain == nil {
		return nil, fmt.Errorf("chain client is nil")
	}
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	msg := ethereum.CallMsg{To: &target, Data: data}
	resp, err := r.chain.CallContract(ctx, msg, block)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	values, err := parsed.Unpack(method, resp)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	return values, nil
}

func asBig(value interface{}) (*big.Int, error) {
	switch v := value.(type) {
	case *big.Int:
		return new(big.Int).Set(v), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	default:
		return nil, fmt.Errorf("unsupported int type %T", value)
	}
}

func asInt24(value interface{}) (int32, error) {
	bigValue, err := asBigSigned(value)
	if err != nil {
		return 0, err
	}
	return int24FromBig(bigValue)
}

func asBigSigned(value interface{}) (*big.Int, error) {
	switch v := value.(type) {
	case *big.Int:
		return new(big.Int).Set(v), nil
	case int32:
		return big.NewInt(int64(v)), nil
	case int64:
		return big.NewInt(v), nil
	default:
		return asBig(value)
	}
}

func int24FromBig(value *big.Int) (int32, error) {
	min := big.NewInt(-1 << 23)
	max := big.NewInt((1 << 23) - 1)
	if value.Cmp(min) < 0 || value.Cmp(max) > 0 {
		return 0, fmt.Errorf("int24 overflow: %s", value.String())
	}
	return int32(value.Int64()), nil
}
