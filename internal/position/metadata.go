package position

import (
	"bytes"
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/NonFungibleH/TF-Lock-Alert-Bot-sub000/internal/model"
)

// TokenMetaCache caches token metadata by address.
type TokenMetaCache struct {
	mu   sync.RWMutex
	data map[common.Address]model.TokenMeta
}

func NewTokenMetaCache() *TokenMetaCache {
	return &TokenMetaCache{data: make(map[common.Address]model.TokenMeta)}
}

func (c *TokenMetaCache) Get(address common.Address) (model.TokenMeta, bool) {
	c.mu.RLock()
	meta, ok := c.data[address]
	c.mu.RUnlock()
	return meta, ok
}

func (c *TokenMetaCache) Set(address common.Address, meta model.TokenMeta) {
	c.mu.Lock()
	c.data[address] = meta
	c.mu.Unlock()
}

// TokenMeta loads ERC20 metadata, consulting the cache first. Decimals is the
// only required field; symbol falls back to the bytes32 variant, and missing
// optional fields degrade to empty values.
func (r *Resolver) TokenMeta(ctx context.Context, cache *TokenMetaCache, token common.Address) (model.TokenMeta, bool) {
	if cache != nil {
		if meta, ok := cache.Get(token); ok {
			return meta, true
		}
	}
	if err := loadABIs(); err != nil {
		return model.TokenMeta{}, false
	}

	meta := model.TokenMeta{Address: token.Hex()}

	values, err := r.call(ctx, token, erc20ABI, "decimals", nil)
	if err != nil || len(values) != 1 {
		r.logger.Warn("decimals call failed", zap.String("token", token.Hex()), zap.Error(err))
		return model.TokenMeta{}, false
	}
	decimals, err := asBig(values[0])
	if err != nil {
		return model.TokenMeta{}, false
	}
	meta.Decimals = uint8(decimals.Uint64())

	if values, err := r.call(ctx, token, erc20ABI, "symbol", nil); err == nil && len(values) == 1 {
		if symbol, ok := values[0].(string); ok {
			meta.Symbol = symbol
		}
	} else if values, err := r.call(ctx, token, erc20Bytes32ABI, "symbol", nil); err == nil && len(values) == 1 {
		if raw, ok := values[0].([32]byte); ok {
			meta.Symbol = string(bytes.TrimRight(raw[:], "\x00"))
		}
	} else {
		r.logger.Debug("symbol call failed", zap.String("token", token.Hex()), zap.Error(err))
	}

	if values, err := r.call(ctx, token, erc20ABI, "totalSupply", nil); err == nil && len(values) == 1 {
		if supply, err := asBig(values[0]); err == nil {
			meta.TotalSupply = supply.String()
		}
	} else {
		r.logger.Debug("totalSupply call failed", zap.String("token", token.Hex()), zap.Error(err))
	}

	if cache != nil {
		cache.Set(token, meta)
	}
	return meta, true
}
