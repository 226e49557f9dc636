package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"
)

// contractCaller is the slice of ethclient the racing layer needs.
type contractCaller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// Client fans a contract read out across redundant RPC endpoints and takes
// the first success. Every individual call carries its own timeout so a
// stalled provider cannot block the pipeline.
type Client struct {
	callers     []contractCaller
	primary     *ethclient.Client
	rpcClients  []*rpc.Client
	callTimeout time.Duration
	logger      *zap.Logger
}

// Dial connects to every endpoint URL. At least one endpoint must connect.
func Dial(ctx context.Context, urls []string, callTimeout time.Duration, logger *zap.Logger) (*Client, error) {
	if len(urls) == 0 {
		return nil, fmt.Errorf("at least one rpc url is required")
	}
	if callTimeout <= 0 {
		callTimeout = 5 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client := &Client{callTimeout: callTimeout, logger: logger}
	var dialErrs []error
	for _, url := range urls {
		rpcClient, err := rpc.DialContext(ctx, url)
		if err != nil {
			dialErrs = append(dialErrs, fmt.Errorf("dial %s: %w", url, err))
			logger.Warn("rpc dial failed", zap.String("url", url), zap.Error(err))
			continue
		}
		ethClient := ethclient.NewClient(rpcClient)
		client.rpcClients = append(client.rpcClients, rpcClient)
		client.callers = append(client.callers, ethClient)
		if client.primary == nil {
			client.primary = ethClient
		}
	}
	if len(client.callers) == 0 {
		return nil, errors.Join(dialErrs...)
	}
	return client, nil
}

// Close closes every underlying RPC connection.
func (c *Client) Close() {
	for _, rpcClient := range c.rpcClients {
		rpcClient.Close()
	}
}

// ChainID returns the chain ID from the primary endpoint.
func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()
	return c.primary.ChainID(ctx)
}

// LatestBlockNumber returns the latest block number from the primary endpoint.
func (c *Client) LatestBlockNumber(ctx context.Context) (uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()
	return c.primary.BlockNumber(ctx)
}

// TransactionSender resolves the from address of a mined transaction.
func (c *Client) TransactionSender(ctx context.Context, txHash common.Hash, blockHash common.Hash, index uint) (common.Address, error) {
	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()
	tx, _, err := c.primary.TransactionByHash(ctx, txHash)
	if err != nil {
		return common.Address{}, err
	}
	return c.primary.TransactionSender(ctx, tx, blockHash, index)
}

// FilterLogs returns logs in the range for the address and topic0 filters.
func (c *Client) FilterLogs(ctx context.Context, fromBlock, toBlock uint64, addresses []common.Address, topic0 []common.Hash) ([]types.Log, error) {
	query := ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(fromBlock),
		ToBlock:   new(big.Int).SetUint64(toBlock),
		Addresses: addresses,
	}
	if len(topic0) > 0 {
		query.Topics = [][]common.Hash{topic0}
	}
	return c.primary.FilterLogs(ctx, query)
}

// CallContract races the same eth_call across every endpoint, returning the
// first success. All endpoints failing is a hard failure for the step.
func (c *Client) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	return raceCall(ctx, c.callers, c.callTimeout, msg, blockNumber)
}

type raceResult struct {
	data []byte
	err  error
}

func raceCall(ctx context.Context, callers []contractCaller, timeout time.Duration, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	if len(callers) == 0 {
		return nil, fmt.Errorf("no endpoints available")
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	results := make(chan raceResult, len(callers))
	for _, caller := range callers {
		caller := caller
		go func() {
			data, err := caller.CallContract(ctx, msg, blockNumber)
			results <- raceResult{data: data, err: err}
		}()
	}

	var callErrs []error
	for range callers {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case result := <-results:
			if result.err == nil {
				return result.data, nil
			}
			callErrs = append(callErrs, result.err)
		}
	}
	return nil, errors.Join(callErrs...)
}
