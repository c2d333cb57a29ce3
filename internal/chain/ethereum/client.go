package ethereum

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/MorpheusAIs/mor-stats-backend/internal/chain"
	"github.com/MorpheusAIs/mor-stats-backend/internal/chain/ratelimit"
	"github.com/MorpheusAIs/mor-stats-backend/internal/domain/event"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

const (
	methodUserMultiplier = "getCurrentUserMultiplier"
	methodUserReward     = "getCurrentUserReward"
	methodPoolsData      = "poolsData"
)

// backend is the subset of *ethclient.Client the client uses.
type backend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	BlockNumber(ctx context.Context) (uint64, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	Close()
}

var dialBackend = func(ctx context.Context, url string) (backend, error) {
	c, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return nil, err
	}
	return c, nil
}

type Options struct {
	RPCURL       string
	FallbackURLs []string
	// ChainID, when positive, must match the endpoint's chain id.
	ChainID             int64
	DistributionAddress string
	RPS                 float64
	Burst               int
	CallTimeout         time.Duration
}

// Client reads the Distribution contract through an Ethereum JSON-RPC
// endpoint.
type Client struct {
	backend     backend
	address     common.Address
	abi         abi.ABI
	limiter     *ratelimit.Limiter
	callTimeout time.Duration
	logger      *slog.Logger
}

var _ chain.DistributionReader = (*Client)(nil)

// Dial connects to the first healthy endpoint among RPCURL and the fallbacks.
func Dial(ctx context.Context, opts Options, logger *slog.Logger) (*Client, error) {
	if !common.IsHexAddress(opts.DistributionAddress) {
		return nil, fmt.Errorf("invalid distribution address %q", opts.DistributionAddress)
	}
	logger = logger.With("component", "ethereum")

	urls := append([]string{opts.RPCURL}, opts.FallbackURLs...)
	var errs []error
	for _, url := range urls {
		if url == "" {
			continue
		}
		b, err := connect(ctx, url, opts.ChainID)
		if err != nil {
			logger.Warn("rpc endpoint unavailable", "endpoint", redactURL(url), "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", redactURL(url), err))
			continue
		}
		logger.Info("connected to rpc endpoint", "endpoint", redactURL(url))
		limiter := ratelimit.NewLimiter(opts.RPS, opts.Burst, redactURL(url))
		return newClient(b, common.HexToAddress(opts.DistributionAddress), limiter, opts.CallTimeout, logger)
	}
	return nil, fmt.Errorf("no usable rpc endpoint: %w", errors.Join(errs...))
}

func connect(ctx context.Context, url string, wantChainID int64) (backend, error) {
	b, err := dialBackend(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	id, err := b.ChainID(ctx)
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("chain id: %w", err)
	}
	if wantChainID > 0 && id.Int64() != wantChainID {
		b.Close()
		return nil, fmt.Errorf("chain id %s, want %d", id, wantChainID)
	}
	return b, nil
}

func newClient(b backend, address common.Address, limiter *ratelimit.Limiter, callTimeout time.Duration, logger *slog.Logger) (*Client, error) {
	parsed, err := DistributionABI()
	if err != nil {
		return nil, err
	}
	return &Client{
		backend:     b,
		address:     address,
		abi:         parsed,
		limiter:     limiter,
		callTimeout: callTimeout,
		logger:      logger,
	}, nil
}

func (c *Client) Close() {
	c.backend.Close()
}

func (c *Client) HeadBlock(ctx context.Context) (uint64, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	head, err := ratelimit.Call(ctx, c.limiter, "eth_blockNumber", c.backend.BlockNumber)
	if err != nil {
		return 0, fmt.Errorf("get head block: %w", err)
	}
	return head, nil
}

func (c *Client) BlockTimestamp(ctx context.Context, block uint64) (time.Time, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	header, err := ratelimit.Call(ctx, c.limiter, "eth_getBlockByNumber", func(ctx context.Context) (*types.Header, error) {
		return c.backend.HeaderByNumber(ctx, new(big.Int).SetUint64(block))
	})
	if err != nil {
		return time.Time{}, fmt.Errorf("get block %d: %w", block, err)
	}
	return time.Unix(int64(header.Time), 0).UTC(), nil
}

func (c *Client) EventInputs(eventName string) ([]string, error) {
	return EventInputNames(c.abi, eventName)
}

func (c *Client) FilterEvents(ctx context.Context, eventName string, fromBlock, toBlock uint64) ([]event.RawEvent, error) {
	ev, ok := c.abi.Events[eventName]
	if !ok {
		return nil, fmt.Errorf("event %q not in abi", eventName)
	}
	query := ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(fromBlock),
		ToBlock:   new(big.Int).SetUint64(toBlock),
		Addresses: []common.Address{c.address},
		Topics:    [][]common.Hash{{ev.ID}},
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	logs, err := ratelimit.Call(ctx, c.limiter, "eth_getLogs", func(ctx context.Context) ([]types.Log, error) {
		return c.backend.FilterLogs(ctx, query)
	})
	if err != nil {
		return nil, fmt.Errorf("filter %s logs [%d,%d]: %w", eventName, fromBlock, toBlock, err)
	}

	out := make([]event.RawEvent, 0, len(logs))
	for _, lg := range logs {
		if lg.Removed {
			continue
		}
		raw, err := decodeLog(ev, lg)
		if err != nil {
			return nil, err
		}
		out = append(out, raw)
	}
	return out, nil
}

func (c *Client) UserMultiplier(ctx context.Context, poolID int64, user string, block *big.Int) (*big.Int, error) {
	return c.callUint(ctx, methodUserMultiplier, block, big.NewInt(poolID), common.HexToAddress(user))
}

func (c *Client) UserReward(ctx context.Context, poolID int64, user string, block *big.Int) (*big.Int, error) {
	return c.callUint(ctx, methodUserReward, block, big.NewInt(poolID), common.HexToAddress(user))
}

// PoolVirtualDeposited returns poolsData(poolID).totalVirtualDeposited.
func (c *Client) PoolVirtualDeposited(ctx context.Context, poolID int64) (*big.Int, error) {
	out, err := c.call(ctx, methodPoolsData, nil, big.NewInt(poolID))
	if err != nil {
		return nil, err
	}
	if len(out) != 3 {
		return nil, fmt.Errorf("%s: expected 3 outputs, got %d", methodPoolsData, len(out))
	}
	return asBigInt(methodPoolsData, out[2])
}

func (c *Client) callUint(ctx context.Context, method string, block *big.Int, args ...any) (*big.Int, error) {
	out, err := c.call(ctx, method, block, args...)
	if err != nil {
		return nil, err
	}
	if len(out) != 1 {
		return nil, fmt.Errorf("%s: expected 1 output, got %d", method, len(out))
	}
	return asBigInt(method, out[0])
}

func (c *Client) call(ctx context.Context, method string, block *big.Int, args ...any) ([]any, error) {
	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	msg := ethereum.CallMsg{To: &c.address, Data: data}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	res, err := ratelimit.Call(ctx, c.limiter, method, func(ctx context.Context) ([]byte, error) {
		return c.backend.CallContract(ctx, msg, block)
	})
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	out, err := c.abi.Unpack(method, res)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	return out, nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.callTimeout)
}

func asBigInt(method string, v any) (*big.Int, error) {
	n, ok := v.(*big.Int)
	if !ok || n == nil {
		return nil, fmt.Errorf("%s: unexpected output type %T", method, v)
	}
	return n, nil
}
