package erc20

import (
	"context"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

//go:generate mockgen -source=client.go -destination=mock/caller.go -package=mock

const balanceOfABIJSON = `[
	{"inputs":[{"internalType":"address","name":"account","type":"address"}],"name":"balanceOf","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"}
]`

const balanceOfMethod = "balanceOf"

// EthCaller represents interface for calling contracts.
type EthCaller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// Client reads ERC-20 balances from an Ethereum node.
type Client struct {
	caller   EthCaller
	tokenABI abi.ABI

	callTimeout time.Duration
}

// NewClient creates a Client backed by an Ethereum RPC connection.
func NewClient(rpcURL string, callTimeout time.Duration) (*Client, error) {
	caller, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, errors.Wrap(err, "ethclient.Dial")
	}

	return newClientWithCaller(caller, callTimeout)
}

func newClientWithCaller(caller EthCaller, callTimeout time.Duration) (*Client, error) {
	tokenABI, err := abi.JSON(strings.NewReader(balanceOfABIJSON))
	if err != nil {
		return nil, errors.Wrap(err, "abi.JSON")
	}

	return &Client{
		caller:   caller,
		tokenABI: tokenABI,

		callTimeout: callTimeout,
	}, nil
}

// BalanceOf returns the balance of holder in the token contract at asset.
func (c *Client) BalanceOf(ctx context.Context, asset, holder common.Address) (*big.Int, error) {
	data, err := c.tokenABI.Pack(balanceOfMethod, holder)
	if err != nil {
		return nil, errors.Wrap(err, "c.tokenABI.Pack")
	}

	res, err := c.caller.CallContract(
		ctx,
		ethereum.CallMsg{
			To:   &asset,
			Data: data,
		},
		nil,
	)
	if err != nil {
		return nil, errors.Wrap(err, "c.caller.CallContract")
	}

	out, err := c.tokenABI.Unpack(balanceOfMethod, res)
	if err != nil {
		return nil, errors.Wrap(err, "c.tokenABI.Unpack")
	}
	if len(out) != 1 {
		return nil, errors.Errorf("balanceOf returned %d values", len(out))
	}

	balance, ok := out[0].(*big.Int)
	if !ok {
		return nil, errors.New("failed to cast balanceOf result to *big.Int")
	}

	return balance, nil
}

// Balances reads the balance of holder for every asset concurrently.
// Results follow the order of assets. All failures are reported together.
func (c *Client) Balances(ctx context.Context, holder common.Address, assets ...common.Address) ([]*big.Int, error) {
	type balanceResult struct {
		idx     int
		balance *big.Int
		err     error
	}

	var wg sync.WaitGroup
	ch := make(chan balanceResult, len(assets))

	getBalance := func(idx int, asset common.Address) {
		defer wg.Done()

		ctxCall, cancel := context.WithTimeout(ctx, c.callTimeout)
		defer cancel()

		select {
		case <-ctxCall.Done():
			ch <- balanceResult{idx: idx, err: errors.Wrap(ctxCall.Err(), "context cancelled before call")}
			return
		default:
		}

		balance, err := c.BalanceOf(ctxCall, asset, holder)
		if err != nil {
			ch <- balanceResult{idx: idx, err: errors.Wrapf(err, "balanceOf %s", asset.Hex())}
			return
		}

		ch <- balanceResult{idx: idx, balance: balance}
	}

	wg.Add(len(assets))
	for i, asset := range assets {
		go getBalance(i, asset)
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	var (
		balances    = make([]*big.Int, len(assets))
		combinedErr error
	)

	for result := range ch {
		if result.err != nil {
			combinedErr = multierr.Append(combinedErr, result.err)
			continue
		}
		balances[result.idx] = result.balance
	}

	if combinedErr != nil {
		return nil, errors.Wrap(combinedErr, "failed to read balances")
	}

	return balances, nil
}
