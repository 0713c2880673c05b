package pool

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// LiquidityAdded is recorded after a successful deposit. Amounts are in the
// token order of the request.
type LiquidityAdded struct {
	Provider  common.Address
	AmountA   *big.Int
	AmountB   *big.Int
	Liquidity *big.Int
}

// LiquidityRemoved is recorded after a successful withdrawal. Amounts are in
// the token order of the request.
type LiquidityRemoved struct {
	Provider  common.Address
	AmountA   *big.Int
	AmountB   *big.Int
	Liquidity *big.Int
}

// TokensSwapped is recorded after a successful swap.
type TokensSwapped struct {
	User      common.Address
	TokenIn   common.Address
	TokenOut  common.Address
	AmountIn  *big.Int
	AmountOut *big.Int
}

// Sync carries the pool state after any committed transition, in internal order.
type Sync struct {
	ReserveX    *big.Int
	ReserveY    *big.Int
	TotalSupply *big.Int
}

// Recorder consumes pool records. Methods are called after the state is
// committed and before the pool releases its lock, so they observe records in
// commit order. Implementations must not block for long and must not call
// mutating pool methods with the ctx they receive.
type Recorder interface {
	LiquidityAdded(ctx context.Context, r LiquidityAdded)
	LiquidityRemoved(ctx context.Context, r LiquidityRemoved)
	TokensSwapped(ctx context.Context, r TokensSwapped)
	Synced(ctx context.Context, s Sync)
}

// NopRecorder discards everything.
type NopRecorder struct{}

func (NopRecorder) LiquidityAdded(context.Context, LiquidityAdded)     {}
func (NopRecorder) LiquidityRemoved(context.Context, LiquidityRemoved) {}
func (NopRecorder) TokensSwapped(context.Context, TokensSwapped)       {}
func (NopRecorder) Synced(context.Context, Sync)                       {}

// Recorders fans records out to each recorder in order.
type Recorders []Recorder

func (rs Recorders) LiquidityAdded(ctx context.Context, r LiquidityAdded) {
	for _, rec := range rs {
		rec.LiquidityAdded(ctx, r)
	}
}

func (rs Recorders) LiquidityRemoved(ctx context.Context, r LiquidityRemoved) {
	for _, rec := range rs {
		rec.LiquidityRemoved(ctx, r)
	}
}

func (rs Recorders) TokensSwapped(ctx context.Context, r TokensSwapped) {
	for _, rec := range rs {
		rec.TokensSwapped(ctx, r)
	}
}

func (rs Recorders) Synced(ctx context.Context, s Sync) {
	for _, rec := range rs {
		rec.Synced(ctx, s)
	}
}
