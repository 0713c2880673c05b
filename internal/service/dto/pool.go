package dto

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// AddLiquidityRequest represents a deposit of both pool assets by Caller.
type AddLiquidityRequest struct {
	Caller         common.Address
	TokenA         common.Address
	TokenB         common.Address
	AmountADesired *big.Int
	AmountBDesired *big.Int
	AmountAMin     *big.Int
	AmountBMin     *big.Int
	To             common.Address
	Deadline       int64
}

// AddLiquidityResult holds the accepted amounts in request order and the shares minted.
type AddLiquidityResult struct {
	AmountA   *big.Int
	AmountB   *big.Int
	Liquidity *big.Int
}

// RemoveLiquidityRequest represents a redemption of Caller's shares.
type RemoveLiquidityRequest struct {
	Caller     common.Address
	TokenA     common.Address
	TokenB     common.Address
	Liquidity  *big.Int
	AmountAMin *big.Int
	AmountBMin *big.Int
	To         common.Address
	Deadline   int64
}

// RemoveLiquidityResult holds the amounts paid out in request order.
type RemoveLiquidityResult struct {
	AmountA *big.Int
	AmountB *big.Int
}

// SwapRequest represents an exact-input swap along Path.
type SwapRequest struct {
	Caller       common.Address
	AmountIn     *big.Int
	AmountOutMin *big.Int
	Path         []common.Address
	To           common.Address
	Deadline     int64
}

// QuoteRequest asks for the output of a hypothetical swap.
type QuoteRequest struct {
	TokenIn  common.Address
	TokenOut common.Address
	AmountIn *big.Int
}

// PoolState is a consistent view of the pool.
type PoolState struct {
	Account     common.Address
	TokenX      common.Address
	TokenY      common.Address
	ReserveX    *big.Int
	ReserveY    *big.Int
	TotalSupply *big.Int
}

// AssetAudit compares the recorded reserve of one asset with what custody holds.
type AssetAudit struct {
	Asset   common.Address
	Reserve *big.Int
	Custody *big.Int
	// Surplus is Custody - Reserve. Negative means custody is short.
	Surplus *big.Int
}

// AuditReport is healthy when no asset is short.
type AuditReport struct {
	Assets  []AssetAudit
	Healthy bool
}
