package service

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fleshka4/amm-pool/internal/pool"
	"github.com/fleshka4/amm-pool/internal/service/dto"
)

//go:generate mockgen -source=service.go -destination=mock/service.go -package=mock

// Service represents interface for business logic.
type Service interface {
	AddLiquidity(ctx context.Context, req dto.AddLiquidityRequest) (dto.AddLiquidityResult, error)
	RemoveLiquidity(ctx context.Context, req dto.RemoveLiquidityRequest) (dto.RemoveLiquidityResult, error)
	Swap(ctx context.Context, req dto.SwapRequest) ([]*big.Int, error)
	Price(ctx context.Context, tokenA, tokenB common.Address) (*big.Int, error)
	Quote(ctx context.Context, req dto.QuoteRequest) (*big.Int, error)
	State(ctx context.Context) dto.PoolState
	Shares(ctx context.Context, account common.Address) *big.Int
	Balance(ctx context.Context, asset, account common.Address) (*big.Int, error)
	Audit(ctx context.Context) (dto.AuditReport, error)
}

// BalanceReader reads asset balances of one holder.
type BalanceReader interface {
	Balances(ctx context.Context, holder common.Address, assets ...common.Address) ([]*big.Int, error)
}

// PoolService represents struct for business logic.
type PoolService struct {
	pool    *pool.Pool
	wallets BalanceReader
	custody BalanceReader
}

// NewPoolService creates PoolService. wallets answers Balance queries, custody
// is what Audit checks the reserves against.
func NewPoolService(p *pool.Pool, wallets, custody BalanceReader) *PoolService {
	return &PoolService{
		pool:    p,
		wallets: wallets,
		custody: custody,
	}
}
