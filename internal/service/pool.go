package service

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/fleshka4/amm-pool/internal/apperrors"
	"github.com/fleshka4/amm-pool/internal/pool"
	"github.com/fleshka4/amm-pool/internal/service/dto"
	"github.com/fleshka4/amm-pool/internal/service/validate"
)

// AddLiquidity deposits both assets on behalf of req.Caller.
func (s *PoolService) AddLiquidity(ctx context.Context, req dto.AddLiquidityRequest) (dto.AddLiquidityResult, error) {
	if err := validate.AddLiquidityRequestValidate(req); err != nil {
		return dto.AddLiquidityResult{}, err
	}

	res, err := s.pool.AddLiquidity(ctx, req.Caller, pool.DepositParams{
		TokenA:         req.TokenA,
		TokenB:         req.TokenB,
		AmountADesired: req.AmountADesired,
		AmountBDesired: req.AmountBDesired,
		AmountAMin:     req.AmountAMin,
		AmountBMin:     req.AmountBMin,
		To:             req.To,
		Deadline:       req.Deadline,
	})
	if err != nil {
		return dto.AddLiquidityResult{}, errors.Wrap(err, "s.pool.AddLiquidity")
	}

	return dto.AddLiquidityResult{
		AmountA:   res.AmountA,
		AmountB:   res.AmountB,
		Liquidity: res.Liquidity,
	}, nil
}

// RemoveLiquidity redeems req.Liquidity of req.Caller's shares.
func (s *PoolService) RemoveLiquidity(ctx context.Context, req dto.RemoveLiquidityRequest) (dto.RemoveLiquidityResult, error) {
	if err := validate.RemoveLiquidityRequestValidate(req); err != nil {
		return dto.RemoveLiquidityResult{}, err
	}

	res, err := s.pool.RemoveLiquidity(ctx, req.Caller, pool.WithdrawParams{
		TokenA:     req.TokenA,
		TokenB:     req.TokenB,
		Liquidity:  req.Liquidity,
		AmountAMin: req.AmountAMin,
		AmountBMin: req.AmountBMin,
		To:         req.To,
		Deadline:   req.Deadline,
	})
	if err != nil {
		return dto.RemoveLiquidityResult{}, errors.Wrap(err, "s.pool.RemoveLiquidity")
	}

	return dto.RemoveLiquidityResult{
		AmountA: res.AmountA,
		AmountB: res.AmountB,
	}, nil
}

// Swap performs an exact-input swap and returns [amountIn, amountOut].
func (s *PoolService) Swap(ctx context.Context, req dto.SwapRequest) ([]*big.Int, error) {
	if err := validate.SwapRequestValidate(req); err != nil {
		return nil, err
	}

	amounts, err := s.pool.SwapExactTokensForTokens(ctx, req.Caller, pool.SwapParams{
		AmountIn:     req.AmountIn,
		AmountOutMin: req.AmountOutMin,
		Path:         req.Path,
		To:           req.To,
		Deadline:     req.Deadline,
	})
	if err != nil {
		return nil, errors.Wrap(err, "s.pool.SwapExactTokensForTokens")
	}
	return amounts, nil
}

// Price returns the 1e18-scaled spot price of tokenA in tokenB.
func (s *PoolService) Price(ctx context.Context, tokenA, tokenB common.Address) (*big.Int, error) {
	price, err := s.pool.Price(ctx, tokenA, tokenB)
	if err != nil {
		return nil, errors.Wrap(err, "s.pool.Price")
	}
	return price, nil
}

// Quote returns the output of a hypothetical swap against current reserves.
func (s *PoolService) Quote(ctx context.Context, req dto.QuoteRequest) (*big.Int, error) {
	if err := validate.QuoteRequestValidate(req); err != nil {
		return nil, err
	}

	out, err := s.pool.Quote(ctx, req.TokenIn, req.TokenOut, req.AmountIn)
	if err != nil {
		return nil, errors.Wrap(err, "s.pool.Quote")
	}
	return out, nil
}

// State returns the pool pair, reserves and share supply.
func (s *PoolService) State(ctx context.Context) dto.PoolState {
	tokenX, tokenY := s.pool.Tokens()
	reserveX, reserveY := s.pool.Reserves(ctx)

	return dto.PoolState{
		Account:     s.pool.Account(),
		TokenX:      tokenX,
		TokenY:      tokenY,
		ReserveX:    reserveX,
		ReserveY:    reserveY,
		TotalSupply: s.pool.TotalSupply(ctx),
	}
}

// Shares returns the liquidity shares held by account.
func (s *PoolService) Shares(ctx context.Context, account common.Address) *big.Int {
	return s.pool.BalanceOf(ctx, account)
}

// Balance returns the wallet balance of account in asset.
func (s *PoolService) Balance(ctx context.Context, asset, account common.Address) (*big.Int, error) {
	if asset == (common.Address{}) || account == (common.Address{}) {
		return nil, errors.Wrap(apperrors.ErrInvalidArgument, "asset and account are required")
	}

	balances, err := s.wallets.Balances(ctx, account, asset)
	if err != nil {
		return nil, errors.Wrap(err, "s.wallets.Balances")
	}
	return balances[0], nil
}

// Audit compares the recorded reserves with the balances custody actually holds.
// Custody above reserves is healthy (donations are tolerated); below is drift.
func (s *PoolService) Audit(ctx context.Context) (dto.AuditReport, error) {
	state := s.State(ctx)

	held, err := s.custody.Balances(ctx, state.Account, state.TokenX, state.TokenY)
	if err != nil {
		return dto.AuditReport{}, errors.Wrap(err, "s.custody.Balances")
	}

	report := dto.AuditReport{Healthy: true}
	reserves := []*big.Int{state.ReserveX, state.ReserveY}
	for i, asset := range []common.Address{state.TokenX, state.TokenY} {
		surplus := new(big.Int).Sub(held[i], reserves[i])
		if surplus.Sign() < 0 {
			report.Healthy = false
		}
		report.Assets = append(report.Assets, dto.AssetAudit{
			Asset:   asset,
			Reserve: reserves[i],
			Custody: held[i],
			Surplus: surplus,
		})
	}
	return report, nil
}
