package pool

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/fleshka4/amm-pool/internal/apperrors"
	"github.com/fleshka4/amm-pool/internal/dexmath"
)

// WithdrawParams describes a RemoveLiquidity call. TokenA and TokenB may be
// the pool pair in either order; the minimums follow that order.
type WithdrawParams struct {
	TokenA     common.Address
	TokenB     common.Address
	Liquidity  *big.Int
	AmountAMin *big.Int
	AmountBMin *big.Int
	To         common.Address
	Deadline   int64
}

// WithdrawResult holds the amounts paid out, in request order.
type WithdrawResult struct {
	AmountA *big.Int
	AmountB *big.Int
}

// RemoveLiquidity burns params.Liquidity of caller's shares and pays the
// proportional part of both reserves to params.To.
func (p *Pool) RemoveLiquidity(ctx context.Context, caller common.Address, params WithdrawParams) (WithdrawResult, error) {
	ctx, err := p.begin(ctx)
	if err != nil {
		return WithdrawResult{}, err
	}
	defer p.end()

	if err := p.checkCommon(params.Deadline, params.To); err != nil {
		return WithdrawResult{}, err
	}
	flipped, err := p.orient(params.TokenA, params.TokenB)
	if err != nil {
		return WithdrawResult{}, err
	}
	if params.Liquidity == nil || params.Liquidity.Sign() <= 0 {
		return WithdrawResult{}, errors.Wrap(apperrors.ErrInvalidInput, "liquidity must be positive")
	}
	if err := checkAmount("amountAMin", params.AmountAMin); err != nil {
		return WithdrawResult{}, err
	}
	if err := checkAmount("amountBMin", params.AmountBMin); err != nil {
		return WithdrawResult{}, err
	}
	if held := p.balanceOf(caller); held.Cmp(params.Liquidity) < 0 {
		return WithdrawResult{}, errors.Wrapf(apperrors.ErrInsufficientShares,
			"holds %s, redeeming %s", held, params.Liquidity)
	}

	owedX := dexmath.MulDiv(params.Liquidity, p.reserveX, p.totalSupply)
	owedY := dexmath.MulDiv(params.Liquidity, p.reserveY, p.totalSupply)

	amountA, amountB := pair(owedX, owedY, flipped)
	if amountA.Cmp(params.AmountAMin) < 0 {
		return WithdrawResult{}, errors.Wrapf(apperrors.ErrSlippageExceeded,
			"amountA %s below minimum %s", amountA, params.AmountAMin)
	}
	if amountB.Cmp(params.AmountBMin) < 0 {
		return WithdrawResult{}, errors.Wrapf(apperrors.ErrSlippageExceeded,
			"amountB %s below minimum %s", amountB, params.AmountBMin)
	}

	snap := p.snapshot(caller)
	p.reserveX = new(big.Int).Sub(p.reserveX, owedX)
	p.reserveY = new(big.Int).Sub(p.reserveY, owedY)
	p.burn(caller, params.Liquidity)

	if err := p.push(ctx, params.To, leg{p.tokenX, owedX}, leg{p.tokenY, owedY}); err != nil {
		p.restore(snap)
		return WithdrawResult{}, err
	}

	p.recorder.LiquidityRemoved(ctx, LiquidityRemoved{
		Provider:  caller,
		AmountA:   amountA,
		AmountB:   amountB,
		Liquidity: new(big.Int).Set(params.Liquidity),
	})
	p.sync(ctx)

	return WithdrawResult{
		AmountA: new(big.Int).Set(amountA),
		AmountB: new(big.Int).Set(amountB),
	}, nil
}
