package pool

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/fleshka4/amm-pool/internal/apperrors"
	"github.com/fleshka4/amm-pool/internal/dexmath"
)

// Price returns how many units of tokenB one unit of tokenA is worth, scaled
// by dexmath.Scale.
func (p *Pool) Price(ctx context.Context, tokenA, tokenB common.Address) (*big.Int, error) {
	flipped, err := p.orient(tokenA, tokenB)
	if err != nil {
		return nil, err
	}

	defer p.rlock(ctx)()
	reserveA, reserveB := pair(p.reserveX, p.reserveY, flipped)
	if reserveA.Sign() == 0 || reserveB.Sign() == 0 {
		return nil, errors.Wrap(apperrors.ErrNoLiquidity, "price of empty pool")
	}
	return dexmath.Price(reserveA, reserveB)
}

// QuoteOut is the pricing formula used by swaps, exposed for quoting.
func QuoteOut(amountIn, reserveIn, reserveOut *big.Int) (*big.Int, error) {
	return dexmath.GetAmountOut(amountIn, reserveIn, reserveOut)
}

// Quote returns the output a swap of amountIn along (tokenIn, tokenOut) would
// produce against the current reserves.
func (p *Pool) Quote(ctx context.Context, tokenIn, tokenOut common.Address, amountIn *big.Int) (*big.Int, error) {
	flipped, err := p.orient(tokenIn, tokenOut)
	if err != nil {
		return nil, err
	}
	if amountIn == nil || amountIn.Sign() <= 0 {
		return nil, errors.Wrap(apperrors.ErrInvalidInput, "amountIn must be positive")
	}

	defer p.rlock(ctx)()
	reserveIn, reserveOut := pair(p.reserveX, p.reserveY, flipped)
	if reserveIn.Sign() == 0 || reserveOut.Sign() == 0 {
		return nil, errors.Wrap(apperrors.ErrNoLiquidity, "quote against empty pool")
	}
	return QuoteOut(amountIn, reserveIn, reserveOut)
}
