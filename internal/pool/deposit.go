package pool

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/fleshka4/amm-pool/internal/apperrors"
	"github.com/fleshka4/amm-pool/internal/dexmath"
)

// DepositParams describes an AddLiquidity call. TokenA and TokenB may be the
// pool pair in either order; every A/B amount follows that order.
type DepositParams struct {
	TokenA         common.Address
	TokenB         common.Address
	AmountADesired *big.Int
	AmountBDesired *big.Int
	AmountAMin     *big.Int
	AmountBMin     *big.Int
	To             common.Address
	Deadline       int64
}

// DepositResult holds the accepted amounts, in request order, and the shares minted.
type DepositResult struct {
	AmountA   *big.Int
	AmountB   *big.Int
	Liquidity *big.Int
}

// AddLiquidity pulls a proportional deposit from caller and mints shares to params.To.
func (p *Pool) AddLiquidity(ctx context.Context, caller common.Address, params DepositParams) (DepositResult, error) {
	ctx, err := p.begin(ctx)
	if err != nil {
		return DepositResult{}, err
	}
	defer p.end()

	if err := p.checkCommon(params.Deadline, params.To); err != nil {
		return DepositResult{}, err
	}
	flipped, err := p.orient(params.TokenA, params.TokenB)
	if err != nil {
		return DepositResult{}, err
	}
	for name, v := range map[string]*big.Int{
		"amountADesired": params.AmountADesired,
		"amountBDesired": params.AmountBDesired,
		"amountAMin":     params.AmountAMin,
		"amountBMin":     params.AmountBMin,
	} {
		if err := checkAmount(name, v); err != nil {
			return DepositResult{}, err
		}
	}

	desiredX, desiredY := pair(params.AmountADesired, params.AmountBDesired, flipped)
	minX, minY := pair(params.AmountAMin, params.AmountBMin, flipped)

	amountX, amountY, err := p.optimalAmounts(desiredX, desiredY, minX, minY)
	if err != nil {
		return DepositResult{}, err
	}

	liquidity := p.liquidityFor(amountX, amountY)
	if liquidity.Sign() == 0 {
		return DepositResult{}, errors.Wrapf(apperrors.ErrInsufficientLiquidityMinted,
			"deposit %s/%s mints no shares", amountX, amountY)
	}

	if err := p.pull(ctx, caller, amountX, amountY); err != nil {
		return DepositResult{}, err
	}

	p.reserveX = new(big.Int).Add(p.reserveX, amountX)
	p.reserveY = new(big.Int).Add(p.reserveY, amountY)
	p.mint(params.To, liquidity)

	amountA, amountB := pair(amountX, amountY, flipped)
	p.recorder.LiquidityAdded(ctx, LiquidityAdded{
		Provider:  caller,
		AmountA:   amountA,
		AmountB:   amountB,
		Liquidity: liquidity,
	})
	p.sync(ctx)

	return DepositResult{
		AmountA:   new(big.Int).Set(amountA),
		AmountB:   new(big.Int).Set(amountB),
		Liquidity: new(big.Int).Set(liquidity),
	}, nil
}

// optimalAmounts solves for the largest deposit at the current reserve ratio
// that fits within the desired amounts. The first deposit sets the ratio.
func (p *Pool) optimalAmounts(desiredX, desiredY, minX, minY *big.Int) (*big.Int, *big.Int, error) {
	if p.reserveX.Sign() == 0 && p.reserveY.Sign() == 0 {
		return desiredX, desiredY, nil
	}

	optimalY, err := dexmath.Quote(desiredX, p.reserveX, p.reserveY)
	if err != nil {
		return nil, nil, err
	}
	if optimalY.Cmp(desiredY) <= 0 {
		if optimalY.Cmp(minY) < 0 {
			return nil, nil, errors.Wrapf(apperrors.ErrSlippageExceeded,
				"optimal amount %s below minimum %s", optimalY, minY)
		}
		return desiredX, optimalY, nil
	}

	optimalX, err := dexmath.Quote(desiredY, p.reserveY, p.reserveX)
	if err != nil {
		return nil, nil, err
	}
	if optimalX.Cmp(minX) < 0 {
		return nil, nil, errors.Wrapf(apperrors.ErrSlippageExceeded,
			"optimal amount %s below minimum %s", optimalX, minX)
	}
	return optimalX, desiredY, nil
}

// liquidityFor returns the shares a deposit of (amountX, amountY) is worth.
func (p *Pool) liquidityFor(amountX, amountY *big.Int) *big.Int {
	if p.totalSupply.Sign() == 0 {
		return dexmath.Sqrt(new(big.Int).Mul(amountX, amountY))
	}
	if p.reserveX.Sign() == 0 || p.reserveY.Sign() == 0 {
		return new(big.Int)
	}
	return dexmath.Min(
		dexmath.MulDiv(amountX, p.totalSupply, p.reserveX),
		dexmath.MulDiv(amountY, p.totalSupply, p.reserveY),
	)
}

// pull moves both deposit legs into custody. If the second leg fails the
// first is refunded.
func (p *Pool) pull(ctx context.Context, from common.Address, amountX, amountY *big.Int) error {
	if err := p.transferer.TransferFrom(ctx, p.tokenX, from, p.account, amountX); err != nil {
		return errors.Wrap(transferFailed(err), "pull token x")
	}
	if err := p.transferer.TransferFrom(ctx, p.tokenY, from, p.account, amountY); err != nil {
		err = transferFailed(err)
		if rerr := p.transferer.Transfer(ctx, p.tokenX, from, amountX); rerr != nil {
			err = multierr.Append(err, errors.Wrap(rerr, "refund token x"))
		}
		return errors.Wrap(err, "pull token y")
	}
	return nil
}
