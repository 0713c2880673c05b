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

// SwapParams describes an exact-input swap along Path = [tokenIn, tokenOut].
type SwapParams struct {
	AmountIn     *big.Int
	AmountOutMin *big.Int
	Path         []common.Address
	To           common.Address
	Deadline     int64
}

// SwapExactTokensForTokens sells exactly params.AmountIn of Path[0] from caller
// and sends the Path[1] output to params.To. It returns [amountIn, amountOut].
//
// Reserves are committed before any transfer is issued, so a collaborator
// observing the pool mid-swap already sees the post-trade state.
func (p *Pool) SwapExactTokensForTokens(ctx context.Context, caller common.Address, params SwapParams) ([]*big.Int, error) {
	ctx, err := p.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer p.end()

	if now := p.now().Unix(); now > params.Deadline {
		return nil, errors.Wrapf(apperrors.ErrExpired, "deadline %d, now %d", params.Deadline, now)
	}
	if len(params.Path) != 2 {
		return nil, errors.Wrapf(apperrors.ErrInvalidPathLength, "path has %d elements", len(params.Path))
	}
	tokenIn, tokenOut := params.Path[0], params.Path[1]
	flipped, err := p.orient(tokenIn, tokenOut)
	if err != nil {
		return nil, err
	}
	if params.To == (common.Address{}) {
		return nil, errors.Wrap(apperrors.ErrInvalidRecipient, "recipient is the zero address")
	}
	if err := checkAmount("amountIn", params.AmountIn); err != nil {
		return nil, err
	}
	if err := checkAmount("amountOutMin", params.AmountOutMin); err != nil {
		return nil, err
	}

	reserveIn, reserveOut := pair(p.reserveX, p.reserveY, flipped)
	if reserveIn.Sign() == 0 || reserveOut.Sign() == 0 {
		return nil, errors.Wrap(apperrors.ErrNoLiquidity, "swap against empty pool")
	}

	amountOut, err := dexmath.GetAmountOut(params.AmountIn, reserveIn, reserveOut)
	if err != nil {
		return nil, err
	}
	if amountOut.Sign() == 0 || amountOut.Cmp(params.AmountOutMin) < 0 {
		return nil, errors.Wrapf(apperrors.ErrInsufficientOutputAmount,
			"amountOut %s, minimum %s", amountOut, params.AmountOutMin)
	}

	snap := p.snapshot()
	newIn := new(big.Int).Add(reserveIn, params.AmountIn)
	newOut := new(big.Int).Sub(reserveOut, amountOut)
	p.reserveX, p.reserveY = pair(newIn, newOut, flipped)

	if err := p.transferer.TransferFrom(ctx, tokenIn, caller, p.account, params.AmountIn); err != nil {
		p.restore(snap)
		return nil, errors.Wrap(transferFailed(err), "pull input")
	}
	if err := p.transferer.Transfer(ctx, tokenOut, params.To, amountOut); err != nil {
		p.restore(snap)
		err = transferFailed(err)
		if rerr := p.transferer.Transfer(ctx, tokenIn, caller, params.AmountIn); rerr != nil {
			err = multierr.Append(err, errors.Wrap(rerr, "refund input"))
		}
		return nil, errors.Wrap(err, "push output")
	}

	p.recorder.TokensSwapped(ctx, TokensSwapped{
		User:      caller,
		TokenIn:   tokenIn,
		TokenOut:  tokenOut,
		AmountIn:  new(big.Int).Set(params.AmountIn),
		AmountOut: amountOut,
	})
	p.sync(ctx)

	return []*big.Int{new(big.Int).Set(params.AmountIn), new(big.Int).Set(amountOut)}, nil
}
