package pool

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/fleshka4/amm-pool/internal/apperrors"
)

// transferFailed tags a collaborator error so callers can match ErrTransferFailed
// while keeping the underlying cause.
func transferFailed(err error) error {
	return multierr.Append(apperrors.ErrTransferFailed, err)
}

// leg is one outbound movement of a multi-transfer payout.
type leg struct {
	asset  common.Address
	amount *big.Int
}

// push pays each leg out of custody to `to`. When a leg fails, the legs already
// paid are clawed back from `to` so custody is left as it was.
func (p *Pool) push(ctx context.Context, to common.Address, legs ...leg) error {
	for i, l := range legs {
		if l.amount.Sign() == 0 {
			continue
		}
		err := p.transferer.Transfer(ctx, l.asset, to, l.amount)
		if err == nil {
			continue
		}

		err = transferFailed(err)
		for _, paid := range legs[:i] {
			if paid.amount.Sign() == 0 {
				continue
			}
			if cerr := p.transferer.TransferFrom(ctx, paid.asset, to, p.account, paid.amount); cerr != nil {
				err = multierr.Append(err, errors.Wrapf(cerr, "claw back %s", paid.asset.Hex()))
			}
		}
		return errors.Wrapf(err, "push %s", l.asset.Hex())
	}
	return nil
}
