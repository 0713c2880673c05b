package validate

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/fleshka4/amm-pool/internal/apperrors"
	"github.com/fleshka4/amm-pool/internal/service/dto"
)

var zeroAddress = common.Address{}

// AddLiquidityRequestValidate validates a deposit request before it reaches the pool.
func AddLiquidityRequestValidate(req dto.AddLiquidityRequest) error {
	if req.Caller == zeroAddress {
		return errors.Wrap(apperrors.ErrInvalidArgument, "caller cannot be empty")
	}
	if req.TokenA == zeroAddress || req.TokenB == zeroAddress {
		return errors.Wrap(apperrors.ErrInvalidArgument, "token address cannot be empty")
	}

	return amounts(map[string]*big.Int{
		"amountADesired": req.AmountADesired,
		"amountBDesired": req.AmountBDesired,
		"amountAMin":     req.AmountAMin,
		"amountBMin":     req.AmountBMin,
	})
}

// RemoveLiquidityRequestValidate validates a withdrawal request before it reaches the pool.
func RemoveLiquidityRequestValidate(req dto.RemoveLiquidityRequest) error {
	if req.Caller == zeroAddress {
		return errors.Wrap(apperrors.ErrInvalidArgument, "caller cannot be empty")
	}
	if req.TokenA == zeroAddress || req.TokenB == zeroAddress {
		return errors.Wrap(apperrors.ErrInvalidArgument, "token address cannot be empty")
	}

	return amounts(map[string]*big.Int{
		"liquidity":  req.Liquidity,
		"amountAMin": req.AmountAMin,
		"amountBMin": req.AmountBMin,
	})
}

// SwapRequestValidate validates a swap request before it reaches the pool.
// Path length and membership are left to the pool.
func SwapRequestValidate(req dto.SwapRequest) error {
	if req.Caller == zeroAddress {
		return errors.Wrap(apperrors.ErrInvalidArgument, "caller cannot be empty")
	}

	return amounts(map[string]*big.Int{
		"amountIn":     req.AmountIn,
		"amountOutMin": req.AmountOutMin,
	})
}

// QuoteRequestValidate validates a quote request.
func QuoteRequestValidate(req dto.QuoteRequest) error {
	if req.TokenIn == zeroAddress || req.TokenOut == zeroAddress {
		return errors.Wrap(apperrors.ErrInvalidArgument, "token address cannot be empty")
	}
	if req.TokenIn == req.TokenOut {
		return errors.Wrap(apperrors.ErrInvalidArgument, "tokenOut cannot be the same as tokenIn")
	}
	if req.AmountIn == nil || req.AmountIn.Sign() <= 0 {
		return errors.Wrap(apperrors.ErrInvalidArgument, "amountIn must be positive")
	}

	return nil
}

func amounts(named map[string]*big.Int) error {
	for name, v := range named {
		if v == nil {
			return errors.Wrapf(apperrors.ErrInvalidArgument, "%s is required", name)
		}
		if v.Sign() < 0 {
			return errors.Wrapf(apperrors.ErrInvalidArgument, "%s cannot be negative", name)
		}
	}
	return nil
}
