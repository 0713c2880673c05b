package dexmath

import (
	"math/big"
	"sync"

	"github.com/pkg/errors"

	"github.com/fleshka4/amm-pool/internal/apperrors"
)

var (
	// Scale is the fixed-point denominator of Price (10^18).
	Scale = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

	defaultMath = newMathService()
)

type mathTmp struct {
	a *big.Int
	b *big.Int
}

type mathService struct {
	pool *sync.Pool
}

func newMathService() *mathService {
	return &mathService{
		pool: &sync.Pool{
			New: func() any {
				return &mathTmp{
					a: new(big.Int),
					b: new(big.Int),
				}
			},
		},
	}
}

func (m *mathService) getAmountOutInto(out, amountIn, reserveIn, reserveOut *big.Int) error {
	if out == nil {
		return errors.Wrap(apperrors.ErrInvalidInput, "nil output")
	}
	if !positive(amountIn) || !positive(reserveIn) || !positive(reserveOut) {
		out.SetInt64(0)
		return errors.Wrap(apperrors.ErrInvalidInput, "amount and reserves must be positive")
	}

	t := m.pool.Get().(*mathTmp)
	defer m.pool.Put(t)

	// num := amountIn * reserveOut.
	t.a.Mul(amountIn, reserveOut)

	// den := reserveIn + amountIn.
	t.b.Add(reserveIn, amountIn)

	// out = num / den, floored.
	out.Quo(t.a, t.b)
	return nil
}

// GetAmountOutInto computes the constant-product output for an exact input
// with no fee: floor(amountIn * reserveOut / (reserveIn + amountIn)).
//
// It writes the result into out, which must be non-nil and must not alias any
// of the inputs. Temporaries come from a pool, so a warm call does not allocate.
func GetAmountOutInto(out, amountIn, reserveIn, reserveOut *big.Int) error {
	return defaultMath.getAmountOutInto(out, amountIn, reserveIn, reserveOut)
}

// GetAmountOut is the allocating form of GetAmountOutInto.
// All three inputs must be strictly positive, otherwise ErrInvalidInput is returned.
func GetAmountOut(amountIn, reserveIn, reserveOut *big.Int) (*big.Int, error) {
	out := new(big.Int)
	if err := defaultMath.getAmountOutInto(out, amountIn, reserveIn, reserveOut); err != nil {
		return nil, err
	}
	return out, nil
}

// Quote returns the amount of B that is worth amountA at the reserve ratio:
// floor(amountA * reserveB / reserveA).
func Quote(amountA, reserveA, reserveB *big.Int) (*big.Int, error) {
	if !nonNegative(amountA) || !positive(reserveA) || !positive(reserveB) {
		return nil, errors.Wrap(apperrors.ErrInvalidInput, "quote requires positive reserves")
	}
	return MulDiv(amountA, reserveB, reserveA), nil
}

// MulDiv returns floor(a * b / d). d must be positive.
func MulDiv(a, b, d *big.Int) *big.Int {
	out := new(big.Int).Mul(a, b)
	return out.Quo(out, d)
}

// Sqrt returns floor(sqrt(x)) for x >= 0.
func Sqrt(x *big.Int) *big.Int {
	if x.Sign() <= 0 {
		return new(big.Int)
	}
	return new(big.Int).Sqrt(x)
}

// Price returns floor(reserveOut * Scale / reserveIn), i.e. units of the out
// asset per one unit of the in asset in 18-decimal fixed point.
func Price(reserveIn, reserveOut *big.Int) (*big.Int, error) {
	if !positive(reserveIn) || !positive(reserveOut) {
		return nil, errors.Wrap(apperrors.ErrNoLiquidity, "price requires positive reserves")
	}
	return MulDiv(reserveOut, Scale, reserveIn), nil
}

// Min returns the smaller of a and b.
func Min(a, b *big.Int) *big.Int {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}

func positive(x *big.Int) bool {
	return x != nil && x.Sign() > 0
}

func nonNegative(x *big.Int) bool {
	return x != nil && x.Sign() >= 0
}
