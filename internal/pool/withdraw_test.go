package pool

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/fleshka4/amm-pool/internal/apperrors"
)

func withdrawParams(liquidity int64) WithdrawParams {
	return WithdrawParams{
		TokenA:     tokenX,
		TokenB:     tokenY,
		Liquidity:  big.NewInt(liquidity),
		AmountAMin: big.NewInt(0),
		AmountBMin: big.NewInt(0),
		To:         alice,
		Deadline:   deadline(),
	}
}

func TestRemoveLiquidity_RoundTrip(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.deposit(t, alice, 100, 200)

	res, err := f.pool.RemoveLiquidity(context.Background(), alice, withdrawParams(141))
	require.NoError(t, err)
	require.Equal(t, "100", res.AmountA.String())
	require.Equal(t, "200", res.AmountB.String())

	f.requireReserves(t, "0", "0")
	f.requireCustody(t)
	require.Zero(t, f.pool.TotalSupply(context.Background()).Sign())
	require.Zero(t, f.pool.BalanceOf(context.Background(), alice).Sign())
	require.Equal(t, "1000000", f.ledger.BalanceOf(tokenX, alice).String())
	require.Equal(t, "1000000", f.ledger.BalanceOf(tokenY, alice).String())

	require.Len(t, f.rec.removed, 1)
	require.Equal(t, "141", f.rec.removed[0].Liquidity.String())
}

func TestRemoveLiquidity_RoundingFavorsPool(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.deposit(t, alice, 100, 200)
	minted := f.deposit(t, bob, 10, 20)
	require.Equal(t, "14", minted.Liquidity.String())

	params := withdrawParams(14)
	params.To = bob
	res, err := f.pool.RemoveLiquidity(context.Background(), bob, params)
	require.NoError(t, err)

	// 14*110/155 and 14*220/155, floored.
	require.Equal(t, "9", res.AmountA.String())
	require.Equal(t, "19", res.AmountB.String())
	f.requireReserves(t, "101", "201")
	f.requireCustody(t)
	require.Equal(t, "141", f.pool.TotalSupply(context.Background()).String())
}

func TestRemoveLiquidity_ReversedPair(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.deposit(t, alice, 100, 200)

	params := withdrawParams(70)
	params.TokenA, params.TokenB = tokenY, tokenX
	params.AmountAMin = big.NewInt(99)
	params.AmountBMin = big.NewInt(49)

	res, err := f.pool.RemoveLiquidity(context.Background(), alice, params)
	require.NoError(t, err)
	require.Equal(t, "99", res.AmountA.String()) // token Y: 70*200/141
	require.Equal(t, "49", res.AmountB.String()) // token X: 70*100/141
	f.requireReserves(t, "51", "101")

	require.Equal(t, "99", f.rec.removed[0].AmountA.String())
	require.Equal(t, "49", f.rec.removed[0].AmountB.String())
}

func TestRemoveLiquidity_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(p *WithdrawParams)
		wantErr error
	}{
		{
			name:    "more shares than held",
			mutate:  func(p *WithdrawParams) { p.Liquidity = big.NewInt(142) },
			wantErr: apperrors.ErrInsufficientShares,
		},
		{
			name:    "expired",
			mutate:  func(p *WithdrawParams) { p.Deadline = nowUnix - 1 },
			wantErr: apperrors.ErrExpired,
		},
		{
			name:    "zero recipient",
			mutate:  func(p *WithdrawParams) { p.To = common.Address{} },
			wantErr: apperrors.ErrInvalidRecipient,
		},
		{
			name:    "foreign token",
			mutate:  func(p *WithdrawParams) { p.TokenA = other },
			wantErr: apperrors.ErrInvalidPair,
		},
		{
			name:    "zero liquidity",
			mutate:  func(p *WithdrawParams) { p.Liquidity = big.NewInt(0) },
			wantErr: apperrors.ErrInvalidInput,
		},
		{
			name:    "nil minimum",
			mutate:  func(p *WithdrawParams) { p.AmountAMin = nil },
			wantErr: apperrors.ErrInvalidInput,
		},
		{
			name:    "amount a below minimum",
			mutate:  func(p *WithdrawParams) { p.AmountAMin = big.NewInt(101) },
			wantErr: apperrors.ErrSlippageExceeded,
		},
		{
			name:    "amount b below minimum",
			mutate:  func(p *WithdrawParams) { p.AmountBMin = big.NewInt(201) },
			wantErr: apperrors.ErrSlippageExceeded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			f.deposit(t, alice, 100, 200)

			params := withdrawParams(141)
			tt.mutate(&params)

			_, err := f.pool.RemoveLiquidity(context.Background(), alice, params)
			require.True(t, errors.Is(err, tt.wantErr), "got %v", err)

			f.requireReserves(t, "100", "200")
			f.requireCustody(t)
			require.Equal(t, "141", f.pool.TotalSupply(context.Background()).String())
			require.Equal(t, "141", f.pool.BalanceOf(context.Background(), alice).String())
			require.Len(t, f.rec.removed, 0)
		})
	}
}

func TestRemoveLiquidity_OtherAccountsShares(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.deposit(t, alice, 100, 200)

	params := withdrawParams(1)
	params.To = bob
	_, err := f.pool.RemoveLiquidity(context.Background(), bob, params)
	require.True(t, errors.Is(err, apperrors.ErrInsufficientShares))
}

func TestRemoveLiquidity_PushFailureClawsBack(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.deposit(t, alice, 100, 200)

	f.hooks.onTransfer = func(_ context.Context, asset common.Address) error {
		if asset == tokenY {
			return errors.New("settlement halted")
		}
		return nil
	}

	_, err := f.pool.RemoveLiquidity(context.Background(), alice, withdrawParams(141))
	require.True(t, errors.Is(err, apperrors.ErrTransferFailed))

	f.requireReserves(t, "100", "200")
	f.requireCustody(t)
	require.Equal(t, "141", f.pool.BalanceOf(context.Background(), alice).String())
	require.Equal(t, "999900", f.ledger.BalanceOf(tokenX, alice).String())
	require.Empty(t, f.rec.removed)
}
