package service

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/fleshka4/amm-pool/internal/apperrors"
	"github.com/fleshka4/amm-pool/internal/infra/ledger"
	"github.com/fleshka4/amm-pool/internal/pool"
	"github.com/fleshka4/amm-pool/internal/service/dto"
	"github.com/fleshka4/amm-pool/internal/service/mock"
)

var (
	tokenX = common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F")
	tokenY = common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")
	vault  = common.HexToAddress("0x742d35Cc6634C0532925a3b844Bc454e4438f44e")
	alice  = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	bob    = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
	now    = time.Unix(1_700_000_000, 0)
)

func newService(t *testing.T, custody BalanceReader) (*PoolService, *ledger.Ledger) {
	t.Helper()

	l := ledger.New()
	for _, acct := range []common.Address{alice, bob} {
		require.NoError(t, l.Mint(tokenX, acct, big.NewInt(1_000_000)))
		require.NoError(t, l.Mint(tokenY, acct, big.NewInt(1_000_000)))
	}

	p, err := pool.New(tokenX, tokenY, vault, l.Custodian(vault), pool.WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	if custody == nil {
		custody = l
	}
	return NewPoolService(p, l, custody), l
}

func addRequest(x, y int64) dto.AddLiquidityRequest {
	return dto.AddLiquidityRequest{
		Caller:         alice,
		TokenA:         tokenX,
		TokenB:         tokenY,
		AmountADesired: big.NewInt(x),
		AmountBDesired: big.NewInt(y),
		AmountAMin:     big.NewInt(0),
		AmountBMin:     big.NewInt(0),
		To:             alice,
		Deadline:       now.Unix() + 60,
	}
}

func TestPoolService_Lifecycle(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t, nil)
	ctx := context.Background()

	added, err := svc.AddLiquidity(ctx, addRequest(100, 200))
	require.NoError(t, err)
	require.Equal(t, "141", added.Liquidity.String())

	state := svc.State(ctx)
	require.Equal(t, vault, state.Account)
	require.Equal(t, "100", state.ReserveX.String())
	require.Equal(t, "200", state.ReserveY.String())
	require.Equal(t, "141", state.TotalSupply.String())
	require.Equal(t, "141", svc.Shares(ctx, alice).String())

	price, err := svc.Price(ctx, tokenX, tokenY)
	require.NoError(t, err)
	require.Equal(t, "2000000000000000000", price.String())

	quoted, err := svc.Quote(ctx, dto.QuoteRequest{TokenIn: tokenX, TokenOut: tokenY, AmountIn: big.NewInt(10)})
	require.NoError(t, err)
	require.Equal(t, "18", quoted.String())

	amounts, err := svc.Swap(ctx, dto.SwapRequest{
		Caller:       bob,
		AmountIn:     big.NewInt(10),
		AmountOutMin: big.NewInt(18),
		Path:         []common.Address{tokenX, tokenY},
		To:           bob,
		Deadline:     now.Unix(),
	})
	require.NoError(t, err)
	require.Equal(t, quoted.String(), amounts[1].String())

	balance, err := svc.Balance(ctx, tokenY, bob)
	require.NoError(t, err)
	require.Equal(t, "1000018", balance.String())

	removed, err := svc.RemoveLiquidity(ctx, dto.RemoveLiquidityRequest{
		Caller:     alice,
		TokenA:     tokenX,
		TokenB:     tokenY,
		Liquidity:  big.NewInt(141),
		AmountAMin: big.NewInt(0),
		AmountBMin: big.NewInt(0),
		To:         alice,
		Deadline:   now.Unix(),
	})
	require.NoError(t, err)
	require.Equal(t, "110", removed.AmountA.String())
	require.Equal(t, "182", removed.AmountB.String())

	report, err := svc.Audit(ctx)
	require.NoError(t, err)
	require.True(t, report.Healthy)
}

func TestPoolService_Errors(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t, nil)
	ctx := context.Background()

	_, err := svc.AddLiquidity(ctx, dto.AddLiquidityRequest{Caller: alice})
	require.True(t, errors.Is(err, apperrors.ErrInvalidArgument))

	_, err = svc.Swap(ctx, dto.SwapRequest{
		Caller:       bob,
		AmountIn:     big.NewInt(10),
		AmountOutMin: big.NewInt(0),
		Path:         []common.Address{tokenX, tokenY},
		To:           bob,
		Deadline:     now.Unix(),
	})
	require.True(t, errors.Is(err, apperrors.ErrNoLiquidity))

	expired := addRequest(100, 200)
	expired.Deadline = now.Unix() - 1
	_, err = svc.AddLiquidity(ctx, expired)
	require.True(t, errors.Is(err, apperrors.ErrExpired))

	_, err = svc.Balance(ctx, common.Address{}, bob)
	require.True(t, errors.Is(err, apperrors.ErrInvalidArgument))

	_, err = svc.Quote(ctx, dto.QuoteRequest{TokenIn: tokenX, TokenOut: tokenX, AmountIn: big.NewInt(1)})
	require.True(t, errors.Is(err, apperrors.ErrInvalidArgument))
}

func TestPoolService_Audit(t *testing.T) {
	t.Parallel()

	t.Run("donation is surplus", func(t *testing.T) {
		t.Parallel()

		svc, l := newService(t, nil)
		ctx := context.Background()
		_, err := svc.AddLiquidity(ctx, addRequest(100, 200))
		require.NoError(t, err)

		require.NoError(t, l.Move(ctx, tokenX, bob, vault, big.NewInt(5)))

		report, err := svc.Audit(ctx)
		require.NoError(t, err)
		require.True(t, report.Healthy)
		require.Len(t, report.Assets, 2)
		require.Equal(t, tokenX, report.Assets[0].Asset)
		require.Equal(t, "5", report.Assets[0].Surplus.String())
		require.Equal(t, "0", report.Assets[1].Surplus.String())
	})

	t.Run("shortfall is unhealthy", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		custody := mock.NewMockBalanceReader(ctrl)
		svc, _ := newService(t, custody)
		ctx := context.Background()
		_, err := svc.AddLiquidity(ctx, addRequest(100, 200))
		require.NoError(t, err)

		custody.EXPECT().
			Balances(gomock.Any(), vault, tokenX, tokenY).
			Return([]*big.Int{big.NewInt(100), big.NewInt(150)}, nil)

		report, err := svc.Audit(ctx)
		require.NoError(t, err)
		require.False(t, report.Healthy)
		require.Equal(t, "-50", report.Assets[1].Surplus.String())
	})

	t.Run("custody read error", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		custody := mock.NewMockBalanceReader(ctrl)
		svc, _ := newService(t, custody)

		custody.EXPECT().
			Balances(gomock.Any(), vault, tokenX, tokenY).
			Return(nil, errors.New("rpc down"))

		_, err := svc.Audit(context.Background())
		require.Error(t, err)
	})
}
