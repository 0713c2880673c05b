package pool

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/fleshka4/amm-pool/internal/apperrors"
	"github.com/fleshka4/amm-pool/internal/infra/ledger"
)

var (
	tokenX  = common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F")
	tokenY  = common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")
	vault   = common.HexToAddress("0x742d35Cc6634C0532925a3b844Bc454e4438f44e")
	alice   = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	bob     = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
	other   = common.HexToAddress("0x99999999999")
	nowUnix = int64(1_700_000_000)
)

func fixedClock() time.Time {
	return time.Unix(nowUnix, 0)
}

func deadline() int64 {
	return nowUnix + 60
}

// hookTransferer wraps a ledger custodian and lets tests intercept calls.
type hookTransferer struct {
	*ledger.Custodian
	onTransferFrom func(ctx context.Context, asset common.Address) error
	onTransfer     func(ctx context.Context, asset common.Address) error
}

func (h *hookTransferer) TransferFrom(ctx context.Context, asset, from, to common.Address, amount *big.Int) error {
	if h.onTransferFrom != nil {
		if err := h.onTransferFrom(ctx, asset); err != nil {
			return err
		}
	}
	return h.Custodian.TransferFrom(ctx, asset, from, to, amount)
}

func (h *hookTransferer) Transfer(ctx context.Context, asset, to common.Address, amount *big.Int) error {
	if h.onTransfer != nil {
		if err := h.onTransfer(ctx, asset); err != nil {
			return err
		}
	}
	return h.Custodian.Transfer(ctx, asset, to, amount)
}

type captureRecorder struct {
	added   []LiquidityAdded
	removed []LiquidityRemoved
	swapped []TokensSwapped
	syncs   []Sync
}

func (c *captureRecorder) LiquidityAdded(_ context.Context, r LiquidityAdded) {
	c.added = append(c.added, r)
}

func (c *captureRecorder) LiquidityRemoved(_ context.Context, r LiquidityRemoved) {
	c.removed = append(c.removed, r)
}

func (c *captureRecorder) TokensSwapped(_ context.Context, r TokensSwapped) {
	c.swapped = append(c.swapped, r)
}

func (c *captureRecorder) Synced(_ context.Context, s Sync) {
	c.syncs = append(c.syncs, s)
}

type fixture struct {
	pool   *Pool
	ledger *ledger.Ledger
	hooks  *hookTransferer
	rec    *captureRecorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	l := ledger.New()
	for _, acct := range []common.Address{alice, bob} {
		require.NoError(t, l.Mint(tokenX, acct, big.NewInt(1_000_000)))
		require.NoError(t, l.Mint(tokenY, acct, big.NewInt(1_000_000)))
	}

	hooks := &hookTransferer{Custodian: l.Custodian(vault)}
	rec := &captureRecorder{}
	p, err := New(tokenX, tokenY, vault, hooks, WithClock(fixedClock), WithRecorder(rec))
	require.NoError(t, err)

	return &fixture{pool: p, ledger: l, hooks: hooks, rec: rec}
}

func (f *fixture) deposit(t *testing.T, who common.Address, x, y int64) DepositResult {
	t.Helper()

	res, err := f.pool.AddLiquidity(context.Background(), who, DepositParams{
		TokenA:         tokenX,
		TokenB:         tokenY,
		AmountADesired: big.NewInt(x),
		AmountBDesired: big.NewInt(y),
		AmountAMin:     big.NewInt(0),
		AmountBMin:     big.NewInt(0),
		To:             who,
		Deadline:       deadline(),
	})
	require.NoError(t, err)
	return res
}

func (f *fixture) requireReserves(t *testing.T, x, y string) {
	t.Helper()

	rx, ry := f.pool.Reserves(context.Background())
	require.Equal(t, x, rx.String())
	require.Equal(t, y, ry.String())
}

// requireCustody checks that the ledger holds exactly what the pool accounts for.
func (f *fixture) requireCustody(t *testing.T) {
	t.Helper()

	rx, ry := f.pool.Reserves(context.Background())
	require.Equal(t, rx.String(), f.ledger.BalanceOf(tokenX, vault).String())
	require.Equal(t, ry.String(), f.ledger.BalanceOf(tokenY, vault).String())
}

func TestNew(t *testing.T) {
	t.Parallel()

	l := ledger.New()
	c := l.Custodian(vault)

	tests := []struct {
		name       string
		x, y, acct common.Address
		transferer Transferer
	}{
		{name: "identical assets", x: tokenX, y: tokenX, acct: vault, transferer: c},
		{name: "zero asset", x: common.Address{}, y: tokenY, acct: vault, transferer: c},
		{name: "zero account", x: tokenX, y: tokenY, acct: common.Address{}, transferer: c},
		{name: "nil transferer", x: tokenX, y: tokenY, acct: vault, transferer: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p, err := New(tt.x, tt.y, tt.acct, tt.transferer)
			require.True(t, errors.Is(err, apperrors.ErrInvalidConfiguration))
			require.Nil(t, p)
		})
	}

	t.Run("empty pool", func(t *testing.T) {
		t.Parallel()

		p, err := New(tokenX, tokenY, vault, c)
		require.NoError(t, err)

		x, y := p.Tokens()
		require.Equal(t, tokenX, x)
		require.Equal(t, tokenY, y)
		require.Equal(t, vault, p.Account())

		rx, ry := p.Reserves(context.Background())
		require.Zero(t, rx.Sign())
		require.Zero(t, ry.Sign())
		require.Zero(t, p.TotalSupply(context.Background()).Sign())
	})
}
