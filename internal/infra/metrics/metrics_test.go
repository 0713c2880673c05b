package metrics

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/fleshka4/amm-pool/internal/pool"
)

func TestRecorder(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)

	ctx := context.Background()
	tokenIn := common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F")

	m.LiquidityAdded(ctx, pool.LiquidityAdded{})
	m.LiquidityAdded(ctx, pool.LiquidityAdded{})
	m.LiquidityRemoved(ctx, pool.LiquidityRemoved{})
	m.TokensSwapped(ctx, pool.TokensSwapped{TokenIn: tokenIn, AmountIn: big.NewInt(10)})
	m.TokensSwapped(ctx, pool.TokensSwapped{TokenIn: tokenIn, AmountIn: big.NewInt(5)})
	m.Synced(ctx, pool.Sync{
		ReserveX:    big.NewInt(110),
		ReserveY:    big.NewInt(182),
		TotalSupply: big.NewInt(141),
	})

	require.Equal(t, 2.0, testutil.ToFloat64(m.deposits))
	require.Equal(t, 1.0, testutil.ToFloat64(m.withdrawals))
	require.Equal(t, 2.0, testutil.ToFloat64(m.swaps.WithLabelValues(tokenIn.Hex())))
	require.Equal(t, 15.0, testutil.ToFloat64(m.swapVolume.WithLabelValues(tokenIn.Hex())))
	require.Equal(t, 110.0, testutil.ToFloat64(m.reserveX))
	require.Equal(t, 182.0, testutil.ToFloat64(m.reserveY))
	require.Equal(t, 141.0, testutil.ToFloat64(m.totalSupply))

	count, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	require.Equal(t, 7, count)
}

func TestNew_DuplicateRegistration(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)

	_, err = New(reg)
	require.Error(t, err)
}
