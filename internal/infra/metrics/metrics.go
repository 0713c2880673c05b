package metrics

import (
	"context"
	"math/big"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/fleshka4/amm-pool/internal/pool"
)

const namespace = "amm_pool"

// Recorder exports pool records as Prometheus metrics.
type Recorder struct {
	deposits    prometheus.Counter
	withdrawals prometheus.Counter
	swaps       *prometheus.CounterVec
	swapVolume  *prometheus.CounterVec

	reserveX    prometheus.Gauge
	reserveY    prometheus.Gauge
	totalSupply prometheus.Gauge
}

var _ pool.Recorder = (*Recorder)(nil)

// New creates a Recorder and registers its collectors with r.
func New(r prometheus.Registerer) (*Recorder, error) {
	m := &Recorder{
		deposits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deposits_total",
			Help:      "number of successful deposits",
		}),
		withdrawals: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "withdrawals_total",
			Help:      "number of successful withdrawals",
		}),
		swaps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "swaps_total",
			Help:      "number of successful swaps by input asset",
		}, []string{"token_in"}),
		swapVolume: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "swap_volume_in",
			Help:      "sum of swap input amounts in base units by input asset",
		}, []string{"token_in"}),
		reserveX: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "reserve_x",
			Help:      "reserve of asset X in base units",
		}),
		reserveY: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "reserve_y",
			Help:      "reserve of asset Y in base units",
		}),
		totalSupply: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "total_supply",
			Help:      "outstanding liquidity shares",
		}),
	}

	err := multierr.Combine(
		r.Register(m.deposits),
		r.Register(m.withdrawals),
		r.Register(m.swaps),
		r.Register(m.swapVolume),

		r.Register(m.reserveX),
		r.Register(m.reserveY),
		r.Register(m.totalSupply),
	)
	if err != nil {
		return nil, errors.Wrap(err, "register metrics")
	}
	return m, nil
}

func (m *Recorder) LiquidityAdded(context.Context, pool.LiquidityAdded) {
	m.deposits.Inc()
}

func (m *Recorder) LiquidityRemoved(context.Context, pool.LiquidityRemoved) {
	m.withdrawals.Inc()
}

func (m *Recorder) TokensSwapped(_ context.Context, e pool.TokensSwapped) {
	token := e.TokenIn.Hex()
	m.swaps.WithLabelValues(token).Inc()
	m.swapVolume.WithLabelValues(token).Add(toFloat(e.AmountIn))
}

func (m *Recorder) Synced(_ context.Context, s pool.Sync) {
	m.reserveX.Set(toFloat(s.ReserveX))
	m.reserveY.Set(toFloat(s.ReserveY))
	m.totalSupply.Set(toFloat(s.TotalSupply))
}

// toFloat loses precision past 2^53; gauges are for dashboards, not accounting.
func toFloat(v *big.Int) float64 {
	if v == nil {
		return 0
	}
	f, _ := new(big.Float).SetInt(v).Float64()
	return f
}
