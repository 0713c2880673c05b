package logging

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/fleshka4/amm-pool/internal/pool"
)

// Recorder logs pool records.
type Recorder struct {
	log zerolog.Logger
}

var _ pool.Recorder = (*Recorder)(nil)

// NewRecorder returns a Recorder writing to log.
func NewRecorder(log zerolog.Logger) *Recorder {
	return &Recorder{log: log.With().Str("component", "pool").Logger()}
}

func (r *Recorder) LiquidityAdded(_ context.Context, e pool.LiquidityAdded) {
	r.log.Info().
		Str("event", "liquidity_added").
		Str("provider", e.Provider.Hex()).
		Stringer("amount_a", e.AmountA).
		Stringer("amount_b", e.AmountB).
		Stringer("liquidity", e.Liquidity).
		Msg("liquidity added")
}

func (r *Recorder) LiquidityRemoved(_ context.Context, e pool.LiquidityRemoved) {
	r.log.Info().
		Str("event", "liquidity_removed").
		Str("provider", e.Provider.Hex()).
		Stringer("amount_a", e.AmountA).
		Stringer("amount_b", e.AmountB).
		Stringer("liquidity", e.Liquidity).
		Msg("liquidity removed")
}

func (r *Recorder) TokensSwapped(_ context.Context, e pool.TokensSwapped) {
	r.log.Info().
		Str("event", "tokens_swapped").
		Str("user", e.User.Hex()).
		Str("token_in", e.TokenIn.Hex()).
		Str("token_out", e.TokenOut.Hex()).
		Stringer("amount_in", e.AmountIn).
		Stringer("amount_out", e.AmountOut).
		Msg("tokens swapped")
}

func (r *Recorder) Synced(_ context.Context, s pool.Sync) {
	r.log.Debug().
		Stringer("reserve_x", s.ReserveX).
		Stringer("reserve_y", s.ReserveY).
		Stringer("total_supply", s.TotalSupply).
		Msg("sync")
}
