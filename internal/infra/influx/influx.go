// Package influx indexes pool records as InfluxDB points.
package influx

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/fleshka4/amm-pool/internal/pool"
)

const measurement = "amm_pool"

// PointWriter is the subset of api.WriteAPI the recorder needs.
type PointWriter interface {
	WritePoint(point *write.Point)
}

// Recorder writes one point per pool record. Writes are asynchronous; delivery
// errors surface on the WriteAPI error channel, not here.
type Recorder struct {
	outbound PointWriter
	pair     string
	now      func() time.Time
}

var _ pool.Recorder = (*Recorder)(nil)

// NewRecorder returns a Recorder tagging every point with the pool pair.
func NewRecorder(outbound PointWriter, tokenX, tokenY common.Address) *Recorder {
	return &Recorder{
		outbound: outbound,
		pair:     tokenX.Hex() + "/" + tokenY.Hex(),
		now:      time.Now,
	}
}

// Dial opens an InfluxDB client and a non-blocking write API for org/bucket.
// The returned close function flushes pending points.
func Dial(url, token, org, bucket string) (PointWriter, func()) {
	client := influxdb2.NewClient(url, token)
	outbound := client.WriteAPI(org, bucket)

	return outbound, func() {
		outbound.Flush()
		client.Close()
	}
}

func (r *Recorder) write(event string, tags map[string]string, fields map[string]interface{}) {
	tags["event"] = event
	tags["pair"] = r.pair

	point := write.NewPoint(measurement, tags, fields, r.now())
	r.outbound.WritePoint(point)
}

func (r *Recorder) LiquidityAdded(_ context.Context, e pool.LiquidityAdded) {
	r.write("liquidity_added",
		map[string]string{"account": e.Provider.Hex()},
		map[string]interface{}{
			"amount_a":  str(e.AmountA),
			"amount_b":  str(e.AmountB),
			"liquidity": str(e.Liquidity),
		})
}

func (r *Recorder) LiquidityRemoved(_ context.Context, e pool.LiquidityRemoved) {
	r.write("liquidity_removed",
		map[string]string{"account": e.Provider.Hex()},
		map[string]interface{}{
			"amount_a":  str(e.AmountA),
			"amount_b":  str(e.AmountB),
			"liquidity": str(e.Liquidity),
		})
}

func (r *Recorder) TokensSwapped(_ context.Context, e pool.TokensSwapped) {
	r.write("tokens_swapped",
		map[string]string{
			"account":   e.User.Hex(),
			"token_in":  e.TokenIn.Hex(),
			"token_out": e.TokenOut.Hex(),
		},
		map[string]interface{}{
			"amount_in":  str(e.AmountIn),
			"amount_out": str(e.AmountOut),
		})
}

func (r *Recorder) Synced(_ context.Context, s pool.Sync) {
	r.write("sync",
		map[string]string{},
		map[string]interface{}{
			"reserve_x":    str(s.ReserveX),
			"reserve_y":    str(s.ReserveY),
			"total_supply": str(s.TotalSupply),
			"price_x":      price(s.ReserveX, s.ReserveY),
		})
}

// Amounts are stored as decimal strings so no precision is lost.
func str(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func price(reserveIn, reserveOut *big.Int) float64 {
	if reserveIn == nil || reserveOut == nil || reserveIn.Sign() == 0 {
		return 0
	}
	f, _ := new(big.Float).Quo(new(big.Float).SetInt(reserveOut), new(big.Float).SetInt(reserveIn)).Float64()
	return f
}
