package present

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/yourorg/thbill-risk-dashboard/internal/derive"
)

// Gauges exports the headline risk indicators to Prometheus.
type Gauges struct {
	seq sequence

	backingRatio    prometheus.Gauge
	premiumDiscount prometheus.Gauge
	tvl             prometheus.Gauge
	poolCount       prometheus.Gauge
	depth           prometheus.Gauge
	volume          prometheus.Gauge
	stars           prometheus.Gauge
	axisScore       *prometheus.GaugeVec
	lastSuccess     prometheus.Gauge
	cycles          *prometheus.CounterVec
}

// NewGauges creates the gauge set and registers it with reg.
func NewGauges(reg prometheus.Registerer) *Gauges {
	g := &Gauges{
		backingRatio: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "thbill_backing_ratio_pct",
			Help: "ULTRA-only backing ratio as a percentage of thBILL supply",
		}),
		premiumDiscount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "thbill_premium_discount_pct",
			Help: "Secondary market premium (+) or discount (-) to NAV",
		}),
		tvl: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "thbill_tvl_usd",
			Help: "Total value locked in USD",
		}),
		poolCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "thbill_liquidity_pool_count",
			Help: "Number of pools above the TVL floor",
		}),
		depth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "thbill_liquidity_depth_2pct_usd",
			Help: "Summed 2% depth across surviving pools",
		}),
		volume: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "thbill_liquidity_volume_24h_usd",
			Help: "24h volume across surviving pools",
		}),
		stars: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "thbill_rating_stars",
			Help: "Peg and liquidity rating, 1 to 5",
		}),
		axisScore: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "thbill_rating_axis_score",
			Help: "Per-axis rating score, 1 to 5",
		}, []string{"axis"}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "thbill_last_success_timestamp_seconds",
			Help: "Unix time of the last successful refresh",
		}),
		cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "thbill_refresh_cycles_total",
			Help: "Refresh cycles by outcome",
		}, []string{"status"}),
	}

	reg.MustRegister(
		g.backingRatio,
		g.premiumDiscount,
		g.tvl,
		g.poolCount,
		g.depth,
		g.volume,
		g.stars,
		g.axisScore,
		g.lastSuccess,
		g.cycles,
	)
	return g
}

// Present updates every gauge whose source section is available. The counter
// counts every cycle, stale or not.
func (g *Gauges) Present(_ context.Context, seq uint64, d *derive.Dashboard) error {
	if d == nil {
		return ErrNilDashboard
	}
	g.cycles.WithLabelValues("success").Inc()
	g.seq.apply(seq, func() { g.set(d) })
	return nil
}

// Fail counts the failed cycle.
func (g *Gauges) Fail(_ context.Context, _ uint64, _ error) {
	g.cycles.WithLabelValues("error").Inc()
}

func (g *Gauges) set(d *derive.Dashboard) {
	if d.BackingRatio != nil && d.BackingRatio.Pct.Valid {
		g.backingRatio.Set(d.BackingRatio.Pct.Float64)
	}
	if d.Peg != nil && d.Peg.PremiumDiscountPct.Valid {
		g.premiumDiscount.Set(d.Peg.PremiumDiscountPct.Float64)
	}
	if d.TVL != nil && d.TVL.Total.Valid {
		g.tvl.Set(d.TVL.Total.Float64)
	}
	if d.Liquidity != nil {
		g.poolCount.Set(float64(d.Liquidity.PoolCount))
		g.depth.Set(d.Liquidity.DepthSum.Or(0))
		g.volume.Set(d.Liquidity.TotalVolume24h)
	}
	g.stars.Set(float64(d.Rating.Stars))
	g.axisScore.WithLabelValues(string(derive.AxisPeg)).Set(float64(d.Rating.PegScore))
	g.axisScore.WithLabelValues(string(derive.AxisDepth)).Set(float64(d.Rating.DepthScore))
	g.axisScore.WithLabelValues(string(derive.AxisVolume)).Set(float64(d.Rating.VolumeScore))
	g.lastSuccess.SetToCurrentTime()
}
