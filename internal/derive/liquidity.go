package derive

import (
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/yourorg/thbill-risk-dashboard/internal/model"
)

// MinPoolTVL is the USD floor below which a pool is left out of the liquidity
// section and every liquidity aggregate.
const MinPoolTVL = 5000.0

// Depth is the 2% depth of a pool as displayed.
type Depth struct {
	// Value is the mean of buy and sell, or whichever side is present
	Value model.NullFloat `json:"value"`
	Buy   model.NullFloat `json:"buy"`
	Sell  model.NullFloat `json:"sell"`
	// Detail is set when both sides are present and can be shown separately
	Detail bool `json:"detail,omitempty"`
}

// PoolRow is a surviving pool with resolved display fields.
type PoolRow struct {
	Market      string          `json:"market"`
	Pair        string          `json:"pair"`
	PairDisplay string          `json:"pair_display"`
	Chain       string          `json:"chain"`
	ChainLabel  string          `json:"chain_label"`
	TVL         model.NullFloat `json:"tvl_usd"`
	Volume24h   model.NullFloat `json:"volume_24h"`
	Spread      model.NullFloat `json:"spread"`
	Depth       Depth           `json:"depth"`
}

// Liquidity is the filtered, sorted pool list and its aggregates.
type Liquidity struct {
	Pools          []PoolRow `json:"pools"`
	TotalTVL       float64   `json:"total_tvl"`
	TotalVolume24h float64   `json:"total_volume_24h"`
	PoolCount      int       `json:"pool_count"`
	// DepthSum is absent when no surviving pool reports depth
	DepthSum model.NullFloat `json:"depth_sum"`
}

// FilterPools drops pools whose TVL is below MinPoolTVL. A missing TVL counts
// as zero. Input order is preserved.
func FilterPools(pools []model.Pool) []model.Pool {
	kept := make([]model.Pool, 0, len(pools))
	for _, p := range pools {
		if p.TVLUSD.Or(0) >= MinPoolTVL {
			kept = append(kept, p)
			continue
		}
		logrus.WithFields(logrus.Fields{
			"market": p.Market,
			"chain":  p.Chain,
			"tvl":    p.TVLUSD.Ptr(),
		}).Debug("Filtered pool below TVL floor")
	}
	return kept
}

// DepthEstimate returns the mean of buy and sell depth, or the present side.
func DepthEstimate(buy, sell model.NullFloat) model.NullFloat {
	switch {
	case buy.Valid && sell.Valid:
		return model.Float((buy.Float64 + sell.Float64) / 2)
	case buy.Valid:
		return buy
	default:
		return sell
	}
}

// PoolDepth builds the display depth of a pool.
func PoolDepth(buy, sell model.NullFloat) Depth {
	return Depth{
		Value:  DepthEstimate(buy, sell),
		Buy:    buy,
		Sell:   sell,
		Detail: buy.Valid && sell.Valid,
	}
}

// AggregateLiquidity filters, totals and sorts the pool list. A nil section
// yields nil.
func AggregateLiquidity(sl *model.SecondaryLiquidity) *Liquidity {
	if sl == nil {
		return nil
	}

	pools := FilterPools(sl.Pools)
	out := &Liquidity{
		Pools:     make([]PoolRow, 0, len(pools)),
		PoolCount: len(pools),
	}

	var depthSum float64
	var depthSeen bool
	for _, p := range pools {
		out.TotalTVL += p.TVLUSD.Or(0)
		out.TotalVolume24h += p.Volume24h.Or(0)
		if d := DepthEstimate(p.Depth2PctBuy, p.Depth2PctSell); d.Valid {
			depthSum += d.Float64
			depthSeen = true
		}
	}
	if depthSeen {
		out.DepthSum = model.Float(depthSum)
	}

	sort.SliceStable(pools, func(i, j int) bool {
		return pools[i].TVLUSD.Or(0) > pools[j].TVLUSD.Or(0)
	})

	for _, p := range pools {
		out.Pools = append(out.Pools, PoolRow{
			Market:      p.Market,
			Pair:        p.Pair,
			PairDisplay: PairName(p.Pair),
			Chain:       p.Chain,
			ChainLabel:  ChainLabel(p.Chain),
			TVL:         p.TVLUSD,
			Volume24h:   p.Volume24h,
			Spread:      p.Spread,
			Depth:       PoolDepth(p.Depth2PctBuy, p.Depth2PctSell),
		})
	}
	return out
}
