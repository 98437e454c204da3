package derive

import (
	"math"

	"github.com/yourorg/thbill-risk-dashboard/internal/model"
	"github.com/yourorg/thbill-risk-dashboard/internal/validation"
)

// Level grades an absolute peg deviation.
type Level string

const (
	LevelTight    Level = "tight"
	LevelModerate Level = "moderate"
	LevelWide     Level = "wide"
	LevelUnknown  Level = "unknown"
)

// DeviationLevel is tight within 0.1%, moderate within 0.5%, wide beyond.
func DeviationLevel(pct model.NullFloat) Level {
	if !pct.Valid {
		return LevelUnknown
	}
	switch abs := math.Abs(pct.Float64); {
	case abs <= 0.1:
		return LevelTight
	case abs <= 0.5:
		return LevelModerate
	default:
		return LevelWide
	}
}

// ChainDeviation is the price of thBILL on one chain relative to NAV.
type ChainDeviation struct {
	Chain        string          `json:"chain"`
	Price        model.NullFloat `json:"price"`
	Volume24h    model.NullFloat `json:"volume_24h"`
	DeviationPct model.NullFloat `json:"deviation_pct"`
	Level        Level           `json:"level"`
}

// PegStatus is the peg card and per-chain price table.
type PegStatus struct {
	NAV                model.NullFloat  `json:"nav_per_share"`
	VWAP               model.NullFloat  `json:"vwap"`
	PremiumDiscountPct model.NullFloat  `json:"premium_discount_pct"`
	Level              Level            `json:"level"`
	Chains             []ChainDeviation `json:"chains"`
}

// Peg derives the peg status. Chains keep their document order.
func Peg(p *model.Peg) *PegStatus {
	if p == nil {
		return nil
	}
	out := &PegStatus{
		NAV:                p.NAVPerShare,
		VWAP:               p.VWAP,
		PremiumDiscountPct: p.PremiumDiscountPct,
		Level:              DeviationLevel(p.PremiumDiscountPct),
		Chains:             make([]ChainDeviation, 0, len(p.PerChainPrices)),
	}
	for _, e := range p.PerChainPrices {
		row := ChainDeviation{
			Chain:     e.Key,
			Price:     e.Value.VWAP,
			Volume24h: e.Value.Volume24h,
		}
		if p.NAVPerShare.NonZero() && e.Value.VWAP.NonZero() {
			nav := p.NAVPerShare.Float64
			row.DeviationPct = model.Float((e.Value.VWAP.Float64 - nav) / nav * 100)
		}
		row.Level = DeviationLevel(row.DeviationPct)
		out.Chains = append(out.Chains, row)
	}
	return out
}

// HistoryStats summarizes the artifact-filtered peg history.
type HistoryStats struct {
	Points  []model.PegHistoryPoint `json:"points"`
	Count   int                     `json:"count"`
	MeanAbs model.NullFloat         `json:"mean_abs"`
	Min     model.NullFloat         `json:"min"`
	Max     model.NullFloat         `json:"max"`
}

// SummarizeHistory filters artifacts and computes the series statistics.
func SummarizeHistory(history []model.PegHistoryPoint) HistoryStats {
	points := validation.FilterHistory(history)
	stats := HistoryStats{Points: points, Count: len(points)}
	if len(points) == 0 {
		return stats
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	var sumAbs float64
	for _, p := range points {
		v := p.PremiumDiscountPct.Float64
		sumAbs += math.Abs(v)
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	stats.MeanAbs = model.Float(sumAbs / float64(len(points)))
	stats.Min = model.Float(lo)
	stats.Max = model.Float(hi)
	return stats
}

// NetFlow is the 24h redemption flow card.
type NetFlow struct {
	// Available is false while upstream cannot compute the flow yet
	Available bool            `json:"available"`
	Net       model.NullFloat `json:"net"`
	Pct       float64         `json:"pct"`
	Inflow    bool            `json:"inflow"`
	Note      string          `json:"note,omitempty"`
}

// Flow derives the net flow card. A null pct counts as zero.
func Flow(f *model.RedemptionFlow) *NetFlow {
	if f == nil {
		return nil
	}
	if !f.NetFlow24h.Valid {
		return &NetFlow{Note: f.Note}
	}
	return &NetFlow{
		Available: true,
		Net:       f.NetFlow24h,
		Pct:       f.NetFlowPercentage.Or(0),
		Inflow:    f.NetFlow24h.Float64 >= 0,
		Note:      f.Note,
	}
}
