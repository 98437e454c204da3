// Package derive turns a metrics snapshot and peg history into the risk
// indicators shown on the dashboard. Every function here is pure and total:
// missing data degrades to absent values, never to errors.
package derive

import (
	"github.com/yourorg/thbill-risk-dashboard/internal/model"
)

// TVLSummary is the TVL card.
type TVLSummary struct {
	Total   model.NullFloat                `json:"total"`
	ByChain model.Ordered[model.NullFloat] `json:"by_chain"`
}

// Dashboard is everything derived from one refresh. A nil section means the
// snapshot did not carry it; presenters keep what they showed before.
type Dashboard struct {
	Timestamp    model.Timestamp `json:"timestamp"`
	TVL          *TVLSummary     `json:"tvl,omitempty"`
	BackingRatio *BackingRatio   `json:"backing_ratio,omitempty"`
	NetFlow      *NetFlow        `json:"net_flow,omitempty"`
	Backing      []BackingRow    `json:"backing,omitempty"`
	Treasury     []TreasuryRow   `json:"treasury,omitempty"`
	CrossCheck   CrossCheck      `json:"cross_check"`
	Peg          *PegStatus      `json:"peg,omitempty"`
	Liquidity    *Liquidity      `json:"liquidity,omitempty"`
	Markets      *DefiMarkets    `json:"markets,omitempty"`
	History      HistoryStats    `json:"history"`
	Rating       Rating          `json:"rating"`
}

// Derive computes the dashboard. history may be empty.
func Derive(s *model.MetricsSnapshot, history []model.PegHistoryPoint) *Dashboard {
	if s == nil {
		s = &model.MetricsSnapshot{}
	}

	d := &Dashboard{
		Timestamp:    s.Timestamp,
		BackingRatio: Ratio(s.Backing),
		NetFlow:      Flow(s.RedemptionFlow),
		Backing:      BackingRows(s.Backing),
		Treasury:     TreasuryCoverage(s.Backing),
		CrossCheck:   CrossCheckTheo(s.TheoReported, s.Backing),
		Peg:          Peg(s.Peg),
		Liquidity:    AggregateLiquidity(s.SecondaryLiquidity),
		Markets:      CategorizeMarkets(s.DefiMarkets, s.Timestamp.Time),
		History:      SummarizeHistory(history),
	}
	if s.TVL != nil {
		d.TVL = &TVLSummary{Total: s.TVL.Total, ByChain: s.TVL.ByChain}
	}

	d.Rating = Score(ratingInput(history, d.Liquidity))
	return d
}

// ratingInput scores the surviving pools. A present section with no
// surviving pool has a known zero volume and no depth.
func ratingInput(history []model.PegHistoryPoint, liq *Liquidity) RatingInput {
	in := RatingInput{History: history}
	if liq != nil {
		in.DepthSum = liq.DepthSum
		in.Volume = model.Float(liq.TotalVolume24h)
	}
	return in
}
