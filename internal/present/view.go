package present

import (
	"strconv"
	"strings"
	"time"

	"github.com/yourorg/thbill-risk-dashboard/internal/derive"
	"github.com/yourorg/thbill-risk-dashboard/internal/model"
)

// View is the formatted dashboard. A nil section has never been rendered.
type View struct {
	Sequence    uint64 `json:"sequence"`
	LastUpdated string `json:"last_updated"`
	// Error is the cause of the last failed cycle, cleared by the next success
	Error string `json:"error,omitempty"`

	TVL          *TVLCard        `json:"tvl,omitempty"`
	BackingRatio *RatioCard      `json:"backing_ratio,omitempty"`
	NetFlow      *FlowCard       `json:"net_flow,omitempty"`
	Backing      []BackingLine   `json:"backing,omitempty"`
	Treasury     []TreasuryLine  `json:"treasury,omitempty"`
	CrossCheck   *CrossCheckCard `json:"cross_check,omitempty"`
	Peg          *PegCard        `json:"peg,omitempty"`
	Liquidity    *LiquidityCard  `json:"liquidity,omitempty"`
	Markets      *MarketsCard    `json:"markets,omitempty"`
	History      *HistoryChart   `json:"history,omitempty"`
	Rating       *RatingCard     `json:"rating,omitempty"`
}

// TVLCard is the total value locked with its per-chain breakdown line.
type TVLCard struct {
	Total     string `json:"total"`
	Breakdown string `json:"breakdown"`
}

// RatioCard is the backing ratio badge.
type RatioCard struct {
	Value    string        `json:"value"`
	WithUSDC string        `json:"with_usdc"`
	Status   derive.Status `json:"status"`
}

// FlowCard is the 24h net redemption flow.
type FlowCard struct {
	Value string `json:"value"`
	Note  string `json:"note"`
	// Direction is inflow, outflow or pending
	Direction string `json:"direction"`
}

// BackingLine is one formatted row of the backing table.
type BackingLine struct {
	Asset  string `json:"asset"`
	Amount string `json:"amount"`
	Pct    string `json:"pct"`
	Note   string `json:"note,omitempty"`
	// Style is supply, subtotal, gap or empty
	Style string `json:"style,omitempty"`
}

// TreasuryLine is one chain of the treasury coverage table.
type TreasuryLine struct {
	Chain    string `json:"chain"`
	Treasury string `json:"treasury"`
	Supply   string `json:"supply"`
	Coverage string `json:"coverage"`
	Total    bool   `json:"total,omitempty"`
}

// CrossCheckCard compares the Theo-reported composition with on-chain backing.
type CrossCheckCard struct {
	Available      bool   `json:"available"`
	Message        string `json:"message,omitempty"`
	MoneyMarketPct string `json:"money_market_pct,omitempty"`
	MoneyMarketUSD string `json:"money_market_usd,omitempty"`
	CashPct        string `json:"cash_pct,omitempty"`
	CashUSD        string `json:"cash_usd,omitempty"`
	OnChainPct     string `json:"on_chain_pct,omitempty"`
	Discrepancy    string `json:"discrepancy,omitempty"`
	Source         string `json:"source,omitempty"`

	ImpliedCash     string `json:"implied_cash,omitempty"`
	CashDiscrepancy string `json:"cash_discrepancy,omitempty"`
	CashFlagged     bool   `json:"cash_flagged,omitempty"`
}

// PegCard is the NAV, VWAP and premium/discount summary.
type PegCard struct {
	NAV             string           `json:"nav"`
	VWAP            string           `json:"vwap"`
	PremiumDiscount string           `json:"premium_discount"`
	Level           derive.Level     `json:"level"`
	Chains          []ChainPriceLine `json:"chains"`
}

// ChainPriceLine is the secondary price of thBILL on one chain.
type ChainPriceLine struct {
	Chain     string       `json:"chain"`
	Price     string       `json:"price"`
	Volume    string       `json:"volume"`
	Deviation string       `json:"deviation"`
	Level     derive.Level `json:"level"`
}

// LiquidityCard holds the surviving pools and their totals.
type LiquidityCard struct {
	Volume24h string     `json:"volume_24h"`
	TVL       string     `json:"tvl"`
	PoolCount int        `json:"pool_count"`
	Pools     []PoolLine `json:"pools"`
}

// PoolLine is one formatted pool row.
type PoolLine struct {
	Chain      string `json:"chain"`
	Market     string `json:"market"`
	Pair       string `json:"pair"`
	TVL        string `json:"tvl"`
	Depth      string `json:"depth"`
	DepthTitle string `json:"depth_title,omitempty"`
	Volume24h  string `json:"volume_24h"`
	Spread     string `json:"spread"`
}

// MarketsCard groups DeFi markets by category.
type MarketsCard struct {
	MoneyMarkets []MarketLine `json:"money_markets"`
	DEXes        []MarketLine `json:"dexes"`
	Pendle       []MarketLine `json:"pendle"`
}

// MarketLine is one formatted DeFi market row. Pendle rows also fill the type and maturity fields.
type MarketLine struct {
	Protocol string `json:"protocol"`
	Chain    string `json:"chain"`
	Pool     string `json:"pool"`
	TVL      string `json:"tvl"`
	APY      string `json:"apy"`
	Type     string `json:"type,omitempty"`
	Maturity string `json:"maturity,omitempty"`
	Days     string `json:"days,omitempty"`
}

// HistoryChart is the filtered peg history series and its statistics.
type HistoryChart struct {
	Points  []ChartPoint `json:"points"`
	Count   int          `json:"count"`
	MeanAbs string       `json:"mean_abs"`
	Min     string       `json:"min"`
	Max     string       `json:"max"`
}

// ChartPoint is one point of the peg history chart.
type ChartPoint struct {
	Time string  `json:"time"`
	Pct  float64 `json:"pct"`
}

// RatingCard is the star rating with its per-axis scores.
type RatingCard struct {
	Stars       int         `json:"stars"`
	Glyphs      string      `json:"glyphs"`
	Message     string      `json:"message"`
	PegScore    int         `json:"peg_score"`
	DepthScore  int         `json:"depth_score"`
	VolumeScore int         `json:"volume_score"`
	Weakest     derive.Axis `json:"weakest,omitempty"`
}

const crossCheckUnavailable = "Theo dashboard data unavailable"

// Render formats a derived dashboard. Sections absent from d stay nil.
func Render(seq uint64, d *derive.Dashboard) View {
	v := View{
		Sequence:    seq,
		LastUpdated: FormatDate(d.Timestamp),
		Backing:     renderBacking(d.Backing),
		Treasury:    renderTreasury(d.Treasury),
		CrossCheck:  renderCrossCheck(d.CrossCheck),
		History:     renderHistory(d.History),
		Rating:      renderRating(d.Rating),
	}
	if d.TVL != nil {
		v.TVL = renderTVL(d.TVL)
	}
	if d.BackingRatio != nil {
		v.BackingRatio = &RatioCard{
			Value:    FormatPercent(d.BackingRatio.Pct, 2),
			WithUSDC: FormatPercent(d.BackingRatio.WithUSDCPct, 2),
			Status:   d.BackingRatio.Status,
		}
	}
	if d.NetFlow != nil {
		v.NetFlow = renderFlow(d.NetFlow)
	}
	if d.Peg != nil {
		v.Peg = renderPeg(d.Peg)
	}
	if d.Liquidity != nil {
		v.Liquidity = renderLiquidity(d.Liquidity)
	}
	if d.Markets != nil {
		v.Markets = &MarketsCard{
			MoneyMarkets: renderMarkets(d.Markets.MoneyMarkets),
			DEXes:        renderMarkets(d.Markets.DEXes),
			Pendle:       renderMarkets(d.Markets.Pendle),
		}
	}
	return v
}

func renderTVL(t *derive.TVLSummary) *TVLCard {
	parts := make([]string, 0, len(t.ByChain))
	for _, e := range t.ByChain {
		parts = append(parts, e.Key+": "+FormatCurrency(e.Value, 0))
	}
	return &TVLCard{
		Total:     FormatCurrency(t.Total, 0),
		Breakdown: strings.Join(parts, " | "),
	}
}

func renderFlow(f *derive.NetFlow) *FlowCard {
	if !f.Available {
		return &FlowCard{Value: "Calculating...", Note: f.Note, Direction: "pending"}
	}
	s, dir := sign(f.Net.Float64), "outflow"
	if f.Inflow {
		dir = "inflow"
	}
	return &FlowCard{
		Value:     s + FormatNumber(f.Net, 0) + " thBILL",
		Note:      s + FormatPercent(model.Float(f.Pct), 4) + " change",
		Direction: dir,
	}
}

func renderBacking(rows []derive.BackingRow) []BackingLine {
	if rows == nil {
		return nil
	}
	out := make([]BackingLine, 0, len(rows))
	for _, r := range rows {
		amount := FormatNumber(r.Amount, 2)
		if r.IsCurrency {
			amount = FormatCurrency(r.Amount, 2)
		}
		line := BackingLine{
			Asset:  r.Label,
			Amount: amount,
			Pct:    FormatPercent(r.Pct, 2),
			Note:   r.Note,
		}
		switch {
		case r.IsSupply:
			line.Style = "supply"
		case r.IsGap:
			line.Style = "gap"
		case r.IsSubtotal:
			line.Style = "subtotal"
		}
		out = append(out, line)
	}
	return out
}

func renderTreasury(rows []derive.TreasuryRow) []TreasuryLine {
	if rows == nil {
		return nil
	}
	out := make([]TreasuryLine, 0, len(rows))
	for _, r := range rows {
		treasury := FormatNumber(r.Treasury, 2)
		if !r.Treasury.Valid && r.Note != "" {
			treasury = r.Note
		}
		out = append(out, TreasuryLine{
			Chain:    r.Chain,
			Treasury: treasury,
			Supply:   FormatNumber(r.Supply, 2),
			Coverage: FormatPercent(r.Coverage, 1),
			Total:    r.IsTotal,
		})
	}
	return out
}

func renderCrossCheck(cc derive.CrossCheck) *CrossCheckCard {
	if !cc.Available {
		return &CrossCheckCard{Message: crossCheckUnavailable}
	}
	card := &CrossCheckCard{
		Available:      true,
		MoneyMarketPct: FormatPercent(cc.MoneyMarketPct, 2),
		MoneyMarketUSD: FormatCurrency(cc.MoneyMarketUSD, 0),
		CashPct:        FormatPercent(cc.CashPct, 2),
		CashUSD:        FormatCurrency(cc.CashUSD, 0),
		OnChainPct:     FormatPercent(model.Float(cc.OnChainPct), 2),
		Discrepancy:    FormatPercent(cc.Discrepancy, 2),
		Source:         cc.Source,
	}
	if cc.Discrepancy.Valid && cc.Discrepancy.Float64 > 0 {
		card.Discrepancy = "+" + card.Discrepancy
	}
	if cc.CashDiscrepancy.Valid {
		card.ImpliedCash = FormatCurrency(cc.ImpliedCash, 2)
		card.CashDiscrepancy = FormatCurrency(cc.CashDiscrepancy, 2)
		card.CashFlagged = cc.CashDiscrepancyFlagged
	}
	return card
}

func renderPeg(p *derive.PegStatus) *PegCard {
	card := &PegCard{
		NAV:             Placeholder,
		VWAP:            Placeholder,
		PremiumDiscount: FormatSignedPercent(p.PremiumDiscountPct, 4),
		Level:           p.Level,
		Chains:          make([]ChainPriceLine, 0, len(p.Chains)),
	}
	if p.NAV.NonZero() {
		card.NAV = FormatPrice(p.NAV, 6)
	}
	if p.VWAP.NonZero() {
		card.VWAP = FormatPrice(p.VWAP, 6)
	}
	for _, c := range p.Chains {
		card.Chains = append(card.Chains, ChainPriceLine{
			Chain:     c.Chain,
			Price:     FormatPrice(c.Price, 4),
			Volume:    FormatCompactVolume(c.Volume24h),
			Deviation: FormatSignedPercent(c.DeviationPct, 4),
			Level:     c.Level,
		})
	}
	return card
}

func renderLiquidity(l *derive.Liquidity) *LiquidityCard {
	card := &LiquidityCard{
		Volume24h: FormatCurrency(model.Float(l.TotalVolume24h), 0),
		TVL:       FormatCurrency(model.Float(l.TotalTVL), 0),
		PoolCount: l.PoolCount,
		Pools:     make([]PoolLine, 0, len(l.Pools)),
	}
	for _, p := range l.Pools {
		spread := Placeholder
		if p.Spread.NonZero() {
			spread = FormatPercent(p.Spread, 2)
		}
		chain := p.ChainLabel
		if chain == "" {
			chain = Placeholder
		}
		card.Pools = append(card.Pools, PoolLine{
			Chain:      chain,
			Market:     p.Market,
			Pair:       p.PairDisplay,
			TVL:        FormatCurrency(p.TVL, 0),
			Depth:      FormatDepth(p.Depth.Buy, p.Depth.Sell),
			DepthTitle: DepthTitle(p.Depth.Buy, p.Depth.Sell),
			Volume24h:  FormatCurrency(p.Volume24h, 0),
			Spread:     spread,
		})
	}
	return card
}

func renderMarkets(rows []derive.MarketRow) []MarketLine {
	out := make([]MarketLine, 0, len(rows))
	for _, r := range rows {
		apy := Placeholder
		if r.APY.NonZero() {
			apy = FormatPercent(r.APY, 2)
		}
		line := MarketLine{
			Protocol: orPlaceholder(r.Protocol),
			Chain:    orPlaceholder(r.Chain),
			Pool:     orPlaceholder(r.Pool),
			TVL:      FormatCurrency(r.TVL, 0),
			APY:      apy,
		}
		if r.Pendle != nil {
			line.Type = r.Pendle.Kind.Label()
			line.Maturity = formatMaturity(r.Pendle.Maturity)
			line.Days = formatDays(r.Pendle.DaysToMaturity)
		}
		out = append(out, line)
	}
	return out
}

func formatMaturity(ts model.Timestamp) string {
	if ts.IsZero() {
		return Placeholder
	}
	return ts.UTC().Format("Jan 2, 2006")
}

func formatDays(days model.NullFloat) string {
	switch {
	case !days.Valid:
		return Placeholder
	case days.Float64 < 0:
		return "Matured"
	case days.Float64 == 1:
		return "1 day"
	default:
		return strconv.FormatFloat(days.Float64, 'f', 0, 64) + " days"
	}
}

func renderHistory(h derive.HistoryStats) *HistoryChart {
	chart := &HistoryChart{
		Points:  make([]ChartPoint, 0, len(h.Points)),
		Count:   h.Count,
		MeanAbs: FormatPercent(h.MeanAbs, 4),
		Min:     FormatSignedPercent(h.Min, 4),
		Max:     FormatSignedPercent(h.Max, 4),
	}
	for _, p := range h.Points {
		t := ""
		if !p.Timestamp.IsZero() {
			t = p.Timestamp.UTC().Format(time.RFC3339)
		}
		chart.Points = append(chart.Points, ChartPoint{Time: t, Pct: p.PremiumDiscountPct.Float64})
	}
	return chart
}

func renderRating(r derive.Rating) *RatingCard {
	return &RatingCard{
		Stars:       r.Stars,
		Glyphs:      r.Glyphs,
		Message:     r.Message,
		PegScore:    r.PegScore,
		DepthScore:  r.DepthScore,
		VolumeScore: r.VolumeScore,
		Weakest:     r.Weakest,
	}
}

func orPlaceholder(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}
