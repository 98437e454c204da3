package present

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/thbill-risk-dashboard/internal/derive"
	"github.com/yourorg/thbill-risk-dashboard/internal/model"
)

func TestRender_TVLBreakdownInDocumentOrder(t *testing.T) {
	v := Render(1, &derive.Dashboard{TVL: &derive.TVLSummary{
		Total: f(12_500_000),
		ByChain: model.Ordered[model.NullFloat]{
			{Key: "hyperevm", Value: f(2_500_000)},
			{Key: "ethereum", Value: f(10_000_000)},
		},
	}})

	require.NotNil(t, v.TVL)
	assert.Equal(t, "$12,500,000", v.TVL.Total)
	assert.Equal(t, "hyperevm: $2,500,000 | ethereum: $10,000,000", v.TVL.Breakdown)
}

func TestRender_NetFlow(t *testing.T) {
	tests := []struct {
		name      string
		flow      *derive.NetFlow
		value     string
		note      string
		direction string
	}{
		{
			name:      "inflow",
			flow:      &derive.NetFlow{Available: true, Net: f(12_345), Pct: 1.23456, Inflow: true},
			value:     "+12,345 thBILL",
			note:      "+1.2346% change",
			direction: "inflow",
		},
		{
			name:      "outflow",
			flow:      &derive.NetFlow{Available: true, Net: f(-500), Pct: -0.05},
			value:     "-500 thBILL",
			note:      "-0.0500% change",
			direction: "outflow",
		},
		{
			name:      "pending",
			flow:      &derive.NetFlow{Note: "Need 24h of snapshots"},
			value:     "Calculating...",
			note:      "Need 24h of snapshots",
			direction: "pending",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := Render(1, &derive.Dashboard{NetFlow: tt.flow}).NetFlow
			require.NotNil(t, card)
			assert.Equal(t, tt.value, card.Value)
			assert.Equal(t, tt.note, card.Note)
			assert.Equal(t, tt.direction, card.Direction)
		})
	}
}

func TestRender_BackingAndTreasury(t *testing.T) {
	d := derive.Derive(&model.MetricsSnapshot{Backing: &model.Backing{
		THBILLSupply:          f(1000),
		TULTRASupply:          f(950),
		TULTRAVaultBalance:    f(900),
		ULTRAEthereum:         f(600),
		ULTRATotal:            f(950),
		TreasuryUSDC:          f(30),
		TreasuryULTRAEthereum: f(60),
		TreasuryNotes:         map[string]string{"arbitrum": "Bridging"},
	}}, nil)

	v := Render(1, d)
	require.Len(t, v.Backing, 6)
	assert.Equal(t, BackingLine{Asset: "thBILL Supply", Amount: "1,000.00", Pct: "100.00%", Style: "supply"}, v.Backing[0])
	assert.Equal(t, "gap", v.Backing[1].Style)
	assert.Equal(t, "subtotal", v.Backing[3].Style)
	assert.Equal(t, "$30.00", v.Backing[4].Amount)

	require.Len(t, v.Treasury, 4)
	assert.Equal(t, TreasuryLine{Chain: "Ethereum", Treasury: "60.00", Supply: "600.00", Coverage: "10.0%"}, v.Treasury[0])
	assert.Equal(t, "Bridging", v.Treasury[1].Treasury)
	assert.Equal(t, "-", v.Treasury[1].Coverage)
	assert.Equal(t, "-", v.Treasury[2].Treasury)
	assert.True(t, v.Treasury[3].Total)
}

func TestRender_CrossCheck(t *testing.T) {
	unavailable := Render(1, &derive.Dashboard{}).CrossCheck
	require.NotNil(t, unavailable)
	assert.False(t, unavailable.Available)
	assert.Equal(t, crossCheckUnavailable, unavailable.Message)

	cc := derive.CrossCheckTheo(
		&model.TheoReported{CashPct: f(5), MoneyMarketPct: f(96), CashUSD: f(3_000_000), MoneyMarketUSD: f(57_000_000), Source: "theo"},
		&model.Backing{BackingRatioULTRAOnly: f(0.95), ImpliedCash: f(1_500_000)},
	)
	card := Render(1, &derive.Dashboard{CrossCheck: cc}).CrossCheck
	assert.True(t, card.Available)
	assert.Equal(t, "96.00%", card.MoneyMarketPct)
	assert.Equal(t, "$57,000,000", card.MoneyMarketUSD)
	assert.Equal(t, "95.00%", card.OnChainPct)
	assert.Equal(t, "+1.00%", card.Discrepancy)
	assert.Equal(t, "$1,500,000.00", card.ImpliedCash)
	assert.Equal(t, "$1,500,000.00", card.CashDiscrepancy)
	assert.True(t, card.CashFlagged)
}

func TestRender_Peg(t *testing.T) {
	d := &derive.Dashboard{Peg: derive.Peg(&model.Peg{
		NAVPerShare:        f(1),
		VWAP:               f(1.0005),
		PremiumDiscountPct: f(0.05),
		PerChainPrices: model.Ordered[model.ChainPrice]{
			{Key: "hyperevm", Value: model.ChainPrice{VWAP: f(1.002), Volume24h: f(1_234_567)}},
			{Key: "arbitrum", Value: model.ChainPrice{Volume24h: f(4_500)}},
		},
	})}

	card := Render(1, d).Peg
	require.NotNil(t, card)
	assert.Equal(t, "$1.000000", card.NAV)
	assert.Equal(t, "$1.000500", card.VWAP)
	assert.Equal(t, "+0.0500%", card.PremiumDiscount)
	assert.Equal(t, derive.LevelTight, card.Level)
	require.Len(t, card.Chains, 2)
	assert.Equal(t, ChainPriceLine{Chain: "hyperevm", Price: "$1.0020", Volume: "$1.23M", Deviation: "+0.2000%", Level: derive.LevelModerate}, card.Chains[0])
	assert.Equal(t, ChainPriceLine{Chain: "arbitrum", Price: "-", Volume: "$4.5K", Deviation: "-", Level: derive.LevelUnknown}, card.Chains[1])
}

func TestRender_Liquidity(t *testing.T) {
	liq := derive.AggregateLiquidity(&model.SecondaryLiquidity{Pools: []model.Pool{
		{Market: "HyperSwap", Pair: "a/b", Chain: "hyperevm", TVLUSD: f(400_000), Volume24h: f(50_000), Depth2PctBuy: f(500_000)},
		{Market: "Project X", Pair: "a/b", Chain: "zora", TVLUSD: f(800_000), Volume24h: f(150_000), Spread: f(0.05),
			Depth2PctBuy: f(1_000_000), Depth2PctSell: f(500_000)},
		{Market: "Dust", TVLUSD: f(10)},
	}})

	card := Render(1, &derive.Dashboard{Liquidity: liq}).Liquidity
	require.NotNil(t, card)
	assert.Equal(t, "$200,000", card.Volume24h)
	assert.Equal(t, "$1,200,000", card.TVL)
	assert.Equal(t, 2, card.PoolCount)
	require.Len(t, card.Pools, 2)

	top := card.Pools[0]
	assert.Equal(t, "zora", top.Chain)
	assert.Equal(t, "$750,000", top.Depth)
	assert.Equal(t, "Buy: $1,000,000 / Sell: $500,000", top.DepthTitle)
	assert.Equal(t, "0.05%", top.Spread)

	second := card.Pools[1]
	assert.Equal(t, "HyperEVM", second.Chain)
	assert.Equal(t, "$500,000", second.Depth)
	assert.Empty(t, second.DepthTitle)
	assert.Equal(t, "-", second.Spread)
}

func TestRender_Markets(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	markets := derive.CategorizeMarkets([]model.DefiMarket{
		{Protocol: "hyperlend", Chain: "HyperEVM", Pool: "thBILL", TVLUSD: f(3_000_000), APY: f(4.2)},
		{Protocol: "kittenswap", TVLUSD: f(100_000)},
		{Protocol: "pendle", Pool: "PT", TVLUSD: f(2_000_000), APY: f(6.1), PoolMeta: "PT-thBILL-26MAR2026"},
		{Protocol: "pendle", Pool: "old", TVLUSD: f(1_000_000), PoolMeta: "thBILL-LP 1JAN2025"},
		{Protocol: "pendle", Pool: "?", TVLUSD: f(500), PoolMeta: "garbage"},
	}, now)

	card := Render(1, &derive.Dashboard{Markets: markets}).Markets
	require.NotNil(t, card)
	assert.Equal(t, MarketLine{Protocol: "hyperlend", Chain: "HyperEVM", Pool: "thBILL", TVL: "$3,000,000", APY: "4.20%"}, card.MoneyMarkets[0])
	assert.Equal(t, MarketLine{Protocol: "kittenswap", Chain: "-", Pool: "-", TVL: "$100,000", APY: "-"}, card.DEXes[0])

	require.Len(t, card.Pendle, 3)
	assert.Equal(t, "Fixed Yield", card.Pendle[0].Type)
	assert.Equal(t, "Mar 26, 2026", card.Pendle[0].Maturity)
	assert.Equal(t, "84 days", card.Pendle[0].Days)
	assert.Equal(t, "LP", card.Pendle[1].Type)
	assert.Equal(t, "Matured", card.Pendle[1].Days)
	assert.Equal(t, "-", card.Pendle[2].Type)
	assert.Equal(t, "-", card.Pendle[2].Maturity)
	assert.Equal(t, "-", card.Pendle[2].Days)
}

func TestRender_HistoryAndRating(t *testing.T) {
	ts, err := model.ParseTimestamp("2026-01-01T00:00:00")
	require.NoError(t, err)
	history := []model.PegHistoryPoint{
		{Timestamp: ts, PremiumDiscountPct: f(0.4)},
		{Timestamp: ts, PremiumDiscountPct: f(10.6)},
		{Timestamp: ts, PremiumDiscountPct: f(-0.4)},
	}

	v := Render(1, derive.Derive(&model.MetricsSnapshot{}, history))
	require.NotNil(t, v.History)
	assert.Equal(t, 2, v.History.Count)
	assert.Equal(t, ChartPoint{Time: "2026-01-01T00:00:00Z", Pct: 0.4}, v.History.Points[0])
	assert.Equal(t, "0.4000%", v.History.MeanAbs)
	assert.Equal(t, "-0.4000%", v.History.Min)
	assert.Equal(t, "+0.4000%", v.History.Max)

	require.NotNil(t, v.Rating)
	assert.Equal(t, 3, v.Rating.PegScore)
	assert.Equal(t, "★★★☆☆", v.Rating.Glyphs)
}
