package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/yourorg/thbill-risk-dashboard/internal/derive"
	"github.com/yourorg/thbill-risk-dashboard/internal/present"
)

func output(w io.Writer, format string, d *derive.Dashboard) error {
	switch strings.ToLower(format) {
	case formatRaw:
		return writeJSON(w, d)
	case formatJSON:
		return writeJSON(w, present.Render(1, d))
	default:
		return writeReport(w, present.Render(1, d))
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeReport prints the view as aligned text tables.
func writeReport(w io.Writer, v present.View) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	p := func(format string, args ...any) { fmt.Fprintf(tw, format, args...) }

	p("thBILL Risk Dashboard\nLast updated:\t%s\n", v.LastUpdated)
	if v.Rating != nil {
		p("Rating:\t%s  %s\n", v.Rating.Glyphs, v.Rating.Message)
		p("\tpeg %d  depth %d  volume %d\n", v.Rating.PegScore, v.Rating.DepthScore, v.Rating.VolumeScore)
	}
	if v.TVL != nil {
		p("TVL:\t%s\t%s\n", v.TVL.Total, v.TVL.Breakdown)
	}
	if v.BackingRatio != nil {
		p("Backing ratio:\t%s (%s)\twith USDC %s\n", v.BackingRatio.Value, v.BackingRatio.Status, v.BackingRatio.WithUSDC)
	}
	if v.NetFlow != nil {
		p("Net flow 24h:\t%s\t%s\n", v.NetFlow.Value, v.NetFlow.Note)
	}

	if len(v.Backing) > 0 {
		p("\nBACKING\nAsset\tAmount\t%% Supply\tNote\n")
		for _, r := range v.Backing {
			p("%s\t%s\t%s\t%s\n", r.Asset, r.Amount, r.Pct, r.Note)
		}
	}
	if len(v.Treasury) > 0 {
		p("\nTREASURY COVERAGE\nChain\tTreasury\tSupply\tCoverage\n")
		for _, r := range v.Treasury {
			p("%s\t%s\t%s\t%s\n", r.Chain, r.Treasury, r.Supply, r.Coverage)
		}
	}
	if cc := v.CrossCheck; cc != nil {
		p("\nISSUER CROSS-CHECK\n")
		if !cc.Available {
			p("%s\n", cc.Message)
		} else {
			p("Money market:\t%s\t%s\n", cc.MoneyMarketPct, cc.MoneyMarketUSD)
			p("Cash:\t%s\t%s\n", cc.CashPct, cc.CashUSD)
			p("On-chain verified:\t%s\tdiscrepancy %s\n", cc.OnChainPct, cc.Discrepancy)
			if cc.CashDiscrepancy != "" {
				flag := ""
				if cc.CashFlagged {
					flag = " (!)"
				}
				p("Implied cash:\t%s\tdiscrepancy %s%s\n", cc.ImpliedCash, cc.CashDiscrepancy, flag)
			}
			p("Source:\t%s\n", cc.Source)
		}
	}
	if v.Peg != nil {
		p("\nPEG\nNAV:\t%s\nVWAP:\t%s\nPremium/discount:\t%s (%s)\n", v.Peg.NAV, v.Peg.VWAP, v.Peg.PremiumDiscount, v.Peg.Level)
		if len(v.Peg.Chains) > 0 {
			p("Chain\tPrice\tVolume\tDeviation\n")
			for _, c := range v.Peg.Chains {
				p("%s\t%s\t%s\t%s\n", c.Chain, c.Price, c.Volume, c.Deviation)
			}
		}
	}
	if v.History != nil && v.History.Count > 0 {
		p("History:\t%d points\tmean |dev| %s\trange %s .. %s\n", v.History.Count, v.History.MeanAbs, v.History.Min, v.History.Max)
	}
	if l := v.Liquidity; l != nil {
		p("\nSECONDARY LIQUIDITY\nPools:\t%d\tTVL %s\tvolume %s\n", l.PoolCount, l.TVL, l.Volume24h)
		if len(l.Pools) == 0 {
			p("No pools found\n")
		} else {
			p("Chain\tMarket\tPair\tTVL\t2%% Depth\tVolume\tSpread\n")
			for _, r := range l.Pools {
				p("%s\t%s\t%s\t%s\t%s\t%s\t%s\n", r.Chain, r.Market, r.Pair, r.TVL, r.Depth, r.Volume24h, r.Spread)
			}
		}
	}
	if m := v.Markets; m != nil {
		writeMarkets(p, "MONEY MARKETS", m.MoneyMarkets, false)
		writeMarkets(p, "DEXES", m.DEXes, false)
		writeMarkets(p, "PENDLE", m.Pendle, true)
	}
	return tw.Flush()
}

func writeMarkets(p func(string, ...any), title string, rows []present.MarketLine, pendle bool) {
	p("\n%s\n", title)
	if len(rows) == 0 {
		p("No markets found\n")
		return
	}
	if pendle {
		p("Protocol\tChain\tPool\tTVL\tAPY\tType\tMaturity\tDays\n")
		for _, r := range rows {
			p("%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n", r.Protocol, r.Chain, r.Pool, r.TVL, r.APY, r.Type, r.Maturity, r.Days)
		}
		return
	}
	p("Protocol\tChain\tPool\tTVL\tAPY\n")
	for _, r := range rows {
		p("%s\t%s\t%s\t%s\t%s\n", r.Protocol, r.Chain, r.Pool, r.TVL, r.APY)
	}
}
