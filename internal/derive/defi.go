package derive

import (
	"sort"
	"time"

	"github.com/yourorg/thbill-risk-dashboard/internal/model"
)

// MaxCategoryRows caps the money-market and DEX lists.
const MaxCategoryRows = 10

// MarketRow is one DeFi market as displayed.
type MarketRow struct {
	Protocol string          `json:"protocol"`
	Chain    string          `json:"chain"`
	Pool     string          `json:"pool"`
	TVL      model.NullFloat `json:"tvl_usd"`
	APY      model.NullFloat `json:"apy"`
	Pendle   *PendleInfo     `json:"pendle,omitempty"`
}

// DefiMarkets is the categorized market list. Each category is sorted by TVL,
// descending.
type DefiMarkets struct {
	MoneyMarkets []MarketRow `json:"money_markets"`
	DEXes        []MarketRow `json:"dexes"`
	Pendle       []MarketRow `json:"pendle"`
}

// CategorizeMarkets splits markets into money markets, DEXes and Pendle. now
// is the reference time for Pendle maturities. A nil list yields nil.
func CategorizeMarkets(markets []model.DefiMarket, now time.Time) *DefiMarkets {
	if markets == nil {
		return nil
	}

	out := &DefiMarkets{
		MoneyMarkets: []MarketRow{},
		DEXes:        []MarketRow{},
		Pendle:       []MarketRow{},
	}
	for _, m := range markets {
		row := MarketRow{
			Protocol: m.Protocol,
			Chain:    m.Chain,
			Pool:     m.Pool,
			TVL:      m.TVLUSD,
			APY:      m.APY,
		}
		switch CategoryOf(m.Protocol) {
		case CategoryDEX:
			out.DEXes = append(out.DEXes, row)
		case CategoryPendle:
			info := ParsePendleMeta(m.PoolMeta, now)
			row.Pendle = &info
			out.Pendle = append(out.Pendle, row)
		default:
			out.MoneyMarkets = append(out.MoneyMarkets, row)
		}
	}

	out.MoneyMarkets = capRows(sortByTVL(out.MoneyMarkets), MaxCategoryRows)
	out.DEXes = capRows(sortByTVL(out.DEXes), MaxCategoryRows)
	out.Pendle = sortByTVL(out.Pendle)
	return out
}

func sortByTVL(rows []MarketRow) []MarketRow {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].TVL.Or(0) > rows[j].TVL.Or(0)
	})
	return rows
}

func capRows(rows []MarketRow, n int) []MarketRow {
	if len(rows) > n {
		return rows[:n]
	}
	return rows
}
