package derive

import (
	"strings"

	"github.com/yourorg/thbill-risk-dashboard/internal/model"
)

// TreasuryRow is one chain of the treasury coverage table.
type TreasuryRow struct {
	Chain    string          `json:"chain"`
	Treasury model.NullFloat `json:"treasury"`
	Supply   model.NullFloat `json:"supply"`
	// Coverage is Treasury/Supply*100, absent when either side is unusable
	Coverage model.NullFloat `json:"coverage"`
	Note     string          `json:"note,omitempty"`
	IsTotal  bool            `json:"is_total,omitempty"`
}

// TreasuryCoverage returns one row per chain plus a Total row.
func TreasuryCoverage(b *model.Backing) []TreasuryRow {
	if b == nil {
		return nil
	}

	balances := map[string][2]model.NullFloat{
		"Ethereum": {b.TreasuryULTRAEthereum, b.ULTRAEthereum},
		"Arbitrum": {b.TreasuryULTRAArbitrum, b.ULTRAArbitrum},
		"Solana":   {b.TreasuryULTRASolana, b.ULTRASolana},
	}

	rows := make([]TreasuryRow, 0, len(CoverageChains)+1)
	for _, chain := range CoverageChains {
		pair := balances[chain]
		rows = append(rows, coverageRow(chain, pair[0], pair[1], b.TreasuryNotes))
	}

	total := coverageRow("Total", b.TreasuryULTRATotal, b.ULTRATotal, b.TreasuryNotes)
	total.IsTotal = true
	return append(rows, total)
}

func coverageRow(chain string, treasury, supply model.NullFloat, notes map[string]string) TreasuryRow {
	row := TreasuryRow{Chain: chain, Treasury: treasury, Supply: supply}
	if treasury.Valid && supply.NonZero() {
		row.Coverage = model.Float(treasury.Float64 / supply.Float64 * 100)
	}
	if !row.Coverage.Valid {
		row.Note = notes[strings.ToLower(chain)]
	}
	return row
}
