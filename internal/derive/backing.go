package derive

import (
	"fmt"
	"math"
	"strings"

	"github.com/yourorg/thbill-risk-dashboard/internal/model"
)

// WrappedVaultTolerance is the largest vault/supply difference, in tokens, at
// which the wrapped collateral is considered fully held by the vault.
const WrappedVaultTolerance = 0.01

// CashDiscrepancyThreshold flags implied vs reported cash gaps in USD.
const CashDiscrepancyThreshold = 1_000_000.0

// BackingRow is one line of the backing breakdown table.
type BackingRow struct {
	Label  string          `json:"label"`
	Amount model.NullFloat `json:"amount"`
	// Pct is the amount as a percentage of thBILL supply
	Pct        model.NullFloat `json:"pct"`
	Note       string          `json:"note,omitempty"`
	IsSupply   bool            `json:"is_supply,omitempty"`
	IsSubtotal bool            `json:"is_subtotal,omitempty"`
	IsGap      bool            `json:"is_gap,omitempty"`
	IsCurrency bool            `json:"is_currency,omitempty"`
	// IsWrapped marks tULTRA, which wraps collateral already counted in ULTRA
	IsWrapped bool `json:"is_wrapped,omitempty"`
}

// Itemized reports whether the row's percentage is a distinct share of the
// backing. Supply, subtotal, gap and wrapped rows are not.
func (r BackingRow) Itemized() bool {
	return !(r.IsSupply || r.IsSubtotal || r.IsGap || r.IsWrapped)
}

// Status grades the backing ratio.
type Status string

const (
	StatusHealthy  Status = "healthy"
	StatusWarning  Status = "warning"
	StatusCritical Status = "critical"
	StatusUnknown  Status = "unknown"
)

// BackingRatio is the headline collateral ratio badge.
type BackingRatio struct {
	Pct         model.NullFloat `json:"pct"`
	WithUSDCPct model.NullFloat `json:"with_usdc_pct"`
	Status      Status          `json:"status"`
}

// CrossCheck compares on-chain backing with the issuer-reported composition.
type CrossCheck struct {
	Available      bool            `json:"available"`
	MoneyMarketPct model.NullFloat `json:"money_market_pct"`
	MoneyMarketUSD model.NullFloat `json:"money_market_usd"`
	CashPct        model.NullFloat `json:"cash_pct"`
	CashUSD        model.NullFloat `json:"cash_usd"`
	OnChainPct     float64         `json:"on_chain_pct"`
	// Discrepancy is reported money-market pct minus on-chain pct
	Discrepancy model.NullFloat `json:"discrepancy"`
	Source      string          `json:"source,omitempty"`

	ImpliedCash            model.NullFloat `json:"implied_cash"`
	CashDiscrepancy        model.NullFloat `json:"cash_discrepancy"`
	CashDiscrepancyFlagged bool            `json:"cash_discrepancy_flagged,omitempty"`
}

// safeSupply returns the supply used as a percentage denominator.
func safeSupply(b *model.Backing) float64 {
	if s := b.THBILLSupply.Or(0); s != 0 {
		return s
	}
	return 1
}

func pctOf(amount model.NullFloat, denom float64) model.NullFloat {
	if !amount.Valid || denom == 0 {
		return model.NullFloat{}
	}
	return model.Float(amount.Float64 / denom * 100)
}

// BackingRows itemizes the backing of the thBILL supply. A nil backing yields
// no rows.
func BackingRows(b *model.Backing) []BackingRow {
	if b == nil {
		return nil
	}
	supply := safeSupply(b)

	rows := []BackingRow{{
		Label:    "thBILL Supply",
		Amount:   b.THBILLSupply,
		Pct:      model.Float(100),
		IsSupply: true,
	}}

	rows = append(rows, wrappedRows(b, supply)...)

	rows = append(rows, BackingRow{
		Label:      "ULTRA Total",
		Amount:     b.ULTRATotal,
		Pct:        pctOf(b.ULTRATotal, supply),
		Note:       "Tokenized money market fund",
		IsSubtotal: true,
	})

	var deployed float64
	for _, pos := range b.TreasuryDefiPositions {
		deployed += pos.Amount.Or(0)
		rows = append(rows, BackingRow{
			Label:      positionLabel(pos),
			Amount:     pos.Amount,
			Pct:        pctOf(pos.Amount, supply),
			Note:       "DeFi deployed",
			IsCurrency: true,
		})
	}

	hasPositions := len(b.TreasuryDefiPositions) > 0
	spot := b.TreasuryUSDC.Or(0) - deployed
	switch {
	case !hasPositions:
		rows = append(rows, BackingRow{
			Label:      "Treasury USDC",
			Amount:     b.TreasuryUSDC,
			Pct:        pctOf(b.TreasuryUSDC, supply),
			IsCurrency: true,
		})
	case spot > 0:
		rows = append(rows, BackingRow{
			Label:      "Treasury USDC (spot)",
			Amount:     model.Float(spot),
			Pct:        pctOf(model.Float(spot), supply),
			IsCurrency: true,
		})
	}

	total := model.Float(b.ULTRATotal.Or(0) + b.TreasuryUSDC.Or(0))
	rows = append(rows, BackingRow{
		Label:      "Total Backing",
		Amount:     total,
		Pct:        pctOf(total, supply),
		IsSubtotal: true,
	})

	return rows
}

// wrappedRows returns the tULTRA rows: one consolidated row when the vault
// holds the whole wrapped supply, two flagged rows when they diverge.
func wrappedRows(b *model.Backing, supply float64) []BackingRow {
	if !b.TULTRASupply.Valid {
		return nil
	}
	if b.TULTRAVaultBalance.Valid &&
		math.Abs(b.TULTRAVaultBalance.Float64-b.TULTRASupply.Float64) <= WrappedVaultTolerance {
		return []BackingRow{{
			Label:     "tULTRA",
			Amount:    b.TULTRASupply,
			Pct:       pctOf(b.TULTRASupply, supply),
			Note:      "100% in vault",
			IsWrapped: true,
		}}
	}
	return []BackingRow{
		{
			Label:     "tULTRA in Vault",
			Amount:    b.TULTRAVaultBalance,
			Pct:       pctOf(b.TULTRAVaultBalance, supply),
			IsGap:     true,
			IsWrapped: true,
		},
		{
			Label:     "tULTRA Supply",
			Amount:    b.TULTRASupply,
			Pct:       pctOf(b.TULTRASupply, supply),
			IsGap:     true,
			IsWrapped: true,
		},
	}
}

func positionLabel(pos model.DefiPosition) string {
	token := strings.TrimSpace(pos.Token)
	if token == "" {
		token = "USDC"
	}
	if pos.Protocol == "" {
		return token
	}
	return fmt.Sprintf("%s (%s)", token, pos.Protocol)
}

// Ratio grades backing_ratio_ultra_only: healthy at 95% or more, warning at 80%.
func Ratio(b *model.Backing) *BackingRatio {
	if b == nil {
		return nil
	}
	r := &BackingRatio{
		Pct:         scale(b.BackingRatioULTRAOnly, 100),
		WithUSDCPct: scale(b.BackingRatioWithUSDC, 100),
		Status:      StatusUnknown,
	}
	if b.BackingRatioULTRAOnly.Valid {
		switch ratio := b.BackingRatioULTRAOnly.Float64; {
		case ratio >= 0.95:
			r.Status = StatusHealthy
		case ratio >= 0.8:
			r.Status = StatusWarning
		default:
			r.Status = StatusCritical
		}
	}
	return r
}

// CrossCheckTheo compares the issuer feed with on-chain backing. The feed is
// unavailable when absent or when cash_pct is null or zero.
func CrossCheckTheo(theo *model.TheoReported, b *model.Backing) CrossCheck {
	if theo == nil || !theo.CashPct.NonZero() {
		return CrossCheck{}
	}

	cc := CrossCheck{
		Available:      true,
		MoneyMarketPct: theo.MoneyMarketPct,
		MoneyMarketUSD: theo.MoneyMarketUSD,
		CashPct:        theo.CashPct,
		CashUSD:        theo.CashUSD,
		Source:         theo.Source,
	}
	if b != nil {
		cc.OnChainPct = b.BackingRatioULTRAOnly.Or(0) * 100
		cc.ImpliedCash = b.ImpliedCash
	}
	if theo.MoneyMarketPct.Valid {
		cc.Discrepancy = model.Float(theo.MoneyMarketPct.Float64 - cc.OnChainPct)
	}
	if cc.ImpliedCash.Valid && theo.CashUSD.Valid {
		delta := theo.CashUSD.Float64 - cc.ImpliedCash.Float64
		cc.CashDiscrepancy = model.Float(delta)
		cc.CashDiscrepancyFlagged = math.Abs(delta) > CashDiscrepancyThreshold
	}
	return cc
}

func scale(v model.NullFloat, factor float64) model.NullFloat {
	if !v.Valid {
		return v
	}
	return model.Float(v.Float64 * factor)
}
