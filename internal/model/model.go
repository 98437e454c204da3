// Package model defines the wire types for the thBILL metrics snapshot and peg history.
package model

// MetricsSnapshot is the root document produced upstream for one refresh.
// Every section is optional; a nil section means the upstream job did not emit it.
type MetricsSnapshot struct {
	// Timestamp is when the snapshot was produced (zone-less values are UTC)
	Timestamp Timestamp `json:"timestamp"`

	TVL                *TVL                `json:"tvl_usd,omitempty"`
	Backing            *Backing            `json:"backing,omitempty"`
	RedemptionFlow     *RedemptionFlow     `json:"redemption_flow,omitempty"`
	Peg                *Peg                `json:"peg,omitempty"`
	SecondaryLiquidity *SecondaryLiquidity `json:"secondary_liquidity,omitempty"`
	DefiMarkets        []DefiMarket        `json:"defi_markets,omitempty"`

	// TheoReported is the optional issuer-reported cross-check feed
	TheoReported *TheoReported `json:"theo_reported,omitempty"`
}

// IsEmpty reports whether the snapshot carries no timestamp and no sections at all.
func (s MetricsSnapshot) IsEmpty() bool {
	return s.Timestamp.IsZero() &&
		s.TVL == nil &&
		s.Backing == nil &&
		s.RedemptionFlow == nil &&
		s.Peg == nil &&
		s.SecondaryLiquidity == nil &&
		s.DefiMarkets == nil &&
		s.TheoReported == nil
}

// TVL is the total value locked with a per-chain breakdown in document order.
type TVL struct {
	Total   NullFloat          `json:"total"`
	ByChain Ordered[NullFloat] `json:"by_chain,omitempty"`
}

// Backing is the collateral composition of the thBILL supply.
type Backing struct {
	// THBILLSupply is the outstanding supply of the tracked token
	THBILLSupply NullFloat `json:"thbill_supply"`

	// Wrapped collateral (tULTRA) held by the vault versus its total supply
	TULTRASupply       NullFloat `json:"tultra_supply"`
	TULTRAVaultBalance NullFloat `json:"tultra_vault_balance"`

	// Collateral token (ULTRA) balances per chain
	ULTRAEthereum NullFloat `json:"ultra_ethereum"`
	ULTRAArbitrum NullFloat `json:"ultra_arbitrum"`
	ULTRASolana   NullFloat `json:"ultra_solana"`
	ULTRATotal    NullFloat `json:"ultra_total"`

	// ImpliedCash is tULTRA minus ULTRA as computed upstream
	ImpliedCash NullFloat `json:"implied_cash"`

	// Treasury stablecoin balance, optionally split into DeFi-deployed positions
	TreasuryUSDC          NullFloat      `json:"treasury_usdc"`
	TreasuryDefiPositions []DefiPosition `json:"treasury_defi_positions,omitempty"`

	// Treasury coverage balances per chain
	TreasuryULTRAEthereum NullFloat `json:"treasury_ultra_ethereum"`
	TreasuryULTRAArbitrum NullFloat `json:"treasury_ultra_arbitrum"`
	TreasuryULTRASolana   NullFloat `json:"treasury_ultra_solana"`
	TreasuryULTRATotal    NullFloat `json:"treasury_ultra_total"`

	// TreasuryNotes explains unavailable treasury balances, keyed by lower-case chain
	TreasuryNotes map[string]string `json:"treasury_notes,omitempty"`

	BackingRatioULTRAOnly NullFloat `json:"backing_ratio_ultra_only"`
	BackingRatioWithUSDC  NullFloat `json:"backing_ratio_with_usdc"`
}

// DefiPosition is a treasury stablecoin position deployed into a protocol.
type DefiPosition struct {
	Protocol string    `json:"protocol"`
	Token    string    `json:"token"`
	Amount   NullFloat `json:"amount"`
}

// RedemptionFlow is the net mint/redeem flow over the trailing 24 hours.
type RedemptionFlow struct {
	// NetFlow24h is null until enough history exists to compute it
	NetFlow24h        NullFloat `json:"net_flow_24h"`
	NetFlowPercentage NullFloat `json:"net_flow_percentage"`
	Note              string    `json:"note,omitempty"`
}

// Peg holds NAV, market price and per-chain prices.
type Peg struct {
	NAVPerShare        NullFloat           `json:"nav_per_share"`
	VWAP               NullFloat           `json:"vwap"`
	PremiumDiscountPct NullFloat           `json:"premium_discount_pct"`
	PerChainPrices     Ordered[ChainPrice] `json:"per_chain_prices,omitempty"`
}

// ChainPrice is the volume weighted price and 24h volume on one chain.
type ChainPrice struct {
	VWAP      NullFloat `json:"vwap"`
	Volume24h NullFloat `json:"volume_24h"`
}

// SecondaryLiquidity lists the DEX pools trading thBILL.
type SecondaryLiquidity struct {
	Pools          []Pool    `json:"pools"`
	TotalTVL       NullFloat `json:"total_tvl"`
	TotalVolume24h NullFloat `json:"total_volume_24h"`
}

// Pool is one secondary-market trading pool.
type Pool struct {
	Market string `json:"market"`
	// Pair is "<token address>/<token address>"
	Pair          string    `json:"pair"`
	Chain         string    `json:"chain"`
	TVLUSD        NullFloat `json:"tvl_usd"`
	Volume24h     NullFloat `json:"volume_24h"`
	Spread        NullFloat `json:"spread"`
	Depth2PctBuy  NullFloat `json:"depth_2pct_buy"`
	Depth2PctSell NullFloat `json:"depth_2pct_sell"`
}

// DefiMarket is a yield-bearing position that accepts thBILL.
type DefiMarket struct {
	Protocol string    `json:"protocol"`
	Chain    string    `json:"chain"`
	Pool     string    `json:"pool"`
	TVLUSD   NullFloat `json:"tvl_usd"`
	APY      NullFloat `json:"apy"`
	// PoolMeta is free text, e.g. "PT-thBILL-26MAR2026"
	PoolMeta string `json:"pool_meta,omitempty"`
}

// TheoReported is the issuer dashboard composition used as a cross-check.
type TheoReported struct {
	CashPct        NullFloat `json:"cash_pct"`
	MoneyMarketPct NullFloat `json:"money_market_pct"`
	CashUSD        NullFloat `json:"cash_usd"`
	MoneyMarketUSD NullFloat `json:"money_market_usd"`
	Source         string    `json:"source,omitempty"`
}

// PegHistoryPoint is one historical premium/discount sample.
type PegHistoryPoint struct {
	Timestamp          Timestamp `json:"timestamp"`
	PremiumDiscountPct NullFloat `json:"premium_discount_pct"`
}
