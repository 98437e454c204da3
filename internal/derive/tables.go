package derive

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// TokenSymbols maps lower-case token addresses to display symbols.
var TokenSymbols = map[string]string{
	// thBILL
	"0xfdd22ce6d1f66bc0ec89b20bf16ccb6670f55a5a": "thBILL",
	"0x5fa487bca6158c64046b2813623e20755091da0b": "thBILL",
	// HyperEVM
	"0xb8ce59fc3717ada4c02eadf9682a9e934f625ebb": "USDT0",
	"0x5555555555555555555555555555555555555555": "WHYPE",
	"0xfd739d4e423301ce9385c1fb8850539d657c296d": "kHYPE",
	"0x111111a1a0667d36bd57c0a9f569b98057111111": "USDH",
	"0xb88339cb7199b77e23db6e890353e22632ba630f": "USDC",
	// Arbitrum / Ethereum
	"0xaf88d065e77c8cc2239327c5edb3a432268e5831": "USDC",
	"0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48": "USDC",
}

// ChainLabels maps chain ids to display names.
var ChainLabels = map[string]string{
	"hyperevm": "HyperEVM",
	"arbitrum": "Arbitrum",
	"ethereum": "Ethereum",
	"base":     "Base",
}

// Category is a DeFi market grouping.
type Category string

const (
	CategoryMoneyMarket Category = "money_market"
	CategoryDEX         Category = "dex"
	CategoryPendle      Category = "pendle"
)

// ProtocolCategories maps protocol ids to their market category. Protocols
// missing from the table are money markets.
var ProtocolCategories = map[string]Category{
	"aave-v3":      CategoryMoneyMarket,
	"euler-v2":     CategoryMoneyMarket,
	"felix":        CategoryMoneyMarket,
	"hyperlend":    CategoryMoneyMarket,
	"hypurrfi":     CategoryMoneyMarket,
	"morpho-blue":  CategoryMoneyMarket,
	"morpho-v1":    CategoryMoneyMarket,
	"curve-dex":    CategoryDEX,
	"hyperswap-v3": CategoryDEX,
	"kittenswap":   CategoryDEX,
	"project-x":    CategoryDEX,
	"uniswap-v3":   CategoryDEX,
	"uniswap-v4":   CategoryDEX,
	"pendle":       CategoryPendle,
	"pendle-v2":    CategoryPendle,
}

// MonthAbbreviations maps upper-case three letter month names to month numbers.
var MonthAbbreviations = map[string]int{
	"JAN": 1, "FEB": 2, "MAR": 3, "APR": 4, "MAY": 5, "JUN": 6,
	"JUL": 7, "AUG": 8, "SEP": 9, "OCT": 10, "NOV": 11, "DEC": 12,
}

// CoverageChains is the fixed chain set of the treasury coverage table.
var CoverageChains = []string{"Ethereum", "Arbitrum", "Solana"}

// CategoryOf returns the category for a protocol id.
func CategoryOf(protocol string) Category {
	if c, ok := ProtocolCategories[strings.ToLower(strings.TrimSpace(protocol))]; ok {
		return c
	}
	return CategoryMoneyMarket
}

// ChainLabel returns the display name for a chain id; unknown ids pass through.
func ChainLabel(chain string) string {
	if label, ok := ChainLabels[strings.ToLower(chain)]; ok {
		return label
	}
	return chain
}

// TokenSymbol resolves a token address to its symbol. Unknown addresses are
// abbreviated to their first 8 characters.
func TokenSymbol(addr string) string {
	addr = strings.TrimSpace(addr)
	if sym, ok := TokenSymbols[normalizeAddress(addr)]; ok {
		return sym
	}
	if len(addr) <= 8 {
		return addr
	}
	return addr[:8] + "..."
}

// PairName converts "0xabc.../0xdef..." into "thBILL/USDC".
func PairName(pair string) string {
	if pair == "" {
		return ""
	}
	parts := strings.Split(pair, "/")
	for i, p := range parts {
		parts[i] = TokenSymbol(p)
	}
	return strings.Join(parts, "/")
}

// normalizeAddress lower-cases EVM addresses, adding the 0x prefix when it is
// missing. Non-EVM addresses are only lower-cased.
func normalizeAddress(addr string) string {
	if common.IsHexAddress(addr) {
		return strings.ToLower(common.HexToAddress(addr).Hex())
	}
	return strings.ToLower(addr)
}
