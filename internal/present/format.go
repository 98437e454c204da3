package present

import (
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/yourorg/thbill-risk-dashboard/internal/derive"
	"github.com/yourorg/thbill-risk-dashboard/internal/model"
)

// Placeholder is shown for any unavailable value.
const Placeholder = "-"

// LastUpdatedError replaces the last-updated text after a failed cycle.
const LastUpdatedError = "Error loading data"

const dateLayout = "Jan 2, 2006, 03:04 PM UTC"

var printer = message.NewPrinter(language.English)

// FormatNumber groups thousands and fixes the fraction digits.
func FormatNumber(v model.NullFloat, decimals int) string {
	if !v.Valid || math.IsNaN(v.Float64) || math.IsInf(v.Float64, 0) {
		return Placeholder
	}
	return printer.Sprint(number.Decimal(v.Float64,
		number.MinFractionDigits(decimals),
		number.MaxFractionDigits(decimals),
	))
}

// FormatCurrency is FormatNumber with a dollar sign.
func FormatCurrency(v model.NullFloat, decimals int) string {
	s := FormatNumber(v, decimals)
	if s == Placeholder {
		return s
	}
	return "$" + s
}

// FormatPercent renders v with a fixed number of decimals and no grouping.
func FormatPercent(v model.NullFloat, decimals int) string {
	if !v.Valid {
		return Placeholder
	}
	return strconv.FormatFloat(v.Float64, 'f', decimals, 64) + "%"
}

// FormatSignedPercent prefixes non-negative values with "+".
func FormatSignedPercent(v model.NullFloat, decimals int) string {
	if !v.Valid {
		return Placeholder
	}
	return sign(v.Float64) + FormatPercent(v, decimals)
}

// FormatPrice renders a dollar price without grouping.
func FormatPrice(v model.NullFloat, decimals int) string {
	if !v.Valid {
		return Placeholder
	}
	return "$" + strconv.FormatFloat(v.Float64, 'f', decimals, 64)
}

// FormatDepth shows the 2% depth of a pool. Swapping buy and sell never
// changes the result.
func FormatDepth(buy, sell model.NullFloat) string {
	return FormatCurrency(derive.DepthEstimate(buy, sell), 0)
}

// DepthTitle details both sides when both are known.
func DepthTitle(buy, sell model.NullFloat) string {
	if !buy.Valid || !sell.Valid {
		return ""
	}
	return "Buy: " + FormatCurrency(buy, 0) + " / Sell: " + FormatCurrency(sell, 0)
}

// FormatCompactVolume renders $1.23M, $4.5K or $12.
func FormatCompactVolume(v model.NullFloat) string {
	if !v.Valid {
		return Placeholder
	}
	switch x := v.Float64; {
	case x >= 1_000_000:
		return "$" + strconv.FormatFloat(x/1_000_000, 'f', 2, 64) + "M"
	case x >= 1_000:
		return "$" + strconv.FormatFloat(x/1_000, 'f', 1, 64) + "K"
	default:
		return "$" + strconv.FormatFloat(x, 'f', 0, 64)
	}
}

// FormatDate renders a timestamp in UTC, e.g. "Jan 1, 2026, 12:00 PM UTC".
func FormatDate(ts model.Timestamp) string {
	if ts.IsZero() {
		return Placeholder
	}
	return ts.UTC().Format(dateLayout)
}

func sign(v float64) string {
	if v >= 0 {
		return "+"
	}
	return ""
}
