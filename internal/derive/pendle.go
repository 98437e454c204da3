package derive

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/yourorg/thbill-risk-dashboard/internal/model"
)

// PendleKind classifies a Pendle position. The empty kind means unavailable.
type PendleKind string

const (
	PendleFixedYield PendleKind = "fixed_yield"
	PendleLP         PendleKind = "liquidity_provider"
)

// Label returns the short display name of the kind.
func (k PendleKind) Label() string {
	switch k {
	case PendleFixedYield:
		return "Fixed Yield"
	case PendleLP:
		return "LP"
	default:
		return "-"
	}
}

var (
	// PT and LP match as standalone tokens only
	fixedYieldPattern = regexp.MustCompile(`(?i)(^|[^a-z0-9])pt([^a-z0-9]|$)|principal|fixed`)
	lpPattern         = regexp.MustCompile(`(?i)(^|[^a-z0-9])lp([^a-z0-9]|$)|liquidity`)

	maturityPattern = regexp.MustCompile(`(?i)(\d{1,2})([a-z]{3})(\d{4})`)
)

// PendleInfo holds the fields extracted from a Pendle pool metadata string.
type PendleInfo struct {
	Kind     PendleKind      `json:"kind"`
	Maturity model.Timestamp `json:"maturity"`
	// DaysToMaturity is relative to the snapshot time; negative once matured
	DaysToMaturity model.NullFloat `json:"days_to_maturity"`
}

// ParsePendleMeta extracts the position kind and maturity from free text such
// as "PT-thBILL-26MAR2026". Unrecognized input leaves both fields unavailable.
func ParsePendleMeta(meta string, now time.Time) PendleInfo {
	info := PendleInfo{Kind: pendleKind(meta)}
	if maturity, ok := parseMaturity(meta); ok {
		info.Maturity = model.Timestamp{Time: maturity}
		if !now.IsZero() {
			info.DaysToMaturity = model.Float(math.Floor(maturity.Sub(now).Hours() / 24))
		}
	}
	return info
}

func pendleKind(meta string) PendleKind {
	meta = strings.TrimSpace(meta)
	switch {
	case meta == "":
		return ""
	case fixedYieldPattern.MatchString(meta):
		return PendleFixedYield
	case lpPattern.MatchString(meta):
		return PendleLP
	}
	return ""
}

// parseMaturity finds the first DDMMMYYYY date in meta.
func parseMaturity(meta string) (time.Time, bool) {
	for _, m := range maturityPattern.FindAllStringSubmatch(meta, -1) {
		month, ok := MonthAbbreviations[strings.ToUpper(m[2])]
		if !ok {
			continue
		}
		day, _ := strconv.Atoi(m[1])
		year, _ := strconv.Atoi(m[3])
		t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		if day < 1 || t.Day() != day {
			continue
		}
		return t, true
	}
	return time.Time{}, false
}
