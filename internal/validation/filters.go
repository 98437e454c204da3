// Package validation provides the sanity checks applied to fetched documents
// before derivation.
package validation

import (
	"errors"
	"math"

	"github.com/sirupsen/logrus"
	"github.com/yourorg/thbill-risk-dashboard/internal/model"
)

// MaxAbsPremiumDiscountPct bounds plausible history samples. Larger magnitudes
// are instrumentation artifacts.
const MaxAbsPremiumDiscountPct = 5.0

// ErrEmptySnapshot is returned for a document with no timestamp and no sections.
var ErrEmptySnapshot = errors.New("snapshot has no timestamp and no sections")

// ValidateSnapshot rejects snapshots that cannot be rendered at all. Missing
// fields inside an otherwise populated snapshot are not errors.
func ValidateSnapshot(s *model.MetricsSnapshot) error {
	if s == nil || s.IsEmpty() {
		return ErrEmptySnapshot
	}
	return nil
}

// FilterHistory returns the samples usable for statistics and charting. Points
// without a value, with a non-finite value or with |value| above
// MaxAbsPremiumDiscountPct are dropped. Input order is preserved.
func FilterHistory(points []model.PegHistoryPoint) []model.PegHistoryPoint {
	valid := make([]model.PegHistoryPoint, 0, len(points))
	for _, p := range points {
		if isValidPoint(p) {
			valid = append(valid, p)
			continue
		}
		logrus.WithFields(logrus.Fields{
			"timestamp":            p.Timestamp.Time,
			"premium_discount_pct": p.PremiumDiscountPct.Ptr(),
		}).Debug("Filtered peg history artifact")
	}

	if dropped := len(points) - len(valid); dropped > 0 {
		logrus.WithFields(logrus.Fields{
			"total":    len(points),
			"filtered": dropped,
		}).Debug("Peg history filtering complete")
	}
	return valid
}

func isValidPoint(p model.PegHistoryPoint) bool {
	if !p.PremiumDiscountPct.Valid {
		return false
	}
	v := p.PremiumDiscountPct.Float64
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	return math.Abs(v) <= MaxAbsPremiumDiscountPct
}
