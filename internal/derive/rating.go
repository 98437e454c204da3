package derive

import (
	"math"
	"strings"

	"github.com/yourorg/thbill-risk-dashboard/internal/model"
	"github.com/yourorg/thbill-risk-dashboard/internal/validation"
)

// DefaultAxisScore is used for an axis without data.
const DefaultAxisScore = 3

// Axis is one input of the liquidity/peg rating.
type Axis string

const (
	AxisNone   Axis = ""
	AxisPeg    Axis = "peg"
	AxisDepth  Axis = "depth"
	AxisVolume Axis = "volume"
)

// Rating messages.
const (
	MessageStrong         = "Strong peg stability and liquidity"
	MessageInsufficient   = "Insufficient data for a full assessment"
	MessagePegSignificant = "Significant peg deviation"
	MessagePegMinor       = "Minor peg deviation"
	MessageLimitedDepth   = "Limited market depth"
	MessageLowVolume      = "Low trading volume"
)

// strongMinimumAxisScore is the lowest axis score that still rates as strong.
const strongMinimumAxisScore = 4

type threshold struct {
	bound float64
	score int
}

// pegThresholds apply to mean absolute premium/discount: below bound scores.
var pegThresholds = []threshold{{0.15, 5}, {0.30, 4}, {0.50, 3}, {1.00, 2}}

// depthThresholds apply to summed 2% depth in USD: above bound scores.
var depthThresholds = []threshold{{2_000_000, 5}, {1_000_000, 4}, {500_000, 3}, {100_000, 2}}

// volumeThresholds apply to 24h volume in USD: above bound scores.
var volumeThresholds = []threshold{{5_000_000, 5}, {1_000_000, 4}, {500_000, 3}, {100_000, 2}}

// RatingInput is the data the rating depends on.
type RatingInput struct {
	// History is the raw series; artifacts are removed by the scorer
	History  []model.PegHistoryPoint
	DepthSum model.NullFloat
	Volume   model.NullFloat
}

// Rating is the 1-5 star liquidity and peg health rating.
type Rating struct {
	Stars       int    `json:"stars"`
	Glyphs      string `json:"glyphs"`
	PegScore    int    `json:"peg_score"`
	DepthScore  int    `json:"depth_score"`
	VolumeScore int    `json:"volume_score"`
	Weakest     Axis   `json:"weakest,omitempty"`
	Message     string `json:"message"`
}

// PegScore maps the mean absolute premium/discount of the valid history to 1-5.
func PegScore(history []model.PegHistoryPoint) int {
	return pegScore(validation.FilterHistory(history))
}

func pegScore(points []model.PegHistoryPoint) int {
	if len(points) == 0 {
		return DefaultAxisScore
	}
	var sum float64
	for _, p := range points {
		sum += math.Abs(p.PremiumDiscountPct.Float64)
	}
	avg := sum / float64(len(points))
	for _, t := range pegThresholds {
		if avg < t.bound {
			return t.score
		}
	}
	return 1
}

// DepthScore maps summed pool depth to 1-5.
func DepthScore(depthSum model.NullFloat) int {
	return scoreAbove(depthSum, depthThresholds)
}

// VolumeScore maps 24h volume to 1-5.
func VolumeScore(volume model.NullFloat) int {
	return scoreAbove(volume, volumeThresholds)
}

func scoreAbove(v model.NullFloat, thresholds []threshold) int {
	if !v.Valid || math.IsNaN(v.Float64) {
		return DefaultAxisScore
	}
	for _, t := range thresholds {
		if v.Float64 > t.bound {
			return t.score
		}
	}
	return 1
}

// Score combines the three axes into a rating. The weakest axis is picked in
// peg, depth, volume order when scores tie.
func Score(in RatingInput) Rating {
	valid := validation.FilterHistory(in.History)
	r := Rating{
		PegScore:    pegScore(valid),
		DepthScore:  DepthScore(in.DepthSum),
		VolumeScore: VolumeScore(in.Volume),
	}

	mean := float64(r.PegScore+r.DepthScore+r.VolumeScore) / 3
	r.Stars = clamp(int(math.Floor(mean+0.5)), 1, 5)
	r.Glyphs = Stars(r.Stars)

	noData := len(valid) == 0 && !in.DepthSum.Valid && !in.Volume.Valid
	minScore := min(r.PegScore, r.DepthScore, r.VolumeScore)
	switch {
	case noData:
		r.Message = MessageInsufficient
	case minScore >= strongMinimumAxisScore:
		r.Message = MessageStrong
	case r.PegScore == minScore:
		r.Weakest = AxisPeg
		r.Message = MessagePegMinor
		if r.PegScore <= 2 {
			r.Message = MessagePegSignificant
		}
	case r.DepthScore == minScore:
		r.Weakest = AxisDepth
		r.Message = MessageLimitedDepth
	default:
		r.Weakest = AxisVolume
		r.Message = MessageLowVolume
	}
	return r
}

// Stars renders n filled and 5-n empty star glyphs.
func Stars(n int) string {
	n = clamp(n, 0, 5)
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
