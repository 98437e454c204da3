package derive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yourorg/thbill-risk-dashboard/internal/model"
)

func history(values ...float64) []model.PegHistoryPoint {
	out := make([]model.PegHistoryPoint, len(values))
	for i, v := range values {
		out[i] = model.PegHistoryPoint{PremiumDiscountPct: model.Float(v)}
	}
	return out
}

func TestPegScore(t *testing.T) {
	tests := []struct {
		name    string
		history []model.PegHistoryPoint
		want    int
	}{
		{"no history", nil, 3},
		{"only artifacts", history(10.6, -6), 3},
		{"very tight", history(0.1, -0.1), 5},
		{"boundary 0.15 is not tight", history(0.15), 4},
		{"tight", history(0.2, -0.25), 4},
		{"moderate", history(0.4, -0.4, 10.6), 3},
		{"loose", history(0.9), 2},
		{"wide", history(1.0, -2), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PegScore(tt.history))
		})
	}
}

func TestDepthAndVolumeScore(t *testing.T) {
	tests := []struct {
		value  model.NullFloat
		depth  int
		volume int
	}{
		{model.NullFloat{}, 3, 3},
		{f(6_000_000), 5, 5},
		{f(2_500_000), 5, 4},
		{f(2_000_000), 4, 4},
		{f(1_500_000), 4, 4},
		{f(1_000_000), 3, 3},
		{f(600_000), 3, 3},
		{f(200_000), 2, 2},
		{f(100_000), 1, 1},
		{f(0), 1, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.depth, DepthScore(tt.value), "depth %v", tt.value.Ptr())
		assert.Equal(t, tt.volume, VolumeScore(tt.value), "volume %v", tt.value.Ptr())
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name    string
		input   RatingInput
		stars   int
		weakest Axis
		message string
	}{
		{
			name:    "weakest volume",
			input:   RatingInput{History: history(0.4, -0.4), DepthSum: f(1_500_000), Volume: f(200_000)},
			stars:   3,
			weakest: AxisVolume,
			message: MessageLowVolume,
		},
		{
			name:    "strong",
			input:   RatingInput{History: history(0.05), DepthSum: f(3_000_000), Volume: f(2_000_000)},
			stars:   5,
			message: MessageStrong,
		},
		{
			name:    "significant peg deviation",
			input:   RatingInput{History: history(1.2), DepthSum: f(3_000_000), Volume: f(6_000_000)},
			stars:   4,
			weakest: AxisPeg,
			message: MessagePegSignificant,
		},
		{
			name:    "minor peg deviation wins ties",
			input:   RatingInput{History: history(0.4), DepthSum: f(600_000), Volume: f(600_000)},
			stars:   3,
			weakest: AxisPeg,
			message: MessagePegMinor,
		},
		{
			name:    "depth beats volume on ties",
			input:   RatingInput{History: history(0.1), DepthSum: f(50_000), Volume: f(50_000)},
			stars:   2,
			weakest: AxisDepth,
			message: MessageLimitedDepth,
		},
		{
			name:    "no data at all",
			input:   RatingInput{},
			stars:   3,
			message: MessageInsufficient,
		},
		{
			name:    "history only with artifacts",
			input:   RatingInput{History: history(12, -8)},
			stars:   3,
			message: MessageInsufficient,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.input)
			assert.Equal(t, tt.stars, got.Stars)
			assert.Equal(t, tt.weakest, got.Weakest)
			assert.Equal(t, tt.message, got.Message)
			assert.Equal(t, Stars(tt.stars), got.Glyphs)
			assert.Equal(t, got, Score(tt.input), "deterministic")
		})
	}
}

func TestScore_RoundsHalfUp(t *testing.T) {
	// 5 + 5 + 4 = 14 -> 4.67 -> 5
	got := Score(RatingInput{History: history(0.01), DepthSum: f(3_000_000), Volume: f(2_000_000)})
	assert.Equal(t, 5, got.Stars)

	// 1 + 1 + 2 = 4 -> 1.33 -> 1
	got = Score(RatingInput{History: history(3), DepthSum: f(10), Volume: f(150_000)})
	assert.Equal(t, 1, got.Stars)
}

func TestStars(t *testing.T) {
	assert.Equal(t, "★★★☆☆", Stars(3))
	assert.Equal(t, "★★★★★", Stars(9))
	assert.Equal(t, "☆☆☆☆☆", Stars(-1))
}
