package present

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGauges_Present(t *testing.T) {
	reg := prometheus.NewRegistry()
	g := NewGauges(reg)
	ctx := context.Background()

	require.NoError(t, g.Present(ctx, 1, snapshot(t, "2026-01-01T12:00:00", 1000)))

	assert.InDelta(t, 95.0, testutil.ToFloat64(g.backingRatio), 1e-9)
	assert.Equal(t, 1_000_000.0, testutil.ToFloat64(g.tvl))
	assert.Equal(t, 3.0, testutil.ToFloat64(g.stars))
	assert.Equal(t, 3.0, testutil.ToFloat64(g.axisScore.WithLabelValues("peg")))
	assert.Equal(t, 1.0, testutil.ToFloat64(g.cycles.WithLabelValues("success")))

	expected := `
# HELP thbill_refresh_cycles_total Refresh cycles by outcome
# TYPE thbill_refresh_cycles_total counter
thbill_refresh_cycles_total{status="error"} 1
thbill_refresh_cycles_total{status="success"} 1
`
	g.Fail(ctx, 2, errors.New("boom"))
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "thbill_refresh_cycles_total"))
}

func TestGauges_StaleCycleDoesNotOverwrite(t *testing.T) {
	g := NewGauges(prometheus.NewRegistry())
	ctx := context.Background()

	require.NoError(t, g.Present(ctx, 2, snapshot(t, "2026-01-01T12:05:00", 2000)))
	require.NoError(t, g.Present(ctx, 1, snapshot(t, "2026-01-01T12:00:00", 1000)))

	assert.Equal(t, 2_000_000.0, testutil.ToFloat64(g.tvl))
	assert.Equal(t, 2.0, testutil.ToFloat64(g.cycles.WithLabelValues("success")))
}

func TestGauges_NilDashboard(t *testing.T) {
	g := NewGauges(prometheus.NewRegistry())
	assert.ErrorIs(t, g.Present(context.Background(), 1, nil), ErrNilDashboard)
}
