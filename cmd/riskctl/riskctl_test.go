package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/thbill-risk-dashboard/internal/present"
)

const testSnapshot = `{
  "timestamp": "2026-01-01T12:00:00",
  "tvl_usd": {"total": 1000000, "by_chain": {"hyperevm": 1000000}},
  "backing": {"thbill_supply": 1000, "ultra_total": 950, "treasury_usdc": 30, "backing_ratio_ultra_only": 0.95},
  "secondary_liquidity": {"pools": [
    {"market": "Project X", "pair": "a/b", "chain": "hyperevm", "tvl_usd": 800000, "volume_24h": 200000,
     "depth_2pct_buy": 1500000, "depth_2pct_sell": 1500000}
  ]},
  "defi_markets": []
}`

const testHistory = `[{"premium_discount_pct": 0.4}, {"premium_discount_pct": -0.4}, {"premium_discount_pct": 10.6}]`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDerive_Text(t *testing.T) {
	out, err := run(t, "derive",
		"--snapshot", writeFile(t, "m.json", testSnapshot),
		"--history", writeFile(t, "h.json", testHistory))
	require.NoError(t, err)

	assert.Contains(t, out, "Jan 1, 2026, 12:00 PM UTC")
	assert.Contains(t, out, "★★★☆☆")
	assert.Contains(t, out, "Low trading volume")
	assert.Contains(t, out, "Total Backing")
	assert.Contains(t, out, "98.00%")
	assert.Contains(t, out, "No markets found")
}

func TestDerive_JSON(t *testing.T) {
	out, err := run(t, "derive", "--format", "json", "--snapshot", writeFile(t, "m.json", testSnapshot))
	require.NoError(t, err)

	var view present.View
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	require.NotNil(t, view.Liquidity)
	assert.Equal(t, 1, view.Liquidity.PoolCount)
	assert.Equal(t, "$1,000,000", view.TVL.Total)
}

func TestDerive_Raw(t *testing.T) {
	out, err := run(t, "derive", "--format", "raw", "--snapshot", writeFile(t, "m.json", testSnapshot))
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &raw))
	assert.Equal(t, "2026-01-01T12:00:00Z", raw["timestamp"])
}

func TestDerive_Errors(t *testing.T) {
	_, err := run(t, "derive", "--snapshot", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = run(t, "derive", "--snapshot", writeFile(t, "m.json", `{}`))
	assert.ErrorContains(t, err, "no timestamp")

	_, err = run(t, "derive", "--format", "yaml", "--snapshot", writeFile(t, "m.json", testSnapshot))
	assert.ErrorContains(t, err, "unsupported format")

	_, err = run(t, "--log-level", "loud", "derive")
	assert.ErrorContains(t, err, "invalid log level")
}

func TestDerive_BadHistoryIsIgnored(t *testing.T) {
	out, err := run(t, "derive",
		"--snapshot", writeFile(t, "m.json", testSnapshot),
		"--history", writeFile(t, "h.json", `not json`))
	require.NoError(t, err)
	assert.Contains(t, out, "Total Backing")
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/data/thbill_metrics.json":
			_, _ = w.Write([]byte(testSnapshot))
		case "/data/peg_history.json":
			_, _ = w.Write([]byte(testHistory))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	out, err := run(t, "fetch", "--base-url", srv.URL+"/", "--format", "raw")
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &raw))
	history := raw["history"].(map[string]any)
	assert.Equal(t, float64(2), history["count"])

	_, err = run(t, "fetch", "--base-url", srv.URL+"/", "--metrics-path", "nope.json")
	assert.ErrorContains(t, err, "refresh failed")
}
