package export

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/thbill-risk-dashboard/internal/derive"
	"github.com/yourorg/thbill-risk-dashboard/internal/model"
	"github.com/yourorg/thbill-risk-dashboard/internal/security"
)

type captured struct {
	header http.Header
	body   []byte
}

func captureServer(t *testing.T, status int) (*httptest.Server, chan captured) {
	t.Helper()
	got := make(chan captured, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		got <- captured{header: r.Header.Clone(), body: body}
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv, got
}

func TestWebhook_PresentSigned(t *testing.T) {
	srv, got := captureServer(t, http.StatusAccepted)
	signer, err := security.NewSigner("")
	require.NoError(t, err)

	w, err := NewWebhook(WebhookConfig{URL: srv.URL, APIKey: "secret", Signer: signer, Timeout: time.Second})
	require.NoError(t, err)

	d := derive.Derive(&model.MetricsSnapshot{TVL: &model.TVL{Total: model.Float(1)}}, nil)
	require.NoError(t, w.Present(context.Background(), 7, d))

	c := <-got
	assert.Equal(t, "Bearer secret", c.header.Get("Authorization"))
	assert.NoError(t, security.Verify(c.body, c.header.Get(SignatureHeader), c.header.Get(SignerHeader)))

	var p Payload
	require.NoError(t, json.Unmarshal(c.body, &p))
	assert.Equal(t, uint64(7), p.Sequence)
	assert.Equal(t, "success", p.Status)
	require.NotNil(t, p.Dashboard)
}

func TestWebhook_Fail(t *testing.T) {
	srv, got := captureServer(t, http.StatusOK)
	w, err := NewWebhook(WebhookConfig{URL: srv.URL})
	require.NoError(t, err)

	w.Fail(context.Background(), 3, errors.New("HTTP 500"))

	c := <-got
	assert.Empty(t, c.header.Get(SignatureHeader))
	var p Payload
	require.NoError(t, json.Unmarshal(c.body, &p))
	assert.Equal(t, "error", p.Status)
	assert.Equal(t, "HTTP 500", p.Error)
	assert.Nil(t, p.Dashboard)
}

func TestWebhook_ErrorStatus(t *testing.T) {
	srv, _ := captureServer(t, http.StatusBadRequest)
	w, err := NewWebhook(WebhookConfig{URL: srv.URL})
	require.NoError(t, err)

	err = w.Present(context.Background(), 1, &derive.Dashboard{})
	assert.ErrorContains(t, err, "400")
}

func TestNewWebhook_RequiresURL(t *testing.T) {
	_, err := NewWebhook(WebhookConfig{})
	assert.Error(t, err)
}
