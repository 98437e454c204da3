// Package export pushes refresh results to an external webhook.
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"

	"github.com/yourorg/thbill-risk-dashboard/internal/derive"
	"github.com/yourorg/thbill-risk-dashboard/internal/security"
)

const (
	// SignatureHeader carries the hex secp256k1 signature of the body
	SignatureHeader = "X-Signature"
	// SignerHeader carries the address the signature recovers to
	SignerHeader = "X-Signer"
)

// WebhookConfig configures the webhook sink.
type WebhookConfig struct {
	URL     string
	APIKey  string
	Timeout time.Duration
	// Signer signs each body; nil sends unsigned payloads
	Signer *security.Signer
}

// Payload is the body posted for every cycle.
type Payload struct {
	Sequence  uint64            `json:"sequence"`
	Status    string            `json:"status"`
	Error     string            `json:"error,omitempty"`
	SentAt    time.Time         `json:"sent_at"`
	Dashboard *derive.Dashboard `json:"dashboard,omitempty"`
}

// Webhook is a presenter that posts each cycle's outcome as JSON. It keeps no
// state, so stale cycles are forwarded with their sequence for the receiver
// to order.
type Webhook struct {
	config     WebhookConfig
	httpClient *http.Client
	now        func() time.Time
}

// NewWebhook creates the sink.
func NewWebhook(cfg WebhookConfig) (*Webhook, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("webhook URL not configured")
	}
	rc := retryablehttp.NewClient()
	rc.RetryMax = 2
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 3 * time.Second
	rc.Logger = nil
	client := rc.StandardClient()
	client.Timeout = cfg.Timeout

	return &Webhook{config: cfg, httpClient: client, now: time.Now}, nil
}

// Present posts a successful cycle.
func (w *Webhook) Present(ctx context.Context, seq uint64, d *derive.Dashboard) error {
	return w.post(ctx, Payload{Sequence: seq, Status: "success", Dashboard: d})
}

// Fail posts a failed cycle. Delivery errors are logged.
func (w *Webhook) Fail(ctx context.Context, seq uint64, err error) {
	p := Payload{Sequence: seq, Status: "error"}
	if err != nil {
		p.Error = err.Error()
	}
	if perr := w.post(ctx, p); perr != nil {
		logrus.WithError(perr).WithField("seq", seq).Warn("Failed to export failure to webhook")
	}
}

func (w *Webhook) post(ctx context.Context, p Payload) error {
	p.SentAt = w.now().UTC()
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.config.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if w.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+w.config.APIKey)
	}
	if w.config.Signer != nil {
		sig, err := w.config.Signer.Sign(body)
		if err != nil {
			return err
		}
		req.Header.Set(SignatureHeader, sig)
		req.Header.Set(SignerHeader, w.config.Signer.Address())
	}

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned error status: %d", resp.StatusCode)
	}
	logrus.WithFields(logrus.Fields{"seq": p.Sequence, "status": p.Status}).Debug("Exported cycle to webhook")
	return nil
}
