// Package fetch retrieves the metrics snapshot and peg history documents.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"

	"github.com/yourorg/thbill-risk-dashboard/internal/config"
)

// ErrStatus is returned when a resource answers with a non-2xx status.
var ErrStatus = errors.New("unexpected status")

// maxErrorBody caps how much of a failed response is kept in the error.
const maxErrorBody = 512

// Options configures the HTTP transport shared by both fetchers.
type Options struct {
	BaseURL string
	// Timeout bounds one fetch including retries; zero means none
	Timeout  time.Duration
	RetryMax int
}

// OptionsFromConfig extracts the fetch options from the service config.
func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		BaseURL:  cfg.BaseURL,
		Timeout:  cfg.FetchTimeout,
		RetryMax: cfg.FetchRetryMax,
	}
}

// newRetryClient creates a new HTTP client with retry capabilities
func newRetryClient(retryMax int) *retryablehttp.Client {
	c := retryablehttp.NewClient()
	c.RetryMax = max(retryMax, 0)
	c.RetryWaitMin = 500 * time.Millisecond
	c.RetryWaitMax = 3 * time.Second
	c.Logger = nil
	// keep the status code instead of retryablehttp's "giving up" error
	c.ErrorHandler = retryablehttp.PassthroughErrorHandler
	return c
}

// StandardClient converts a retryablehttp.Client to a standard http.Client
func StandardClient(retryClient *retryablehttp.Client) *http.Client {
	return retryClient.StandardClient()
}

// ResolveURL resolves a relative resource path against base. An absolute
// path is returned unchanged.
func ResolveURL(base, path string) (string, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("invalid resource path %q: %w", path, err)
	}
	if base == "" || ref.IsAbs() {
		return ref.String(), nil
	}
	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", base, err)
	}
	return b.ResolveReference(ref).String(), nil
}

// resource is one JSON document behind a URL.
type resource struct {
	url        string
	timeout    time.Duration
	httpClient *http.Client
}

func newResource(opts Options, path string) (resource, error) {
	u, err := ResolveURL(opts.BaseURL, path)
	if err != nil {
		return resource{}, err
	}
	return resource{
		url:        u,
		timeout:    opts.Timeout,
		httpClient: StandardClient(newRetryClient(opts.RetryMax)),
	}, nil
}

// getJSON fetches the resource and decodes it into out.
func (r resource) getJSON(ctx context.Context, out any) error {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	logrus.Debugf("Fetching %s", r.url)
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error fetching %s: %w", r.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%w: %s returned %d: %s", ErrStatus, r.url, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("error decoding %s: %w", r.url, err)
	}
	return nil
}
