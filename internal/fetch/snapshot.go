package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.opentelemetry.io/otel/attribute"

	"github.com/yourorg/thbill-risk-dashboard/internal/model"
	"github.com/yourorg/thbill-risk-dashboard/internal/otel"
)

// SnapshotFetcher retrieves the metrics snapshot. Its failure is fatal to a
// refresh cycle.
type SnapshotFetcher struct {
	res resource
}

// NewSnapshotFetcher creates a fetcher for path resolved against opts.BaseURL.
func NewSnapshotFetcher(opts Options, path string) (*SnapshotFetcher, error) {
	res, err := newResource(opts, path)
	if err != nil {
		return nil, err
	}
	return &SnapshotFetcher{res: res}, nil
}

// URL is the resolved snapshot location.
func (f *SnapshotFetcher) URL() string { return f.res.url }

// Fetch retrieves and decodes the snapshot.
func (f *SnapshotFetcher) Fetch(ctx context.Context) (*model.MetricsSnapshot, error) {
	ctx, span := otel.StartSpan(ctx, "fetch.snapshot", attribute.String("url", f.res.url))
	defer span.End()

	var snap model.MetricsSnapshot
	if err := f.res.getJSON(ctx, &snap); err != nil {
		otel.RecordError(ctx, err)
		return nil, err
	}
	return &snap, nil
}

// DecodeSnapshot reads a snapshot document from r.
func DecodeSnapshot(r io.Reader) (*model.MetricsSnapshot, error) {
	var snap model.MetricsSnapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("error decoding snapshot: %w", err)
	}
	return &snap, nil
}
