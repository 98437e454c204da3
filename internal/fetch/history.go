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

// HistoryFetcher retrieves the peg history series. Callers treat its failure
// as an empty history.
type HistoryFetcher struct {
	res resource
}

// NewHistoryFetcher creates a fetcher for path resolved against opts.BaseURL.
func NewHistoryFetcher(opts Options, path string) (*HistoryFetcher, error) {
	res, err := newResource(opts, path)
	if err != nil {
		return nil, err
	}
	return &HistoryFetcher{res: res}, nil
}

// URL is the resolved history location.
func (f *HistoryFetcher) URL() string { return f.res.url }

// Fetch retrieves and decodes the history array.
func (f *HistoryFetcher) Fetch(ctx context.Context) ([]model.PegHistoryPoint, error) {
	ctx, span := otel.StartSpan(ctx, "fetch.history", attribute.String("url", f.res.url))
	defer span.End()

	var points []model.PegHistoryPoint
	if err := f.res.getJSON(ctx, &points); err != nil {
		otel.RecordError(ctx, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("points", len(points)))
	return points, nil
}

// DecodeHistory reads a history array from r.
func DecodeHistory(r io.Reader) ([]model.PegHistoryPoint, error) {
	var points []model.PegHistoryPoint
	if err := json.NewDecoder(r).Decode(&points); err != nil {
		return nil, fmt.Errorf("error decoding history: %w", err)
	}
	return points, nil
}
