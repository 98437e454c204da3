// Package dashboard runs the refresh cycle: fetch, validate, derive, present.
package dashboard

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/yourorg/thbill-risk-dashboard/internal/derive"
	"github.com/yourorg/thbill-risk-dashboard/internal/model"
	"github.com/yourorg/thbill-risk-dashboard/internal/otel"
	"github.com/yourorg/thbill-risk-dashboard/internal/present"
	"github.com/yourorg/thbill-risk-dashboard/internal/validation"
)

// SnapshotSource provides the metrics snapshot for a cycle.
type SnapshotSource interface {
	Fetch(ctx context.Context) (*model.MetricsSnapshot, error)
}

// HistorySource provides the peg history for a cycle.
type HistorySource interface {
	Fetch(ctx context.Context) ([]model.PegHistoryPoint, error)
}

// Refresher drives refresh cycles. Cycles may overlap; each carries its own
// sequence number so presenters can drop stale results.
type Refresher struct {
	snapshots SnapshotSource
	history   HistorySource
	presenter present.Presenter

	seq      atomic.Uint64
	inflight sync.WaitGroup
}

// NewRefresher creates a refresher. history may be nil, in which case every
// cycle runs with an empty history.
func NewRefresher(snapshots SnapshotSource, history HistorySource, presenter present.Presenter) *Refresher {
	return &Refresher{
		snapshots: snapshots,
		history:   history,
		presenter: presenter,
	}
}

// RunCycle performs one refresh and returns its sequence number. A snapshot
// failure is reported to the presenter and returned; a history failure only
// degrades the cycle.
func (r *Refresher) RunCycle(ctx context.Context) (uint64, error) {
	seq := r.seq.Add(1)
	start := time.Now()
	log := logrus.WithField("seq", seq)

	ctx, span := otel.StartSpan(ctx, "refresh.cycle", attribute.Int64("seq", int64(seq)))
	defer span.End()

	histc := make(chan []model.PegHistoryPoint, 1)
	go func() { histc <- r.fetchHistory(ctx, log) }()

	snap, err := r.snapshots.Fetch(ctx)
	if err == nil {
		err = validation.ValidateSnapshot(snap)
	}
	if err != nil {
		err = fmt.Errorf("snapshot: %w", err)
		otel.RecordError(ctx, err)
		log.WithError(err).Error("Refresh cycle failed")
		r.presenter.Fail(ctx, seq, err)
		return seq, err
	}

	var history []model.PegHistoryPoint
	select {
	case history = <-histc:
	case <-ctx.Done():
	}

	d := derive.Derive(snap, history)
	if err := r.presenter.Present(ctx, seq, d); err != nil {
		otel.RecordError(ctx, err)
		log.WithError(err).Warn("Presenter rejected dashboard")
		return seq, err
	}

	fields := logrus.Fields{
		"duration":       time.Since(start).String(),
		"history_points": d.History.Count,
		"stars":          d.Rating.Stars,
	}
	if d.Liquidity != nil {
		fields["pools"] = d.Liquidity.PoolCount
	}
	log.WithFields(fields).Info("Refresh cycle complete")
	return seq, nil
}

func (r *Refresher) fetchHistory(ctx context.Context, log *logrus.Entry) []model.PegHistoryPoint {
	if r.history == nil {
		return nil
	}
	points, err := r.history.Fetch(ctx)
	if err != nil {
		log.WithError(err).Warn("Peg history unavailable, continuing without it")
		return nil
	}
	return points
}

// Run executes one cycle immediately and then one per interval until ctx is
// done. Cycles are not serialized: a slow cycle does not delay the next tick.
// Run waits for in-flight cycles before returning.
func (r *Refresher) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	defer r.inflight.Wait()

	logrus.WithField("interval", interval.String()).Info("Refresh loop started")
	r.spawn(ctx)
	for {
		select {
		case <-ctx.Done():
			logrus.Info("Refresh loop stopping")
			return
		case <-ticker.C:
			r.spawn(ctx)
		}
	}
}

func (r *Refresher) spawn(ctx context.Context) {
	r.inflight.Add(1)
	go func() {
		defer r.inflight.Done()
		_, _ = r.RunCycle(ctx)
	}()
}
