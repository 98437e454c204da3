package present

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourorg/thbill-risk-dashboard/internal/derive"
)

// ErrNilDashboard is returned when a cycle presents nothing.
var ErrNilDashboard = errors.New("nil dashboard")

// Board holds the last rendered view. Sections missing from a new dashboard
// keep their previous rendering, and a failed cycle only changes the
// last-updated text.
type Board struct {
	mu          sync.RWMutex
	applied     uint64
	view        View
	derived     *derive.Dashboard
	lastSuccess time.Time
	lastFailure time.Time
	lastErr     error

	now func() time.Time
}

// Status summarizes the board for health reporting.
type Status struct {
	Sequence    uint64    `json:"sequence"`
	Ready       bool      `json:"ready"`
	LastSuccess time.Time `json:"last_success"`
	LastFailure time.Time `json:"last_failure"`
	LastError   string    `json:"last_error,omitempty"`
}

// NewBoard creates an empty board.
func NewBoard() *Board {
	return &Board{
		view: View{LastUpdated: Placeholder},
		now:  time.Now,
	}
}

// Present renders d and merges it into the board unless a newer cycle has
// already been applied.
func (b *Board) Present(_ context.Context, seq uint64, d *derive.Dashboard) error {
	if d == nil {
		return ErrNilDashboard
	}
	next := Render(seq, d)

	b.mu.Lock()
	defer b.mu.Unlock()
	if seq <= b.applied {
		logrus.WithField("seq", seq).Debug("Dropped stale render")
		return nil
	}
	b.applied = seq
	b.view = merge(b.view, next)
	b.derived = d
	b.lastSuccess = b.now()
	b.lastErr = nil
	return nil
}

// Fail marks the board as failed for cycle seq. Every other section keeps
// what it showed.
func (b *Board) Fail(_ context.Context, seq uint64, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if seq <= b.applied {
		logrus.WithField("seq", seq).Debug("Dropped stale failure")
		return
	}
	b.applied = seq
	b.view.Sequence = seq
	b.view.LastUpdated = LastUpdatedError
	if err != nil {
		b.view.Error = err.Error()
	}
	b.lastFailure = b.now()
	b.lastErr = err
}

// View returns a copy of the current view.
func (b *Board) View() View {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.view
}

// Derived returns the dashboard behind the last successful render, or nil.
func (b *Board) Derived() *derive.Dashboard {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.derived
}

// Status reports the board's refresh state.
func (b *Board) Status() Status {
	b.mu.RLock()
	defer b.mu.RUnlock()
	st := Status{
		Sequence:    b.applied,
		Ready:       b.derived != nil,
		LastSuccess: b.lastSuccess,
		LastFailure: b.lastFailure,
	}
	if b.lastErr != nil {
		st.LastError = b.lastErr.Error()
	}
	return st
}

// merge overlays next on prev, keeping prev's sections where next has none.
func merge(prev, next View) View {
	out := next
	if out.TVL == nil {
		out.TVL = prev.TVL
	}
	if out.BackingRatio == nil {
		out.BackingRatio = prev.BackingRatio
	}
	if out.NetFlow == nil {
		out.NetFlow = prev.NetFlow
	}
	if out.Backing == nil {
		out.Backing = prev.Backing
	}
	if out.Treasury == nil {
		out.Treasury = prev.Treasury
	}
	if out.Peg == nil {
		out.Peg = prev.Peg
	}
	if out.Liquidity == nil {
		out.Liquidity = prev.Liquidity
	}
	if out.Markets == nil {
		out.Markets = prev.Markets
	}
	return out
}
