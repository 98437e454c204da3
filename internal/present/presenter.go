// Package present turns derived dashboards into what clients see: a formatted
// board served over HTTP and a Prometheus gauge set.
package present

import (
	"context"
	"errors"
	"sync"

	"github.com/yourorg/thbill-risk-dashboard/internal/derive"
)

// Presenter receives the outcome of every refresh cycle. seq increases with
// each cycle started; implementations drop anything older than what they have
// already applied.
type Presenter interface {
	Present(ctx context.Context, seq uint64, d *derive.Dashboard) error
	Fail(ctx context.Context, seq uint64, err error)
}

// Multi fans a cycle out to several presenters.
type Multi []Presenter

func (m Multi) Present(ctx context.Context, seq uint64, d *derive.Dashboard) error {
	var errs []error
	for _, p := range m {
		if err := p.Present(ctx, seq, d); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Fail(ctx context.Context, seq uint64, err error) {
	for _, p := range m {
		p.Fail(ctx, seq, err)
	}
}

// sequence serializes updates and drops those older than the newest applied.
type sequence struct {
	mu   sync.Mutex
	last uint64
}

// apply runs fn when seq is newer than every sequence applied so far and
// reports whether it did.
func (s *sequence) apply(seq uint64, fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq <= s.last {
		return false
	}
	s.last = seq
	fn()
	return true
}
