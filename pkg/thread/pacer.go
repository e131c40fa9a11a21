package thread

import (
	"context"
	"time"
)

// DefaultInterval is the wait between two consecutive posts.
const DefaultInterval = 10 * time.Second

// Pacer decides how long the publisher waits before the next post.
type Pacer interface {
	// Wait blocks until the next post may be sent.
	// It returns ctx.Err() if the context ends first.
	Wait(ctx context.Context) error
}

// Clock is the time source used by IntervalPacer.
type Clock interface {
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// IntervalPacer waits the same fixed interval before every post.
// It does not adapt to the provider's rate-limit headers.
type IntervalPacer struct {
	interval time.Duration
	clock    Clock
}

// NewIntervalPacer creates a pacer backed by the wall clock.
// A non-positive interval falls back to DefaultInterval.
func NewIntervalPacer(interval time.Duration) *IntervalPacer {
	return NewIntervalPacerWithClock(interval, realClock{})
}

// NewIntervalPacerWithClock creates a pacer that reads time from clock.
func NewIntervalPacerWithClock(interval time.Duration, clock Clock) *IntervalPacer {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if clock == nil {
		clock = realClock{}
	}
	return &IntervalPacer{interval: interval, clock: clock}
}

// Interval returns the configured wait.
func (p *IntervalPacer) Interval() time.Duration { return p.interval }

// Wait blocks for the configured interval.
func (p *IntervalPacer) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-p.clock.After(p.interval):
		return nil
	}
}

// NoPacer never waits. Used for dry runs.
type NoPacer struct{}

// Wait returns immediately unless ctx is already done.
func (NoPacer) Wait(ctx context.Context) error { return ctx.Err() }
