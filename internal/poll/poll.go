// ABOUTME: Visibility-adaptive refresh loop and bounded task-status polling
// ABOUTME: Both stop promptly on context cancellation so callers can tie them to a view's lifetime
package poll

import (
	"context"
	"errors"
	"time"

	"github.com/tripnara/tripnara-go/internal/util"
)

// Default intervals for a status view that is in front of the user vs. in the background.
const (
	DefaultVisibleInterval = 30 * time.Second
	DefaultHiddenInterval  = 2 * time.Minute
)

// ErrAttemptsExceeded is returned by WaitFor when the check never reported done.
var ErrAttemptsExceeded = errors.New("polling limit reached before the task finished")

// Clock abstracts timers so loops can be driven deterministically in tests.
type Clock interface {
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// RealClock is the wall clock.
var RealClock Clock = realClock{}

// Poller repeatedly runs a refresh function with an interval chosen by visibility.
type Poller struct {
	Visible time.Duration
	Hidden  time.Duration
	// Visibility reports whether the consumer is currently on screen. Nil means always visible.
	Visibility func() bool
	// OnError receives refresh failures; the loop keeps going.
	OnError func(error)
	Clock   Clock
}

func (p *Poller) interval() time.Duration {
	visible, hidden := p.Visible, p.Hidden
	if visible <= 0 {
		visible = DefaultVisibleInterval
	}
	if hidden <= 0 {
		hidden = DefaultHiddenInterval
	}
	if p.Visibility == nil || p.Visibility() {
		return visible
	}
	return hidden
}

// Run calls fn immediately, then again after each interval, until ctx is done.
// It returns ctx.Err() once stopped.
func (p *Poller) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	clock := p.Clock
	if clock == nil {
		clock = RealClock
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := fn(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil && p.OnError != nil {
			p.OnError(err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-clock.After(p.interval()):
		}
	}
}

// WaitOptions bounds WaitFor.
type WaitOptions struct {
	Interval    time.Duration
	MaxAttempts int
	// Backoff grows the wait between attempts exponentially instead of keeping it fixed.
	Backoff bool
	Clock   Clock
}

// WaitFor calls check until it reports done, returns an error, ctx ends or MaxAttempts is spent.
func WaitFor[T any](ctx context.Context, opts WaitOptions, check func(ctx context.Context) (T, bool, error)) (T, error) {
	var last T
	clock := opts.Clock
	if clock == nil {
		clock = RealClock
	}
	if opts.Interval <= 0 {
		opts.Interval = 2 * time.Second
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 60
	}

	for attempt := 1; attempt <= opts.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return last, err
		}
		v, done, err := check(ctx)
		if err != nil {
			return v, err
		}
		last = v
		if done {
			return v, nil
		}
		if attempt == opts.MaxAttempts {
			break
		}
		wait := opts.Interval
		if opts.Backoff {
			wait = util.Backoff{Base: opts.Interval, Jitter: 0.25}.Delay(attempt)
		}
		select {
		case <-ctx.Done():
			return last, ctx.Err()
		case <-clock.After(wait):
		}
	}
	return last, ErrAttemptsExceeded
}
