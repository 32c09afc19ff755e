// ABOUTME: Tests for the visibility-adaptive poller and bounded task waiting
// ABOUTME: A recording clock fires immediately so intervals can be asserted without sleeping
package poll

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recordingClock struct {
	mu    sync.Mutex
	waits []time.Duration
}

func (c *recordingClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	c.waits = append(c.waits, d)
	c.mu.Unlock()
	ch := make(chan time.Time, 1)
	ch <- time.Now()
	return ch
}

func (c *recordingClock) recorded() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.waits...)
}

func TestPoller_IntervalFollowsVisibility(t *testing.T) {
	clock := &recordingClock{}
	var visible atomic.Bool
	visible.Store(true)

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	p := &Poller{
		Visible:    5 * time.Second,
		Hidden:     time.Minute,
		Visibility: visible.Load,
		Clock:      clock,
	}
	err := p.Run(ctx, func(ctx context.Context) error {
		calls++
		switch calls {
		case 2:
			visible.Store(false)
		case 4:
			cancel()
		}
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 4, calls)
	assert.Equal(t, []time.Duration{5 * time.Second, time.Minute, time.Minute}, clock.recorded())
}

func TestPoller_ErrorsDoNotStopTheLoop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var reported []error
	calls := 0
	p := &Poller{
		Clock:   &recordingClock{},
		OnError: func(err error) { reported = append(reported, err) },
	}
	_ = p.Run(ctx, func(ctx context.Context) error {
		calls++
		if calls == 3 {
			cancel()
			return nil
		}
		return errors.New("backend hiccup")
	})

	assert.Equal(t, 3, calls)
	assert.Len(t, reported, 2)
}

func TestPoller_StopsOnCancelWhileWaiting(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	p := &Poller{Visible: time.Hour}
	go func() {
		done <- p.Run(ctx, func(ctx context.Context) error { return nil })
	}()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop after cancellation")
	}
}

func TestPoller_NoRefreshAfterCancel(t *testing.T) {
	// the clock is always ready, so Done and the timer race on every wait
	for i := 0; i < 200; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		p := &Poller{Clock: &recordingClock{}}
		err := p.Run(ctx, func(ctx context.Context) error {
			calls++
			cancel()
			return nil
		})
		require.ErrorIs(t, err, context.Canceled)
		require.Equal(t, 1, calls, "run %d refreshed after cancel", i)
	}
}

func TestPoller_CanceledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	p := &Poller{Clock: &recordingClock{}}
	err := p.Run(ctx, func(ctx context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestWaitFor_NoCheckAfterCancel(t *testing.T) {
	for i := 0; i < 200; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		attempts := 0
		_, err := WaitFor(ctx, WaitOptions{Interval: time.Second, MaxAttempts: 5, Clock: &recordingClock{}},
			func(ctx context.Context) (int, bool, error) {
				attempts++
				cancel()
				return attempts, false, nil
			})
		require.ErrorIs(t, err, context.Canceled)
		require.Equal(t, 1, attempts)
	}
}

func TestPoller_DefaultsWhenUnset(t *testing.T) {
	p := &Poller{}
	assert.Equal(t, DefaultVisibleInterval, p.interval())
	p.Visibility = func() bool { return false }
	assert.Equal(t, DefaultHiddenInterval, p.interval())
}

func TestWaitFor_ReturnsWhenDone(t *testing.T) {
	clock := &recordingClock{}
	attempts := 0
	v, err := WaitFor(context.Background(), WaitOptions{Interval: time.Second, MaxAttempts: 10, Clock: clock},
		func(ctx context.Context) (string, bool, error) {
			attempts++
			if attempts == 3 {
				return "completed", true, nil
			}
			return "processing", false, nil
		})

	require.NoError(t, err)
	assert.Equal(t, "completed", v)
	assert.Equal(t, []time.Duration{time.Second, time.Second}, clock.recorded())
}

func TestWaitFor_LimitReached(t *testing.T) {
	attempts := 0
	v, err := WaitFor(context.Background(), WaitOptions{Interval: time.Millisecond, MaxAttempts: 3, Clock: &recordingClock{}},
		func(ctx context.Context) (int, bool, error) {
			attempts++
			return attempts, false, nil
		})

	assert.ErrorIs(t, err, ErrAttemptsExceeded)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, 3, v, "last observed value is returned")
}

func TestWaitFor_CheckErrorStops(t *testing.T) {
	boom := errors.New("task lookup failed")
	_, err := WaitFor(context.Background(), WaitOptions{Clock: &recordingClock{}},
		func(ctx context.Context) (int, bool, error) { return 0, false, boom })
	assert.ErrorIs(t, err, boom)
}

func TestWaitFor_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := WaitFor(ctx, WaitOptions{Interval: time.Hour, MaxAttempts: 5},
		func(ctx context.Context) (int, bool, error) { return 0, false, nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWaitFor_BackoffGrows(t *testing.T) {
	clock := &recordingClock{}
	_, _ = WaitFor(context.Background(), WaitOptions{Interval: time.Second, MaxAttempts: 4, Backoff: true, Clock: clock},
		func(ctx context.Context) (int, bool, error) { return 0, false, nil })

	waits := clock.recorded()
	require.Len(t, waits, 3)
	// doubles from the interval with ±25% jitter
	assert.InDelta(t, float64(time.Second), float64(waits[0]), float64(250*time.Millisecond))
	assert.InDelta(t, float64(2*time.Second), float64(waits[1]), float64(500*time.Millisecond))
	assert.InDelta(t, float64(4*time.Second), float64(waits[2]), float64(time.Second))
}
