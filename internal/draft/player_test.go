// ABOUTME: Tests for the replay player driven by a scripted clock, plus goroutine leak checks
package draft

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tripnara/tripnara-go/internal/models"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type timer struct {
	d  time.Duration
	ch chan time.Time
}

// scriptClock hands every requested timer to the test, which decides when it fires.
type scriptClock struct {
	timers chan timer
}

func newScriptClock() *scriptClock {
	return &scriptClock{timers: make(chan timer, 16)}
}

func (c *scriptClock) After(d time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	c.timers <- timer{d: d, ch: ch}
	return ch
}

func (c *scriptClock) next(t *testing.T) timer {
	t.Helper()
	select {
	case tm := <-c.timers:
		return tm
	case <-time.After(2 * time.Second):
		t.Fatal("player never armed a timer")
		return timer{}
	}
}

type stepLog struct {
	mu   sync.Mutex
	seen []int
	ch   chan int
}

func newStepLog() *stepLog {
	return &stepLog{ch: make(chan int, 16)}
}

func (l *stepLog) record(i int, _ models.ReplayTimelineItem) {
	l.mu.Lock()
	l.seen = append(l.seen, i)
	l.mu.Unlock()
	l.ch <- i
}

func (l *stepLog) wait(t *testing.T) int {
	t.Helper()
	select {
	case i := <-l.ch:
		return i
	case <-time.After(2 * time.Second):
		t.Fatal("no step emitted")
		return -1
	}
}

func timeline(n int) []models.ReplayTimelineItem {
	out := make([]models.ReplayTimelineItem, n)
	steps := []models.OrchestrationStep{models.StepIntake, models.StepResearch, models.StepGateEval, models.StepPlanGen}
	for i := range out {
		out[i] = models.ReplayTimelineItem{Step: steps[i%len(steps)]}
	}
	return out
}

func TestPlayer_PlaysToEndAndAutoPauses(t *testing.T) {
	clock := newScriptClock()
	log := newStepLog()
	p := NewPlayer(timeline(3), PlayerOptions{Clock: clock, OnStep: log.record})
	defer p.Close()

	p.Play()
	require.True(t, p.Playing())

	tm := clock.next(t)
	assert.Equal(t, time.Second, tm.d)
	tm.ch <- time.Time{}
	assert.Equal(t, 1, log.wait(t))

	clock.next(t).ch <- time.Time{}
	assert.Equal(t, 2, log.wait(t))

	assert.Eventually(t, func() bool { return !p.Playing() }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 2, p.Index())
	assert.InDelta(t, 100, p.Progress(), 1e-9)
}

func TestPlayer_PlayAtEndRestarts(t *testing.T) {
	clock := newScriptClock()
	log := newStepLog()
	p := NewPlayer(timeline(3), PlayerOptions{Clock: clock, OnStep: log.record})
	defer p.Close()

	p.Seek(100)
	assert.Equal(t, 2, log.wait(t))

	p.Play()
	assert.Equal(t, 0, log.wait(t))
	assert.Equal(t, 0, p.Index())
	clock.next(t).ch <- time.Time{}
	assert.Equal(t, 1, log.wait(t))
}

func TestPlayer_PauseKeepsCursor(t *testing.T) {
	clock := newScriptClock()
	p := NewPlayer(timeline(4), PlayerOptions{Clock: clock})
	defer p.Close()

	p.Play()
	clock.next(t).ch <- time.Time{}
	assert.Eventually(t, func() bool { return p.Index() == 1 }, time.Second, 5*time.Millisecond)

	p.Pause()
	assert.False(t, p.Playing())
	assert.Equal(t, 1, p.Index())
}

func TestPlayer_SpeedChangesInterval(t *testing.T) {
	clock := newScriptClock()
	p := NewPlayer(timeline(4), PlayerOptions{Clock: clock})
	defer p.Close()

	require.NoError(t, p.SetSpeed(Speed4x))
	p.Play()
	assert.Equal(t, 250*time.Millisecond, clock.next(t).d)

	require.NoError(t, p.SetSpeed(Speed2x))
	assert.Equal(t, 500*time.Millisecond, clock.next(t).d)
	assert.True(t, p.Playing())

	assert.Error(t, p.SetSpeed(3))
	assert.Equal(t, Speed2x, p.Speed())
}

func TestPlayer_ManualControls(t *testing.T) {
	log := newStepLog()
	p := NewPlayer(timeline(5), PlayerOptions{Clock: newScriptClock(), OnStep: log.record})
	defer p.Close()

	assert.False(t, p.StepBackward())
	assert.True(t, p.StepForward())
	assert.True(t, p.StepForward())
	assert.Equal(t, 2, p.Index())
	assert.True(t, p.StepBackward())
	assert.Equal(t, 1, p.Index())

	p.Seek(50)
	assert.Equal(t, 2, p.Index())
	p.Seek(-10)
	assert.Equal(t, 0, p.Index())
	p.Seek(250)
	assert.Equal(t, 4, p.Index())
	assert.False(t, p.StepForward())

	p.Reset()
	assert.Equal(t, 0, p.Index())
	assert.False(t, p.Playing())

	log.mu.Lock()
	defer log.mu.Unlock()
	assert.Equal(t, []int{1, 2, 1, 2, 0, 4, 0}, log.seen)
}

func TestPlayer_EmptyTimeline(t *testing.T) {
	p := NewPlayer(nil, PlayerOptions{Clock: newScriptClock()})
	defer p.Close()

	p.Play()
	assert.False(t, p.Playing())
	assert.False(t, p.StepForward())
	p.Seek(40)
	p.Reset()
	_, ok := p.Current()
	assert.False(t, ok)
	assert.Zero(t, p.Progress())
}

func TestPlayer_CloseStopsPlayback(t *testing.T) {
	clock := newScriptClock()
	p := NewPlayer(timeline(3), PlayerOptions{Clock: clock})

	p.Play()
	clock.next(t)
	p.Close()

	assert.False(t, p.Playing())
	p.Play()
	assert.False(t, p.Playing())
}
