// ABOUTME: Replay cursor over a draft's orchestration timeline with play, pause, stepping, speed and seek
// ABOUTME: A background goroutine advances the cursor while playing and stops when the end is reached
package draft

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/tripnara/tripnara-go/internal/models"
	"github.com/tripnara/tripnara-go/internal/poll"
)

// Speed is a playback multiplier.
type Speed int

const (
	Speed1x Speed = 1
	Speed2x Speed = 2
	Speed4x Speed = 4
)

func (s Speed) Valid() bool {
	return s == Speed1x || s == Speed2x || s == Speed4x
}

// Interval is the time between automatic steps.
func (s Speed) Interval() time.Duration {
	return time.Second / time.Duration(s)
}

type PlayerOptions struct {
	Clock poll.Clock
	// OnStep runs after every cursor move, outside the player's lock.
	// It runs on the playback goroutine during play and must not block on Close.
	OnStep func(index int, item models.ReplayTimelineItem)
}

type session struct {
	stop chan struct{}
}

// Player is safe for concurrent use.
type Player struct {
	clock  poll.Clock
	onStep func(int, models.ReplayTimelineItem)
	wg     sync.WaitGroup

	mu       sync.Mutex
	timeline []models.ReplayTimelineItem
	index    int
	speed    Speed
	current  *session
	closed   bool
}

func NewPlayer(timeline []models.ReplayTimelineItem, opts PlayerOptions) *Player {
	clock := opts.Clock
	if clock == nil {
		clock = poll.RealClock
	}
	return &Player{clock: clock, onStep: opts.OnStep, timeline: timeline, speed: Speed1x}
}

func (p *Player) last() int {
	return len(p.timeline) - 1
}

// Play starts automatic stepping. At the end of the timeline it restarts from the first item.
func (p *Player) Play() {
	p.mu.Lock()
	if p.closed || p.current != nil || len(p.timeline) == 0 {
		p.mu.Unlock()
		return
	}
	restarted := p.index >= p.last()
	if restarted {
		p.index = 0
	}
	p.launchLocked()
	item := p.timeline[p.index]
	p.mu.Unlock()

	if restarted {
		p.emit(0, item)
	}
}

// Pause stops automatic stepping and keeps the cursor.
func (p *Player) Pause() {
	p.mu.Lock()
	p.detachLocked()
	p.mu.Unlock()
}

// Toggle plays when paused and pauses when playing.
func (p *Player) Toggle() {
	if p.Playing() {
		p.Pause()
		return
	}
	p.Play()
}

func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current != nil
}

// SetSpeed changes the multiplier; playback continues at the new rate.
func (p *Player) SetSpeed(s Speed) error {
	if !s.Valid() {
		return fmt.Errorf("unsupported playback speed %dx", int(s))
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.speed = s
	if p.current != nil {
		p.detachLocked()
		p.launchLocked()
	}
	return nil
}

func (p *Player) Speed() Speed {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.speed
}

// StepForward moves one item ahead. It reports false at the end.
func (p *Player) StepForward() bool {
	return p.moveBy(1)
}

// StepBackward moves one item back. It reports false at the start.
func (p *Player) StepBackward() bool {
	return p.moveBy(-1)
}

func (p *Player) moveBy(delta int) bool {
	p.mu.Lock()
	next := p.index + delta
	if len(p.timeline) == 0 || next < 0 || next > p.last() {
		p.mu.Unlock()
		return false
	}
	p.index = next
	item := p.timeline[next]
	p.mu.Unlock()
	p.emit(next, item)
	return true
}

// Reset pauses and returns to the first item.
func (p *Player) Reset() {
	p.mu.Lock()
	p.detachLocked()
	p.index = 0
	if len(p.timeline) == 0 {
		p.mu.Unlock()
		return
	}
	item := p.timeline[0]
	p.mu.Unlock()
	p.emit(0, item)
}

// Seek jumps to the item at pct percent of the timeline, clamped to its bounds.
func (p *Player) Seek(pct float64) {
	p.mu.Lock()
	if len(p.timeline) == 0 {
		p.mu.Unlock()
		return
	}
	idx := int(math.Floor(pct / 100 * float64(len(p.timeline))))
	idx = max(0, min(idx, p.last()))
	p.index = idx
	item := p.timeline[idx]
	p.mu.Unlock()
	p.emit(idx, item)
}

func (p *Player) Index() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.index
}

func (p *Player) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.timeline)
}

// Current returns the item under the cursor.
func (p *Player) Current() (models.ReplayTimelineItem, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.timeline) == 0 {
		return models.ReplayTimelineItem{}, false
	}
	return p.timeline[p.index], true
}

// Progress is the cursor position as a percentage, 0 for timelines of one item or less.
func (p *Player) Progress() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.timeline) <= 1 {
		return 0
	}
	return float64(p.index) / float64(p.last()) * 100
}

// Close stops playback and waits for the playback goroutine to exit.
func (p *Player) Close() {
	p.mu.Lock()
	p.closed = true
	p.detachLocked()
	p.mu.Unlock()
	p.wg.Wait()
}

func (p *Player) detachLocked() {
	if p.current == nil {
		return
	}
	close(p.current.stop)
	p.current = nil
}

func (p *Player) launchLocked() {
	s := &session{stop: make(chan struct{})}
	p.current = s
	p.wg.Add(1)
	go p.run(s, p.speed.Interval())
}

func (p *Player) run(s *session, interval time.Duration) {
	defer p.wg.Done()
	for {
		select {
		case <-s.stop:
			return
		case <-p.clock.After(interval):
		}
		idx, item, moved, more := p.tick(s)
		if moved {
			p.emit(idx, item)
		}
		if !more {
			return
		}
	}
}

// tick advances the cursor for session s. A session that was paused or replaced never moves it.
func (p *Player) tick(s *session) (int, models.ReplayTimelineItem, bool, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current != s {
		return 0, models.ReplayTimelineItem{}, false, false
	}
	if p.index >= p.last() {
		p.detachLocked()
		return 0, models.ReplayTimelineItem{}, false, false
	}
	p.index++
	more := p.index < p.last()
	if !more {
		p.detachLocked()
	}
	return p.index, p.timeline[p.index], true, more
}

func (p *Player) emit(idx int, item models.ReplayTimelineItem) {
	if p.onStep != nil {
		p.onStep(idx, item)
	}
}
