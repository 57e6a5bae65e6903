package examsession

import (
	"fmt"
	"sync"
	"time"
)

// Ticker is the part of *time.Ticker the countdown needs.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type systemTicker struct{ *time.Ticker }

func (s systemTicker) C() <-chan time.Time { return s.Ticker.C }

func newSystemTicker(d time.Duration) Ticker { return systemTicker{time.NewTicker(d)} }

type TimerOption func(*Timer)

// WithTicker replaces the once-per-second system ticker.
func WithTicker(newTicker func(time.Duration) Ticker) TimerOption {
	return func(t *Timer) { t.newTicker = newTicker }
}

// OnTick registers fn to run after every applied tick with the new remaining value.
func OnTick(fn func(remaining int)) TimerOption {
	return func(t *Timer) { t.onTick = fn }
}

// OnExpire registers fn to run once, when remaining reaches zero.
func OnExpire(fn func()) TimerOption {
	return func(t *Timer) { t.onExpire = fn }
}

// Timer is the exam countdown. It is idle until enabled and counts down one
// second per tick while enabled, never below zero.
type Timer struct {
	mu        sync.Mutex
	remaining int
	limit     int
	enabled   bool
	expired   bool
	gen       uint64
	stop      chan struct{}

	newTicker func(time.Duration) Ticker
	onTick    func(int)
	onExpire  func()
}

func NewTimer(seconds int, opts ...TimerOption) *Timer {
	if seconds < 0 {
		seconds = 0
	}
	t := &Timer{
		remaining: seconds,
		limit:     seconds,
		newTicker: newSystemTicker,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SetEnabled starts or stops the countdown. After SetEnabled(false) returns,
// no tick from the stopped ticker changes the timer, even one already queued.
func (t *Timer) SetEnabled(on bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if on == t.enabled {
		return
	}
	t.enabled = on
	t.gen++
	if !on {
		close(t.stop)
		t.stop = nil
		return
	}
	t.stop = make(chan struct{})
	go t.run(t.newTicker(time.Second), t.gen, t.stop)
}

func (t *Timer) run(tk Ticker, gen uint64, stop <-chan struct{}) {
	defer tk.Stop()
	for {
		select {
		case <-stop:
			return
		case <-tk.C():
			t.tick(gen)
		}
	}
}

// Tick applies one countdown step if the timer is enabled.
func (t *Timer) Tick() {
	t.mu.Lock()
	gen := t.gen
	t.mu.Unlock()
	t.tick(gen)
}

func (t *Timer) tick(gen uint64) {
	t.mu.Lock()
	if !t.enabled || gen != t.gen {
		t.mu.Unlock()
		return
	}
	if t.remaining > 0 {
		t.remaining--
	}
	remaining := t.remaining
	fireExpire := remaining == 0 && !t.expired
	if fireExpire {
		t.expired = true
	}
	onTick, onExpire := t.onTick, t.onExpire
	t.mu.Unlock()

	if onTick != nil {
		onTick(remaining)
	}
	if fireExpire && onExpire != nil {
		onExpire()
	}
}

func (t *Timer) Enabled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.enabled
}

func (t *Timer) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

// Limit is the budget the timer was created with.
func (t *Timer) Limit() int { return t.limit }

// LimitMinutes is the budget in whole minutes.
func (t *Timer) LimitMinutes() int { return t.limit / 60 }

// Elapsed is how many seconds of the budget have been used.
func (t *Timer) Elapsed() int { return t.limit - t.Remaining() }

// Formatted renders the remaining time as "MM분 SS초".
func (t *Timer) Formatted() string {
	return FormatSeconds(t.Remaining())
}

// Close stops the countdown.
func (t *Timer) Close() { t.SetEnabled(false) }

func FormatSeconds(s int) string {
	if s < 0 {
		s = 0
	}
	return fmt.Sprintf("%02d분 %02d초", s/60, s%60)
}
