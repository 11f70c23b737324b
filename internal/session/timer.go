package session

import (
	"fmt"
	"sync"
	"time"
)

// Timer is the single countdown clock of a live session. It ticks once per
// second, cannot be paused, and on reaching zero fires the expiry callback
// exactly once. The callback runs on the timer goroutine and is expected
// to route into the submission reconciler, whose own guard makes the
// timeout path idempotent with an explicit submit racing it.
type Timer struct {
	mu        sync.Mutex
	remaining int
	active    bool
	stopped   bool
	stopCh    chan struct{}
	interval  time.Duration
	onExpire  func()
}

func NewTimer(seconds int, onExpire func()) *Timer {
	return newTimerWithInterval(seconds, time.Second, onExpire)
}

// newTimerWithInterval lets tests compress wall-clock time.
func newTimerWithInterval(seconds int, interval time.Duration, onExpire func()) *Timer {
	return &Timer{
		remaining: seconds,
		interval:  interval,
		stopCh:    make(chan struct{}),
		onExpire:  onExpire,
	}
}

// Start launches the countdown goroutine. Starting twice, or starting a
// stopped timer, is a no-op: stopCh is closed for good once Stop runs.
func (t *Timer) Start() {
	t.mu.Lock()
	if t.active || t.stopped || t.remaining <= 0 {
		t.mu.Unlock()
		return
	}
	t.active = true
	t.mu.Unlock()

	go t.run()
}

func (t *Timer) run() {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-t.stopCh:
			return
		case <-ticker.C:
			t.mu.Lock()
			if !t.active {
				t.mu.Unlock()
				return
			}
			t.remaining--
			if t.remaining > 0 {
				t.mu.Unlock()
				continue
			}
			t.remaining = 0
			t.active = false
			expire := t.onExpire
			t.mu.Unlock()

			if expire != nil {
				expire()
			}
			return
		}
	}
}

// Stop freezes the countdown for good. Safe to call repeatedly and from
// the expiry path itself.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	t.stopped = true
	t.active = false
	close(t.stopCh)
}

// Remaining returns the seconds left on the clock.
func (t *Timer) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

// Active reports whether the countdown is still running.
func (t *Timer) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// FormatClock renders seconds as HHh:MMm:SSs, each field zero-padded to
// two digits. Hours are not capped: a 26 hour test renders as 26h.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02dh:%02dm:%02ds", h, m, s)
}
