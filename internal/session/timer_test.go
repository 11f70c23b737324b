package session

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	assert.Fail(t, "condition not met within timeout")
}

func TestTimerCountsDownAndExpiresOnce(t *testing.T) {
	var fired int32
	timer := newTimerWithInterval(3, time.Millisecond, func() {
		atomic.AddInt32(&fired, 1)
	})
	timer.Start()

	waitFor(t, time.Second, func() bool { return !timer.Active() })

	assert.Equal(t, 0, timer.Remaining())
	assert.Equal(t, int32(1), atomic.LoadInt32(&fired))

	// The clock stays at zero; the callback never re-fires.
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, 0, timer.Remaining())
	assert.Equal(t, int32(1), atomic.LoadInt32(&fired))
}

func TestTimerStopFreezesClock(t *testing.T) {
	var fired int32
	timer := newTimerWithInterval(1000, time.Millisecond, func() {
		atomic.AddInt32(&fired, 1)
	})
	timer.Start()

	waitFor(t, time.Second, func() bool { return timer.Remaining() < 1000 })
	timer.Stop()
	assert.False(t, timer.Active())

	frozen := timer.Remaining()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, frozen, timer.Remaining())
	assert.Equal(t, int32(0), atomic.LoadInt32(&fired))
}

func TestTimerStopIsIdempotent(t *testing.T) {
	timer := NewTimer(60, nil)
	timer.Start()
	timer.Stop()
	timer.Stop()
	assert.False(t, timer.Active())
}

func TestTimerStartOnZeroIsNoop(t *testing.T) {
	var fired int32
	timer := NewTimer(0, func() { atomic.AddInt32(&fired, 1) })
	timer.Start()

	assert.False(t, timer.Active())
	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&fired))
}

func TestTimerStartTwice(t *testing.T) {
	timer := newTimerWithInterval(100, time.Millisecond, nil)
	timer.Start()
	timer.Start()
	timer.Stop()
	assert.False(t, timer.Active())
}

func TestTimerStartAfterStopStaysInactive(t *testing.T) {
	timer := newTimerWithInterval(100, time.Millisecond, nil)
	timer.Start()
	timer.Stop()

	frozen := timer.Remaining()
	timer.Start()

	assert.False(t, timer.Active())
	time.Sleep(10 * time.Millisecond)
	assert.False(t, timer.Active())
	assert.Equal(t, frozen, timer.Remaining())
}

func TestTimerStopBeforeStartPinsClock(t *testing.T) {
	timer := NewTimer(60, nil)
	timer.Stop()
	timer.Start()

	assert.False(t, timer.Active())
	assert.Equal(t, 60, timer.Remaining())
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		name    string
		seconds int
		want    string
	}{
		{"zero", 0, "00h:00m:00s"},
		{"seconds only", 59, "00h:00m:59s"},
		{"minute rollover", 60, "00h:01m:00s"},
		{"three hours", 10845, "03h:00m:45s"},
		{"typical paper", 180 * 60, "03h:00m:00s"},
		{"hours uncapped past a day", 26*3600 + 90, "26h:01m:30s"},
		{"negative clamps to zero", -5, "00h:00m:00s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatClock(tt.seconds))
		})
	}
}
