package clock

import (
	"sync/atomic"
	"time"
)

// A Clock returns monotonic nanoseconds since an arbitrary epoch. Now
// must be safe to call from many goroutines at once.
type Clock interface {
	Now() int64
}

type Monotonic struct {
	epoch time.Time
}

func NewMonotonic() *Monotonic {
	return &Monotonic{epoch: time.Now()}
}

// time.Since uses the runtime's monotonic reading of epoch, so wall
// clock adjustments do not move Now backwards.
func (m *Monotonic) Now() int64 {
	return int64(time.Since(m.epoch))
}

func Seconds(ns int64) float64 {
	return time.Duration(ns).Seconds()
}

// Manual advances by step nanoseconds on every read. Tests use it to
// make deadline expiry happen after an exact number of reads.
type Manual struct {
	now  atomic.Int64
	step int64
}

func NewManual(step time.Duration) *Manual {
	return &Manual{step: int64(step)}
}

func (m *Manual) Now() int64 {
	return m.now.Add(m.step) - m.step
}

func (m *Manual) Advance(d time.Duration) {
	m.now.Add(int64(d))
}

func (m *Manual) Reads() int64 {
	if m.step == 0 {
		return 0
	}
	return m.now.Load() / m.step
}
