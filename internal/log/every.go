// SPDX-License-Identifier: MIT
package log

import (
	"sync/atomic"
	"time"
)

// Every rate-limits a repeated message to one per interval. It lets code
// running at the audio block rate report steady-state conditions at WARN.
type Every struct {
	interval time.Duration
	next     atomic.Int64 // unix nanoseconds of the next allowed message
	now      func() time.Time
}

// NewEvery returns a limiter allowing one message per interval.
func NewEvery(interval time.Duration) *Every {
	return &Every{interval: interval, now: time.Now}
}

// Allow reports whether a message may be logged now. Concurrent callers
// race for the slot and only one wins.
func (e *Every) Allow() bool {
	now := e.now().UnixNano()
	next := e.next.Load()
	if now < next {
		return false
	}
	return e.next.CompareAndSwap(next, now+int64(e.interval))
}

// Warnf logs at LevelWarn if the limiter allows it.
func (e *Every) Warnf(format string, v ...any) {
	if shouldLog(LevelWarn) && e.Allow() {
		Warnf(format, v...)
	}
}
