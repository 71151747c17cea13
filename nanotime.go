package flowgraph

import (
	"fmt"
	"time"
)

// NanoTime is a non-negative count of nanoseconds since the Unix epoch.
// It is the engine's single representation of time, used for both
// historical event timestamps and real-time wall-clock reads.
type NanoTime int64

const (
	// ZeroTime is the smallest representable NanoTime.
	ZeroTime NanoTime = 0
	// MaxTime is the largest representable NanoTime.
	MaxTime NanoTime = 1<<63 - 1
)

// Now returns the current wall-clock time as a NanoTime.
func Now() NanoTime {
	return NanoTime(time.Now().UnixNano())
}

// NanoTimeFromTime converts a time.Time to a NanoTime.
func NanoTimeFromTime(t time.Time) NanoTime {
	return NanoTime(t.UnixNano())
}

// Time converts a NanoTime back to a time.Time.
func (t NanoTime) Time() time.Time {
	return time.Unix(0, int64(t))
}

// Add returns t advanced by d nanoseconds. d may be negative.
func (t NanoTime) Add(d NanoTime) NanoTime {
	return t + d
}

// AddDuration returns t advanced by a time.Duration.
func (t NanoTime) AddDuration(d time.Duration) NanoTime {
	return t + NanoTime(d)
}

// AddNanos returns t advanced by a raw nanosecond offset.
func (t NanoTime) AddNanos(n int64) NanoTime {
	return t + NanoTime(n)
}

// Sub returns the difference t - u as a NanoTime. Callers that need a
// time.Duration should wrap the result: time.Duration(t.Sub(u)).
func (t NanoTime) Sub(u NanoTime) NanoTime {
	return t - u
}

// Before reports whether t occurs strictly before u.
func (t NanoTime) Before(u NanoTime) bool {
	return t < u
}

// After reports whether t occurs strictly after u.
func (t NanoTime) After(u NanoTime) bool {
	return t > u
}

// Duration reinterprets t as a time.Duration (useful for elapsed-time
// values computed via Sub, not for absolute timestamps).
func (t NanoTime) Duration() time.Duration {
	return time.Duration(t)
}

// Seconds returns t expressed as fractional seconds since the epoch,
// formatted the way human-readable logs and CLI output want it.
func (t NanoTime) Seconds() float64 {
	return float64(t) / float64(time.Second)
}

// String renders t as "seconds.float" for logs and error messages.
func (t NanoTime) String() string {
	return fmt.Sprintf("%.9f", t.Seconds())
}
