package timer

import "time"

// Clock provides the time operations the engine needs.
// Production code uses SystemClock; tests inject a ManualClock.
type Clock interface {
	// AfterFunc calls f once d has elapsed, possibly on another goroutine.
	AfterFunc(d time.Duration, f func()) Timer
	Now() time.Time
}

// Timer represents a pending AfterFunc callback.
type Timer interface {
	// Stop prevents the callback from firing. It returns false if the callback
	// already fired or was stopped.
	Stop() bool
}

// SystemClock is the Clock backed by the time package.
var SystemClock Clock = systemClock{}

type systemClock struct{}

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

func (systemClock) Now() time.Time {
	return time.Now()
}
