package status

import "time"

// Clock is the time source for all timing logic (stuck detection, escalation
// windows, elapsed display). Tests substitute a manual clock.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the wall clock.
func SystemClock() Clock { return systemClock{} }
