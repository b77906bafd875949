// Package clock makes the current time controllable from tests.
package clock

import (
	"time"
)

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// FrozenClock always returns the same time until moved forward.
type FrozenClock struct {
	now time.Time
}

// FastForward moves the clock.
func (c *FrozenClock) FastForward(d time.Duration) time.Time {
	c.now = c.now.Add(d)
	return c.now
}

func (c *FrozenClock) Now() time.Time {
	return c.now
}

var current Clock = systemClock{}

// Now is time.Now unless the clock is frozen.
func Now() time.Time {
	return current.Now()
}

// FreezeAt stops the time at the given date.
func FreezeAt(now time.Time) *FrozenClock {
	frozen := &FrozenClock{now: now}
	current = frozen
	return frozen
}

// Freeze stops the time.
func Freeze() *FrozenClock {
	return FreezeAt(time.Now())
}

// Unfreeze restores the system clock.
func Unfreeze() {
	current = systemClock{}
}
