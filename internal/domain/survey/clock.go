package survey

import "time"

// Clock supplies the current time to scheduling code.  Production wiring uses
// NewSystemClock; tests pin a FixedClock so that "next checkpoint strictly
// after now" selections are reproducible.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// NewSystemClock returns a Clock backed by the wall clock in UTC.
func NewSystemClock() Clock { return systemClock{} }

// FixedClock always reports the same instant.
type FixedClock struct {
	Instant time.Time
}

func (c FixedClock) Now() time.Time { return c.Instant }

// NewFixedClock pins the clock at the given instant.
func NewFixedClock(t time.Time) FixedClock { return FixedClock{Instant: t} }
