// Package clock supplies "now" to the attendance core.
package clock

import "time"

// Clock returns the current instant.
type Clock interface {
	Now() time.Time
}

// System is the wall clock.
type System struct{}

// Now returns time.Now().
func (System) Now() time.Time { return time.Now() }

// Fixed always returns T. Used in tests.
type Fixed struct{ T time.Time }

// Now returns f.T.
func (f Fixed) Now() time.Time { return f.T }

// Func adapts a plain function to Clock.
type Func func() time.Time

// Now calls f.
func (f Func) Now() time.Time { return f() }

// In returns c.Now() in loc, falling back to UTC when loc is nil.
func In(c Clock, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return c.Now().In(loc)
}
