package generator

import "time"

// Clock returns the current time.
type Clock func() time.Time

// LocalClock returns a Clock reporting wall-clock time in loc.
// A nil loc means time.Local.
func LocalClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return func() time.Time {
		return time.Now().In(loc)
	}
}

// FixedClock always returns t.
func FixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}
