package exemption

import "time"

// Clock supplies the current date for expiry arithmetic.
type Clock interface {
	Today() time.Time
}

// SystemClock reads the local wall clock.
type SystemClock struct{}

// Today returns time.Now.
func (SystemClock) Today() time.Time {
	return time.Now()
}

// FixedClock always returns the same date. Useful in tests.
type FixedClock time.Time

// Today returns the fixed date.
func (c FixedClock) Today() time.Time {
	return time.Time(c)
}

// Date returns a FixedClock at midnight UTC of the given day.
func Date(year int, month time.Month, day int) FixedClock {
	return FixedClock(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}
