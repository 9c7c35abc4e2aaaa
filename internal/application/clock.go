package application

import "time"

// Clock interface supaya gampang ditest
type Clock interface {
	Now() time.Time
}

// SystemClock implementasi default, pakai time.Now() (monotonic)
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// ElapsedMS returns the fractional milliseconds between start and c.Now(),
// clamped at zero.
func ElapsedMS(c Clock, start time.Time) float64 {
	d := c.Now().Sub(start)
	if d < 0 {
		return 0
	}
	return float64(d) / float64(time.Millisecond)
}
