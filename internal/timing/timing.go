// Package timing is the scoped wall-clock timer used around device work.
package timing

import "time"

// Timer measures one interval. The zero value is not started.
type Timer struct {
	start time.Time
	now   func() time.Time
}

// Start begins a new interval.
func Start() *Timer { return StartWith(time.Now) }

// StartWith begins an interval on a custom clock.
func StartWith(now func() time.Time) *Timer {
	return &Timer{start: now(), now: now}
}

// Stop returns the time elapsed since Start. It may be called repeatedly.
func (t *Timer) Stop() time.Duration { return t.now().Sub(t.start) }

// Measure runs fn and returns how long it took, along with fn's error.
func Measure(fn func() error) (time.Duration, error) {
	t := Start()
	err := fn()
	return t.Stop(), err
}

// Accumulator sums intervals across batches.
type Accumulator struct {
	total time.Duration
	count int
	max   time.Duration
	min   time.Duration
}

// Add records one interval.
func (a *Accumulator) Add(d time.Duration) {
	if a.count == 0 || d < a.min {
		a.min = d
	}
	if d > a.max {
		a.max = d
	}
	a.total += d
	a.count++
}

func (a *Accumulator) Total() time.Duration { return a.total }
func (a *Accumulator) Count() int           { return a.count }
func (a *Accumulator) Max() time.Duration   { return a.max }
func (a *Accumulator) Min() time.Duration   { return a.min }

// Millis converts d to fractional milliseconds.
func Millis(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }
