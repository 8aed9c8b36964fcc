package ui

import (
	"math"
	"time"
)

// CounterState is the lifecycle of one count-up animation
type CounterState int

const (
	CounterIdle CounterState = iota
	CounterAnimating
	CounterSettled
)

func (s CounterState) String() string {
	switch s {
	case CounterAnimating:
		return "animating"
	case CounterSettled:
		return "settled"
	default:
		return "idle"
	}
}

// Counter counts a number up from zero the first time it becomes visible.
// Each instance only ever moves forward: idle, animating, settled.
type Counter struct {
	Label    string
	Target   int
	Duration time.Duration

	state   CounterState
	elapsed time.Duration
	value   int
}

// NewCounter creates an idle counter
func NewCounter(label string, target int, duration time.Duration) *Counter {
	return &Counter{
		Label:    label,
		Target:   target,
		Duration: duration,
	}
}

// State returns the current lifecycle state
func (c *Counter) State() CounterState {
	return c.state
}

// Value returns the number currently shown
func (c *Counter) Value() int {
	return c.value
}

// Observe reports a visibility change. It starts the animation on the first visible
// observation and reports whether it did.
func (c *Counter) Observe(visible bool) bool {
	if !visible || c.state != CounterIdle {
		return false
	}
	c.state = CounterAnimating
	return true
}

// Advance moves an animating counter forward by d and returns the shown value
func (c *Counter) Advance(d time.Duration) int {
	if c.state != CounterAnimating {
		return c.value
	}

	c.elapsed += d
	if c.Duration <= 0 || c.elapsed >= c.Duration {
		c.state = CounterSettled
		c.value = c.Target
		return c.value
	}

	c.value = progress(c.Target, float64(c.elapsed)/float64(c.Duration))
	return c.value
}

// Frames returns n evenly spaced values of the full animation, ending at the target.
// It does not change the counter.
func (c *Counter) Frames(n int) []int {
	if n <= 0 {
		return nil
	}
	frames := make([]int, n)
	for i := range frames {
		frames[i] = progress(c.Target, float64(i+1)/float64(n))
	}
	return frames
}

func progress(target int, fraction float64) int {
	return int(math.Round(float64(target) * fraction))
}
