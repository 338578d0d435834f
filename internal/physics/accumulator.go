package physics

import (
	"fmt"
	"math"
)

// Integrator advances the simulation by one fixed step of dt seconds.
type Integrator func(dt float64)

// Accumulator turns variable frame times into fixed integration steps.
//
// A step fires whenever the accumulated time reaches half an interval, and
// each step drains a full interval. The accumulator therefore runs up to
// half a step ahead of wall time and may hold a negative balance.
type Accumulator struct {
	interval   float64
	half       float64
	pending    float64
	integrator Integrator
}

// NewAccumulator creates an accumulator firing integrator every interval seconds.
func NewAccumulator(interval float64, integrator Integrator) (*Accumulator, error) {
	a := &Accumulator{integrator: integrator}
	if err := a.SetInterval(interval); err != nil {
		return nil, err
	}
	return a, nil
}

// Tick adds frameDelta seconds and runs the integrator as many times as the
// balance allows. It returns the number of steps fired. Negative and
// non-finite deltas are ignored.
func (a *Accumulator) Tick(frameDelta float64) int {
	if !ValidDelta(frameDelta) {
		return 0
	}
	a.pending += frameDelta
	fired := 0
	for a.pending >= a.half {
		a.integrator(a.interval)
		a.pending -= a.interval
		fired++
	}
	return fired
}

// ValidDelta reports whether d is a usable frame time: finite and not negative.
func ValidDelta(d float64) bool {
	return d >= 0 && !math.IsInf(d, 1)
}

// Interval returns the fixed step in seconds.
func (a *Accumulator) Interval() float64 {
	return a.interval
}

// SetInterval changes the fixed step. The pending balance is kept as is.
func (a *Accumulator) SetInterval(interval float64) error {
	if !(interval > 0) || math.IsInf(interval, 1) {
		return fmt.Errorf("physics: interval %v: %w", interval, ErrInvalidRate)
	}
	a.interval = interval
	a.half = interval * 0.5
	return nil
}

// SetRate sets the interval to 1/hz.
func (a *Accumulator) SetRate(hz float64) error {
	if !(hz > 0) || math.IsInf(hz, 1) {
		return fmt.Errorf("physics: refresh rate %v: %w", hz, ErrInvalidRate)
	}
	return a.SetInterval(1 / hz)
}

// Pending returns the accumulated time not yet consumed by a step.
func (a *Accumulator) Pending() float64 {
	return a.pending
}
