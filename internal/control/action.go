// Package control rate-limits player actions. An Action runs its function
// at most once per interval, only while every guard holds and the action is
// not suspended.
package control

import "time"

// Clock returns the current time. Scenes pass a simulated clock so that
// headless runs stay deterministic.
type Clock func() time.Time

// Guard is a precondition for running an action.
type Guard func() bool

// Action is a cooldown-limited command.
type Action struct {
	interval  time.Duration
	fn        func()
	guards    []Guard
	clock     Clock
	started   bool
	last      time.Time
	suspended bool
}

// NewAction creates an action that runs fn at most once per interval.
func NewAction(interval time.Duration, fn func(), guards ...Guard) *Action {
	if fn == nil {
		fn = func() {}
	}
	return &Action{
		interval: interval,
		fn:       fn,
		guards:   guards,
		clock:    time.Now,
	}
}

// WithClock replaces the time source and returns the action.
func (a *Action) WithClock(c Clock) *Action {
	if c != nil {
		a.clock = c
	}
	return a
}

// Interval returns the minimum time between two runs.
func (a *Action) Interval() time.Duration {
	return a.interval
}

// Request runs the action if it is allowed to and reports whether it ran.
// The first allowed request always runs.
func (a *Action) Request() bool {
	if a.suspended {
		return false
	}
	for _, g := range a.guards {
		if !g() {
			return false
		}
	}

	now := a.clock()
	if a.started && now.Sub(a.last) < a.interval {
		return false
	}
	a.started = true
	a.last = now
	a.fn()
	return true
}

// Suspend blocks all requests until Resume.
func (a *Action) Suspend() {
	a.suspended = true
}

// Resume lifts a previous Suspend. The cooldown is not reset.
func (a *Action) Resume() {
	a.suspended = false
}

// Suspended reports whether the action is suspended.
func (a *Action) Suspended() bool {
	return a.suspended
}
