package control

import (
	"time"

	"github.com/vovakirdan/goblin-physics/internal/core"
)

// Jump defaults.
const (
	DefaultJumpSpeed = 10.0 // m/s
	DefaultJumpDelay = 100 * time.Millisecond
)

// NoOp never does anything useful; unbound slots point at it.
var NoOp = NewAction(time.Second, nil)

// Controller maps input actions to rate-limited commands.
type Controller struct {
	Left  *Action
	Right *Action
	Up    *Action
	Down  *Action
	Jump  *Action
}

// NewController returns a controller with every slot unbound.
func NewController() *Controller {
	return &Controller{Left: NoOp, Right: NoOp, Up: NoOp, Down: NoOp, Jump: NoOp}
}

// Apply requests every action whose input is held and returns the ones
// that ran.
func (c *Controller) Apply(in core.InputFrame) []core.Action {
	var fired []core.Action
	slots := []struct {
		action core.Action
		slot   *Action
	}{
		{core.ActionLeft, c.Left},
		{core.ActionRight, c.Right},
		{core.ActionUp, c.Up},
		{core.ActionDown, c.Down},
		{core.ActionJump, c.Jump},
	}
	for _, s := range slots {
		if s.slot == nil || s.slot == NoOp || !in.Has(s.action) {
			continue
		}
		if s.slot.Request() {
			fired = append(fired, s.action)
		}
	}
	return fired
}

// SuspendAll suspends every bound action.
func (c *Controller) SuspendAll() {
	for _, a := range c.slots() {
		if a != NoOp {
			a.Suspend()
		}
	}
}

// ResumeAll resumes every bound action.
func (c *Controller) ResumeAll() {
	for _, a := range c.slots() {
		if a != NoOp {
			a.Resume()
		}
	}
}

func (c *Controller) slots() []*Action {
	out := make([]*Action, 0, 5)
	for _, a := range []*Action{c.Left, c.Right, c.Up, c.Down, c.Jump} {
		if a != nil {
			out = append(out, a)
		}
	}
	return out
}

// SimClock is a manually advanced clock.
type SimClock struct {
	now time.Time
}

// NewSimClock starts a clock at the Unix epoch.
func NewSimClock() *SimClock {
	return &SimClock{now: time.Unix(0, 0)}
}

// Advance moves the clock forward by d.
func (s *SimClock) Advance(d time.Duration) {
	s.now = s.now.Add(d)
}

// AdvanceSeconds moves the clock forward by a physics step length.
func (s *SimClock) AdvanceSeconds(seconds float64) {
	s.Advance(time.Duration(seconds * float64(time.Second)))
}

// Now returns the current simulated time.
func (s *SimClock) Now() time.Time {
	return s.now
}
