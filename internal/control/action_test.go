package control

import (
	"testing"
	"time"

	"github.com/vovakirdan/goblin-physics/internal/core"
)

func TestActionCooldown(t *testing.T) {
	clock := NewSimClock()
	runs := 0
	a := NewAction(100*time.Millisecond, func() { runs++ }).WithClock(clock.Now)

	steps := []struct {
		advance  time.Duration
		expected bool
	}{
		{0, true}, // first request always runs
		{50 * time.Millisecond, false},
		{40 * time.Millisecond, false},
		{10 * time.Millisecond, true}, // exactly the interval
		{200 * time.Millisecond, true},
		{0, false},
	}

	for i, s := range steps {
		clock.Advance(s.advance)
		if got := a.Request(); got != s.expected {
			t.Errorf("step %d: Request() = %v, expected %v", i, got, s.expected)
		}
	}
	if runs != 3 {
		t.Errorf("action ran %d times, expected 3", runs)
	}
}

func TestActionGuards(t *testing.T) {
	clock := NewSimClock()
	grounded := false
	runs := 0
	a := NewAction(0, func() { runs++ }, func() bool { return grounded }, func() bool { return true }).WithClock(clock.Now)

	if a.Request() {
		t.Error("Request() should fail while a guard is false")
	}
	grounded = true
	if !a.Request() {
		t.Error("Request() should run once guards hold")
	}
	if runs != 1 {
		t.Errorf("runs = %d, expected 1", runs)
	}
}

func TestActionSuspendResume(t *testing.T) {
	clock := NewSimClock()
	a := NewAction(time.Second, nil).WithClock(clock.Now)

	a.Suspend()
	if !a.Suspended() {
		t.Fatal("Suspended() should be true")
	}
	if a.Request() {
		t.Error("suspended action ran")
	}

	a.Resume()
	if a.Suspended() {
		t.Fatal("Suspended() should be false after Resume")
	}
	if !a.Request() {
		t.Error("resumed action should run")
	}

	// Resume does not reset the cooldown.
	a.Suspend()
	a.Resume()
	clock.Advance(500 * time.Millisecond)
	if a.Request() {
		t.Error("cooldown should survive suspend and resume")
	}
}

func TestControllerApply(t *testing.T) {
	clock := NewSimClock()
	var left, jump int
	c := NewController()
	c.Left = NewAction(0, func() { left++ }).WithClock(clock.Now)
	c.Jump = NewAction(DefaultJumpDelay, func() { jump++ }).WithClock(clock.Now)

	in := core.NewInputFrame()
	in.Set(core.ActionLeft)
	in.Set(core.ActionJump)
	in.Set(core.ActionUp) // unbound

	fired := c.Apply(in)
	if len(fired) != 2 || fired[0] != core.ActionLeft || fired[1] != core.ActionJump {
		t.Errorf("Apply() fired %v, expected [left jump]", fired)
	}

	clock.Advance(50 * time.Millisecond)
	fired = c.Apply(in)
	if len(fired) != 1 || fired[0] != core.ActionLeft {
		t.Errorf("Apply() fired %v during jump cooldown, expected [left]", fired)
	}

	c.SuspendAll()
	if fired := c.Apply(in); len(fired) != 0 {
		t.Errorf("Apply() fired %v while suspended", fired)
	}
	if NoOp.Suspended() {
		t.Error("SuspendAll must not touch NoOp")
	}
	c.ResumeAll()
	clock.Advance(100 * time.Millisecond)
	if fired := c.Apply(in); len(fired) != 2 {
		t.Errorf("Apply() fired %v after resume, expected 2 actions", fired)
	}

	if left != 3 || jump != 2 {
		t.Errorf("left=%d jump=%d, expected 3 and 2", left, jump)
	}
}
