// Package sandbox is a walkable room: a player box under gravity, terrain
// from a room file and patrolling platforms.
package sandbox

import (
	"fmt"
	"math"

	"github.com/vovakirdan/goblin-physics/internal/control"
	"github.com/vovakirdan/goblin-physics/internal/core"
	"github.com/vovakirdan/goblin-physics/internal/level"
	"github.com/vovakirdan/goblin-physics/internal/physics"
	"github.com/vovakirdan/goblin-physics/internal/registry"
)

// ID is the registry key.
const ID = "sandbox"

// DefaultRoom is loaded unless the environment names another room.
const DefaultRoom = "cave"

// Movement tuning.
const (
	WalkSpeed     = 4.0 // m/s
	MaxClimb      = 1.0 // rise per unit of run the walker can step up
	PlayerHalf    = 0.5
	maxBisections = 6
	walkInterval  = 0
)

func init() {
	registry.Register(ID, func() registry.Scene { return New() })
}

// Scene implements registry.Scene.
type Scene struct {
	world  *physics.World
	room   level.Level
	built  level.Built
	player physics.EntityID

	ctrl  *control.Controller
	clock *control.SimClock

	walk     float64 // -1, 0 or +1 for the current frame
	vy       float64 // vertical speed, m/s
	grounded bool
}

// New creates an unbuilt sandbox. Call Reset before the first frame.
func New() *Scene {
	return &Scene{}
}

func (s *Scene) ID() string    { return ID }
func (s *Scene) Title() string { return "Sandbox Room" }

// Reset loads the room and places the player at its spawn point.
func (s *Scene) Reset(env registry.Env) error {
	roomID := env.Room
	if roomID == "" {
		roomID = DefaultRoom
	}
	room, err := env.Loader().LoadByID(roomID)
	if err != nil {
		return fmt.Errorf("sandbox: %w", err)
	}

	w, err := physics.NewWorld(env.Physics)
	if err != nil {
		return fmt.Errorf("sandbox: %w", err)
	}
	built, err := room.Build(w, env.PixelsPerMeter)
	if err != nil {
		return fmt.Errorf("sandbox: %w", err)
	}

	cfg := physics.DefaultBodyConfig()
	cfg.Position = built.Spawn
	cfg.HalfWidth, cfg.HalfHeight = PlayerHalf, PlayerHalf
	item, err := physics.NewItem(cfg)
	if err != nil {
		return fmt.Errorf("sandbox: %w", err)
	}

	*s = Scene{
		world:  w,
		room:   room,
		built:  built,
		player: w.Add(item),
		clock:  control.NewSimClock(),
	}
	s.ctrl = s.controller()
	w.OnStep(s.step)

	w.Logger().Info("scene ready", "scene", ID, "room", room.ID, "fingerprint", room.Fingerprint(), "spawn", built.Spawn)
	return nil
}

func (s *Scene) controller() *control.Controller {
	c := control.NewController()
	c.Left = control.NewAction(walkInterval, func() { s.walk = -1 }).WithClock(s.clock.Now)
	c.Right = control.NewAction(walkInterval, func() { s.walk = +1 }).WithClock(s.clock.Now)
	c.Jump = control.NewAction(control.DefaultJumpDelay, func() {
		s.vy = control.DefaultJumpSpeed
		s.grounded = false
	}, func() bool { return s.grounded }).WithClock(s.clock.Now)
	return c
}

// Frame applies input for this frame and advances the world.
func (s *Scene) Frame(in core.InputFrame, frameDelta float64) registry.Frame {
	s.clock.AdvanceSeconds(frameDelta)
	s.walk = 0
	fired := s.ctrl.Apply(in)
	steps := s.world.Update(frameDelta)
	return registry.Frame{Steps: steps, Fired: fired}
}

// step runs inside every fixed physics step.
func (s *Scene) step(dt float64) {
	for i := range s.built.Movers {
		s.built.Movers[i].Patrol()
	}

	if s.walk != 0 {
		dx := s.walk * WalkSpeed * dt
		if !s.move(core.V(dx, 0)) {
			// Try stepping up a slope before giving up.
			s.move(core.V(dx, math.Abs(dx)*MaxClimb+1e-6))
		}
	}

	grounded, err := s.world.OnGround(s.player)
	if err != nil {
		s.world.Logger().Warn("ground check failed", "error", err)
	}
	s.grounded = grounded

	if s.grounded && s.vy <= 0 {
		s.vy = 0
		return
	}
	s.vy += physics.Gravity.Y * dt
	if !s.settle(core.V(0, s.vy*dt)) {
		s.vy = 0
	}
}

// move is TryMove with the error logged.
func (s *Scene) move(delta core.Vec2) bool {
	ok, err := s.world.TryMove(s.player, delta)
	if err != nil {
		s.world.Logger().Warn("move failed", "error", err)
		return false
	}
	return ok
}

// settle moves by delta, or by the largest halving of delta that fits. It
// reports whether the full delta was applied.
func (s *Scene) settle(delta core.Vec2) bool {
	if s.move(delta) {
		return true
	}
	for i := 0; i < maxBisections; i++ {
		delta = delta.Scale(0.5)
		s.move(delta)
	}
	return false
}

// World returns the scene's world.
func (s *Scene) World() *physics.World { return s.world }

// Player returns the player's entity ID.
func (s *Scene) Player() physics.EntityID { return s.player }

// Grounded reports the foot sensor state from the last step.
func (s *Scene) Grounded() bool { return s.grounded }

// Fingerprint returns the loaded room's content hash.
func (s *Scene) Fingerprint() string { return s.room.Fingerprint() }

// HUD returns the player state.
func (s *Scene) HUD() []string {
	tr, err := s.world.Transform(s.player)
	if err != nil {
		return []string{err.Error()}
	}
	ground := "no"
	if s.grounded {
		ground = "yes"
	}
	return []string{
		fmt.Sprintf("room %s (%s)", s.room.Name, s.room.ID),
		fmt.Sprintf("pos %.2f, %.2f  vy %.2f", tr.Position.X, tr.Position.Y, s.vy),
		fmt.Sprintf("on ground: %s", ground),
	}
}
