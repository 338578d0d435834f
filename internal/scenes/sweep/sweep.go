// Package sweep drives a triangle back and forth through a fixed pentagon
// and a rising diamond so that every phase of the narrow phase is hit:
// separated, overlapping and touching. It also checks each step that the
// Minkowski difference agrees with GJK.
package sweep

import (
	"fmt"
	"math"
	"time"

	"github.com/vovakirdan/goblin-physics/internal/control"
	"github.com/vovakirdan/goblin-physics/internal/core"
	"github.com/vovakirdan/goblin-physics/internal/physics"
	"github.com/vovakirdan/goblin-physics/internal/registry"
	"github.com/vovakirdan/goblin-physics/internal/shape"
)

// ID is the registry key.
const ID = "gjk"

const (
	// Reach is how far from the origin the triangle travels before turning.
	Reach = 4.0
	// Speed is the triangle's horizontal speed in m/s.
	Speed = 2.0
	// Nudge is the vertical offset applied by one up/down press.
	Nudge = 0.25

	nudgeInterval = 100 * time.Millisecond
)

func init() {
	registry.Register(ID, func() registry.Scene { return New() })
}

// Scene implements registry.Scene.
type Scene struct {
	world    *physics.World
	probe    physics.EntityID
	target   physics.EntityID
	diamond  physics.EntityID
	ctrl     *control.Controller
	clock    *control.SimClock
	dir      float64
	hits     int
	disagree int
}

// New creates an unbuilt scene.
func New() *Scene {
	return &Scene{}
}

func (s *Scene) ID() string    { return ID }
func (s *Scene) Title() string { return "GJK Sweep" }

// Reset places the shapes.
func (s *Scene) Reset(env registry.Env) error {
	w, err := physics.NewWorld(env.Physics)
	if err != nil {
		return fmt.Errorf("sweep: %w", err)
	}

	pentagon := make([]core.Vec2, 5)
	for i := range pentagon {
		a := math.Pi/2 + float64(i)*2*math.Pi/5
		pentagon[i] = core.V(math.Cos(a), math.Sin(a)).Scale(1.5)
	}

	items := []physics.BodyConfig{
		{Kind: physics.KindStatic, Position: core.V(0, 0), Vertices: pentagon},
		{Kind: physics.KindDynamic, Position: core.V(-Reach, 0.25), Vertices: []core.Vec2{
			core.V(0.6, 0), core.V(-0.4, 0.5), core.V(-0.4, -0.5),
		}},
		{Kind: physics.KindKinematic, Position: core.V(2.5, -3), Velocity: core.V(0, 0.75), Vertices: []core.Vec2{
			core.V(0.5, 0), core.V(0, 0.5), core.V(-0.5, 0), core.V(0, -0.5),
		}},
	}
	ids := make([]physics.EntityID, len(items))
	for i, cfg := range items {
		item, err := physics.NewItem(cfg)
		if err != nil {
			return fmt.Errorf("sweep: %w", err)
		}
		ids[i] = w.Add(item)
	}

	*s = Scene{
		world:   w,
		target:  ids[0],
		probe:   ids[1],
		diamond: ids[2],
		clock:   control.NewSimClock(),
		dir:     1,
	}

	s.ctrl = control.NewController()
	s.ctrl.Left = control.NewAction(0, func() { s.dir = -1 }).WithClock(s.clock.Now)
	s.ctrl.Right = control.NewAction(0, func() { s.dir = 1 }).WithClock(s.clock.Now)
	s.ctrl.Up = control.NewAction(nudgeInterval, func() { s.nudge(Nudge) }).WithClock(s.clock.Now)
	s.ctrl.Down = control.NewAction(nudgeInterval, func() { s.nudge(-Nudge) }).WithClock(s.clock.Now)

	w.OnStep(s.step)
	w.Logger().Info("scene ready", "scene", ID, "items", w.Len())
	return nil
}

func (s *Scene) shape(id physics.EntityID) *shape.Polygon {
	item, _ := s.world.Item(id)
	return item.Shape()
}

func (s *Scene) nudge(dy float64) {
	p := s.shape(s.probe)
	p.SetPosition(p.Position().Add(core.V(0, dy)))
}

// Frame applies input and advances the world.
func (s *Scene) Frame(in core.InputFrame, frameDelta float64) registry.Frame {
	s.clock.AdvanceSeconds(frameDelta)
	fired := s.ctrl.Apply(in)
	return registry.Frame{Steps: s.world.Update(frameDelta), Fired: fired}
}

func (s *Scene) step(dt float64) {
	p := s.shape(s.probe)
	pos := p.Position()
	pos.X += s.dir * Speed * dt
	switch {
	case pos.X >= Reach:
		pos.X, s.dir = Reach, -1
	case pos.X <= -Reach:
		pos.X, s.dir = -Reach, 1
	}
	p.SetPosition(pos)

	d := s.shape(s.diamond)
	if k, ok := s.itemKinematic(s.diamond); ok && math.Abs(d.Position().Y) >= 3 && d.Position().Y*k.Velocity.Y > 0 {
		k.Velocity = k.Velocity.Neg()
	}

	s.crossCheck()
}

func (s *Scene) itemKinematic(id physics.EntityID) (*physics.KinematicItem, bool) {
	item, ok := s.world.Item(id)
	if !ok {
		return nil, false
	}
	k, ok := item.(*physics.KinematicItem)
	return k, ok
}

// crossCheck compares GJK against point containment in the Minkowski
// difference. Steps where the origin lies on an edge line are skipped.
func (s *Scene) crossCheck() {
	a, b := s.shape(s.probe), s.shape(s.target)
	hit, err := shape.Intersects(a, b)
	if err != nil {
		s.world.Logger().Warn("gjk failed", "error", err)
		return
	}
	if hit {
		s.hits++
	}

	diff, err := a.Sub(b)
	if err != nil {
		s.world.Logger().Warn("minkowski difference failed", "error", err)
		return
	}
	if onBoundary(diff) {
		return
	}
	if diff.Contains(core.Zero) != hit {
		s.disagree++
		s.world.Logger().Warn("gjk and minkowski disagree", "probe", a.Position(), "gjk", hit)
	}
}

func onBoundary(p *shape.Polygon) bool {
	for _, e := range p.WorldEdges() {
		if math.Abs(e.Vector().Cross(core.Zero.Sub(e.Start))) < 1e-9*e.Vector().Norm() {
			return true
		}
	}
	return false
}

// World returns the scene's world.
func (s *Scene) World() *physics.World { return s.world }

// Fingerprint is empty: the shapes are built in code.
func (s *Scene) Fingerprint() string { return "" }

// Hits returns how many steps found the probe overlapping the pentagon.
func (s *Scene) Hits() int { return s.hits }

// Disagreements returns how many steps GJK and the Minkowski difference
// gave different answers.
func (s *Scene) Disagreements() int { return s.disagree }

// HUD returns the sweep counters.
func (s *Scene) HUD() []string {
	pos := s.shape(s.probe).Position()
	return []string{
		fmt.Sprintf("probe %.2f, %.2f  dir %+.0f", pos.X, pos.Y, s.dir),
		fmt.Sprintf("overlap steps %d  disagreements %d", s.hits, s.disagree),
	}
}
