// Package physics owns per-entity physics state and advances it in fixed
// steps: kinematic integration followed by narrow-phase contact detection.
package physics

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/goblin-physics/internal/core"
	"github.com/vovakirdan/goblin-physics/internal/logging"
	"github.com/vovakirdan/goblin-physics/internal/shape"
)

const (
	// PixelsPerMeter converts authored level coordinates to meters.
	PixelsPerMeter = 32.0
	// MetersPerPixel is the inverse of PixelsPerMeter.
	MetersPerPixel = 1.0 / PixelsPerMeter

	DefaultRefreshRate    = 60.0 // Hz
	DefaultFootHalfHeight = 0.05 // meters
)

// Gravity is the downward acceleration controllers apply to walking bodies, in m/s^2.
var Gravity = core.V(0, -15)

// ErrNotDynamic is returned by operations that only apply to dynamic items.
var ErrNotDynamic = errors.New("physics: item is not dynamic")

// EntityID identifies an item in a World. IDs start at 1 and grow with
// every Add, so sorting by ID gives insertion order.
type EntityID uint64

// Options configures a World. Zero fields take defaults.
type Options struct {
	RefreshRate    float64 // fixed steps per second
	FootHalfHeight float64 // half height of the ground sensor box
	Logger         *log.Logger
}

// DefaultOptions returns the default world options.
func DefaultOptions() Options {
	return Options{
		RefreshRate:    DefaultRefreshRate,
		FootHalfHeight: DefaultFootHalfHeight,
	}
}

// Contact records a dynamic item overlapping a static or kinematic one
// during the last step.
type Contact struct {
	Dynamic   EntityID
	Other     EntityID
	OtherKind Kind
}

// Transform is what renderers need to place a sprite.
// Bodies have fixed rotation, so Rotation is always 0.
type Transform struct {
	Position core.Vec2
	Rotation float64
}

// Renderable is one item's world outline for debug wireframes.
type Renderable struct {
	ID       EntityID
	Kind     Kind
	Vertices []float64
}

// Stats are cumulative counters since the world was created.
type Stats struct {
	Steps             int
	SimulatedTime     float64 // seconds
	PairChecks        int
	BroadPhaseRejects int
	Contacts          int
	Errors            int
	Profile           map[string]time.Duration
}

// World holds every physics item of a scene. It is not safe for
// concurrent use; drive it from one loop.
type World struct {
	opts     Options
	logger   *log.Logger
	acc      *Accumulator
	profiler *Profiler

	items  map[EntityID]Item
	order  []EntityID
	nextID EntityID

	statics      *QuadTree
	staticsDirty bool

	contacts []Contact
	stats    Stats
	scratch  []EntityID
	hooks    []StepHook
}

// StepHook runs once per fixed step, after kinematic integration and
// before detection. Controllers use it to move dynamic items.
type StepHook func(dt float64)

// NewWorld creates an empty world.
func NewWorld(opts Options) (*World, error) {
	if opts.RefreshRate == 0 {
		opts.RefreshRate = DefaultRefreshRate
	}
	if opts.FootHalfHeight <= 0 {
		opts.FootHalfHeight = DefaultFootHalfHeight
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}

	w := &World{
		opts:     opts,
		logger:   opts.Logger,
		profiler: NewProfiler(),
		items:    make(map[EntityID]Item),
	}
	acc, err := NewAccumulator(1, w.Step)
	if err != nil {
		return nil, err
	}
	if err := acc.SetRate(opts.RefreshRate); err != nil {
		return nil, err
	}
	w.acc = acc
	return w, nil
}

// Logger returns the world's logger.
func (w *World) Logger() *log.Logger {
	return w.logger
}

// Add inserts item and returns its new ID.
func (w *World) Add(item Item) EntityID {
	w.nextID++
	id := w.nextID
	w.items[id] = item
	w.order = append(w.order, id)
	if item.Kind() == KindStatic {
		w.staticsDirty = true
	}
	w.logger.Debug("item added", "id", id, "kind", item.Kind(), "position", item.Shape().Position())
	return id
}

// Remove deletes the item with the given ID.
func (w *World) Remove(id EntityID) error {
	item, ok := w.items[id]
	if !ok {
		return fmt.Errorf("physics: remove %d: %w", id, ErrUnknownEntity)
	}
	delete(w.items, id)
	for i, o := range w.order {
		if o == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	if item.Kind() == KindStatic {
		w.staticsDirty = true
	}
	w.logger.Debug("item removed", "id", id, "kind", item.Kind())
	return nil
}

// Item returns the item with the given ID.
func (w *World) Item(id EntityID) (Item, bool) {
	item, ok := w.items[id]
	return item, ok
}

// Entities returns all IDs in insertion order.
func (w *World) Entities() []EntityID {
	out := make([]EntityID, len(w.order))
	copy(out, w.order)
	return out
}

// Len returns the number of items.
func (w *World) Len() int {
	return len(w.order)
}

// OnStep registers a hook run by every fixed step in registration order.
func (w *World) OnStep(h StepHook) {
	w.hooks = append(w.hooks, h)
}

// Update feeds a frame's elapsed seconds to the fixed-step accumulator and
// returns how many steps ran. Negative, NaN and infinite deltas run nothing.
func (w *World) Update(frameDelta float64) int {
	if !ValidDelta(frameDelta) {
		w.logger.Warn("frame delta ignored", "delta", frameDelta)
		return 0
	}
	return w.acc.Tick(frameDelta)
}

// RefreshRate returns the fixed steps per second.
func (w *World) RefreshRate() float64 {
	return 1 / w.acc.Interval()
}

// SetRefreshRate changes the fixed step rate. Time already accumulated is kept.
func (w *World) SetRefreshRate(hz float64) error {
	if err := w.acc.SetRate(hz); err != nil {
		return err
	}
	w.logger.Info("physics refresh rate changed", "hz", hz)
	return nil
}

// Step advances the world by one fixed step of dt seconds.
func (w *World) Step(dt float64) {
	stop := w.profiler.Track("integrate")
	for _, id := range w.order {
		switch item := w.items[id].(type) {
		case *StaticItem:
		case *KinematicItem:
			p := item.shape
			p.SetPosition(p.Position().Add(item.Velocity.Scale(dt)))
		case *DynamicItem:
			// Dynamic bodies are moved by controllers through TryMove.
		}
	}
	stop()

	if len(w.hooks) > 0 {
		stop = w.profiler.Track("control")
		for _, h := range w.hooks {
			h(dt)
		}
		stop()
	}

	stop = w.profiler.Track("detect")
	w.detect()
	stop()

	w.stats.Steps++
	w.stats.SimulatedTime += dt
}

func (w *World) detect() {
	w.contacts = w.contacts[:0]
	for _, id := range w.order {
		dyn, ok := w.items[id].(*DynamicItem)
		if !ok {
			continue
		}
		for _, other := range w.candidates(BoundsOf(dyn.shape), id) {
			w.stats.PairChecks++
			o := w.items[other]
			if !dyn.shape.CircleIntersects(o.Shape()) {
				w.stats.BroadPhaseRejects++
				continue
			}
			hit, err := shape.Intersects(dyn.shape, o.Shape())
			if err != nil {
				w.stats.Errors++
				w.logger.Warn("narrow phase failed", "dynamic", id, "other", other, "error", err)
				continue
			}
			if hit {
				w.contacts = append(w.contacts, Contact{Dynamic: id, Other: other, OtherKind: o.Kind()})
			}
		}
	}
	w.stats.Contacts += len(w.contacts)
}

// candidates returns static items near box and every kinematic item other
// than self, ordered by ID.
func (w *World) candidates(box AABB, self EntityID) []EntityID {
	w.rebuildStatics()
	out := w.scratch[:0]
	if w.statics != nil {
		out = w.statics.Query(box, out)
	}
	for _, id := range w.order {
		if id != self && w.items[id].Kind() == KindKinematic {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	w.scratch = out
	return out
}

func (w *World) rebuildStatics() {
	if !w.staticsDirty {
		return
	}
	w.staticsDirty = false
	w.statics = nil

	var (
		bounds AABB
		seen   bool
	)
	for _, id := range w.order {
		if item := w.items[id]; item.Kind() == KindStatic {
			b := BoundsOf(item.Shape())
			if !seen {
				bounds, seen = b, true
			} else {
				bounds = bounds.Union(b)
			}
		}
	}
	if !seen {
		return
	}

	w.statics = NewQuadTree(bounds, DefaultQuadMaxItems, DefaultQuadMaxDepth)
	for _, id := range w.order {
		if item := w.items[id]; item.Kind() == KindStatic {
			w.statics.Insert(id, BoundsOf(item.Shape()))
		}
	}
	w.logger.Debug("static index rebuilt", "items", w.statics.Len(), "depth", w.statics.Depth())
}

// Contacts returns the contacts found by the last step.
func (w *World) Contacts() []Contact {
	out := make([]Contact, len(w.contacts))
	copy(out, w.contacts)
	return out
}

// Transform returns the item's position and rotation.
func (w *World) Transform(id EntityID) (Transform, error) {
	item, ok := w.items[id]
	if !ok {
		return Transform{}, fmt.Errorf("physics: transform %d: %w", id, ErrUnknownEntity)
	}
	return Transform{Position: item.Shape().Position()}, nil
}

// Renderables returns every item's world outline in insertion order.
func (w *World) Renderables() []Renderable {
	out := make([]Renderable, 0, len(w.order))
	for _, id := range w.order {
		item := w.items[id]
		out = append(out, Renderable{
			ID:       id,
			Kind:     item.Kind(),
			Vertices: item.Shape().WorldFloatVertices(),
		})
	}
	return out
}

// OnGround reports whether a thin sensor box along the bottom of the item
// overlaps any static or kinematic item.
func (w *World) OnGround(id EntityID) (bool, error) {
	item, ok := w.items[id]
	if !ok {
		return false, fmt.Errorf("physics: on ground %d: %w", id, ErrUnknownEntity)
	}
	if item.Kind() == KindStatic {
		return false, nil
	}

	box := BoundsOf(item.Shape())
	foot, err := NewRectangle(
		core.V((box.Min.X+box.Max.X)/2, box.Min.Y),
		(box.Max.X-box.Min.X)/2,
		w.opts.FootHalfHeight,
	).Polygon()
	if err != nil {
		return false, fmt.Errorf("physics: on ground %d: %w", id, err)
	}

	for _, other := range w.candidates(BoundsOf(foot), id) {
		if foot.CircleIntersects(w.items[other].Shape()) && foot.IsCollidingWith(w.items[other].Shape()) {
			return true, nil
		}
	}
	return false, nil
}

// TryMove shifts a dynamic item by delta unless the destination overlaps a
// static or kinematic item. It reports whether the move happened.
func (w *World) TryMove(id EntityID, delta core.Vec2) (bool, error) {
	item, ok := w.items[id]
	if !ok {
		return false, fmt.Errorf("physics: move %d: %w", id, ErrUnknownEntity)
	}
	dyn, ok := item.(*DynamicItem)
	if !ok {
		return false, fmt.Errorf("physics: move %d (%s): %w", id, item.Kind(), ErrNotDynamic)
	}

	p := dyn.shape
	from := p.Position()
	p.SetPosition(from.Add(delta))
	for _, other := range w.candidates(BoundsOf(p), id) {
		o := w.items[other].Shape()
		if p.CircleIntersects(o) && p.IsCollidingWith(o) {
			p.SetPosition(from)
			return false, nil
		}
	}
	return true, nil
}

// Stats returns the cumulative counters and profiler totals.
func (w *World) Stats() Stats {
	s := w.stats
	s.Profile = w.profiler.Times()
	return s
}
