package physics

import (
	"fmt"

	"github.com/vovakirdan/goblin-physics/internal/core"
	"github.com/vovakirdan/goblin-physics/internal/shape"
)

// Kind identifies the variant of an Item.
type Kind int

const (
	KindStatic    Kind = iota // Immovable terrain
	KindKinematic             // Moves by velocity, never collides
	KindDynamic               // Collides with static and kinematic items
)

func (k Kind) String() string {
	switch k {
	case KindStatic:
		return "static"
	case KindKinematic:
		return "kinematic"
	case KindDynamic:
		return "dynamic"
	default:
		return "unknown"
	}
}

// Item is the physics state of one entity. It is one of *StaticItem,
// *KinematicItem or *DynamicItem; each owns exactly one polygon.
type Item interface {
	Kind() Kind
	Shape() *shape.Polygon
	isItem()
}

// StaticItem is terrain built from a platform outline.
type StaticItem struct {
	Platform Platform
	shape    *shape.Polygon
}

// NewStaticItem wraps poly as terrain. The platform chain follows the
// polygon's world outline and closes back on its first vertex.
func NewStaticItem(poly *shape.Polygon) *StaticItem {
	outline := poly.WorldVertices()
	outline = append(outline, outline[0])
	return &StaticItem{Platform: NewPlatform(outline), shape: poly}
}

func (s *StaticItem) Kind() Kind            { return KindStatic }
func (s *StaticItem) Shape() *shape.Polygon { return s.shape }
func (s *StaticItem) isItem()               {}

// KinematicItem is a moving platform or similar. It follows its velocity
// and ignores contacts.
type KinematicItem struct {
	Velocity core.Vec2
	shape    *shape.Polygon
}

// NewKinematicItem creates a kinematic item moving at velocity m/s.
func NewKinematicItem(bounds *shape.Polygon, velocity core.Vec2) *KinematicItem {
	return &KinematicItem{Velocity: velocity, shape: bounds}
}

func (k *KinematicItem) Kind() Kind            { return KindKinematic }
func (k *KinematicItem) Shape() *shape.Polygon { return k.shape }
func (k *KinematicItem) isItem()               {}

// DynamicItem is a player, enemy or other body that is tested for contact
// against static and kinematic items. Dynamic items never collide with
// each other.
type DynamicItem struct {
	Velocity core.Vec2
	shape    *shape.Polygon
}

// NewDynamicItem creates a dynamic item.
func NewDynamicItem(bounds *shape.Polygon, velocity core.Vec2) *DynamicItem {
	return &DynamicItem{Velocity: velocity, shape: bounds}
}

func (d *DynamicItem) Kind() Kind            { return KindDynamic }
func (d *DynamicItem) Shape() *shape.Polygon { return d.shape }
func (d *DynamicItem) isItem()               {}

// BodyConfig describes an item to build with NewItem.
type BodyConfig struct {
	Kind     Kind
	Position core.Vec2 // world anchor in meters
	// Vertices is the body-space outline. When empty, a box of
	// HalfWidth x HalfHeight is used.
	Vertices   []core.Vec2
	HalfWidth  float64
	HalfHeight float64
	Velocity   core.Vec2 // ignored for static items
}

// DefaultBodyConfig returns a 1x1 meter dynamic box at the origin.
func DefaultBodyConfig() BodyConfig {
	return BodyConfig{
		Kind:       KindDynamic,
		HalfWidth:  0.5,
		HalfHeight: 0.5,
	}
}

// NewItem builds an item from cfg.
func NewItem(cfg BodyConfig) (Item, error) {
	var (
		poly *shape.Polygon
		err  error
	)
	if len(cfg.Vertices) > 0 {
		poly, err = shape.NewPolygon(cfg.Position, cfg.Vertices)
	} else {
		poly, err = NewRectangle(cfg.Position, cfg.HalfWidth, cfg.HalfHeight).Polygon()
	}
	if err != nil {
		return nil, fmt.Errorf("physics: build %s item: %w", cfg.Kind, err)
	}

	switch cfg.Kind {
	case KindStatic:
		return NewStaticItem(poly), nil
	case KindKinematic:
		return NewKinematicItem(poly, cfg.Velocity), nil
	case KindDynamic:
		return NewDynamicItem(poly, cfg.Velocity), nil
	default:
		return nil, fmt.Errorf("physics: build item: unknown kind %d", cfg.Kind)
	}
}
