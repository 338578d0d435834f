package level

import (
	"fmt"

	"github.com/vovakirdan/goblin-physics/internal/core"
	"github.com/vovakirdan/goblin-physics/internal/physics"
)

// MoverRef ties a mover item to its authored turn-around distance.
type MoverRef struct {
	ID     physics.EntityID
	Item   *physics.KinematicItem
	Origin core.Vec2
	Travel float64 // meters, zero for endless travel
	dir    core.Vec2
}

// Patrol reverses the mover once it has covered Travel away from its
// origin, and again when it is back at the origin. Call it after each step.
func (m *MoverRef) Patrol() {
	if m.Travel <= 0 || m.dir.IsZero() {
		return
	}
	along := m.Item.Shape().Position().Sub(m.Origin).Dot(m.dir)
	outbound := m.Item.Velocity.Dot(m.dir) > 0
	if (outbound && along >= m.Travel) || (!outbound && along <= 0) {
		m.Item.Velocity = m.Item.Velocity.Neg()
	}
}

// Built is the result of placing a room into a world.
type Built struct {
	Statics []physics.EntityID
	Movers  []MoverRef
	Spawn   core.Vec2 // meters
}

// Items converts every region and mover of the room into physics items
// without touching a world. It is the validation path used by the CLI.
func (l *Level) Items(pixelsPerMeter float64) ([]*physics.StaticItem, []*physics.KinematicItem, error) {
	statics := make([]*physics.StaticItem, 0, len(l.Rects)+len(l.Polygons))
	for i, r := range l.Rects {
		item, err := physics.StaticFromRect(r, pixelsPerMeter)
		if err != nil {
			return nil, nil, fmt.Errorf("level %s: rect %d: %w", l.ID, i, err)
		}
		statics = append(statics, item)
	}
	for i, p := range l.Polygons {
		item, err := physics.StaticFromPolygon(p, pixelsPerMeter)
		if err != nil {
			return nil, nil, fmt.Errorf("level %s: polygon %d: %w", l.ID, i, err)
		}
		statics = append(statics, item)
	}

	movers := make([]*physics.KinematicItem, 0, len(l.Movers))
	for i, m := range l.Movers {
		item, err := physics.KinematicFromRect(m.Rect, m.Velocity, pixelsPerMeter)
		if err != nil {
			return nil, nil, fmt.Errorf("level %s: mover %d: %w", l.ID, i, err)
		}
		movers = append(movers, item)
	}
	return statics, movers, nil
}

// Validate reports the first region that cannot become a physics item.
func (l *Level) Validate(pixelsPerMeter float64) error {
	_, _, err := l.Items(pixelsPerMeter)
	return err
}

// Build adds the room's terrain and movers to w. Nothing is added when any
// region is invalid.
func (l *Level) Build(w *physics.World, pixelsPerMeter float64) (Built, error) {
	statics, movers, err := l.Items(pixelsPerMeter)
	if err != nil {
		return Built{}, err
	}

	var b Built
	for _, s := range statics {
		b.Statics = append(b.Statics, w.Add(s))
	}
	for i, m := range movers {
		ref := MoverRef{
			ID:     w.Add(m),
			Item:   m,
			Origin: m.Shape().Position(),
			Travel: physics.ToMeters(core.V(l.Movers[i].Travel, 0), pixelsPerMeter).X,
		}
		if !m.Velocity.IsZero() {
			ref.dir = m.Velocity.Direction()
		}
		b.Movers = append(b.Movers, ref)
	}
	b.Spawn = physics.ToMeters(l.Spawn, pixelsPerMeter)

	w.Logger().Debug("room built", "id", l.ID, "statics", len(b.Statics), "movers", len(b.Movers))
	return b, nil
}
