// Package registry provides a global registry for scene factories.
// Scenes register themselves in init() functions, allowing the CLI and the
// viewer to discover and instantiate them without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/goblin-physics/internal/core"
	"github.com/vovakirdan/goblin-physics/internal/level"
	"github.com/vovakirdan/goblin-physics/internal/logging"
	"github.com/vovakirdan/goblin-physics/internal/physics"
)

// Env carries everything a scene needs to build its world.
type Env struct {
	Physics        physics.Options
	PixelsPerMeter float64
	// Rooms is where room-based scenes look up their level. Nil means the
	// built-in rooms.
	Rooms *level.Loader
	// Room overrides the scene's default room ID when set.
	Room string
}

// DefaultEnv returns an environment with default physics and built-in rooms.
func DefaultEnv() Env {
	return Env{
		Physics:        physics.DefaultOptions(),
		PixelsPerMeter: physics.PixelsPerMeter,
	}
}

// Logger returns the configured logger or a discarding one.
func (e Env) Logger() *log.Logger {
	if e.Physics.Logger == nil {
		return logging.Discard()
	}
	return e.Physics.Logger
}

// Loader returns the room loader, falling back to the built-in rooms.
func (e Env) Loader() *level.Loader {
	if e.Rooms == nil {
		return level.Builtin()
	}
	return e.Rooms
}

// Frame is the outcome of one rendered frame.
type Frame struct {
	Steps int           // fixed physics steps run this frame
	Fired []core.Action // control actions that passed their cooldown
}

// Scene drives a physics world from player input. Scenes contain no
// terminal code; the viewer handles input mapping, timing and rendering.
type Scene interface {
	// ID returns a unique identifier used by the CLI and the runs table.
	ID() string

	// Title returns a human-readable name.
	Title() string

	// Reset builds a fresh world. It is called once before the first frame
	// and again on restart.
	Reset(env Env) error

	// Frame applies input and advances the world by frameDelta seconds.
	Frame(in core.InputFrame, frameDelta float64) Frame

	// World returns the scene's world. Valid after Reset.
	World() *physics.World

	// HUD returns scene-specific status lines.
	HUD() []string

	// Fingerprint identifies the room content, empty when the scene has
	// no room file.
	Fingerprint() string
}

// SceneInfo contains metadata about a registered scene.
type SceneInfo struct {
	ID    string
	Title string
}

// Factory is a function that creates a new instance of a scene.
type Factory func() Scene

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a scene factory to the registry.
// Panics if a scene with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: scene %q already registered", id))
	}

	factories[id] = f
	titles[id] = f().Title()
}

// List returns information about all registered scenes, sorted by ID.
func List() []SceneInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]SceneInfo, 0, len(factories))
	for id := range factories {
		result = append(result, SceneInfo{ID: id, Title: titles[id]})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a new scene by its ID.
func Create(id string) (Scene, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown scene %q", id)
	}

	return f(), nil
}

// Exists checks if a scene with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
