// Package sim runs scenes headless with real-looking frame timing and
// turns the outcome into run records.
package sim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/vovakirdan/goblin-physics/internal/core"
	"github.com/vovakirdan/goblin-physics/internal/physics"
	"github.com/vovakirdan/goblin-physics/internal/registry"
	"github.com/vovakirdan/goblin-physics/internal/storage"
)

// ErrInvalidOptions is returned for unusable run options.
var ErrInvalidOptions = errors.New("sim: invalid options")

// cancelCheckEvery is how many frames run between context checks.
const cancelCheckEvery = 60

// Options control a headless run.
type Options struct {
	Seconds   float64       // wall time to emulate
	FrameRate float64       // render frames per second feeding the accumulator
	Jitter    float64       // each frame lasts 1/FrameRate * (1 ± Jitter)
	Seed      int64         // jitter source
	Hold      []core.Action // actions held on every frame
}

// DefaultOptions runs ten seconds at 60 frames per second with 25% jitter.
func DefaultOptions() Options {
	return Options{
		Seconds:   10,
		FrameRate: 60,
		Jitter:    0.25,
		Seed:      1,
	}
}

// Validate checks the options.
func (o Options) Validate() error {
	switch {
	case o.Seconds <= 0 || math.IsNaN(o.Seconds) || math.IsInf(o.Seconds, 0):
		return fmt.Errorf("%w: seconds must be positive, got %g", ErrInvalidOptions, o.Seconds)
	case o.FrameRate <= 0 || math.IsNaN(o.FrameRate) || math.IsInf(o.FrameRate, 0):
		return fmt.Errorf("%w: frame rate must be positive, got %g", ErrInvalidOptions, o.FrameRate)
	case o.Jitter < 0 || o.Jitter >= 1:
		return fmt.Errorf("%w: jitter must be in [0, 1), got %g", ErrInvalidOptions, o.Jitter)
	}
	return nil
}

// Frames returns how many frames the run renders.
func (o Options) Frames() int {
	return int(math.Ceil(o.Seconds*o.FrameRate - 1e-9))
}

// Result summarizes a headless run.
type Result struct {
	SceneID     string
	Fingerprint string
	Frames      int
	Steps       int
	FrameTime   float64 // emulated seconds fed to the world
	RefreshRate float64
	Stats       physics.Stats
	Wall        time.Duration
}

// Run drives an already reset scene for opts.Seconds of emulated frames.
func Run(ctx context.Context, scene registry.Scene, opts Options) (Result, error) {
	if err := opts.Validate(); err != nil {
		return Result{}, err
	}
	w := scene.World()
	if w == nil {
		return Result{}, fmt.Errorf("sim: scene %s has no world; call Reset first", scene.ID())
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	in := core.NewInputFrame()
	for _, a := range opts.Hold {
		in.Set(a)
	}

	res := Result{
		SceneID:     scene.ID(),
		Fingerprint: scene.Fingerprint(),
		RefreshRate: w.RefreshRate(),
	}
	base := 1 / opts.FrameRate
	start := time.Now()
	frames := opts.Frames()

	for i := 0; i < frames; i++ {
		if i%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return res, fmt.Errorf("sim: run %s: %w", scene.ID(), err)
			}
		}
		delta := base
		if opts.Jitter > 0 {
			delta *= 1 + opts.Jitter*(2*rng.Float64()-1)
		}
		f := scene.Frame(in, delta)
		res.Frames++
		res.Steps += f.Steps
		res.FrameTime += delta
	}

	res.Wall = time.Since(start)
	res.Stats = w.Stats()
	w.Logger().Info("run finished",
		"scene", res.SceneID, "frames", res.Frames, "steps", res.Steps,
		"contacts", res.Stats.Contacts, "wall", res.Wall)
	return res, nil
}

// Record converts the result into a storage row.
func (r Result) Record() storage.Run {
	return storage.Run{
		SceneID:          r.SceneID,
		Fingerprint:      r.Fingerprint,
		RefreshRate:      r.RefreshRate,
		Steps:            int64(r.Stats.Steps),
		Contacts:         int64(r.Stats.Contacts),
		PairChecks:       int64(r.Stats.PairChecks),
		SimulatedSeconds: r.Stats.SimulatedTime,
		WallMillis:       r.Wall.Milliseconds(),
		Profile:          r.Stats.Profile,
	}
}

// Snapshot builds a result from a scene driven elsewhere, such as the
// viewer.
func Snapshot(scene registry.Scene, wall time.Duration) Result {
	w := scene.World()
	st := w.Stats()
	return Result{
		SceneID:     scene.ID(),
		Fingerprint: scene.Fingerprint(),
		Steps:       st.Steps,
		RefreshRate: w.RefreshRate(),
		Stats:       st,
		Wall:        wall,
	}
}
