package registry

import (
	"testing"

	"github.com/vovakirdan/goblin-physics/internal/core"
	"github.com/vovakirdan/goblin-physics/internal/physics"
)

type stubScene struct {
	id    string
	world *physics.World
}

func (s *stubScene) ID() string    { return s.id }
func (s *stubScene) Title() string { return "Stub " + s.id }
func (s *stubScene) Reset(env Env) error {
	w, err := physics.NewWorld(env.Physics)
	s.world = w
	return err
}
func (s *stubScene) Frame(in core.InputFrame, frameDelta float64) Frame {
	return Frame{Steps: s.world.Update(frameDelta)}
}
func (s *stubScene) World() *physics.World { return s.world }
func (s *stubScene) HUD() []string         { return nil }
func (s *stubScene) Fingerprint() string   { return "" }

func TestRegistry(t *testing.T) {
	Register("zz-stub", func() Scene { return &stubScene{id: "zz-stub"} })
	Register("aa-stub", func() Scene { return &stubScene{id: "aa-stub"} })

	if !Exists("zz-stub") || Exists("missing") {
		t.Fatal("Exists() mismatch")
	}

	list := List()
	first, last := -1, -1
	for i, info := range list {
		switch info.ID {
		case "aa-stub":
			first = i
			if info.Title != "Stub aa-stub" {
				t.Errorf("Title = %q", info.Title)
			}
		case "zz-stub":
			last = i
		}
	}
	if first < 0 || last < 0 || first > last {
		t.Errorf("List() not sorted or incomplete: %v", list)
	}

	s, err := Create("aa-stub")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := s.Reset(DefaultEnv()); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if steps := s.Frame(core.NewInputFrame(), 1.0/60).Steps; steps != 1 {
		t.Errorf("Frame() ran %d steps, expected 1", steps)
	}

	if _, err := Create("missing"); err == nil {
		t.Error("Create() of unknown scene should fail")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("dup-stub", func() Scene { return &stubScene{id: "dup-stub"} })
	defer func() {
		if recover() == nil {
			t.Error("duplicate Register should panic")
		}
	}()
	Register("dup-stub", func() Scene { return &stubScene{id: "dup-stub"} })
}

func TestEnvFallbacks(t *testing.T) {
	var env Env
	if env.Logger() == nil {
		t.Error("Logger() should never be nil")
	}
	ids, err := env.Loader().ListIDs()
	if err != nil || len(ids) == 0 {
		t.Errorf("Loader() should fall back to built-in rooms, got %v, %v", ids, err)
	}
}
