package sweep

import (
	"testing"

	"github.com/vovakirdan/goblin-physics/internal/core"
	"github.com/vovakirdan/goblin-physics/internal/physics"
	"github.com/vovakirdan/goblin-physics/internal/registry"
)

const frame = 1.0 / 60

func newScene(t *testing.T) *Scene {
	t.Helper()
	s := New()
	if err := s.Reset(registry.DefaultEnv()); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	return s
}

func TestSweepAgreesWithMinkowski(t *testing.T) {
	s := newScene(t)
	none := core.NewInputFrame()

	sawKind := map[physics.Kind]bool{}
	for i := 0; i < 8*60; i++ {
		s.Frame(none, frame)
		for _, c := range s.World().Contacts() {
			sawKind[c.OtherKind] = true
		}
		x := s.shape(s.probe).Position().X
		if x < -Reach || x > Reach {
			t.Fatalf("probe left its track at x = %v", x)
		}
	}

	if s.Hits() == 0 {
		t.Error("probe never overlapped the pentagon")
	}
	if s.Disagreements() != 0 {
		t.Errorf("GJK and Minkowski difference disagreed %d times", s.Disagreements())
	}
	if !sawKind[physics.KindStatic] || !sawKind[physics.KindKinematic] {
		t.Errorf("expected contacts with static and kinematic items, saw %v", sawKind)
	}
	if st := s.World().Stats(); st.Errors != 0 {
		t.Errorf("narrow phase errors: %d", st.Errors)
	}
}

func TestSweepInput(t *testing.T) {
	s := newScene(t)
	start := s.shape(s.probe).Position()

	up := core.NewInputFrame()
	up.Set(core.ActionUp)
	s.Frame(up, frame)
	s.Frame(up, frame) // within the nudge cooldown
	if got := s.shape(s.probe).Position().Y; got != start.Y+Nudge {
		t.Errorf("probe y = %v, expected one nudge to %v", got, start.Y+Nudge)
	}

	left := core.NewInputFrame()
	left.Set(core.ActionLeft)
	s.Frame(left, frame)
	if s.dir != -1 {
		t.Errorf("dir = %v after left, expected -1", s.dir)
	}
	if len(s.HUD()) != 2 || s.Fingerprint() != "" {
		t.Errorf("HUD() = %v, Fingerprint() = %q", s.HUD(), s.Fingerprint())
	}
}
