package tui

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/goblin-physics/internal/config"
	"github.com/vovakirdan/goblin-physics/internal/core"
	"github.com/vovakirdan/goblin-physics/internal/registry"
	"github.com/vovakirdan/goblin-physics/internal/scenes/sandbox"
	"github.com/vovakirdan/goblin-physics/internal/storage"
)

const frameGap = 16 * time.Millisecond

func newTestModel(t *testing.T, store *storage.Store) Model {
	t.Helper()
	rt := core.DefaultConfig()
	m, err := NewModel(sandbox.New(), Options{
		Settings: config.Default(),
		Runtime:  rt,
		Env:      registry.DefaultEnv(),
		Store:    store,
	})
	if err != nil {
		t.Fatalf("NewModel() error = %v", err)
	}
	return m
}

func press(t *testing.T, m Model, msg tea.KeyMsg, now time.Time) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.handleKey(msg, now)
	return next.(Model), cmd
}

func playerX(t *testing.T, m Model) float64 {
	t.Helper()
	s := m.scene.(*sandbox.Scene)
	tr, err := s.World().Transform(s.Player())
	if err != nil {
		t.Fatal(err)
	}
	return tr.Position.X
}

func TestModelHoldWindow(t *testing.T) {
	m := newTestModel(t, nil)
	start := time.Unix(1000, 0)
	x0 := playerX(t, m)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRight}, start)
	now := start
	for i := 0; i < 5; i++ {
		now = now.Add(frameGap)
		m = m.advance(now)
	}
	moved := playerX(t, m)
	if moved <= x0 {
		t.Fatalf("holding right should walk, x %g -> %g", x0, moved)
	}

	// Without repeats the key lapses after the hold window.
	now = now.Add(holdWindow)
	if m.frameInput(now).Has(core.ActionRight) {
		t.Error("right should be released after the hold window")
	}
	m = m.advance(now)
	stopped := playerX(t, m)
	m = m.advance(now.Add(frameGap))
	if got := playerX(t, m); got != stopped {
		t.Errorf("player kept walking after release: %g -> %g", stopped, got)
	}
}

func TestModelOneShotAndToggles(t *testing.T) {
	m := newTestModel(t, nil)
	now := time.Unix(1000, 0)
	m = m.advance(now)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, now)
	if !m.frameInput(now).Has(core.ActionJump) {
		t.Fatal("jump should be queued for the next frame")
	}
	m = m.advance(now.Add(frameGap))
	if m.frameInput(now.Add(frameGap)).Has(core.ActionJump) {
		t.Error("jump should act once")
	}
	if fired := m.LastFrame().Fired; len(fired) != 1 || fired[0] != core.ActionJump {
		t.Errorf("Fired = %v, expected [Jump]", fired)
	}

	m, _ = press(t, m, runeKey('g'), now)
	if m.Debug() == config.Default().DebugPhysics {
		t.Error("g should toggle debug bounds")
	}

	m, _ = press(t, m, runeKey('p'), now)
	if !m.Paused() {
		t.Fatal("p should pause")
	}
	steps := m.scene.World().Stats().Steps
	m = m.advance(now.Add(time.Second))
	if got := m.scene.World().Stats().Steps; got != steps {
		t.Errorf("paused world stepped: %d -> %d", steps, got)
	}
	m, _ = press(t, m, runeKey('p'), now)
	if m.Paused() {
		t.Error("second p should resume")
	}
}

func TestModelFrameDeltaClamp(t *testing.T) {
	m := newTestModel(t, nil)
	now := time.Unix(1000, 0)
	m = m.advance(now)
	before := m.scene.World().Stats().Steps

	// A ten second stall only feeds maxFrameDelta to the world.
	m = m.advance(now.Add(10 * time.Second))
	got := m.scene.World().Stats().Steps - before
	if got != 15 {
		t.Errorf("stalled frame ran %d steps, expected 15", got)
	}
}

func TestModelReload(t *testing.T) {
	m := newTestModel(t, nil)

	m, _ = press(t, m, runeKey('r'), time.Now())
	if m.Status() != "reload unavailable" {
		t.Errorf("Status() = %q", m.Status())
	}

	m.opts.Reload = func() (config.Settings, error) {
		s := config.Default()
		s.Physics.RefreshRate = 120
		s.DebugPhysics = true
		return s, nil
	}
	m, _ = press(t, m, runeKey('r'), time.Now())
	if rate := m.scene.World().RefreshRate(); rate != 120 {
		t.Errorf("RefreshRate() = %g, expected 120", rate)
	}
	if !m.Debug() || !strings.Contains(m.Status(), "120 Hz") {
		t.Errorf("Debug() = %v Status() = %q", m.Debug(), m.Status())
	}

	m.opts.Reload = func() (config.Settings, error) { return config.Settings{}, errors.New("boom") }
	m, _ = press(t, m, runeKey('r'), time.Now())
	if m.Status() != "reload failed" || m.scene.World().RefreshRate() != 120 {
		t.Errorf("failed reload changed state: %q", m.Status())
	}
}

func TestModelQuitSavesRun(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	m := newTestModel(t, store)
	now := time.Unix(1000, 0)
	for i := 0; i < 30; i++ {
		now = now.Add(frameGap)
		m = m.advance(now)
	}

	m, cmd := press(t, m, runeKey('q'), now)
	if cmd == nil {
		t.Fatal("q should return tea.Quit")
	}
	if m.View() != "" {
		t.Error("View() should be empty after quit")
	}
	m.saveRun() // already saved

	runs, err := store.RecentRuns(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("saved %d runs, expected 1", len(runs))
	}
	steps := int64(m.scene.World().Stats().Steps)
	if runs[0].SceneID != sandbox.ID || runs[0].Steps != steps || steps < 28 || runs[0].Fingerprint == "" {
		t.Errorf("saved run = %+v", runs[0])
	}
}

func TestModelView(t *testing.T) {
	m := newTestModel(t, nil)
	m = m.advance(time.Unix(1000, 0))

	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = next.(Model)
	if m.screen.Width() != 100 || m.screen.Height() != 30-helpRows {
		t.Errorf("screen = %dx%d", m.screen.Width(), m.screen.Height())
	}

	out := m.View()
	for _, want := range []string{"Sandbox Room", "steps 1", "@", "#", "quit"} {
		if !strings.Contains(out, want) {
			t.Errorf("View() lacks %q", want)
		}
	}
}
