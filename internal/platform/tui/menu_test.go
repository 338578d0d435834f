package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/goblin-physics/internal/core"
	"github.com/vovakirdan/goblin-physics/internal/scenes/sandbox"
	"github.com/vovakirdan/goblin-physics/internal/scenes/sweep"
	"github.com/vovakirdan/goblin-physics/internal/storage"
)

func TestMenuSelect(t *testing.T) {
	m := NewMenuModel(core.DefaultConfig(), map[string]int{sandbox.ID: 3})
	if len(m.items) < 2 {
		t.Fatalf("menu lists %d scenes", len(m.items))
	}
	if !strings.Contains(m.View(), "(3 runs)") {
		t.Error("View() should show run counts")
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	next, cmd := next.(MenuModel).Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter should quit the menu")
	}
	res := next.(MenuModel).Result()
	if res.Quit || res.SceneID != m.items[1].SceneID {
		t.Errorf("Result() = %+v, expected scene %s", res, m.items[1].SceneID)
	}
}

func TestMenuResultKinds(t *testing.T) {
	m := NewMenuModel(core.DefaultConfig(), nil)
	if strings.Contains(m.View(), "runs)") {
		t.Error("unknown counts should not be shown")
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if res := next.(MenuModel).Result(); !res.WantsRuns {
		t.Errorf("tab Result() = %+v", res)
	}

	next, _ = m.Update(runeKey('q'))
	if res := next.(MenuModel).Result(); !res.Quit {
		t.Errorf("q Result() = %+v", res)
	}

	next, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	if cfg := next.(MenuModel).Config(); cfg.ScreenW != 120 || cfg.ScreenH != 40 {
		t.Errorf("Config() = %+v", cfg)
	}
}

func TestRunsBrowser(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	for _, scene := range []string{sandbox.ID, sandbox.ID, sweep.ID} {
		if _, err := store.SaveRun(storage.Run{
			SceneID:     scene,
			RefreshRate: 60,
			Steps:       120,
			Profile:     map[string]time.Duration{"detect": time.Millisecond, "integrate": 2 * time.Millisecond},
		}); err != nil {
			t.Fatal(err)
		}
	}

	m := NewRunsModel(store, "", 120, 40)
	if len(m.Runs()) != 3 {
		t.Fatalf("all scenes lists %d runs, expected 3", len(m.Runs()))
	}

	m = NewRunsModel(store, sandbox.ID, 120, 40)
	if len(m.Runs()) != 2 {
		t.Fatalf("sandbox lists %d runs, expected 2", len(m.Runs()))
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(RunsModel)
	view := m.View()
	if !strings.Contains(view, "integrate") || !strings.Contains(view, "120 steps") {
		t.Errorf("profile view lacks samples:\n%s", view)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(RunsModel)
	if m.IsGoingBack() {
		t.Error("esc should first close the profile")
	}
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil || !next.(RunsModel).IsGoingBack() {
		t.Error("second esc should go back")
	}
}

func TestRunsBrowserWithoutStore(t *testing.T) {
	m := NewRunsModel(nil, "", 60, 20)
	if !strings.Contains(m.View(), "No runs recorded yet") {
		t.Errorf("View() = %q", m.View())
	}
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if next.(RunsModel).currentScene() == "" {
		t.Error("tab should move to the first scene")
	}
}
