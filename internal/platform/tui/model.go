package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/goblin-physics/internal/config"
	"github.com/vovakirdan/goblin-physics/internal/core"
	"github.com/vovakirdan/goblin-physics/internal/physics"
	"github.com/vovakirdan/goblin-physics/internal/registry"
	"github.com/vovakirdan/goblin-physics/internal/sim"
	"github.com/vovakirdan/goblin-physics/internal/storage"
)

const (
	// holdWindow keeps a movement key pressed after its last key event.
	// Terminals only report repeats, never releases.
	holdWindow = 150 * time.Millisecond
	// maxFrameDelta caps the time fed to the world after a stall.
	maxFrameDelta = 0.25
	// fpsSmoothing is the weight of the newest frame in the FPS average.
	fpsSmoothing = 0.1
	// helpRows is the screen space reserved for the help line.
	helpRows = 1
)

// held lists the actions that stay active for holdWindow after a key event.
var held = map[core.Action]bool{
	core.ActionLeft:  true,
	core.ActionRight: true,
	core.ActionUp:    true,
	core.ActionDown:  true,
}

// Options configure the viewer.
type Options struct {
	Settings config.Settings
	Runtime  core.RuntimeConfig
	Env      registry.Env
	// Reload re-reads the settings from disk. Nil disables the reload key.
	Reload func() (config.Settings, error)
	// Store receives the run when the viewer quits. Nil skips saving.
	Store *storage.Store
}

// Model is the Bubble Tea model for viewing a scene.
type Model struct {
	scene  registry.Scene
	opts   Options
	logger *log.Logger
	screen *core.Screen
	keys   *KeyMapper
	help   help.Model

	pressed map[core.Action]time.Time // last key event per held action
	once    core.InputFrame           // one-shot actions for the next frame

	paused   bool
	debug    bool
	showFPS  bool
	fps      float64
	last     time.Time
	started  time.Time
	lastStep registry.Frame
	status   string
	quitting bool
	saved    *bool
}

// NewModel resets scene and wraps it in a viewer model.
func NewModel(scene registry.Scene, opts Options) (Model, error) {
	if err := scene.Reset(opts.Env); err != nil {
		return Model{}, fmt.Errorf("tui: reset %s: %w", scene.ID(), err)
	}
	saved := false
	return Model{
		scene:   scene,
		opts:    opts,
		logger:  opts.Env.Logger(),
		screen:  core.NewScreen(opts.Runtime.ScreenW, max(opts.Runtime.ScreenH-helpRows, 1)),
		keys:    NewKeyMapper(),
		help:    help.New(),
		pressed: make(map[core.Action]time.Time),
		once:    core.NewInputFrame(),
		debug:   opts.Settings.DebugPhysics || opts.Runtime.Debug,
		showFPS: opts.Settings.ShowFPS,
		started: time.Now(),
		saved:   &saved,
	}, nil
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.opts.Runtime.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg, time.Now())

	case tea.WindowSizeMsg:
		m.opts.Runtime.ScreenW = msg.Width
		m.opts.Runtime.ScreenH = msg.Height
		m.screen.Resize(msg.Width, max(msg.Height-helpRows, 1))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		m = m.advance(time.Time(msg))
		return m, tickCmd(m.opts.Runtime.TickRate)
	}

	return m, nil
}

// handleKey records input. Movement keys stay held for holdWindow; the
// rest act once.
func (m Model) handleKey(msg tea.KeyMsg, now time.Time) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Keys.Help) {
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	action, quit := m.keys.MapKey(msg)
	if quit {
		m.quitting = true
		m.saveRun()
		return m, tea.Quit
	}

	switch {
	case action == core.ActionNone:
	case held[action]:
		m.pressed[action] = now
	case action == core.ActionPause:
		m.paused = !m.paused
		// Drop the frame that spanned the pause.
		m.last = time.Time{}
	case action == core.ActionDebug:
		m.debug = !m.debug
	case action == core.ActionReload:
		m.reload()
	default:
		m.once.Set(action)
	}
	return m, nil
}

// frameInput merges held and one-shot actions for a frame at now.
func (m Model) frameInput(now time.Time) core.InputFrame {
	in := m.once.Clone()
	for a, at := range m.pressed {
		if now.Sub(at) < holdWindow {
			in.Set(a)
		} else {
			delete(m.pressed, a)
		}
	}
	return in
}

// advance runs one frame of the scene ending at now.
func (m Model) advance(now time.Time) Model {
	if m.paused {
		return m
	}

	delta := 1 / float64(max(m.opts.Runtime.TickRate, 60))
	if !m.last.IsZero() {
		delta = now.Sub(m.last).Seconds()
	}
	m.last = now
	if delta > maxFrameDelta {
		delta = maxFrameDelta
	}
	if delta <= 0 {
		return m
	}

	if m.fps == 0 {
		m.fps = 1 / delta
	} else {
		m.fps += fpsSmoothing * (1/delta - m.fps)
	}

	m.lastStep = m.scene.Frame(m.frameInput(now), delta)
	m.once.Clear()
	return m
}

// reload re-reads settings and pushes them into the running world.
func (m *Model) reload() {
	if m.opts.Reload == nil {
		m.status = "reload unavailable"
		return
	}
	s, err := m.opts.Reload()
	if err != nil {
		m.status = "reload failed"
		m.logger.Error("settings reload failed", "error", err)
		return
	}
	if err := m.scene.World().SetRefreshRate(s.Physics.RefreshRate); err != nil {
		m.status = "reload failed"
		m.logger.Error("settings reload failed", "error", err)
		return
	}
	m.opts.Settings = s
	m.opts.Runtime.TickRate = s.TickRate()
	m.debug = s.DebugPhysics
	m.showFPS = s.ShowFPS
	m.status = fmt.Sprintf("settings reloaded, physics %.0f Hz", s.Physics.RefreshRate)
	m.logger.Info("settings reloaded", "refresh_rate", s.Physics.RefreshRate, "tick_rate", m.opts.Runtime.TickRate)
}

// saveRun records the session once, best effort.
func (m Model) saveRun() {
	if m.opts.Store == nil || *m.saved {
		return
	}
	*m.saved = true
	run := sim.Snapshot(m.scene, time.Since(m.started)).Record()
	if run.Steps == 0 {
		return
	}
	id, err := m.opts.Store.SaveRun(run)
	if err != nil {
		m.logger.Warn("run not saved", "scene", run.SceneID, "error", err)
		return
	}
	m.logger.Info("run saved", "id", id, "scene", run.SceneID, "steps", run.Steps)
}

// Paused reports whether the simulation is paused.
func (m Model) Paused() bool { return m.paused }

// Debug reports whether broad-phase bounds are drawn.
func (m Model) Debug() bool { return m.debug }

// Status returns the last status message.
func (m Model) Status() string { return m.status }

// LastFrame returns the outcome of the last simulated frame.
func (m Model) LastFrame() registry.Frame { return m.lastStep }

// View renders the world, the HUD and the help line.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.render()
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	return RenderScreen(m.screen) + "\n" + helpStyle.Render(m.help.View(m.keys.Keys))
}

// render draws the current frame into the screen buffer.
func (m Model) render() {
	m.screen.Clear()
	w := m.scene.World()
	items := w.Renderables()

	scale := m.opts.Runtime.CellScale
	if scale <= 0 {
		scale = core.DefaultConfig().CellScale
	}
	if m.opts.Settings.RenderScale > 0 {
		scale *= m.opts.Settings.RenderScale
	}
	box, ok := WorldBounds(items)
	if ok {
		cam := FitCamera(box, m.screen.Width(), m.screen.Height(), scale)
		touching := make(map[physics.EntityID]bool)
		for _, c := range w.Contacts() {
			touching[c.Dynamic] = true
			touching[c.Other] = true
		}
		if m.debug {
			DrawBounds(m.screen, cam, items)
		}
		DrawWireframes(m.screen, cam, items, touching)
	}

	for i, line := range m.hud() {
		m.screen.DrawTextColor(1, i, line, core.ColorBrightWhite)
	}
}

// hud returns the status lines drawn in the top-left corner.
func (m Model) hud() []string {
	st := m.scene.World().Stats()
	lines := []string{m.scene.Title()}
	if m.showFPS {
		lines = append(lines, fmt.Sprintf("fps %.0f  physics %.0f Hz", m.fps, m.scene.World().RefreshRate()))
	}
	lines = append(lines, fmt.Sprintf("steps %d  contacts %d", st.Steps, len(m.scene.World().Contacts())))
	lines = append(lines, m.scene.HUD()...)
	if m.debug {
		lines = append(lines, fmt.Sprintf("pairs %d  rejects %d  errors %d", st.PairChecks, st.BroadPhaseRejects, st.Errors))
	}
	if m.paused {
		lines = append(lines, "PAUSED")
	}
	if m.status != "" {
		lines = append(lines, m.status)
	}
	return lines
}

// Run starts the Bubble Tea program for scene.
func Run(scene registry.Scene, opts Options) error {
	model, err := NewModel(scene, opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	final, err := p.Run()
	if m, ok := final.(Model); ok {
		m.saveRun()
	}
	return err
}
