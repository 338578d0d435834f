package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/goblin-physics/internal/registry"
	"github.com/vovakirdan/goblin-physics/internal/storage"
)

// Runs browser layout constants
const (
	minWidthForSidebar = 90
	sidebarWidth       = 20
	maxRuns            = 100
)

// allScenes is the pseudo scene listing every run.
const allScenes = ""

// RunsKeyMap defines the key bindings for the runs browser.
type RunsKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	NextScene key.Binding
	PrevScene key.Binding
	Profile   key.Binding
	Back      key.Binding
	Quit      key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k RunsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextScene, k.Profile, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k RunsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextScene, k.PrevScene},
		{k.Profile, k.Back, k.Quit},
	}
}

// DefaultRunsKeyMap returns default key bindings.
func DefaultRunsKeyMap() RunsKeyMap {
	return RunsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextScene: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next scene"),
		),
		PrevScene: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev scene"),
		),
		Profile: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "profile"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// RunsModel is the Bubble Tea model for browsing recorded runs.
type RunsModel struct {
	scenes      []registry.SceneInfo // first entry lists all scenes
	sceneCursor int
	store       *storage.Store
	runs        []storage.Run
	profile     *storage.Run // selected run with its profile, nil when hidden
	loadErr     error
	table       table.Model
	help        help.Model
	keys        RunsKeyMap
	width       int
	height      int
	quitting    bool
	goingBack   bool
	showSidebar bool
}

// NewRunsModel creates a runs browser. sceneID preselects a scene; empty
// lists every scene.
func NewRunsModel(store *storage.Store, sceneID string, width, height int) RunsModel {
	scenes := append([]registry.SceneInfo{{ID: allScenes, Title: "All scenes"}}, registry.List()...)

	m := RunsModel{
		scenes:      scenes,
		store:       store,
		keys:        DefaultRunsKeyMap(),
		help:        help.New(),
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	for i, s := range scenes {
		if s.ID == sceneID {
			m.sceneCursor = i
		}
	}
	m.table = m.createTable()
	m.loadRuns()
	return m
}

func (m *RunsModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Scene", Width: 8},
		{Title: "Steps", Width: 8},
		{Title: "Contacts", Width: 9},
		{Title: "Sim s", Width: 8},
		{Title: "Wall ms", Width: 8},
		{Title: "Hz", Width: 5},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

// currentScene returns the selected scene ID, empty for all scenes.
func (m RunsModel) currentScene() string {
	return m.scenes[m.sceneCursor].ID
}

func (m *RunsModel) loadRuns() {
	m.profile = nil
	m.runs, m.loadErr = nil, nil
	if m.store != nil {
		if id := m.currentScene(); id == allScenes {
			m.runs, m.loadErr = m.store.RecentRuns(maxRuns)
		} else {
			m.runs, m.loadErr = m.store.RunsForScene(id, maxRuns)
		}
	}
	m.updateTableRows()
}

func (m *RunsModel) updateTableRows() {
	rows := make([]table.Row, len(m.runs))
	for i, r := range m.runs {
		rows[i] = table.Row{
			r.CreatedAt.Format("Jan 02 15:04"),
			r.SceneID,
			fmt.Sprintf("%d", r.Steps),
			fmt.Sprintf("%d", r.Contacts),
			fmt.Sprintf("%.2f", r.SimulatedSeconds),
			fmt.Sprintf("%d", r.WallMillis),
			fmt.Sprintf("%.0f", r.RefreshRate),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Runs returns the runs currently listed.
func (m RunsModel) Runs() []storage.Run {
	return m.runs
}

// Init initializes the runs model.
func (m RunsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the runs browser.
func (m RunsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			if m.profile != nil {
				m.profile = nil
				return m, nil
			}
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextScene):
			m.sceneCursor = (m.sceneCursor + 1) % len(m.scenes)
			m.loadRuns()
			return m, nil

		case key.Matches(msg, m.keys.PrevScene):
			m.sceneCursor = (m.sceneCursor - 1 + len(m.scenes)) % len(m.scenes)
			m.loadRuns()
			return m, nil

		case key.Matches(msg, m.keys.Profile):
			m.toggleProfile()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// toggleProfile loads the profile of the highlighted run.
func (m *RunsModel) toggleProfile() {
	if m.profile != nil {
		m.profile = nil
		return
	}
	i := m.table.Cursor()
	if m.store == nil || i < 0 || i >= len(m.runs) {
		return
	}
	run, err := m.store.RunByID(m.runs[i].ID)
	if err != nil {
		m.loadErr = err
		return
	}
	m.profile = run
}

// View renders the runs browser.
func (m RunsModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)

	var b strings.Builder
	b.WriteString(titleStyle.Render(centerText("RUNS - "+m.scenes[m.sceneCursor].Title, m.width)))
	b.WriteString("\n\n")

	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	content := panel.Render(m.renderContent())
	if m.showSidebar {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), "  ", content))
	} else {
		b.WriteString(content)
	}

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m RunsModel) renderSidebar() string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sb strings.Builder
	sb.WriteString("Scenes\n")
	sb.WriteString(strings.Repeat("-", sidebarWidth-4))
	sb.WriteString("\n")
	for i, s := range m.scenes {
		cursor := "  "
		line := lipgloss.NewStyle()
		if i == m.sceneCursor {
			cursor = "> "
			line = line.Bold(true).Foreground(lipgloss.Color("229"))
		}
		name := s.Title
		if maxLen := sidebarWidth - 6; len(name) > maxLen {
			name = name[:maxLen-1] + "."
		}
		sb.WriteString(line.Render(cursor + name))
		sb.WriteString("\n")
	}
	return style.Render(sb.String())
}

func (m RunsModel) renderContent() string {
	empty := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	switch {
	case m.loadErr != nil:
		return empty.Render("Could not load runs:\n" + m.loadErr.Error())
	case m.profile != nil:
		return renderProfile(*m.profile)
	case len(m.runs) == 0:
		return empty.Render("No runs recorded yet.\nView or simulate a scene to record one.")
	}
	return m.table.View()
}

// renderProfile lists a run's activity totals, slowest first.
func renderProfile(r storage.Run) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Run %s\n", r.ID)
	fmt.Fprintf(&b, "scene %s  room %s\n", r.SceneID, orDash(r.Fingerprint))
	fmt.Fprintf(&b, "%d steps at %.0f Hz, %.2fs simulated in %dms\n\n",
		r.Steps, r.RefreshRate, r.SimulatedSeconds, r.WallMillis)

	activities := make([]string, 0, len(r.Profile))
	for a := range r.Profile {
		activities = append(activities, a)
	}
	sort.Slice(activities, func(i, j int) bool {
		return r.Profile[activities[i]] > r.Profile[activities[j]]
	})
	if len(activities) == 0 {
		b.WriteString("no profile samples")
	}
	for _, a := range activities {
		perStep := time.Duration(0)
		if r.Steps > 0 {
			perStep = r.Profile[a] / time.Duration(r.Steps)
		}
		fmt.Fprintf(&b, "%-10s %12s  %10s/step\n", a, r.Profile[a].Round(time.Microsecond), perStep)
	}
	return strings.TrimRight(b.String(), "\n")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// IsGoingBack returns true if the user wants to return to the menu.
func (m RunsModel) IsGoingBack() bool {
	return m.goingBack
}

// RunRunsBrowser shows the runs browser. It reports whether the user
// asked to go back to the menu.
func RunRunsBrowser(store *storage.Store, sceneID string, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(NewRunsModel(store, sceneID, width, height), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(RunsModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
