package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/damview/internal/asset"
	"github.com/five82/damview/internal/prefs"
	"github.com/five82/damview/internal/reveal"
	"github.com/five82/damview/internal/state"
)

// Session is the host controller the view drives.
type Session interface {
	Store() *state.Store
	Reload(ctx context.Context) error
	SetCategory(ctx context.Context, categoryID string) error
	SetSearch(ctx context.Context, search string) error
	SetPaused(paused bool)
	Activity() state.Activity
}

// Options configures the UI.
type Options struct {
	Context     context.Context
	Session     Session
	PollTick    time.Duration
	RevealBatch int
	ThemeName   string
	PrefsPath   string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	session   Session
	prefsPath string
	pollTick  time.Duration

	// UI state
	theme  Theme
	keys   keyMap
	width  int
	height int
	ready  bool

	// Data state
	snapshot    state.Snapshot
	activity    state.Activity
	lastUpdated time.Time

	// Grid state
	selected int
	window   *reveal.Window

	// Overlays. Either one pauses the refresh loop.
	showHelp bool
	detailID string
	paused   bool

	// Search input
	searching   bool
	searchInput textinput.Model

	// Last user action outcome
	busy   bool
	notice string
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick == 0 {
		pollTick = DefaultUIInterval
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	input := textinput.New()
	input.Placeholder = "title or filename"
	input.Prompt = "/ "
	input.CharLimit = 120

	return Model{
		ctx:         ctx,
		session:     opts.Session,
		prefsPath:   prefsPath,
		pollTick:    pollTick,
		theme:       GetTheme(opts.ThemeName),
		keys:        DefaultKeyMap(),
		window:      reveal.NewWindow(opts.RevealBatch),
		searchInput: input,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tickCmd(m.pollTick),
	}
	// Fetch snapshot immediately on start
	if m.session != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.session))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		next, cmd := m.handleKey(msg)
		nm := next.(Model)
		nm.syncPaused()
		return nm, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.searchInput.Width = max(msg.Width-20, 10)
		return m, nil

	case tickMsg:
		var cmd tea.Cmd
		if m.session != nil {
			cmd = fetchSnapshotCmd(m.session)
		}
		return m, tea.Batch(cmd, tickCmd(m.pollTick))

	case snapshotMsg:
		m.applySnapshot(msg.snapshot)
		m.activity = msg.activity
		m.lastUpdated = time.Now()
		return m, nil

	case actionMsg:
		m.busy = false
		if msg.err != nil {
			m.notice = msg.label + " failed: " + msg.err.Error()
		} else {
			m.notice = ""
		}
		if m.session != nil {
			return m, fetchSnapshotCmd(m.session)
		}
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.detailID != "" {
		return m.renderDetail()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Any key closes help
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.detailID != "" {
		switch {
		case msg.Type == tea.KeyCtrlC:
			return m, tea.Quit
		case key.Matches(msg, m.keys.Escape, m.keys.Open, m.keys.Quit):
			m.detailID = ""
		}
		return m, nil
	}

	if m.searching {
		return m.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Reload):
		return m.runAction("reload", func(ctx context.Context, s Session) error {
			return s.Reload(ctx)
		})

	case key.Matches(msg, m.keys.NextCategory):
		return m.switchCategory(1)

	case key.Matches(msg, m.keys.PrevCategory):
		return m.switchCategory(-1)

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.searchInput.SetValue(m.snapshot.Query.Search)
		m.searchInput.CursorEnd()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.LoadMore):
		m.window.LoadMore(len(m.snapshot.Assets))
		return m, nil

	case key.Matches(msg, m.keys.Open):
		if a := m.selectedAsset(); a != nil {
			m.detailID = a.ID
		}
		return m, nil
	}

	m.handleGridKey(msg)
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	case tea.KeyEnter:
		m.searching = false
		m.searchInput.Blur()
		term := strings.TrimSpace(m.searchInput.Value())
		if term == m.snapshot.Query.Search {
			return m, nil
		}
		return m.runAction("search", func(ctx context.Context, s Session) error {
			return s.SetSearch(ctx, term)
		})
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// switchCategory moves through "All" followed by the category navigation and
// remembers the choice.
func (m Model) switchCategory(step int) (tea.Model, tea.Cmd) {
	next := cycleCategory(m.snapshot.Categories, m.snapshot.Query.CategoryID, step)
	if next == m.snapshot.Query.CategoryID {
		return m, nil
	}
	m.snapshot.Query.CategoryID = next
	m.savePrefs()
	return m.runAction("load category", func(ctx context.Context, s Session) error {
		return s.SetCategory(ctx, next)
	})
}

func (m Model) runAction(label string, fn func(ctx context.Context, s Session) error) (tea.Model, tea.Cmd) {
	if m.session == nil {
		return m, nil
	}
	m.busy = true
	session, parent := m.session, m.ctx
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, ActionTimeout)
		defer cancel()
		return actionMsg{label: label, err: fn(ctx, session)}
	}
}

// syncPaused tells the session when a modal opens or closes.
func (m *Model) syncPaused() {
	want := m.showHelp || m.detailID != ""
	if want == m.paused {
		return
	}
	m.paused = want
	if m.session != nil {
		m.session.SetPaused(want)
	}
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	_ = prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name, Category: m.snapshot.Query.CategoryID})
}

// applySnapshot swaps in new data. The reveal window resets when the query
// changed; the selection follows the selected asset id when possible.
func (m *Model) applySnapshot(snap state.Snapshot) {
	var selectedID string
	if a := m.selectedAsset(); a != nil {
		selectedID = a.ID
	}

	m.snapshot = snap
	if m.window.Reset(snap.Query.CategoryID, snap.Query.Search) {
		m.selected = 0
		return
	}

	visible := m.visibleAssets()
	if selectedID != "" {
		for i, a := range visible {
			if a.ID == selectedID {
				m.selected = i
				return
			}
		}
	}
	if m.selected >= len(visible) {
		m.selected = max(len(visible)-1, 0)
	}
}

func (m Model) visibleAssets() []*asset.Asset {
	return reveal.Visible(m.window, m.snapshot.Assets)
}

func (m Model) selectedAsset() *asset.Asset {
	visible := m.visibleAssets()
	if m.selected < 0 || m.selected >= len(visible) {
		return nil
	}
	return visible[m.selected]
}

// Messages

type tickMsg time.Time

type snapshotMsg struct {
	snapshot state.Snapshot
	activity state.Activity
}

type actionMsg struct {
	label string
	err   error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(session Session) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg{
			snapshot: session.Store().Snapshot(),
			activity: session.Activity(),
		}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	return err
}
