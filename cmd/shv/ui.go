package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"statehist/internal/datasource"
	"statehist/internal/history"
	"statehist/internal/projection"
)

// --- Messages ---

type dbChangedMsg struct{}

type graphReadyMsg struct {
	graph     *history.Graph
	bookmarks []history.Bookmark
	err       error
}

type tickMsg struct{}

// --- Key bindings ---

type keyMap struct {
	Quit    key.Binding
	Tab     key.Binding
	Refresh key.Binding
	Up      key.Binding
	Down    key.Binding
	Help    key.Binding
	Enter   key.Binding
	Esc     key.Binding

	NewState key.Binding
	Undo     key.Binding
	Redo     key.Binding
	Pin      key.Binding
	Bookmark key.Binding

	Delete   key.Binding
	MoveUp   key.Binding
	MoveDown key.Binding
	Edit     key.Binding

	Play    key.Binding
	Advance key.Binding
	Back    key.Binding
}

var keys = keyMap{
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next view")),
	Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("k/up", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("j/down", "down")),
	Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "jump")),
	Esc:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear pin / stop")),

	NewState: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new state")),
	Undo:     key.NewBinding(key.WithKeys("u", "left"), key.WithHelp("u/←", "undo")),
	Redo:     key.NewBinding(key.WithKeys("ctrl+r", "right"), key.WithHelp("ctrl+r/→", "redo")),
	Pin:      key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pin state")),
	Bookmark: key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "bookmark")),

	Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete bookmark")),
	MoveUp:   key.NewBinding(key.WithKeys("K"), key.WithHelp("K", "move up")),
	MoveDown: key.NewBinding(key.WithKeys("J"), key.WithHelp("J", "move down")),
	Edit:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit annotation")),

	Play:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "play story")),
	Advance: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "next slide")),
	Back:    key.NewBinding(key.WithKeys("backspace"), key.WithHelp("bksp", "prev slide")),
}

// viewKeys maps single keys to views for fast navigation.
var viewKeys = map[string]viewID{
	"1": viewTimeline,
	"2": viewBranches,
	"3": viewBookmarks,
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Pin, k.Play, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Up, k.Down, k.Enter, k.Refresh},
		{k.NewState, k.Undo, k.Redo, k.Pin, k.Bookmark},
		{k.Play, k.Advance, k.Back, k.Esc, k.Quit},
	}
}

// contextHelp returns help text appropriate for the current view.
func contextHelp(v viewID, playing bool) string {
	if playing {
		return "space: next slide | bksp: previous | esc: stop | q: quit"
	}
	switch v {
	case viewTimeline:
		return "j/k: select | enter: jump | n: new | u: undo | p: pin | b: bookmark | 1/2/3: views | ?: help | q: quit"
	case viewBranches:
		return "j/k: select | enter: switch branch | p: pin clears with esc | 1/2/3: views | ?: help | q: quit"
	case viewBookmarks:
		return "j/k: select | enter: jump | J/K: reorder | e: annotate | d: delete | s: play | ?: help | q: quit"
	default:
		return "tab: next view | ?: help | q: quit"
	}
}

// --- Views ---

type viewID int

const (
	viewTimeline viewID = iota
	viewBranches
	viewBookmarks
	viewCount // sentinel
)

func (v viewID) String() string {
	switch v {
	case viewTimeline:
		return "Timeline"
	case viewBranches:
		return "Branches"
	case viewBookmarks:
		return "Bookmarks"
	}
	return "?"
}

// --- Model ---

type uiModel struct {
	store     *history.Store
	watcher   *datasource.Watcher
	graph     *history.Graph
	bookmarks []history.Bookmark
	dbPath    string

	// View models, rebuilt by reproject after every graph change.
	path     []history.StateID
	states   []projection.StateEntry
	branches []projection.BranchEntry

	pin     projection.Pin
	session projection.Session

	activeView      viewID
	width           int
	height          int
	selected        int
	scrollPos       int
	refreshInterval time.Duration

	editing    bool
	editTarget int
	editor     textinput.Model

	help     help.Model
	showHelp bool

	statusErr   string
	lastRefresh time.Time
}

func newModel(s *history.Store, w *datasource.Watcher, g *history.Graph, bookmarks []history.Bookmark, dbPath string) uiModel {
	h := help.New()
	ti := textinput.New()
	ti.Placeholder = "annotation"
	ti.CharLimit = 280
	m := uiModel{
		store:       s,
		watcher:     w,
		graph:       g,
		bookmarks:   bookmarks,
		dbPath:      dbPath,
		editor:      ti,
		help:        h,
		lastRefresh: time.Now(),
	}
	m.reproject()
	return m
}

func (m uiModel) Init() tea.Cmd {
	return tea.Batch(
		tickEvery(),
	)
}

func tickEvery() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg{}
	})
}

// reproject rebuilds the commit path and the view models from the graph.
func (m *uiModel) reproject() {
	m.path = projection.ResolvePath(m.graph)
	m.states = projection.ProjectStates(m.graph, m.path, m.bookmarks, m.pin)
	m.branches = projection.ProjectBranches(m.graph, m.path, m.pin)
	m.clampSelection()
}

// listLen returns the number of selectable rows in the active view.
func (m *uiModel) listLen() int {
	switch m.activeView {
	case viewTimeline:
		return len(m.states)
	case viewBranches:
		return len(m.branches)
	case viewBookmarks:
		return len(m.bookmarks)
	}
	return 0
}

func (m *uiModel) clampSelection() {
	n := m.listLen()
	if n == 0 {
		m.selected = 0
	} else if m.selected >= n {
		m.selected = n - 1
	}
}

// persist saves graph and bookmarks back to the database. Mutations are
// synchronous: the graph is small and a failed write must surface before
// the next keypress can compound it.
func (m *uiModel) persist() {
	if err := m.store.Save(m.graph, m.bookmarks); err != nil {
		m.statusErr = fmt.Sprintf("save: %v", err)
		return
	}
	m.statusErr = ""
}

// syncSlide moves the graph to the bookmark shown by the current slide,
// so playback navigates real history rather than just displaying text.
func (m *uiModel) syncSlide() {
	if m.session.Mode != projection.ModePlayback {
		return
	}
	if m.session.Index < 0 || m.session.Index >= len(m.bookmarks) {
		return
	}
	if m.graph.JumpTo(m.bookmarks[m.session.Index].StateID) {
		m.persist()
		m.reproject()
	}
}

func (m uiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Annotation editor captures all keys while focused.
		if m.editing {
			switch msg.String() {
			case "enter":
				m.bookmarks = history.AnnotateBookmark(m.bookmarks, m.editTarget, m.editor.Value())
				m.editing = false
				m.editor.Blur()
				m.persist()
				m.reproject()
				return m, nil
			case "esc":
				m.editing = false
				m.editor.Blur()
				return m, nil
			default:
				var cmd tea.Cmd
				m.editor, cmd = m.editor.Update(msg)
				return m, cmd
			}
		}

		// Playback transport takes over the keyboard until the story
		// ends or is stopped.
		if m.session.Mode == projection.ModePlayback {
			switch {
			case key.Matches(msg, keys.Quit):
				m.watcher.Close()
				m.store.Close()
				return m, tea.Quit
			case key.Matches(msg, keys.Advance), key.Matches(msg, keys.Enter),
				msg.String() == "right", msg.String() == "l":
				m.session = m.session.Next(len(m.bookmarks))
				m.syncSlide()
			case key.Matches(msg, keys.Back),
				msg.String() == "left", msg.String() == "h":
				m.session = m.session.Prev()
				m.syncSlide()
			case key.Matches(msg, keys.Esc):
				m.session = m.session.Stop()
			}
			return m, nil
		}

		// Single-key view shortcuts (always available while browsing).
		if v, ok := viewKeys[msg.String()]; ok {
			m.activeView = v
			m.selected = 0
			m.scrollPos = 0
			return m, nil
		}

		switch {
		case key.Matches(msg, keys.Quit):
			m.watcher.Close()
			m.store.Close()
			return m, tea.Quit

		case key.Matches(msg, keys.Esc):
			if m.pin.Active {
				m.pin = projection.Pin{}
				m.reproject()
			}

		case key.Matches(msg, keys.Tab):
			m.activeView = (m.activeView + 1) % viewCount
			m.selected = 0
			m.scrollPos = 0

		case key.Matches(msg, keys.Refresh):
			return m, m.reloadGraph()

		case key.Matches(msg, keys.Up):
			if m.selected > 0 {
				m.selected--
			}
			if m.scrollPos > 0 && m.selected < m.scrollPos {
				m.scrollPos--
			}

		case key.Matches(msg, keys.Down):
			if m.selected < m.listLen()-1 {
				m.selected++
			}
			// Keep the selection inside the visible window.
			visible := m.height - 7
			if visible > 0 && m.selected-m.scrollPos >= visible {
				m.scrollPos++
			}

		case key.Matches(msg, keys.Enter):
			switch m.activeView {
			case viewTimeline:
				if m.selected < len(m.states) && m.graph.JumpTo(m.states[m.selected].ID) {
					m.persist()
					m.reproject()
				}
			case viewBranches:
				if m.selected < len(m.branches) && m.graph.SwitchBranch(m.branches[m.selected].ID) {
					m.persist()
					m.reproject()
				}
			case viewBookmarks:
				if m.selected < len(m.bookmarks) && m.graph.JumpTo(m.bookmarks[m.selected].StateID) {
					m.persist()
					m.reproject()
				}
			}

		case key.Matches(msg, keys.NewState):
			m.graph.Insert(fmt.Sprintf("State %d", m.graph.StateCount()))
			m.persist()
			m.reproject()

		case key.Matches(msg, keys.Undo):
			if m.graph.Undo() {
				m.persist()
				m.reproject()
			}

		case key.Matches(msg, keys.Redo):
			if m.graph.Redo() {
				m.persist()
				m.reproject()
			}

		case key.Matches(msg, keys.Pin):
			if m.activeView == viewTimeline && m.selected < len(m.states) {
				m.pin = m.pin.Toggle(m.states[m.selected].ID)
				m.reproject()
			}

		case key.Matches(msg, keys.Bookmark):
			if m.activeView == viewTimeline && m.selected < len(m.states) {
				e := m.states[m.selected]
				m.bookmarks = history.ToggleBookmark(m.bookmarks, e.ID, e.Name)
				m.persist()
				m.reproject()
			}

		case key.Matches(msg, keys.Delete):
			if m.activeView == viewBookmarks && m.selected < len(m.bookmarks) {
				m.bookmarks = history.RemoveBookmark(m.bookmarks, m.selected)
				m.clampSelection()
				m.persist()
				m.reproject()
			}

		case key.Matches(msg, keys.MoveUp):
			if m.activeView == viewBookmarks && m.selected > 0 {
				m.bookmarks = history.MoveBookmark(m.bookmarks, m.selected, m.selected-1)
				m.selected--
				m.persist()
			}

		case key.Matches(msg, keys.MoveDown):
			if m.activeView == viewBookmarks && m.selected < len(m.bookmarks)-1 {
				m.bookmarks = history.MoveBookmark(m.bookmarks, m.selected, m.selected+1)
				m.selected++
				m.persist()
			}

		case key.Matches(msg, keys.Edit):
			if m.activeView == viewBookmarks && m.selected < len(m.bookmarks) {
				m.editing = true
				m.editTarget = m.selected
				m.editor.SetValue(m.bookmarks[m.selected].Annotation)
				m.editor.Focus()
				return m, textinput.Blink
			}

		case key.Matches(msg, keys.Play):
			if len(m.bookmarks) == 0 {
				m.statusErr = "no bookmarks to play"
				break
			}
			start := 0
			if m.activeView == viewBookmarks {
				start = m.selected
			}
			sess, err := projection.StartPlayback(len(m.bookmarks), start)
			if err != nil {
				m.statusErr = err.Error()
				break
			}
			m.session = sess
			m.statusErr = ""
			m.syncSlide()

		case key.Matches(msg, keys.Help):
			m.showHelp = !m.showHelp
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.editor.Width = max(20, msg.Width-20)

	case dbChangedMsg:
		return m, m.reloadGraph()

	case graphReadyMsg:
		if msg.err == nil && msg.graph != nil && projection.Validate(msg.graph) == nil {
			m.graph = msg.graph
			m.bookmarks = msg.bookmarks
			m.lastRefresh = time.Now()
			// The pinned state may have been rewritten away underneath
			// us; an unresolvable pin must not survive the reload.
			if m.pin.Active {
				if _, ok := m.graph.BranchOf(m.pin.StateID); !ok {
					m.pin = projection.Pin{}
				}
			}
			if m.session.Mode == projection.ModePlayback && m.session.Index >= len(m.bookmarks) {
				m.session = m.session.Stop()
			}
			m.reproject()
		}

	case tickMsg:
		return m, tickEvery()
	}

	return m, nil
}

// reloadGraph re-reads the database off the update loop.
func (m uiModel) reloadGraph() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		g, bookmarks, err := s.Load()
		return graphReadyMsg{graph: g, bookmarks: bookmarks, err: err}
	}
}

// --- Styles ---

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Background(lipgloss.Color("#1E1E2E")).
			Padding(0, 1)

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#CDD6F4")).
			Background(lipgloss.Color("#7C3AED")).
			Padding(0, 1)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#6C7086")).
				Background(lipgloss.Color("#313244")).
				Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#89B4FA"))

	currentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A6E3A1"))

	legacyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C7086"))

	pinStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F9E2AF")).
			Bold(true)

	bookmarkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAB387"))

	activeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A6E3A1")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C7086"))

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F38BA8")).
			Bold(true)

	slideBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7C3AED")).
			Padding(1, 3)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CDD6F4")).
			Background(lipgloss.Color("#1E1E2E"))
)

// --- View rendering ---

func (m uiModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder

	// Title bar.
	b.WriteString(m.renderTitleBar())
	b.WriteRune('\n')

	// Tab bar.
	b.WriteString(m.renderTabBar())
	b.WriteRune('\n')
	b.WriteRune('\n')

	// Content area.
	contentHeight := m.height - 5 // title + tabs + status + padding
	if m.showHelp {
		contentHeight -= 3
	}

	var content string

	if m.session.Mode == projection.ModePlayback {
		content = m.renderPlayback(contentHeight)
	} else if m.activeView == viewTimeline && m.width >= 120 {
		// Split-pane: timeline and branch lanes side by side on wide
		// terminals.
		leftWidth := m.width/2 - 1
		rightWidth := m.width - leftWidth - 3 // 3 for separator

		left := m.renderTimeline()
		right := m.renderBranches()
		content = renderSplitPane(left, right, leftWidth, rightWidth, contentHeight)
	} else {
		switch m.activeView {
		case viewTimeline:
			content = m.renderTimeline()
		case viewBranches:
			content = m.renderBranches()
		case viewBookmarks:
			content = m.renderBookmarks()
		}

		// Apply scroll using a local variable. View() is a value
		// receiver so mutating m.scrollPos here would be dead code.
		lines := strings.Split(content, "\n")
		scrollPos := m.scrollPos
		if scrollPos >= len(lines) {
			scrollPos = max(0, len(lines)-1)
		}
		if scrollPos > 0 && scrollPos < len(lines) {
			lines = lines[scrollPos:]
		}
		if len(lines) > contentHeight {
			lines = lines[:contentHeight]
		}
		content = strings.Join(lines, "\n")
	}

	// Truncate each line to terminal width so content doesn't wrap
	// on resize. Uses ANSI-aware width measurement.
	content = truncateLines(content, m.width)

	b.WriteString(content)

	// Pad to fill screen.
	rendered := strings.Count(b.String(), "\n")
	for rendered < m.height-2 {
		b.WriteRune('\n')
		rendered++
	}

	// Help / status bar.
	if m.showHelp {
		b.WriteString(m.help.View(keys))
	} else {
		b.WriteString(m.renderStatusBar())
	}

	return b.String()
}

func (m uiModel) renderTitleBar() string {
	title := titleStyle.Render("statehist viewer")
	stats := dimStyle.Render(fmt.Sprintf(
		"%d states | %d branches | %d bookmarks",
		m.graph.StateCount(),
		len(m.graph.Branches()),
		len(m.bookmarks),
	))
	gap := strings.Repeat(" ", max(0, m.width-lipgloss.Width(title)-lipgloss.Width(stats)-2))
	return title + gap + stats
}

func (m uiModel) renderTabBar() string {
	var tabs []string
	for i := viewID(0); i < viewCount; i++ {
		if i == m.activeView && m.session.Mode != projection.ModePlayback {
			tabs = append(tabs, tabActiveStyle.Render(i.String()))
		} else {
			tabs = append(tabs, tabInactiveStyle.Render(i.String()))
		}
	}
	if m.session.Mode == projection.ModePlayback {
		tabs = append(tabs, tabActiveStyle.Render("Story"))
	}
	if m.pin.Active {
		tabs = append(tabs, pinStyle.Render(fmt.Sprintf(" pinned: %s", m.graph.StateName(m.pin.StateID))))
	}
	return strings.Join(tabs, " ")
}

func (m uiModel) renderStatusBar() string {
	ago := time.Since(m.lastRefresh).Truncate(time.Second)
	left := fmt.Sprintf(" %s", contextHelp(m.activeView, m.session.Mode == projection.ModePlayback))
	if m.statusErr != "" {
		left = " " + errStyle.Render(m.statusErr)
	}
	right := fmt.Sprintf("refreshed %s ago ", ago)
	gap := strings.Repeat(" ", max(0, m.width-lipgloss.Width(left)-len(right)))
	return statusBarStyle.Render(left + gap + right)
}

// --- Timeline view ---

func (m uiModel) renderTimeline() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("Timeline"))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  on %s", m.graph.BranchName(m.graph.CurrentBranch()))))
	b.WriteRune('\n')

	if len(m.states) == 0 {
		b.WriteString(dimStyle.Render("  (no states on the current path)"))
		b.WriteRune('\n')
		return b.String()
	}

	for i, e := range m.states {
		cursor := "  "
		if i == m.selected && m.activeView == viewTimeline {
			cursor = "> "
		}

		dot := "○"
		if e.Active {
			dot = activeStyle.Render("●")
		}

		marks := " "
		if e.Bookmarked {
			marks = bookmarkStyle.Render("★")
		}
		if e.Pinned {
			marks = pinStyle.Render("◉")
		}
		if e.Successor {
			marks = pinStyle.Render("↳")
		}

		branchID, _ := m.graph.BranchOf(e.ID)
		suffix := dimStyle.Render(fmt.Sprintf("  %s", m.graph.BranchName(branchID)))
		if e.BranchType == projection.BranchLegacy {
			suffix += dimStyle.Render(" (legacy)")
		}
		if e.ChildCount > 1 {
			suffix += dimStyle.Render(fmt.Sprintf(" +%d", e.ChildCount-1))
		}

		style := currentStyle
		if e.BranchType == projection.BranchLegacy {
			style = legacyStyle
		}

		name := truncate(e.Name, 40)
		line := fmt.Sprintf("%s%s %s %-40s", cursor, dot, marks, name)
		if i == m.selected && m.activeView == viewTimeline {
			b.WriteString(style.Bold(true).Render(line))
		} else {
			b.WriteString(style.Render(line))
		}
		b.WriteString(suffix)
		b.WriteRune('\n')
	}

	return b.String()
}

// --- Branch lanes view ---

// laneFor draws one branch as a row of depth cells. Depth d occupies
// column d; the inherited lineage before the branch's own first commit is
// drawn thin, its own commit range thick, with markers for the active,
// pinned, and successor depths layered on top.
func laneFor(e projection.BranchEntry) string {
	// MaxDepth normalizes lane spans, but a branch forked off the tip
	// can end deeper than the longest span; never truncate its own
	// commits.
	width := e.MaxDepth + 1
	if e.EndsAt+1 > width {
		width = e.EndsAt + 1
	}
	cells := make([]rune, width)
	for d := range cells {
		cells[d] = ' '
	}
	if e.PathStart != nil {
		for d := *e.PathStart; d < e.StartsAt && d < width; d++ {
			cells[d] = '─'
		}
	}
	for d := e.StartsAt; d <= e.EndsAt && d < width; d++ {
		cells[d] = '━'
	}
	if e.SuccessorDepth != nil && *e.SuccessorDepth < width {
		cells[*e.SuccessorDepth] = '↳'
	}
	if e.ActiveIndex != nil && *e.ActiveIndex < width {
		cells[*e.ActiveIndex] = '●'
	}
	if e.PinnedIndex != nil && *e.PinnedIndex < width {
		cells[*e.PinnedIndex] = '◉'
	}
	return string(cells)
}

func (m uiModel) renderBranches() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("Branches"))
	if m.pin.Active {
		b.WriteString(pinStyle.Render("  [pinned]"))
	}
	b.WriteRune('\n')

	if len(m.branches) == 0 {
		b.WriteString(dimStyle.Render("  (no branches on the current path)"))
		b.WriteRune('\n')
		return b.String()
	}

	cur := m.graph.CurrentBranch()
	for i, e := range m.branches {
		cursor := "  "
		if i == m.selected && m.activeView == viewBranches {
			cursor = "> "
		}

		style := dimStyle
		if e.ID == cur {
			style = currentStyle
		}

		name := truncate(e.Name, 16)
		line := fmt.Sprintf("%s%-16s %s", cursor, name, laneFor(e))
		if i == m.selected && m.activeView == viewBranches {
			b.WriteString(style.Bold(true).Render(line))
		} else {
			b.WriteString(style.Render(line))
		}
		b.WriteString(dimStyle.Render(fmt.Sprintf("  %d..%d", e.StartsAt, e.EndsAt)))
		b.WriteRune('\n')
	}

	return b.String()
}

// --- Bookmarks view ---

func (m uiModel) renderBookmarks() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("Bookmarks"))
	b.WriteRune('\n')

	if len(m.bookmarks) == 0 {
		b.WriteString(dimStyle.Render("  (no bookmarks — press b on a timeline state)"))
		b.WriteRune('\n')
		return b.String()
	}

	annWidth := m.width - 8
	if annWidth < 20 {
		annWidth = 20
	}

	for i, bm := range m.bookmarks {
		cursor := "  "
		if i == m.selected && m.activeView == viewBookmarks {
			cursor = "> "
		}

		line := fmt.Sprintf("%s%s %-24s", cursor, bookmarkStyle.Render("★"), truncate(bm.Name, 24))
		b.WriteString(line)
		b.WriteString(dimStyle.Render(fmt.Sprintf("  %d/%d  %s", i+1, len(m.bookmarks), m.graph.StateName(bm.StateID))))
		b.WriteRune('\n')

		if m.editing && m.editTarget == i {
			b.WriteString("      ")
			b.WriteString(m.editor.View())
			b.WriteRune('\n')
			continue
		}
		if bm.Annotation != "" {
			for _, l := range wrapText(bm.Annotation, annWidth) {
				b.WriteString(dimStyle.Render("      " + l))
				b.WriteRune('\n')
			}
		}
	}

	return b.String()
}

// --- Playback view ---

// advanceHint maps the slide's forward transport control to its label.
func advanceHint(a projection.Advance) (string, error) {
	switch a {
	case projection.AdvanceNext:
		return "space: next", nil
	case projection.AdvanceExit:
		return "space: finish", nil
	}
	return "", fmt.Errorf("advance control %d: %w", a, projection.ErrMissingHandler)
}

func (m uiModel) renderPlayback(contentHeight int) string {
	slide, err := projection.ProjectSlide(m.bookmarks, m.session.Index)
	if err != nil {
		return errStyle.Render(fmt.Sprintf("  playback: %v", err))
	}

	textWidth := min(m.width-16, 72)
	if textWidth < 20 {
		textWidth = 20
	}

	var body strings.Builder
	body.WriteString(headerStyle.Render(fmt.Sprintf("Story %d/%d", slide.Index+1, slide.Total)))
	body.WriteString("\n\n")
	for _, l := range wrapText(slide.Text, textWidth) {
		body.WriteString(l)
		body.WriteRune('\n')
	}
	body.WriteRune('\n')

	hint, err := advanceHint(slide.Advance)
	if err != nil {
		hint = errStyle.Render(err.Error())
	}
	body.WriteString(dimStyle.Render(hint + " | bksp: previous | esc: stop"))

	box := slideBoxStyle.Render(body.String())
	return lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center, box)
}

// --- Split-pane rendering ---

// renderSplitPane renders two content panes side by side with a vertical
// separator.
func renderSplitPane(left, right string, leftWidth, rightWidth, maxHeight int) string {
	leftLines := strings.Split(left, "\n")
	rightLines := strings.Split(right, "\n")

	// Pad to equal height.
	maxLines := max(len(leftLines), len(rightLines))
	if maxLines > maxHeight {
		maxLines = maxHeight
	}
	for len(leftLines) < maxLines {
		leftLines = append(leftLines, "")
	}
	for len(rightLines) < maxLines {
		rightLines = append(rightLines, "")
	}

	sep := dimStyle.Render("│")
	var b strings.Builder
	for i := 0; i < maxLines; i++ {
		l := padOrTruncate(stripAnsi(leftLines[i]), leftLines[i], leftWidth)
		r := rightLines[i]
		b.WriteString(l)
		b.WriteString(" ")
		b.WriteString(sep)
		b.WriteString(" ")
		b.WriteString(r)
		b.WriteRune('\n')
	}
	return b.String()
}

// padOrTruncate pads or truncates a line to the target visible width.
// raw is the string without ANSI codes (for width calculation),
// styled is the actual string with ANSI codes.
func padOrTruncate(raw, styled string, width int) string {
	visWidth := len(raw)
	if visWidth >= width {
		// Truncate: just use raw truncated (lose styling on overflow).
		if len(raw) > width {
			return raw[:width]
		}
		return styled
	}
	// Pad with spaces.
	return styled + strings.Repeat(" ", width-visWidth)
}

// stripAnsi removes ANSI escape sequences for width calculations.
func stripAnsi(s string) string {
	var b strings.Builder
	inEsc := false
	for _, r := range s {
		if r == '\x1b' {
			inEsc = true
			continue
		}
		if inEsc {
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEsc = false
			}
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// --- Helpers ---

// truncateLines truncates each line in content to at most width visible
// characters, preserving ANSI escape codes. This prevents terminal line
// wrapping when the window is resized narrower.
func truncateLines(content string, width int) string {
	if width <= 0 {
		return content
	}
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if lipgloss.Width(line) > width {
			lines[i] = ansi.Truncate(line, width, "")
		}
	}
	return strings.Join(lines, "\n")
}

// wrapText breaks s into lines of at most width characters, splitting on
// word boundaries where possible. If a single word exceeds width it is
// hard-split. Embedded newlines are respected — each paragraph is wrapped
// independently.
func wrapText(s string, width int) []string {
	if width <= 0 {
		width = 80
	}

	// Split on existing newlines first so embedded \n is respected.
	paragraphs := strings.Split(s, "\n")
	var lines []string
	for _, para := range paragraphs {
		lines = append(lines, wrapParagraph(para, width)...)
	}
	return lines
}

// wrapParagraph wraps a single paragraph (no embedded newlines) to width.
func wrapParagraph(s string, width int) []string {
	if len(s) <= width {
		return []string{s}
	}

	var lines []string
	for len(s) > 0 {
		if len(s) <= width {
			lines = append(lines, s)
			break
		}
		// Try to break at a space at or before position width.
		cut := -1
		for i := width; i > 0; i-- {
			if s[i] == ' ' {
				cut = i
				break
			}
		}
		if cut <= 0 {
			// No space found — hard-split at width.
			cut = width
			lines = append(lines, s[:cut])
			s = s[cut:]
		} else {
			lines = append(lines, s[:cut])
			s = s[cut+1:] // skip the space
		}
	}
	return lines
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
