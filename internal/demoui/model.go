package demoui

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/elvisnm/wtmux/internal/driver"
)

// KeyMap mirrors the teacher dashboard's bubbles/key style: named bindings
// with their own help text, even though this demo only needs a handful.
type KeyMap struct {
	Quit       key.Binding
	NextPane   key.Binding
	PrevPane   key.Binding
	NextWindow key.Binding
	Bootstrap  key.Binding
}

var Keys = KeyMap{
	Quit: key.NewBinding(
		key.WithKeys("ctrl+q"),
		key.WithHelp("ctrl+q", "quit"),
	),
	NextPane: key.NewBinding(
		key.WithKeys("ctrl+n"),
		key.WithHelp("ctrl+n", "next pane"),
	),
	PrevPane: key.NewBinding(
		key.WithKeys("ctrl+p"),
		key.WithHelp("ctrl+p", "prev pane"),
	),
	NextWindow: key.NewBinding(
		key.WithKeys("ctrl+w"),
		key.WithHelp("ctrl+w", "next window"),
	),
	Bootstrap: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "reinit"),
	),
}

// Model is the bubbletea root model for the demo client. It is always used
// as a pointer so driver.LayoutHost/IdleQueue callbacks (invoked from the
// dispatcher goroutine) can safely hand work back to the Elm loop via
// program.Send, which is goroutine-safe by bubbletea's own contract.
type Model struct {
	mu sync.Mutex

	width, height int
	ready         bool

	drv     *driver.Driver
	program *tea.Program
	binary  string
	session string

	windows    []string // window ids, in the order Bootstrap discovered them
	winIdx     int      // index into windows of the one currently rendered
	trees      map[string]treeNode
	paneWindow map[string]string // pane id -> owning window id
	views      map[string]*paneView
	activeIdx  int

	status string
	log    *slog.Logger
}

// New constructs a Model. Call SetProgram once the tea.Program wrapping it
// exists, before Run is called.
func New(binary, session string, log *slog.Logger) *Model {
	if log == nil {
		log = slog.Default()
	}
	m := &Model{
		binary:     binary,
		session:    session,
		trees:      make(map[string]treeNode),
		paneWindow: make(map[string]string),
		views:      make(map[string]*paneView),
		log:        log,
	}
	m.drv = driver.New(idleAdapter{m}, m.newTerminal, log)
	return m
}

// SetProgram wires the bubbletea program the model's async collaborator
// callbacks send into.
func (m *Model) SetProgram(p *tea.Program) { m.program = p }

// Driver exposes the underlying driver for the entrypoint to Start/Shutdown.
func (m *Model) Driver() *driver.Driver { return m.drv }

type (
	idleMsg  struct{ fn func() }
	splitMsg struct {
		windowID    string
		targetID    string
		vertical    bool
		siblingID   string
		widgetFirst bool
	}
	closeMsg  struct{ paneID string }
	dirtyMsg  struct{}
	statusMsg struct{ text string }
)

// idleAdapter implements driver.IdleQueue by funneling fn through the
// bubbletea program's message queue, matching the spec's requirement that
// dispatcher-thread work posts to the UI's own idle queue instead of
// touching widgets directly.
type idleAdapter struct{ m *Model }

func (a idleAdapter) Post(fn func()) bool {
	if a.m.program != nil {
		a.m.program.Send(idleMsg{fn: fn})
	} else {
		fn()
	}
	return false
}

// newTerminal implements driver.NewTerminalFunc.
func (m *Model) newTerminal(cwd string) driver.TerminalView {
	w, h := m.paneSize()
	return newPaneView(m, cwd, w, h)
}

func (m *Model) paneSize() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, h := m.width, m.height-2
	if w <= 0 {
		w = 80
	}
	if h <= 0 {
		h = 24
	}
	n := len(leafIDs(m.trees[m.currentWindowLocked()]))
	if n > 1 {
		w /= 2
	}
	return w, h
}

// currentWindowLocked returns the id of the window currently rendered.
// Callers must hold m.mu.
func (m *Model) currentWindowLocked() string {
	if m.winIdx < 0 || m.winIdx >= len(m.windows) {
		return ""
	}
	return m.windows[m.winIdx]
}

// SplitAxis implements driver.LayoutHost. It's invoked from the dispatcher
// goroutine, so it only records enough to reconstruct the split and hands
// the actual tree mutation to Update via program.Send.
func (m *Model) SplitAxis(existing driver.TerminalView, vertical bool, sibling driver.TerminalView, widgetFirst bool) {
	m.mu.Lock()
	windowID := m.paneWindow[existing.PaneID()]
	m.mu.Unlock()

	msg := splitMsg{
		windowID:    windowID,
		targetID:    existing.PaneID(),
		vertical:    vertical,
		siblingID:   sibling.PaneID(),
		widgetFirst: widgetFirst,
	}
	if m.program != nil {
		m.program.Send(msg)
	} else {
		m.applySplit(msg)
	}
}

func (m *Model) applySplit(msg splitMsg) {
	m.mu.Lock()
	defer m.mu.Unlock()

	leaf := leafNode{paneID: msg.targetID}
	var replacement treeNode
	if msg.widgetFirst {
		replacement = &splitNode{vertical: msg.vertical, first: leaf, second: leafNode{paneID: msg.siblingID}}
	} else {
		replacement = &splitNode{vertical: msg.vertical, first: leafNode{paneID: msg.siblingID}, second: leaf}
	}

	m.paneWindow[msg.siblingID] = msg.windowID

	tree := m.trees[msg.windowID]
	if tree == nil {
		m.trees[msg.windowID] = replacement
		return
	}
	if new, ok := replacePane(tree, msg.targetID, replacement); ok {
		m.trees[msg.windowID] = new
	}
}

func (m *Model) notifyDirty() {
	if m.program != nil {
		m.program.Send(dirtyMsg{})
	}
}

func (m *Model) closePane(paneID string) {
	if m.program != nil {
		m.program.Send(closeMsg{paneID: paneID})
	}
}

func (m *Model) applyClose(paneID string) {
	m.mu.Lock()
	windowID := m.paneWindow[paneID]
	if tree, ok := m.trees[windowID]; ok {
		if new, ok := removePane(tree, paneID); ok {
			m.trees[windowID] = new
		}
	}
	delete(m.views, paneID)
	delete(m.paneWindow, paneID)
	m.mu.Unlock()
	m.drv.RemoveTerminal(paneID)
}

func (m *Model) registerView(windowID, paneID string, v *paneView) {
	m.mu.Lock()
	m.views[paneID] = v
	m.paneWindow[paneID] = windowID
	m.mu.Unlock()
}

func (m *Model) Init() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if err := m.drv.Start(ctx, m.binary, m.session); err != nil {
			return statusMsg{text: fmt.Sprintf("start failed: %v", err)}
		}
		if err := m.drv.Bootstrap(ctx); err != nil {
			return statusMsg{text: fmt.Sprintf("bootstrap failed: %v", err)}
		}
		m.adoptInitialLayout()
		return statusMsg{text: "attached to " + m.session}
	}
}

// adoptInitialLayout seeds the demo's render trees from the widget map
// Bootstrap published via layout.ConvertToUILayout, registering a view for
// every pane of every window that already existed at attach time — not
// just the first pane of the first window — so a session with pre-existing
// splits renders fully instead of only showing whichever pane was looked
// at first.
func (m *Model) adoptInitialLayout() {
	wins := m.drv.Windows()
	if len(wins) == 0 {
		return
	}
	widgets := m.drv.InitialLayout()

	rootParent := "window0"
	if len(wins) > 1 {
		rootParent = "notebook0"
	}

	m.mu.Lock()
	m.windows = wins
	m.winIdx = 0
	m.mu.Unlock()

	for i, winID := range wins {
		tree := buildWindowTree(widgets, rootParent, i)
		if tree == nil {
			continue
		}

		m.mu.Lock()
		m.trees[winID] = tree
		m.mu.Unlock()

		for _, paneID := range leafIDs(tree) {
			view := m.newTerminal("").(*paneView)
			m.drv.AddTerminal(paneID, view)
			m.registerView(winID, paneID, view)
		}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.mu.Lock()
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		views := make([]*paneView, 0, len(m.views))
		for _, v := range m.views {
			views = append(views, v)
		}
		m.mu.Unlock()
		w, h := m.paneSize()
		for _, v := range views {
			v.resize(w, h)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, Keys.Quit):
			m.drv.Shutdown()
			return m, tea.Quit
		case key.Matches(msg, Keys.NextPane):
			m.cyclePane(1)
			return m, nil
		case key.Matches(msg, Keys.PrevPane):
			m.cyclePane(-1)
			return m, nil
		case key.Matches(msg, Keys.NextWindow):
			m.cycleWindow()
			return m, nil
		case key.Matches(msg, Keys.Bootstrap):
			if m.drv.NeedsReinit() {
				go func() {
					if err := m.drv.Bootstrap(context.Background()); err == nil {
						m.adoptInitialLayout()
						m.drv.ClearReinit()
					}
				}()
			}
			return m, nil
		}
		m.forwardKey(msg)
		return m, nil

	case tea.MouseMsg:
		m.forwardMouse(msg)
		return m, nil

	case idleMsg:
		msg.fn()
		return m, nil

	case splitMsg:
		m.applySplit(msg)
		return m, nil

	case closeMsg:
		m.applyClose(msg.paneID)
		return m, nil

	case dirtyMsg:
		return m, nil

	case statusMsg:
		m.mu.Lock()
		m.status = msg.text
		m.mu.Unlock()
		return m, nil
	}

	return m, nil
}

func (m *Model) cyclePane(delta int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := leafIDs(m.trees[m.currentWindowLocked()])
	if len(ids) == 0 {
		return
	}
	m.activeIdx = (m.activeIdx + delta + len(ids)) % len(ids)
}

func (m *Model) cycleWindow() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.windows) == 0 {
		return
	}
	m.winIdx = (m.winIdx + 1) % len(m.windows)
	m.activeIdx = 0
}

func (m *Model) activePaneID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := leafIDs(m.trees[m.currentWindowLocked()])
	if len(ids) == 0 {
		return ""
	}
	if m.activeIdx >= len(ids) {
		m.activeIdx = 0
	}
	return ids[m.activeIdx]
}

func (m *Model) forwardKey(msg tea.KeyMsg) {
	id := m.activePaneID()
	if id == "" {
		return
	}
	ev, ok := translateKey(msg)
	if !ok {
		return
	}
	if err := m.drv.SendKeypress(id, ev); err != nil {
		m.log.Warn("demoui: send keypress failed", "pane_id", id, "error", err)
	}
}

func (m *Model) forwardMouse(msg tea.MouseMsg) {
	id := m.activePaneID()
	if id == "" {
		return
	}
	ev, ok := translateScroll(msg)
	if !ok {
		return
	}
	handled, err := m.drv.SendMousewheel(id, ev)
	if err != nil {
		m.log.Warn("demoui: send mousewheel failed", "pane_id", id, "error", err)
	}
	_ = handled // the demo has no native scrollback fallback to engage
}

func (m *Model) View() string {
	m.mu.Lock()
	ready := m.ready
	status := m.status
	tree := m.trees[m.currentWindowLocked()]
	active := ""
	ids := leafIDs(tree)
	if len(ids) > 0 {
		if m.activeIdx >= len(ids) {
			m.activeIdx = 0
		}
		active = ids[m.activeIdx]
	}
	windowLabel := fmt.Sprintf("window %d/%d", m.winIdx+1, len(m.windows))
	views := make(map[string]*paneView, len(m.views))
	for k, v := range m.views {
		views[k] = v
	}
	m.mu.Unlock()

	if !ready {
		return "starting…\n"
	}

	body := renderTree(tree, views, active)
	statusBar := lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Render(windowLabel + " — " + status)
	return lipgloss.JoinVertical(lipgloss.Left, body, statusBar)
}

func renderTree(n treeNode, views map[string]*paneView, active string) string {
	switch t := n.(type) {
	case nil:
		return "(no panes)"
	case leafNode:
		v, ok := views[t.paneID]
		if !ok {
			return ""
		}
		style := lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240"))
		if t.paneID == active {
			style = style.BorderForeground(lipgloss.Color("34"))
		}
		return style.Render(v.render())
	case *splitNode:
		first := renderTree(t.first, views, active)
		second := renderTree(t.second, views, active)
		if t.vertical {
			return lipgloss.JoinVertical(lipgloss.Left, first, second)
		}
		return lipgloss.JoinHorizontal(lipgloss.Top, first, second)
	default:
		return ""
	}
}
