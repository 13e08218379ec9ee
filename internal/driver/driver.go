// Package driver implements the Session Driver: it ties a mux.Dispatcher
// and layout tracking to a concrete tmux session, and exposes a small
// collaborator-interface surface so a host terminal UI can stay in sync
// with the multiplexer's panes without polling.
package driver

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/elvisnm/wtmux/internal/layout"
	"github.com/elvisnm/wtmux/internal/mux"
)

// TerminalView is a single pane's host-side widget.
type TerminalView interface {
	Write(p []byte)
	Close()
	Cwd() string
	SetPaneID(id string)
	PaneID() string
	Parent() LayoutHost
}

// LayoutHost is the container a TerminalView lives in; it's asked to
// split itself when a new sibling pane appears.
type LayoutHost interface {
	SplitAxis(existing TerminalView, vertical bool, sibling TerminalView, widgetFirst bool)
}

// IdleQueue defers work to the host UI's own event loop (e.g. a GTK/Tk
// idle callback or a bubbletea Cmd), matching the embedding toolkit's
// threading rules. Post returns false to mean "ran once, don't
// reschedule" — callers that need one-shot semantics return false from
// fn's caller-visible wrapper.
type IdleQueue interface {
	Post(fn func()) bool
}

// NewTerminalFunc constructs a fresh TerminalView when the driver needs to
// create one in response to a layout change (a pane was split).
type NewTerminalFunc func(cwd string) TerminalView

// Driver owns one tmux session's control-mode connection and the pane
// registry a host UI needs kept current.
type Driver struct {
	log *slog.Logger

	ls   *mux.LineSource
	pipe *mux.Pipeline
	disp *mux.Dispatcher

	idle    IdleQueue
	newTerm NewTerminalFunc

	mu             sync.Mutex
	views          map[string]TerminalView          // pane id -> view
	layouts        map[string]layout.Node           // window id -> cached tree
	windowOrder    []string
	initialWidgets map[string]layout.WidgetDesc // published by Bootstrap
	alternateFlag  map[string]bool              // pane id -> alternate-screen state
	needsReinit    bool

	sessionName string
}

// New constructs a Driver. idle and newTerm must be non-nil; log may be
// nil (defaults to slog.Default()).
func New(idle IdleQueue, newTerm NewTerminalFunc, log *slog.Logger) *Driver {
	if log == nil {
		log = slog.Default()
	}
	return &Driver{
		log:           log,
		idle:          idle,
		newTerm:       newTerm,
		views:         make(map[string]TerminalView),
		layouts:       make(map[string]layout.Node),
		alternateFlag: make(map[string]bool),
	}
}

// Start spawns `binary -C attach-session -t sessionName` (or creates the
// session first via a plain, non-control-mode tmux invocation if it
// doesn't already exist — left to the caller, since session creation
// policy is host-specific) and wires the dispatcher's built-in handlers.
func (d *Driver) Start(ctx context.Context, binary, sessionName string) error {
	ls, err := mux.Spawn(ctx, binary, []string{"-C", "attach-session", "-t", sessionName})
	if err != nil {
		return fmt.Errorf("driver: start: %w", err)
	}

	d.mu.Lock()
	d.ls = ls
	d.pipe = mux.NewPipeline(ls)
	d.disp = mux.NewDispatcher(ls, d.pipe, d.log)
	d.sessionName = sessionName
	d.mu.Unlock()

	d.disp.SetLayoutSync(layoutSyncAdapter{d})
	d.disp.AddHandler("output", d.handleOutput)

	go d.disp.Run(ctx)

	return nil
}

// Shutdown stops the dispatcher, closes the pipeline, and kills the
// subprocess.
func (d *Driver) Shutdown() {
	d.mu.Lock()
	ls := d.ls
	pipe := d.pipe
	d.mu.Unlock()

	if pipe != nil {
		pipe.Close()
	}
	if ls != nil {
		ls.Kill()
	}
}

// AddTerminal registers the view responsible for rendering paneID.
func (d *Driver) AddTerminal(paneID string, view TerminalView) {
	d.mu.Lock()
	defer d.mu.Unlock()
	view.SetPaneID(paneID)
	d.views[paneID] = view
}

// RemoveTerminal unregisters a pane's view.
func (d *Driver) RemoveTerminal(paneID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.views, paneID)
	delete(d.alternateFlag, paneID)
}

// AddHandler exposes the dispatcher's handler registration for
// notification markers the driver doesn't otherwise special-case.
func (d *Driver) AddHandler(marker string, fn mux.Handler) {
	d.mu.Lock()
	disp := d.disp
	d.mu.Unlock()
	if disp != nil {
		disp.AddHandler(marker, fn)
	}
}

// Bootstrap issues `list-windows` and seeds the driver's cached layout
// trees from the result, so the first incremental %layout-change diff has
// something correct to diff against instead of an empty tree. It then
// publishes an initial UI layout via layout.ConvertToUILayout, covering
// every pane of every window already present at attach time — not just
// whichever pane a host happens to look at first.
func (d *Driver) Bootstrap(ctx context.Context) error {
	d.mu.Lock()
	pipe := d.pipe
	d.mu.Unlock()
	if pipe == nil {
		return fmt.Errorf("driver: not started")
	}

	ch, err := pipe.Enqueue(`list-windows -F "#{window_id} #{window_layout}"`)
	if err != nil {
		return err
	}

	res := <-ch
	d.HandleCommandResult(res)
	if res.Error {
		return fmt.Errorf("driver: list-windows failed: %s", strings.Join(res.Lines, "\n"))
	}

	d.mu.Lock()
	d.windowOrder = d.windowOrder[:0]
	for _, line := range res.Lines {
		id, layoutStr, ok := strings.Cut(line, " ")
		if !ok {
			continue
		}
		tree, err := layout.Parse(layoutStr)
		if err != nil {
			d.log.Debug("driver: bootstrap layout parse error", "window_id", id, "error", err)
			continue
		}
		d.layouts[id] = tree
		d.windowOrder = append(d.windowOrder, id)
	}
	d.initialWidgets = layout.ConvertToUILayout(d.layouts, d.windowOrder)
	d.mu.Unlock()
	return nil
}

// InitialLayout returns the widget map Bootstrap published, keyed by
// generated widget name. Callers use it to seed views for every pane of
// every window that existed at attach time; it's empty until Bootstrap has
// run.
func (d *Driver) InitialLayout() map[string]layout.WidgetDesc {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make(map[string]layout.WidgetDesc, len(d.initialWidgets))
	for k, v := range d.initialWidgets {
		out[k] = v
	}
	return out
}

// Windows returns the ids of windows the driver currently has a cached
// layout tree for, in the order they were first seen.
func (d *Driver) Windows() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.windowOrder))
	copy(out, d.windowOrder)
	return out
}

// layoutSyncAdapter lets Driver implement mux.LayoutSync without exposing
// HandleLayoutChange directly on Driver's own method set (keeping it out
// of the collaborator-facing API surface).
type layoutSyncAdapter struct{ d *Driver }

func (a layoutSyncAdapter) HandleLayoutChange(n mux.Notification) {
	a.d.handleLayoutChange(n)
}

func (d *Driver) handleLayoutChange(n mux.Notification) {
	newTree, err := layout.Parse(n.Layout)
	if err != nil {
		d.log.Debug("driver: layout parse error", "window_id", n.WindowID, "error", err)
		return
	}

	d.mu.Lock()
	oldTree, hadOld := d.layouts[n.WindowID]
	d.layouts[n.WindowID] = newTree
	if !hadOld {
		d.windowOrder = append(d.windowOrder, n.WindowID)
		d.mu.Unlock()
		return
	}
	d.mu.Unlock()

	added, removed := layout.Diff(oldTree, newTree, d.log)

	if len(removed) > 0 {
		d.scheduleCloseViews(removed)
		return
	}

	if len(added) == 1 {
		d.splitForNewPane(added[0], newTree)
	}
	// len(added) > 1 is logged by layout.Diff itself; no incremental
	// surgery is attempted, matching the single-split invariant.
}

func (d *Driver) scheduleCloseViews(removed []layout.Pane) {
	d.mu.Lock()
	views := make([]TerminalView, 0, len(removed))
	for _, p := range removed {
		if v, ok := d.views[p.PaneID]; ok {
			views = append(views, v)
		}
	}
	d.mu.Unlock()

	d.idle.Post(func() {
		for _, v := range views {
			v.Close()
		}
	})
}

func (d *Driver) splitForNewPane(newPane layout.Pane, tree layout.Node) {
	parent, ok := layout.ParentOf(newPane.PaneID, tree)
	if !ok {
		d.log.Warn("driver: could not locate parent for new pane", "pane_id", newPane.PaneID)
		return
	}

	var siblings []layout.Node
	vertical := false
	switch t := parent.(type) {
	case layout.Horizontal:
		siblings = t.Children
		vertical = false
	case layout.Vertical:
		siblings = t.Children
		vertical = true
	default:
		return
	}

	idx := -1
	for i, c := range siblings {
		if p, ok := c.(layout.Pane); ok && p.PaneID == newPane.PaneID {
			idx = i
			break
		}
	}
	if idx <= 0 {
		d.log.Warn("driver: new pane has no previous sibling", "pane_id", newPane.PaneID)
		return
	}

	prevPane, ok := siblings[idx-1].(layout.Pane)
	if !ok {
		// Previous sibling is itself a container (a split within a
		// split adjacent to ours); nothing sensible to attach to yet.
		return
	}

	d.mu.Lock()
	oldView, ok := d.views[prevPane.PaneID]
	d.mu.Unlock()
	if !ok {
		return
	}

	newView := d.newTerm(oldView.Cwd())
	d.AddTerminal(newPane.PaneID, newView)

	parentHost := oldView.Parent()
	if parentHost == nil {
		return
	}
	parentHost.SplitAxis(oldView, vertical, newView, true)
}

func (d *Driver) handleOutput(n mux.Notification) {
	d.mu.Lock()
	view, ok := d.views[n.PaneID]
	d.mu.Unlock()
	if !ok {
		return
	}

	d.updateAlternateScreen(n.PaneID, n.Output)
	view.Write([]byte(n.Output))
}

const (
	altScreenEnter = "\x1b[?1049h"
	altScreenExit  = "\x1b[?1049l"
)

// updateAlternateScreen toggles the pane's alternate-screen flag once for
// every occurrence of either marker, scanning left to right — the final
// value is the parity of the total count of both markers combined, not
// simply "last marker wins".
func (d *Driver) updateAlternateScreen(paneID, chunk string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	state := d.alternateFlag[paneID]
	rest := chunk
	for {
		enterIdx := strings.Index(rest, altScreenEnter)
		exitIdx := strings.Index(rest, altScreenExit)

		switch {
		case enterIdx < 0 && exitIdx < 0:
			d.alternateFlag[paneID] = state
			return
		case exitIdx < 0 || (enterIdx >= 0 && enterIdx < exitIdx):
			state = !state
			rest = rest[enterIdx+len(altScreenEnter):]
		default:
			state = !state
			rest = rest[exitIdx+len(altScreenExit):]
		}
	}
}

// SendContent sends quoted text to paneID via send-keys, adding -l only
// when the text contains the escape character.
func (d *Driver) SendContent(paneID, text string) error {
	return d.enqueueAndTrack(quoteSendKeysLiteral(paneID, text))
}

// enqueueAndTrack writes cmd to the pipeline and, once its Result arrives,
// runs it through HandleCommandResult — the only path (besides Bootstrap's
// own list-windows call) by which a "no such session" error can actually
// flip NeedsReinit, since ordinary key/content traffic is otherwise fired
// and forgotten.
func (d *Driver) enqueueAndTrack(cmd string) error {
	d.mu.Lock()
	pipe := d.pipe
	d.mu.Unlock()
	if pipe == nil {
		return fmt.Errorf("driver: not started")
	}

	ch, err := pipe.Enqueue(cmd)
	if err != nil {
		return err
	}
	go func() {
		d.HandleCommandResult(<-ch)
	}()
	return nil
}

// SendKeypress maps ev to its wire bytes and sends it to paneID.
func (d *Driver) SendKeypress(paneID string, ev KeyEvent) error {
	bytes, ok := encodeKeypress(ev)
	if !ok {
		return nil // dropped combination, not an error
	}
	return d.SendContent(paneID, bytes)
}

// SendMousewheel forwards a scroll event as repeated C-y/C-e key sends,
// but only while the pane is showing its alternate screen; otherwise it
// returns handled=false so the host UI scrolls its own scrollback buffer.
func (d *Driver) SendMousewheel(paneID string, ev ScrollEvent) (bool, error) {
	d.mu.Lock()
	alt := d.alternateFlag[paneID]
	d.mu.Unlock()

	if !alt {
		return false, nil
	}

	dir := ev.normalize()
	err := d.enqueueAndTrack(namedKeysCommand(paneID, wheelKeysFor(dir)))
	return true, err
}

// commandErrorResetsSession reports whether body (a %error block's
// accumulated lines) indicates the attached session is gone, which must
// reset cached layout state and force a re-bootstrap on next attach.
func commandErrorResetsSession(body []string) bool {
	joined := strings.Join(body, "\n")
	for _, needle := range []string{"can't find session", "no current session", "no sessions"} {
		if strings.Contains(joined, needle) {
			return true
		}
	}
	return false
}

// HandleCommandResult inspects a command's Result and, if it's an error
// matching the session-lost patterns, clears cached layout state and
// marks the driver as needing reinitialization.
func (d *Driver) HandleCommandResult(r mux.Result) {
	if !r.Error || !commandErrorResetsSession(r.Lines) {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.layouts = make(map[string]layout.Node)
	d.windowOrder = nil
	d.initialWidgets = nil
	d.needsReinit = true
}

// NeedsReinit reports whether the driver's cached state was reset due to
// a session-lost error and a fresh Bootstrap is required.
func (d *Driver) NeedsReinit() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.needsReinit
}

// ClearReinit clears the needs-reinit flag once the caller has
// successfully re-bootstrapped.
func (d *Driver) ClearReinit() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.needsReinit = false
}
