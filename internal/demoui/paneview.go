// Package demoui implements the three collaborator interfaces
// (driver.TerminalView, driver.LayoutHost, driver.IdleQueue) that
// internal/driver.Driver needs, on top of a bubbletea program so a real
// tmux control-mode session can be driven from a terminal UI.
package demoui

import (
	"sync"

	"github.com/charmbracelet/bubbles/viewport"

	"github.com/elvisnm/wtmux/internal/driver"
)

// paneView is one pane's host-side widget: a scrollback buffer rendered
// through a bubbles/viewport.Model. It implements driver.TerminalView.
//
// Write is called from the dispatcher goroutine (never the bubbletea Update
// goroutine), so buf is guarded by mu; the viewport itself is only ever
// touched from Update/View, which bubbletea guarantees run on one goroutine.
type paneView struct {
	model *Model

	mu     sync.Mutex
	buf    []byte
	cwd    string
	paneID string

	vp viewport.Model
}

func newPaneView(m *Model, cwd string, width, height int) *paneView {
	vp := viewport.New(width, height)
	return &paneView{model: m, cwd: cwd, vp: vp}
}

// Write implements driver.TerminalView. It appends raw output bytes to the
// pane's scrollback and asks the bubbletea program to re-render; decoding
// those bytes into terminal cells is explicitly out of this module's scope
// (delegated upstream to a real terminal-view collaborator) — here they are
// shown as plain text with control bytes stripped, which is enough to see
// the session driving tmux correctly.
func (p *paneView) Write(b []byte) {
	p.mu.Lock()
	p.buf = append(p.buf, stripControlBytes(b)...)
	if len(p.buf) > maxScrollback {
		p.buf = p.buf[len(p.buf)-maxScrollback:]
	}
	p.mu.Unlock()

	p.model.notifyDirty()
}

const maxScrollback = 1 << 20

// stripControlBytes drops ANSI CSI/OSC escape sequences and other C0
// control bytes except newline and tab, so the demo's plain-text viewport
// doesn't show raw escape garbage. It is not a terminal emulator.
func stripControlBytes(b []byte) []byte {
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		c := b[i]
		switch {
		case c == 0x1b:
			i = skipEscape(b, i)
		case c == '\n' || c == '\t':
			out = append(out, c)
		case c == '\r':
			// dropped: plain-text viewport has no cursor to return
		case c < 0x20 || c == 0x7f:
			// other control bytes dropped
		default:
			out = append(out, c)
		}
	}
	return out
}

// skipEscape returns the index of the last byte consumed by the escape
// sequence starting at b[i] (i itself when ESC is the last byte; any byte
// after ESC other than '[' or ']' is consumed as a two-byte sequence).
func skipEscape(b []byte, i int) int {
	if i+1 >= len(b) {
		return i
	}
	switch b[i+1] {
	case '[': // CSI: ESC [ params... final-byte
		j := i + 2
		for j < len(b) && (b[j] < 0x40 || b[j] > 0x7e) {
			j++
		}
		if j < len(b) {
			return j
		}
		return len(b) - 1
	case ']': // OSC: ESC ] ... BEL or ST (ESC \)
		j := i + 2
		for j < len(b) {
			if b[j] == 0x07 {
				return j
			}
			if b[j] == 0x1b && j+1 < len(b) && b[j+1] == '\\' {
				return j + 1
			}
			j++
		}
		return len(b) - 1
	default:
		return i + 1
	}
}

func (p *paneView) Close() {
	p.model.closePane(p.paneID)
}

func (p *paneView) Cwd() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cwd
}

func (p *paneView) SetPaneID(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paneID = id
}

func (p *paneView) PaneID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paneID
}

// Parent implements driver.TerminalView. The Model is the single
// LayoutHost for every pane; the split tree holds pane ids, not pointers
// back into paneView, so there's no view<->container reference cycle.
func (p *paneView) Parent() driver.LayoutHost {
	return p.model
}

// render feeds the pane's current scrollback into its viewport.Model and
// returns the rendered, scrolled view — bubbles/viewport owns wrapping and
// the scroll offset, this module only owns the raw byte buffer.
func (p *paneView) render() string {
	p.mu.Lock()
	content := string(p.buf)
	p.mu.Unlock()

	p.vp.SetContent(content)
	p.vp.GotoBottom()
	return p.vp.View()
}

func (p *paneView) resize(w, h int) {
	p.vp.Width = w
	p.vp.Height = h
}
