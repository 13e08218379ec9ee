package demoui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/elvisnm/wtmux/internal/driver"
)

// translateKey normalizes a bubbletea KeyMsg into the driver.KeyEvent shape
// the Session Driver's key table expects. Reserved bindings (quit, pane
// switching, reinit) are matched before this is ever called, so anything
// reaching here is meant for the active pane.
func translateKey(msg tea.KeyMsg) (driver.KeyEvent, bool) {
	if key, mods, ok := decodeKeyString(msg.String()); ok {
		return driver.KeyEvent{Key: key, Mods: mods}, true
	}

	mods := driver.ModNone
	if msg.Alt {
		mods |= driver.ModAlt
	}
	switch msg.Type {
	case tea.KeyRunes:
		return driver.KeyEvent{Text: string(msg.Runes), Mods: mods}, true
	case tea.KeySpace:
		return driver.KeyEvent{Text: " ", Mods: mods}, true
	case tea.KeyEnter:
		return driver.KeyEvent{Text: "\r", Mods: mods}, true
	default:
		return driver.KeyEvent{}, false
	}
}

// decodeKeyString parses a bubbletea Key.String() value (e.g. "ctrl+up",
// "alt+shift+pgdown") into a named driver.Key plus modifiers. Reports false
// for anything that isn't one of the named keys in the driver's table,
// leaving printable runes to translateKey's fallback path.
func decodeKeyString(s string) (driver.Key, driver.Modifier, bool) {
	mods := driver.ModNone
	for {
		switch {
		case hasPrefix(s, "alt+"):
			s = s[len("alt+"):]
			mods |= driver.ModAlt
		case hasPrefix(s, "ctrl+"):
			s = s[len("ctrl+"):]
			mods |= driver.ModCtrl
		case hasPrefix(s, "shift+"):
			s = s[len("shift+"):]
			mods |= driver.ModShift
		default:
			key, ok := namedKeyFor(s)
			return key, mods, ok
		}
	}
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

func namedKeyFor(s string) (driver.Key, bool) {
	switch s {
	case "backspace":
		return driver.KeyBackspace, true
	case "tab":
		return driver.KeyTab, true
	case "insert":
		return driver.KeyInsert, true
	case "delete":
		return driver.KeyDelete, true
	case "pgup":
		return driver.KeyPageUp, true
	case "pgdown":
		return driver.KeyPageDown, true
	case "home":
		return driver.KeyHome, true
	case "end":
		return driver.KeyEnd, true
	case "up":
		return driver.KeyUp, true
	case "down":
		return driver.KeyDown, true
	case "right":
		return driver.KeyRight, true
	case "left":
		return driver.KeyLeft, true
	default:
		return driver.KeyNone, false
	}
}

// translateScroll normalizes a bubbletea MouseMsg wheel event into a
// driver.ScrollEvent, or reports false for non-wheel mouse events this demo
// doesn't forward.
func translateScroll(msg tea.MouseMsg) (driver.ScrollEvent, bool) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		return driver.ScrollEvent{Direction: driver.ScrollUp}, true
	case tea.MouseButtonWheelDown:
		return driver.ScrollEvent{Direction: driver.ScrollDown}, true
	default:
		return driver.ScrollEvent{}, false
	}
}
