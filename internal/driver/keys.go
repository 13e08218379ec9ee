package driver

import "strings"

// Modifier is a bitmask of held modifier keys, normalized from whatever
// input toolkit the host UI uses.
type Modifier int

const (
	ModNone  Modifier = 0
	ModCtrl  Modifier = 1
	ModAlt   Modifier = 2
	ModShift Modifier = 4
)

// Key identifies a non-printable key by name; printable input is carried
// directly as KeyEvent.Text instead.
type Key int

const (
	KeyNone Key = iota
	KeyBackspace
	KeyTab
	KeyInsert
	KeyDelete
	KeyPageUp
	KeyPageDown
	KeyHome
	KeyEnd
	KeyUp
	KeyDown
	KeyRight
	KeyLeft
)

// KeyEvent is a normalized keypress: either a named Key or literal Text,
// plus held modifiers.
type KeyEvent struct {
	Key  Key
	Text string
	Mods Modifier
}

const esc = "\x1b"

var namedKeyBytes = map[Key]string{
	KeyBackspace: "\b",
	KeyTab:       "\t",
	KeyInsert:    esc + "[2~",
	KeyDelete:    esc + "[3~",
	KeyPageUp:    esc + "[5~",
	KeyPageDown:  esc + "[6~",
	KeyHome:      esc + "[1~",
	KeyEnd:       esc + "[4~",
	KeyUp:        esc + "[A",
	KeyDown:      esc + "[B",
	KeyRight:     esc + "[C",
	KeyLeft:      esc + "[D",
}

var arrowKeys = map[Key]bool{
	KeyUp: true, KeyDown: true, KeyRight: true, KeyLeft: true,
}

// encodeKeypress maps ev to the wire bytes to send to tmux, or ("", false)
// if the combination should be dropped entirely (see the Alt+Ctrl/Shift
// rule below). The returned string is raw bytes, not yet send-keys quoted.
func encodeKeypress(ev KeyEvent) (string, bool) {
	var key string
	if mapped, ok := namedKeyBytes[ev.Key]; ok {
		key = mapped
		if arrowKeys[ev.Key] && ev.Mods&ModCtrl != 0 {
			// Splice "1;5" into the CSI sequence: ESC[A -> ESC[1;5A.
			key = key[:2] + "1;5" + key[2:]
		}
	} else {
		key = ev.Text
	}

	if ev.Mods&ModAlt != 0 {
		if ev.Mods&(ModCtrl|ModShift) != 0 {
			// Deliberate compatibility drop: Alt combined with Ctrl
			// and/or Shift on Insert/Delete/PageUp/PageDown/Home/End
			// would otherwise produce intermediate escape sequences
			// some full-screen programs mishandle.
			return "", false
		}
		key = esc + key
	}

	return key, true
}

// escapeSemicolons escapes every bare ';' in s, since tmux treats an
// unescaped ';' as a command separator even inside send-keys -l text.
func escapeSemicolons(s string) string {
	if !strings.Contains(s, ";") {
		return s
	}
	return strings.ReplaceAll(s, ";", "\\;")
}

// ScrollDirection normalizes both discrete and smooth-scroll wheel events.
type ScrollDirection int

const (
	ScrollNone ScrollDirection = iota
	ScrollUp
	ScrollDown
)

// ScrollEvent is a normalized mouse wheel event.
type ScrollEvent struct {
	Direction ScrollDirection
	// DeltaY carries a smooth-scroll delta when Direction is ScrollNone;
	// DeltaY <= 0 means up, > 0 means down, matching the convention the
	// host toolkit's smooth-scroll axis uses.
	DeltaY float64
}

func (ev ScrollEvent) normalize() ScrollDirection {
	if ev.Direction != ScrollNone {
		return ev.Direction
	}
	if ev.DeltaY <= 0 {
		return ScrollUp
	}
	return ScrollDown
}

const (
	wheelUpKeys   = "C-y C-y C-y"
	wheelDownKeys = "C-e C-e C-e"
)

func wheelKeysFor(dir ScrollDirection) string {
	if dir == ScrollUp {
		return wheelUpKeys
	}
	return wheelDownKeys
}
