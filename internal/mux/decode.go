package mux

import (
	"fmt"
	"strconv"
	"strings"
)

// Result is the response to a single enqueued command.
type Result struct {
	BeginTS string
	CmdNum  string
	Flags   string
	Lines   []string
	Error   bool
}

// Notification is any decoded control-mode line that is not part of a
// %begin/%end/%error result block.
type Notification struct {
	Marker string
	Rest   string

	// Populated for the markers this module understands; other markers
	// still decode successfully with just Marker/Rest set (Unknown).
	PaneID        string // %output, %pane-mode-changed, ...
	Output        string // %output
	WindowID      string // %layout-change, %window-add, ...
	Layout        string // %layout-change
	VisibleLayout string // %layout-change
}

// ParseError marks a line that could not be interpreted as control-mode
// output. It is always local and never propagates past the decoder.
type ParseError struct {
	Line string
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("mux: parse error: %s: %q", e.Msg, e.Line)
}

// Decoder accumulates %begin/%end/%error blocks and turns everything else
// into Notification values.
type Decoder struct {
	in_block   bool
	block      Result
	on_result  func(Result)
	on_notify  func(Notification)
	on_parse_e func(*ParseError)
}

// NewDecoder constructs a Decoder that invokes onResult for completed
// command results and onNotify for every other decoded line. onParseErr
// may be nil; when set it receives local parse errors for logging.
func NewDecoder(onResult func(Result), onNotify func(Notification), onParseErr func(*ParseError)) *Decoder {
	return &Decoder{on_result: onResult, on_notify: onNotify, on_parse_e: onParseErr}
}

// Feed decodes a single raw line (without its trailing newline).
func (d *Decoder) Feed(line string) {
	if !strings.HasPrefix(line, "%") {
		if d.in_block {
			// Body line inside a %begin/%end block.
			d.block.Lines = append(d.block.Lines, line)
			return
		}
		d.report_parse_error(line, "line outside result block does not start with %")
		return
	}

	marker, rest := split_marker(line)

	switch marker {
	case "begin":
		ts, num, flags := split3(rest)
		d.in_block = true
		d.block = Result{BeginTS: ts, CmdNum: num, Flags: flags}
		return
	case "end", "error":
		if !d.in_block {
			d.report_parse_error(line, "end/error without matching begin")
			return
		}
		d.block.Error = marker == "error"
		d.in_block = false
		result := d.block
		d.block = Result{}
		if d.on_result != nil {
			d.on_result(result)
		}
		return
	}

	if d.in_block {
		// Shouldn't normally happen (another marker inside a block), but
		// tmux never interleaves; treat it as a body line defensively.
		d.block.Lines = append(d.block.Lines, line)
		return
	}

	n := Notification{Marker: marker, Rest: rest}
	decorate_notification(&n)
	if d.on_notify != nil {
		d.on_notify(n)
	}
}

func (d *Decoder) report_parse_error(line, msg string) {
	if d.on_parse_e != nil {
		d.on_parse_e(&ParseError{Line: line, Msg: msg})
	}
}

func split_marker(line string) (marker, rest string) {
	line = strings.TrimPrefix(line, "%")
	if i := strings.IndexByte(line, ' '); i >= 0 {
		return line[:i], line[i+1:]
	}
	return line, ""
}

func split3(s string) (a, b, c string) {
	fields := strings.SplitN(s, " ", 3)
	for len(fields) < 3 {
		fields = append(fields, "")
	}
	return fields[0], fields[1], fields[2]
}

func decorate_notification(n *Notification) {
	switch n.Marker {
	case "output":
		id, data := split_space(n.Rest)
		n.PaneID = id
		n.Output = unescape_octal(data)
	case "layout-change":
		fields := strings.SplitN(n.Rest, " ", 4)
		if len(fields) > 0 {
			n.WindowID = fields[0]
		}
		if len(fields) > 1 {
			n.Layout = fields[1]
		}
		if len(fields) > 2 {
			n.VisibleLayout = fields[2]
		}
	case "window-add", "window-close", "window-renamed", "unlinked-window-add",
		"unlinked-window-close", "session-window-changed":
		id, _ := split_space(n.Rest)
		n.WindowID = id
	case "pane-mode-changed":
		id, _ := split_space(n.Rest)
		n.PaneID = id
	}
}

func split_space(s string) (first, rest string) {
	if i := strings.IndexByte(s, ' '); i >= 0 {
		return s[:i], s[i+1:]
	}
	return s, ""
}

// unescape_octal decodes tmux's \NNN octal byte escapes used in %output
// payloads (tmux escapes bytes that would otherwise break the line-based
// protocol: backslash, newline, and non-printable bytes).
func unescape_octal(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+3 < len(s) {
			if v, err := strconv.ParseUint(s[i+1:i+4], 8, 8); err == nil {
				b.WriteByte(byte(v))
				i += 3
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
