package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseError reports a failure to parse a window_layout string against the
// grammar in tmux(1)'s list-windows -F "#{window_layout}" output.
type ParseError struct {
	Input string
	Pos   int
	Msg   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("layout: %s at %d in %q", e.Msg, e.Pos, e.Input)
}

// Parse decodes a full window_layout string, including its leading
// checksum, into a Node tree. The checksum is validated only for shape
// (must be 4 hex digits followed by a comma) and then discarded — this
// module never recomputes or re-emits it since layouts are never
// synthesized client-side.
func Parse(s string) (Node, error) {
	p := &parser{s: s}
	if err := p.expect_checksum(); err != nil {
		return nil, err
	}
	n, err := p.parse_element()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.s) {
		return nil, &ParseError{Input: s, Pos: p.pos, Msg: "trailing input after top-level element"}
	}
	return n, nil
}

type parser struct {
	s   string
	pos int
}

func (p *parser) errorf(msg string) error {
	return &ParseError{Input: p.s, Pos: p.pos, Msg: msg}
}

func (p *parser) peek() byte {
	if p.pos >= len(p.s) {
		return 0
	}
	return p.s[p.pos]
}

func (p *parser) expect_checksum() error {
	// 4 hex digits followed by a comma, e.g. "c1b2,...".
	start := p.pos
	for p.pos < len(p.s) && is_hex(p.s[p.pos]) {
		p.pos++
	}
	if p.pos-start != 4 {
		return p.errorf("expected 4-hex-digit checksum")
	}
	if p.peek() != ',' {
		return p.errorf("expected ',' after checksum")
	}
	p.pos++ // consume comma
	return nil
}

func is_hex(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

// parse_element parses `element = container | pane`, where both begin
// with a shared `preamble`.
func (p *parser) parse_element() (Node, error) {
	w, h, x, y, err := p.parse_preamble()
	if err != nil {
		return nil, err
	}

	switch p.peek() {
	case '{', '[':
		open := p.peek()
		close := byte('}')
		if open == '[' {
			close = ']'
		}
		p.pos++ // consume open bracket

		var children []Node
		for {
			child, err := p.parse_element()
			if err != nil {
				return nil, err
			}
			children = append(children, child)

			switch p.peek() {
			case ',':
				p.pos++
				continue
			case close:
				p.pos++
			default:
				return nil, p.errorf(fmt.Sprintf("expected ',' or %q", close))
			}
			break
		}

		if open == '{' {
			return Horizontal{W: w, H: h, X: x, Y: y, Children: children}, nil
		}
		return Vertical{W: w, H: h, X: x, Y: y, Children: children}, nil

	case ',':
		p.pos++ // consume comma before the pane's decimal id
		id, err := p.parse_decimal()
		if err != nil {
			return nil, err
		}
		return Pane{W: w, H: h, X: x, Y: y, PaneID: "%" + strconv.Itoa(id)}, nil

	default:
		return nil, p.errorf("expected container or pane after preamble")
	}
}

// parse_preamble parses `WxH,x,y`.
func (p *parser) parse_preamble() (w, h, x, y int, err error) {
	w, err = p.parse_decimal()
	if err != nil {
		return
	}
	if p.peek() != 'x' {
		err = p.errorf("expected 'x' in preamble")
		return
	}
	p.pos++
	h, err = p.parse_decimal()
	if err != nil {
		return
	}
	if p.peek() != ',' {
		err = p.errorf("expected ',' in preamble")
		return
	}
	p.pos++
	x, err = p.parse_decimal()
	if err != nil {
		return
	}
	if p.peek() != ',' {
		err = p.errorf("expected ',' in preamble")
		return
	}
	p.pos++
	y, err = p.parse_decimal()
	return
}

func (p *parser) parse_decimal() (int, error) {
	start := p.pos
	for p.pos < len(p.s) && p.s[p.pos] >= '0' && p.s[p.pos] <= '9' {
		p.pos++
	}
	if p.pos == start {
		return 0, p.errorf("expected decimal number")
	}
	return strconv.Atoi(p.s[start:p.pos])
}

// Render serializes a tree back into grammar form (with a placeholder
// zero checksum) for round-trip testing; it is never used to synthesize a
// layout tmux itself will accept, only to check idempotence of Parse.
func Render(n Node) string {
	var b strings.Builder
	b.WriteString("0000,")
	render_element(&b, n)
	return b.String()
}

func render_element(b *strings.Builder, n Node) {
	w, h, x, y := n.Bounds()
	fmt.Fprintf(b, "%dx%d,%d,%d", w, h, x, y)

	switch t := n.(type) {
	case Pane:
		id := strings.TrimPrefix(t.PaneID, "%")
		b.WriteByte(',')
		b.WriteString(id)
	case Horizontal:
		b.WriteByte('{')
		for i, c := range t.Children {
			if i > 0 {
				b.WriteByte(',')
			}
			render_element(b, c)
		}
		b.WriteByte('}')
	case Vertical:
		b.WriteByte('[')
		for i, c := range t.Children {
			if i > 0 {
				b.WriteByte(',')
			}
			render_element(b, c)
		}
		b.WriteByte(']')
	}
}
