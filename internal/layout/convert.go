package layout

import (
	"fmt"
	"strings"
)

// WidgetDesc is one entry in the flat map ConvertToUILayout produces: a
// description of a single host-UI widget plus enough bookkeeping (parent
// name, order among siblings) to let a consumer reconstruct the nesting
// without re-walking the source layout trees.
type WidgetDesc struct {
	Type   string // "Window", "Notebook", "HPaned", "VPaned", "Terminal"
	Parent string
	Order  int

	PaneID string // set only for Type == "Terminal"
	Width  int
	Height int
	X      int
	Y      int
}

// ConvertToUILayout lowers one window layout tree per entry in windows
// (keyed by tmux window id, only used to make iteration order
// deterministic — the generated widget names are independent of it) into
// a flat map of generated widget names to descriptions.
//
// Containers with more than two children lower to a chain of nested
// binary paned widgets (one real child paired with a synthetic container
// holding the rest), matching the reference client's conversion exactly;
// a flat N-ary paned widget is never produced. A container with exactly
// one child is elided — that child lowers directly in the container's
// place.
func ConvertToUILayout(windows map[string]Node, windowOrder []string) map[string]WidgetDesc {
	out := make(map[string]WidgetDesc)

	out["window0"] = WidgetDesc{Type: "Window", Parent: "", Order: 0}

	root_parent := "window0"
	if len(windowOrder) > 1 {
		out["notebook0"] = WidgetDesc{Type: "Notebook", Parent: "window0", Order: 0}
		root_parent = "notebook0"
	}

	counters := &nameCounters{}
	for i, wid := range windowOrder {
		tree, ok := windows[wid]
		if !ok {
			continue
		}
		lower(tree, out, counters, root_parent, i)
	}

	return out
}

type nameCounters struct {
	pane int
}

func (c *nameCounters) next_pane() string {
	n := c.pane
	c.pane++
	return fmt.Sprintf("pane%d", n)
}

// lower lowers n into out under the given parent/order, returning nothing
// — the generated name is looked up by callers via the parent/order
// bookkeeping already written into out, since tmux pane ids are the only
// stable identity a caller needs (terminal<N> is derived directly from
// the pane id, not from the counters).
func lower(n Node, out map[string]WidgetDesc, c *nameCounters, parent string, order int) {
	switch t := n.(type) {
	case Pane:
		name := terminal_name(t.PaneID)
		out[name] = WidgetDesc{
			Type: "Terminal", Parent: parent, Order: order,
			PaneID: t.PaneID, Width: t.W, Height: t.H, X: t.X, Y: t.Y,
		}

	case Horizontal:
		lower_container(t.Children, "HPaned", out, c, parent, order)

	case Vertical:
		lower_container(t.Children, "VPaned", out, c, parent, order)
	}
}

func lower_container(children []Node, pane_type string, out map[string]WidgetDesc, c *nameCounters, parent string, order int) {
	switch len(children) {
	case 0:
		// Degenerate; nothing to lower.
		return

	case 1:
		// Single-child containers are elided: the child takes the
		// container's place directly.
		lower(children[0], out, c, parent, order)

	case 2:
		name := c.next_pane()
		w, h, x, y := bounds_union(children)
		out[name] = WidgetDesc{Type: pane_type, Parent: parent, Order: order, Width: w, Height: h, X: x, Y: y}
		lower(children[0], out, c, name, 0)
		lower(children[1], out, c, name, 1)

	default:
		// More than two children: chain into nested binary panes. The
		// first child pairs with a synthetic container (same
		// orientation) holding the remainder, recursing until two or
		// fewer children remain.
		name := c.next_pane()
		w, h, x, y := bounds_union(children)
		out[name] = WidgetDesc{Type: pane_type, Parent: parent, Order: order, Width: w, Height: h, X: x, Y: y}
		lower(children[0], out, c, name, 0)
		lower_container(children[1:], pane_type, out, c, name, 1)
	}
}

// bounds_union returns a bounding box covering all of children, used only
// to give a synthetic paned widget reasonable geometry — tmux itself
// never emits geometry for these, since they don't exist server-side.
func bounds_union(children []Node) (w, h, x, y int) {
	first := true
	minX, minY, maxX, maxY := 0, 0, 0, 0
	for _, ch := range children {
		cw, chh, cx, cy := ch.Bounds()
		if first {
			minX, minY = cx, cy
			maxX, maxY = cx+cw, cy+chh
			first = false
			continue
		}
		if cx < minX {
			minX = cx
		}
		if cy < minY {
			minY = cy
		}
		if cx+cw > maxX {
			maxX = cx + cw
		}
		if cy+chh > maxY {
			maxY = cy + chh
		}
	}
	return maxX - minX, maxY - minY, minX, minY
}

func terminal_name(paneID string) string {
	return "terminal" + strings.TrimPrefix(paneID, "%")
}
