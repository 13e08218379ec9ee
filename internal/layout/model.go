// Package layout parses tmux's window_layout grammar into a tree, diffs
// trees to find added/removed panes, and lowers a tree (or several, for
// multiple windows) into a flat widget-description map a host UI toolkit
// can build real split containers from.
package layout

// Node is a layout tree element: a Pane leaf or a Horizontal/Vertical
// split container.
type Node interface {
	node()
	// Bounds returns the node's width, height, x, y as parsed from its
	// preamble.
	Bounds() (w, h, x, y int)
}

// Pane is a leaf node bound to one tmux pane.
type Pane struct {
	W, H, X, Y int
	PaneID     string
}

func (Pane) node() {}
func (p Pane) Bounds() (int, int, int, int) { return p.W, p.H, p.X, p.Y }

// Horizontal is a side-by-side ({...}) split: children are arranged
// left-to-right.
type Horizontal struct {
	W, H, X, Y int
	Children   []Node
}

func (Horizontal) node() {}
func (h Horizontal) Bounds() (int, int, int, int) { return h.W, h.H, h.X, h.Y }

// Vertical is a stacked ([...]) split: children are arranged top-to-bottom.
type Vertical struct {
	W, H, X, Y int
	Children   []Node
}

func (Vertical) node() {}
func (v Vertical) Bounds() (int, int, int, int) { return v.W, v.H, v.X, v.Y }

func children_of(n Node) []Node {
	switch t := n.(type) {
	case Horizontal:
		return t.Children
	case Vertical:
		return t.Children
	default:
		return nil
	}
}

// AllPanes walks the tree and returns every pane, keyed by pane ID. Pane
// identity for this purpose is the ID alone, matching the reference
// client's hash/eq-by-id semantics — two Pane values sharing an ID but
// differing in geometry are still "the same pane".
func AllPanes(root Node) map[string]Pane {
	out := make(map[string]Pane)
	collect_panes(root, out)
	return out
}

func collect_panes(n Node, out map[string]Pane) {
	if n == nil {
		return
	}
	if p, ok := n.(Pane); ok {
		out[p.PaneID] = p
		return
	}
	for _, c := range children_of(n) {
		collect_panes(c, out)
	}
}

// ParentOf returns the direct container ancestor of the pane with the
// given ID, if any.
func ParentOf(paneID string, root Node) (Node, bool) {
	switch t := root.(type) {
	case Pane:
		return nil, false
	case Horizontal:
		return find_parent_among(t, t.Children, paneID)
	case Vertical:
		return find_parent_among(t, t.Children, paneID)
	default:
		_ = t
		return nil, false
	}
}

func find_parent_among(container Node, kids []Node, paneID string) (Node, bool) {
	for _, c := range kids {
		if p, ok := c.(Pane); ok && p.PaneID == paneID {
			return container, true
		}
	}
	for _, c := range kids {
		if parent, ok := ParentOf(paneID, c); ok {
			return parent, true
		}
	}
	return nil, false
}

// ChildIndex returns the index of the child whose pane ID (for a Pane
// child) or subtree (for a container child, by checking membership)
// matches target, or -1.
func ChildIndex(container Node, target Pane) int {
	for i, c := range children_of(container) {
		if _, ok := AllPanes(c)[target.PaneID]; ok {
			return i
		}
	}
	return -1
}
