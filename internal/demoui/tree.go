package demoui

import "github.com/elvisnm/wtmux/internal/layout"

// treeNode is the demo's own UI-side split tree, kept separate from
// layout.Node: it records only what a host toolkit needs (pane ids and
// split shape), never geometry, since the viewport sizes are recomputed
// from the terminal window size on every resize rather than mirrored from
// tmux's cell coordinates.
type treeNode interface{ isTreeNode() }

type leafNode struct{ paneID string }

func (leafNode) isTreeNode() {}

type splitNode struct {
	vertical bool // true: stacked top/bottom; false: side by side
	first    treeNode
	second   treeNode
}

func (*splitNode) isTreeNode() {}

// replacePane walks n looking for a leaf with the given pane id and, when
// found, replaces it in place with replacement. Returns the (possibly new)
// root and whether a replacement happened.
func replacePane(n treeNode, paneID string, replacement treeNode) (treeNode, bool) {
	switch t := n.(type) {
	case nil:
		return n, false
	case leafNode:
		if t.paneID == paneID {
			return replacement, true
		}
		return n, false
	case *splitNode:
		if first, ok := replacePane(t.first, paneID, replacement); ok {
			t.first = first
			return t, true
		}
		if second, ok := replacePane(t.second, paneID, replacement); ok {
			t.second = second
			return t, true
		}
		return n, false
	default:
		return n, false
	}
}

// removePane finds the leaf for paneID and collapses its parent split,
// promoting the sibling subtree in the parent's place. Returns the
// (possibly new) root and whether anything was removed.
func removePane(n treeNode, paneID string) (treeNode, bool) {
	switch t := n.(type) {
	case leafNode:
		if t.paneID == paneID {
			return nil, true
		}
		return n, false
	case *splitNode:
		if fl, ok := t.first.(leafNode); ok && fl.paneID == paneID {
			return t.second, true
		}
		if sl, ok := t.second.(leafNode); ok && sl.paneID == paneID {
			return t.first, true
		}
		if first, ok := removePane(t.first, paneID); ok {
			t.first = first
			return t, true
		}
		if second, ok := removePane(t.second, paneID); ok {
			t.second = second
			return t, true
		}
		return n, false
	default:
		return n, false
	}
}

// buildWindowTree reconstructs one window's split tree from the flat
// widget map layout.ConvertToUILayout produces, by following the
// Parent/Order links back to that widget map's per-window root entry
// (parented directly under rootParent at the window's index). This is how
// demoui turns Bootstrap's published initial layout into a tree it can
// render and grow incrementally, instead of only ever seeding a single
// leaf pane.
func buildWindowTree(widgets map[string]layout.WidgetDesc, rootParent string, order int) treeNode {
	name, ok := findChild(widgets, rootParent, order)
	if !ok {
		return nil
	}
	return buildSubtree(widgets, name)
}

func findChild(widgets map[string]layout.WidgetDesc, parent string, order int) (string, bool) {
	for name, w := range widgets {
		if w.Parent == parent && w.Order == order {
			return name, true
		}
	}
	return "", false
}

func buildSubtree(widgets map[string]layout.WidgetDesc, name string) treeNode {
	w, ok := widgets[name]
	if !ok {
		return nil
	}
	switch w.Type {
	case "Terminal":
		return leafNode{paneID: w.PaneID}
	case "HPaned", "VPaned":
		first, _ := findChild(widgets, name, 0)
		second, _ := findChild(widgets, name, 1)
		return &splitNode{
			vertical: w.Type == "VPaned",
			first:    buildSubtree(widgets, first),
			second:   buildSubtree(widgets, second),
		}
	default:
		return nil
	}
}

// leafIDs returns every pane id in the tree, in left-to-right/top-to-bottom
// order.
func leafIDs(n treeNode) []string {
	switch t := n.(type) {
	case nil:
		return nil
	case leafNode:
		return []string{t.paneID}
	case *splitNode:
		return append(leafIDs(t.first), leafIDs(t.second)...)
	default:
		return nil
	}
}
