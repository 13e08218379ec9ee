package demoui

import (
	"testing"

	"github.com/elvisnm/wtmux/internal/layout"
)

func TestReplacePaneSplitsLeaf(t *testing.T) {
	root := treeNode(leafNode{paneID: "%1"})

	replacement := &splitNode{
		vertical: false,
		first:    leafNode{paneID: "%1"},
		second:   leafNode{paneID: "%2"},
	}

	root, ok := replacePane(root, "%1", replacement)
	if !ok {
		t.Fatalf("replacePane did not find %%1")
	}

	ids := leafIDs(root)
	if len(ids) != 2 || ids[0] != "%1" || ids[1] != "%2" {
		t.Fatalf("leafIDs = %v, want [%%1 %%2]", ids)
	}
}

func TestReplacePaneNestedSplit(t *testing.T) {
	root := treeNode(&splitNode{
		vertical: false,
		first:    leafNode{paneID: "%1"},
		second:   leafNode{paneID: "%2"},
	})

	replacement := &splitNode{
		vertical: true,
		first:    leafNode{paneID: "%2"},
		second:   leafNode{paneID: "%3"},
	}

	root, ok := replacePane(root, "%2", replacement)
	if !ok {
		t.Fatalf("replacePane did not find %%2")
	}

	ids := leafIDs(root)
	if len(ids) != 3 || ids[0] != "%1" || ids[1] != "%2" || ids[2] != "%3" {
		t.Fatalf("leafIDs = %v, want [%%1 %%2 %%3]", ids)
	}
}

func TestRemovePaneCollapsesSplit(t *testing.T) {
	root := treeNode(&splitNode{
		vertical: false,
		first:    leafNode{paneID: "%1"},
		second:   leafNode{paneID: "%2"},
	})

	root, ok := removePane(root, "%2")
	if !ok {
		t.Fatalf("removePane did not find %%2")
	}

	leaf, ok := root.(leafNode)
	if !ok || leaf.paneID != "%1" {
		t.Fatalf("root = %#v, want lone leaf %%1", root)
	}
}

func TestRemovePaneMissing(t *testing.T) {
	root := treeNode(leafNode{paneID: "%1"})
	if _, ok := removePane(root, "%9"); ok {
		t.Fatalf("removePane found a pane that isn't in the tree")
	}
}

func TestBuildWindowTreeSinglePane(t *testing.T) {
	widgets := layout.ConvertToUILayout(
		map[string]layout.Node{"@0": layout.Pane{PaneID: "%1"}},
		[]string{"@0"},
	)

	tree := buildWindowTree(widgets, "window0", 0)
	ids := leafIDs(tree)
	if len(ids) != 1 || ids[0] != "%1" {
		t.Fatalf("leafIDs = %v, want [%%1]", ids)
	}
}

func TestBuildWindowTreeSplitPane(t *testing.T) {
	win := layout.Horizontal{Children: []layout.Node{
		layout.Pane{PaneID: "%1"},
		layout.Pane{PaneID: "%2"},
	}}
	widgets := layout.ConvertToUILayout(map[string]layout.Node{"@0": win}, []string{"@0"})

	tree := buildWindowTree(widgets, "window0", 0)
	ids := leafIDs(tree)
	if len(ids) != 2 || ids[0] != "%1" || ids[1] != "%2" {
		t.Fatalf("leafIDs = %v, want [%%1 %%2]", ids)
	}
	split, ok := tree.(*splitNode)
	if !ok || split.vertical {
		t.Fatalf("tree = %#v, want a horizontal split", tree)
	}
}

func TestBuildWindowTreeMultiWindow(t *testing.T) {
	windows := map[string]layout.Node{
		"@0": layout.Pane{PaneID: "%1"},
		"@1": layout.Pane{PaneID: "%2"},
	}
	order := []string{"@0", "@1"}
	widgets := layout.ConvertToUILayout(windows, order)

	first := buildWindowTree(widgets, "notebook0", 0)
	second := buildWindowTree(widgets, "notebook0", 1)

	if ids := leafIDs(first); len(ids) != 1 || ids[0] != "%1" {
		t.Fatalf("first window leafIDs = %v, want [%%1]", ids)
	}
	if ids := leafIDs(second); len(ids) != 1 || ids[0] != "%2" {
		t.Fatalf("second window leafIDs = %v, want [%%2]", ids)
	}
}

func TestBuildWindowTreeMissingReturnsNil(t *testing.T) {
	if tree := buildWindowTree(map[string]layout.WidgetDesc{}, "window0", 0); tree != nil {
		t.Fatalf("expected nil tree for an empty widget map, got %#v", tree)
	}
}
