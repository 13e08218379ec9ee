package layout

import "testing"

func TestDiffSinglePaneAdded(t *testing.T) {
	old := Horizontal{W: 160, H: 24, Children: []Node{
		Pane{PaneID: "%0", W: 80, H: 24},
	}}
	new_tree := Horizontal{W: 160, H: 24, Children: []Node{
		Pane{PaneID: "%0", W: 80, H: 24},
		Pane{PaneID: "%1", W: 79, H: 24, X: 81},
	}}

	added, removed := Diff(old, new_tree, nil)
	if len(removed) != 0 {
		t.Fatalf("removed = %v, want none", removed)
	}
	if len(added) != 1 || added[0].PaneID != "%1" {
		t.Fatalf("added = %v, want exactly %%1", added)
	}
}

func TestDiffSinglePaneRemoved(t *testing.T) {
	old := Horizontal{Children: []Node{
		Pane{PaneID: "%0"},
		Pane{PaneID: "%1"},
	}}
	new_tree := Pane{PaneID: "%0"}

	added, removed := Diff(old, new_tree, nil)
	if len(added) != 0 {
		t.Fatalf("added = %v, want none", added)
	}
	if len(removed) != 1 || removed[0].PaneID != "%1" {
		t.Fatalf("removed = %v, want exactly %%1", removed)
	}
}

func TestDiffNoChange(t *testing.T) {
	tree := Pane{PaneID: "%0"}
	added, removed := Diff(tree, tree, nil)
	if len(added) != 0 || len(removed) != 0 {
		t.Fatalf("expected no diff, got added=%v removed=%v", added, removed)
	}
}

func TestParentOfFindsDirectContainer(t *testing.T) {
	tree := Horizontal{Children: []Node{
		Pane{PaneID: "%0"},
		Vertical{Children: []Node{
			Pane{PaneID: "%1"},
			Pane{PaneID: "%2"},
		}},
	}}

	parent, ok := ParentOf("%2", tree)
	if !ok {
		t.Fatal("expected to find parent")
	}
	v, ok := parent.(Vertical)
	if !ok || len(v.Children) != 2 {
		t.Fatalf("parent = %#v, want the inner Vertical", parent)
	}
}
