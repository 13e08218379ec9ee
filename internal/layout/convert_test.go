package layout

import "testing"

func TestConvertSingleWindowSinglePane(t *testing.T) {
	windows := map[string]Node{"@0": Pane{PaneID: "%3", W: 80, H: 24}}
	out := ConvertToUILayout(windows, []string{"@0"})

	if _, ok := out["notebook0"]; ok {
		t.Fatal("single window should not get a notebook")
	}
	win, ok := out["window0"]
	if !ok || win.Type != "Window" {
		t.Fatalf("window0 = %#v", win)
	}
	term, ok := out["terminal3"]
	if !ok || term.Type != "Terminal" || term.PaneID != "%3" || term.Parent != "window0" {
		t.Fatalf("terminal3 = %#v", term)
	}
}

func TestConvertMultipleWindowsGetNotebook(t *testing.T) {
	windows := map[string]Node{
		"@0": Pane{PaneID: "%0"},
		"@1": Pane{PaneID: "%1"},
	}
	out := ConvertToUILayout(windows, []string{"@0", "@1"})

	nb, ok := out["notebook0"]
	if !ok || nb.Type != "Notebook" || nb.Parent != "window0" {
		t.Fatalf("notebook0 = %#v", nb)
	}
	t0, ok := out["terminal0"]
	if !ok || t0.Parent != "notebook0" || t0.Order != 0 {
		t.Fatalf("terminal0 = %#v", t0)
	}
	t1, ok := out["terminal1"]
	if !ok || t1.Parent != "notebook0" || t1.Order != 1 {
		t.Fatalf("terminal1 = %#v", t1)
	}
}

func TestConvertTwoChildSplitIsOnePane(t *testing.T) {
	windows := map[string]Node{"@0": Horizontal{Children: []Node{
		Pane{PaneID: "%0"},
		Pane{PaneID: "%1"},
	}}}
	out := ConvertToUILayout(windows, []string{"@0"})

	paneCount := 0
	for name, d := range out {
		if d.Type == "HPaned" || d.Type == "VPaned" {
			paneCount++
			if name != "pane0" {
				t.Fatalf("expected exactly pane0 for the single split, got %q", name)
			}
		}
	}
	if paneCount != 1 {
		t.Fatalf("got %d paned widgets, want 1", paneCount)
	}

	t0 := out["terminal0"]
	t1 := out["terminal1"]
	if t0.Parent != "pane0" || t1.Parent != "pane0" {
		t.Fatalf("children should be parented to pane0: t0=%#v t1=%#v", t0, t1)
	}
}

func TestConvertThreeChildSplitChainsNestedPanes(t *testing.T) {
	windows := map[string]Node{"@0": Horizontal{Children: []Node{
		Pane{PaneID: "%0"},
		Pane{PaneID: "%1"},
		Pane{PaneID: "%2"},
	}}}
	out := ConvertToUILayout(windows, []string{"@0"})

	var panedNames []string
	for name, d := range out {
		if d.Type == "HPaned" {
			panedNames = append(panedNames, name)
		}
	}
	if len(panedNames) != 2 {
		t.Fatalf("a 3-child container should lower to 2 chained binary panes, got %d: %v", len(panedNames), panedNames)
	}

	// pane0 holds %0 and the synthetic remainder (pane1); pane1 holds %1 and %2.
	t0 := out["terminal0"]
	if t0.Parent != "pane0" || t0.Order != 0 {
		t.Fatalf("terminal0 = %#v", t0)
	}
	inner, ok := out["pane1"]
	if !ok || inner.Parent != "pane0" || inner.Order != 1 {
		t.Fatalf("pane1 = %#v, want nested under pane0 at order 1", inner)
	}
	t1 := out["terminal1"]
	t2 := out["terminal2"]
	if t1.Parent != "pane1" || t2.Parent != "pane1" {
		t.Fatalf("terminal1/2 should be parented to the nested pane1: t1=%#v t2=%#v", t1, t2)
	}
}

func TestConvertSingleChildContainerIsElided(t *testing.T) {
	windows := map[string]Node{"@0": Horizontal{Children: []Node{
		Pane{PaneID: "%5"},
	}}}
	out := ConvertToUILayout(windows, []string{"@0"})

	for _, d := range out {
		if d.Type == "HPaned" || d.Type == "VPaned" {
			t.Fatalf("single-child container should be elided, got a paned widget: %#v", d)
		}
	}
	term, ok := out["terminal5"]
	if !ok || term.Parent != "window0" {
		t.Fatalf("terminal5 = %#v, want parented directly to window0", term)
	}
}
