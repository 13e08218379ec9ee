package layout

import "testing"

func TestParseSinglePane(t *testing.T) {
	n, err := Parse("c1b2,80x24,0,0,3")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	p, ok := n.(Pane)
	if !ok {
		t.Fatalf("got %T, want Pane", n)
	}
	if p.W != 80 || p.H != 24 || p.PaneID != "%3" {
		t.Fatalf("got %#v", p)
	}
}

func TestParseHorizontalSplit(t *testing.T) {
	n, err := Parse("c1b2,160x24,0,0{80x24,0,0,0,80x24,81,0,1}")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	h, ok := n.(Horizontal)
	if !ok {
		t.Fatalf("got %T, want Horizontal", n)
	}
	if len(h.Children) != 2 {
		t.Fatalf("got %d children, want 2", len(h.Children))
	}
	left, ok := h.Children[0].(Pane)
	if !ok || left.PaneID != "%0" {
		t.Fatalf("left child = %#v", h.Children[0])
	}
	right, ok := h.Children[1].(Pane)
	if !ok || right.PaneID != "%1" {
		t.Fatalf("right child = %#v", h.Children[1])
	}
}

func TestParseNestedVerticalInsideHorizontal(t *testing.T) {
	layout_str := "c1b2,160x48,0,0{80x48,0,0,0,79x48,81,0[79x24,81,0,1,79x23,81,25,2]}"
	n, err := Parse(layout_str)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	h, ok := n.(Horizontal)
	if !ok || len(h.Children) != 2 {
		t.Fatalf("got %#v", n)
	}
	v, ok := h.Children[1].(Vertical)
	if !ok || len(v.Children) != 2 {
		t.Fatalf("right child = %#v, want Vertical with 2 children", h.Children[1])
	}
}

func TestParseThreeWaySplit(t *testing.T) {
	layout_str := "c1b2,240x24,0,0{80x24,0,0,0,80x24,81,0,1,79x24,162,0,2}"
	n, err := Parse(layout_str)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	h, ok := n.(Horizontal)
	if !ok || len(h.Children) != 3 {
		t.Fatalf("got %#v", n)
	}
}

func TestParseMalformedInput(t *testing.T) {
	cases := []string{
		"",
		"not-a-checksum{",
		"c1b2",
		"c1b2,80x24",
		"c1b2,80x24,0,0{80x24,0,0,0",
	}
	for _, c := range cases {
		if _, err := Parse(c); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", c)
		}
	}
}

func TestRenderRoundTrip(t *testing.T) {
	inputs := []string{
		"c1b2,80x24,0,0,3",
		"c1b2,160x24,0,0{80x24,0,0,0,80x24,81,0,1}",
		"c1b2,240x24,0,0{80x24,0,0,0,80x24,81,0,1,79x24,162,0,2}",
	}
	for _, in := range inputs {
		tree, err := Parse(in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", in, err)
		}
		rendered := Render(tree)
		tree2, err := Parse(rendered)
		if err != nil {
			t.Fatalf("re-parse of rendered %q failed: %v", rendered, err)
		}
		if !equalTrees(tree, tree2) {
			t.Fatalf("round trip mismatch: %#v vs %#v", tree, tree2)
		}
	}
}

func equalTrees(a, b Node) bool {
	switch at := a.(type) {
	case Pane:
		bt, ok := b.(Pane)
		return ok && at == bt
	case Horizontal:
		bt, ok := b.(Horizontal)
		if !ok || len(at.Children) != len(bt.Children) {
			return false
		}
		if at.W != bt.W || at.H != bt.H || at.X != bt.X || at.Y != bt.Y {
			return false
		}
		for i := range at.Children {
			if !equalTrees(at.Children[i], bt.Children[i]) {
				return false
			}
		}
		return true
	case Vertical:
		bt, ok := b.(Vertical)
		if !ok || len(at.Children) != len(bt.Children) {
			return false
		}
		if at.W != bt.W || at.H != bt.H || at.X != bt.X || at.Y != bt.Y {
			return false
		}
		for i := range at.Children {
			if !equalTrees(at.Children[i], bt.Children[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
