package driver

import "testing"

func TestEncodeKeypressNamedKeys(t *testing.T) {
	cases := []struct {
		key  Key
		want string
	}{
		{KeyBackspace, "\b"},
		{KeyTab, "\t"},
		{KeyInsert, "\x1b[2~"},
		{KeyDelete, "\x1b[3~"},
		{KeyPageUp, "\x1b[5~"},
		{KeyPageDown, "\x1b[6~"},
		{KeyHome, "\x1b[1~"},
		{KeyEnd, "\x1b[4~"},
		{KeyUp, "\x1b[A"},
		{KeyDown, "\x1b[B"},
		{KeyRight, "\x1b[C"},
		{KeyLeft, "\x1b[D"},
	}
	for _, c := range cases {
		got, ok := encodeKeypress(KeyEvent{Key: c.key})
		if !ok || got != c.want {
			t.Errorf("encodeKeypress(%v) = %q, %v; want %q, true", c.key, got, ok, c.want)
		}
	}
}

func TestEncodeKeypressCtrlArrow(t *testing.T) {
	got, ok := encodeKeypress(KeyEvent{Key: KeyUp, Mods: ModCtrl})
	if !ok || got != "\x1b[1;5A" {
		t.Fatalf("got %q, %v", got, ok)
	}
}

func TestEncodeKeypressAltPrefixesEscape(t *testing.T) {
	got, ok := encodeKeypress(KeyEvent{Text: "x", Mods: ModAlt})
	if !ok || got != "\x1bx" {
		t.Fatalf("got %q, %v", got, ok)
	}
}

func TestEncodeKeypressAltWithCtrlIsDropped(t *testing.T) {
	_, ok := encodeKeypress(KeyEvent{Key: KeyHome, Mods: ModAlt | ModCtrl})
	if ok {
		t.Fatal("expected Alt+Ctrl combo to be dropped")
	}
}

func TestEncodeKeypressAltWithShiftIsDropped(t *testing.T) {
	_, ok := encodeKeypress(KeyEvent{Key: KeyPageUp, Mods: ModAlt | ModShift})
	if ok {
		t.Fatal("expected Alt+Shift combo to be dropped")
	}
}

func TestEncodeKeypressPlainText(t *testing.T) {
	got, ok := encodeKeypress(KeyEvent{Text: "a"})
	if !ok || got != "a" {
		t.Fatalf("got %q, %v", got, ok)
	}
}

func TestWheelKeysForDirection(t *testing.T) {
	if wheelKeysFor(ScrollUp) != wheelUpKeys {
		t.Fatal("wrong up keys")
	}
	if wheelKeysFor(ScrollDown) != wheelDownKeys {
		t.Fatal("wrong down keys")
	}
}

func TestScrollEventNormalizeSmooth(t *testing.T) {
	if (ScrollEvent{DeltaY: -1}).normalize() != ScrollUp {
		t.Fatal("negative delta should be up")
	}
	if (ScrollEvent{DeltaY: 1}).normalize() != ScrollDown {
		t.Fatal("positive delta should be down")
	}
}
