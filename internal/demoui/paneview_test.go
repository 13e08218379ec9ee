package demoui

import "testing"

func TestStripControlBytesKeepsPlainText(t *testing.T) {
	got := string(stripControlBytes([]byte("hello\tworld\n")))
	if got != "hello\tworld\n" {
		t.Fatalf("got %q", got)
	}
}

func TestStripControlBytesDropsCSI(t *testing.T) {
	in := []byte("a\x1b[31mb\x1b[0mc")
	got := string(stripControlBytes(in))
	if got != "abc" {
		t.Fatalf("got %q, want %q", got, "abc")
	}
}

func TestStripControlBytesDropsOSC(t *testing.T) {
	in := []byte("x\x1b]0;title\x07y")
	got := string(stripControlBytes(in))
	if got != "xy" {
		t.Fatalf("got %q, want %q", got, "xy")
	}
}

func TestStripControlBytesDropsCR(t *testing.T) {
	in := []byte("a\r\nb")
	got := string(stripControlBytes(in))
	if got != "a\nb" {
		t.Fatalf("got %q, want %q", got, "a\nb")
	}
}
