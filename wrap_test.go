package mdfancy

import (
	"strings"
	"testing"

	"github.com/muesli/reflow/ansi"
)

func TestWrapBreaksAtWidth(t *testing.T) {
	got := Wrap("alpha beta gamma", 6)
	want := "alpha\nbeta\ngamma"
	if got != want {
		t.Fatalf("unexpected output\nwant: %q\n got: %q", want, got)
	}
}

func TestWrapStyledText(t *testing.T) {
	styled := StyleText("alpha beta gamma delta", Bold)
	for _, line := range strings.Split(Wrap(styled, 11), "\n") {
		if w := ansi.PrintableRuneWidth(line); w > 11 {
			t.Fatalf("line %q is %d cells wide", line, w)
		}
	}
}

func TestWrapDisabled(t *testing.T) {
	in := "one two three"
	if got := Wrap(in, 0); got != in {
		t.Fatalf("width 0 changed text: %q", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		limit int
		want  string
	}{
		{"short", 10, "short"},
		{"abcdefgh", 5, "abcd…"},
		{"abc", 1, "…"},
		{"abc", 0, ""},
	}
	for _, tc := range tests {
		if got := Truncate(tc.in, tc.limit); got != tc.want {
			t.Fatalf("Truncate(%q, %d)=%q want %q", tc.in, tc.limit, got, tc.want)
		}
	}
}
