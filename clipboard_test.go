package mdfancy

import (
	"encoding/base64"
	"strings"
	"testing"
)

func TestClipboardSequence(t *testing.T) {
	text := StyleText("copy me", Bold)
	seq := ClipboardSequence(text)
	if !strings.HasPrefix(seq, "\x1b]52;c;") || !strings.HasSuffix(seq, "\x07") {
		t.Fatalf("unexpected framing %q", seq)
	}
	payload := strings.TrimSuffix(strings.TrimPrefix(seq, "\x1b]52;c;"), "\x07")
	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if string(decoded) != text {
		t.Fatalf("payload %q want %q", decoded, text)
	}
}

func TestDetectOSC52Support(t *testing.T) {
	for _, key := range []string{"WT_SESSION", "TERM_PROGRAM", "TERM"} {
		t.Setenv(key, "")
	}
	t.Setenv("OSC52", "0")
	if DetectOSC52Support() {
		t.Fatalf("OSC52=0 must disable support")
	}
	t.Setenv("OSC52", "")
	t.Setenv("TERM", "xterm-kitty")
	if !DetectOSC52Support() {
		t.Fatalf("expected kitty to support OSC 52")
	}
	t.Setenv("TERM", "dumb")
	if DetectOSC52Support() {
		t.Fatalf("dumb terminal should not support OSC 52")
	}
}
