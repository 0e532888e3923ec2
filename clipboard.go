package mdfancy

import (
	"encoding/base64"
	"os"
	"strings"
)

const (
	osc52Start = "\x1b]52;c;"
	osc52End   = "\x07"
)

// ClipboardSequence returns the OSC 52 escape sequence that asks the
// terminal to place text on the system clipboard.
func ClipboardSequence(text string) string {
	var b strings.Builder
	b.Grow(len(osc52Start) + base64.StdEncoding.EncodedLen(len(text)) + len(osc52End))
	b.WriteString(osc52Start)
	b.WriteString(base64.StdEncoding.EncodeToString([]byte(text)))
	b.WriteString(osc52End)
	return b.String()
}

// DetectOSC52Support returns true if the current environment likely accepts
// OSC 52 clipboard writes.
func DetectOSC52Support() bool {
	if os.Getenv("OSC52") == "0" {
		return false
	}
	if os.Getenv("OSC52") == "1" {
		return true
	}
	if os.Getenv("WT_SESSION") != "" {
		return true
	}
	switch os.Getenv("TERM_PROGRAM") {
	case "iTerm.app", "WezTerm", "vscode", "ghostty":
		return true
	}
	term := strings.ToLower(os.Getenv("TERM"))
	for _, name := range []string{"kitty", "alacritty", "foot", "xterm"} {
		if strings.Contains(term, name) {
			return true
		}
	}
	return false
}
