package mdfancy

import (
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// TextStats describes the size of a text as a user would count it.
type TextStats struct {
	Bytes      int `json:"bytes"`
	Runes      int `json:"runes"`
	Characters int `json:"characters"`
	Width      int `json:"width"`
}

// Stats counts text. Characters are grapheme clusters, so a letter followed
// by a combining strikethrough counts once.
func Stats(text string) TextStats {
	return TextStats{
		Bytes:      len(text),
		Runes:      utf8.RuneCountInString(text),
		Characters: uniseg.GraphemeClusterCount(text),
		Width:      uniseg.StringWidth(text),
	}
}
