package mdfancy

import (
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

var (
	// ErrInvalidUTF8 reports invalid UTF-8 input.
	ErrInvalidUTF8 = errors.New("invalid utf-8 input")
	// ErrBinaryInput reports input that appears to be binary.
	ErrBinaryInput = errors.New("binary input detected")
	// ErrInputTooLarge reports input above MaxInputBytes.
	ErrInputTooLarge = errors.New("input too large")
	// ErrUnsupportedType reports a file that is neither plain text nor markdown.
	ErrUnsupportedType = errors.New("unsupported file type")
)

const (
	// MaxInputBytes is the largest file accepted for conversion.
	MaxInputBytes = 1 << 20
	// LargeInputThreshold is the character count above which callers should
	// confirm before converting.
	LargeInputThreshold = 10000

	minBinarySample = 64
	maxControlPct   = 2
)

var (
	allowedContentTypes = []string{"text/plain", "text/markdown"}
	allowedExtensions   = []string{".txt", ".md"}
)

// ValidateInput returns an error if the input is not valid UTF-8 or appears binary.
func ValidateInput(src []byte) error {
	if !utf8.Valid(src) {
		return ErrInvalidUTF8
	}
	var control int
	for _, b := range src {
		if b == 0x00 {
			return ErrBinaryInput
		}
		if isControlByte(b) {
			control++
		}
	}
	if len(src) >= minBinarySample && control*100 >= len(src)*maxControlPct {
		return ErrBinaryInput
	}
	return nil
}

// ValidateFile checks an uploaded or opened file before it is read. The file
// is accepted when either its content type or its extension is allowed;
// contentType may be empty.
func ValidateFile(name, contentType string, size int64) error {
	if size > MaxInputBytes {
		return fmt.Errorf("%w: %s is %.1fMB, maximum is 1MB", ErrInputTooLarge, name, float64(size)/(1<<20))
	}
	if contentType != "" {
		if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
			for _, allowed := range allowedContentTypes {
				if mediaType == allowed {
					return nil
				}
			}
		}
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range allowedExtensions {
		if ext == allowed {
			return nil
		}
	}
	return fmt.Errorf("%w: %s (expected .txt or .md)", ErrUnsupportedType, name)
}

// IsLargeInput reports whether text exceeds LargeInputThreshold characters.
func IsLargeInput(text string) bool {
	return utf8.RuneCountInString(text) > LargeInputThreshold
}

func isControlByte(b byte) bool {
	if b < 0x09 {
		return true
	}
	if b > 0x0D && b < 0x20 {
		return true
	}
	return b == 0x7F
}
