package mdfancy

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateInputRejectsInvalidUTF8(t *testing.T) {
	data := []byte{0xff, 0xfe, 0xfd}
	if err := ValidateInput(data); err != ErrInvalidUTF8 {
		t.Fatalf("expected ErrInvalidUTF8, got %v", err)
	}
}

func TestValidateInputRejectsBinary(t *testing.T) {
	data := append([]byte("hello"), 0x00)
	if err := ValidateInput(data); err != ErrBinaryInput {
		t.Fatalf("expected ErrBinaryInput, got %v", err)
	}
	noisy := []byte(strings.Repeat("a\x01", 40))
	if err := ValidateInput(noisy); err != ErrBinaryInput {
		t.Fatalf("expected ErrBinaryInput for control-heavy input, got %v", err)
	}
}

func TestValidateInputAcceptsMarkdown(t *testing.T) {
	if err := ValidateInput([]byte("# Hej\n\nblåbærgrød\ttab\r\n")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateFile(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		size        int64
		want        error
	}{
		{"notes.md", "", 10, nil},
		{"NOTES.TXT", "", 10, nil},
		{"notes", "text/markdown; charset=utf-8", 10, nil},
		{"notes.bin", "text/plain", 10, nil},
		{"image.png", "image/png", 10, ErrUnsupportedType},
		{"notes", "", 10, ErrUnsupportedType},
		{"big.md", "", MaxInputBytes + 1, ErrInputTooLarge},
	}
	for _, tc := range tests {
		err := ValidateFile(tc.name, tc.contentType, tc.size)
		if tc.want == nil {
			if err != nil {
				t.Fatalf("ValidateFile(%q, %q): %v", tc.name, tc.contentType, err)
			}
			continue
		}
		if !errors.Is(err, tc.want) {
			t.Fatalf("ValidateFile(%q, %q)=%v want %v", tc.name, tc.contentType, err, tc.want)
		}
	}
}

func TestIsLargeInput(t *testing.T) {
	if IsLargeInput(strings.Repeat("a", LargeInputThreshold)) {
		t.Fatalf("threshold itself should not be large")
	}
	if !IsLargeInput(strings.Repeat("å", LargeInputThreshold+1)) {
		t.Fatalf("expected large input above threshold")
	}
}
