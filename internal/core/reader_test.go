package core

import (
	"io"
	"strings"
	"testing"
)

func TestSanitizedReaderStripsBOM(t *testing.T) {
	in := "\xEF\xBB\xBFdate,spend\n"
	out, err := io.ReadAll(NewSanitizedReader(strings.NewReader(in)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != "date,spend\n" {
		t.Errorf("output = %q, want BOM removed", out)
	}
}

func TestSanitizedReaderKeepsValidUTF8(t *testing.T) {
	in := "café,naïve,日本語\n"
	out, err := io.ReadAll(NewSanitizedReader(strings.NewReader(in)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != in {
		t.Errorf("output = %q, want %q", out, in)
	}
}

func TestSanitizedReaderReplacesInvalidBytes(t *testing.T) {
	// Lone 0xFF bytes are not valid UTF-8 anywhere.
	in := "ab\xFFcd\xFE\n"
	out, err := io.ReadAll(NewSanitizedReader(strings.NewReader(in)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != "ab?cd?\n" {
		t.Errorf("output = %q, want invalid bytes replaced with ?", out)
	}
}

func TestSanitizedReaderEmptyInput(t *testing.T) {
	out, err := io.ReadAll(NewSanitizedReader(strings.NewReader("")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("output = %q, want empty", out)
	}
}
