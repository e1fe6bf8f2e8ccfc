package textproc

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"collapses spaces", "a   b\t\tc", "a b c"},
		{"collapses newlines", "line one\n\n\nline two", "line one\nline two"},
		{"mixed run with newline becomes newline", "a \n  b", "a\nb"},
		{"trims", "   hello world   ", "hello world"},
		{"keeps punctuation", `He said: "wait... (really?)"`, `He said: "wait... (really?)"`},
		{"strips symbols", "price © 100 € now", "price 100 now"},
		{"keeps arabic script", "بسم الله الرحمن الرحيم", "بسم الله الرحمن الرحيم"},
		{"strips emoji between words", "good 😀 morning", "good morning"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.expected {
				t.Errorf("Normalize(%q) = %q; want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"a   b\n\n c ☺ d",
		"  \t mixed \n whitespace \n\n and © junk  ",
		"مرحبا   بالعالم\n\nاختبار",
		strings.Repeat("word ", 500) + "\n\n" + strings.Repeat("x", 100),
	}

	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("not idempotent:\n once: %q\ntwice: %q", once, twice)
		}
	}
}
