package documents

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"testing"
)

func words(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("w%d", i)
	}
	return strings.Join(parts, " ")
}

func TestCountWords(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"only whitespace", " \t\n\r ", 0},
		{"single", "hello", 1},
		{"two", "hello world", 2},
		{"leading and trailing", "  hello   world  ", 2},
		{"mixed whitespace", "a\tb\nc\r\nd\ve\ff", 6},
		{"unicode spaces", "a\u00a0b\u2003c\u3000d", 4},
		{"punctuation sticks to word", "hello, world!", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountWords(tt.text); got != tt.want {
				t.Errorf("CountWords(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestAnalyzeComplexityBoundary(t *testing.T) {
	tests := []struct {
		n    int
		want Complexity
	}{
		{1, ComplexitySimple},
		{49, ComplexitySimple},
		{50, ComplexitySimple},
		{51, ComplexityComplex},
		{200, ComplexityComplex},
	}
	for _, tt := range tests {
		got, _ := Analyze(words(tt.n))
		if got != tt.want {
			t.Errorf("Analyze(%d words) complexity = %s, want %s", tt.n, got, tt.want)
		}
	}
}

func TestAnalyzeHash(t *testing.T) {
	const helloWorld = "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"

	_, got := Analyze("hello world")
	ref := sha256.Sum256([]byte("hello world"))
	if want := hex.EncodeToString(ref[:]); got != want {
		t.Fatalf("hash = %s, want %s", got, want)
	}
	if got != helloWorld {
		t.Fatalf("hash = %s, want %s", got, helloWorld)
	}

	for _, text := range []string{"a", "héllo wörld", "line1\nline2", words(80)} {
		_, h1 := Analyze(text)
		_, h2 := Analyze(text)
		if h1 != h2 {
			t.Errorf("hash of %q not deterministic: %s vs %s", text, h1, h2)
		}
		if !IsHash(h1) {
			t.Errorf("hash of %q = %q is not 64 lowercase hex chars", text, h1)
		}
		ref := sha256.Sum256([]byte(text))
		if h1 != hex.EncodeToString(ref[:]) {
			t.Errorf("hash of %q mismatch", text)
		}
	}
}

func TestAnalyzeEmpty(t *testing.T) {
	c, h := Analyze("")
	if c != ComplexitySimple {
		t.Errorf("complexity = %s, want simple", c)
	}
	if h != "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855" {
		t.Errorf("hash of empty string = %s", h)
	}
}

func TestIsHash(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{Hash("x"), true},
		{"", false},
		{strings.Repeat("a", 63), false},
		{strings.Repeat("a", 65), false},
		{strings.ToUpper(Hash("x")), false},
		{strings.Repeat("g", 64), false},
	}
	for _, tt := range tests {
		if got := IsHash(tt.in); got != tt.want {
			t.Errorf("IsHash(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
