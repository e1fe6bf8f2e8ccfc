package textproc

import (
	"errors"
	"strings"
	"testing"
)

func TestChunk_UnpunctuatedText(t *testing.T) {
	text := strings.Repeat("a", 2500)

	chunks, err := Chunk(text, 1000, 200)
	if err != nil {
		t.Fatalf("Chunk failed: %v", err)
	}

	wantLens := []int{1000, 1000, 900, 100}
	if len(chunks) != len(wantLens) {
		t.Fatalf("got %d chunks, want %d", len(chunks), len(wantLens))
	}
	for i, c := range chunks {
		if len(c) != wantLens[i] {
			t.Errorf("chunk %d length = %d, want %d", i, len(c), wantLens[i])
		}
	}
}

func TestChunk_ContentOrderPreserved(t *testing.T) {
	var parts []string
	for _, w := range []string{"alpha", "bravo", "charlie", "delta"} {
		parts = append(parts, strings.Repeat(w+" ", 150))
	}
	text := strings.Join(parts, "")

	chunks, err := Chunk(text, 1000, 200)
	if err != nil {
		t.Fatalf("Chunk failed: %v", err)
	}

	// every chunk must reappear at or after the previous chunk's position
	pos := 0
	for i, c := range chunks {
		if len(c) <= 50 {
			t.Errorf("chunk %d has length %d, want > 50", i, len(c))
		}
		idx := strings.Index(text[pos:], c)
		if idx < 0 {
			t.Fatalf("chunk %d not found in source order", i)
		}
		pos += idx
	}
}

func TestChunk_BoundaryRefinement(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantEnd string
	}{
		{
			name:    "breaks after period",
			text:    strings.Repeat("a", 995) + ". " + strings.Repeat("b", 1500),
			wantEnd: "a.",
		},
		{
			name:    "breaks after newline when no period",
			text:    strings.Repeat("a", 995) + "\n" + strings.Repeat("b", 1500),
			wantEnd: "a",
		},
		{
			name:    "period wins over earlier newline",
			text:    strings.Repeat("a", 950) + "\n" + strings.Repeat("b", 99) + "." + strings.Repeat("c", 1500),
			wantEnd: ".",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks, err := Chunk(tt.text, 1000, 200)
			if err != nil {
				t.Fatalf("Chunk failed: %v", err)
			}
			if len(chunks) < 2 {
				t.Fatalf("expected multiple chunks, got %d", len(chunks))
			}
			if !strings.HasSuffix(chunks[0], tt.wantEnd) {
				t.Errorf("first chunk ends %q, want suffix %q", tail(chunks[0], 10), tt.wantEnd)
			}
		})
	}
}

func TestChunk_DiscardsShortText(t *testing.T) {
	chunks, err := Chunk(strings.Repeat("x", 50), 1000, 200)
	if err != nil {
		t.Fatalf("Chunk failed: %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("expected text at the minimum length to be discarded, got %d chunks", len(chunks))
	}

	chunks, err = Chunk(strings.Repeat("x", 51), 1000, 200)
	if err != nil {
		t.Fatalf("Chunk failed: %v", err)
	}
	if len(chunks) != 1 {
		t.Errorf("expected a single chunk just over the minimum, got %d", len(chunks))
	}
}

func TestChunk_RejectsBadOverlap(t *testing.T) {
	for _, overlap := range []int{1000, 1500, -1} {
		if _, err := Chunk("some text", 1000, overlap); !errors.Is(err, ErrBadOverlap) {
			t.Errorf("overlap=%d: expected ErrBadOverlap, got %v", overlap, err)
		}
	}
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
