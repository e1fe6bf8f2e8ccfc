package textproc

import (
	"errors"
	"strings"

	"github.com/nurra/corpus-api/internal/config"
)

// ErrBadOverlap rejects overlap >= maxSize, which would stop the window from
// ever advancing.
var ErrBadOverlap = errors.New("chunk overlap must be smaller than max size")

// Chunk splits text into overlapping windows of at most maxSize bytes,
// preferring to end a non-final window just after a period or newline found
// within config.BoundarySearchPad bytes of the tentative end. Windows that trim
// to config.MinChunkLength bytes or fewer are dropped silently; short trailing
// fragments can therefore be lost, which is accepted. Pure function.
func Chunk(text string, maxSize, overlap int) ([]string, error) {
	if maxSize <= 0 {
		return nil, errors.New("chunk max size must be positive")
	}
	if overlap < 0 || overlap >= maxSize {
		return nil, ErrBadOverlap
	}

	var chunks []string
	start := 0
	for start < len(text) {
		end := start + maxSize
		if end < len(text) {
			end = refineBoundary(text, end)
		}

		sliceEnd := end
		if sliceEnd > len(text) {
			sliceEnd = len(text)
		}
		chunk := strings.TrimSpace(text[start:sliceEnd])
		if len(chunk) > config.MinChunkLength {
			chunks = append(chunks, chunk)
		}

		// advance off the unclamped end, exactly like the reference: the final
		// window pushes start past the text and terminates the loop
		start = end - overlap
	}
	return chunks, nil
}

// ChunkDefaults applies the corpus-wide window parameters.
func ChunkDefaults(text string) ([]string, error) {
	return Chunk(text, config.MaxChunkSize, config.ChunkOverlap)
}

// refineBoundary searches [end-pad, end+pad] for a sentence or line break and
// moves the window end just past it. A period wins over a newline when both
// are in range.
func refineBoundary(text string, end int) int {
	pad := config.BoundarySearchPad
	from := end - pad
	if from < 0 {
		from = 0
	}

	if p := indexFrom(text, '.', from); p > end-pad && p < end+pad {
		return p + 1
	}
	if n := indexFrom(text, '\n', from); n > end-pad && n < end+pad {
		return n + 1
	}
	return end
}

func indexFrom(text string, b byte, from int) int {
	i := strings.IndexByte(text[from:], b)
	if i < 0 {
		return -1
	}
	return from + i
}
