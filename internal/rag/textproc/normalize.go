package textproc

import (
	"strings"
	"unicode"
)

// keptPunct is the conservative punctuation allow-list carried over from the
// original corpus tooling.
const keptPunct = ".,!?;:()[]{}\"'-–—…"

// Normalize strips noise characters and collapses whitespace. The allow-list
// covers all Unicode letter and digit categories, not just ASCII word
// characters - the corpus is largely Arabic script and an ASCII-only filter
// would destroy it. Idempotent.
func Normalize(text string) string {
	filtered := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsSpace(r):
			return r
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			return r
		case strings.ContainsRune(keptPunct, r):
			return r
		default:
			return -1
		}
	}, text)

	return strings.TrimSpace(collapseWhitespace(filtered))
}

// collapseWhitespace reduces every whitespace run to a single character: a
// newline when the run contained one, a space otherwise. Runs are collapsed
// after filtering so characters removed between spaces cannot leave a double
// space behind.
func collapseWhitespace(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	inRun := false
	runHasNewline := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			inRun = true
			if r == '\n' {
				runHasNewline = true
			}
			continue
		}
		if inRun {
			if runHasNewline {
				b.WriteByte('\n')
			} else {
				b.WriteByte(' ')
			}
			inRun = false
			runHasNewline = false
		}
		b.WriteRune(r)
	}
	if inRun {
		if runHasNewline {
			b.WriteByte('\n')
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}
