package fallback

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/nurra/corpus-api/internal/config"
	"github.com/nurra/corpus-api/pkg/logger_i"
)

// RawSourceBucket looks up a stored raw source document by name.
type RawSourceBucket interface {
	Download(ctx context.Context, name string) (content string, found bool, err error)
}

// Resolver is the last retrieval tier: when vector search yields nothing, it
// walks a fixed list of known raw sources and serves a bounded excerpt of the
// first one that downloads non-empty. Strictly best-effort - every failure is
// swallowed and reported as a miss.
type Resolver struct {
	bucket  RawSourceBucket
	sources []string
	logger  *logger_i.Logger
}

func NewResolver(bucket RawSourceBucket, sources []string) *Resolver {
	return &Resolver{
		bucket:  bucket,
		sources: sources,
		logger:  logger_i.NewLogger("Fallback"),
	}
}

// Resolve returns an excerpt of at most config.FallbackExcerptLen characters,
// or found=false when no candidate source produced one.
func (r *Resolver) Resolve(ctx context.Context) (string, bool) {
	if r.bucket == nil {
		return "", false
	}
	log := r.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	for _, name := range r.sources {
		content, found, err := r.bucket.Download(ctx, name)
		if err != nil {
			log.Warn("Raw source download failed", "source", name, "error", err)
			continue
		}
		if !found {
			continue
		}

		excerpt := excerptOf(content)
		if excerpt == "" {
			continue
		}
		log.Debug("Fallback source matched", "source", name, "bytes", len(excerpt))
		return excerpt, true
	}
	return "", false
}

// excerptOf collapses whitespace and truncates to FallbackExcerptLen characters,
// keeping the prompt small. The cap counts runes, not bytes, so multi-byte
// scripts get the full excerpt and the tail is never a split rune.
func excerptOf(content string) string {
	cleaned := strings.Join(strings.Fields(content), " ")
	if utf8.RuneCountInString(cleaned) > config.FallbackExcerptLen {
		cleaned = string([]rune(cleaned)[:config.FallbackExcerptLen])
	}
	return cleaned
}
