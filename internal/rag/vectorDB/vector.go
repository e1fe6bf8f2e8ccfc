package vectorDB

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/nurra/corpus-api/internal/config"
	"github.com/nurra/corpus-api/internal/domain/corpusModels"
)

// CorpusStore owns the persisted chunks. Mutation is append-only (WriteBatch)
// or full-wipe (Clear); there are no partial updates, so the backing store's
// per-batch write atomicity is all the concurrency control required.
type CorpusStore interface {
	// WriteBatch persists one batch of chunks atomically.
	WriteBatch(ctx context.Context, chunks []corpusModels.DocumentChunk) error

	// Search returns results with similarity (1 - cosine distance) strictly
	// above threshold, ordered by descending similarity, at most limit.
	Search(ctx context.Context, vector []float32, threshold float64, limit int) ([]corpusModels.SearchResult, error)

	Count(ctx context.Context) (int, error)
	Clear(ctx context.Context) error
}

// InsertMany writes chunks in batches of config.InsertBatchSize with a
// one-second pause between batches, pacing writes against the external
// service's rate limits. The first failing batch aborts the remaining ones;
// already-written batches stay (partial ingestion is an accepted side effect).
func InsertMany(ctx context.Context, store CorpusStore, chunks []corpusModels.DocumentChunk) error {
	limiter := rate.NewLimiter(rate.Every(config.InsertBatchPace), 1)

	for i := 0; i < len(chunks); i += config.InsertBatchSize {
		if err := limiter.Wait(ctx); err != nil {
			return fmt.Errorf("insert pacing interrupted: %w", err)
		}

		end := i + config.InsertBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		if err := store.WriteBatch(ctx, chunks[i:end]); err != nil {
			return fmt.Errorf("writing batch %d/%d: %w",
				i/config.InsertBatchSize+1,
				(len(chunks)+config.InsertBatchSize-1)/config.InsertBatchSize, err)
		}
	}
	return nil
}
