package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/nurra/corpus-api/internal/domain/corpusModels"
	"github.com/nurra/corpus-api/internal/rag/embedding"
	"github.com/nurra/corpus-api/internal/rag/textproc"
	"github.com/nurra/corpus-api/pkg/logger_i"
)

// ErrEmptyContent rejects documents with nothing to ingest.
var ErrEmptyContent = errors.New("document content is empty")

// ProcessDocument turns raw document content into embedded chunks ready for
// storage. Chunks are embedded one at a time, in order; the first embedding
// failure aborts the whole document so a partially embedded document is never
// handed to the store. Every chunk's metadata carries the caller's fields plus
// chunk_index and total_chunks.
func ProcessDocument(ctx context.Context, content string, metadata corpusModels.Metadata, embedder embedding.Embedder) ([]corpusModels.DocumentChunk, error) {
	logger := logger_i.NewLogger("Document Ingestion")

	if content == "" {
		return nil, ErrEmptyContent
	}

	normalized := textproc.Normalize(content)
	pieces, err := textproc.ChunkDefaults(normalized)
	if err != nil {
		return nil, fmt.Errorf("chunking: %w", err)
	}
	logger.Debug("Prepared document", "chunks", len(pieces))

	chunks := make([]corpusModels.DocumentChunk, 0, len(pieces))
	for i, piece := range pieces {
		vector, err := embedder.GetEmbedding(ctx, piece)
		if err != nil {
			return nil, fmt.Errorf("embedding chunk %d/%d: %w", i+1, len(pieces), err)
		}

		chunkMeta := metadata.Clone()
		chunkMeta[corpusModels.MetaChunkIndex] = i
		chunkMeta[corpusModels.MetaTotalChunks] = len(pieces)

		chunks = append(chunks, corpusModels.DocumentChunk{
			Content:   piece,
			Embedding: vector,
			Metadata:  chunkMeta,
		})
	}
	return chunks, nil
}
