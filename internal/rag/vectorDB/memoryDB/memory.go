// Package memoryDB keeps the corpus in process memory with brute-force cosine
// search. It backs development runs without a database and the store tests.
package memoryDB

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/nurra/corpus-api/internal/adapter/utils"
	"github.com/nurra/corpus-api/internal/domain/corpusModels"
)

type storedChunk struct {
	id    string
	chunk corpusModels.DocumentChunk
}

type Store struct {
	mu     sync.RWMutex
	chunks []storedChunk
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) WriteBatch(ctx context.Context, chunks []corpusModels.DocumentChunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, chunk := range chunks {
		s.chunks = append(s.chunks, storedChunk{id: utils.GetNewUUID(), chunk: chunk})
	}
	return nil
}

// Search scores every stored chunk against the query vector and returns the
// hits strictly above threshold, most similar first, at most limit of them.
func (s *Store) Search(ctx context.Context, vector []float32, threshold float64, limit int) ([]corpusModels.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []corpusModels.SearchResult
	for _, stored := range s.chunks {
		similarity := cosineSimilarity(vector, stored.chunk.Embedding)
		if similarity <= threshold {
			continue
		}
		results = append(results, corpusModels.SearchResult{
			ID:         stored.id,
			Content:    stored.chunk.Content,
			Similarity: similarity,
			Metadata:   stored.chunk.Metadata,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks), nil
}

func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = nil
	return nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
