package rag_test

import (
	"context"

	"github.com/nurra/corpus-api/internal/domain/corpusModels"
)

// MockCorpusStore implements vectorDB.CorpusStore
type MockCorpusStore struct {
	// Control fields to simulate different behaviors
	OnSearch     func(ctx context.Context, vector []float32, threshold float64, limit int) ([]corpusModels.SearchResult, error)
	OnWriteBatch func(ctx context.Context, chunks []corpusModels.DocumentChunk) error
	OnCount      func(ctx context.Context) (int, error)
	OnClear      func(ctx context.Context) error
}

func (m *MockCorpusStore) Search(ctx context.Context, v []float32, threshold float64, limit int) ([]corpusModels.SearchResult, error) {
	if m.OnSearch != nil {
		return m.OnSearch(ctx, v, threshold, limit)
	}
	return []corpusModels.SearchResult{{ID: "1", Content: "default context", Similarity: 0.9}}, nil
}

func (m *MockCorpusStore) WriteBatch(ctx context.Context, chunks []corpusModels.DocumentChunk) error {
	if m.OnWriteBatch != nil {
		return m.OnWriteBatch(ctx, chunks)
	}
	return nil
}

func (m *MockCorpusStore) Count(ctx context.Context) (int, error) {
	if m.OnCount != nil {
		return m.OnCount(ctx)
	}
	return 0, nil
}

func (m *MockCorpusStore) Clear(ctx context.Context) error {
	if m.OnClear != nil {
		return m.OnClear(ctx)
	}
	return nil
}

type MockEmbedder struct {
	OnGetEmbedding func(ctx context.Context, text string) ([]float32, error)
}

func (m *MockEmbedder) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	if m.OnGetEmbedding != nil {
		return m.OnGetEmbedding(ctx, text)
	}
	return []float32{0.1}, nil
}

// MockLLM implements llm.Provider
type MockLLM struct {
	OnGenerate func(ctx context.Context, systemPrompt string, userMessage string) (string, error)
}

func (m *MockLLM) Generate(ctx context.Context, systemPrompt string, userMessage string) (string, error) {
	if m.OnGenerate != nil {
		return m.OnGenerate(ctx, systemPrompt, userMessage)
	}
	return "mocked llm response", nil
}

// MockBucket implements fallback.RawSourceBucket
type MockBucket struct {
	OnDownload func(ctx context.Context, name string) (string, bool, error)
}

func (m *MockBucket) Download(ctx context.Context, name string) (string, bool, error) {
	if m.OnDownload != nil {
		return m.OnDownload(ctx, name)
	}
	return "", false, nil
}
