package memoryDB

import (
	"context"
	"math"
	"testing"

	"github.com/nurra/corpus-api/internal/domain/corpusModels"
)

// chunkAt builds a unit-length 2D embedding whose cosine similarity against
// the query vector (1, 0) is exactly sim.
func chunkAt(content string, sim float64) corpusModels.DocumentChunk {
	return corpusModels.DocumentChunk{
		Content:   content,
		Embedding: []float32{float32(sim), float32(math.Sqrt(1 - sim*sim))},
		Metadata:  corpusModels.Metadata{"source": content + ".txt"},
	}
}

func TestSearch_FiltersAndOrders(t *testing.T) {
	store := NewStore()
	err := store.WriteBatch(context.Background(), []corpusModels.DocumentChunk{
		chunkAt("high", 0.9),
		chunkAt("low", 0.5),
		chunkAt("highest", 0.95),
	})
	if err != nil {
		t.Fatalf("WriteBatch failed: %v", err)
	}

	results, err := store.Search(context.Background(), []float32{1, 0}, 0.78, 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("Search got %d results, want 2 (0.5 is below threshold)", len(results))
	}
	if results[0].Content != "highest" || results[1].Content != "high" {
		t.Errorf("Search order got [%s %s], want descending [highest high]",
			results[0].Content, results[1].Content)
	}
	for _, r := range results {
		if r.Similarity <= 0.78 {
			t.Errorf("result %q similarity %f not strictly above threshold", r.Content, r.Similarity)
		}
		if r.ID == "" {
			t.Errorf("result %q has no id", r.Content)
		}
	}
}

func TestSearch_ThresholdIsStrict(t *testing.T) {
	store := NewStore()
	// Identical to the query vector, so similarity is exactly 1.0.
	err := store.WriteBatch(context.Background(), []corpusModels.DocumentChunk{
		{Content: "exact", Embedding: []float32{1, 0}},
	})
	if err != nil {
		t.Fatalf("WriteBatch failed: %v", err)
	}

	results, err := store.Search(context.Background(), []float32{1, 0}, 1.0, 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("similarity equal to the threshold must be excluded, got %d results", len(results))
	}
}

func TestSearch_LimitCaps(t *testing.T) {
	store := NewStore()
	chunks := []corpusModels.DocumentChunk{
		chunkAt("a", 0.99),
		chunkAt("b", 0.95),
		chunkAt("c", 0.9),
		chunkAt("d", 0.85),
	}
	if err := store.WriteBatch(context.Background(), chunks); err != nil {
		t.Fatalf("WriteBatch failed: %v", err)
	}

	results, err := store.Search(context.Background(), []float32{1, 0}, 0.5, 2)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 2 || results[0].Content != "a" || results[1].Content != "b" {
		t.Errorf("limit 2 should keep the two best hits, got %v", results)
	}
}

func TestClearThenCount(t *testing.T) {
	store := NewStore()
	if err := store.WriteBatch(context.Background(), []corpusModels.DocumentChunk{chunkAt("x", 0.9)}); err != nil {
		t.Fatalf("WriteBatch failed: %v", err)
	}
	if err := store.Clear(context.Background()); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	n, err := store.Count(context.Background())
	if err != nil || n != 0 {
		t.Errorf("Count after Clear got (%d, %v), want 0", n, err)
	}
}
