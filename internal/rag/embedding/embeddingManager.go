package embedding

import (
	"context"
	"errors"
)

// ErrQuotaExceeded marks an embedding failure caused by provider rate or
// quota limits. Callers degrade the same way either way; the distinction only
// feeds the degradation reason.
var ErrQuotaExceeded = errors.New("embedding quota exceeded")

// Embedder turns text into a dense vector of config.EmbeddingDimension floats.
// One external call per invocation, no retries; failures propagate and the
// caller decides whether to degrade (retrieval) or abort (ingestion).
type Embedder interface {
	GetEmbedding(ctx context.Context, text string) ([]float32, error)
}

func IsQuotaExceeded(err error) bool {
	return errors.Is(err, ErrQuotaExceeded)
}
