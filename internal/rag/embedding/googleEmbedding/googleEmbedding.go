package googleEmbedding

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/nurra/corpus-api/internal/config"
	"github.com/nurra/corpus-api/internal/rag/embedding"
	"github.com/nurra/corpus-api/pkg/logger_i"
)

var dimension = config.EmbeddingDimension

type client struct {
	genAI  *genai.Client
	model  string
	logger *logger_i.Logger
}

// NewClient builds the Gemini embedder, the alternate provider behind the
// same port. OutputDimensionality pins vectors to the corpus-wide size.
func NewClient(ctx context.Context, apiKey string) (embedding.Embedder, error) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("genai client: %w", err)
	}
	return &client{
		genAI:  c,
		model:  config.GoogleEmbeddingModel,
		logger: logger_i.NewLogger("google_embedding"),
	}, nil
}

func (c *client) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	result, err := c.genAI.Models.EmbedContent(ctx, c.model, genai.Text(text), &genai.EmbedContentConfig{
		OutputDimensionality: &dimension,
		TaskType:             "RETRIEVAL_DOCUMENT",
	})
	if err != nil {
		if isResourceExhausted(err) {
			return nil, fmt.Errorf("google embeddings: %w", embedding.ErrQuotaExceeded)
		}
		return nil, fmt.Errorf("google embeddings: %w", err)
	}
	if len(result.Embeddings) == 0 {
		return nil, errors.New("google embeddings: empty response")
	}
	return result.Embeddings[0].Values, nil
}

func isResourceExhausted(err error) bool {
	s, ok := status.FromError(err)
	return ok && s.Code() == codes.ResourceExhausted
}
