package openaiEmbedding

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/nurra/corpus-api/internal/config"
	"github.com/nurra/corpus-api/internal/rag/embedding"
	"github.com/nurra/corpus-api/pkg/logger_i"
)

type client struct {
	openAI openai.Client
	model  string
	logger *logger_i.Logger
}

// NewClient builds the OpenAI embedder. The returned vectors always have
// config.EmbeddingDimension entries.
func NewClient(apiKey string) (embedding.Embedder, error) {
	if apiKey == "" {
		return nil, errors.New("missing OpenAI API key")
	}
	return &client{
		openAI: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  config.OpenAIEmbeddingModel,
		logger: logger_i.NewLogger("openai_embedding"),
	}, nil
}

func (c *client) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	res, err := c.openAI.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input:          openai.EmbeddingNewParamsInputUnion{OfString: openai.String(text)},
		Model:          c.model,
		EncodingFormat: openai.EmbeddingNewParamsEncodingFormatFloat,
		Dimensions:     openai.Int(int64(config.EmbeddingDimension)),
	})
	if err != nil {
		if isQuotaError(err) {
			return nil, fmt.Errorf("openai embeddings: %w", embedding.ErrQuotaExceeded)
		}
		return nil, fmt.Errorf("openai embeddings: %w", err)
	}
	if len(res.Data) == 0 {
		return nil, errors.New("openai embeddings: empty response")
	}

	values := res.Data[0].Embedding
	vector := make([]float32, len(values))
	for i, v := range values {
		vector[i] = float32(v)
	}
	return vector, nil
}

func isQuotaError(err error) bool {
	var apiErr *openai.Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests
}
