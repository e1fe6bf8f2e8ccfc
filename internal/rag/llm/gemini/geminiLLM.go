package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/nurra/corpus-api/internal/config"
	"github.com/nurra/corpus-api/internal/rag/llm"
	"github.com/nurra/corpus-api/pkg/logger_i"
)

type llmClient struct {
	client *genai.Client
	model  string
	logger *logger_i.Logger
}

func NewClient(ctx context.Context, apiKey string) (llm.Provider, error) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("genai client: %w", err)
	}
	return &llmClient{
		client: c,
		model:  config.GeminiModelName,
		logger: logger_i.NewLogger("llm_gemini"),
	}, nil
}

func (c *llmClient) Generate(ctx context.Context, systemPrompt string, userMessage string) (string, error) {
	temperature := float32(config.ModelTemperature)
	contentConfig := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		},
		Temperature: &temperature,
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(userMessage), contentConfig)
	if err != nil {
		return "", fmt.Errorf("gemini completion: %w", err)
	}
	return result.Text(), nil
}
