package openaiLLM

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/nurra/corpus-api/internal/config"
	"github.com/nurra/corpus-api/internal/rag/llm"
	"github.com/nurra/corpus-api/pkg/logger_i"
)

type llmClient struct {
	openAI openai.Client
	model  string
	logger *logger_i.Logger
}

func NewClient(apiKey string) (llm.Provider, error) {
	if apiKey == "" {
		return nil, errors.New("missing OpenAI API key")
	}
	return &llmClient{
		openAI: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  config.OpenAICompletionModel,
		logger: logger_i.NewLogger("llm_openai"),
	}, nil
}

func (c *llmClient) Generate(ctx context.Context, systemPrompt string, userMessage string) (string, error) {
	completion, err := c.openAI.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userMessage),
		},
		Temperature: openai.Float(config.ModelTemperature),
	})
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("openai completion: no choices returned")
	}
	return completion.Choices[0].Message.Content, nil
}
