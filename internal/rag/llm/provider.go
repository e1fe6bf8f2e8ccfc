package llm

import "context"

// Provider is the uniform completion port. The system prompt already carries
// any retrieved context; providers never see the retrieval pipeline.
type Provider interface {
	Generate(ctx context.Context, systemPrompt string, userMessage string) (string, error)
}
