package service

import (
	"context"
)

// AIClient is the interface for OpenAI-compatible model providers
type AIClient interface {
	// ChatCompletion performs a single non-streaming completion
	ChatCompletion(ctx context.Context, req ChatCompletionRequest) (*ChatCompletionResponse, error)

	// CreateEmbeddings generates embeddings for texts, in input order
	CreateEmbeddings(ctx context.Context, texts []string) ([][]float32, error)

	// IsEnabled returns whether the AI client is configured and ready
	IsEnabled() bool
}

// Ensure OpenAIClient implements AIClient
var _ AIClient = (*OpenAIClient)(nil)
