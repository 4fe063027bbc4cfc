package llm

import "context"

// Client defines the interface for LLM interactions. SQL generation and
// explanation may run on different models of the same provider.
type Client interface {
	GenerateSQL(ctx context.Context, prompt string) (string, error)
	GenerateExplanation(ctx context.Context, prompt string) (string, error)
	CreateEmbedding(ctx context.Context, text string) ([]float32, error)
	GetModelInfo() ModelInfo
}

// ModelInfo contains information about the configured models
type ModelInfo struct {
	Provider            string
	SQLModel            string
	ExplanationModel    string
	EmbeddingModel      string
	MaxCompletionTokens int
}

// Config holds configuration for LLM clients
type Config struct {
	Provider            string
	SQLModel            string
	ExplanationModel    string
	EmbeddingModel      string
	APIKey              string
	MaxCompletionTokens int
	Temperature         float64
}
