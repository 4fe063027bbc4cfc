package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type GeminiClient struct {
	client              *genai.Client
	sqlModel            string
	explanationModel    string
	embeddingModel      string
	maxCompletionTokens int
	temperature         float64
}

func NewGeminiClient(config Config) (*GeminiClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	// Create the Gemini SDK client using the provided API key.
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(config.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %v", err)
	}

	return &GeminiClient{
		client:              client,
		sqlModel:            config.SQLModel,
		explanationModel:    config.ExplanationModel,
		embeddingModel:      config.EmbeddingModel,
		maxCompletionTokens: config.MaxCompletionTokens,
		temperature:         config.Temperature,
	}, nil
}

func (c *GeminiClient) GenerateSQL(ctx context.Context, prompt string) (string, error) {
	return c.complete(ctx, c.sqlModel, prompt)
}

func (c *GeminiClient) GenerateExplanation(ctx context.Context, prompt string) (string, error) {
	return c.complete(ctx, c.explanationModel, prompt)
}

func (c *GeminiClient) complete(ctx context.Context, modelName, prompt string) (string, error) {
	// Check if the context is cancelled
	if ctx.Err() != nil {
		return "", &GenerationError{Provider: "gemini", Model: modelName, Err: ctx.Err()}
	}

	model := c.client.GenerativeModel(modelName)
	maxTokens := int32(c.maxCompletionTokens)
	model.MaxOutputTokens = &maxTokens
	model.SetTemperature(float32(c.temperature))

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", &GenerationError{Provider: "gemini", Model: modelName, Err: err}
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", &GenerationError{Provider: "gemini", Model: modelName, Err: ErrEmptyCompletion}
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return "", &GenerationError{Provider: "gemini", Model: modelName, Err: ErrEmptyCompletion}
	}

	return sb.String(), nil
}

func (c *GeminiClient) CreateEmbedding(ctx context.Context, text string) ([]float32, error) {
	em := c.client.EmbeddingModel(c.embeddingModel)
	resp, err := em.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("gemini embedding error: %v", err)
	}
	if resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
		return nil, fmt.Errorf("no embedding returned from Gemini")
	}
	return resp.Embedding.Values, nil
}

func (c *GeminiClient) GetModelInfo() ModelInfo {
	return ModelInfo{
		Provider:            "gemini",
		SQLModel:            c.sqlModel,
		ExplanationModel:    c.explanationModel,
		EmbeddingModel:      c.embeddingModel,
		MaxCompletionTokens: c.maxCompletionTokens,
	}
}
