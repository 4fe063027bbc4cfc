package llm

import (
	"context"
	"fmt"
	"log"

	"github.com/sashabaranov/go-openai"
)

type OpenAIClient struct {
	client              *openai.Client
	sqlModel            string
	explanationModel    string
	embeddingModel      string
	maxCompletionTokens int
	temperature         float64
}

func NewOpenAIClient(config Config) (*OpenAIClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	client := openai.NewClient(config.APIKey)
	sqlModel := config.SQLModel
	if sqlModel == "" {
		sqlModel = openai.GPT4o
	}
	explanationModel := config.ExplanationModel
	if explanationModel == "" {
		explanationModel = openai.GPT4oMini
	}
	embeddingModel := config.EmbeddingModel
	if embeddingModel == "" {
		embeddingModel = string(openai.SmallEmbedding3)
	}

	return &OpenAIClient{
		client:              client,
		sqlModel:            sqlModel,
		explanationModel:    explanationModel,
		embeddingModel:      embeddingModel,
		maxCompletionTokens: config.MaxCompletionTokens,
		temperature:         config.Temperature,
	}, nil
}

func (c *OpenAIClient) GenerateSQL(ctx context.Context, prompt string) (string, error) {
	return c.complete(ctx, c.sqlModel, prompt)
}

func (c *OpenAIClient) GenerateExplanation(ctx context.Context, prompt string) (string, error) {
	return c.complete(ctx, c.explanationModel, prompt)
}

func (c *OpenAIClient) complete(ctx context.Context, model, prompt string) (string, error) {
	// Check if the context is cancelled
	if ctx.Err() != nil {
		return "", &GenerationError{Provider: "openai", Model: model, Err: ctx.Err()}
	}

	req := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxCompletionTokens: c.maxCompletionTokens,
		Temperature:         float32(c.temperature),
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		log.Printf("OPENAI -> complete -> err: %v", err)
		return "", &GenerationError{Provider: "openai", Model: model, Err: err}
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", &GenerationError{Provider: "openai", Model: model, Err: ErrEmptyCompletion}
	}

	return resp.Choices[0].Message.Content, nil
}

func (c *OpenAIClient) CreateEmbedding(ctx context.Context, text string) ([]float32, error) {
	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(c.embeddingModel),
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI embedding error: %v", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("no embedding returned from OpenAI")
	}
	return resp.Data[0].Embedding, nil
}

func (c *OpenAIClient) GetModelInfo() ModelInfo {
	return ModelInfo{
		Provider:            "openai",
		SQLModel:            c.sqlModel,
		ExplanationModel:    c.explanationModel,
		EmbeddingModel:      c.embeddingModel,
		MaxCompletionTokens: c.maxCompletionTokens,
	}
}
