package constants

const (
	OpenAI = "openai"
	Gemini = "gemini"
)

const (
	// SQL generation uses the stronger model, explanation the cheaper one.
	OpenAISQLModel         = "gpt-4o"
	OpenAIExplanationModel = "gpt-4o-mini"
	OpenAIEmbeddingModel   = "text-embedding-3-small"

	GeminiSQLModel         = "gemini-1.5-pro"
	GeminiExplanationModel = "gemini-1.5-flash"
	GeminiEmbeddingModel   = "text-embedding-004"

	OpenAIMaxCompletionTokens = 1024
	GeminiMaxCompletionTokens = 1024

	// SQL generation must be reproducible for a given question/schema pair.
	LLMTemperature = 0.0
)
