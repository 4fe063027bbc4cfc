package config

import (
	"expenselit-ai/internal/constants"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Environment struct {
	// Server configs
	IsDocker          bool
	Port              string
	Environment       string
	CorsAllowedOrigin string

	// Auth configs
	JWTSecret                        string
	JWTExpirationMilliseconds        int
	JWTRefreshExpirationMilliseconds int

	// Application database configs
	MongoURI          string
	MongoDatabaseName string

	// Redis configs
	RedisHost     string
	RedisPort     string
	RedisUsername string
	RedisPassword string

	// Finance database configs (the ExpenseLit relational schema)
	FinanceDatabaseType     string
	FinanceDatabaseHost     string
	FinanceDatabasePort     string
	FinanceDatabaseName     string
	FinanceDatabaseUsername string
	FinanceDatabasePassword string

	// Vector store configs
	VectorStorePath       string
	VectorStoreCollection string

	DefaultLLMClient string

	// OpenAI configs
	OpenAIAPIKey              string
	OpenAISQLModel            string
	OpenAIExplanationModel    string
	OpenAIEmbeddingModel      string
	OpenAIMaxCompletionTokens int
	OpenAITemperature         float64

	// Gemini configs
	GeminiAPIKey              string
	GeminiSQLModel            string
	GeminiExplanationModel    string
	GeminiEmbeddingModel      string
	GeminiMaxCompletionTokens int
	GeminiTemperature         float64
}

var Env Environment

// LoadEnv loads environment variables from .env file if present
// and validates required variables
func LoadEnv() error {
	// Check if running in Docker
	Env.IsDocker = os.Getenv("IS_DOCKER") == "true"

	// Load .env file only if not running in Docker
	if !Env.IsDocker {
		if err := godotenv.Load(); err != nil {
			fmt.Printf("Warning: .env file not found: %v\n", err)
		}
	}

	// Server configs
	Env.Port = getEnvWithDefault("PORT", "3000")
	Env.Environment = getEnvWithDefault("ENVIRONMENT", "DEVELOPMENT")
	Env.CorsAllowedOrigin = getEnvWithDefault("CORS_ALLOWED_ORIGIN", "http://localhost:5173")

	// Auth configs
	Env.JWTSecret = getRequiredEnv("JWT_SECRET", "expenselit_jwt_secret")
	Env.JWTExpirationMilliseconds = getIntEnvWithDefault("JWT_EXPIRATION_MILLISECONDS", 1000*60*60*24*10)                 // 10 days default
	Env.JWTRefreshExpirationMilliseconds = getIntEnvWithDefault("JWT_REFRESH_EXPIRATION_MILLISECONDS", 1000*60*60*24*30) // 30 days default

	// Application database configs
	Env.MongoURI = getRequiredEnv("EXPENSELIT_MONGODB_URI", "mongodb://localhost:27017/expenselit")
	Env.MongoDatabaseName = getRequiredEnv("EXPENSELIT_MONGODB_NAME", "expenselit")
	Env.RedisHost = getRequiredEnv("EXPENSELIT_REDIS_HOST", "localhost")
	Env.RedisPort = getRequiredEnv("EXPENSELIT_REDIS_PORT", "6379")
	Env.RedisUsername = getRequiredEnv("EXPENSELIT_REDIS_USERNAME", "expenselit")
	Env.RedisPassword = getRequiredEnv("EXPENSELIT_REDIS_PASSWORD", "expenselit")

	// Finance database, the schema the chatbot answers questions about
	Env.FinanceDatabaseType = getRequiredEnv("FINANCE_DB_TYPE", constants.DatabaseTypeMySQL)
	Env.FinanceDatabaseHost = getRequiredEnv("FINANCE_DB_HOST", "localhost")
	Env.FinanceDatabasePort = getRequiredEnv("FINANCE_DB_PORT", "3306")
	Env.FinanceDatabaseName = getRequiredEnv("FINANCE_DB_NAME", "financas")
	Env.FinanceDatabaseUsername = getRequiredEnv("FINANCE_DB_USERNAME", "")
	Env.FinanceDatabasePassword = getRequiredEnv("FINANCE_DB_PASSWORD", "")

	// Vector store configs
	Env.VectorStorePath = getEnvWithDefault("VECTOR_STORE_PATH", "data/conversas.db")
	Env.VectorStoreCollection = getEnvWithDefault("VECTOR_STORE_COLLECTION", "respostas_financeiras")

	// LLM configs
	Env.DefaultLLMClient = getEnvWithDefault("DEFAULT_LLM_CLIENT", constants.OpenAI)

	// OpenAI configs
	Env.OpenAIAPIKey = getRequiredEnv("OPENAI_API_KEY", "")
	Env.OpenAISQLModel = getEnvWithDefault("OPENAI_SQL_MODEL", constants.OpenAISQLModel)
	Env.OpenAIExplanationModel = getEnvWithDefault("OPENAI_EXPLANATION_MODEL", constants.OpenAIExplanationModel)
	Env.OpenAIEmbeddingModel = getEnvWithDefault("OPENAI_EMBEDDING_MODEL", constants.OpenAIEmbeddingModel)
	Env.OpenAIMaxCompletionTokens = getIntEnvWithDefault("OPENAI_MAX_COMPLETION_TOKENS", constants.OpenAIMaxCompletionTokens)
	Env.OpenAITemperature = getFloatEnvWithDefault("OPENAI_TEMPERATURE", constants.LLMTemperature)

	// Gemini configs
	Env.GeminiAPIKey = getRequiredEnv("GEMINI_API_KEY", "")
	Env.GeminiSQLModel = getEnvWithDefault("GEMINI_SQL_MODEL", constants.GeminiSQLModel)
	Env.GeminiExplanationModel = getEnvWithDefault("GEMINI_EXPLANATION_MODEL", constants.GeminiExplanationModel)
	Env.GeminiEmbeddingModel = getEnvWithDefault("GEMINI_EMBEDDING_MODEL", constants.GeminiEmbeddingModel)
	Env.GeminiMaxCompletionTokens = getIntEnvWithDefault("GEMINI_MAX_COMPLETION_TOKENS", constants.GeminiMaxCompletionTokens)
	Env.GeminiTemperature = getFloatEnvWithDefault("GEMINI_TEMPERATURE", constants.LLMTemperature)

	return validateConfig()
}

// Helper functions to get environment variables with defaults and validation
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getRequiredEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnvWithDefault(key string, defaultValue int) int {
	strValue := os.Getenv(key)
	if strValue == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(strValue)
	if err != nil {
		fmt.Printf("Warning: Invalid value for %s, using default: %d\n", key, defaultValue)
		return defaultValue
	}
	return value
}

func getFloatEnvWithDefault(key string, defaultValue float64) float64 {
	strValue := os.Getenv(key)
	if strValue == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(strValue, 64)
	if err != nil {
		fmt.Printf("Warning: Invalid value for %s, using default: %f\n", key, defaultValue)
		return defaultValue
	}
	return value
}

func validateConfig() error {
	// Validate MongoDB URI format
	if !isValidURI(Env.MongoURI) {
		return fmt.Errorf("invalid EXPENSELIT_MONGODB_URI format: %s", Env.MongoURI)
	}

	// Validate JWT expiration
	if Env.JWTExpirationMilliseconds <= 0 {
		return fmt.Errorf("JWT_EXPIRATION_MILLISECONDS must be positive, got: %d", Env.JWTExpirationMilliseconds)
	}

	if Env.FinanceDatabaseType != constants.DatabaseTypeMySQL && Env.FinanceDatabaseType != constants.DatabaseTypePostgreSQL {
		return fmt.Errorf("unsupported FINANCE_DB_TYPE: %s", Env.FinanceDatabaseType)
	}

	return nil
}

func isValidURI(uri string) bool {
	return len(uri) > 0 && (len(uri) > 10)
}
