package di

import (
	"expenselit-ai/config"
	"expenselit-ai/internal/apis/handlers"
	"expenselit-ai/internal/constants"
	"expenselit-ai/internal/repositories"
	"expenselit-ai/internal/services"
	"expenselit-ai/internal/utils"
	"expenselit-ai/pkg/financedb"
	"expenselit-ai/pkg/llm"
	"expenselit-ai/pkg/mongodb"
	"expenselit-ai/pkg/redis"
	"expenselit-ai/pkg/vectorstore"
	"log"
	"time"

	"go.uber.org/dig"
)

var DiContainer *dig.Container

func Initialize() {
	DiContainer = dig.New()

	// Initialize MongoDB
	dbConfig := mongodb.MongoDbConfigModel{
		ConnectionUrl: config.Env.MongoURI,
		DatabaseName:  config.Env.MongoDatabaseName,
	}
	mongodbClient := mongodb.InitializeDatabaseConnection(dbConfig)

	// Initialize Redis
	redisClient, err := redis.RedisClient(config.Env.RedisHost, config.Env.RedisPort, config.Env.RedisUsername, config.Env.RedisPassword)
	if err != nil {
		log.Fatalf("Failed to initialize Redis client: %v", err)
	}

	// Initialize services and repositories
	redisRepo := redis.NewRedisRepositories(redisClient)
	jwtService := utils.NewJWTService(
		config.Env.JWTSecret,
		time.Millisecond*time.Duration(config.Env.JWTExpirationMilliseconds),
		time.Millisecond*time.Duration(config.Env.JWTRefreshExpirationMilliseconds),
	)

	tokenRepo := repositories.NewTokenRepository(redisRepo)

	// Provide all dependencies to the container
	if err := DiContainer.Provide(func() *mongodb.MongoDBClient { return mongodbClient }); err != nil {
		log.Fatalf("Failed to provide MongoDB client: %v", err)
	}

	if err := DiContainer.Provide(func() redis.IRedisRepositories { return redisRepo }); err != nil {
		log.Fatalf("Failed to provide Redis repositories: %v", err)
	}

	if err := DiContainer.Provide(func() utils.JWTService { return jwtService }); err != nil {
		log.Fatalf("Failed to provide JWT service: %v", err)
	}

	if err := DiContainer.Provide(func() repositories.TokenRepository { return tokenRepo }); err != nil {
		log.Fatalf("Failed to provide token repository: %v", err)
	}

	if err := DiContainer.Provide(func(db *mongodb.MongoDBClient) repositories.UserRepository {
		return repositories.NewUserRepository(db)
	}); err != nil {
		log.Fatalf("Failed to provide user repository: %v", err)
	}

	if err := DiContainer.Provide(func(db *mongodb.MongoDBClient) repositories.ConversationRepository {
		return repositories.NewConversationRepository(db)
	}); err != nil {
		log.Fatalf("Failed to provide conversation repository: %v", err)
	}

	// Provide the finance database executor
	if err := DiContainer.Provide(func() *financedb.Executor {
		executor := financedb.NewExecutor(financedb.ConnectionConfig{
			Type:     config.Env.FinanceDatabaseType,
			Host:     config.Env.FinanceDatabaseHost,
			Port:     config.Env.FinanceDatabasePort,
			Username: config.Env.FinanceDatabaseUsername,
			Password: config.Env.FinanceDatabasePassword,
			Database: config.Env.FinanceDatabaseName,
		})
		executor.RegisterDriver(constants.DatabaseTypeMySQL, financedb.NewMySQLDriver())
		executor.RegisterDriver(constants.DatabaseTypePostgreSQL, financedb.NewPostgresDriver())
		return executor
	}); err != nil {
		log.Fatalf("Failed to provide finance database executor: %v", err)
	}

	// Add LLM Manager
	if err := DiContainer.Provide(func() *llm.Manager {
		manager := llm.NewManager()

		switch config.Env.DefaultLLMClient {
		case constants.OpenAI:
			// Register default OpenAI client
			err := manager.RegisterClient(constants.OpenAI, llm.Config{
				Provider:            constants.OpenAI,
				SQLModel:            config.Env.OpenAISQLModel,
				ExplanationModel:    config.Env.OpenAIExplanationModel,
				EmbeddingModel:      config.Env.OpenAIEmbeddingModel,
				APIKey:              config.Env.OpenAIAPIKey,
				MaxCompletionTokens: config.Env.OpenAIMaxCompletionTokens,
				Temperature:         config.Env.OpenAITemperature,
			})
			if err != nil {
				log.Printf("Warning: Failed to register OpenAI client: %v", err)
			}
		case constants.Gemini:
			// Register default Gemini client
			err := manager.RegisterClient(constants.Gemini, llm.Config{
				Provider:            constants.Gemini,
				SQLModel:            config.Env.GeminiSQLModel,
				ExplanationModel:    config.Env.GeminiExplanationModel,
				EmbeddingModel:      config.Env.GeminiEmbeddingModel,
				APIKey:              config.Env.GeminiAPIKey,
				MaxCompletionTokens: config.Env.GeminiMaxCompletionTokens,
				Temperature:         config.Env.GeminiTemperature,
			})
			if err != nil {
				log.Printf("Warning: Failed to register Gemini client: %v", err)
			}
		}
		return manager
	}); err != nil {
		log.Fatalf("Failed to provide LLM manager: %v", err)
	}

	// Provide the vector store, embeddings come from the default LLM client
	if err := DiContainer.Provide(func(llmManager *llm.Manager) (*vectorstore.Store, error) {
		llmClient, err := llmManager.GetClient(config.Env.DefaultLLMClient)
		if err != nil {
			return nil, err
		}
		return vectorstore.New(config.Env.VectorStorePath, config.Env.VectorStoreCollection, llmClient)
	}); err != nil {
		log.Fatalf("Failed to provide vector store: %v", err)
	}

	// Provide the session registry
	if err := DiContainer.Provide(func() *services.SessionRegistry {
		return services.NewSessionRegistry()
	}); err != nil {
		log.Fatalf("Failed to provide session registry: %v", err)
	}

	// Provide services
	if err := DiContainer.Provide(func(userRepo repositories.UserRepository, tokenRepo repositories.TokenRepository, jwt utils.JWTService) services.AuthService {
		return services.NewAuthService(userRepo, jwt, tokenRepo)
	}); err != nil {
		log.Fatalf("Failed to provide auth service: %v", err)
	}

	if err := DiContainer.Provide(func(
		conversationRepo repositories.ConversationRepository,
		userRepo repositories.UserRepository,
		llmManager *llm.Manager,
		executor *financedb.Executor,
		store *vectorstore.Store,
		sessions *services.SessionRegistry,
	) services.AskService {
		// Get default LLM client
		llmClient, err := llmManager.GetClient(config.Env.DefaultLLMClient)
		if err != nil {
			log.Printf("Warning: Failed to get default LLM client: %v", err)
		}

		askService := services.NewAskService(conversationRepo, userRepo, llmClient, executor, store, sessions)

		// Set ask service in auth service so logout can end live sessions
		err = DiContainer.Invoke(func(authService services.AuthService) {
			authService.SetAskService(askService)
		})
		if err != nil {
			log.Fatalf("Failed to set ask service in auth service: %v", err)
		}
		return askService
	}); err != nil {
		log.Fatalf("Failed to provide ask service: %v", err)
	}

	// Provide handlers
	if err := DiContainer.Provide(func(authService services.AuthService) *handlers.AuthHandler {
		return handlers.NewAuthHandler(authService)
	}); err != nil {
		log.Fatalf("Failed to provide auth handler: %v", err)
	}

	if err := DiContainer.Provide(func(askService services.AskService) *handlers.ConversationHandler {
		return handlers.NewConversationHandler(askService)
	}); err != nil {
		log.Fatalf("Failed to provide conversation handler: %v", err)
	}
}

// GetAuthHandler retrieves the AuthHandler from the DI container
func GetAuthHandler() (*handlers.AuthHandler, error) {
	var handler *handlers.AuthHandler
	err := DiContainer.Invoke(func(h *handlers.AuthHandler) {
		handler = h
	})
	if err != nil {
		return nil, err
	}
	return handler, nil
}

// GetConversationHandler retrieves the ConversationHandler from the DI container
func GetConversationHandler() (*handlers.ConversationHandler, error) {
	var handler *handlers.ConversationHandler
	err := DiContainer.Invoke(func(h *handlers.ConversationHandler) {
		handler = h
	})
	if err != nil {
		return nil, err
	}
	return handler, nil
}
