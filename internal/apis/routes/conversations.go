package routes

import (
	"expenselit-ai/internal/apis/middlewares"
	"expenselit-ai/internal/di"
	"log"

	"github.com/gin-gonic/gin"
)

func SetupConversationRoutes(router *gin.Engine) {
	conversationHandler, err := di.GetConversationHandler()
	if err != nil {
		log.Fatalf("Failed to get conversation handler: %v", err)
	}

	protected := router.Group("/api/conversations")
	protected.Use(middlewares.AuthMiddleware())
	{
		// Conversation CRUD
		protected.POST("", conversationHandler.Create)
		protected.GET("", conversationHandler.List)
		protected.DELETE("/:id", conversationHandler.Delete)

		// Turns within a conversation
		protected.GET("/:id/turns", conversationHandler.ListTurns)
		protected.POST("/:id/ask", conversationHandler.Ask)

		// Semantic search over indexed answers, query params "q" and "k"
		protected.GET("/:id/related", conversationHandler.Related)
	}
}
