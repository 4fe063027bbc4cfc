package handlers

import (
	"expenselit-ai/internal/apis/dtos"
	"expenselit-ai/internal/services"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ConversationHandler struct {
	askService services.AskService
}

func NewConversationHandler(askService services.AskService) *ConversationHandler {
	if askService == nil {
		log.Fatal("Ask service cannot be nil")
	}
	return &ConversationHandler{
		askService: askService,
	}
}

// @Summary Create conversation
// @Description Create a new conversation for the authenticated user
// @Accept json
// @Produce json
// @Param createConversationRequest body dtos.CreateConversationRequest true "Create conversation request"
// @Success 201 {object} dtos.Response
func (h *ConversationHandler) Create(c *gin.Context) {
	userID := c.GetString("userID")

	var req dtos.CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorMsg := err.Error()
		c.JSON(http.StatusBadRequest, dtos.Response{
			Success: false,
			Error:   &errorMsg,
		})
		return
	}

	response, statusCode, err := h.askService.CreateConversation(userID, &req)
	if err != nil {
		errorMsg := err.Error()
		c.JSON(int(statusCode), dtos.Response{
			Success: false,
			Error:   &errorMsg,
		})
		return
	}

	c.JSON(int(statusCode), dtos.Response{
		Success: true,
		Data:    response,
	})
}

// @Summary List conversations
// @Description List the authenticated user's conversations
// @Produce json
// @Success 200 {object} dtos.Response
func (h *ConversationHandler) List(c *gin.Context) {
	userID := c.GetString("userID")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	response, statusCode, err := h.askService.List(userID, page, pageSize)
	if err != nil {
		errorMsg := err.Error()
		c.JSON(int(statusCode), dtos.Response{
			Success: false,
			Error:   &errorMsg,
		})
		return
	}

	c.JSON(int(statusCode), dtos.Response{
		Success: true,
		Data:    response,
	})
}

// @Summary Delete conversation
// @Description Delete a conversation and its turns
// @Produce json
// @Success 200 {object} dtos.Response
func (h *ConversationHandler) Delete(c *gin.Context) {
	userID := c.GetString("userID")
	conversationID := c.Param("id")

	statusCode, err := h.askService.Delete(userID, conversationID)
	if err != nil {
		errorMsg := err.Error()
		c.JSON(int(statusCode), dtos.Response{
			Success: false,
			Error:   &errorMsg,
		})
		return
	}

	c.JSON(int(statusCode), dtos.Response{
		Success: true,
		Data:    "Conversation deleted successfully",
	})
}

// @Summary List turns
// @Description List the question and answer turns of a conversation
// @Produce json
// @Success 200 {object} dtos.Response
func (h *ConversationHandler) ListTurns(c *gin.Context) {
	userID := c.GetString("userID")
	conversationID := c.Param("id")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))

	response, statusCode, err := h.askService.ListTurns(userID, conversationID, page, pageSize)
	if err != nil {
		errorMsg := err.Error()
		c.JSON(int(statusCode), dtos.Response{
			Success: false,
			Error:   &errorMsg,
		})
		return
	}

	c.JSON(int(statusCode), dtos.Response{
		Success: true,
		Data:    response,
	})
}

// @Summary Ask
// @Description Ask a natural language question about the user's finances
// @Accept json
// @Produce json
// @Param askRequest body dtos.AskRequest true "Ask request"
// @Success 200 {object} dtos.Response
func (h *ConversationHandler) Ask(c *gin.Context) {
	userID := c.GetString("userID")
	conversationID := c.Param("id")

	var req dtos.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorMsg := err.Error()
		c.JSON(http.StatusBadRequest, dtos.Response{
			Success: false,
			Error:   &errorMsg,
		})
		return
	}

	response, statusCode, err := h.askService.Ask(c.Request.Context(), userID, conversationID, &req)
	if err != nil {
		errorMsg := err.Error()
		c.JSON(int(statusCode), dtos.Response{
			Success: false,
			Error:   &errorMsg,
		})
		return
	}

	c.JSON(int(statusCode), dtos.Response{
		Success: true,
		Data:    response,
	})
}

// @Summary Related answers
// @Description Search previously indexed answers semantically close to a query
// @Produce json
// @Success 200 {object} dtos.Response
func (h *ConversationHandler) Related(c *gin.Context) {
	userID := c.GetString("userID")
	conversationID := c.Param("id")
	query := c.Query("q")
	k, _ := strconv.Atoi(c.DefaultQuery("k", "5"))

	response, statusCode, err := h.askService.Related(c.Request.Context(), userID, conversationID, query, k)
	if err != nil {
		errorMsg := err.Error()
		c.JSON(int(statusCode), dtos.Response{
			Success: false,
			Error:   &errorMsg,
		})
		return
	}

	c.JSON(int(statusCode), dtos.Response{
		Success: true,
		Data:    response,
	})
}
