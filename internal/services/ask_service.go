package services

import (
	"context"
	"errors"
	"expenselit-ai/internal/apis/dtos"
	"expenselit-ai/internal/constants"
	"expenselit-ai/internal/models"
	"expenselit-ai/internal/repositories"
	"expenselit-ai/pkg/financedb"
	"expenselit-ai/pkg/llm"
	"expenselit-ai/pkg/vectorstore"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// maxPreviewRows bounds the result preview shown to the explanation model.
const maxPreviewRows = 5

// QueryExecutor runs a candidate SQL statement against the finance
// database. *financedb.Executor satisfies it.
type QueryExecutor interface {
	ExecuteQuery(ctx context.Context, sqlText string) (*financedb.QueryResult, error)
}

// TurnIndex is the persistent semantic index of explanations, scoped by
// owner on both the write and the read path. *vectorstore.Store satisfies it.
type TurnIndex interface {
	Add(ctx context.Context, id, owner, document, sqlText string) error
	Search(ctx context.Context, owner, query string, k int) ([]vectorstore.SearchResult, error)
}

type AskService interface {
	CreateConversation(userID string, req *dtos.CreateConversationRequest) (*dtos.ConversationResponse, uint32, error)
	List(userID string, page, pageSize int) (*dtos.ConversationListResponse, uint32, error)
	Delete(userID, conversationID string) (uint32, error)
	ListTurns(userID, conversationID string, page, pageSize int) (*dtos.TurnListResponse, uint32, error)
	Ask(ctx context.Context, userID, conversationID string, req *dtos.AskRequest) (*dtos.TurnResponse, uint32, error)
	Related(ctx context.Context, userID, conversationID, query string, k int) (*dtos.RelatedAnswersResponse, uint32, error)
	EndSessionsForUser(userID string)
}

type askService struct {
	conversationRepo repositories.ConversationRepository
	userRepo         repositories.UserRepository
	llmClient        llm.Client
	executor         QueryExecutor
	index            TurnIndex
	sessions         *SessionRegistry
}

func NewAskService(
	conversationRepo repositories.ConversationRepository,
	userRepo repositories.UserRepository,
	llmClient llm.Client,
	executor QueryExecutor,
	index TurnIndex,
	sessions *SessionRegistry,
) AskService {
	return &askService{
		conversationRepo: conversationRepo,
		userRepo:         userRepo,
		llmClient:        llmClient,
		executor:         executor,
		index:            index,
		sessions:         sessions,
	}
}

func (s *askService) CreateConversation(userID string, req *dtos.CreateConversationRequest) (*dtos.ConversationResponse, uint32, error) {
	userObjID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, http.StatusBadRequest, fmt.Errorf("invalid user ID format")
	}

	title := req.Title
	if title == "" {
		title = "Nova conversa"
	}

	conversation := models.NewConversation(userObjID, title)
	if err := s.conversationRepo.Create(conversation); err != nil {
		return nil, http.StatusInternalServerError, fmt.Errorf("failed to create conversation: %v", err)
	}

	return toConversationResponse(conversation), http.StatusCreated, nil
}

func (s *askService) List(userID string, page, pageSize int) (*dtos.ConversationListResponse, uint32, error) {
	userObjID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, http.StatusBadRequest, fmt.Errorf("invalid user ID format")
	}

	conversations, total, err := s.conversationRepo.FindByUserID(userObjID, page, pageSize)
	if err != nil {
		return nil, http.StatusInternalServerError, fmt.Errorf("failed to fetch conversations: %v", err)
	}

	response := &dtos.ConversationListResponse{
		Conversations: make([]dtos.ConversationResponse, 0, len(conversations)),
		Total:         total,
	}
	for _, conversation := range conversations {
		response.Conversations = append(response.Conversations, *toConversationResponse(conversation))
	}
	return response, http.StatusOK, nil
}

func (s *askService) Delete(userID, conversationID string) (uint32, error) {
	conversation, status, err := s.findOwnedConversation(userID, conversationID)
	if err != nil {
		return status, err
	}

	if err := s.conversationRepo.DeleteTurns(conversation.ID); err != nil {
		return http.StatusInternalServerError, fmt.Errorf("failed to delete turns: %v", err)
	}
	if err := s.conversationRepo.Delete(conversation.ID); err != nil {
		return http.StatusInternalServerError, fmt.Errorf("failed to delete conversation: %v", err)
	}

	s.sessions.Drop(conversation.ID)
	return http.StatusOK, nil
}

func (s *askService) ListTurns(userID, conversationID string, page, pageSize int) (*dtos.TurnListResponse, uint32, error) {
	conversation, status, err := s.findOwnedConversation(userID, conversationID)
	if err != nil {
		return nil, status, err
	}

	turns, total, err := s.conversationRepo.FindTurnsByConversation(conversation.ID, page, pageSize)
	if err != nil {
		return nil, http.StatusInternalServerError, fmt.Errorf("failed to fetch turns: %v", err)
	}

	response := &dtos.TurnListResponse{
		Turns: make([]dtos.TurnResponse, 0, len(turns)),
		Total: total,
	}
	for _, turn := range turns {
		response.Turns = append(response.Turns, dtos.TurnResponse{
			ID:        turn.ID.Hex(),
			Sequence:  turn.Sequence,
			Question:  turn.Question,
			SQL:       turn.SQL,
			Response:  turn.Response,
			Status:    string(turn.Status),
			CreatedAt: turn.CreatedAt.Format(time.RFC3339),
		})
	}
	return response, http.StatusOK, nil
}

// Ask runs one full question turn: prompt building, SQL generation, guarded
// execution, explanation and recording. Failures along the way degrade to a
// recorded turn with a user-facing message; only infrastructure failures
// (persistence, index) surface as request errors.
func (s *askService) Ask(ctx context.Context, userID, conversationID string, req *dtos.AskRequest) (*dtos.TurnResponse, uint32, error) {
	conversation, status, err := s.findOwnedConversation(userID, conversationID)
	if err != nil {
		return nil, status, err
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil || user == nil {
		return nil, http.StatusInternalServerError, fmt.Errorf("failed to resolve user identity")
	}

	session := s.sessions.GetOrCreate(userID, user.Document, conversation.ID, func() int {
		last, err := s.conversationRepo.LastTurnSequence(conversation.ID)
		if err != nil {
			log.Printf("Ask -> failed to read last turn sequence: %v", err)
			return 1
		}
		return last + 1
	})
	question := req.Question

	// Generate the candidate SQL
	prompt := constants.BuildSQLGenerationPrompt(userID, user.Document, question)
	raw, err := s.llmClient.GenerateSQL(ctx, prompt)
	if err != nil {
		var genErr *llm.GenerationError
		if errors.As(err, &genErr) {
			log.Printf("Ask -> SQL generation failed: %v", genErr)
		}
		message := "Não foi possível gerar a consulta para essa pergunta. Tente novamente em instantes."
		return s.recordTurn(ctx, session, conversation.ID, question, "", message, constants.TurnStatusError)
	}

	candidate := llm.StripCodeFences(raw)
	if candidate == "" {
		message := "O modelo não retornou nenhuma consulta para essa pergunta."
		return s.recordTurn(ctx, session, conversation.ID, question, "", message, constants.TurnStatusError)
	}

	// Guard the statement before touching the database
	if err := financedb.EnsureReadOnly(candidate); err != nil {
		log.Printf("Ask -> rejected candidate SQL: %v", err)
		message := "A consulta gerada foi rejeitada por segurança: apenas leituras são permitidas."
		return s.recordTurn(ctx, session, conversation.ID, question, candidate, message, constants.TurnStatusError)
	}
	if err := financedb.EnsureOwnerScoped(candidate, user.Document); err != nil {
		log.Printf("Ask -> rejected candidate SQL: %v", err)
		message := "A consulta gerada foi rejeitada por segurança: o filtro de proprietário está ausente."
		return s.recordTurn(ctx, session, conversation.ID, question, candidate, message, constants.TurnStatusError)
	}

	// Execute the candidate SQL
	result, err := s.executor.ExecuteQuery(ctx, candidate)
	if err != nil {
		message := fmt.Sprintf("Erro ao consultar o banco de dados: %v", err)
		return s.recordTurn(ctx, session, conversation.ID, question, candidate, message, constants.TurnStatusError)
	}

	// Explain the result
	if result.IsEmpty() {
		// no remote call for an empty result
		return s.recordTurn(ctx, session, conversation.ID, question, candidate, constants.NoDataFoundMessage, constants.TurnStatusNoData)
	}

	preview := buildPreview(result, maxPreviewRows)
	explanationPrompt := constants.BuildExplanationPrompt(question, candidate, preview)
	explanation, err := s.llmClient.GenerateExplanation(ctx, explanationPrompt)
	if err != nil {
		log.Printf("Ask -> explanation failed: %v", err)
		explanation = fmt.Sprintf("A consulta foi executada, mas não consegui explicar o resultado: %v", err)
	}

	return s.recordTurn(ctx, session, conversation.ID, question, candidate, explanation, constants.TurnStatusAnswered)
}

func (s *askService) Related(ctx context.Context, userID, conversationID, query string, k int) (*dtos.RelatedAnswersResponse, uint32, error) {
	if _, status, err := s.findOwnedConversation(userID, conversationID); err != nil {
		return nil, status, err
	}
	if query == "" {
		return nil, http.StatusBadRequest, fmt.Errorf("query text is required")
	}
	if k <= 0 {
		k = 5
	}

	results, err := s.index.Search(ctx, userID, query, k)
	if err != nil {
		return nil, http.StatusInternalServerError, fmt.Errorf("failed to search related answers: %v", err)
	}

	response := &dtos.RelatedAnswersResponse{
		Related: make([]dtos.RelatedAnswer, 0, len(results)),
	}
	for _, result := range results {
		response.Related = append(response.Related, dtos.RelatedAnswer{
			ID:       result.ID,
			Response: result.Document,
			SQL:      result.SQL,
			Score:    result.Score,
		})
	}
	return response, http.StatusOK, nil
}

func (s *askService) EndSessionsForUser(userID string) {
	s.sessions.DropForUser(userID)
}

// recordTurn appends the turn to the live session, archives it and, for
// answered turns, writes the explanation to the semantic index. An index or
// archive failure fails the whole turn request.
func (s *askService) recordTurn(ctx context.Context, session *Session, conversationID primitive.ObjectID, question, sqlText, response string, status constants.TurnStatus) (*dtos.TurnResponse, uint32, error) {
	sessionTurn := session.AppendTurn(question, sqlText, response, status)

	userObjID, err := primitive.ObjectIDFromHex(session.UserID)
	if err != nil {
		return nil, http.StatusInternalServerError, fmt.Errorf("invalid user ID in session")
	}

	turn := models.NewTurn(conversationID, userObjID, sessionTurn.Sequence, question, sqlText, response, status)
	if err := s.conversationRepo.CreateTurn(turn); err != nil {
		return nil, http.StatusInternalServerError, fmt.Errorf("failed to record turn: %v", err)
	}

	if status == constants.TurnStatusAnswered {
		if err := s.index.Add(ctx, session.TurnKey(sessionTurn.Sequence), session.UserID, response, sqlText); err != nil {
			return nil, http.StatusInternalServerError, fmt.Errorf("failed to index turn: %v", err)
		}
	}

	return &dtos.TurnResponse{
		ID:        turn.ID.Hex(),
		Sequence:  sessionTurn.Sequence,
		Question:  question,
		SQL:       sqlText,
		Response:  response,
		Status:    string(status),
		CreatedAt: turn.CreatedAt.Format(time.RFC3339),
	}, http.StatusOK, nil
}

func (s *askService) findOwnedConversation(userID, conversationID string) (*models.Conversation, uint32, error) {
	userObjID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, http.StatusBadRequest, fmt.Errorf("invalid user ID format")
	}
	conversationObjID, err := primitive.ObjectIDFromHex(conversationID)
	if err != nil {
		return nil, http.StatusBadRequest, fmt.Errorf("invalid conversation ID format")
	}

	conversation, err := s.conversationRepo.FindByID(conversationObjID)
	if err != nil {
		return nil, http.StatusInternalServerError, fmt.Errorf("failed to fetch conversation: %v", err)
	}
	if conversation == nil {
		return nil, http.StatusNotFound, fmt.Errorf("conversation not found")
	}
	if conversation.UserID != userObjID {
		return nil, http.StatusForbidden, fmt.Errorf("conversation does not belong to user")
	}
	return conversation, http.StatusOK, nil
}

func toConversationResponse(conversation *models.Conversation) *dtos.ConversationResponse {
	return &dtos.ConversationResponse{
		ID:        conversation.ID.Hex(),
		UserID:    conversation.UserID.Hex(),
		Title:     conversation.Title,
		CreatedAt: conversation.CreatedAt.Format(time.RFC3339),
		UpdatedAt: conversation.UpdatedAt.Format(time.RFC3339),
	}
}

// buildPreview renders at most maxRows rows as "column: value" pairs,
// columns in result order, rows joined by newlines.
func buildPreview(result *financedb.QueryResult, maxRows int) string {
	rows := result.Rows
	if len(rows) > maxRows {
		rows = rows[:maxRows]
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		pairs := make([]string, 0, len(result.Columns))
		for _, col := range result.Columns {
			pairs = append(pairs, fmt.Sprintf("%s: %s", col, formatPreviewValue(row[col])))
		}
		lines = append(lines, strings.Join(pairs, ", "))
	}
	return strings.Join(lines, "\n")
}

// formatPreviewValue renders a cell for the explanation prompt. Monetary
// values keep two decimal places with a comma separator, matching the
// output conventions the explanation model is instructed to follow.
func formatPreviewValue(v interface{}) string {
	switch value := v.(type) {
	case nil:
		return "NULL"
	case float64:
		return withCommaSeparator(decimal.NewFromFloat(value).StringFixed(2))
	case float32:
		return withCommaSeparator(decimal.NewFromFloat32(value).StringFixed(2))
	case time.Time:
		return value.Format("02/01/2006")
	case string:
		if d, err := decimal.NewFromString(value); err == nil && strings.Contains(value, ".") {
			return withCommaSeparator(d.StringFixed(2))
		}
		return value
	default:
		return fmt.Sprintf("%v", value)
	}
}

func withCommaSeparator(s string) string {
	return strings.Replace(s, ".", ",", 1)
}
