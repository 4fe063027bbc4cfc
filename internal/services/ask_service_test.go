package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"expenselit-ai/internal/apis/dtos"
	"expenselit-ai/internal/constants"
	"expenselit-ai/internal/models"
	"expenselit-ai/pkg/financedb"
	"expenselit-ai/pkg/llm"
	"expenselit-ai/pkg/vectorstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeLLMClient counts calls so tests can assert which pipeline stages ran.
type fakeLLMClient struct {
	sqlResponse           string
	sqlErr                error
	explanation           string
	explanationErr        error
	sqlCalls              int
	explanationCalls      int
	lastSQLPrompt         string
	lastExplanationPrompt string
}

func (c *fakeLLMClient) GenerateSQL(_ context.Context, prompt string) (string, error) {
	c.sqlCalls++
	c.lastSQLPrompt = prompt
	return c.sqlResponse, c.sqlErr
}

func (c *fakeLLMClient) GenerateExplanation(_ context.Context, prompt string) (string, error) {
	c.explanationCalls++
	c.lastExplanationPrompt = prompt
	return c.explanation, c.explanationErr
}

func (c *fakeLLMClient) CreateEmbedding(_ context.Context, _ string) ([]float32, error) {
	return []float32{1, 0, 0}, nil
}

func (c *fakeLLMClient) GetModelInfo() llm.ModelInfo {
	return llm.ModelInfo{Provider: "fake"}
}

type fakeExecutor struct {
	result  *financedb.QueryResult
	err     error
	calls   int
	lastSQL string
}

func (e *fakeExecutor) ExecuteQuery(_ context.Context, sqlText string) (*financedb.QueryResult, error) {
	e.calls++
	e.lastSQL = sqlText
	return e.result, e.err
}

type indexedEntry struct {
	ID       string
	Owner    string
	Document string
	SQL      string
}

type fakeIndex struct {
	added           []indexedEntry
	addErr          error
	results         []vectorstore.SearchResult
	lastSearchOwner string
}

func (i *fakeIndex) Add(_ context.Context, id, owner, document, sqlText string) error {
	if i.addErr != nil {
		return i.addErr
	}
	i.added = append(i.added, indexedEntry{ID: id, Owner: owner, Document: document, SQL: sqlText})
	return nil
}

func (i *fakeIndex) Search(_ context.Context, owner, _ string, _ int) ([]vectorstore.SearchResult, error) {
	i.lastSearchOwner = owner
	return i.results, nil
}

type fakeConversationRepo struct {
	conversations map[primitive.ObjectID]*models.Conversation
	turns         []*models.Turn
	createTurnErr error
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{conversations: make(map[primitive.ObjectID]*models.Conversation)}
}

func (r *fakeConversationRepo) Create(conversation *models.Conversation) error {
	r.conversations[conversation.ID] = conversation
	return nil
}

func (r *fakeConversationRepo) Update(id primitive.ObjectID, conversation *models.Conversation) error {
	r.conversations[id] = conversation
	return nil
}

func (r *fakeConversationRepo) Delete(id primitive.ObjectID) error {
	delete(r.conversations, id)
	return nil
}

func (r *fakeConversationRepo) FindByID(id primitive.ObjectID) (*models.Conversation, error) {
	return r.conversations[id], nil
}

func (r *fakeConversationRepo) FindByUserID(userID primitive.ObjectID, page, pageSize int) ([]*models.Conversation, int64, error) {
	var out []*models.Conversation
	for _, c := range r.conversations {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeConversationRepo) CreateTurn(turn *models.Turn) error {
	if r.createTurnErr != nil {
		return r.createTurnErr
	}
	r.turns = append(r.turns, turn)
	return nil
}

func (r *fakeConversationRepo) FindTurnsByConversation(conversationID primitive.ObjectID, page, pageSize int) ([]*models.Turn, int64, error) {
	var out []*models.Turn
	for _, turn := range r.turns {
		if turn.ConversationID == conversationID {
			out = append(out, turn)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeConversationRepo) LastTurnSequence(conversationID primitive.ObjectID) (int, error) {
	last := 0
	for _, turn := range r.turns {
		if turn.ConversationID == conversationID && turn.Sequence > last {
			last = turn.Sequence
		}
	}
	return last, nil
}

func (r *fakeConversationRepo) DeleteTurns(conversationID primitive.ObjectID) error {
	var kept []*models.Turn
	for _, turn := range r.turns {
		if turn.ConversationID != conversationID {
			kept = append(kept, turn)
		}
	}
	r.turns = kept
	return nil
}

type fakeUserRepo struct {
	users map[string]*models.User
}

func (r *fakeUserRepo) Create(user *models.User) error {
	r.users[user.ID.Hex()] = user
	return nil
}

func (r *fakeUserRepo) FindByUsername(username string) (*models.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByID(userID string) (*models.User, error) {
	return r.users[userID], nil
}

type askFixture struct {
	service        AskService
	client         *fakeLLMClient
	executor       *fakeExecutor
	index          *fakeIndex
	repo           *fakeConversationRepo
	userRepo       *fakeUserRepo
	user           *models.User
	conversationID string
}

const testDocument = "12345678901"

func ownedSQL() string {
	return fmt.Sprintf("SELECT valor FROM despesas WHERE documento_proprietario_despesa = '%s'", testDocument)
}

func newAskFixture(t *testing.T) *askFixture {
	t.Helper()

	user := models.NewUser("Maria", "maria", "hash", testDocument)
	userRepo := &fakeUserRepo{users: map[string]*models.User{user.ID.Hex(): user}}

	repo := newFakeConversationRepo()
	conversation := models.NewConversation(user.ID, "Gastos")
	require.NoError(t, repo.Create(conversation))

	client := &fakeLLMClient{
		sqlResponse: "```sql\n" + ownedSQL() + "\n```",
		explanation: "Você gastou cento e cinquenta reais.",
	}
	executor := &fakeExecutor{result: &financedb.QueryResult{
		Columns: []string{"valor"},
		Rows:    []map[string]interface{}{{"valor": 150.0}},
	}}
	index := &fakeIndex{}

	service := NewAskService(repo, userRepo, client, executor, index, NewSessionRegistry())
	return &askFixture{
		service:        service,
		client:         client,
		executor:       executor,
		index:          index,
		repo:           repo,
		userRepo:       userRepo,
		user:           user,
		conversationID: conversation.ID.Hex(),
	}
}

func (f *askFixture) ask(t *testing.T, question string) (*dtos.TurnResponse, uint32, error) {
	t.Helper()
	return f.service.Ask(context.Background(), f.user.ID.Hex(), f.conversationID, &dtos.AskRequest{Question: question})
}

func TestAskHappyPath(t *testing.T) {
	f := newAskFixture(t)

	turn, status, err := f.ask(t, "Quanto gastei com mercado?")
	require.NoError(t, err)
	assert.Equal(t, uint32(http.StatusOK), status)

	assert.Equal(t, 1, turn.Sequence)
	assert.Equal(t, string(constants.TurnStatusAnswered), turn.Status)
	assert.Equal(t, "Você gastou cento e cinquenta reais.", turn.Response)

	// fences were stripped before execution
	assert.Equal(t, ownedSQL(), turn.SQL)
	assert.Equal(t, ownedSQL(), f.executor.lastSQL)

	// the turn was archived and indexed under the asking user
	require.Len(t, f.repo.turns, 1)
	require.Len(t, f.index.added, 1)
	assert.Equal(t, turn.Response, f.index.added[0].Document)
	assert.Equal(t, f.user.ID.Hex(), f.index.added[0].Owner)
	assert.True(t, strings.HasSuffix(f.index.added[0].ID, ":1"))
}

func TestAskSequencesIncreaseWithinSession(t *testing.T) {
	f := newAskFixture(t)

	first, _, err := f.ask(t, "pergunta um")
	require.NoError(t, err)
	second, _, err := f.ask(t, "pergunta dois")
	require.NoError(t, err)

	assert.Equal(t, 1, first.Sequence)
	assert.Equal(t, 2, second.Sequence)
	assert.NotEqual(t, f.index.added[0].ID, f.index.added[1].ID)
}

func TestAskEmptyResultSkipsExplanationModel(t *testing.T) {
	f := newAskFixture(t)
	f.executor.result = &financedb.QueryResult{Columns: []string{"valor"}}

	turn, status, err := f.ask(t, "Quanto gastei em 1990?")
	require.NoError(t, err)
	assert.Equal(t, uint32(http.StatusOK), status)

	assert.Equal(t, string(constants.TurnStatusNoData), turn.Status)
	assert.Equal(t, constants.NoDataFoundMessage, turn.Response)
	assert.Equal(t, 0, f.client.explanationCalls)

	// a no-data turn is archived but not indexed
	require.Len(t, f.repo.turns, 1)
	assert.Empty(t, f.index.added)
}

func TestAskGenerationFailureRecordsErrorTurn(t *testing.T) {
	f := newAskFixture(t)
	f.client.sqlErr = &llm.GenerationError{Provider: "openai", Model: "gpt-4o", Err: errors.New("rate limited")}

	turn, status, err := f.ask(t, "pergunta")
	require.NoError(t, err)
	assert.Equal(t, uint32(http.StatusOK), status)

	assert.Equal(t, string(constants.TurnStatusError), turn.Status)
	assert.Empty(t, turn.SQL)
	assert.Equal(t, 0, f.executor.calls)
	assert.Empty(t, f.index.added)
	require.Len(t, f.repo.turns, 1)
	assert.Equal(t, constants.TurnStatusError, f.repo.turns[0].Status)
}

func TestAskExecutionFailureSurfacesDatabaseError(t *testing.T) {
	f := newAskFixture(t)
	f.executor.result = nil
	f.executor.err = fmt.Errorf("query execution failed: table despesas has no column nope")

	turn, _, err := f.ask(t, "pergunta")
	require.NoError(t, err)

	assert.Equal(t, string(constants.TurnStatusError), turn.Status)
	// the database error text reaches the recorded response
	assert.Contains(t, turn.Response, "table despesas has no column nope")
	assert.Equal(t, 0, f.client.explanationCalls)
}

func TestAskRejectsWriteStatement(t *testing.T) {
	f := newAskFixture(t)
	f.client.sqlResponse = "DELETE FROM despesas WHERE documento_proprietario_despesa = '" + testDocument + "'"

	turn, _, err := f.ask(t, "apague tudo")
	require.NoError(t, err)

	assert.Equal(t, string(constants.TurnStatusError), turn.Status)
	assert.Equal(t, 0, f.executor.calls)
}

func TestAskRejectsStatementWithoutOwnerFilter(t *testing.T) {
	f := newAskFixture(t)
	f.client.sqlResponse = "SELECT valor FROM despesas"

	turn, _, err := f.ask(t, "quanto todo mundo gastou?")
	require.NoError(t, err)

	assert.Equal(t, string(constants.TurnStatusError), turn.Status)
	assert.Equal(t, 0, f.executor.calls)
}

func TestAskExplanationFailureDegradesInline(t *testing.T) {
	f := newAskFixture(t)
	f.client.explanation = ""
	f.client.explanationErr = &llm.GenerationError{Provider: "openai", Model: "gpt-4o-mini", Err: errors.New("timeout")}

	turn, _, err := f.ask(t, "pergunta")
	require.NoError(t, err)

	assert.Equal(t, string(constants.TurnStatusAnswered), turn.Status)
	assert.Contains(t, turn.Response, "não consegui explicar o resultado")
}

func TestAskIndexFailureFailsTheTurn(t *testing.T) {
	f := newAskFixture(t)
	f.index.addErr = errors.New("disk full")

	_, status, err := f.ask(t, "pergunta")
	require.Error(t, err)
	assert.Equal(t, uint32(http.StatusInternalServerError), status)
}

func TestAskPromptCarriesIdentityAndQuestion(t *testing.T) {
	f := newAskFixture(t)

	_, _, err := f.ask(t, "Quanto gastei com farmácia?")
	require.NoError(t, err)

	assert.Contains(t, f.client.lastSQLPrompt, f.user.ID.Hex())
	assert.Contains(t, f.client.lastSQLPrompt, testDocument)
	assert.Contains(t, f.client.lastSQLPrompt, "Quanto gastei com farmácia?")
}

func TestAskPreviewIsCappedAtFiveRows(t *testing.T) {
	f := newAskFixture(t)

	rows := make([]map[string]interface{}, 8)
	for i := range rows {
		rows[i] = map[string]interface{}{"descricao": fmt.Sprintf("item %d", i), "valor": float64(i * 10)}
	}
	f.executor.result = &financedb.QueryResult{Columns: []string{"descricao", "valor"}, Rows: rows}

	_, _, err := f.ask(t, "liste minhas despesas")
	require.NoError(t, err)

	assert.Contains(t, f.client.lastExplanationPrompt, "item 4")
	assert.NotContains(t, f.client.lastExplanationPrompt, "item 5")
}

func TestAskRejectsForeignConversation(t *testing.T) {
	f := newAskFixture(t)

	intruder := models.NewUser("Eve", "eve", "hash", "99999999999")
	f.userRepo.users[intruder.ID.Hex()] = intruder

	_, status, err := f.service.Ask(context.Background(), intruder.ID.Hex(), f.conversationID, &dtos.AskRequest{Question: "pergunta"})
	require.Error(t, err)
	assert.Equal(t, uint32(http.StatusForbidden), status)
}

func TestRelatedSearchesIndex(t *testing.T) {
	f := newAskFixture(t)
	f.index.results = []vectorstore.SearchResult{
		{Entry: vectorstore.Entry{ID: "sess:1", Document: "resposta", SQL: "SELECT 1"}, Score: 0.92},
	}

	response, status, err := f.service.Related(context.Background(), f.user.ID.Hex(), f.conversationID, "mercado", 5)
	require.NoError(t, err)
	assert.Equal(t, uint32(http.StatusOK), status)
	require.Len(t, response.Related, 1)
	assert.Equal(t, "sess:1", response.Related[0].ID)
	assert.InDelta(t, 0.92, response.Related[0].Score, 1e-9)

	// the search is scoped to the requesting user
	assert.Equal(t, f.user.ID.Hex(), f.index.lastSearchOwner)
}

func TestAskSequenceContinuesAfterLogout(t *testing.T) {
	f := newAskFixture(t)

	first, _, err := f.ask(t, "pergunta um")
	require.NoError(t, err)
	assert.Equal(t, 1, first.Sequence)

	// logout drops the live session; the archive survives
	f.service.EndSessionsForUser(f.user.ID.Hex())

	second, _, err := f.ask(t, "pergunta dois")
	require.NoError(t, err)
	assert.Equal(t, 2, second.Sequence)
	assert.NotEqual(t, f.index.added[0].ID, f.index.added[1].ID)
}

func TestBuildPreviewFormatsMoneyWithComma(t *testing.T) {
	result := &financedb.QueryResult{
		Columns: []string{"descricao", "valor"},
		Rows: []map[string]interface{}{
			{"descricao": "Supermercado", "valor": 152.4},
			{"descricao": "Aluguel", "valor": "1200.00"},
			{"descricao": "Sem valor", "valor": nil},
		},
	}

	preview := buildPreview(result, 5)
	lines := strings.Split(preview, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "descricao: Supermercado, valor: 152,40", lines[0])
	assert.Equal(t, "descricao: Aluguel, valor: 1200,00", lines[1])
	assert.Equal(t, "descricao: Sem valor, valor: NULL", lines[2])
}
