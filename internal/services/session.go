package services

import (
	"expenselit-ai/internal/constants"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionTurn is one in-memory question/sql/answer triple.
type SessionTurn struct {
	Sequence int
	Question string
	SQL      string
	Response string
	Status   constants.TurnStatus
}

// Session holds the live conversation state for one user and one
// conversation. It is created when the user starts asking and discarded at
// logout; the ordered turn list is append-only for its lifetime.
type Session struct {
	ID             string
	UserID         string
	Document       string
	ConversationID primitive.ObjectID

	mu           sync.Mutex
	turns        []SessionTurn
	nextSequence int
}

func newSession(userID, document string, conversationID primitive.ObjectID, firstSequence int) *Session {
	if firstSequence < 1 {
		firstSequence = 1
	}
	return &Session{
		ID:             uuid.NewString(),
		UserID:         userID,
		Document:       document,
		ConversationID: conversationID,
		nextSequence:   firstSequence,
	}
}

// AppendTurn records a turn and assigns it the next sequence number.
// Sequences strictly increase within a conversation and are never reused;
// a session picks up where the archived transcript left off.
func (s *Session) AppendTurn(question, sqlText, response string, status constants.TurnStatus) SessionTurn {
	s.mu.Lock()
	defer s.mu.Unlock()

	turn := SessionTurn{
		Sequence: s.nextSequence,
		Question: question,
		SQL:      sqlText,
		Response: response,
		Status:   status,
	}
	s.nextSequence++
	s.turns = append(s.turns, turn)
	return turn
}

// Turns returns a copy of the session history.
func (s *Session) Turns() []SessionTurn {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]SessionTurn, len(s.turns))
	copy(out, s.turns)
	return out
}

// TurnKey builds the vector-store identifier for a turn. Scoping the
// sequence with the session id keeps ids unique across sessions.
func (s *Session) TurnKey(sequence int) string {
	return fmt.Sprintf("%s:%d", s.ID, sequence)
}

// SessionRegistry tracks live sessions keyed by conversation id.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*Session // key: conversationID hex
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[string]*Session),
	}
}

// GetOrCreate returns the live session for a conversation, creating it on
// the first question after login. firstSequence is consulted only when a new
// session is created, so a conversation resumed after logout continues its
// archived numbering.
func (r *SessionRegistry) GetOrCreate(userID, document string, conversationID primitive.ObjectID, firstSequence func() int) *Session {
	key := conversationID.Hex()

	r.mu.RLock()
	session, exists := r.sessions[key]
	r.mu.RUnlock()
	if exists {
		return session
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if session, exists := r.sessions[key]; exists {
		return session
	}
	session = newSession(userID, document, conversationID, firstSequence())
	r.sessions[key] = session
	return session
}

// Drop discards the live session for one conversation.
func (r *SessionRegistry) Drop(conversationID primitive.ObjectID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, conversationID.Hex())
}

// DropForUser discards every live session owned by a user, called at logout.
func (r *SessionRegistry) DropForUser(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, session := range r.sessions {
		if session.UserID == userID {
			delete(r.sessions, key)
		}
	}
}
