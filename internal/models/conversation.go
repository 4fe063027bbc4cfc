package models

import (
	"expenselit-ai/internal/constants"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Conversation is the durable record of one chat session with the
// "ask your data" assistant.
type Conversation struct {
	UserID primitive.ObjectID `bson:"user_id" json:"user_id"`
	Title  string             `bson:"title" json:"title"` // first question asked, for listing
	Base   `bson:",inline"`
}

func NewConversation(userID primitive.ObjectID, title string) *Conversation {
	return &Conversation{
		UserID: userID,
		Title:  title,
		Base:   NewBase(),
	}
}

// Turn is one archived question/sql/answer triple. Sequence is the
// session-local position of the turn, strictly increasing per conversation.
type Turn struct {
	ConversationID primitive.ObjectID   `bson:"conversation_id" json:"conversation_id"`
	UserID         primitive.ObjectID   `bson:"user_id" json:"user_id"`
	Sequence       int                  `bson:"sequence" json:"sequence"`
	Question       string               `bson:"question" json:"question"`
	SQL            string               `bson:"sql" json:"sql"`
	Response       string               `bson:"response" json:"response"`
	Status         constants.TurnStatus `bson:"status" json:"status"`
	Base           `bson:",inline"`
}

func NewTurn(conversationID, userID primitive.ObjectID, sequence int, question, sqlText, response string, status constants.TurnStatus) *Turn {
	return &Turn{
		ConversationID: conversationID,
		UserID:         userID,
		Sequence:       sequence,
		Question:       question,
		SQL:            sqlText,
		Response:       response,
		Status:         status,
		Base:           NewBase(),
	}
}
