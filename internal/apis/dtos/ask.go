package dtos

type CreateConversationRequest struct {
	Title string `json:"title"`
}

type ConversationResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Title     string `json:"title"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type ConversationListResponse struct {
	Conversations []ConversationResponse `json:"conversations"`
	Total         int64                  `json:"total"`
}

type AskRequest struct {
	Question string `json:"question" binding:"required"`
}

type TurnResponse struct {
	ID        string `json:"id"`
	Sequence  int    `json:"sequence"`
	Question  string `json:"question"`
	SQL       string `json:"sql"`
	Response  string `json:"response"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

type TurnListResponse struct {
	Turns []TurnResponse `json:"turns"`
	Total int64          `json:"total"`
}

type RelatedAnswer struct {
	ID       string  `json:"id"`
	Response string  `json:"response"`
	SQL      string  `json:"sql"`
	Score    float64 `json:"score"`
}

type RelatedAnswersResponse struct {
	Related []RelatedAnswer `json:"related"`
}
