package models

import "time"

// ChatSession is a private conversation between one user and the platform
// assistant. Unlike Conversation there is no participant table: the session
// row's user_id is the ownership check.
type ChatSession struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type AssistantMessage struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	IsUser    bool      `json:"is_user"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Role renders the binary author model the way chat clients expect.
func (m *AssistantMessage) Role() string {
	if m.IsUser {
		return "user"
	}
	return "assistant"
}
