package models

import "time"

type Conversation struct {
	ID        int64     `json:"id"`
	Name      *string   `json:"name"`
	IsGroup   bool      `json:"is_group"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ChatMessage struct {
	ID             int64     `json:"id"`
	ConversationID int64     `json:"conversation_id"`
	SenderID       int64     `json:"sender_id"`
	Content        string    `json:"content"`
	ReadBy         []int64   `json:"read_by"`
	CreatedAt      time.Time `json:"created_at"`
}

// ReadByContains reports whether userID has seen the message.
func (m *ChatMessage) ReadByContains(userID int64) bool {
	for _, id := range m.ReadBy {
		if id == userID {
			return true
		}
	}
	return false
}

type Participant struct {
	UserID    int64     `json:"user_id"`
	JoinedAt  time.Time `json:"joined_at"`
	FullName  *string   `json:"full_name"`
	AvatarURL *string   `json:"avatar_url"`
}

// LastMessage is the preview of the most recent message in a conversation,
// shaped for the conversation list.
type LastMessage struct {
	Content   string    `json:"content"`
	SenderID  int64     `json:"sender_id"`
	CreatedAt time.Time `json:"created_at"`
	IsRead    bool      `json:"is_read"`
}

// ConversationSummary is a conversation as it appears in the inbox: name and
// avatar already resolved for the requesting user, with last-message preview
// and unread count attached.
type ConversationSummary struct {
	ID           int64         `json:"id"`
	Name         string        `json:"name"`
	IsGroup      bool          `json:"is_group"`
	Avatar       *string       `json:"avatar"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
	Participants []Participant `json:"participants"`
	LastMessage  *LastMessage  `json:"last_message"`
	UnreadCount  int           `json:"unread"`
}

type ConversationDetail struct {
	ID           int64         `json:"id"`
	Name         string        `json:"name"`
	IsGroup      bool          `json:"is_group"`
	Avatar       *string       `json:"avatar"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
	Participants []Participant `json:"participants"`
}

// MessageWithSender is a stored message joined with its sender's profile.
type MessageWithSender struct {
	ChatMessage
	SenderName   *string `json:"sender_name"`
	SenderAvatar *string `json:"sender_avatar"`
}

type MessageSender struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Avatar *string `json:"avatar"`
}

// MessageView is a message shaped for the requesting user.
type MessageView struct {
	ID        int64         `json:"id"`
	Content   string        `json:"content"`
	Timestamp time.Time     `json:"timestamp"`
	Sender    MessageSender `json:"sender"`
	IsRead    bool          `json:"is_read"`
	IsMine    bool          `json:"is_mine"`
}
