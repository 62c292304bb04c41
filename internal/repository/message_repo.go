package repository

import (
	"context"

	"github.com/HarshithaLikitha/student-connect/internal/models"
)

type MessageRepository struct {
	db DBTX
}

func NewMessageRepository(db DBTX) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(
	ctx context.Context,
	conversationID int64,
	senderID int64,
	content string,
) (*models.ChatMessage, error) {
	query := `
		INSERT INTO messages (conversation_id, sender_id, content, read_by)
		VALUES ($1, $2, $3, ARRAY[$2]::bigint[])
		RETURNING id, conversation_id, sender_id, content, read_by, created_at
	`

	var message models.ChatMessage
	err := r.db.QueryRow(ctx, query, conversationID, senderID, content).Scan(
		&message.ID,
		&message.ConversationID,
		&message.SenderID,
		&message.Content,
		&message.ReadBy,
		&message.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &message, nil
}

// ListRecent returns up to limit messages newest-first, each with the
// sender's profile joined for display.
func (r *MessageRepository) ListRecent(
	ctx context.Context,
	conversationID int64,
	limit int,
) ([]models.MessageWithSender, error) {
	query := `
		SELECT m.id, m.conversation_id, m.sender_id, m.content, m.read_by, m.created_at,
			   up.full_name, up.avatar_url
		FROM messages m
		LEFT JOIN user_profiles up ON up.user_id = m.sender_id
		WHERE m.conversation_id = $1
		ORDER BY m.created_at DESC, m.id DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, conversationID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]models.MessageWithSender, 0)
	for rows.Next() {
		var message models.MessageWithSender
		if err := rows.Scan(
			&message.ID,
			&message.ConversationID,
			&message.SenderID,
			&message.Content,
			&message.ReadBy,
			&message.CreatedAt,
			&message.SenderName,
			&message.SenderAvatar,
		); err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return messages, nil
}

// MarkRead appends the reader to read_by on the listed messages. The append
// happens inside a single UPDATE so concurrent readers cannot overwrite each
// other's receipt; the guard keeps read_by a set.
func (r *MessageRepository) MarkRead(
	ctx context.Context,
	messageIDs []int64,
	readerID int64,
) error {
	if len(messageIDs) == 0 {
		return nil
	}
	_, err := r.db.Exec(ctx, `
		UPDATE messages
		SET read_by = array_append(read_by, $2)
		WHERE id = ANY($1)
		  AND sender_id <> $2
		  AND NOT read_by @> ARRAY[$2]::bigint[]
	`, messageIDs, readerID)
	return err
}
