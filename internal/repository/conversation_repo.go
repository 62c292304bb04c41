package repository

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5"

	"github.com/HarshithaLikitha/student-connect/internal/models"
)

type ConversationRepository struct {
	db DBTX
}

func NewConversationRepository(db DBTX) *ConversationRepository {
	return &ConversationRepository{db: db}
}

func (r *ConversationRepository) Create(
	ctx context.Context,
	name *string,
	isGroup bool,
) (*models.Conversation, error) {
	query := `
		INSERT INTO conversations (name, is_group)
		VALUES ($1, $2)
		RETURNING id, name, is_group, created_at, updated_at
	`

	var conversation models.Conversation
	err := r.db.QueryRow(ctx, query, name, isGroup).Scan(
		&conversation.ID,
		&conversation.Name,
		&conversation.IsGroup,
		&conversation.CreatedAt,
		&conversation.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &conversation, nil
}

func (r *ConversationRepository) GetByID(ctx context.Context, conversationID int64) (*models.Conversation, error) {
	query := `
		SELECT id, name, is_group, created_at, updated_at
		FROM conversations
		WHERE id = $1
	`

	var conversation models.Conversation
	err := r.db.QueryRow(ctx, query, conversationID).Scan(
		&conversation.ID,
		&conversation.Name,
		&conversation.IsGroup,
		&conversation.CreatedAt,
		&conversation.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &conversation, nil
}

// FindDirectBetween returns the non-group conversation shared by the two
// users, or (nil, nil) when none exists. A single self-join replaces the
// original per-conversation scan over both users' participation lists.
func (r *ConversationRepository) FindDirectBetween(
	ctx context.Context,
	userID int64,
	otherID int64,
) (*models.Conversation, error) {
	query := `
		SELECT c.id, c.name, c.is_group, c.created_at, c.updated_at
		FROM conversations c
		JOIN conversation_participants a ON a.conversation_id = c.id AND a.user_id = $1
		JOIN conversation_participants b ON b.conversation_id = c.id AND b.user_id = $2
		WHERE c.is_group = FALSE
		ORDER BY c.id
		LIMIT 1
	`

	var conversation models.Conversation
	err := r.db.QueryRow(ctx, query, userID, otherID).Scan(
		&conversation.ID,
		&conversation.Name,
		&conversation.IsGroup,
		&conversation.CreatedAt,
		&conversation.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return &conversation, nil
}

// ListForParticipant returns every conversation the user belongs to, most
// recently active first, with the latest message and the count of messages
// the user has not read attached in the same query.
func (r *ConversationRepository) ListForParticipant(
	ctx context.Context,
	userID int64,
) ([]models.ConversationSummary, error) {
	query := `
		SELECT
			c.id,
			c.name,
			c.is_group,
			c.created_at,
			c.updated_at,
			lm.content,
			lm.sender_id,
			lm.created_at,
			COALESCE(lm.read_by @> ARRAY[$1]::bigint[], FALSE),
			COALESCE(uc.unread_count, 0)
		FROM conversations c
		JOIN conversation_participants cp ON cp.conversation_id = c.id AND cp.user_id = $1
		LEFT JOIN LATERAL (
			SELECT content, sender_id, created_at, read_by
			FROM messages
			WHERE conversation_id = c.id
			ORDER BY created_at DESC, id DESC
			LIMIT 1
		) lm ON TRUE
		LEFT JOIN LATERAL (
			SELECT COUNT(*) AS unread_count
			FROM messages
			WHERE conversation_id = c.id
			  AND sender_id <> $1
			  AND NOT read_by @> ARRAY[$1]::bigint[]
		) uc ON TRUE
		ORDER BY c.updated_at DESC, c.id DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]models.ConversationSummary, 0)
	for rows.Next() {
		var summary models.ConversationSummary
		var name sql.NullString
		var messageContent sql.NullString
		var messageSenderID sql.NullInt64
		var messageCreatedAt sql.NullTime
		var messageIsRead bool

		if err := rows.Scan(
			&summary.ID,
			&name,
			&summary.IsGroup,
			&summary.CreatedAt,
			&summary.UpdatedAt,
			&messageContent,
			&messageSenderID,
			&messageCreatedAt,
			&messageIsRead,
			&summary.UnreadCount,
		); err != nil {
			return nil, err
		}

		summary.Name = name.String
		if messageSenderID.Valid {
			summary.LastMessage = &models.LastMessage{
				Content:   messageContent.String,
				SenderID:  messageSenderID.Int64,
				CreatedAt: messageCreatedAt.Time,
				IsRead:    messageIsRead,
			}
		}

		summaries = append(summaries, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return summaries, nil
}

func (r *ConversationRepository) Touch(ctx context.Context, conversationID int64) error {
	_, err := r.db.Exec(ctx, `
		UPDATE conversations
		SET updated_at = NOW()
		WHERE id = $1
	`, conversationID)
	return err
}
