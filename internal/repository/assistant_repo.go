package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/HarshithaLikitha/student-connect/internal/models"
)

type AssistantRepository struct {
	db DBTX
}

func NewAssistantRepository(db DBTX) *AssistantRepository {
	return &AssistantRepository{db: db}
}

func (r *AssistantRepository) CreateSession(ctx context.Context, userID int64) (*models.ChatSession, error) {
	query := `
		INSERT INTO chat_sessions (id, user_id)
		VALUES ($1, $2)
		RETURNING id, user_id, created_at, updated_at
	`

	var session models.ChatSession
	err := r.db.QueryRow(ctx, query, uuid.NewString(), userID).Scan(
		&session.ID,
		&session.UserID,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &session, nil
}

func (r *AssistantRepository) ListSessions(ctx context.Context, userID int64) ([]models.ChatSession, error) {
	query := `
		SELECT id, user_id, created_at, updated_at
		FROM chat_sessions
		WHERE user_id = $1
		ORDER BY updated_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make([]models.ChatSession, 0)
	for rows.Next() {
		var session models.ChatSession
		if err := rows.Scan(
			&session.ID,
			&session.UserID,
			&session.CreatedAt,
			&session.UpdatedAt,
		); err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

// GetSessionForUser resolves the session only when it belongs to the user,
// so callers cannot probe for other users' sessions.
func (r *AssistantRepository) GetSessionForUser(
	ctx context.Context,
	sessionID string,
	userID int64,
) (*models.ChatSession, error) {
	query := `
		SELECT id, user_id, created_at, updated_at
		FROM chat_sessions
		WHERE id = $1 AND user_id = $2
	`

	var session models.ChatSession
	err := r.db.QueryRow(ctx, query, sessionID, userID).Scan(
		&session.ID,
		&session.UserID,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &session, nil
}

func (r *AssistantRepository) TouchSession(ctx context.Context, sessionID string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE chat_sessions
		SET updated_at = NOW()
		WHERE id = $1
	`, sessionID)
	return err
}

func (r *AssistantRepository) CreateMessage(
	ctx context.Context,
	sessionID string,
	isUser bool,
	content string,
) (*models.AssistantMessage, error) {
	query := `
		INSERT INTO chat_messages (session_id, is_user, content)
		VALUES ($1, $2, $3)
		RETURNING id, session_id, is_user, content, created_at
	`

	var message models.AssistantMessage
	err := r.db.QueryRow(ctx, query, sessionID, isUser, content).Scan(
		&message.ID,
		&message.SessionID,
		&message.IsUser,
		&message.Content,
		&message.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &message, nil
}

func (r *AssistantRepository) ListMessages(
	ctx context.Context,
	sessionID string,
	limit int,
) ([]models.AssistantMessage, error) {
	query := `
		SELECT id, session_id, is_user, content, created_at
		FROM chat_messages
		WHERE session_id = $1
		ORDER BY created_at ASC, id ASC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, sessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]models.AssistantMessage, 0)
	for rows.Next() {
		var message models.AssistantMessage
		if err := rows.Scan(
			&message.ID,
			&message.SessionID,
			&message.IsUser,
			&message.Content,
			&message.CreatedAt,
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
