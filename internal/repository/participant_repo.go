package repository

import (
	"context"

	"github.com/HarshithaLikitha/student-connect/internal/models"
)

type ParticipantRepository struct {
	db DBTX
}

func NewParticipantRepository(db DBTX) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

func (r *ParticipantRepository) Add(ctx context.Context, conversationID int64, userID int64) error {
	query := `
		INSERT INTO conversation_participants (conversation_id, user_id)
		VALUES ($1, $2)
	`
	_, err := r.db.Exec(ctx, query, conversationID, userID)
	return err
}

func (r *ParticipantRepository) AddMany(ctx context.Context, conversationID int64, userIDs []int64) error {
	if len(userIDs) == 0 {
		return nil
	}
	query := `
		INSERT INTO conversation_participants (conversation_id, user_id)
		SELECT $1, unnest($2::bigint[])
	`
	_, err := r.db.Exec(ctx, query, conversationID, userIDs)
	return err
}

// Exists is the authorization check for every conversation operation: the
// participant row is the only permission token there is.
func (r *ParticipantRepository) Exists(ctx context.Context, conversationID int64, userID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM conversation_participants
			WHERE conversation_id = $1 AND user_id = $2
		)
	`
	var exists bool
	if err := r.db.QueryRow(ctx, query, conversationID, userID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *ParticipantRepository) Remove(ctx context.Context, conversationID int64, userID int64) error {
	query := `
		DELETE FROM conversation_participants
		WHERE conversation_id = $1 AND user_id = $2
	`
	_, err := r.db.Exec(ctx, query, conversationID, userID)
	return err
}

// ListByConversations fetches the participants of every listed conversation
// in one query, profiles included, keyed by conversation id.
func (r *ParticipantRepository) ListByConversations(
	ctx context.Context,
	conversationIDs []int64,
) (map[int64][]models.Participant, error) {
	result := make(map[int64][]models.Participant)
	if len(conversationIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT cp.conversation_id, cp.user_id, cp.joined_at, up.full_name, up.avatar_url
		FROM conversation_participants cp
		LEFT JOIN user_profiles up ON up.user_id = cp.user_id
		WHERE cp.conversation_id = ANY($1)
		ORDER BY cp.conversation_id, cp.joined_at
	`

	rows, err := r.db.Query(ctx, query, conversationIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var conversationID int64
		var participant models.Participant
		if err := rows.Scan(
			&conversationID,
			&participant.UserID,
			&participant.JoinedAt,
			&participant.FullName,
			&participant.AvatarURL,
		); err != nil {
			return nil, err
		}
		result[conversationID] = append(result[conversationID], participant)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *ParticipantRepository) ListByConversation(
	ctx context.Context,
	conversationID int64,
) ([]models.Participant, error) {
	byConversation, err := r.ListByConversations(ctx, []int64{conversationID})
	if err != nil {
		return nil, err
	}
	return byConversation[conversationID], nil
}
