package repository

import (
	"context"
	"time"

	"github.com/HarshithaLikitha/student-connect/internal/models"
)

type EventRepository struct {
	db DBTX
}

func NewEventRepository(db DBTX) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(
	ctx context.Context,
	title string,
	description *string,
	location *string,
	startsAt time.Time,
	createdBy int64,
) (*models.Event, error) {
	query := `
		INSERT INTO events (title, description, location, starts_at, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, title, description, location, starts_at, created_by, participant_count, created_at
	`

	var event models.Event
	err := r.db.QueryRow(ctx, query, title, description, location, startsAt, createdBy).Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.Location,
		&event.StartsAt,
		&event.CreatedBy,
		&event.ParticipantCount,
		&event.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &event, nil
}

func (r *EventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	query := `
		SELECT id, title, description, location, starts_at, created_by, participant_count, created_at
		FROM events
		WHERE id = $1
	`

	var event models.Event
	err := r.db.QueryRow(ctx, query, id).Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.Location,
		&event.StartsAt,
		&event.CreatedBy,
		&event.ParticipantCount,
		&event.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &event, nil
}

func (r *EventRepository) List(ctx context.Context, limit int, offset int) ([]models.Event, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM events`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, title, description, location, starts_at, created_by, participant_count, created_at
		FROM events
		ORDER BY starts_at ASC, id ASC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	events := make([]models.Event, 0)
	for rows.Next() {
		var event models.Event
		if err := rows.Scan(
			&event.ID,
			&event.Title,
			&event.Description,
			&event.Location,
			&event.StartsAt,
			&event.CreatedBy,
			&event.ParticipantCount,
			&event.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return events, total, nil
}

func (r *EventRepository) IsParticipant(ctx context.Context, eventID int64, userID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM event_participants
			WHERE event_id = $1 AND user_id = $2
		)
	`
	var exists bool
	if err := r.db.QueryRow(ctx, query, eventID, userID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *EventRepository) AddParticipant(ctx context.Context, eventID int64, userID int64) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO event_participants (event_id, user_id)
		VALUES ($1, $2)
	`, eventID, userID)
	return err
}

func (r *EventRepository) RemoveParticipant(ctx context.Context, eventID int64, userID int64) error {
	_, err := r.db.Exec(ctx, `
		DELETE FROM event_participants
		WHERE event_id = $1 AND user_id = $2
	`, eventID, userID)
	return err
}

func (r *EventRepository) AdjustParticipantCount(ctx context.Context, eventID int64, delta int) error {
	_, err := r.db.Exec(ctx, `
		UPDATE events
		SET participant_count = GREATEST(participant_count + $2, 0)
		WHERE id = $1
	`, eventID, delta)
	return err
}
