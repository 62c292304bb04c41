package repository

import (
	"context"

	"github.com/HarshithaLikitha/student-connect/internal/models"
)

type NotificationRepository struct {
	db DBTX
}

func NewNotificationRepository(db DBTX) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(
	ctx context.Context,
	userID int64,
	notificationType models.NotificationType,
	content string,
	referenceID *int64,
	referenceType models.ReferenceKind,
) (*models.Notification, error) {
	query := `
		INSERT INTO notifications (user_id, type, content, reference_id, reference_type, is_read)
		VALUES ($1, $2, $3, $4, $5, FALSE)
		RETURNING id, user_id, type, content, reference_id, reference_type, is_read, created_at
	`

	var notification models.Notification
	err := r.db.QueryRow(ctx, query, userID, notificationType, content, referenceID, referenceType).Scan(
		&notification.ID,
		&notification.UserID,
		&notification.Type,
		&notification.Content,
		&notification.ReferenceID,
		&notification.ReferenceType,
		&notification.IsRead,
		&notification.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &notification, nil
}

func (r *NotificationRepository) ListByRecipient(
	ctx context.Context,
	userID int64,
) ([]models.Notification, error) {
	query := `
		SELECT id, user_id, type, content, reference_id, reference_type, is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := make([]models.Notification, 0)
	for rows.Next() {
		var notification models.Notification
		if err := rows.Scan(
			&notification.ID,
			&notification.UserID,
			&notification.Type,
			&notification.Content,
			&notification.ReferenceID,
			&notification.ReferenceType,
			&notification.IsRead,
			&notification.CreatedAt,
		); err != nil {
			return nil, err
		}
		notifications = append(notifications, notification)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return notifications, nil
}

// MarkRead flips is_read for a single notification. Scoping by recipient
// keeps one user from consuming another's notification.
func (r *NotificationRepository) MarkRead(ctx context.Context, id int64, userID int64) error {
	_, err := r.db.Exec(ctx, `
		UPDATE notifications
		SET is_read = TRUE
		WHERE id = $1 AND user_id = $2
	`, id, userID)
	return err
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID int64) error {
	_, err := r.db.Exec(ctx, `
		UPDATE notifications
		SET is_read = TRUE
		WHERE user_id = $1 AND is_read = FALSE
	`, userID)
	return err
}
