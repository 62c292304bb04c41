package services

import (
	"context"
	"log"

	"github.com/HarshithaLikitha/student-connect/internal/models"
)

type notificationStore interface {
	Create(
		ctx context.Context,
		userID int64,
		notificationType models.NotificationType,
		content string,
		referenceID *int64,
		referenceType models.ReferenceKind,
	) (*models.Notification, error)
	ListByRecipient(ctx context.Context, userID int64) ([]models.Notification, error)
	MarkRead(ctx context.Context, id int64, userID int64) error
	MarkAllRead(ctx context.Context, userID int64) error
}

type NotificationService struct {
	notificationRepo notificationStore
}

// NotificationView is a notification with its navigation target resolved.
type NotificationView struct {
	models.Notification
	Link string `json:"link"`
}

type NotificationList struct {
	Notifications []NotificationView `json:"notifications"`
	UnreadCount   int                `json:"unread_count"`
}

func NewNotificationService(notificationRepo notificationStore) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

// Notify writes a single notification row. Callers treat it as best-effort:
// a failed insert is logged by the caller and never rolls back the action
// that triggered it.
func (s *NotificationService) Notify(
	ctx context.Context,
	userID int64,
	notificationType models.NotificationType,
	content string,
	referenceID *int64,
	referenceType models.ReferenceKind,
) error {
	_, err := s.notificationRepo.Create(ctx, userID, notificationType, content, referenceID, referenceType)
	return err
}

func (s *NotificationService) List(ctx context.Context, userID int64) NotificationList {
	notifications, err := s.notificationRepo.ListByRecipient(ctx, userID)
	if err != nil {
		log.Printf("list notifications for user %d: %v", userID, err)
		return NotificationList{Notifications: []NotificationView{}}
	}

	views := make([]NotificationView, 0, len(notifications))
	unread := 0
	for _, notification := range notifications {
		if !notification.IsRead {
			unread++
		}
		views = append(views, NotificationView{
			Notification: notification,
			Link:         notification.Route(),
		})
	}

	return NotificationList{
		Notifications: views,
		UnreadCount:   unread,
	}
}

func (s *NotificationService) MarkRead(ctx context.Context, id int64, userID int64) error {
	if id <= 0 {
		return ErrInvalidInput
	}
	return s.notificationRepo.MarkRead(ctx, id, userID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID int64) error {
	return s.notificationRepo.MarkAllRead(ctx, userID)
}
