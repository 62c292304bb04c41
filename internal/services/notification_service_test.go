package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/HarshithaLikitha/student-connect/internal/models"
)

type memoryNotificationStore struct {
	nextID        int64
	notifications []*models.Notification
	listErr       error
}

func (s *memoryNotificationStore) Create(
	_ context.Context,
	userID int64,
	notificationType models.NotificationType,
	content string,
	referenceID *int64,
	referenceType models.ReferenceKind,
) (*models.Notification, error) {
	s.nextID++
	notification := &models.Notification{
		ID:            s.nextID,
		UserID:        userID,
		Type:          notificationType,
		Content:       content,
		ReferenceID:   referenceID,
		ReferenceType: referenceType,
		CreatedAt:     time.Now().UTC(),
	}
	s.notifications = append(s.notifications, notification)
	return notification, nil
}

func (s *memoryNotificationStore) ListByRecipient(_ context.Context, userID int64) ([]models.Notification, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var result []models.Notification
	for i := len(s.notifications) - 1; i >= 0; i-- {
		if s.notifications[i].UserID == userID {
			result = append(result, *s.notifications[i])
		}
	}
	return result, nil
}

func (s *memoryNotificationStore) MarkRead(_ context.Context, id int64, userID int64) error {
	for _, notification := range s.notifications {
		if notification.ID == id && notification.UserID == userID {
			notification.IsRead = true
		}
	}
	return nil
}

func (s *memoryNotificationStore) MarkAllRead(_ context.Context, userID int64) error {
	for _, notification := range s.notifications {
		if notification.UserID == userID {
			notification.IsRead = true
		}
	}
	return nil
}

func TestNotificationListResolvesLinks(t *testing.T) {
	store := &memoryNotificationStore{}
	service := NewNotificationService(store)
	ctx := context.Background()

	communityID := int64(7)
	eventID := int64(12)
	if err := service.Notify(ctx, 1, models.NotificationCommunityJoin, "Alex joined Robotics Club", &communityID, models.ReferenceCommunity); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if err := service.Notify(ctx, 1, models.NotificationEventRegistration, "Registered for Hack Night", &eventID, models.ReferenceEvent); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if err := service.Notify(ctx, 1, models.NotificationMessage, "New message from Priya", nil, models.ReferenceMessage); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if err := service.Notify(ctx, 2, models.NotificationMessage, "not yours", nil, models.ReferenceMessage); err != nil {
		t.Fatalf("Notify: %v", err)
	}

	list := service.List(ctx, 1)
	if len(list.Notifications) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(list.Notifications))
	}
	if list.UnreadCount != 3 {
		t.Fatalf("expected 3 unread, got %d", list.UnreadCount)
	}

	links := map[models.ReferenceKind]string{}
	for _, view := range list.Notifications {
		links[view.ReferenceType] = view.Link
	}
	if links[models.ReferenceCommunity] != "/communities/7" {
		t.Fatalf("unexpected community link: %q", links[models.ReferenceCommunity])
	}
	if links[models.ReferenceEvent] != "/events/12" {
		t.Fatalf("unexpected event link: %q", links[models.ReferenceEvent])
	}
	if links[models.ReferenceMessage] != "/messages" {
		t.Fatalf("unexpected message link: %q", links[models.ReferenceMessage])
	}
}

func TestNotificationUnknownKindRoutesToInbox(t *testing.T) {
	notification := models.Notification{ReferenceType: models.ReferenceKind("badge")}
	if route := notification.Route(); route != "/notifications" {
		t.Fatalf("unexpected fallback route: %q", route)
	}
}

func TestMarkReadIsScopedAndMonotonic(t *testing.T) {
	store := &memoryNotificationStore{}
	service := NewNotificationService(store)
	ctx := context.Background()

	if err := service.Notify(ctx, 1, models.NotificationMessage, "hi", nil, models.ReferenceMessage); err != nil {
		t.Fatalf("Notify: %v", err)
	}

	// Another user cannot flip someone else's notification.
	if err := service.MarkRead(ctx, 1, 2); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if service.List(ctx, 1).UnreadCount != 1 {
		t.Fatal("foreign MarkRead affected the notification")
	}

	if err := service.MarkRead(ctx, 1, 1); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if service.List(ctx, 1).UnreadCount != 0 {
		t.Fatal("notification still unread after MarkRead")
	}

	// Marking again stays read.
	if err := service.MarkRead(ctx, 1, 1); err != nil {
		t.Fatalf("MarkRead (repeat): %v", err)
	}
	if service.List(ctx, 1).UnreadCount != 0 {
		t.Fatal("repeat MarkRead changed read state")
	}

	if err := service.MarkRead(ctx, 0, 1); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestMarkAllRead(t *testing.T) {
	store := &memoryNotificationStore{}
	service := NewNotificationService(store)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := service.Notify(ctx, 1, models.NotificationMessage, "hi", nil, models.ReferenceMessage); err != nil {
			t.Fatalf("Notify: %v", err)
		}
	}

	if err := service.MarkAllRead(ctx, 1); err != nil {
		t.Fatalf("MarkAllRead: %v", err)
	}
	if unread := service.List(ctx, 1).UnreadCount; unread != 0 {
		t.Fatalf("expected 0 unread, got %d", unread)
	}
}

func TestNotificationListDegradesOnStoreFailure(t *testing.T) {
	store := &memoryNotificationStore{listErr: errors.New("connection refused")}
	service := NewNotificationService(store)

	list := service.List(context.Background(), 1)
	if list.Notifications == nil || len(list.Notifications) != 0 || list.UnreadCount != 0 {
		t.Fatalf("expected empty list on failure, got %+v", list)
	}
}
