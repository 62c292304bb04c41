package services

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/HarshithaLikitha/student-connect/internal/models"
)

type eventStore interface {
	Create(
		ctx context.Context,
		title string,
		description *string,
		location *string,
		startsAt time.Time,
		createdBy int64,
	) (*models.Event, error)
	GetByID(ctx context.Context, id int64) (*models.Event, error)
	List(ctx context.Context, limit int, offset int) ([]models.Event, int, error)
	IsParticipant(ctx context.Context, eventID int64, userID int64) (bool, error)
	AddParticipant(ctx context.Context, eventID int64, userID int64) error
	RemoveParticipant(ctx context.Context, eventID int64, userID int64) error
	AdjustParticipantCount(ctx context.Context, eventID int64, delta int) error
}

type EventService struct {
	eventRepo     eventStore
	notifications notifier
}

func NewEventService(eventRepo eventStore, notifications notifier) *EventService {
	return &EventService{
		eventRepo:     eventRepo,
		notifications: notifications,
	}
}

type CreateEventInput struct {
	Title       string
	Description *string
	Location    *string
	StartsAt    time.Time
}

func (s *EventService) Create(ctx context.Context, creatorID int64, input CreateEventInput) (*models.Event, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" || input.StartsAt.IsZero() {
		return nil, ErrInvalidInput
	}

	return s.eventRepo.Create(ctx, title, input.Description, input.Location, input.StartsAt, creatorID)
}

func (s *EventService) List(ctx context.Context, page int, limit int) ([]models.Event, int) {
	events, total, err := s.eventRepo.List(ctx, limit, (page-1)*limit)
	if err != nil {
		log.Printf("list events: %v", err)
		return []models.Event{}, 0
	}
	return events, total
}

func (s *EventService) Get(ctx context.Context, id int64) *models.Event {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		log.Printf("get event %d: %v", id, err)
		return nil
	}
	return event
}

// Register adds the user to the event and fans out a notification,
// best-effort. A failed notification insert leaves the registration intact.
func (s *EventService) Register(ctx context.Context, eventID int64, userID int64) error {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return ErrNotFound
	}

	registered, err := s.eventRepo.IsParticipant(ctx, eventID, userID)
	if err != nil {
		return err
	}
	if registered {
		return ErrAlreadyRegistered
	}

	if err := s.eventRepo.AddParticipant(ctx, eventID, userID); err != nil {
		return err
	}
	if err := s.eventRepo.AdjustParticipantCount(ctx, eventID, 1); err != nil {
		log.Printf("adjust participant count of event %d: %v", eventID, err)
	}

	refID := eventID
	if err := s.notifications.Notify(
		ctx,
		userID,
		models.NotificationEventRegistration,
		"You have successfully registered for an event",
		&refID,
		models.ReferenceEvent,
	); err != nil {
		log.Printf("notify event registration %d for user %d: %v", eventID, userID, err)
	}

	return nil
}

func (s *EventService) Unregister(ctx context.Context, eventID int64, userID int64) error {
	registered, err := s.eventRepo.IsParticipant(ctx, eventID, userID)
	if err != nil {
		return err
	}
	if !registered {
		return ErrNotRegistered
	}

	if err := s.eventRepo.RemoveParticipant(ctx, eventID, userID); err != nil {
		return err
	}
	if err := s.eventRepo.AdjustParticipantCount(ctx, eventID, -1); err != nil {
		log.Printf("adjust participant count of event %d: %v", eventID, err)
	}

	return nil
}

func (s *EventService) IsParticipant(ctx context.Context, eventID int64, userID int64) bool {
	registered, err := s.eventRepo.IsParticipant(ctx, eventID, userID)
	if err != nil {
		log.Printf("check registration of user %d for event %d: %v", userID, eventID, err)
		return false
	}
	return registered
}
