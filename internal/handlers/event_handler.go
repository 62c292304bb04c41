package handlers

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/HarshithaLikitha/student-connect/internal/models"
	"github.com/HarshithaLikitha/student-connect/internal/services"
)

type eventApplicationService interface {
	Create(ctx context.Context, creatorID int64, input services.CreateEventInput) (*models.Event, error)
	List(ctx context.Context, page int, limit int) ([]models.Event, int)
	Get(ctx context.Context, id int64) *models.Event
	Register(ctx context.Context, eventID int64, userID int64) error
	Unregister(ctx context.Context, eventID int64, userID int64) error
	IsParticipant(ctx context.Context, eventID int64, userID int64) bool
}

type EventHandler struct {
	service eventApplicationService
}

func NewEventHandler(service eventApplicationService) *EventHandler {
	return &EventHandler{service: service}
}

type createEventRequest struct {
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Location    *string   `json:"location"`
	StartsAt    time.Time `json:"starts_at"`
}

func (h *EventHandler) Create(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req createEventRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	event, err := h.service.Create(c.Context(), userID, services.CreateEventInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartsAt:    req.StartsAt,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Title and start time are required"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create event"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"event": event})
}

func (h *EventHandler) List(c *fiber.Ctx) error {
	page := parsePositiveInt(c.Query("page"), 1)
	limit := parsePositiveInt(c.Query("limit"), defaultPageLimit)
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	events, total := h.service.List(c.Context(), page, limit)
	return c.JSON(fiber.Map{
		"events":     events,
		"pagination": buildPaginationMeta(page, limit, total),
	})
}

func (h *EventHandler) Get(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	eventID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || eventID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid event id"})
	}

	event := h.service.Get(c.Context(), eventID)
	if event == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Event not found"})
	}

	return c.JSON(fiber.Map{
		"event":         event,
		"is_registered": h.service.IsParticipant(c.Context(), eventID, userID),
	})
}

func (h *EventHandler) Register(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	eventID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || eventID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid event id"})
	}

	if err := h.service.Register(c.Context(), eventID, userID); err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Event not found"})
		case errors.Is(err, services.ErrAlreadyRegistered):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Already registered for this event"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to register for event"})
		}
	}

	return c.JSON(fiber.Map{"success": true})
}

func (h *EventHandler) Unregister(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	eventID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || eventID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid event id"})
	}

	if err := h.service.Unregister(c.Context(), eventID, userID); err != nil {
		switch {
		case errors.Is(err, services.ErrNotRegistered):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Not registered for this event"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to cancel registration"})
		}
	}

	return c.JSON(fiber.Map{"success": true})
}
