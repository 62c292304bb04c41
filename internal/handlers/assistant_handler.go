package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/HarshithaLikitha/student-connect/internal/models"
	"github.com/HarshithaLikitha/student-connect/internal/services"
)

type assistantApplicationService interface {
	CreateSession(ctx context.Context, userID int64) (*models.ChatSession, error)
	ListSessions(ctx context.Context, userID int64) []models.ChatSession
	SessionMessages(ctx context.Context, sessionID string, userID int64) []models.AssistantMessage
	SendMessage(ctx context.Context, sessionID string, userID int64, message string) (*services.AssistantExchange, error)
}

type AssistantHandler struct {
	service assistantApplicationService
}

func NewAssistantHandler(service assistantApplicationService) *AssistantHandler {
	return &AssistantHandler{service: service}
}

type assistantMessageRequest struct {
	Message string `json:"message"`
}

func (h *AssistantHandler) CreateSession(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	session, err := h.service.CreateSession(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create chat session"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"session": session})
}

func (h *AssistantHandler) ListSessions(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	sessions := h.service.ListSessions(c.Context(), userID)
	return c.JSON(fiber.Map{"sessions": sessions})
}

func (h *AssistantHandler) GetMessages(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	sessionID := c.Params("id")
	if sessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
	}

	messages := h.service.SessionMessages(c.Context(), sessionID, userID)
	return c.JSON(fiber.Map{"messages": messages})
}

func (h *AssistantHandler) SendMessage(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	sessionID := c.Params("id")
	if sessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
	}

	var req assistantMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	exchange, err := h.service.SendMessage(c.Context(), sessionID, userID, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyContent):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Message is required"})
		case errors.Is(err, services.ErrForbidden):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Chat session not found"})
		case errors.Is(err, services.ErrAssistantDisabled):
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Assistant is not available"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate a response"})
		}
	}

	return c.JSON(fiber.Map{
		"message":     exchange.AssistantMessage,
		"suggestions": exchange.Suggestions,
	})
}
