package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/HarshithaLikitha/student-connect/internal/models"
	"github.com/HarshithaLikitha/student-connect/internal/services"
	chatws "github.com/HarshithaLikitha/student-connect/internal/websocket"
	"github.com/HarshithaLikitha/student-connect/pkg/utils"
)

type chatApplicationService interface {
	ListConversations(ctx context.Context, userID int64) []models.ConversationSummary
	GetConversation(ctx context.Context, conversationID int64, userID int64) *models.ConversationDetail
	ListMessages(ctx context.Context, conversationID int64, userID int64, limit int) []models.MessageView
	SendMessage(ctx context.Context, conversationID int64, senderID int64, content string) (*services.ChatDelivery, error)
	CreateConversation(ctx context.Context, creatorID int64, name *string, isGroup bool, participantIDs []int64) (*models.Conversation, bool, error)
	AddParticipant(ctx context.Context, conversationID int64, userID int64, newParticipantID int64) error
	LeaveConversation(ctx context.Context, conversationID int64, userID int64) error
}

type ChatHandler struct {
	service   chatApplicationService
	hub       *chatws.Hub
	jwtSecret string
}

func NewChatHandler(service chatApplicationService, hub *chatws.Hub, jwtSecret string) *ChatHandler {
	return &ChatHandler{
		service:   service,
		hub:       hub,
		jwtSecret: jwtSecret,
	}
}

type createConversationRequest struct {
	Name           *string `json:"name"`
	IsGroup        bool    `json:"is_group"`
	ParticipantIDs []int64 `json:"participant_ids"`
}

type sendMessageRequest struct {
	Content string `json:"content"`
}

type addParticipantRequest struct {
	UserID int64 `json:"user_id"`
}

func (h *ChatHandler) ListConversations(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	conversations := h.service.ListConversations(c.Context(), userID)
	return c.JSON(fiber.Map{"conversations": conversations})
}

func (h *ChatHandler) GetConversation(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	conversationID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || conversationID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid conversation id"})
	}

	conversation := h.service.GetConversation(c.Context(), conversationID, userID)
	if conversation == nil {
		// Absent and forbidden are the same answer on purpose.
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Conversation not found"})
	}

	return c.JSON(fiber.Map{"conversation": conversation})
}

func (h *ChatHandler) CreateConversation(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req createConversationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	conversation, existing, err := h.service.CreateConversation(
		c.Context(),
		userID,
		req.Name,
		req.IsGroup,
		req.ParticipantIDs,
	)
	if err != nil {
		return mapChatError(c, err)
	}

	status := fiber.StatusCreated
	if existing {
		status = fiber.StatusOK
	}
	return c.Status(status).JSON(fiber.Map{
		"conversation": conversation,
		"existing":     existing,
	})
}

func (h *ChatHandler) GetMessages(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	conversationID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || conversationID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid conversation id"})
	}

	limit := parsePositiveInt(c.Query("limit"), services.DefaultMessageLimit)
	if limit > services.DefaultMessageLimit {
		limit = services.DefaultMessageLimit
	}

	messages := h.service.ListMessages(c.Context(), conversationID, userID, limit)
	return c.JSON(fiber.Map{"messages": messages})
}

func (h *ChatHandler) SendMessage(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	conversationID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || conversationID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid conversation id"})
	}

	var req sendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	delivery, err := h.service.SendMessage(c.Context(), conversationID, userID, req.Content)
	if err != nil {
		return mapChatError(c, err)
	}

	h.hub.Deliver(delivery)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": delivery.Message})
}

func (h *ChatHandler) AddParticipant(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	conversationID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || conversationID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid conversation id"})
	}

	var req addParticipantRequest
	if err := c.BodyParser(&req); err != nil || req.UserID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := h.service.AddParticipant(c.Context(), conversationID, userID, req.UserID); err != nil {
		return mapChatError(c, err)
	}

	return c.JSON(fiber.Map{"success": true})
}

func (h *ChatHandler) LeaveConversation(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	conversationID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || conversationID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid conversation id"})
	}

	if err := h.service.LeaveConversation(c.Context(), conversationID, userID); err != nil {
		return mapChatError(c, err)
	}

	return c.JSON(fiber.Map{"success": true})
}

func (h *ChatHandler) WebSocketAuth(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return c.Status(fiber.StatusUpgradeRequired).JSON(fiber.Map{"error": "WebSocket upgrade required"})
	}

	claims, err := h.parseWSClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
	}

	c.Locals("user_id", claims.UserID)
	return c.Next()
}

func (h *ChatHandler) HandleWebSocket(conn *websocket.Conn) {
	userID, _ := conn.Locals("user_id").(string)
	client := chatws.NewClient(h.hub, conn, userID)

	h.hub.Register(client)
	go client.WritePump()
	client.ReadPump(h.service)
}

func (h *ChatHandler) parseWSClaims(c *fiber.Ctx) (*utils.Claims, error) {
	tokenString := strings.TrimSpace(c.Query("token"))
	if tokenString == "" {
		authHeader := strings.TrimSpace(c.Get("Authorization"))
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}
	}

	if tokenString == "" {
		return nil, errors.New("missing token")
	}

	return utils.ValidateToken(tokenString, h.jwtSecret)
}

func mapChatError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	case errors.Is(err, services.ErrEmptyContent),
		errors.Is(err, services.ErrDirectParticipants),
		errors.Is(err, services.ErrNotGroup),
		errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrAlreadyParticipant):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Conversation not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process chat request"})
	}
}
