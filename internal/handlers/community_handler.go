package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/HarshithaLikitha/student-connect/internal/models"
	"github.com/HarshithaLikitha/student-connect/internal/services"
)

type communityApplicationService interface {
	Create(ctx context.Context, creatorID int64, name string, description *string) (*models.Community, error)
	List(ctx context.Context, page int, limit int) ([]models.Community, int)
	Get(ctx context.Context, id int64) *models.Community
	Join(ctx context.Context, communityID int64, userID int64) error
	Leave(ctx context.Context, communityID int64, userID int64) error
	IsMember(ctx context.Context, communityID int64, userID int64) bool
}

type CommunityHandler struct {
	service communityApplicationService
}

func NewCommunityHandler(service communityApplicationService) *CommunityHandler {
	return &CommunityHandler{service: service}
}

type createCommunityRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

func (h *CommunityHandler) Create(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req createCommunityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	community, err := h.service.Create(c.Context(), userID, req.Name, req.Description)
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Community name is required"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create community"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"community": community})
}

func (h *CommunityHandler) List(c *fiber.Ctx) error {
	page := parsePositiveInt(c.Query("page"), 1)
	limit := parsePositiveInt(c.Query("limit"), defaultPageLimit)
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	communities, total := h.service.List(c.Context(), page, limit)
	return c.JSON(fiber.Map{
		"communities": communities,
		"pagination":  buildPaginationMeta(page, limit, total),
	})
}

func (h *CommunityHandler) Get(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	communityID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || communityID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid community id"})
	}

	community := h.service.Get(c.Context(), communityID)
	if community == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Community not found"})
	}

	return c.JSON(fiber.Map{
		"community": community,
		"is_member": h.service.IsMember(c.Context(), communityID, userID),
	})
}

func (h *CommunityHandler) Join(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	communityID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || communityID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid community id"})
	}

	if err := h.service.Join(c.Context(), communityID, userID); err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Community not found"})
		case errors.Is(err, services.ErrAlreadyMember):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Already a member of this community"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to join community"})
		}
	}

	return c.JSON(fiber.Map{"success": true})
}

func (h *CommunityHandler) Leave(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	communityID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || communityID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid community id"})
	}

	if err := h.service.Leave(c.Context(), communityID, userID); err != nil {
		switch {
		case errors.Is(err, services.ErrNotMember):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Not a member of this community"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to leave community"})
		}
	}

	return c.JSON(fiber.Map{"success": true})
}
