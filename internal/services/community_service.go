package services

import (
	"context"
	"log"
	"strings"

	"github.com/HarshithaLikitha/student-connect/internal/models"
)

type communityStore interface {
	Create(ctx context.Context, name string, description *string, createdBy int64) (*models.Community, error)
	GetByID(ctx context.Context, id int64) (*models.Community, error)
	List(ctx context.Context, limit int, offset int) ([]models.Community, int, error)
	IsMember(ctx context.Context, communityID int64, userID int64) (bool, error)
	AddMember(ctx context.Context, communityID int64, userID int64) error
	RemoveMember(ctx context.Context, communityID int64, userID int64) error
	AdjustMemberCount(ctx context.Context, communityID int64, delta int) error
}

type notifier interface {
	Notify(
		ctx context.Context,
		userID int64,
		notificationType models.NotificationType,
		content string,
		referenceID *int64,
		referenceType models.ReferenceKind,
	) error
}

type CommunityService struct {
	communityRepo communityStore
	notifications notifier
}

func NewCommunityService(communityRepo communityStore, notifications notifier) *CommunityService {
	return &CommunityService{
		communityRepo: communityRepo,
		notifications: notifications,
	}
}

func (s *CommunityService) Create(
	ctx context.Context,
	creatorID int64,
	name string,
	description *string,
) (*models.Community, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, ErrInvalidInput
	}

	community, err := s.communityRepo.Create(ctx, trimmed, description, creatorID)
	if err != nil {
		return nil, err
	}

	if err := s.communityRepo.AddMember(ctx, community.ID, creatorID); err != nil {
		return nil, err
	}
	if err := s.communityRepo.AdjustMemberCount(ctx, community.ID, 1); err != nil {
		log.Printf("adjust member count of community %d: %v", community.ID, err)
	}
	community.MemberCount++

	return community, nil
}

func (s *CommunityService) List(ctx context.Context, page int, limit int) ([]models.Community, int) {
	communities, total, err := s.communityRepo.List(ctx, limit, (page-1)*limit)
	if err != nil {
		log.Printf("list communities: %v", err)
		return []models.Community{}, 0
	}
	return communities, total
}

func (s *CommunityService) Get(ctx context.Context, id int64) *models.Community {
	community, err := s.communityRepo.GetByID(ctx, id)
	if err != nil {
		log.Printf("get community %d: %v", id, err)
		return nil
	}
	return community
}

// Join adds the user to the community and fans out a notification. The
// notification write is fire-and-forget: its failure is logged, never
// surfaced, and never undoes the membership.
func (s *CommunityService) Join(ctx context.Context, communityID int64, userID int64) error {
	if _, err := s.communityRepo.GetByID(ctx, communityID); err != nil {
		return ErrNotFound
	}

	isMember, err := s.communityRepo.IsMember(ctx, communityID, userID)
	if err != nil {
		return err
	}
	if isMember {
		return ErrAlreadyMember
	}

	if err := s.communityRepo.AddMember(ctx, communityID, userID); err != nil {
		return err
	}
	if err := s.communityRepo.AdjustMemberCount(ctx, communityID, 1); err != nil {
		log.Printf("adjust member count of community %d: %v", communityID, err)
	}

	refID := communityID
	if err := s.notifications.Notify(
		ctx,
		userID,
		models.NotificationCommunityJoin,
		"You have successfully joined a new community",
		&refID,
		models.ReferenceCommunity,
	); err != nil {
		log.Printf("notify community join %d for user %d: %v", communityID, userID, err)
	}

	return nil
}

func (s *CommunityService) Leave(ctx context.Context, communityID int64, userID int64) error {
	isMember, err := s.communityRepo.IsMember(ctx, communityID, userID)
	if err != nil {
		return err
	}
	if !isMember {
		return ErrNotMember
	}

	if err := s.communityRepo.RemoveMember(ctx, communityID, userID); err != nil {
		return err
	}
	if err := s.communityRepo.AdjustMemberCount(ctx, communityID, -1); err != nil {
		log.Printf("adjust member count of community %d: %v", communityID, err)
	}

	return nil
}

func (s *CommunityService) IsMember(ctx context.Context, communityID int64, userID int64) bool {
	isMember, err := s.communityRepo.IsMember(ctx, communityID, userID)
	if err != nil {
		log.Printf("check membership of user %d in community %d: %v", userID, communityID, err)
		return false
	}
	return isMember
}
