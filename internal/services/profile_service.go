package services

import (
	"context"

	"github.com/HarshithaLikitha/student-connect/internal/models"
	"github.com/HarshithaLikitha/student-connect/internal/repository"
)

type profileStore interface {
	GetByUserID(ctx context.Context, userID int64) (*models.UserProfile, error)
	UpdatePartial(ctx context.Context, userID int64, input repository.UpdateUserProfileInput) (*models.UserProfile, error)
	UpdateAvatarURL(ctx context.Context, userID int64, avatarURL string) (*models.UserProfile, error)
}

type ProfileService struct {
	profileRepo profileStore
}

func NewProfileService(profileRepo profileStore) *ProfileService {
	return &ProfileService{profileRepo: profileRepo}
}

func (s *ProfileService) Get(ctx context.Context, userID int64) (*models.UserProfile, error) {
	return s.profileRepo.GetByUserID(ctx, userID)
}

func (s *ProfileService) Update(
	ctx context.Context,
	userID int64,
	input repository.UpdateUserProfileInput,
) (*models.UserProfile, error) {
	return s.profileRepo.UpdatePartial(ctx, userID, input)
}

func (s *ProfileService) SetAvatar(ctx context.Context, userID int64, avatarURL string) (*models.UserProfile, error) {
	return s.profileRepo.UpdateAvatarURL(ctx, userID, avatarURL)
}
