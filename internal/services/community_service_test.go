package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/HarshithaLikitha/student-connect/internal/models"
)

type memoryCommunityStore struct {
	nextID      int64
	communities map[int64]*models.Community
	members     map[int64]map[int64]struct{}
	countErr    error
}

func newMemoryCommunityStore() *memoryCommunityStore {
	return &memoryCommunityStore{
		communities: make(map[int64]*models.Community),
		members:     make(map[int64]map[int64]struct{}),
	}
}

func (s *memoryCommunityStore) Create(_ context.Context, name string, description *string, createdBy int64) (*models.Community, error) {
	s.nextID++
	community := &models.Community{
		ID:          s.nextID,
		Name:        name,
		Description: description,
		CreatedBy:   createdBy,
		CreatedAt:   time.Now().UTC(),
	}
	s.communities[community.ID] = community
	s.members[community.ID] = make(map[int64]struct{})
	return community, nil
}

func (s *memoryCommunityStore) GetByID(_ context.Context, id int64) (*models.Community, error) {
	community, ok := s.communities[id]
	if !ok {
		return nil, errors.New("no rows in result set")
	}
	copied := *community
	return &copied, nil
}

func (s *memoryCommunityStore) List(_ context.Context, limit int, offset int) ([]models.Community, int, error) {
	var all []models.Community
	for id := int64(1); id <= s.nextID; id++ {
		if community, ok := s.communities[id]; ok {
			all = append(all, *community)
		}
	}
	total := len(all)
	if offset >= len(all) {
		return []models.Community{}, total, nil
	}
	all = all[offset:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all, total, nil
}

func (s *memoryCommunityStore) IsMember(_ context.Context, communityID int64, userID int64) (bool, error) {
	_, ok := s.members[communityID][userID]
	return ok, nil
}

func (s *memoryCommunityStore) AddMember(_ context.Context, communityID int64, userID int64) error {
	s.members[communityID][userID] = struct{}{}
	return nil
}

func (s *memoryCommunityStore) RemoveMember(_ context.Context, communityID int64, userID int64) error {
	delete(s.members[communityID], userID)
	return nil
}

func (s *memoryCommunityStore) AdjustMemberCount(_ context.Context, communityID int64, delta int) error {
	if s.countErr != nil {
		return s.countErr
	}
	community, ok := s.communities[communityID]
	if !ok {
		return errors.New("no rows in result set")
	}
	community.MemberCount += delta
	if community.MemberCount < 0 {
		community.MemberCount = 0
	}
	return nil
}

type recordingNotifier struct {
	notifications []models.Notification
	err           error
}

func (n *recordingNotifier) Notify(
	_ context.Context,
	userID int64,
	notificationType models.NotificationType,
	content string,
	referenceID *int64,
	referenceType models.ReferenceKind,
) error {
	if n.err != nil {
		return n.err
	}
	n.notifications = append(n.notifications, models.Notification{
		UserID:        userID,
		Type:          notificationType,
		Content:       content,
		ReferenceID:   referenceID,
		ReferenceType: referenceType,
	})
	return nil
}

func TestCreateCommunityMakesCreatorAMember(t *testing.T) {
	store := newMemoryCommunityStore()
	service := NewCommunityService(store, &recordingNotifier{})
	ctx := context.Background()

	community, err := service.Create(ctx, 1, "  Robotics Club  ", nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if community.Name != "Robotics Club" {
		t.Fatalf("name not trimmed: %q", community.Name)
	}
	if community.MemberCount != 1 {
		t.Fatalf("expected member count 1, got %d", community.MemberCount)
	}
	if !service.IsMember(ctx, community.ID, 1) {
		t.Fatal("creator not a member")
	}

	if _, err := service.Create(ctx, 1, "   ", nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank name, got %v", err)
	}
}

func TestJoinCommunityNotifiesJoiner(t *testing.T) {
	store := newMemoryCommunityStore()
	notifier := &recordingNotifier{}
	service := NewCommunityService(store, notifier)
	ctx := context.Background()

	community, err := service.Create(ctx, 1, "Robotics Club", nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := service.Join(ctx, community.ID, 2); err != nil {
		t.Fatalf("Join: %v", err)
	}
	if err := service.Join(ctx, community.ID, 2); !errors.Is(err, ErrAlreadyMember) {
		t.Fatalf("expected ErrAlreadyMember, got %v", err)
	}
	if err := service.Join(ctx, 424242, 2); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// Creator's Create does not notify; only the explicit join does.
	if len(notifier.notifications) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notifier.notifications))
	}
	sent := notifier.notifications[0]
	if sent.UserID != 2 || sent.Type != models.NotificationCommunityJoin {
		t.Fatalf("unexpected notification: %+v", sent)
	}
	if sent.ReferenceID == nil || *sent.ReferenceID != community.ID || sent.ReferenceType != models.ReferenceCommunity {
		t.Fatalf("notification reference wrong: %+v", sent)
	}
}

func TestJoinCommunitySurvivesNotificationFailure(t *testing.T) {
	store := newMemoryCommunityStore()
	service := NewCommunityService(store, &recordingNotifier{err: errors.New("insert failed")})
	ctx := context.Background()

	community, err := service.Create(ctx, 1, "Robotics Club", nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := service.Join(ctx, community.ID, 2); err != nil {
		t.Fatalf("Join failed because of notification: %v", err)
	}
	if !service.IsMember(ctx, community.ID, 2) {
		t.Fatal("membership rolled back on notification failure")
	}
}

func TestJoinCommunitySurvivesCountFailure(t *testing.T) {
	store := newMemoryCommunityStore()
	service := NewCommunityService(store, &recordingNotifier{})
	ctx := context.Background()

	community, err := service.Create(ctx, 1, "Robotics Club", nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	store.countErr = errors.New("deadlock detected")
	if err := service.Join(ctx, community.ID, 2); err != nil {
		t.Fatalf("Join failed because of counter: %v", err)
	}
	if !service.IsMember(ctx, community.ID, 2) {
		t.Fatal("membership missing after counter failure")
	}
}

func TestLeaveCommunity(t *testing.T) {
	store := newMemoryCommunityStore()
	service := NewCommunityService(store, &recordingNotifier{})
	ctx := context.Background()

	community, err := service.Create(ctx, 1, "Robotics Club", nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := service.Join(ctx, community.ID, 2); err != nil {
		t.Fatalf("Join: %v", err)
	}

	if err := service.Leave(ctx, community.ID, 2); err != nil {
		t.Fatalf("Leave: %v", err)
	}
	if service.IsMember(ctx, community.ID, 2) {
		t.Fatal("still a member after leaving")
	}
	if err := service.Leave(ctx, community.ID, 2); !errors.Is(err, ErrNotMember) {
		t.Fatalf("expected ErrNotMember, got %v", err)
	}
}

func TestListCommunitiesPagination(t *testing.T) {
	store := newMemoryCommunityStore()
	service := NewCommunityService(store, &recordingNotifier{})
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := service.Create(ctx, 1, "Community", nil); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	page, total := service.List(ctx, 2, 2)
	if total != 5 {
		t.Fatalf("expected total 5, got %d", total)
	}
	if len(page) != 2 {
		t.Fatalf("expected 2 on page, got %d", len(page))
	}
	if page[0].ID != 3 {
		t.Fatalf("expected page to start at 3, got %d", page[0].ID)
	}
}
