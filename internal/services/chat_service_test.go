package services

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/HarshithaLikitha/student-connect/internal/models"
)

// memoryChatStore is a stateful in-memory stand-in for the three pgx-backed
// chat repositories, so the service logic can be exercised end to end.
type memoryChatStore struct {
	nextConversationID int64
	nextMessageID      int64
	conversations      map[int64]*models.Conversation
	participants       map[int64]map[int64]time.Time
	messages           map[int64][]*models.ChatMessage
	profiles           map[int64]string
	clock              time.Time
}

func newMemoryChatStore() *memoryChatStore {
	return &memoryChatStore{
		conversations: make(map[int64]*models.Conversation),
		participants:  make(map[int64]map[int64]time.Time),
		messages:      make(map[int64][]*models.ChatMessage),
		profiles:      make(map[int64]string),
		clock:         time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (s *memoryChatStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *memoryChatStore) Create(_ context.Context, name *string, isGroup bool) (*models.Conversation, error) {
	s.nextConversationID++
	now := s.tick()
	conversation := &models.Conversation{
		ID:        s.nextConversationID,
		Name:      name,
		IsGroup:   isGroup,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.conversations[conversation.ID] = conversation
	s.participants[conversation.ID] = make(map[int64]time.Time)
	return conversation, nil
}

func (s *memoryChatStore) GetByID(_ context.Context, conversationID int64) (*models.Conversation, error) {
	conversation, ok := s.conversations[conversationID]
	if !ok {
		return nil, errors.New("no rows in result set")
	}
	copied := *conversation
	return &copied, nil
}

func (s *memoryChatStore) FindDirectBetween(_ context.Context, userID int64, otherID int64) (*models.Conversation, error) {
	for id, conversation := range s.conversations {
		if conversation.IsGroup {
			continue
		}
		members := s.participants[id]
		if len(members) != 2 {
			continue
		}
		if _, a := members[userID]; !a {
			continue
		}
		if _, b := members[otherID]; !b {
			continue
		}
		copied := *conversation
		return &copied, nil
	}
	return nil, nil
}

func (s *memoryChatStore) ListForParticipant(_ context.Context, userID int64) ([]models.ConversationSummary, error) {
	var summaries []models.ConversationSummary
	for id, conversation := range s.conversations {
		if _, ok := s.participants[id][userID]; !ok {
			continue
		}

		summary := models.ConversationSummary{
			ID:        id,
			IsGroup:   conversation.IsGroup,
			CreatedAt: conversation.CreatedAt,
			UpdatedAt: conversation.UpdatedAt,
		}
		if conversation.Name != nil {
			summary.Name = *conversation.Name
		}

		messages := s.messages[id]
		if len(messages) > 0 {
			last := messages[len(messages)-1]
			summary.LastMessage = &models.LastMessage{
				Content:   last.Content,
				SenderID:  last.SenderID,
				CreatedAt: last.CreatedAt,
				IsRead:    last.SenderID == userID || last.ReadByContains(userID),
			}
		}
		for _, message := range messages {
			if message.SenderID != userID && !message.ReadByContains(userID) {
				summary.UnreadCount++
			}
		}

		summaries = append(summaries, summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
	})
	return summaries, nil
}

func (s *memoryChatStore) Touch(_ context.Context, conversationID int64) error {
	conversation, ok := s.conversations[conversationID]
	if !ok {
		return errors.New("no rows in result set")
	}
	conversation.UpdatedAt = s.tick()
	return nil
}

func (s *memoryChatStore) Add(_ context.Context, conversationID int64, userID int64) error {
	s.participants[conversationID][userID] = s.tick()
	return nil
}

func (s *memoryChatStore) AddMany(_ context.Context, conversationID int64, userIDs []int64) error {
	for _, userID := range userIDs {
		s.participants[conversationID][userID] = s.tick()
	}
	return nil
}

func (s *memoryChatStore) Exists(_ context.Context, conversationID int64, userID int64) (bool, error) {
	_, ok := s.participants[conversationID][userID]
	return ok, nil
}

func (s *memoryChatStore) Remove(_ context.Context, conversationID int64, userID int64) error {
	delete(s.participants[conversationID], userID)
	return nil
}

func (s *memoryChatStore) ListByConversations(ctx context.Context, conversationIDs []int64) (map[int64][]models.Participant, error) {
	result := make(map[int64][]models.Participant)
	for _, id := range conversationIDs {
		participants, err := s.ListByConversation(ctx, id)
		if err != nil {
			return nil, err
		}
		result[id] = participants
	}
	return result, nil
}

func (s *memoryChatStore) ListByConversation(_ context.Context, conversationID int64) ([]models.Participant, error) {
	members := s.participants[conversationID]
	participants := make([]models.Participant, 0, len(members))
	for userID, joinedAt := range members {
		participant := models.Participant{UserID: userID, JoinedAt: joinedAt}
		if name, ok := s.profiles[userID]; ok {
			fullName := name
			participant.FullName = &fullName
		}
		participants = append(participants, participant)
	}
	sort.Slice(participants, func(i, j int) bool {
		return participants[i].UserID < participants[j].UserID
	})
	return participants, nil
}

func (s *memoryChatStore) CreateMessage(conversationID int64, senderID int64, content string) (*models.ChatMessage, error) {
	s.nextMessageID++
	message := &models.ChatMessage{
		ID:             s.nextMessageID,
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
		ReadBy:         []int64{senderID},
		CreatedAt:      s.tick(),
	}
	s.messages[conversationID] = append(s.messages[conversationID], message)
	return message, nil
}

func (s *memoryChatStore) ListRecent(_ context.Context, conversationID int64, limit int) ([]models.MessageWithSender, error) {
	stored := s.messages[conversationID]
	var result []models.MessageWithSender
	for i := len(stored) - 1; i >= 0 && len(result) < limit; i-- {
		message := *stored[i]
		message.ReadBy = append([]int64(nil), stored[i].ReadBy...)
		withSender := models.MessageWithSender{ChatMessage: message}
		if name, ok := s.profiles[message.SenderID]; ok {
			fullName := name
			withSender.SenderName = &fullName
		}
		result = append(result, withSender)
	}
	return result, nil
}

func (s *memoryChatStore) MarkRead(_ context.Context, messageIDs []int64, readerID int64) error {
	for _, stored := range s.messages {
		for _, message := range stored {
			for _, id := range messageIDs {
				if message.ID == id && !message.ReadByContains(readerID) {
					message.ReadBy = append(message.ReadBy, readerID)
				}
			}
		}
	}
	return nil
}

// messageCreator adapts memoryChatStore to the message store interface; the
// service calls Create for both conversations and messages, so the message
// variant gets its own method name on the fake.
type messageCreator struct {
	*memoryChatStore
}

func (m messageCreator) Create(_ context.Context, conversationID int64, senderID int64, content string) (*models.ChatMessage, error) {
	return m.CreateMessage(conversationID, senderID, content)
}

func newTestChatService() (*ChatService, *memoryChatStore) {
	store := newMemoryChatStore()
	service := NewChatService(store, store, messageCreator{store})
	return service, store
}

func strPtr(s string) *string { return &s }

func TestCreateDirectConversationDeduplicates(t *testing.T) {
	service, _ := newTestChatService()
	ctx := context.Background()

	first, existing, err := service.CreateConversation(ctx, 1, nil, false, []int64{2})
	if err != nil {
		t.Fatalf("CreateConversation: %v", err)
	}
	if existing {
		t.Fatal("first direct conversation reported as existing")
	}

	second, existing, err := service.CreateConversation(ctx, 1, nil, false, []int64{2})
	if err != nil {
		t.Fatalf("CreateConversation (repeat): %v", err)
	}
	if !existing {
		t.Fatal("repeat direct conversation not deduplicated")
	}
	if second.ID != first.ID {
		t.Fatalf("expected conversation %d, got %d", first.ID, second.ID)
	}

	// The other party starting the same pairing lands on the same row too.
	third, existing, err := service.CreateConversation(ctx, 2, nil, false, []int64{1})
	if err != nil {
		t.Fatalf("CreateConversation (reversed): %v", err)
	}
	if !existing || third.ID != first.ID {
		t.Fatalf("reversed pairing not deduplicated: existing=%v id=%d", existing, third.ID)
	}
}

func TestCreateDirectConversationValidation(t *testing.T) {
	service, _ := newTestChatService()
	ctx := context.Background()

	if _, _, err := service.CreateConversation(ctx, 1, nil, false, []int64{2, 3}); !errors.Is(err, ErrDirectParticipants) {
		t.Fatalf("expected ErrDirectParticipants, got %v", err)
	}
	if _, _, err := service.CreateConversation(ctx, 1, nil, false, nil); !errors.Is(err, ErrDirectParticipants) {
		t.Fatalf("expected ErrDirectParticipants for empty list, got %v", err)
	}
	if _, _, err := service.CreateConversation(ctx, 1, nil, false, []int64{1}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for self conversation, got %v", err)
	}
}

func TestCreateGroupConversationKeepsName(t *testing.T) {
	service, store := newTestChatService()
	ctx := context.Background()

	conversation, existing, err := service.CreateConversation(ctx, 1, strPtr("Study Group"), true, []int64{2, 3})
	if err != nil {
		t.Fatalf("CreateConversation: %v", err)
	}
	if existing {
		t.Fatal("group conversation reported as existing")
	}
	if conversation.Name == nil || *conversation.Name != "Study Group" {
		t.Fatalf("unexpected name: %v", conversation.Name)
	}

	members := store.participants[conversation.ID]
	for _, userID := range []int64{1, 2, 3} {
		if _, ok := members[userID]; !ok {
			t.Fatalf("user %d missing from participants", userID)
		}
	}
}

func TestSendMessageRejectsOutsiders(t *testing.T) {
	service, _ := newTestChatService()
	ctx := context.Background()

	conversation, _, err := service.CreateConversation(ctx, 1, nil, false, []int64{2})
	if err != nil {
		t.Fatalf("CreateConversation: %v", err)
	}

	if _, err := service.SendMessage(ctx, conversation.ID, 99, "hi"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := service.SendMessage(ctx, conversation.ID, 1, "   "); !errors.Is(err, ErrEmptyContent) {
		t.Fatalf("expected ErrEmptyContent, got %v", err)
	}
	if _, err := service.SendMessage(ctx, 0, 1, "hi"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSendMessageDeliversToOtherParticipants(t *testing.T) {
	service, store := newTestChatService()
	ctx := context.Background()

	conversation, _, err := service.CreateConversation(ctx, 1, strPtr("Project"), true, []int64{2, 3})
	if err != nil {
		t.Fatalf("CreateConversation: %v", err)
	}

	before := store.conversations[conversation.ID].UpdatedAt
	delivery, err := service.SendMessage(ctx, conversation.ID, 1, "  hello team  ")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	if delivery.Message.Content != "hello team" {
		t.Fatalf("content not trimmed: %q", delivery.Message.Content)
	}
	if !delivery.Message.ReadByContains(1) {
		t.Fatal("sender not recorded as having read own message")
	}
	if len(delivery.RecipientIDs) != 2 {
		t.Fatalf("expected 2 recipients, got %v", delivery.RecipientIDs)
	}
	for _, id := range delivery.RecipientIDs {
		if id == 1 {
			t.Fatal("sender listed as recipient")
		}
	}
	if !store.conversations[conversation.ID].UpdatedAt.After(before) {
		t.Fatal("conversation recency not bumped")
	}
}

func TestListMessagesMarksReadAndReportsPriorState(t *testing.T) {
	service, _ := newTestChatService()
	ctx := context.Background()

	conversation, _, err := service.CreateConversation(ctx, 1, nil, false, []int64{2})
	if err != nil {
		t.Fatalf("CreateConversation: %v", err)
	}
	if _, err := service.SendMessage(ctx, conversation.ID, 1, "first"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if _, err := service.SendMessage(ctx, conversation.ID, 1, "second"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	views := service.ListMessages(ctx, conversation.ID, 2, 0)
	if len(views) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(views))
	}
	if views[0].Content != "first" || views[1].Content != "second" {
		t.Fatalf("messages not chronological: %q then %q", views[0].Content, views[1].Content)
	}
	for _, view := range views {
		if view.IsRead {
			t.Fatalf("message %d reported read before first fetch", view.ID)
		}
		if view.IsMine {
			t.Fatalf("message %d from user 1 reported as reader's own", view.ID)
		}
	}

	// Marking happened during the first fetch, so a second fetch sees it.
	views = service.ListMessages(ctx, conversation.ID, 2, 0)
	for _, view := range views {
		if !view.IsRead {
			t.Fatalf("message %d still unread after fetch", view.ID)
		}
	}

	summaries := service.ListConversations(ctx, 2)
	if len(summaries) != 1 || summaries[0].UnreadCount != 0 {
		t.Fatalf("unexpected summaries after read: %+v", summaries)
	}
}

func TestListMessagesHidesConversationFromOutsiders(t *testing.T) {
	service, _ := newTestChatService()
	ctx := context.Background()

	conversation, _, err := service.CreateConversation(ctx, 1, nil, false, []int64{2})
	if err != nil {
		t.Fatalf("CreateConversation: %v", err)
	}
	if _, err := service.SendMessage(ctx, conversation.ID, 1, "secret"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	if views := service.ListMessages(ctx, conversation.ID, 99, 0); len(views) != 0 {
		t.Fatalf("outsider received %d messages", len(views))
	}
	if detail := service.GetConversation(ctx, conversation.ID, 99); detail != nil {
		t.Fatal("outsider received conversation detail")
	}
	if detail := service.GetConversation(ctx, 424242, 1); detail != nil {
		t.Fatal("missing conversation produced a detail")
	}
}

func TestListConversationsResolvesDirectIdentity(t *testing.T) {
	service, store := newTestChatService()
	ctx := context.Background()
	store.profiles[2] = "Priya Sharma"

	conversation, _, err := service.CreateConversation(ctx, 1, nil, false, []int64{2})
	if err != nil {
		t.Fatalf("CreateConversation: %v", err)
	}
	if _, err := service.SendMessage(ctx, conversation.ID, 2, "hey"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	summaries := service.ListConversations(ctx, 1)
	if len(summaries) != 1 {
		t.Fatalf("expected 1 conversation, got %d", len(summaries))
	}
	if summaries[0].Name != "Priya Sharma" {
		t.Fatalf("direct conversation not named after counterpart: %q", summaries[0].Name)
	}
	if summaries[0].UnreadCount != 1 {
		t.Fatalf("expected 1 unread, got %d", summaries[0].UnreadCount)
	}
	if summaries[0].LastMessage == nil || summaries[0].LastMessage.Content != "hey" {
		t.Fatalf("unexpected last message: %+v", summaries[0].LastMessage)
	}

	// Without a profile for the counterpart the stored name stands.
	other, _, err := service.CreateConversation(ctx, 1, nil, false, []int64{3})
	if err != nil {
		t.Fatalf("CreateConversation: %v", err)
	}
	summaries = service.ListConversations(ctx, 1)
	for _, summary := range summaries {
		if summary.ID == other.ID && summary.Name != "" {
			t.Fatalf("expected empty name for profileless counterpart, got %q", summary.Name)
		}
	}
}

func TestAddParticipantRules(t *testing.T) {
	service, _ := newTestChatService()
	ctx := context.Background()

	direct, _, err := service.CreateConversation(ctx, 1, nil, false, []int64{2})
	if err != nil {
		t.Fatalf("CreateConversation: %v", err)
	}
	group, _, err := service.CreateConversation(ctx, 1, strPtr("Club"), true, []int64{2})
	if err != nil {
		t.Fatalf("CreateConversation: %v", err)
	}

	if err := service.AddParticipant(ctx, direct.ID, 1, 3); !errors.Is(err, ErrNotGroup) {
		t.Fatalf("expected ErrNotGroup, got %v", err)
	}
	if err := service.AddParticipant(ctx, 424242, 1, 3); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := service.AddParticipant(ctx, group.ID, 99, 3); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := service.AddParticipant(ctx, group.ID, 1, 2); !errors.Is(err, ErrAlreadyParticipant) {
		t.Fatalf("expected ErrAlreadyParticipant, got %v", err)
	}
	if err := service.AddParticipant(ctx, group.ID, 1, 3); err != nil {
		t.Fatalf("AddParticipant: %v", err)
	}

	detail := service.GetConversation(ctx, group.ID, 3)
	if detail == nil || len(detail.Participants) != 3 {
		t.Fatalf("new participant not admitted: %+v", detail)
	}
}

func TestLeaveConversationRevokesAccess(t *testing.T) {
	service, _ := newTestChatService()
	ctx := context.Background()

	group, _, err := service.CreateConversation(ctx, 1, strPtr("Club"), true, []int64{2, 3})
	if err != nil {
		t.Fatalf("CreateConversation: %v", err)
	}
	if err := service.LeaveConversation(ctx, group.ID, 2); err != nil {
		t.Fatalf("LeaveConversation: %v", err)
	}

	if detail := service.GetConversation(ctx, group.ID, 2); detail != nil {
		t.Fatal("departed participant still sees the conversation")
	}
	if summaries := service.ListConversations(ctx, 2); len(summaries) != 0 {
		t.Fatalf("departed participant still listed %d conversations", len(summaries))
	}
	if _, err := service.SendMessage(ctx, group.ID, 2, "back again"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden after leaving, got %v", err)
	}
}
