package services

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/HarshithaLikitha/student-connect/internal/models"
)

// Store interfaces are deliberately narrow so the service can be exercised
// against fakes; the pgx-backed repositories satisfy them.

type conversationStore interface {
	Create(ctx context.Context, name *string, isGroup bool) (*models.Conversation, error)
	GetByID(ctx context.Context, conversationID int64) (*models.Conversation, error)
	FindDirectBetween(ctx context.Context, userID int64, otherID int64) (*models.Conversation, error)
	ListForParticipant(ctx context.Context, userID int64) ([]models.ConversationSummary, error)
	Touch(ctx context.Context, conversationID int64) error
}

type participantStore interface {
	Add(ctx context.Context, conversationID int64, userID int64) error
	AddMany(ctx context.Context, conversationID int64, userIDs []int64) error
	Exists(ctx context.Context, conversationID int64, userID int64) (bool, error)
	Remove(ctx context.Context, conversationID int64, userID int64) error
	ListByConversations(ctx context.Context, conversationIDs []int64) (map[int64][]models.Participant, error)
	ListByConversation(ctx context.Context, conversationID int64) ([]models.Participant, error)
}

type messageStore interface {
	Create(ctx context.Context, conversationID int64, senderID int64, content string) (*models.ChatMessage, error)
	ListRecent(ctx context.Context, conversationID int64, limit int) ([]models.MessageWithSender, error)
	MarkRead(ctx context.Context, messageIDs []int64, readerID int64) error
}

const DefaultMessageLimit = 50

type ChatService struct {
	conversationRepo conversationStore
	participantRepo  participantStore
	messageRepo      messageStore
}

// ChatDelivery carries a freshly stored message plus the participants it
// should be pushed to over the websocket hub.
type ChatDelivery struct {
	Conversation *models.Conversation
	Message      *models.ChatMessage
	RecipientIDs []int64
}

func NewChatService(
	conversationRepo conversationStore,
	participantRepo participantStore,
	messageRepo messageStore,
) *ChatService {
	return &ChatService{
		conversationRepo: conversationRepo,
		participantRepo:  participantRepo,
		messageRepo:      messageRepo,
	}
}

// ListConversations returns the user's inbox, most recently active first.
// Read operations never surface errors: a failed fetch degrades to an empty
// list or a zero-valued field, and the cause is logged.
func (s *ChatService) ListConversations(ctx context.Context, userID int64) []models.ConversationSummary {
	summaries, err := s.conversationRepo.ListForParticipant(ctx, userID)
	if err != nil {
		log.Printf("list conversations for user %d: %v", userID, err)
		return []models.ConversationSummary{}
	}
	if len(summaries) == 0 {
		return summaries
	}

	conversationIDs := make([]int64, 0, len(summaries))
	for _, summary := range summaries {
		conversationIDs = append(conversationIDs, summary.ID)
	}

	participantsByConversation, err := s.participantRepo.ListByConversations(ctx, conversationIDs)
	if err != nil {
		log.Printf("list participants for user %d: %v", userID, err)
		participantsByConversation = map[int64][]models.Participant{}
	}

	for i := range summaries {
		participants := participantsByConversation[summaries[i].ID]
		if participants == nil {
			participants = []models.Participant{}
		}
		summaries[i].Participants = participants

		if !summaries[i].IsGroup {
			name, avatar, ok := counterpartIdentity(participants, userID)
			if ok {
				summaries[i].Name = name
				summaries[i].Avatar = avatar
			}
		}
	}

	return summaries
}

// GetConversation returns nil when the conversation does not exist or the
// user is not a participant; the two cases are indistinguishable on purpose.
func (s *ChatService) GetConversation(ctx context.Context, conversationID int64, userID int64) *models.ConversationDetail {
	isParticipant, err := s.participantRepo.Exists(ctx, conversationID, userID)
	if err != nil {
		log.Printf("check participant %d in conversation %d: %v", userID, conversationID, err)
		return nil
	}
	if !isParticipant {
		return nil
	}

	conversation, err := s.conversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		log.Printf("get conversation %d: %v", conversationID, err)
		return nil
	}

	participants, err := s.participantRepo.ListByConversation(ctx, conversationID)
	if err != nil {
		log.Printf("list participants of conversation %d: %v", conversationID, err)
		participants = []models.Participant{}
	}
	if participants == nil {
		participants = []models.Participant{}
	}

	detail := &models.ConversationDetail{
		ID:           conversation.ID,
		IsGroup:      conversation.IsGroup,
		CreatedAt:    conversation.CreatedAt,
		UpdatedAt:    conversation.UpdatedAt,
		Participants: participants,
	}
	if conversation.Name != nil {
		detail.Name = *conversation.Name
	}

	if !conversation.IsGroup {
		name, avatar, ok := counterpartIdentity(participants, userID)
		if ok {
			detail.Name = name
			detail.Avatar = avatar
		}
	}

	return detail
}

// ListMessages returns up to limit messages in chronological order and marks
// the unseen ones as read by the caller. The returned views reflect the
// read-state as it was before this call; the next fetch sees them as read.
// Non-participants get an empty list, never an error.
func (s *ChatService) ListMessages(
	ctx context.Context,
	conversationID int64,
	userID int64,
	limit int,
) []models.MessageView {
	if limit <= 0 {
		limit = DefaultMessageLimit
	}

	isParticipant, err := s.participantRepo.Exists(ctx, conversationID, userID)
	if err != nil {
		log.Printf("check participant %d in conversation %d: %v", userID, conversationID, err)
		return []models.MessageView{}
	}
	if !isParticipant {
		return []models.MessageView{}
	}

	messages, err := s.messageRepo.ListRecent(ctx, conversationID, limit)
	if err != nil {
		log.Printf("list messages of conversation %d: %v", conversationID, err)
		return []models.MessageView{}
	}

	views := make([]models.MessageView, 0, len(messages))
	toMark := make([]int64, 0)
	for _, message := range messages {
		seen := message.ReadByContains(userID)
		if message.SenderID != userID && !seen {
			toMark = append(toMark, message.ID)
		}

		senderName := "Unknown User"
		if message.SenderName != nil && *message.SenderName != "" {
			senderName = *message.SenderName
		}

		views = append(views, models.MessageView{
			ID:        message.ID,
			Content:   message.Content,
			Timestamp: message.CreatedAt,
			Sender: models.MessageSender{
				ID:     message.SenderID,
				Name:   senderName,
				Avatar: message.SenderAvatar,
			},
			IsRead: seen,
			IsMine: message.SenderID == userID,
		})
	}

	if len(toMark) > 0 {
		if err := s.messageRepo.MarkRead(ctx, toMark, userID); err != nil {
			log.Printf("mark messages read in conversation %d: %v", conversationID, err)
		}
	}

	// Fetched newest-first to bound by recency; callers want oldest-first.
	for i, j := 0, len(views)-1; i < j; i, j = i+1, j-1 {
		views[i], views[j] = views[j], views[i]
	}

	return views
}

// SendMessage appends a message and bumps the conversation's recency. The
// two writes are independent statements: a failure after the insert leaves
// the inbox ordering stale but the message durably stored.
func (s *ChatService) SendMessage(
	ctx context.Context,
	conversationID int64,
	senderID int64,
	content string,
) (*ChatDelivery, error) {
	if conversationID <= 0 {
		return nil, ErrInvalidInput
	}

	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, ErrEmptyContent
	}

	isParticipant, err := s.participantRepo.Exists(ctx, conversationID, senderID)
	if err != nil {
		return nil, err
	}
	if !isParticipant {
		return nil, ErrForbidden
	}

	message, err := s.messageRepo.Create(ctx, conversationID, senderID, trimmed)
	if err != nil {
		return nil, err
	}

	if err := s.conversationRepo.Touch(ctx, conversationID); err != nil {
		log.Printf("touch conversation %d: %v", conversationID, err)
	}

	conversation, err := s.conversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		log.Printf("get conversation %d after send: %v", conversationID, err)
	}

	recipientIDs := make([]int64, 0)
	participants, err := s.participantRepo.ListByConversation(ctx, conversationID)
	if err != nil {
		log.Printf("list recipients of conversation %d: %v", conversationID, err)
	} else {
		for _, participant := range participants {
			if participant.UserID != senderID {
				recipientIDs = append(recipientIDs, participant.UserID)
			}
		}
	}

	return &ChatDelivery{
		Conversation: conversation,
		Message:      message,
		RecipientIDs: recipientIDs,
	}, nil
}

// CreateConversation creates a conversation and its participant rows. Direct
// conversations are deduplicated: an existing two-party conversation between
// the creator and the target is returned with existing=true instead of a
// duplicate row.
func (s *ChatService) CreateConversation(
	ctx context.Context,
	creatorID int64,
	name *string,
	isGroup bool,
	participantIDs []int64,
) (*models.Conversation, bool, error) {
	if !isGroup {
		if len(participantIDs) != 1 {
			return nil, false, ErrDirectParticipants
		}
		otherID := participantIDs[0]
		if otherID == creatorID || otherID <= 0 {
			return nil, false, ErrInvalidInput
		}

		existing, err := s.conversationRepo.FindDirectBetween(ctx, creatorID, otherID)
		if err != nil {
			log.Printf("find direct conversation between %d and %d: %v", creatorID, otherID, err)
		} else if existing != nil {
			return existing, true, nil
		}
	}

	var storedName *string
	if isGroup {
		storedName = name
	}

	conversation, err := s.conversationRepo.Create(ctx, storedName, isGroup)
	if err != nil {
		return nil, false, err
	}

	if err := s.participantRepo.Add(ctx, conversation.ID, creatorID); err != nil {
		return nil, false, err
	}
	if err := s.participantRepo.AddMany(ctx, conversation.ID, participantIDs); err != nil {
		return nil, false, err
	}

	return conversation, false, nil
}

// AddParticipant admits a new member to a group conversation. Adding someone
// who is already in the conversation is an explicit failure, not a no-op.
func (s *ChatService) AddParticipant(
	ctx context.Context,
	conversationID int64,
	userID int64,
	newParticipantID int64,
) error {
	conversation, err := s.conversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		return ErrNotFound
	}
	if !conversation.IsGroup {
		return ErrNotGroup
	}

	isParticipant, err := s.participantRepo.Exists(ctx, conversationID, userID)
	if err != nil {
		return err
	}
	if !isParticipant {
		return ErrForbidden
	}

	alreadyIn, err := s.participantRepo.Exists(ctx, conversationID, newParticipantID)
	if err != nil {
		return err
	}
	if alreadyIn {
		return ErrAlreadyParticipant
	}

	return s.participantRepo.Add(ctx, conversationID, newParticipantID)
}

// LeaveConversation removes the caller's participant row. Conversations left
// with no participants are tolerated; nothing cleans them up.
func (s *ChatService) LeaveConversation(ctx context.Context, conversationID int64, userID int64) error {
	return s.participantRepo.Remove(ctx, conversationID, userID)
}

// counterpartIdentity resolves the display identity of a direct conversation
// from the participant who is not the requesting user.
func counterpartIdentity(participants []models.Participant, userID int64) (string, *string, bool) {
	for _, participant := range participants {
		if participant.UserID == userID {
			continue
		}
		if participant.FullName == nil {
			return "", nil, false
		}
		return *participant.FullName, participant.AvatarURL, true
	}
	return "", nil, false
}

func FormatChatTimestamp(ts time.Time) string {
	return ts.UTC().Format(time.RFC3339)
}
