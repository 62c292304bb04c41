package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/HarshithaLikitha/student-connect/internal/models"
)

const (
	historyWindow        = 10
	answerMaxTokens      = 500
	suggestionsMaxTokens = 100
	maxSuggestions       = 3

	// Sent ahead of every exchange so the model knows what it is answering
	// questions about.
	platformContext = `Student Connect is a platform for students to connect, collaborate, and grow together.
Features include:
- Skill-based communities where students can join based on interests
- Project collaboration opportunities
- Events and hackathons
- Messaging system
- Resource sharing

The platform helps students network, find team members for projects, and develop professional skills.`
)

type assistantStore interface {
	CreateSession(ctx context.Context, userID int64) (*models.ChatSession, error)
	ListSessions(ctx context.Context, userID int64) ([]models.ChatSession, error)
	GetSessionForUser(ctx context.Context, sessionID string, userID int64) (*models.ChatSession, error)
	TouchSession(ctx context.Context, sessionID string) error
	CreateMessage(ctx context.Context, sessionID string, isUser bool, content string) (*models.AssistantMessage, error)
	ListMessages(ctx context.Context, sessionID string, limit int) ([]models.AssistantMessage, error)
}

// TextCompleter is the outbound boundary to the text-generation service. It
// has exactly one failure mode; the service never inspects the error beyond
// logging it.
type TextCompleter interface {
	Complete(ctx context.Context, prompt string, maxTokens int32) (string, error)
}

type AssistantService struct {
	assistantRepo assistantStore
	completer     TextCompleter
}

// AssistantExchange is the result of one send: the stored user turn, the
// stored assistant turn, and up to three follow-up suggestions.
type AssistantExchange struct {
	UserMessage      *models.AssistantMessage `json:"user_message"`
	AssistantMessage *models.AssistantMessage `json:"assistant_message"`
	Suggestions      []string                 `json:"suggestions"`
}

func NewAssistantService(assistantRepo assistantStore, completer TextCompleter) *AssistantService {
	return &AssistantService{
		assistantRepo: assistantRepo,
		completer:     completer,
	}
}

func (s *AssistantService) CreateSession(ctx context.Context, userID int64) (*models.ChatSession, error) {
	return s.assistantRepo.CreateSession(ctx, userID)
}

func (s *AssistantService) ListSessions(ctx context.Context, userID int64) []models.ChatSession {
	sessions, err := s.assistantRepo.ListSessions(ctx, userID)
	if err != nil {
		log.Printf("list chat sessions for user %d: %v", userID, err)
		return []models.ChatSession{}
	}
	return sessions
}

// SessionMessages returns the session transcript oldest-first. A session
// that is missing or owned by someone else yields an empty list.
func (s *AssistantService) SessionMessages(ctx context.Context, sessionID string, userID int64) []models.AssistantMessage {
	if _, err := s.assistantRepo.GetSessionForUser(ctx, sessionID, userID); err != nil {
		log.Printf("resolve chat session %s for user %d: %v", sessionID, userID, err)
		return []models.AssistantMessage{}
	}

	messages, err := s.assistantRepo.ListMessages(ctx, sessionID, 200)
	if err != nil {
		log.Printf("list chat messages of session %s: %v", sessionID, err)
		return []models.AssistantMessage{}
	}
	return messages
}

// SendMessage stores the user's turn, asks the completion service for a
// reply, and stores that too. The user turn is persisted before generation
// on purpose: if generation fails the user still sees their own message
// saved, with no assistant reply.
func (s *AssistantService) SendMessage(
	ctx context.Context,
	sessionID string,
	userID int64,
	message string,
) (*AssistantExchange, error) {
	if s.completer == nil {
		return nil, ErrAssistantDisabled
	}

	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return nil, ErrEmptyContent
	}

	if _, err := s.assistantRepo.GetSessionForUser(ctx, sessionID, userID); err != nil {
		return nil, ErrForbidden
	}

	history, err := s.assistantRepo.ListMessages(ctx, sessionID, historyWindow)
	if err != nil {
		log.Printf("list history of session %s: %v", sessionID, err)
		history = nil
	}

	userMessage, err := s.assistantRepo.CreateMessage(ctx, sessionID, true, trimmed)
	if err != nil {
		return nil, err
	}

	if err := s.assistantRepo.TouchSession(ctx, sessionID); err != nil {
		log.Printf("touch chat session %s: %v", sessionID, err)
	}

	answer, err := s.completer.Complete(ctx, buildPrompt(history, trimmed), answerMaxTokens)
	if err != nil {
		return nil, err
	}

	assistantMessage, err := s.assistantRepo.CreateMessage(ctx, sessionID, false, answer)
	if err != nil {
		return nil, err
	}

	return &AssistantExchange{
		UserMessage:      userMessage,
		AssistantMessage: assistantMessage,
		Suggestions:      s.generateSuggestions(ctx, trimmed, answer),
	}, nil
}

func buildPrompt(history []models.AssistantMessage, message string) string {
	var builder strings.Builder
	builder.WriteString(platformContext)
	builder.WriteString("\n\nConversation history:\n")

	lines := make([]string, 0, len(history))
	for _, turn := range history {
		role := "Assistant"
		if turn.IsUser {
			role = "User"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", role, turn.Content))
	}
	builder.WriteString(strings.Join(lines, "\n\n"))

	builder.WriteString("\n\nUser: ")
	builder.WriteString(message)
	builder.WriteString("\n\nAssistant:")
	return builder.String()
}

// generateSuggestions asks for follow-up questions as a comma-separated list
// and parses it client-side. Any failure degrades to no suggestions; the
// primary exchange is already stored by the time this runs.
func (s *AssistantService) generateSuggestions(ctx context.Context, userMessage, answer string) []string {
	prompt := fmt.Sprintf(
		"Based on this conversation:\n\nUser: %s\n\nAssistant: %s\n\n"+
			"Generate 3 short follow-up questions the user might want to ask. "+
			"Each question should be 5-10 words. Return only the questions as a "+
			"comma-separated list with no numbering or additional text.",
		userMessage, answer,
	)

	text, err := s.completer.Complete(ctx, prompt, suggestionsMaxTokens)
	if err != nil {
		log.Printf("generate suggestions: %v", err)
		return []string{}
	}

	suggestions := make([]string, 0, maxSuggestions)
	for _, part := range strings.Split(text, ",") {
		question := strings.TrimSpace(part)
		if question == "" {
			continue
		}
		suggestions = append(suggestions, question)
		if len(suggestions) == maxSuggestions {
			break
		}
	}
	return suggestions
}
