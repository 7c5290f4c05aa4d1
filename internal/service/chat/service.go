package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/healthmate/healthmate-api/internal/llm"
	"github.com/healthmate/healthmate-api/internal/model"
	"github.com/healthmate/healthmate-api/internal/repository"
	"github.com/healthmate/healthmate-api/pkg/metrics"
)

// Gateway answers general health questions; satisfied by *llm.Gateway.
type Gateway interface {
	AnswerQuestion(ctx context.Context, message string, history []model.ChatMessage, language string) (*llm.Answer, error)
}

type Service struct {
	chatRepo repository.ChatRepository
	userRepo repository.UserRepository
	gateway  Gateway
	metrics  *metrics.Metrics
}

func NewService(chatRepo repository.ChatRepository, userRepo repository.UserRepository, gateway Gateway, m *metrics.Metrics) *Service {
	return &Service{
		chatRepo: chatRepo,
		userRepo: userRepo,
		gateway:  gateway,
		metrics:  m,
	}
}

// SendMessage appends the user's message to their conversation, classifies
// it, and produces the assistant's reply: a canned response for rule-matched
// intents, or an LLM answer for general questions. On LLM failure the user
// message stays persisted and the error is surfaced to the caller; nothing
// is retried here.
func (s *Service) SendMessage(ctx context.Context, userID uuid.UUID, req *model.SendMessageRequest) (*model.SendMessageResponse, error) {
	language, err := s.resolveLanguage(ctx, userID, req.Language)
	if err != nil {
		return nil, err
	}

	// Snapshot the conversation window before appending the new message;
	// the window passed to the gateway holds prior turns only.
	history, err := s.chatRepo.ListRecent(ctx, userID, llm.HistoryWindow)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation history: %w", err)
	}

	intent := Classify(req.Message)
	if s.metrics != nil {
		s.metrics.ChatIntents.WithLabelValues(string(intent)).Inc()
	}

	reply := &model.AssistantReply{Intent: intent}
	if canned := CannedResponse(intent); canned != "" {
		reply.Text = canned
	} else {
		answer, err := s.gateway.AnswerQuestion(ctx, req.Message, dereference(history), language)
		if err != nil {
			// Keep the user's side of the exchange even when the
			// assistant is unavailable.
			s.persistUserMessage(ctx, userID, req.Message)
			return nil, err
		}
		reply.Text = answer.Text
		reply.Verified = answer.Verified
		reply.Sources = answer.Sources
	}

	userMsg := &model.ChatMessage{
		UserID:    userID,
		Author:    model.MessageAuthorUser,
		Text:      req.Message,
		CreatedAt: time.Now(),
	}
	if err := s.chatRepo.Append(ctx, userMsg); err != nil {
		return nil, fmt.Errorf("failed to persist user message: %w", err)
	}

	assistantMsg := &model.ChatMessage{
		UserID:    userID,
		Author:    model.MessageAuthorAssistant,
		Text:      reply.Text,
		Verified:  reply.Verified,
		Sources:   reply.Sources,
		CreatedAt: time.Now(),
	}
	if err := s.chatRepo.Append(ctx, assistantMsg); err != nil {
		return nil, fmt.Errorf("failed to persist assistant message: %w", err)
	}

	return &model.SendMessageResponse{
		UserMessage:      userMsg,
		AssistantMessage: assistantMsg,
		Intent:           intent,
	}, nil
}

// History returns the most recent messages of the user's conversation in
// chronological order.
func (s *Service) History(ctx context.Context, userID uuid.UUID, limit int) ([]*model.ChatMessage, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	messages, err := s.chatRepo.ListRecent(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation history: %w", err)
	}
	return messages, nil
}

func (s *Service) resolveLanguage(ctx context.Context, userID uuid.UUID, requested string) (string, error) {
	if requested != "" {
		return requested, nil
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to load user: %w", err)
	}
	if user.PreferredLanguage != "" {
		return user.PreferredLanguage, nil
	}
	return "en", nil
}

func (s *Service) persistUserMessage(ctx context.Context, userID uuid.UUID, text string) {
	msg := &model.ChatMessage{
		UserID:    userID,
		Author:    model.MessageAuthorUser,
		Text:      text,
		CreatedAt: time.Now(),
	}
	if err := s.chatRepo.Append(ctx, msg); err != nil {
		log.Warn().Err(err).Str("user_id", userID.String()).Msg("failed to persist user message")
	}
}

func dereference(messages []*model.ChatMessage) []model.ChatMessage {
	out := make([]model.ChatMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, *m)
	}
	return out
}
