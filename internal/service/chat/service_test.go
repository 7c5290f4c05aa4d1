package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthmate/healthmate-api/internal/llm"
	"github.com/healthmate/healthmate-api/internal/model"
	apperrors "github.com/healthmate/healthmate-api/pkg/errors"
)

type fakeChatRepo struct {
	messages  []*model.ChatMessage
	appendErr error
}

func (f *fakeChatRepo) Append(ctx context.Context, msg *model.ChatMessage) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	msg.ID = uuid.New()
	copied := *msg
	f.messages = append(f.messages, &copied)
	return nil
}

func (f *fakeChatRepo) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*model.ChatMessage, error) {
	var out []*model.ChatMessage
	for _, m := range f.messages {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

type fakeUserRepo struct {
	user *model.User
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error { return nil }
func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if f.user == nil {
		return nil, errors.New("no rows")
	}
	return f.user, nil
}
func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, errors.New("no rows")
}
func (f *fakeUserRepo) Update(ctx context.Context, user *model.User) error { return nil }

type fakeGateway struct {
	answer   *llm.Answer
	err      error
	calls    int
	language string
	history  []model.ChatMessage
}

func (f *fakeGateway) AnswerQuestion(ctx context.Context, message string, history []model.ChatMessage, language string) (*llm.Answer, error) {
	f.calls++
	f.language = language
	f.history = history
	if f.err != nil {
		return nil, f.err
	}
	return f.answer, nil
}

func TestSendMessageCannedIntentSkipsGateway(t *testing.T) {
	repo := &fakeChatRepo{}
	gw := &fakeGateway{}
	svc := NewService(repo, &fakeUserRepo{user: &model.User{PreferredLanguage: "en"}}, gw, nil)
	userID := uuid.New()

	resp, err := svc.SendMessage(context.Background(), userID, &model.SendMessageRequest{
		Message: "I need an ambulance now",
	})
	require.NoError(t, err)

	assert.Equal(t, model.IntentEmergency, resp.Intent)
	assert.Contains(t, resp.AssistantMessage.Text, "108")
	assert.False(t, resp.AssistantMessage.Verified)
	assert.Zero(t, gw.calls)
	assert.Len(t, repo.messages, 2)
}

func TestSendMessageGeneralGoesThroughGateway(t *testing.T) {
	repo := &fakeChatRepo{}
	gw := &fakeGateway{answer: &llm.Answer{
		Text:     "The WHO recommends rest.",
		Verified: true,
		Sources:  []string{"World Health Organization"},
	}}
	svc := NewService(repo, &fakeUserRepo{}, gw, nil)
	userID := uuid.New()

	resp, err := svc.SendMessage(context.Background(), userID, &model.SendMessageRequest{
		Message:  "what helps with a sore throat?",
		Language: "es",
	})
	require.NoError(t, err)

	assert.Equal(t, model.IntentGeneral, resp.Intent)
	assert.Equal(t, 1, gw.calls)
	assert.Equal(t, "es", gw.language)
	assert.True(t, resp.AssistantMessage.Verified)
	assert.Equal(t, []string{"World Health Organization"}, []string(resp.AssistantMessage.Sources))
	assert.Len(t, repo.messages, 2)
	assert.Equal(t, model.MessageAuthorUser, repo.messages[0].Author)
	assert.Equal(t, model.MessageAuthorAssistant, repo.messages[1].Author)
}

func TestSendMessageFallsBackToProfileLanguage(t *testing.T) {
	repo := &fakeChatRepo{}
	gw := &fakeGateway{answer: &llm.Answer{Text: "ok"}}
	svc := NewService(repo, &fakeUserRepo{user: &model.User{PreferredLanguage: "hi"}}, gw, nil)

	_, err := svc.SendMessage(context.Background(), uuid.New(), &model.SendMessageRequest{
		Message: "what is a balanced diet?",
	})
	require.NoError(t, err)
	assert.Equal(t, "hi", gw.language)
}

func TestSendMessageGatewayFailureKeepsUserMessage(t *testing.T) {
	repo := &fakeChatRepo{}
	gw := &fakeGateway{err: apperrors.RateLimited(errors.New("429"))}
	svc := NewService(repo, &fakeUserRepo{user: &model.User{PreferredLanguage: "en"}}, gw, nil)
	userID := uuid.New()

	_, err := svc.SendMessage(context.Background(), userID, &model.SendMessageRequest{
		Message: "what is a balanced diet?",
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrRateLimited))

	require.Len(t, repo.messages, 1)
	assert.Equal(t, model.MessageAuthorUser, repo.messages[0].Author)
}

func TestSendMessageHistoryExcludesCurrentMessage(t *testing.T) {
	repo := &fakeChatRepo{}
	gw := &fakeGateway{answer: &llm.Answer{Text: "ok"}}
	svc := NewService(repo, &fakeUserRepo{user: &model.User{PreferredLanguage: "en"}}, gw, nil)
	userID := uuid.New()

	_, err := svc.SendMessage(context.Background(), userID, &model.SendMessageRequest{Message: "first question"})
	require.NoError(t, err)

	_, err = svc.SendMessage(context.Background(), userID, &model.SendMessageRequest{Message: "second question"})
	require.NoError(t, err)

	// The second call saw only the first exchange, not its own message.
	require.Len(t, gw.history, 2)
	assert.Equal(t, "first question", gw.history[0].Text)
	for _, m := range gw.history {
		assert.NotEqual(t, "second question", m.Text)
	}
}

func TestHistoryLimitClamped(t *testing.T) {
	repo := &fakeChatRepo{}
	svc := NewService(repo, &fakeUserRepo{}, &fakeGateway{}, nil)
	userID := uuid.New()

	for i := 0; i < 60; i++ {
		require.NoError(t, repo.Append(context.Background(), &model.ChatMessage{
			UserID:    userID,
			Author:    model.MessageAuthorUser,
			Text:      "msg",
			CreatedAt: time.Now(),
		}))
	}

	messages, err := svc.History(context.Background(), userID, 0)
	require.NoError(t, err)
	assert.Len(t, messages, 50)

	messages, err = svc.History(context.Background(), userID, 1000)
	require.NoError(t, err)
	assert.Len(t, messages, 50)
}
