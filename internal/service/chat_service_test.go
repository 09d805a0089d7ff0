package service

import (
	"context"
	"errors"
	"testing"

	"medichat/internal/constant"
	"medichat/internal/dto"
	"medichat/internal/entity"
	"medichat/internal/pkg/serverutils"
	"medichat/internal/repository/contract"
	"medichat/internal/repository/memory"
	"medichat/internal/repository/specification"
	"medichat/internal/repository/unitofwork"
	"medichat/internal/retrieval"
	"medichat/pkg/responder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- in-memory fakes -------------------------------------------------------

type noopLogger struct{}

func (noopLogger) Debug(string, string, map[string]interface{}) {}
func (noopLogger) Info(string, string, map[string]interface{})  {}
func (noopLogger) Warn(string, string, map[string]interface{})  {}
func (noopLogger) Error(string, string, map[string]interface{}) {}
func (noopLogger) Sync() error                                  { return nil }

type fakeRetriever struct {
	results []retrieval.Result
	err     error
}

func (f *fakeRetriever) Retrieve(context.Context, string, int) ([]retrieval.Result, error) {
	return f.results, f.err
}

type fakeResponder struct {
	answer string
	err    error
}

func (f *fakeResponder) Respond(context.Context, responder.Request) (string, error) {
	return f.answer, f.err
}

type fakeConversationRepo struct {
	items map[uuid.UUID]*entity.Conversation
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{items: make(map[uuid.UUID]*entity.Conversation)}
}

func (f *fakeConversationRepo) Create(_ context.Context, c *entity.Conversation) error {
	stored := *c
	f.items[c.Id] = &stored
	return nil
}

func (f *fakeConversationRepo) Update(_ context.Context, c *entity.Conversation) error {
	stored := *c
	f.items[c.Id] = &stored
	return nil
}

func (f *fakeConversationRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.items, id)
	return nil
}

func (f *fakeConversationRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.Conversation, error) {
	for _, spec := range specs {
		if byID, ok := spec.(specification.ByID); ok {
			if c, found := f.items[byID.ID]; found {
				copied := *c
				return &copied, nil
			}
		}
	}
	return nil, nil
}

func (f *fakeConversationRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.Conversation, error) {
	var userID string
	for _, spec := range specs {
		if byUser, ok := spec.(specification.ByUserID); ok {
			userID = byUser.UserID
		}
	}
	var result []*entity.Conversation
	for _, c := range f.items {
		if userID == "" || c.UserId == userID {
			copied := *c
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (f *fakeConversationRepo) Count(_ context.Context, _ ...specification.Specification) (int64, error) {
	return int64(len(f.items)), nil
}

type fakeMessageRepo struct {
	items []*entity.ChatMessage
}

func (f *fakeMessageRepo) Create(_ context.Context, m *entity.ChatMessage) error {
	stored := *m
	f.items = append(f.items, &stored)
	return nil
}

func (f *fakeMessageRepo) Update(context.Context, *entity.ChatMessage) error { return nil }

func (f *fakeMessageRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, m := range f.items {
		if m.Id == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeMessageRepo) DeleteByConversationId(_ context.Context, conversationId uuid.UUID) error {
	var kept []*entity.ChatMessage
	for _, m := range f.items {
		if m.ConversationId != conversationId {
			kept = append(kept, m)
		}
	}
	f.items = kept
	return nil
}

func (f *fakeMessageRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.ChatMessage, error) {
	for _, spec := range specs {
		if byID, ok := spec.(specification.ByID); ok {
			for _, m := range f.items {
				if m.Id == byID.ID {
					copied := *m
					return &copied, nil
				}
			}
		}
	}
	return nil, nil
}

func (f *fakeMessageRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	conversationID := uuid.Nil
	for _, spec := range specs {
		if byConv, ok := spec.(specification.ByConversationID); ok {
			conversationID = byConv.ConversationID
		}
	}
	var result []*entity.ChatMessage
	for _, m := range f.items {
		if conversationID == uuid.Nil || m.ConversationId == conversationID {
			copied := *m
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (f *fakeMessageRepo) Count(_ context.Context, specs ...specification.Specification) (int64, error) {
	messages, _ := f.FindAll(context.Background(), specs...)
	return int64(len(messages)), nil
}

type fakeFeedbackRepo struct {
	items []*entity.Feedback
}

func (f *fakeFeedbackRepo) Create(_ context.Context, fb *entity.Feedback) error {
	stored := *fb
	f.items = append(f.items, &stored)
	return nil
}

func (f *fakeFeedbackRepo) FindAll(context.Context, ...specification.Specification) ([]*entity.Feedback, error) {
	return f.items, nil
}

func (f *fakeFeedbackRepo) Count(context.Context, ...specification.Specification) (int64, error) {
	return int64(len(f.items)), nil
}

type fakeUow struct {
	conversations *fakeConversationRepo
	messages      *fakeMessageRepo
	feedback      *fakeFeedbackRepo

	began     bool
	committed bool
}

func (u *fakeUow) Begin(context.Context) error { u.began = true; return nil }
func (u *fakeUow) Commit() error               { u.committed = true; return nil }
func (u *fakeUow) Rollback() error             { return nil }

func (u *fakeUow) ConversationRepository() contract.ConversationRepository { return u.conversations }
func (u *fakeUow) ChatMessageRepository() contract.ChatMessageRepository   { return u.messages }
func (u *fakeUow) FeedbackRepository() contract.FeedbackRepository         { return u.feedback }
func (u *fakeUow) KnowledgeRepository() contract.KnowledgeRepository       { return nil }

type fakeUowFactory struct {
	uow *fakeUow
}

func (f *fakeUowFactory) NewUnitOfWork(context.Context) unitofwork.UnitOfWork { return f.uow }

// ---------------------------------------------------------------------------

func newTestChatService(retr retrieval.Retriever, resp responder.Responder) (IChatService, *fakeUow) {
	uow := &fakeUow{
		conversations: newFakeConversationRepo(),
		messages:      &fakeMessageRepo{},
		feedback:      &fakeFeedbackRepo{},
	}
	svc := NewChatService(
		&fakeUowFactory{uow: uow},
		retr,
		resp,
		memory.NewConversationCache(),
		nil,
		noopLogger{},
		"en",
		3,
	)
	return svc, uow
}

func TestProcessMessageCreatesConversationAndTwoMessages(t *testing.T) {
	svc, uow := newTestChatService(
		&fakeRetriever{results: []retrieval.Result{
			{Chunk: &entity.KnowledgeChunk{Content: "Chest pain can be a sign of a heart attack."}, Score: 0.9},
		}},
		&fakeResponder{answer: "Please seek medical evaluation for chest pain."},
	)

	res, err := svc.ProcessMessage(context.Background(), ChatInput{
		Text:      "I have severe chest pain",
		UserId:    "user-1",
		SessionId: "sess-1",
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, res.ConversationId)
	assert.Equal(t, "Please seek medical evaluation for chest pain.", res.Response)
	require.NotNil(t, res.Emergency)
	assert.True(t, res.Emergency.IsEmergency)
	require.NotNil(t, res.Confidence)
	assert.NotEmpty(t, res.Confidence.Level)
	require.Len(t, res.Sources, 1)

	require.Len(t, uow.messages.items, 2)
	assert.Equal(t, constant.ChatMessageRoleUser, uow.messages.items[0].Role)
	assert.Equal(t, constant.ChatMessageRoleAssistant, uow.messages.items[1].Role)
	assert.True(t, uow.committed, "both messages must persist in one transaction")

	conversation := uow.conversations.items[res.ConversationId]
	require.NotNil(t, conversation)
	assert.Equal(t, "I have severe chest pain", conversation.Title)
}

func TestProcessMessageReusesExistingConversation(t *testing.T) {
	svc, uow := newTestChatService(&fakeRetriever{}, &fakeResponder{answer: "ok"})

	existing := &entity.Conversation{Id: uuid.New(), UserId: "user-1", Title: "Earlier chat"}
	require.NoError(t, uow.conversations.Create(context.Background(), existing))

	res, err := svc.ProcessMessage(context.Background(), ChatInput{
		Text:           "follow-up question about my medication",
		ConversationId: existing.Id,
		UserId:         "user-1",
	})
	require.NoError(t, err)
	assert.Equal(t, existing.Id, res.ConversationId)
	assert.Equal(t, "Earlier chat", uow.conversations.items[existing.Id].Title)
}

func TestProcessMessageUnknownConversation(t *testing.T) {
	svc, _ := newTestChatService(&fakeRetriever{}, &fakeResponder{answer: "ok"})

	_, err := svc.ProcessMessage(context.Background(), ChatInput{
		Text:           "hello",
		ConversationId: uuid.New(),
	})
	assert.ErrorIs(t, err, serverutils.ErrNotFound)
}

func TestProcessMessageDegradesWhenRetrievalFails(t *testing.T) {
	svc, uow := newTestChatService(
		&fakeRetriever{err: errors.New("index offline")},
		&fakeResponder{answer: "General guidance without sources."},
	)

	res, err := svc.ProcessMessage(context.Background(), ChatInput{Text: "mild headache"})
	require.NoError(t, err, "retrieval failure must not fail the message")
	assert.Empty(t, res.Sources)
	assert.Len(t, uow.messages.items, 2)
}

func TestProcessMessageDefaultsLanguage(t *testing.T) {
	svc, _ := newTestChatService(&fakeRetriever{}, &fakeResponder{answer: "ok"})

	res, err := svc.ProcessMessage(context.Background(), ChatInput{Text: "hello there"})
	require.NoError(t, err)
	assert.Equal(t, "en", res.Language)
}

func TestConversationTitleTruncation(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"short text kept", "chest pain", "chest pain"},
		{"long text truncated", "one two three four five six seven eight nine ten", "one two three four five six seven eight..."},
		{"empty text placeholder", "", constant.DefaultConversationTitle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, conversationTitle(tt.in))
		})
	}
}

func TestSubmitFeedbackRejectsMismatchedMessage(t *testing.T) {
	svc, uow := newTestChatService(&fakeRetriever{}, &fakeResponder{answer: "ok"})

	res, err := svc.ProcessMessage(context.Background(), ChatInput{Text: "hello", UserId: "user-1"})
	require.NoError(t, err)

	other := &entity.Conversation{Id: uuid.New(), UserId: "user-1"}
	require.NoError(t, uow.conversations.Create(context.Background(), other))

	_, err = svc.SubmitFeedback(context.Background(), &dto.FeedbackRequest{
		ConversationId: other.Id,
		MessageId:      res.MessageId,
		FeedbackType:   "helpful",
		Rating:         5,
	})
	assert.ErrorIs(t, err, serverutils.ErrNotFound,
		"a message from another conversation must be rejected")
}

func TestSubmitFeedbackStoresFeedback(t *testing.T) {
	svc, uow := newTestChatService(&fakeRetriever{}, &fakeResponder{answer: "ok"})

	res, err := svc.ProcessMessage(context.Background(), ChatInput{Text: "hello", UserId: "user-1"})
	require.NoError(t, err)

	fb, err := svc.SubmitFeedback(context.Background(), &dto.FeedbackRequest{
		ConversationId: res.ConversationId,
		MessageId:      res.MessageId,
		FeedbackType:   "helpful",
		Rating:         4,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, fb.Id)
	require.Len(t, uow.feedback.items, 1)
	assert.Equal(t, 4, uow.feedback.items[0].Rating)
}

func TestDeleteConversationRemovesMessages(t *testing.T) {
	svc, uow := newTestChatService(&fakeRetriever{}, &fakeResponder{answer: "ok"})

	res, err := svc.ProcessMessage(context.Background(), ChatInput{Text: "hello", UserId: "user-1"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteConversation(context.Background(), res.ConversationId))
	assert.Empty(t, uow.messages.items)
	assert.NotContains(t, uow.conversations.items, res.ConversationId)

	err = svc.DeleteConversation(context.Background(), res.ConversationId)
	assert.ErrorIs(t, err, serverutils.ErrNotFound)
}

func TestGetConversationReturnsOrderedHistory(t *testing.T) {
	svc, _ := newTestChatService(&fakeRetriever{}, &fakeResponder{answer: "ok"})

	res, err := svc.ProcessMessage(context.Background(), ChatInput{Text: "first question", UserId: "user-1"})
	require.NoError(t, err)

	history, err := svc.GetConversation(context.Background(), res.ConversationId)
	require.NoError(t, err)
	require.Len(t, history.Messages, 2)
	assert.Equal(t, constant.ChatMessageRoleUser, history.Messages[0].Role)
	assert.Equal(t, "first question", history.Messages[0].Content)
}

func TestAnalyzeReturnsAnnotationsOnly(t *testing.T) {
	svc, uow := newTestChatService(&fakeRetriever{}, &fakeResponder{answer: "ok"})

	res, err := svc.Analyze(context.Background(), &dto.AnalyzeRequest{Text: "I am worried about my headache"})
	require.NoError(t, err)

	require.NotNil(t, res.Emergency)
	require.NotNil(t, res.Emotion)
	assert.Equal(t, "anxiety", res.Emotion.PrimaryEmotion)
	assert.Contains(t, res.MedicalEntities["symptoms"], "headache")
	assert.Empty(t, uow.messages.items, "analyze must not persist anything")
}

func TestAnalyzeFiltersByAnalysisType(t *testing.T) {
	svc, _ := newTestChatService(&fakeRetriever{}, &fakeResponder{answer: "ok"})

	res, err := svc.Analyze(context.Background(), &dto.AnalyzeRequest{
		Text:         "I am worried about my headache",
		AnalysisType: "emotion",
	})
	require.NoError(t, err)

	assert.NotNil(t, res.Emotion)
	assert.Nil(t, res.Emergency)
	assert.Nil(t, res.MedicalEntities)
}

func TestLanguages(t *testing.T) {
	svc, _ := newTestChatService(&fakeRetriever{}, &fakeResponder{answer: "ok"})

	langs := svc.Languages()
	assert.Equal(t, "en", langs.Default)
	assert.Contains(t, langs.Languages, "en")
	assert.Contains(t, langs.Languages, "es")
}
