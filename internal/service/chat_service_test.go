package service

import (
	"context"
	"testing"

	"maskoff-server/internal/models"
	"maskoff-server/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChatRepo struct {
	chats    map[string]*models.Chat
	messages map[string]*models.ChatMessage
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{
		chats:    make(map[string]*models.Chat),
		messages: make(map[string]*models.ChatMessage),
	}
}

func (f *fakeChatRepo) Create(_ context.Context, chat *models.Chat) error {
	f.chats[chat.ID] = chat
	return nil
}

func (f *fakeChatRepo) FindByID(_ context.Context, id string) (*models.Chat, error) {
	c, ok := f.chats[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return c, nil
}

func (f *fakeChatRepo) FindDirect(_ context.Context, chatType, userA, userB string) (*models.Chat, error) {
	for _, c := range f.chats {
		if c.Type != chatType {
			continue
		}
		var hasA, hasB bool
		for _, p := range c.Participants {
			hasA = hasA || p.UserID == userA
			hasB = hasB || p.UserID == userB
		}
		if hasA && hasB {
			return c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeChatRepo) ListForUser(_ context.Context, userID string) ([]models.Chat, error) {
	var out []models.Chat
	for _, c := range f.chats {
		for _, p := range c.Participants {
			if p.UserID == userID {
				out = append(out, *c)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeChatRepo) Update(_ context.Context, chat *models.Chat) error {
	f.chats[chat.ID] = chat
	return nil
}

func (f *fakeChatRepo) Delete(_ context.Context, id string) error {
	delete(f.chats, id)
	for mid, m := range f.messages {
		if m.ChatID == id {
			delete(f.messages, mid)
		}
	}
	return nil
}

func (f *fakeChatRepo) ParticipantIDs(_ context.Context, chatID string) ([]string, error) {
	c, ok := f.chats[chatID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	ids := make([]string, 0, len(c.Participants))
	for _, p := range c.Participants {
		ids = append(ids, p.UserID)
	}
	return ids, nil
}

func (f *fakeChatRepo) CreateMessage(_ context.Context, msg *models.ChatMessage) error {
	f.messages[msg.ID] = msg
	return nil
}

func (f *fakeChatRepo) FindMessage(_ context.Context, id string) (*models.ChatMessage, error) {
	m, ok := f.messages[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return m, nil
}

func (f *fakeChatRepo) ListMessages(_ context.Context, chatID string) ([]models.ChatMessage, error) {
	var out []models.ChatMessage
	for _, m := range f.messages {
		if m.ChatID == chatID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeChatRepo) UpdateMessage(_ context.Context, msg *models.ChatMessage) error {
	f.messages[msg.ID] = msg
	return nil
}

func (f *fakeChatRepo) DeleteMessage(_ context.Context, id string) error {
	delete(f.messages, id)
	return nil
}

func chatFixture(t *testing.T) (ChatService, *fakeChatRepo, *fakeJobRepo) {
	t.Helper()
	chats := newFakeChatRepo()
	jobs := newFakeJobRepo()
	svc := NewChatService(chats, jobs, NewMessageCipher("test-secret"), nil)
	return svc, chats, jobs
}

func TestCreateOrGetIsIdempotent(t *testing.T) {
	svc, _, _ := chatFixture(t)

	first, err := svc.CreateOrGet(context.Background(), "u1", models.CreateChatRequest{RecipientID: "u2"})
	require.NoError(t, err)
	assert.Equal(t, models.ChatTypeGeneral, first.Type)

	// From either side, the same chat comes back.
	second, err := svc.CreateOrGet(context.Background(), "u2", models.CreateChatRequest{RecipientID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	_, err = svc.CreateOrGet(context.Background(), "u1", models.CreateChatRequest{RecipientID: "u1"})
	assert.ErrorIs(t, err, ErrSelfChat)
}

func TestJobChatCarriesTransactionBlock(t *testing.T) {
	svc, _, jobs := chatFixture(t)

	job := &models.Job{ID: "job1", UserID: "poster", Price: 750}
	require.NoError(t, jobs.Create(context.Background(), job))

	chat, err := svc.CreateOrGet(context.Background(), "worker", models.CreateChatRequest{
		RecipientID: "poster",
		ChatType:    models.ChatTypeJob,
		JobID:       "job1",
	})
	require.NoError(t, err)

	require.NotNil(t, chat.JobID)
	assert.Equal(t, "job1", *chat.JobID)
	require.NotNil(t, chat.ApplicantID)
	assert.Equal(t, "worker", *chat.ApplicantID, "the non-poster side is the applicant")
	assert.True(t, chat.ApplicantAnonymous)
	assert.Equal(t, int64(750), chat.OfferPrice)

	// A general chat between the same pair is a separate conversation.
	general, err := svc.CreateOrGet(context.Background(), "worker", models.CreateChatRequest{RecipientID: "poster"})
	require.NoError(t, err)
	assert.NotEqual(t, chat.ID, general.ID)
}

func TestMessagesAreEncryptedAtRest(t *testing.T) {
	svc, chats, _ := chatFixture(t)

	chat, msg, err := svc.SendMessage(context.Background(), "u1", models.SendMessageRequest{
		RecipientID: "u2",
		Text:        "meet at noon",
	})
	require.NoError(t, err)
	assert.Equal(t, "meet at noon", msg.Message)

	stored := chats.messages[msg.MessageID]
	require.NotNil(t, stored)
	assert.NotContains(t, stored.Ciphertext, "meet at noon")
	assert.NotEmpty(t, stored.IV)

	history, err := svc.ListMessages(context.Background(), "u2", chat.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "meet at noon", history[0].Message)
}

func TestMessageOwnership(t *testing.T) {
	svc, _, _ := chatFixture(t)

	chat, msg, err := svc.SendMessage(context.Background(), "u1", models.SendMessageRequest{
		RecipientID: "u2",
		Text:        "original",
	})
	require.NoError(t, err)

	_, err = svc.EditMessage(context.Background(), "u2", chat.ID, msg.MessageID, "forged")
	assert.ErrorIs(t, err, ErrNotSender)

	edited, err := svc.EditMessage(context.Background(), "u1", chat.ID, msg.MessageID, "corrected")
	require.NoError(t, err)
	assert.Equal(t, "corrected", edited.Message)

	assert.ErrorIs(t, svc.DeleteMessage(context.Background(), "u2", chat.ID, msg.MessageID), ErrNotSender)
	require.NoError(t, svc.DeleteMessage(context.Background(), "u1", chat.ID, msg.MessageID))
}

func TestChatAccessControl(t *testing.T) {
	svc, _, _ := chatFixture(t)

	chat, _, err := svc.SendMessage(context.Background(), "u1", models.SendMessageRequest{
		RecipientID: "u2",
		Text:        "private",
	})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), "outsider", chat.ID)
	assert.ErrorIs(t, err, ErrNotParticipant)

	_, err = svc.ListMessages(context.Background(), "outsider", chat.ID)
	assert.ErrorIs(t, err, ErrNotParticipant)
}

func TestUpdateJobChat(t *testing.T) {
	svc, _, jobs := chatFixture(t)

	require.NoError(t, jobs.Create(context.Background(), &models.Job{ID: "job1", UserID: "poster", Price: 100}))
	chat, err := svc.CreateOrGet(context.Background(), "worker", models.CreateChatRequest{
		RecipientID: "poster", ChatType: models.ChatTypeJob, JobID: "job1",
	})
	require.NoError(t, err)

	reveal := true
	offer := int64(250)
	updated, err := svc.UpdateJobChat(context.Background(), "worker", chat.ID, models.UpdateJobChatRequest{
		RevealIdentity: &reveal,
		OfferPrice:     &offer,
		Status:         models.ApplicationAccepted,
	})
	require.NoError(t, err)

	assert.True(t, updated.RevealIdentity)
	assert.False(t, updated.ApplicantAnonymous)
	assert.Equal(t, int64(250), updated.OfferPrice)
	assert.Equal(t, models.ApplicationAccepted, updated.Status)

	general, err := svc.CreateOrGet(context.Background(), "u1", models.CreateChatRequest{RecipientID: "u2"})
	require.NoError(t, err)
	_, err = svc.UpdateJobChat(context.Background(), "u1", general.ID, models.UpdateJobChatRequest{Status: "x"})
	assert.ErrorIs(t, err, ErrNotJobChat)
}
