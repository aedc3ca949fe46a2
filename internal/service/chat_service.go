package service

import (
	"context"
	"errors"
	"log/slog"

	"maskoff-server/internal/adapters/kafka"
	"maskoff-server/internal/models"
	"maskoff-server/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrChatNotFound    = errors.New("chat not found")
	ErrMessageNotFound = errors.New("message not found")
	ErrNotParticipant  = errors.New("not a chat participant")
	ErrNotSender       = errors.New("not the message sender")
	ErrSelfChat        = errors.New("cannot chat with yourself")
	ErrBadChatType     = errors.New("invalid chat type")
	ErrNotJobChat      = errors.New("not a job chat")
)

type ChatService interface {
	CreateOrGet(ctx context.Context, userID string, req models.CreateChatRequest) (*models.Chat, error)
	Get(ctx context.Context, userID, chatID string) (*models.Chat, error)
	ListForUser(ctx context.Context, userID string) ([]models.Chat, error)
	Delete(ctx context.Context, userID, chatID string) error
	ParticipantIDs(ctx context.Context, chatID string) ([]string, error)
	SendMessage(ctx context.Context, userID string, req models.SendMessageRequest) (*models.Chat, *models.DecryptedMessage, error)
	ListMessages(ctx context.Context, userID, chatID string) ([]models.DecryptedMessage, error)
	EditMessage(ctx context.Context, userID, chatID, messageID, newText string) (*models.DecryptedMessage, error)
	DeleteMessage(ctx context.Context, userID, chatID, messageID string) error
	UpdateJobChat(ctx context.Context, userID, chatID string, req models.UpdateJobChatRequest) (*models.Chat, error)
}

type chatService struct {
	chats    repository.ChatRepository
	jobs     repository.JobRepository
	cipher   *MessageCipher
	activity *kafka.ActivityPublisher
}

func NewChatService(chats repository.ChatRepository, jobs repository.JobRepository, cipher *MessageCipher, activity *kafka.ActivityPublisher) ChatService {
	return &chatService{chats: chats, jobs: jobs, cipher: cipher, activity: activity}
}

// CreateOrGet returns the existing direct chat of the requested type between
// the two users, creating it when absent. Job chats start with the applicant
// masked and carry the job's price as the opening offer.
func (s *chatService) CreateOrGet(ctx context.Context, userID string, req models.CreateChatRequest) (*models.Chat, error) {
	if req.RecipientID == userID {
		return nil, ErrSelfChat
	}

	chatType := req.ChatType
	if chatType == "" {
		chatType = models.ChatTypeGeneral
	}
	if chatType != models.ChatTypeGeneral && chatType != models.ChatTypeJob {
		return nil, ErrBadChatType
	}

	existing, err := s.chats.FindDirect(ctx, chatType, userID, req.RecipientID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	chat := &models.Chat{
		ID:   uuid.New().String(),
		Type: chatType,
		Participants: []models.ChatParticipant{
			{UserID: userID},
			{UserID: req.RecipientID},
		},
	}

	if chatType == models.ChatTypeJob {
		job, err := s.jobs.FindByID(ctx, req.JobID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrJobNotFound
			}
			return nil, err
		}
		applicant := userID
		if job.UserID == userID {
			applicant = req.RecipientID
		}
		chat.JobID = &job.ID
		chat.ApplicantID = &applicant
		chat.ApplicantAnonymous = true
		chat.Status = models.ApplicationPending
		chat.OfferPrice = job.Price
	}

	if err := s.chats.Create(ctx, chat); err != nil {
		return nil, err
	}
	return chat, nil
}

func (s *chatService) Get(ctx context.Context, userID, chatID string) (*models.Chat, error) {
	chat, err := s.chats.FindByID(ctx, chatID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrChatNotFound
		}
		return nil, err
	}
	if !participates(chat, userID) {
		return nil, ErrNotParticipant
	}
	return chat, nil
}

func (s *chatService) ListForUser(ctx context.Context, userID string) ([]models.Chat, error) {
	return s.chats.ListForUser(ctx, userID)
}

func (s *chatService) Delete(ctx context.Context, userID, chatID string) error {
	if _, err := s.Get(ctx, userID, chatID); err != nil {
		return err
	}
	return s.chats.Delete(ctx, chatID)
}

func (s *chatService) ParticipantIDs(ctx context.Context, chatID string) ([]string, error) {
	return s.chats.ParticipantIDs(ctx, chatID)
}

// SendMessage stores an encrypted message, creating the chat first when the
// request names a recipient instead of an existing chat.
func (s *chatService) SendMessage(ctx context.Context, userID string, req models.SendMessageRequest) (*models.Chat, *models.DecryptedMessage, error) {
	var chat *models.Chat
	var err error

	if req.ChatID != "" {
		chat, err = s.Get(ctx, userID, req.ChatID)
	} else {
		chat, err = s.CreateOrGet(ctx, userID, models.CreateChatRequest{
			RecipientID: req.RecipientID,
			ChatType:    req.ChatType,
			JobID:       req.JobID,
		})
	}
	if err != nil {
		return nil, nil, err
	}

	recipient := ""
	for _, p := range chat.Participants {
		if p.UserID != userID {
			recipient = p.UserID
			break
		}
	}

	ciphertext, iv, err := s.cipher.Encrypt(req.Text)
	if err != nil {
		return nil, nil, err
	}

	msg := &models.ChatMessage{
		ID:          uuid.New().String(),
		ChatID:      chat.ID,
		SenderID:    userID,
		RecipientID: recipient,
		Ciphertext:  ciphertext,
		IV:          iv,
	}
	if err := s.chats.CreateMessage(ctx, msg); err != nil {
		return nil, nil, err
	}

	// Bump the chat's updated_at so listings sort by recency.
	if err := s.chats.Update(ctx, chat); err != nil {
		slog.Warn("Failed to touch chat timestamp", "chatID", chat.ID, "error", err)
	}

	s.activity.Publish(ctx, "chat.message", userID, chat.ID)
	return chat, &models.DecryptedMessage{
		MessageID: msg.ID,
		Sender:    msg.SenderID,
		Recipient: msg.RecipientID,
		Message:   req.Text,
		Timestamp: msg.CreatedAt,
	}, nil
}

func (s *chatService) ListMessages(ctx context.Context, userID, chatID string) ([]models.DecryptedMessage, error) {
	if _, err := s.Get(ctx, userID, chatID); err != nil {
		return nil, err
	}

	msgs, err := s.chats.ListMessages(ctx, chatID)
	if err != nil {
		return nil, err
	}

	out := make([]models.DecryptedMessage, 0, len(msgs))
	for _, m := range msgs {
		text, err := s.cipher.Decrypt(m.Ciphertext, m.IV)
		if err != nil {
			// Skip rather than fail the whole history.
			slog.Error("Failed to decrypt message", "messageID", m.ID, "error", err)
			continue
		}
		out = append(out, models.DecryptedMessage{
			MessageID: m.ID,
			Sender:    m.SenderID,
			Recipient: m.RecipientID,
			Message:   text,
			Timestamp: m.CreatedAt,
		})
	}
	return out, nil
}

func (s *chatService) EditMessage(ctx context.Context, userID, chatID, messageID, newText string) (*models.DecryptedMessage, error) {
	msg, err := s.ownMessage(ctx, userID, chatID, messageID)
	if err != nil {
		return nil, err
	}

	ciphertext, iv, err := s.cipher.Encrypt(newText)
	if err != nil {
		return nil, err
	}
	msg.Ciphertext = ciphertext
	msg.IV = iv
	if err := s.chats.UpdateMessage(ctx, msg); err != nil {
		return nil, err
	}

	return &models.DecryptedMessage{
		MessageID: msg.ID,
		Sender:    msg.SenderID,
		Recipient: msg.RecipientID,
		Message:   newText,
		Timestamp: msg.CreatedAt,
	}, nil
}

func (s *chatService) DeleteMessage(ctx context.Context, userID, chatID, messageID string) error {
	if _, err := s.ownMessage(ctx, userID, chatID, messageID); err != nil {
		return err
	}
	return s.chats.DeleteMessage(ctx, messageID)
}

// UpdateJobChat mutates the transaction block on a job chat. Either
// participant may update it; revealing an identity is one way.
func (s *chatService) UpdateJobChat(ctx context.Context, userID, chatID string, req models.UpdateJobChatRequest) (*models.Chat, error) {
	chat, err := s.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}
	if chat.Type != models.ChatTypeJob {
		return nil, ErrNotJobChat
	}

	if req.RevealIdentity != nil && *req.RevealIdentity {
		chat.RevealIdentity = true
		chat.ApplicantAnonymous = false
	}
	if req.Status != "" {
		chat.Status = req.Status
	}
	if req.OfferPrice != nil {
		chat.OfferPrice = *req.OfferPrice
	}

	if err := s.chats.Update(ctx, chat); err != nil {
		return nil, err
	}
	return chat, nil
}

func (s *chatService) ownMessage(ctx context.Context, userID, chatID, messageID string) (*models.ChatMessage, error) {
	if _, err := s.Get(ctx, userID, chatID); err != nil {
		return nil, err
	}

	msg, err := s.chats.FindMessage(ctx, messageID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	if msg.ChatID != chatID {
		return nil, ErrMessageNotFound
	}
	if msg.SenderID != userID {
		return nil, ErrNotSender
	}
	return msg, nil
}

func participates(chat *models.Chat, userID string) bool {
	for _, p := range chat.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}
