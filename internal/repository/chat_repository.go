package repository

import (
	"context"
	"errors"

	"maskoff-server/internal/models"

	"gorm.io/gorm"
)

type ChatRepository interface {
	Create(ctx context.Context, chat *models.Chat) error
	FindByID(ctx context.Context, id string) (*models.Chat, error)
	FindDirect(ctx context.Context, chatType, userA, userB string) (*models.Chat, error)
	ListForUser(ctx context.Context, userID string) ([]models.Chat, error)
	Update(ctx context.Context, chat *models.Chat) error
	Delete(ctx context.Context, id string) error
	ParticipantIDs(ctx context.Context, chatID string) ([]string, error)
	CreateMessage(ctx context.Context, msg *models.ChatMessage) error
	FindMessage(ctx context.Context, id string) (*models.ChatMessage, error)
	ListMessages(ctx context.Context, chatID string) ([]models.ChatMessage, error)
	UpdateMessage(ctx context.Context, msg *models.ChatMessage) error
	DeleteMessage(ctx context.Context, id string) error
}

type chatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) Create(ctx context.Context, chat *models.Chat) error {
	return r.db.WithContext(ctx).Create(chat).Error
}

func (r *chatRepository) FindByID(ctx context.Context, id string) (*models.Chat, error) {
	var chat models.Chat
	err := r.db.WithContext(ctx).Preload("Participants").First(&chat, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &chat, nil
}

// FindDirect locates the existing chat of the given type whose participant set
// is exactly {userA, userB}.
func (r *chatRepository) FindDirect(ctx context.Context, chatType, userA, userB string) (*models.Chat, error) {
	var chat models.Chat
	err := r.db.WithContext(ctx).
		Preload("Participants").
		Joins("JOIN chat_participants cp1 ON cp1.chat_id = chats.id AND cp1.user_id = ?", userA).
		Joins("JOIN chat_participants cp2 ON cp2.chat_id = chats.id AND cp2.user_id = ?", userB).
		Where("chats.type = ?", chatType).
		First(&chat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &chat, nil
}

func (r *chatRepository) ListForUser(ctx context.Context, userID string) ([]models.Chat, error) {
	var chats []models.Chat
	err := r.db.WithContext(ctx).
		Preload("Participants").
		Joins("JOIN chat_participants cp ON cp.chat_id = chats.id AND cp.user_id = ?", userID).
		Order("chats.updated_at DESC").
		Find(&chats).Error
	return chats, err
}

func (r *chatRepository) Update(ctx context.Context, chat *models.Chat) error {
	return r.db.WithContext(ctx).Save(chat).Error
}

func (r *chatRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.ChatMessage{}, "chat_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.ChatParticipant{}, "chat_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Chat{}, "id = ?", id).Error
	})
}

func (r *chatRepository) ParticipantIDs(ctx context.Context, chatID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&models.ChatParticipant{}).
		Where("chat_id = ?", chatID).
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *chatRepository) CreateMessage(ctx context.Context, msg *models.ChatMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *chatRepository) FindMessage(ctx context.Context, id string) (*models.ChatMessage, error) {
	var msg models.ChatMessage
	err := r.db.WithContext(ctx).First(&msg, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &msg, nil
}

func (r *chatRepository) ListMessages(ctx context.Context, chatID string) ([]models.ChatMessage, error) {
	var msgs []models.ChatMessage
	err := r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("created_at ASC").
		Find(&msgs).Error
	return msgs, err
}

func (r *chatRepository) UpdateMessage(ctx context.Context, msg *models.ChatMessage) error {
	return r.db.WithContext(ctx).Save(msg).Error
}

func (r *chatRepository) DeleteMessage(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.ChatMessage{}, "id = ?", id).Error
}
