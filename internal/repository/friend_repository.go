package repository

import (
	"context"
	"errors"

	"maskoff-server/internal/models"

	"gorm.io/gorm"
)

type FriendRepository interface {
	CreateRequest(ctx context.Context, req *models.FriendRequest) error
	FindRequest(ctx context.Context, senderID, recipientID string) (*models.FriendRequest, error)
	DeleteRequest(ctx context.Context, id string) error
	ListIncomingRequests(ctx context.Context, userID string) ([]models.FriendRequest, error)
	CreateFriendship(ctx context.Context, f *models.Friendship) error
	DeleteFriendship(ctx context.Context, userID, friendID string) error
	AreFriends(ctx context.Context, userID, friendID string) (bool, error)
	ListFriends(ctx context.Context, userID string) ([]models.User, error)
}

type friendRepository struct {
	db *gorm.DB
}

func NewFriendRepository(db *gorm.DB) FriendRepository {
	return &friendRepository{db: db}
}

func (r *friendRepository) CreateRequest(ctx context.Context, req *models.FriendRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *friendRepository) FindRequest(ctx context.Context, senderID, recipientID string) (*models.FriendRequest, error) {
	var req models.FriendRequest
	err := r.db.WithContext(ctx).
		First(&req, "sender_id = ? AND recipient_id = ?", senderID, recipientID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *friendRepository) DeleteRequest(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.FriendRequest{}, "id = ?", id).Error
}

func (r *friendRepository) ListIncomingRequests(ctx context.Context, userID string) ([]models.FriendRequest, error) {
	var reqs []models.FriendRequest
	err := r.db.WithContext(ctx).
		Preload("Sender").
		Where("recipient_id = ?", userID).
		Order("created_at DESC").
		Find(&reqs).Error
	return reqs, err
}

func (r *friendRepository) CreateFriendship(ctx context.Context, f *models.Friendship) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *friendRepository) DeleteFriendship(ctx context.Context, userID, friendID string) error {
	return r.db.WithContext(ctx).
		Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)",
			userID, friendID, friendID, userID).
		Delete(&models.Friendship{}).Error
}

func (r *friendRepository) AreFriends(ctx context.Context, userID, friendID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Friendship{}).
		Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)",
			userID, friendID, friendID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *friendRepository) ListFriends(ctx context.Context, userID string) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Joins("JOIN friendships ON (friendships.user_id = users.id AND friendships.friend_id = ?) OR (friendships.friend_id = users.id AND friendships.user_id = ?)",
			userID, userID).
		Find(&users).Error
	return users, err
}
