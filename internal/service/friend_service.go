package service

import (
	"context"
	"errors"
	"fmt"

	"maskoff-server/internal/models"
	"maskoff-server/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrSelfFriend       = errors.New("cannot befriend yourself")
	ErrAlreadyFriends   = errors.New("already friends")
	ErrRequestExists    = errors.New("friend request already sent")
	ErrRequestNotFound  = errors.New("friend request not found")
	ErrNotFriends       = errors.New("not friends")
	ErrFriendUserAbsent = errors.New("user not found")
)

type FriendService interface {
	SendRequest(ctx context.Context, senderID, recipientID string) error
	AcceptRequest(ctx context.Context, userID, senderID string) error
	RejectRequest(ctx context.Context, userID, senderID string) error
	RemoveFriend(ctx context.Context, userID, friendID string) error
	ListFriends(ctx context.Context, userID string) ([]models.FriendInfo, error)
	ListRequests(ctx context.Context, userID string) ([]models.FriendInfo, error)
	AreFriends(ctx context.Context, userID, friendID string) (bool, error)
}

type friendService struct {
	friends repository.FriendRepository
	users   repository.UserRepository
}

func NewFriendService(friends repository.FriendRepository, users repository.UserRepository) FriendService {
	return &friendService{friends: friends, users: users}
}

func (s *friendService) SendRequest(ctx context.Context, senderID, recipientID string) error {
	if senderID == recipientID {
		return ErrSelfFriend
	}
	if _, err := s.users.FindByID(ctx, recipientID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrFriendUserAbsent
		}
		return err
	}

	already, err := s.friends.AreFriends(ctx, senderID, recipientID)
	if err != nil {
		return err
	}
	if already {
		return ErrAlreadyFriends
	}

	if _, err := s.friends.FindRequest(ctx, senderID, recipientID); err == nil {
		return ErrRequestExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	// A pending request in the opposite direction counts as mutual consent.
	if reverse, err := s.friends.FindRequest(ctx, recipientID, senderID); err == nil {
		return s.acceptExisting(ctx, reverse)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	return s.friends.CreateRequest(ctx, &models.FriendRequest{
		ID:          uuid.New().String(),
		SenderID:    senderID,
		RecipientID: recipientID,
	})
}

func (s *friendService) AcceptRequest(ctx context.Context, userID, senderID string) error {
	req, err := s.friends.FindRequest(ctx, senderID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRequestNotFound
		}
		return err
	}
	return s.acceptExisting(ctx, req)
}

func (s *friendService) acceptExisting(ctx context.Context, req *models.FriendRequest) error {
	err := s.friends.CreateFriendship(ctx, &models.Friendship{
		ID:       uuid.New().String(),
		UserID:   req.SenderID,
		FriendID: req.RecipientID,
	})
	if err != nil {
		return fmt.Errorf("create friendship: %w", err)
	}
	return s.friends.DeleteRequest(ctx, req.ID)
}

func (s *friendService) RejectRequest(ctx context.Context, userID, senderID string) error {
	req, err := s.friends.FindRequest(ctx, senderID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRequestNotFound
		}
		return err
	}
	return s.friends.DeleteRequest(ctx, req.ID)
}

func (s *friendService) RemoveFriend(ctx context.Context, userID, friendID string) error {
	friends, err := s.friends.AreFriends(ctx, userID, friendID)
	if err != nil {
		return err
	}
	if !friends {
		return ErrNotFriends
	}
	return s.friends.DeleteFriendship(ctx, userID, friendID)
}

func (s *friendService) ListFriends(ctx context.Context, userID string) ([]models.FriendInfo, error) {
	users, err := s.friends.ListFriends(ctx, userID)
	if err != nil {
		return nil, err
	}
	infos := make([]models.FriendInfo, 0, len(users))
	for _, u := range users {
		infos = append(infos, models.FriendInfo{UserID: u.ID, Username: u.Username})
	}
	return infos, nil
}

func (s *friendService) ListRequests(ctx context.Context, userID string) ([]models.FriendInfo, error) {
	reqs, err := s.friends.ListIncomingRequests(ctx, userID)
	if err != nil {
		return nil, err
	}
	infos := make([]models.FriendInfo, 0, len(reqs))
	for _, r := range reqs {
		infos = append(infos, models.FriendInfo{UserID: r.SenderID, Username: r.Sender.Username})
	}
	return infos, nil
}

func (s *friendService) AreFriends(ctx context.Context, userID, friendID string) (bool, error) {
	return s.friends.AreFriends(ctx, userID, friendID)
}
