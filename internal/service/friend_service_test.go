package service

import (
	"context"
	"testing"

	"maskoff-server/internal/models"
	"maskoff-server/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFriendRepo struct {
	requests    map[string]*models.FriendRequest
	friendships []*models.Friendship
}

func newFakeFriendRepo() *fakeFriendRepo {
	return &fakeFriendRepo{requests: make(map[string]*models.FriendRequest)}
}

func (f *fakeFriendRepo) CreateRequest(_ context.Context, req *models.FriendRequest) error {
	f.requests[req.ID] = req
	return nil
}

func (f *fakeFriendRepo) FindRequest(_ context.Context, senderID, recipientID string) (*models.FriendRequest, error) {
	for _, r := range f.requests {
		if r.SenderID == senderID && r.RecipientID == recipientID {
			return r, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeFriendRepo) DeleteRequest(_ context.Context, id string) error {
	delete(f.requests, id)
	return nil
}

func (f *fakeFriendRepo) ListIncomingRequests(_ context.Context, userID string) ([]models.FriendRequest, error) {
	var out []models.FriendRequest
	for _, r := range f.requests {
		if r.RecipientID == userID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeFriendRepo) CreateFriendship(_ context.Context, fr *models.Friendship) error {
	f.friendships = append(f.friendships, fr)
	return nil
}

func (f *fakeFriendRepo) DeleteFriendship(_ context.Context, userID, friendID string) error {
	kept := f.friendships[:0]
	for _, fr := range f.friendships {
		if (fr.UserID == userID && fr.FriendID == friendID) || (fr.UserID == friendID && fr.FriendID == userID) {
			continue
		}
		kept = append(kept, fr)
	}
	f.friendships = kept
	return nil
}

func (f *fakeFriendRepo) AreFriends(_ context.Context, userID, friendID string) (bool, error) {
	for _, fr := range f.friendships {
		if (fr.UserID == userID && fr.FriendID == friendID) || (fr.UserID == friendID && fr.FriendID == userID) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeFriendRepo) ListFriends(_ context.Context, userID string) ([]models.User, error) {
	var out []models.User
	for _, fr := range f.friendships {
		switch userID {
		case fr.UserID:
			out = append(out, models.User{ID: fr.FriendID})
		case fr.FriendID:
			out = append(out, models.User{ID: fr.UserID})
		}
	}
	return out, nil
}

func friendFixture(t *testing.T) (FriendService, *fakeFriendRepo) {
	t.Helper()
	users := newFakeUserRepo()
	for _, id := range []string{"u1", "u2", "u3"} {
		users.users[id] = &models.User{ID: id, Username: "user-" + id}
	}
	repo := newFakeFriendRepo()
	return NewFriendService(repo, users), repo
}

func TestSendFriendRequest(t *testing.T) {
	svc, repo := friendFixture(t)

	require.NoError(t, svc.SendRequest(context.Background(), "u1", "u2"))
	assert.Len(t, repo.requests, 1)

	assert.ErrorIs(t, svc.SendRequest(context.Background(), "u1", "u2"), ErrRequestExists)
	assert.ErrorIs(t, svc.SendRequest(context.Background(), "u1", "u1"), ErrSelfFriend)
	assert.ErrorIs(t, svc.SendRequest(context.Background(), "u1", "ghost"), ErrFriendUserAbsent)
}

func TestAcceptFriendRequest(t *testing.T) {
	svc, repo := friendFixture(t)

	require.NoError(t, svc.SendRequest(context.Background(), "u1", "u2"))
	require.NoError(t, svc.AcceptRequest(context.Background(), "u2", "u1"))

	ok, err := svc.AreFriends(context.Background(), "u1", "u2")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, repo.requests, "request consumed on accept")

	assert.ErrorIs(t, svc.SendRequest(context.Background(), "u1", "u2"), ErrAlreadyFriends)
}

func TestCrossingRequestsBecomeFriendship(t *testing.T) {
	svc, repo := friendFixture(t)

	require.NoError(t, svc.SendRequest(context.Background(), "u1", "u2"))
	// The reverse request counts as acceptance.
	require.NoError(t, svc.SendRequest(context.Background(), "u2", "u1"))

	ok, err := svc.AreFriends(context.Background(), "u1", "u2")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, repo.requests)
}

func TestRejectFriendRequest(t *testing.T) {
	svc, _ := friendFixture(t)

	require.NoError(t, svc.SendRequest(context.Background(), "u1", "u2"))
	require.NoError(t, svc.RejectRequest(context.Background(), "u2", "u1"))

	ok, err := svc.AreFriends(context.Background(), "u1", "u2")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, svc.RejectRequest(context.Background(), "u2", "u1"), ErrRequestNotFound)
}

func TestRemoveFriend(t *testing.T) {
	svc, _ := friendFixture(t)

	require.NoError(t, svc.SendRequest(context.Background(), "u1", "u2"))
	require.NoError(t, svc.AcceptRequest(context.Background(), "u2", "u1"))
	require.NoError(t, svc.RemoveFriend(context.Background(), "u2", "u1"))

	ok, err := svc.AreFriends(context.Background(), "u1", "u2")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, svc.RemoveFriend(context.Background(), "u1", "u3"), ErrNotFriends)
}
