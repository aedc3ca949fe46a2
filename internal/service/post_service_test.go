package service

import (
	"context"
	"testing"

	"maskoff-server/internal/models"
	"maskoff-server/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePostRepo struct {
	posts    map[string]*models.Post
	comments map[string]*models.Comment
	votes    map[string]*models.PostVote // keyed postID+"/"+userID
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{
		posts:    make(map[string]*models.Post),
		comments: make(map[string]*models.Comment),
		votes:    make(map[string]*models.PostVote),
	}
}

func (f *fakePostRepo) Create(_ context.Context, post *models.Post) error {
	f.posts[post.ID] = post
	return nil
}

func (f *fakePostRepo) FindByID(_ context.Context, id string) (*models.Post, error) {
	p, ok := f.posts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

func (f *fakePostRepo) List(_ context.Context) ([]models.Post, error) {
	out := make([]models.Post, 0, len(f.posts))
	for _, p := range f.posts {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakePostRepo) Update(_ context.Context, post *models.Post) error {
	f.posts[post.ID] = post
	return nil
}

func (f *fakePostRepo) Delete(_ context.Context, id string) error {
	delete(f.posts, id)
	return nil
}

func (f *fakePostRepo) CreateComment(_ context.Context, c *models.Comment) error {
	f.comments[c.ID] = c
	return nil
}

func (f *fakePostRepo) FindComment(_ context.Context, id string) (*models.Comment, error) {
	c, ok := f.comments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return c, nil
}

func (f *fakePostRepo) DeleteComment(_ context.Context, id string) error {
	delete(f.comments, id)
	return nil
}

func (f *fakePostRepo) FindVote(_ context.Context, postID, userID string) (*models.PostVote, error) {
	v, ok := f.votes[postID+"/"+userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return v, nil
}

func (f *fakePostRepo) UpsertVote(_ context.Context, v *models.PostVote) error {
	f.votes[v.PostID+"/"+v.UserID] = v
	return nil
}

func (f *fakePostRepo) DeleteVote(_ context.Context, postID, userID string) error {
	delete(f.votes, postID+"/"+userID)
	return nil
}

func (f *fakePostRepo) CountVotes(_ context.Context, postID string) (int, int, error) {
	var up, down int
	for _, v := range f.votes {
		if v.PostID != postID {
			continue
		}
		if v.Value == 1 {
			up++
		} else {
			down++
		}
	}
	return up, down, nil
}

func postFixture(t *testing.T) PostService {
	t.Helper()
	users := newFakeUserRepo()
	users.users["u1"] = &models.User{ID: "u1", Username: "alice"}
	users.profiles["u1"] = &models.Profile{UserID: "u1", MaskID: "mask-owl"}
	users.users["u2"] = &models.User{ID: "u2", Username: "bob"}
	users.profiles["u2"] = &models.Profile{UserID: "u2", MaskID: "mask-fox"}
	return NewPostService(newFakePostRepo(), users, nil)
}

func TestCreatePostAuthorResolution(t *testing.T) {
	svc := postFixture(t)

	named, err := svc.Create(context.Background(), "u1", models.CreatePostRequest{Content: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "alice", named.Author)

	masked, err := svc.Create(context.Background(), "u1", models.CreatePostRequest{Content: "secret", IsAnonymous: true})
	require.NoError(t, err)
	assert.Equal(t, "mask-owl", masked.Author)
}

func TestVoteToggle(t *testing.T) {
	svc := postFixture(t)

	post, err := svc.Create(context.Background(), "u1", models.CreatePostRequest{Content: "vote on me"})
	require.NoError(t, err)

	got, err := svc.Upvote(context.Background(), "u2", post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Upvotes)
	assert.Equal(t, 0, got.Downvotes)

	// Same direction again removes the vote.
	got, err = svc.Upvote(context.Background(), "u2", post.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Upvotes)

	// Opposite direction replaces.
	_, err = svc.Upvote(context.Background(), "u2", post.ID)
	require.NoError(t, err)
	got, err = svc.Downvote(context.Background(), "u2", post.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Upvotes)
	assert.Equal(t, 1, got.Downvotes)
}

func TestVotesAreCountedPerUser(t *testing.T) {
	svc := postFixture(t)

	post, err := svc.Create(context.Background(), "u1", models.CreatePostRequest{Content: "popular"})
	require.NoError(t, err)

	_, err = svc.Upvote(context.Background(), "u1", post.ID)
	require.NoError(t, err)
	got, err := svc.Upvote(context.Background(), "u2", post.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Upvotes)
}

func TestUpdatePostOwnership(t *testing.T) {
	svc := postFixture(t)

	post, err := svc.Create(context.Background(), "u1", models.CreatePostRequest{Content: "mine"})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), "u2", post.ID, models.UpdatePostRequest{Content: "hijacked"})
	assert.ErrorIs(t, err, ErrNotPostOwner)

	updated, err := svc.Update(context.Background(), "u1", post.ID, models.UpdatePostRequest{Content: "edited"})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)
}

func TestTogglingAnonymityRewritesAuthor(t *testing.T) {
	svc := postFixture(t)

	post, err := svc.Create(context.Background(), "u1", models.CreatePostRequest{Content: "hello"})
	require.NoError(t, err)
	require.Equal(t, "alice", post.Author)

	anon := true
	updated, err := svc.Update(context.Background(), "u1", post.ID, models.UpdatePostRequest{IsAnonymous: &anon})
	require.NoError(t, err)
	assert.Equal(t, "mask-owl", updated.Author)
}

func TestDeleteComment(t *testing.T) {
	svc := postFixture(t)

	post, err := svc.Create(context.Background(), "u1", models.CreatePostRequest{Content: "discuss"})
	require.NoError(t, err)

	comment, err := svc.AddComment(context.Background(), "u2", post.ID, models.CreateCommentRequest{Content: "nice"})
	require.NoError(t, err)

	err = svc.DeleteComment(context.Background(), "u1", post.ID, comment.ID)
	assert.ErrorIs(t, err, ErrNotCommentOwner)

	require.NoError(t, svc.DeleteComment(context.Background(), "u2", post.ID, comment.ID))
	err = svc.DeleteComment(context.Background(), "u2", post.ID, comment.ID)
	assert.ErrorIs(t, err, ErrCommentNotFound)
}
