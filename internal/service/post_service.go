package service

import (
	"context"
	"errors"

	"maskoff-server/internal/adapters/kafka"
	"maskoff-server/internal/models"
	"maskoff-server/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrNotPostOwner    = errors.New("not the post owner")
	ErrNotCommentOwner = errors.New("not the comment owner")
)

type PostService interface {
	Create(ctx context.Context, userID string, req models.CreatePostRequest) (*models.PublicPost, error)
	Get(ctx context.Context, id string) (*models.PublicPost, error)
	List(ctx context.Context) ([]models.PublicPost, error)
	Update(ctx context.Context, userID, postID string, req models.UpdatePostRequest) (*models.PublicPost, error)
	Delete(ctx context.Context, userID, postID string) error
	AddComment(ctx context.Context, userID, postID string, req models.CreateCommentRequest) (*models.Comment, error)
	DeleteComment(ctx context.Context, userID, postID, commentID string) error
	Upvote(ctx context.Context, userID, postID string) (*models.PublicPost, error)
	Downvote(ctx context.Context, userID, postID string) (*models.PublicPost, error)
}

type postService struct {
	posts    repository.PostRepository
	users    repository.UserRepository
	activity *kafka.ActivityPublisher
}

func NewPostService(posts repository.PostRepository, users repository.UserRepository, activity *kafka.ActivityPublisher) PostService {
	return &postService{posts: posts, users: users, activity: activity}
}

// authorName resolves the display name a post or comment is published under:
// the mask ID when anonymous, the username otherwise.
func (s *postService) authorName(ctx context.Context, userID string, anonymous bool) (string, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if anonymous {
		return user.Profile.MaskID, nil
	}
	return user.Username, nil
}

func (s *postService) Create(ctx context.Context, userID string, req models.CreatePostRequest) (*models.PublicPost, error) {
	author, err := s.authorName(ctx, userID, req.IsAnonymous)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		ID:          uuid.New().String(),
		UserID:      userID,
		Author:      author,
		Content:     req.Content,
		Tags:        req.Tags,
		IsAnonymous: req.IsAnonymous,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}

	s.activity.Publish(ctx, "post.created", userID, post.ID)
	return &models.PublicPost{Post: *post}, nil
}

func (s *postService) Get(ctx context.Context, id string) (*models.PublicPost, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return s.withVotes(ctx, post)
}

func (s *postService) List(ctx context.Context) ([]models.PublicPost, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, err
	}

	public := make([]models.PublicPost, 0, len(posts))
	for i := range posts {
		p, err := s.withVotes(ctx, &posts[i])
		if err != nil {
			return nil, err
		}
		public = append(public, *p)
	}
	return public, nil
}

func (s *postService) Update(ctx context.Context, userID, postID string, req models.UpdatePostRequest) (*models.PublicPost, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	if post.UserID != userID {
		return nil, ErrNotPostOwner
	}

	if req.Content != "" {
		post.Content = req.Content
	}
	if req.Tags != nil {
		post.Tags = req.Tags
	}
	if req.IsAnonymous != nil && *req.IsAnonymous != post.IsAnonymous {
		author, err := s.authorName(ctx, userID, *req.IsAnonymous)
		if err != nil {
			return nil, err
		}
		post.IsAnonymous = *req.IsAnonymous
		post.Author = author
	}

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.withVotes(ctx, post)
}

func (s *postService) Delete(ctx context.Context, userID, postID string) error {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPostNotFound
		}
		return err
	}
	if post.UserID != userID {
		return ErrNotPostOwner
	}
	return s.posts.Delete(ctx, postID)
}

func (s *postService) AddComment(ctx context.Context, userID, postID string, req models.CreateCommentRequest) (*models.Comment, error) {
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	author, err := s.authorName(ctx, userID, req.IsAnonymous)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ID:          uuid.New().String(),
		PostID:      postID,
		UserID:      userID,
		Author:      author,
		Content:     req.Content,
		IsAnonymous: req.IsAnonymous,
	}
	if err := s.posts.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *postService) DeleteComment(ctx context.Context, userID, postID, commentID string) error {
	comment, err := s.posts.FindComment(ctx, commentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCommentNotFound
		}
		return err
	}
	if comment.PostID != postID {
		return ErrCommentNotFound
	}
	if comment.UserID != userID {
		return ErrNotCommentOwner
	}
	return s.posts.DeleteComment(ctx, commentID)
}

func (s *postService) Upvote(ctx context.Context, userID, postID string) (*models.PublicPost, error) {
	return s.vote(ctx, userID, postID, 1)
}

func (s *postService) Downvote(ctx context.Context, userID, postID string) (*models.PublicPost, error) {
	return s.vote(ctx, userID, postID, -1)
}

// vote toggles: voting the same direction twice removes the vote, voting the
// opposite direction replaces it.
func (s *postService) vote(ctx context.Context, userID, postID string, value int) (*models.PublicPost, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	existing, err := s.posts.FindVote(ctx, postID, userID)
	switch {
	case err == nil && existing.Value == value:
		if err := s.posts.DeleteVote(ctx, postID, userID); err != nil {
			return nil, err
		}
	case err == nil || errors.Is(err, repository.ErrNotFound):
		vote := &models.PostVote{PostID: postID, UserID: userID, Value: value}
		if err := s.posts.UpsertVote(ctx, vote); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	return s.withVotes(ctx, post)
}

func (s *postService) withVotes(ctx context.Context, post *models.Post) (*models.PublicPost, error) {
	up, down, err := s.posts.CountVotes(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	return &models.PublicPost{Post: *post, Upvotes: up, Downvotes: down}, nil
}
