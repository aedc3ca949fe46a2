package repository

import (
	"context"
	"errors"

	"maskoff-server/internal/models"

	"gorm.io/gorm"
)

type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	FindByID(ctx context.Context, id string) (*models.Post, error)
	List(ctx context.Context) ([]models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id string) error
	CreateComment(ctx context.Context, comment *models.Comment) error
	FindComment(ctx context.Context, id string) (*models.Comment, error)
	DeleteComment(ctx context.Context, id string) error
	FindVote(ctx context.Context, postID, userID string) (*models.PostVote, error)
	UpsertVote(ctx context.Context, vote *models.PostVote) error
	DeleteVote(ctx context.Context, postID, userID string) error
	CountVotes(ctx context.Context, postID string) (up int, down int, err error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) FindByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at ASC")
		}).
		First(&post, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at ASC")
		}).
		Order("created_at DESC").
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Save(post).Error
}

func (r *postRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Select("Comments", "Votes").Delete(&models.Post{ID: id}).Error
}

func (r *postRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *postRepository) FindComment(ctx context.Context, id string) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).First(&comment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &comment, nil
}

func (r *postRepository) DeleteComment(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Comment{}, "id = ?", id).Error
}

func (r *postRepository) FindVote(ctx context.Context, postID, userID string) (*models.PostVote, error) {
	var vote models.PostVote
	err := r.db.WithContext(ctx).First(&vote, "post_id = ? AND user_id = ?", postID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &vote, nil
}

func (r *postRepository) UpsertVote(ctx context.Context, vote *models.PostVote) error {
	return r.db.WithContext(ctx).Save(vote).Error
}

func (r *postRepository) DeleteVote(ctx context.Context, postID, userID string) error {
	return r.db.WithContext(ctx).
		Delete(&models.PostVote{}, "post_id = ? AND user_id = ?", postID, userID).Error
}

func (r *postRepository) CountVotes(ctx context.Context, postID string) (int, int, error) {
	var up, down int64
	if err := r.db.WithContext(ctx).Model(&models.PostVote{}).
		Where("post_id = ? AND value = 1", postID).Count(&up).Error; err != nil {
		return 0, 0, err
	}
	if err := r.db.WithContext(ctx).Model(&models.PostVote{}).
		Where("post_id = ? AND value = -1", postID).Count(&down).Error; err != nil {
		return 0, 0, err
	}
	return int(up), int(down), nil
}
