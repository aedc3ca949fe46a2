package service

import (
	"context"

	"maskoff-server/internal/adapters/kafka"
	"maskoff-server/internal/models"
	"maskoff-server/internal/repository"

	"github.com/google/uuid"
)

// Introductions keep only the most recent entries visible.
const introductionFeedLimit = 50

type IntroductionService interface {
	Create(ctx context.Context, userID, content string) (*models.Introduction, error)
	ListRecent(ctx context.Context) ([]models.Introduction, error)
}

type introductionService struct {
	intros   repository.IntroductionRepository
	users    repository.UserRepository
	activity *kafka.ActivityPublisher
}

func NewIntroductionService(intros repository.IntroductionRepository, users repository.UserRepository, activity *kafka.ActivityPublisher) IntroductionService {
	return &introductionService{intros: intros, users: users, activity: activity}
}

func (s *introductionService) Create(ctx context.Context, userID, content string) (*models.Introduction, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	intro := &models.Introduction{
		ID:      uuid.New().String(),
		UserID:  userID,
		Author:  user.Username,
		Content: content,
	}
	if err := s.intros.Create(ctx, intro); err != nil {
		return nil, err
	}

	s.activity.Publish(ctx, "introduction.created", userID, intro.ID)
	return intro, nil
}

func (s *introductionService) ListRecent(ctx context.Context) ([]models.Introduction, error) {
	return s.intros.ListRecent(ctx, introductionFeedLimit)
}
