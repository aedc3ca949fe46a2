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
	ErrJobNotFound         = errors.New("job not found")
	ErrNotJobOwner         = errors.New("not the job owner")
	ErrOwnJobApplication   = errors.New("cannot apply to your own job")
	ErrAlreadyApplied      = errors.New("already applied to this job")
	ErrApplicationNotFound = errors.New("application not found")
	ErrBadApplicationState = errors.New("invalid application status")
)

type JobService interface {
	Create(ctx context.Context, userID string, req models.CreateJobRequest) (*models.JobWithAuthor, error)
	Get(ctx context.Context, id string) (*models.JobWithAuthor, error)
	List(ctx context.Context) ([]models.JobWithAuthor, error)
	Update(ctx context.Context, userID, jobID string, req models.UpdateJobRequest) (*models.JobWithAuthor, error)
	Delete(ctx context.Context, userID, jobID string) error
	Apply(ctx context.Context, userID, jobID string, req models.ApplyJobRequest) (*models.JobApplication, error)
	ListApplications(ctx context.Context, userID, jobID string) ([]models.ApplicationInfo, error)
	UpdateApplication(ctx context.Context, userID, jobID, applicationID, status string) (*models.JobApplication, error)
}

type jobService struct {
	jobs     repository.JobRepository
	activity *kafka.ActivityPublisher
}

func NewJobService(jobs repository.JobRepository, activity *kafka.ActivityPublisher) JobService {
	return &jobService{jobs: jobs, activity: activity}
}

func (s *jobService) Create(ctx context.Context, userID string, req models.CreateJobRequest) (*models.JobWithAuthor, error) {
	job := &models.Job{
		ID:             uuid.New().String(),
		UserID:         userID,
		Title:          req.Title,
		Description:    req.Description,
		Price:          req.Price,
		ContractPeriod: req.ContractPeriod,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, err
	}

	s.activity.Publish(ctx, "job.created", userID, job.ID)
	return s.Get(ctx, job.ID)
}

func (s *jobService) Get(ctx context.Context, id string) (*models.JobWithAuthor, error) {
	job, err := s.jobs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return withAuthor(job), nil
}

func (s *jobService) List(ctx context.Context) ([]models.JobWithAuthor, error) {
	jobs, err := s.jobs.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.JobWithAuthor, 0, len(jobs))
	for i := range jobs {
		out = append(out, *withAuthor(&jobs[i]))
	}
	return out, nil
}

func (s *jobService) Update(ctx context.Context, userID, jobID string, req models.UpdateJobRequest) (*models.JobWithAuthor, error) {
	job, err := s.owned(ctx, userID, jobID)
	if err != nil {
		return nil, err
	}

	if req.Title != "" {
		job.Title = req.Title
	}
	if req.Description != "" {
		job.Description = req.Description
	}
	if req.Price != 0 {
		job.Price = req.Price
	}
	if req.ContractPeriod != "" {
		job.ContractPeriod = req.ContractPeriod
	}
	if req.IsComplete != nil {
		job.IsComplete = *req.IsComplete
	}

	if err := s.jobs.Update(ctx, job); err != nil {
		return nil, err
	}
	return withAuthor(job), nil
}

func (s *jobService) Delete(ctx context.Context, userID, jobID string) error {
	if _, err := s.owned(ctx, userID, jobID); err != nil {
		return err
	}
	return s.jobs.Delete(ctx, jobID)
}

func (s *jobService) Apply(ctx context.Context, userID, jobID string, req models.ApplyJobRequest) (*models.JobApplication, error) {
	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	if job.UserID == userID {
		return nil, ErrOwnJobApplication
	}

	applied, err := s.jobs.HasApplied(ctx, jobID, userID)
	if err != nil {
		return nil, err
	}
	if applied {
		return nil, ErrAlreadyApplied
	}

	app := &models.JobApplication{
		ID:          uuid.New().String(),
		JobID:       jobID,
		ApplicantID: userID,
		Message:     req.Message,
		Status:      models.ApplicationPending,
	}
	if err := s.jobs.CreateApplication(ctx, app); err != nil {
		return nil, err
	}

	s.activity.Publish(ctx, "job.applied", userID, jobID)
	return app, nil
}

// ListApplications is restricted to the job's author.
func (s *jobService) ListApplications(ctx context.Context, userID, jobID string) ([]models.ApplicationInfo, error) {
	if _, err := s.owned(ctx, userID, jobID); err != nil {
		return nil, err
	}

	apps, err := s.jobs.ListApplications(ctx, jobID)
	if err != nil {
		return nil, err
	}

	out := make([]models.ApplicationInfo, 0, len(apps))
	for _, a := range apps {
		out = append(out, models.ApplicationInfo{
			ApplicationID: a.ID,
			Status:        a.Status,
			Message:       a.Message,
			CreatedAt:     a.CreatedAt,
			Applicant: models.PublicUser{
				UserID:   a.ApplicantID,
				Username: a.Applicant.Username,
				Name:     a.Applicant.Name,
			},
		})
	}
	return out, nil
}

func (s *jobService) UpdateApplication(ctx context.Context, userID, jobID, applicationID, status string) (*models.JobApplication, error) {
	if status != models.ApplicationAccepted && status != models.ApplicationRejected {
		return nil, ErrBadApplicationState
	}
	if _, err := s.owned(ctx, userID, jobID); err != nil {
		return nil, err
	}

	app, err := s.jobs.FindApplication(ctx, applicationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	if app.JobID != jobID {
		return nil, ErrApplicationNotFound
	}

	app.Status = status
	if err := s.jobs.UpdateApplication(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

func (s *jobService) owned(ctx context.Context, userID, jobID string) (*models.Job, error) {
	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	if job.UserID != userID {
		return nil, ErrNotJobOwner
	}
	return job, nil
}

func withAuthor(job *models.Job) *models.JobWithAuthor {
	return &models.JobWithAuthor{
		Job: *job,
		Author: models.PublicUser{
			UserID:   job.UserID,
			Username: job.User.Username,
			Name:     job.User.Name,
		},
	}
}
