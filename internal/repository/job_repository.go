package repository

import (
	"context"
	"errors"

	"maskoff-server/internal/models"

	"gorm.io/gorm"
)

type JobRepository interface {
	Create(ctx context.Context, job *models.Job) error
	FindByID(ctx context.Context, id string) (*models.Job, error)
	List(ctx context.Context) ([]models.Job, error)
	Update(ctx context.Context, job *models.Job) error
	Delete(ctx context.Context, id string) error
	CreateApplication(ctx context.Context, app *models.JobApplication) error
	FindApplication(ctx context.Context, id string) (*models.JobApplication, error)
	HasApplied(ctx context.Context, jobID, applicantID string) (bool, error)
	ListApplications(ctx context.Context, jobID string) ([]models.JobApplication, error)
	UpdateApplication(ctx context.Context, app *models.JobApplication) error
}

type jobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

func (r *jobRepository) Create(ctx context.Context, job *models.Job) error {
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *jobRepository) FindByID(ctx context.Context, id string) (*models.Job, error) {
	var job models.Job
	err := r.db.WithContext(ctx).Preload("User.Profile").First(&job, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (r *jobRepository) List(ctx context.Context) ([]models.Job, error) {
	var jobs []models.Job
	err := r.db.WithContext(ctx).
		Preload("User.Profile").
		Order("created_at DESC").
		Find(&jobs).Error
	return jobs, err
}

func (r *jobRepository) Update(ctx context.Context, job *models.Job) error {
	return r.db.WithContext(ctx).Save(job).Error
}

func (r *jobRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.JobApplication{}, "job_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Job{}, "id = ?", id).Error
	})
}

func (r *jobRepository) CreateApplication(ctx context.Context, app *models.JobApplication) error {
	return r.db.WithContext(ctx).Create(app).Error
}

func (r *jobRepository) FindApplication(ctx context.Context, id string) (*models.JobApplication, error) {
	var app models.JobApplication
	err := r.db.WithContext(ctx).Preload("Applicant.Profile").First(&app, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &app, nil
}

func (r *jobRepository) HasApplied(ctx context.Context, jobID, applicantID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.JobApplication{}).
		Where("job_id = ? AND applicant_id = ?", jobID, applicantID).
		Count(&count).Error
	return count > 0, err
}

func (r *jobRepository) ListApplications(ctx context.Context, jobID string) ([]models.JobApplication, error) {
	var apps []models.JobApplication
	err := r.db.WithContext(ctx).
		Preload("Applicant.Profile").
		Where("job_id = ?", jobID).
		Order("created_at ASC").
		Find(&apps).Error
	return apps, err
}

func (r *jobRepository) UpdateApplication(ctx context.Context, app *models.JobApplication) error {
	return r.db.WithContext(ctx).Save(app).Error
}
