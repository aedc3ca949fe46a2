package models

import "time"

type Job struct {
	ID             string    `gorm:"primaryKey;size:36" json:"jobID"`
	UserID         string    `gorm:"size:36;index;not null" json:"-"`
	Title          string    `gorm:"not null" json:"title"`
	Description    string    `gorm:"not null" json:"description"`
	Price          int64     `gorm:"not null" json:"price"`
	ContractPeriod string    `gorm:"not null" json:"contractPeriod"`
	IsComplete     bool      `gorm:"default:false" json:"isComplete"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

const (
	ApplicationPending  = "pending"
	ApplicationAccepted = "accepted"
	ApplicationRejected = "rejected"
)

// JobApplication is unique per (job, applicant); re-applying is rejected.
type JobApplication struct {
	ID          string    `gorm:"primaryKey;size:36" json:"applicationID"`
	JobID       string    `gorm:"size:36;index:idx_job_applicant,unique;not null" json:"-"`
	ApplicantID string    `gorm:"size:36;index:idx_job_applicant,unique;not null" json:"-"`
	Message     string    `json:"message"`
	Status      string    `gorm:"default:pending" json:"status"`
	CreatedAt   time.Time `json:"createdAt"`

	Applicant User `gorm:"foreignKey:ApplicantID" json:"-"`
}

// JobWithAuthor decorates a job with the poster's public persona.
type JobWithAuthor struct {
	Job
	Author PublicUser `json:"user"`
}

type CreateJobRequest struct {
	Title          string `json:"title" binding:"required"`
	Description    string `json:"description" binding:"required"`
	Price          int64  `json:"price" binding:"required"`
	ContractPeriod string `json:"contractPeriod" binding:"required"`
}

type UpdateJobRequest struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	Price          int64  `json:"price"`
	ContractPeriod string `json:"contractPeriod"`
	IsComplete     *bool  `json:"isComplete"`
}

type ApplyJobRequest struct {
	Message string `json:"message"`
}

type UpdateApplicationRequest struct {
	Status string `json:"status" binding:"required"`
}

// ApplicationInfo is the author-facing listing shape.
type ApplicationInfo struct {
	ApplicationID string     `json:"applicationID"`
	Status        string     `json:"status"`
	Message       string     `json:"message"`
	CreatedAt     time.Time  `json:"createdAt"`
	Applicant     PublicUser `json:"applicant"`
}
