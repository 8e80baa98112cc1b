package usecase

import "jobtrail-backend/internal/job/domain"

// JobUsecase defines the interface for tracked-application use cases
type JobUsecase interface {
	CreateJob(userID string, req CreateJobRequest) (*domain.Job, error)
	GetJobByID(userID, jobID string) (*domain.Job, error)
	GetUserJobs(userID string, status *string, limit, offset int) ([]*domain.Job, int64, error)
	UpdateJob(userID, jobID string, updates JobUpdateRequest) (*domain.Job, error)
	// ResetStatus is the explicit user override of the application status;
	// unlike the monitor's reconciler it may move backward
	ResetStatus(userID, jobID, status string) (*domain.Job, error)
	DeleteJob(userID, jobID string) error
}

// CreateJobRequest carries the fields the extension scrapes off a posting
type CreateJobRequest struct {
	JobURL      string  `json:"job_url" binding:"required"`
	CompanyName string  `json:"company_name" binding:"required"`
	JobTitle    string  `json:"job_title" binding:"required"`
	Status      string  `json:"status,omitempty"`
	AppliedDate *string `json:"applied_date,omitempty"` // RFC 3339
}

// JobUpdateRequest carries partial updates; nil fields are untouched
type JobUpdateRequest struct {
	CompanyName *string `json:"company_name,omitempty"`
	JobTitle    *string `json:"job_title,omitempty"`
	JobURL      *string `json:"job_url,omitempty"`
	AppliedDate *string `json:"applied_date,omitempty"` // RFC 3339, empty string clears
}
