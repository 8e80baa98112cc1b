package usecase

import (
	"errors"
	"time"

	"jobtrail-backend/internal/job/domain"
	"jobtrail-backend/internal/job/repository"
)

var ErrJobNotFound = errors.New("job not found")

// jobUsecase implements JobUsecase
type jobUsecase struct {
	jobRepo repository.JobRepository
}

// NewJobUsecase creates a new instance of jobUsecase
func NewJobUsecase(jobRepo repository.JobRepository) JobUsecase {
	return &jobUsecase{jobRepo: jobRepo}
}

func (u *jobUsecase) CreateJob(userID string, req CreateJobRequest) (*domain.Job, error) {
	status := domain.StatusViewed
	if req.Status != "" {
		status = domain.ApplicationStatus(req.Status)
		if !status.IsValid() {
			return nil, errors.New("invalid application status: " + req.Status)
		}
	}

	job := &domain.Job{
		UserID:            userID,
		JobURL:            req.JobURL,
		CompanyName:       req.CompanyName,
		JobTitle:          req.JobTitle,
		ApplicationStatus: status,
		LastSeenAt:        time.Now(),
	}

	if req.AppliedDate != nil && *req.AppliedDate != "" {
		parsed, err := time.Parse(time.RFC3339, *req.AppliedDate)
		if err != nil {
			return nil, errors.New("invalid applied_date, expected RFC 3339")
		}
		job.AppliedDate = &parsed
	}

	if err := u.jobRepo.Create(job); err != nil {
		return nil, err
	}
	return job, nil
}

func (u *jobUsecase) GetJobByID(userID, jobID string) (*domain.Job, error) {
	job, err := u.jobRepo.FindByID(userID, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, ErrJobNotFound
	}
	return job, nil
}

func (u *jobUsecase) GetUserJobs(userID string, status *string, limit, offset int) ([]*domain.Job, int64, error) {
	var statusFilter *domain.ApplicationStatus
	if status != nil && *status != "" {
		s := domain.ApplicationStatus(*status)
		if !s.IsValid() {
			return nil, 0, errors.New("invalid application status: " + *status)
		}
		statusFilter = &s
	}

	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	return u.jobRepo.FindByUserID(userID, statusFilter, limit, offset)
}

func (u *jobUsecase) UpdateJob(userID, jobID string, updates JobUpdateRequest) (*domain.Job, error) {
	job, err := u.GetJobByID(userID, jobID)
	if err != nil {
		return nil, err
	}

	if updates.CompanyName != nil {
		job.CompanyName = *updates.CompanyName
	}
	if updates.JobTitle != nil {
		job.JobTitle = *updates.JobTitle
	}
	if updates.JobURL != nil {
		job.JobURL = *updates.JobURL
	}
	if updates.AppliedDate != nil {
		if *updates.AppliedDate == "" {
			job.AppliedDate = nil
		} else {
			parsed, err := time.Parse(time.RFC3339, *updates.AppliedDate)
			if err != nil {
				return nil, errors.New("invalid applied_date, expected RFC 3339")
			}
			job.AppliedDate = &parsed
		}
	}
	job.LastSeenAt = time.Now()

	if err := u.jobRepo.Update(job); err != nil {
		return nil, err
	}
	return job, nil
}

func (u *jobUsecase) ResetStatus(userID, jobID, status string) (*domain.Job, error) {
	s := domain.ApplicationStatus(status)
	if !s.IsValid() {
		return nil, errors.New("invalid application status: " + status)
	}

	if err := u.jobRepo.ResetStatus(userID, jobID, s); err != nil {
		return nil, ErrJobNotFound
	}
	return u.GetJobByID(userID, jobID)
}

func (u *jobUsecase) DeleteJob(userID, jobID string) error {
	job, err := u.GetJobByID(userID, jobID)
	if err != nil {
		return err
	}
	return u.jobRepo.Delete(userID, job.ID)
}
