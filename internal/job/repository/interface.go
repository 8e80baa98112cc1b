package repository

import "jobtrail-backend/internal/job/domain"

// JobRepository defines the interface for tracked-application data access
type JobRepository interface {
	Create(job *domain.Job) error
	FindByID(userID, id string) (*domain.Job, error)
	FindByUserID(userID string, status *domain.ApplicationStatus, limit, offset int) ([]*domain.Job, int64, error)
	// FindAllByUser returns every job of the user, for URL matching
	FindAllByUser(userID string) ([]*domain.Job, error)
	// FindOpenByCompany returns non-terminal jobs whose normalized company
	// name equals companyNorm, most recent applied_date first
	FindOpenByCompany(userID, companyNorm string) ([]*domain.Job, error)
	Update(job *domain.Job) error
	// ResetStatus is the explicit user-driven status override, the only
	// legal backward move
	ResetStatus(userID, id string, status domain.ApplicationStatus) error
	Delete(userID, id string) error
}
