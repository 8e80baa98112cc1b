package repository

import (
	"errors"
	"time"

	"jobtrail-backend/internal/job/domain"
	"jobtrail-backend/pkg/fuzzy"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// gormJobRepository implements JobRepository using GORM
type gormJobRepository struct {
	db *gorm.DB
}

// NewJobRepository creates a new GORM-based JobRepository
func NewJobRepository(db *gorm.DB) JobRepository {
	return &gormJobRepository{db: db}
}

func (r *gormJobRepository) Create(job *domain.Job) error {
	if job.ID == "" {
		job.ID = uuid.New().String()
	}
	if job.ApplicationStatus == "" {
		job.ApplicationStatus = domain.StatusViewed
	}
	job.CompanyNorm = fuzzy.NormalizeCompany(job.CompanyName)
	now := time.Now()
	job.CreatedAt = now
	job.UpdatedAt = now
	if job.LastSeenAt.IsZero() {
		job.LastSeenAt = now
	}
	return r.db.Create(job).Error
}

func (r *gormJobRepository) FindByID(userID, id string) (*domain.Job, error) {
	var job domain.Job
	err := r.db.Where("user_id = ? AND id = ?", userID, id).First(&job).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}

func (r *gormJobRepository) FindByUserID(userID string, status *domain.ApplicationStatus, limit, offset int) ([]*domain.Job, int64, error) {
	var jobs []*domain.Job
	var total int64

	query := r.db.Model(&domain.Job{}).Where("user_id = ?", userID)
	if status != nil {
		query = query.Where("application_status = ?", *status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("last_seen_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&jobs).Error
	if err != nil {
		return nil, 0, err
	}

	return jobs, total, nil
}

func (r *gormJobRepository) FindAllByUser(userID string) ([]*domain.Job, error) {
	var jobs []*domain.Job
	err := r.db.Where("user_id = ?", userID).Find(&jobs).Error
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *gormJobRepository) FindOpenByCompany(userID, companyNorm string) ([]*domain.Job, error) {
	var jobs []*domain.Job
	err := r.db.
		Where("user_id = ? AND company_norm = ?", userID, companyNorm).
		Where("application_status NOT IN ?", []domain.ApplicationStatus{domain.StatusRejected, domain.StatusOffer}).
		Order("CASE WHEN applied_date IS NULL THEN 1 ELSE 0 END, applied_date DESC, created_at DESC").
		Find(&jobs).Error
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *gormJobRepository) Update(job *domain.Job) error {
	job.CompanyNorm = fuzzy.NormalizeCompany(job.CompanyName)
	job.UpdatedAt = time.Now()
	return r.db.Save(job).Error
}

func (r *gormJobRepository) ResetStatus(userID, id string, status domain.ApplicationStatus) error {
	result := r.db.Model(&domain.Job{}).
		Where("user_id = ? AND id = ?", userID, id).
		Updates(map[string]interface{}{
			"application_status": status,
			"updated_at":         time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *gormJobRepository) Delete(userID, id string) error {
	return r.db.Where("user_id = ? AND id = ?", userID, id).Delete(&domain.Job{}).Error
}
