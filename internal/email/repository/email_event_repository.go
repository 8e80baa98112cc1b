package repository

import (
	"errors"
	"time"

	emaildomain "jobtrail-backend/internal/email/domain"
	jobdomain "jobtrail-backend/internal/job/domain"
	"jobtrail-backend/pkg/fuzzy"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// emailEventRepository implements EmailEventRepository using GORM
type emailEventRepository struct {
	db *gorm.DB
}

// NewEmailEventRepository creates a new instance of emailEventRepository
func NewEmailEventRepository(db *gorm.DB) EmailEventRepository {
	return &emailEventRepository{db: db}
}

func (r *emailEventRepository) ExistsByMessageID(userID, messageID string) (bool, error) {
	var count int64
	err := r.db.Model(&emaildomain.EmailEvent{}).
		Where("user_id = ? AND message_id = ?", userID, messageID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *emailEventRepository) ExistsByDedupKey(userID, dedupKey string, since time.Time) (bool, error) {
	var count int64
	err := r.db.Model(&emaildomain.EmailEvent{}).
		Where("user_id = ? AND dedup_key = ? AND received_at >= ?", userID, dedupKey, since).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateWithJobStatus writes the event and the optional job status change
// as one transaction — the atomic unit the reconciler relies on
func (r *emailEventRepository) CreateWithJobStatus(event *emaildomain.EmailEvent, job *jobdomain.Job, newStatus jobdomain.ApplicationStatus) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	now := time.Now()
	event.CreatedAt = now
	if event.ProcessedAt.IsZero() {
		event.ProcessedAt = now
	}
	if event.Metadata == nil {
		event.Metadata = emaildomain.EventMetadata{}
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(event).Error; err != nil {
			return err
		}
		if job == nil {
			return nil
		}
		result := tx.Model(&jobdomain.Job{}).
			Where("user_id = ? AND id = ?", event.UserID, job.ID).
			Updates(map[string]interface{}{
				"application_status": newStatus,
				"last_seen_at":       now,
				"updated_at":         now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errors.New("job vanished during reconciliation")
		}
		return nil
	})
}

func (r *emailEventRepository) FindByID(userID, id string) (*emaildomain.EmailEvent, error) {
	var event emaildomain.EmailEvent
	err := r.db.Where("user_id = ? AND id = ?", userID, id).First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &event, nil
}

func (r *emailEventRepository) ListByUser(userID string, filters EventFilters, limit, offset int) ([]*emaildomain.EmailEvent, int64, error) {
	query := r.db.Model(&emaildomain.EmailEvent{}).Where("user_id = ?", userID)

	if filters.Type != "" {
		query = query.Where("type = ?", filters.Type)
	}
	if filters.JobID != "" {
		query = query.Where("job_id = ?", filters.JobID)
	}
	if filters.MatchedOnly {
		query = query.Where("job_id IS NOT NULL")
	}

	var events []*emaildomain.EmailEvent
	var total int64

	// The fuzzy query filter is applied in memory, so fetch without
	// pagination first when it is present
	if filters.Query != "" {
		if err := query.Order("received_at DESC").Find(&events).Error; err != nil {
			return nil, 0, err
		}
		filtered := make([]*emaildomain.EmailEvent, 0, len(events))
		for _, e := range events {
			if fuzzy.FuzzyMatch(filters.Query, e.Subject, 2) || fuzzy.FuzzyMatch(filters.Query, e.FromAddress, 2) {
				filtered = append(filtered, e)
			}
		}
		total = int64(len(filtered))
		if offset >= len(filtered) {
			return []*emaildomain.EmailEvent{}, total, nil
		}
		end := offset + limit
		if end > len(filtered) {
			end = len(filtered)
		}
		return filtered[offset:end], total, nil
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("received_at DESC").Limit(limit).Offset(offset).Find(&events).Error
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func (r *emailEventRepository) Delete(userID, id string) error {
	result := r.db.Where("user_id = ? AND id = ?", userID, id).Delete(&emaildomain.EmailEvent{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *emailEventRepository) BulkDelete(userID string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.Where("user_id = ? AND id IN ?", userID, ids).Delete(&emaildomain.EmailEvent{})
	return result.RowsAffected, result.Error
}
