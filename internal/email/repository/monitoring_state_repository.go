package repository

import (
	"errors"
	"time"

	emaildomain "jobtrail-backend/internal/email/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// monitoringStateRepository implements MonitoringStateRepository using GORM
type monitoringStateRepository struct {
	db *gorm.DB
}

// NewMonitoringStateRepository creates a new instance of monitoringStateRepository
func NewMonitoringStateRepository(db *gorm.DB) MonitoringStateRepository {
	return &monitoringStateRepository{db: db}
}

func (r *monitoringStateRepository) Get(userID string) (*emaildomain.MonitoringState, error) {
	var state emaildomain.MonitoringState
	err := r.db.Where("user_id = ?", userID).First(&state).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &state, nil
}

func (r *monitoringStateRepository) Upsert(state *emaildomain.MonitoringState) error {
	now := time.Now()
	if state.CreatedAt.IsZero() {
		state.CreatedAt = now
	}
	state.UpdatedAt = now
	// The watermark is deliberately absent from the update set: it is
	// owned by AdvanceWatermark, and writing back a stale read here could
	// rewind it under a concurrently finishing cycle
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"active", "interval_minutes", "updated_at",
		}),
	}).Create(state).Error
}

// TryAcquireRun relies on a single conditional UPDATE so two racing cycles
// can never both win: the row-level lock serializes them and only the
// first sees running=false
func (r *monitoringStateRepository) TryAcquireRun(userID string) (bool, error) {
	result := r.db.Model(&emaildomain.MonitoringState{}).
		Where("user_id = ? AND running = ?", userID, false).
		Updates(map[string]interface{}{
			"running":    true,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *monitoringStateRepository) ReleaseRun(userID string, checkedAt time.Time, lastError string) error {
	return r.db.Model(&emaildomain.MonitoringState{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"running":         false,
			"last_checked_at": checkedAt,
			"last_error":      lastError,
			"updated_at":      time.Now(),
		}).Error
}

func (r *monitoringStateRepository) AdvanceWatermark(userID string, watermark time.Time) error {
	return r.db.Model(&emaildomain.MonitoringState{}).
		Where("user_id = ? AND watermark < ?", userID, watermark).
		Updates(map[string]interface{}{
			"watermark":  watermark,
			"updated_at": time.Now(),
		}).Error
}

func (r *monitoringStateRepository) ClearStaleRuns() error {
	return r.db.Model(&emaildomain.MonitoringState{}).
		Where("running = ?", true).
		Updates(map[string]interface{}{
			"running":    false,
			"updated_at": time.Now(),
		}).Error
}

func (r *monitoringStateRepository) ListActive() ([]*emaildomain.MonitoringState, error) {
	var states []*emaildomain.MonitoringState
	err := r.db.Where("active = ?", true).Find(&states).Error
	if err != nil {
		return nil, err
	}
	return states, nil
}
