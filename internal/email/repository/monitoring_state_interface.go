package repository

import (
	"time"

	emaildomain "jobtrail-backend/internal/email/domain"
)

// MonitoringStateRepository defines the interface for per-user monitoring
// state. TryAcquireRun/ReleaseRun implement the mutual exclusion between a
// scheduled tick and an on-demand check.
type MonitoringStateRepository interface {
	Get(userID string) (*emaildomain.MonitoringState, error)
	// Upsert creates or updates the row. The watermark is written on
	// insert only; existing rows keep theirs (AdvanceWatermark owns it).
	Upsert(state *emaildomain.MonitoringState) error
	// TryAcquireRun atomically flips running from false to true.
	// Returns false without error when another cycle holds the flag.
	TryAcquireRun(userID string) (bool, error)
	// ReleaseRun clears running and records the cycle outcome
	ReleaseRun(userID string, checkedAt time.Time, lastError string) error
	// AdvanceWatermark moves the watermark forward; called only after a
	// fully successful cycle
	AdvanceWatermark(userID string, watermark time.Time) error
	// ListActive returns every active state, for resuming loops on boot
	ListActive() ([]*emaildomain.MonitoringState, error)
	// ClearStaleRuns resets run flags left behind by a crash, so restarted
	// loops are not locked out forever
	ClearStaleRuns() error
}
